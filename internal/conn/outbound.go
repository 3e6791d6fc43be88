package conn

import (
	"sync"

	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// outboundQueue is an unbounded FIFO of packets awaiting the writer
// task. The game side must never block on a slow client, so Push
// always succeeds (append-only) instead of waiting for room; backed by
// a condition variable rather than a Go channel, since a Go channel's
// capacity is fixed at creation and this queue's is not. There is no
// library for this in the pack — it is a small enough primitive that
// every broadcast/queue-shaped dependency we looked at (xxhash,
// intintmap, fasthash) is orthogonal to it.
type outboundQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []protocol.Packet
	closed bool
}

func newOutboundQueue() *outboundQueue {
	q := &outboundQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues p. Returns ErrConnectionClosed if the queue has already
// been closed.
func (q *outboundQueue) push(p protocol.Packet) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrConnectionClosed
	}
	q.queue = append(q.queue, p)
	q.cond.Signal()
	return nil
}

// pop blocks until a packet is available or the queue is closed. The
// second return is false only once the queue is closed and drained.
func (q *outboundQueue) pop() (protocol.Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.queue) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.queue) == 0 {
		return nil, false
	}
	p := q.queue[0]
	q.queue = q.queue[1:]
	return p, true
}

// tryPop returns the head of the queue without waiting. ok is false
// if the queue is currently empty.
func (q *outboundQueue) tryPop() (p protocol.Packet, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return nil, false
	}
	p = q.queue[0]
	q.queue = q.queue[1:]
	return p, true
}

// close marks the queue closed, waking any blocked pop so the writer
// task can exit.
func (q *outboundQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
