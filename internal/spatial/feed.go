package spatial

import (
	"errors"
	"sync"
)

// feedHistory bounds how many events a bucket retains for late
// subscribers. A cursor that falls further behind than this window
// cannot be replayed and must resync instead.
const feedHistory = 128

// ErrLagged is returned by Cursor.Drain when the cursor fell behind the
// feed's history window. The caller must reconcile by unsubscribing,
// resubscribing, and re-requesting the bucket's current occupants.
var ErrLagged = errors.New("spatial: cursor lagged past feed history")

// feed is a bounded-history fan-out log: every push is appended and the
// oldest entry is dropped once the window is full. Subscribers poll it
// with a monotonic sequence cursor rather than blocking on a channel,
// since every read happens synchronously inside the tick loop.
type feed struct {
	mu       sync.Mutex
	buf      []EntityEvent
	startSeq uint64 // sequence number of buf[0]
	nextSeq  uint64
}

func newFeed() *feed {
	return &feed{buf: make([]EntityEvent, 0, feedHistory)}
}

func (f *feed) push(e EntityEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.buf) == feedHistory {
		f.buf = f.buf[1:]
		f.startSeq++
	}
	f.buf = append(f.buf, e)
	f.nextSeq++
}

func (f *feed) subscribe() Cursor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Cursor{feed: f, seq: f.nextSeq}
}

// Cursor is a subscriber's read position into a bucket's feed.
type Cursor struct {
	feed *feed
	seq  uint64
}

// Drain returns every event pushed since the last Drain call. It never
// blocks. If the cursor fell behind the feed's retained history, it
// returns ErrLagged and resets to the feed's current tip.
func (c *Cursor) Drain() ([]EntityEvent, error) {
	f := c.feed
	f.mu.Lock()
	defer f.mu.Unlock()

	if c.seq < f.startSeq {
		c.seq = f.nextSeq
		return nil, ErrLagged
	}
	if c.seq == f.nextSeq {
		return nil, nil
	}
	offset := c.seq - f.startSeq
	out := make([]EntityEvent, len(f.buf)-int(offset))
	copy(out, f.buf[offset:])
	c.seq = f.nextSeq
	return out, nil
}
