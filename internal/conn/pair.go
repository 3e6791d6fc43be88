// Package conn implements the bidirectional channel pair bridging one
// TCP connection's async reader/writer tasks with the synchronous tick
// loop (spec component B).
package conn

import (
	"sync"

	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// InboundCapacity is the bounded inbound queue's fixed capacity.
const InboundCapacity = 256

type shared struct {
	inbound  chan protocol.Packet
	outbound *outboundQueue

	closeOnce sync.Once
	closed    chan struct{}
}

func newShared() *shared {
	return &shared{
		inbound:  make(chan protocol.Packet, InboundCapacity),
		outbound: newOutboundQueue(),
		closed:   make(chan struct{}),
	}
}

func (s *shared) close() {
	s.closeOnce.Do(func() {
		s.outbound.close()
		close(s.closed)
	})
}

// PlayerSide is owned by the connection's network tasks: the reader
// delivers decoded inbound packets and the writer drains outbound
// packets to write to the socket.
type PlayerSide struct {
	s *shared
}

// GameSide is owned by the tick loop: it drains inbound packets
// without waiting and enqueues outbound packets without blocking.
type GameSide struct {
	s *shared
}

// NewConnectionPair returns a freshly wired (PlayerSide, GameSide),
// bridging one network connection with one simulation entity.
func NewConnectionPair() (*PlayerSide, *GameSide) {
	s := newShared()
	return &PlayerSide{s: s}, &GameSide{s: s}
}

// DeliverInbound hands a decoded packet to the game side. If the
// bounded inbound queue is already full, it returns ErrInboundOverflow
// and the caller (the reader task) must disconnect the client.
func (p *PlayerSide) DeliverInbound(pkt protocol.Packet) error {
	select {
	case p.s.inbound <- pkt:
		return nil
	default:
		return ErrInboundOverflow
	}
}

// NextOutbound blocks until a packet is queued for the client or the
// connection is closed, in which case ok is false.
func (p *PlayerSide) NextOutbound() (pkt protocol.Packet, ok bool) {
	return p.s.outbound.pop()
}

// TryNextOutbound returns the next queued outbound packet without
// waiting for one to arrive.
func (p *PlayerSide) TryNextOutbound() (pkt protocol.Packet, ok bool) {
	return p.s.outbound.tryPop()
}

// Close tears down both channels. The reader and writer tasks should
// both observe this and terminate; any GameSide.Send afterward fails
// with ErrConnectionClosed.
func (p *PlayerSide) Close() {
	p.s.close()
}

// TryDrain returns every inbound packet currently queued, without
// waiting for more to arrive.
func (g *GameSide) TryDrain() []protocol.Packet {
	var out []protocol.Packet
	for {
		select {
		case pkt := <-g.s.inbound:
			out = append(out, pkt)
		default:
			return out
		}
	}
}

// Send enqueues a packet for delivery to the client. It never blocks.
// It fails with ErrConnectionClosed if the outbound half has already
// been torn down.
func (g *GameSide) Send(pkt protocol.Packet) error {
	return g.s.outbound.push(pkt)
}

// Close tears down both channels from the game side — used when the
// tick loop evicts a player (e.g. on KeepAliveTimeout).
func (g *GameSide) Close() {
	g.s.close()
}

// Closed reports whether either side has closed the connection.
func (g *GameSide) Closed() <-chan struct{} {
	return g.s.closed
}
