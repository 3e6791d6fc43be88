package conn

import "errors"

var (
	// ErrInboundOverflow is returned (and the client disconnected) when
	// the bounded inbound queue is full and the reader task has another
	// packet to deliver.
	ErrInboundOverflow = errors.New("conn: inbound queue overflow")

	// ErrConnectionClosed is returned by GameSide.Send when the
	// outbound half has already been torn down.
	ErrConnectionClosed = errors.New("conn: connection closed")

	// ErrProtocolError marks a handshake/login/status violation that
	// terminates the connection (e.g. an unrecognized intent value).
	ErrProtocolError = errors.New("conn: protocol error")

	// ErrKeepAliveTimeout is the reason the tick loop logs when it closes
	// a client that did not answer a KeepAlive within the grace ticks.
	ErrKeepAliveTimeout = errors.New("conn: keep-alive timeout")
)
