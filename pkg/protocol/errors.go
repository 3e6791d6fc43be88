package protocol

import "errors"

// Sentinel errors for the taxonomy described in spec §7. Callers check
// these with errors.Is; connection-level code decides whether to fail the
// connection silently or with a Disconnect packet based on which one it
// sees and what state the connection was in.
var (
	// ErrMalformedVarint is returned when a varint's continuation bit is
	// still set on its fifth byte.
	ErrMalformedVarint = errors.New("protocol: malformed varint")

	// ErrPositionOutOfRange is returned by EncodeBlockPosition when a
	// coordinate falls outside the 26/12/26-bit ranges the wire format
	// allows.
	ErrPositionOutOfRange = errors.New("protocol: block position out of range")

	// ErrPacketTooLarge is returned when a framed packet's declared length
	// exceeds the configured maximum.
	ErrPacketTooLarge = errors.New("protocol: packet too large")

	// ErrUnknownPacketID is returned when a decoder encounters a packet ID
	// it has no struct registered for in the current connection state.
	ErrUnknownPacketID = errors.New("protocol: unknown packet id")
)
