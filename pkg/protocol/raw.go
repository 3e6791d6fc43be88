package protocol

import "io"

// RawPacket carries an already-framed packet whose concrete type
// wasn't known at read time — the play-state inbound path decodes only
// as far as splitting out the id, and leaves interpreting Payload to
// whichever system cares about that id.
type RawPacket struct {
	ID      int32
	Payload []byte
}

func (p RawPacket) PacketID() int32 { return p.ID }

// ReadAny reads one frame into a RawPacket without requiring the
// caller to know its concrete packet type in advance.
func ReadAny(r io.Reader) (RawPacket, error) {
	id, payload, err := ReadRawPacket(r)
	if err != nil {
		return RawPacket{}, err
	}
	return RawPacket{ID: id, Payload: payload}, nil
}

// WriteAny writes a RawPacket's id||payload as a frame.
func WriteAny(w io.Writer, p RawPacket) error {
	return WriteRawFrame(w, p.ID, p.Payload)
}

// WriteFramedPacket writes any Packet, taking the RawPacket fast path
// when the caller already has pre-framed bytes instead of a tagged
// struct to marshal.
func WriteFramedPacket(w io.Writer, p Packet) error {
	if raw, ok := p.(RawPacket); ok {
		return WriteAny(w, raw)
	}
	return WritePacket(w, p)
}
