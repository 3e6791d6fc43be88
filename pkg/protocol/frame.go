package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// maxFrameLen bounds a single framed packet's payload to guard against a
// hostile or corrupt length prefix forcing an enormous allocation.
const maxFrameLen = 1 << 21 // 2 MiB

// Packet is any struct that can identify its own wire ID. Encode/Decode
// are driven by struct tags through Marshal/Unmarshal (packet.go); a
// packet type only needs to supply its ID.
type Packet interface {
	PacketID() int32
}

// ReadRawPacket reads one length-prefixed frame — varint(len) || id ||
// payload — and splits out the packet ID from the remaining payload
// bytes. It does not know about individual packet structs.
func ReadRawPacket(r io.Reader) (id int32, payload []byte, err error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("read frame length: %w", err)
	}
	if length < 1 {
		return 0, nil, fmt.Errorf("frame length too small: %d", length)
	}
	if length > maxFrameLen {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrPacketTooLarge, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, nil, fmt.Errorf("read frame body: %w", err)
	}

	br := bytes.NewReader(buf)
	id, err = ReadVarInt(br)
	if err != nil {
		return 0, nil, fmt.Errorf("read packet id: %w", err)
	}
	payload = buf[len(buf)-br.Len():]
	return id, payload, nil
}

// WriteRawFrame writes varint(len) || id || payload as a single atomic
// frame, where len is the byte length of id||payload.
func WriteRawFrame(w io.Writer, id int32, payload []byte) error {
	idLen := VarIntSize(id)
	total := idLen + len(payload)

	var buf bytes.Buffer
	buf.Grow(VarIntSize(int32(total)) + total)
	if err := WriteVarInt(&buf, int32(total)); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if err := WriteVarInt(&buf, id); err != nil {
		return fmt.Errorf("write packet id: %w", err)
	}
	if _, err := buf.Write(payload); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WritePacket marshals p via its struct tags and flushes the resulting
// frame atomically.
func WritePacket(w io.Writer, p Packet) error {
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal packet 0x%02X: %w", p.PacketID(), err)
	}
	return WriteRawFrame(w, p.PacketID(), data)
}

// ReadPacket reads one frame and unmarshals it into p, failing if the
// frame's packet ID doesn't match p's.
func ReadPacket(r io.Reader, p Packet) error {
	id, data, err := ReadRawPacket(r)
	if err != nil {
		return err
	}
	if id != p.PacketID() {
		return fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrUnknownPacketID, p.PacketID(), id)
	}
	return Unmarshal(data, p)
}
