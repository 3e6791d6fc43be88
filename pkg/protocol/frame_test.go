package protocol_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	hs := &protocol.Handshake{
		ProtocolVersion: 754,
		ServerAddress:   "host",
		ServerPort:      25565,
		NextState:       1,
	}
	if err := protocol.WritePacket(&buf, hs); err != nil {
		t.Fatal(err)
	}

	var got protocol.Handshake
	if err := protocol.ReadPacket(&buf, &got); err != nil {
		t.Fatal(err)
	}
	if got != *hs {
		t.Errorf("got %+v, want %+v", got, hs)
	}
}

func TestFrameIDMismatch(t *testing.T) {
	var buf bytes.Buffer
	_ = protocol.WritePacket(&buf, &protocol.LoginStart{Name: "Alex"})

	var hs protocol.Handshake
	if err := protocol.ReadPacket(&buf, &hs); err == nil {
		t.Fatal("expected packet ID mismatch error")
	}
}

func TestSpawnPlayerRoundTrip(t *testing.T) {
	id := uuid.NewMD5(uuid.Nil, []byte("Alex"))
	var raw [16]byte
	copy(raw[:], id[:])

	pkt := &protocol.SpawnPlayer{
		EntityID: 42,
		UUID:     raw,
		X:        10.5, Y: 64, Z: -3.25,
		Yaw: 90, Pitch: 0,
	}
	var buf bytes.Buffer
	if err := protocol.WritePacket(&buf, pkt); err != nil {
		t.Fatal(err)
	}
	var got protocol.SpawnPlayer
	if err := protocol.ReadPacket(&buf, &got); err != nil {
		t.Fatal(err)
	}
	if got.EntityID != pkt.EntityID || got.UUID != pkt.UUID {
		t.Errorf("got %+v", got)
	}
	if got.X != pkt.X || got.Z != pkt.Z {
		t.Errorf("position mismatch: %+v", got)
	}
}

func TestReadRawPacketRejectsOversized(t *testing.T) {
	var buf bytes.Buffer
	_ = protocol.WriteVarInt(&buf, 1<<22) // declares 4MiB, over the 2MiB cap
	if _, _, err := protocol.ReadRawPacket(&buf); err == nil {
		t.Fatal("expected oversized-frame error")
	}
}
