package protocol_test

import (
	"bytes"
	"testing"

	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

func TestBuilderDestroyEntities(t *testing.T) {
	ids := []int32{1, 2, 300}
	b := protocol.NewBuilder().VarInt(int32(len(ids)))
	for _, id := range ids {
		b.VarInt(id)
	}
	data := b.Build()

	r := bytes.NewReader(data)
	count, err := protocol.ReadVarInt(r)
	if err != nil {
		t.Fatal(err)
	}
	if int(count) != len(ids) {
		t.Fatalf("count = %d, want %d", count, len(ids))
	}
	for _, want := range ids {
		got, err := protocol.ReadVarInt(r)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestBuilderChaining(t *testing.T) {
	data := protocol.NewBuilder().
		U8(1).
		Str("minecraft:brand").
		Angle(90).
		PositionDelta(1.5).
		Bool(true).
		Build()
	if len(data) == 0 {
		t.Fatal("expected non-empty payload")
	}
}
