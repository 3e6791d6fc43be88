package storage

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/world"
	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

type fakeBlockRegistry struct {
	byID map[int]*gamedata.Block
}

func (f fakeBlockRegistry) ByID(id int) (*gamedata.Block, bool) {
	if id == gamedata.Air.ID {
		return gamedata.Air, true
	}
	b, ok := f.byID[id]
	return b, ok
}
func (f fakeBlockRegistry) ByName(string) (*gamedata.Block, bool) { return nil, false }
func (f fakeBlockRegistry) All() []*gamedata.Block                { return nil }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "world"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadPlayerRoundTrip(t *testing.T) {
	s := openTestStore(t)

	side, game := conn.NewConnectionPair()
	defer side.Close()
	p := players.New(1, uuid.New(), "Alex", game, 4)
	p.Pos = mgl64.Vec3{10, 65, -3}
	p.Yaw, p.Pitch = 90, 12.5
	p.Inventory = []players.InventoryItem{{Count: 1, Slot: 0, ID: "stone"}}

	if err := s.SavePlayer(p); err != nil {
		t.Fatalf("SavePlayer: %v", err)
	}

	rec, ok, err := s.LoadPlayer(p.UUID)
	if err != nil {
		t.Fatalf("LoadPlayer: %v", err)
	}
	if !ok {
		t.Fatal("expected a persisted record")
	}
	if rec.Name != "Alex" || rec.X != 10 || rec.Y != 65 || rec.Z != -3 {
		t.Errorf("got %+v, want position (10,65,-3) for Alex", rec)
	}
	if len(rec.Inventory) != 1 || rec.Inventory[0].ID != "stone" {
		t.Errorf("inventory round-trip failed: %+v", rec.Inventory)
	}
}

func TestLoadPlayerMissingReturnsNotOK(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.LoadPlayer(uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a player never saved")
	}
}

func TestSaveLoadChunkRoundTrip(t *testing.T) {
	s := openTestStore(t)

	stone := &gamedata.Block{ID: 1, Name: "stone"}
	registry := fakeBlockRegistry{byID: map[int]*gamedata.Block{1: stone}}

	coords := world.ChunkCoords{X: 3, Z: -5}
	chunk := world.NewChunk(coords)
	chunk.SetBlock(4, 70, 9, stone)

	if err := s.SaveChunk(chunk); err != nil {
		t.Fatalf("SaveChunk: %v", err)
	}

	loaded, ok, err := s.LoadChunk(coords, registry)
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if !ok {
		t.Fatal("expected a persisted chunk")
	}
	if loaded.GetBlock(4, 70, 9) != stone {
		t.Errorf("block not restored at (4,70,9)")
	}
	if loaded.GetBlock(0, 0, 0) != gamedata.Air {
		t.Errorf("unwritten block should remain air")
	}
}

func TestLoadChunkMissingReturnsNotOK(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.LoadChunk(world.ChunkCoords{X: 99, Z: 99}, fakeBlockRegistry{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a chunk never saved")
	}
}
