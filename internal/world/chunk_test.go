package world

import (
	"testing"

	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

func TestEmptyChunkIsAllAir(t *testing.T) {
	c := NewChunk(ChunkCoords{X: 0, Z: 0})
	if got := c.GetBlock(5, 70, 5); got != gamedata.Air {
		t.Fatalf("got %+v, want air", got)
	}
	if mask := c.SectionsBitmask(); mask != 0 {
		t.Fatalf("expected empty bitmask, got %b", mask)
	}
}

func TestSetBlockMaterializesSectionAndBitmask(t *testing.T) {
	c := NewChunk(ChunkCoords{X: 0, Z: 0})
	stone := &gamedata.Block{ID: 1, Name: "stone"}
	c.SetBlock(3, 70, 9, stone)

	if got := c.GetBlock(3, 70, 9); got != stone {
		t.Fatalf("got %+v, want stone", got)
	}
	wantSection := 70 / SectionWidth
	if mask := c.SectionsBitmask(); mask&(1<<uint(wantSection)) == 0 {
		t.Fatalf("expected bit %d set, got %b", wantSection, mask)
	}
}

func TestHeightmapTracksTopmostBlock(t *testing.T) {
	c := NewChunk(ChunkCoords{X: 0, Z: 0})
	stone := &gamedata.Block{ID: 1, Name: "stone"}
	c.SetBlock(0, 10, 0, stone)
	c.SetBlock(0, 40, 0, stone)

	hm := c.Heightmap()
	if got := hm[0]; got != 41 {
		t.Fatalf("heightmap[0] = %d, want 41", got)
	}

	c.SetBlock(0, 40, 0, gamedata.Air)
	hm = c.Heightmap()
	if got := hm[0]; got != 11 {
		t.Fatalf("after removing top block, heightmap[0] = %d, want 11", got)
	}
}
