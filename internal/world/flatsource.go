package world

import (
	"context"

	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

// FlatSource is the bundled ChunkSource: a flat world of stone up to a
// configurable height, three dirt layers, and a grass_block surface.
// World generation proper (spec §1) is an external collaborator the
// core only depends on through the ChunkSource interface; this is the
// zero-configuration stand-in, not a port of any terrain generator.
type FlatSource struct {
	blocks      gamedata.BlockRegistry
	groundLevel int
	stone       *gamedata.Block
	dirt        *gamedata.Block
	surface     *gamedata.Block
}

// NewFlatSource returns a FlatSource whose ground sits at groundLevel
// (the y of the topmost solid block), built from blocks registered in
// reg. Falls back to gamedata.Air for any name it can't resolve, so a
// BlockRegistry with a narrower palette than "minimal" still loads.
func NewFlatSource(reg gamedata.BlockRegistry, groundLevel int) *FlatSource {
	resolve := func(name string) *gamedata.Block {
		if b, ok := reg.ByName(name); ok {
			return b
		}
		return gamedata.Air
	}
	return &FlatSource{
		blocks:      reg,
		groundLevel: groundLevel,
		stone:       resolve("stone"),
		dirt:        resolve("dirt"),
		surface:     resolve("grass_block"),
	}
}

// LoadChunk fills the column with stone from y=0 up to groundLevel-4,
// dirt for the next three layers, and a surface block at groundLevel.
// Every column in every chunk is identical; there's no per-coordinate
// variation to generate.
func (s *FlatSource) LoadChunk(ctx context.Context, coords ChunkCoords) (*Chunk, error) {
	chunk := NewChunk(coords)
	if s.groundLevel <= 0 {
		return chunk, nil
	}

	dirtStart := s.groundLevel - 3
	if dirtStart < 0 {
		dirtStart = 0
	}

	for x := 0; x < SectionWidth; x++ {
		for z := 0; z < SectionWidth; z++ {
			for y := 0; y < dirtStart; y++ {
				chunk.SetBlock(x, y, z, s.stone)
			}
			for y := dirtStart; y < s.groundLevel; y++ {
				chunk.SetBlock(x, y, z, s.dirt)
			}
			chunk.SetBlock(x, s.groundLevel, z, s.surface)
		}
	}
	return chunk, nil
}
