package world

import (
	"sync"

	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

// ChunkHeight is the number of vertical blocks a chunk column spans.
const ChunkHeight = 256

// SectionWidth is the edge length of a chunk section cube.
const SectionWidth = 16

const numSections = ChunkHeight / SectionWidth

// Section is one 16x16x16 cube of a chunk column. A nil *Section
// (inside Chunk.sections) stands for an all-air section and is never
// materialized until something writes a block into it.
type Section struct {
	blocks [SectionWidth * SectionWidth * SectionWidth]*gamedata.Block
}

func newSection() *Section {
	s := &Section{}
	for i := range s.blocks {
		s.blocks[i] = gamedata.Air
	}
	return s
}

func sectionIndex(x, y, z int) int {
	return y*SectionWidth*SectionWidth + z*SectionWidth + x
}

func (s *Section) getBlock(x, y, z int) *gamedata.Block {
	return s.blocks[sectionIndex(x, y, z)]
}

func (s *Section) setBlock(x, y, z int, b *gamedata.Block) {
	s.blocks[sectionIndex(x, y, z)] = b
}

// Chunk is a loaded world column: a stack of sections plus the
// heightmap derived from them. Invariant: SectionsBitmask's bit i is
// set if and only if sections[i] is non-nil.
type Chunk struct {
	mu        sync.RWMutex
	coords    ChunkCoords
	sections  [numSections]*Section
	heightmap [SectionWidth * SectionWidth]int16
}

// NewChunk returns an empty (all-air) chunk at coords.
func NewChunk(coords ChunkCoords) *Chunk {
	return &Chunk{coords: coords}
}

// Coords returns the chunk's column coordinates.
func (c *Chunk) Coords() ChunkCoords {
	return c.coords
}

// GetBlock returns the block at the given position, in chunk-local
// coordinates (x, z in [0,16), y in [0,ChunkHeight)).
func (c *Chunk) GetBlock(x, y, z int) *gamedata.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	section := c.sections[y/SectionWidth]
	if section == nil {
		return gamedata.Air
	}
	return section.getBlock(x, y%SectionWidth, z)
}

// SetBlock writes a block at the given position, materializing its
// section on first write, and keeps the column heightmap consistent.
func (c *Chunk) SetBlock(x, y, z int, b *gamedata.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := y / SectionWidth
	section := c.sections[idx]
	if section == nil {
		section = newSection()
		c.sections[idx] = section
	}
	section.setBlock(x, y%SectionWidth, z, b)
	c.recomputeColumn(x, z)
}

// recomputeColumn rescans one (x, z) column top-down for its new
// highest non-air block. Called only from SetBlock, under c.mu.
func (c *Chunk) recomputeColumn(x, z int) {
	for y := ChunkHeight - 1; y >= 0; y-- {
		section := c.sections[y/SectionWidth]
		if section != nil && section.getBlock(x, y%SectionWidth, z) != gamedata.Air {
			c.heightmap[z*SectionWidth+x] = int16(y + 1)
			return
		}
	}
	c.heightmap[z*SectionWidth+x] = 0
}

// Heightmap returns a copy of the column heightmap (16x16, row-major
// by z then x), each entry the y of the first empty block above the
// highest solid block.
func (c *Chunk) Heightmap() [SectionWidth * SectionWidth]int16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.heightmap
}

// SectionsBitmask returns the bit i set for every materialized section
// i; a section stays materialized even if every block is set back to air.
func (c *Chunk) SectionsBitmask() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var mask uint16
	for i, s := range c.sections {
		if s != nil {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// BiomeMap returns the chunk's 1024-entry biome id array. Biome
// assignment is out of scope; every chunk reports the default biome.
func (c *Chunk) BiomeMap() []uint16 {
	return make([]uint16, 1024)
}
