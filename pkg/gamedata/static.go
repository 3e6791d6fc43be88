package gamedata

import "fmt"

// staticBlocks is a minimal, hand-populated BlockRegistry covering the
// handful of block IDs the bundled world generator and tests reference.
// A fuller table can be fetched via cmd/schemafetch and registered under
// its own version name; this one is registered under "minimal", the
// version the server always loads.
type staticBlocks struct {
	byID   map[int]*Block
	byName map[string]*Block
}

func newStaticBlocks(blocks ...*Block) *staticBlocks {
	r := &staticBlocks{byID: map[int]*Block{}, byName: map[string]*Block{}}
	for _, b := range blocks {
		r.byID[b.ID] = b
		r.byName[b.Name] = b
	}
	return r
}

func (r *staticBlocks) ByID(id int) (*Block, bool)     { b, ok := r.byID[id]; return b, ok }
func (r *staticBlocks) ByName(n string) (*Block, bool) { b, ok := r.byName[n]; return b, ok }
func (r *staticBlocks) All() []*Block {
	out := make([]*Block, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	return out
}

type emptyItems struct{}

func (emptyItems) ByID(int) (*Item, bool)       { return nil, false }
func (emptyItems) ByName(string) (*Item, bool)  { return nil, false }
func (emptyItems) All() []*Item                 { return nil }

type emptyEntities struct{}

func (emptyEntities) ByID(int) (*Entity, bool)      { return nil, false }
func (emptyEntities) ByName(string) (*Entity, bool) { return nil, false }
func (emptyEntities) All() []*Entity                { return nil }

type emptyBiomes struct{}

func (emptyBiomes) ByID(int) (*Biome, bool)      { return nil, false }
func (emptyBiomes) ByName(string) (*Biome, bool) { return nil, false }
func (emptyBiomes) All() []*Biome                { return nil }

func init() {
	Register("minimal", func() *GameData {
		stone := &Block{ID: 1, Name: "stone", DisplayName: "Stone", Material: "rock"}
		dirt := &Block{ID: 2, Name: "dirt", DisplayName: "Dirt", Material: "dirt"}
		grass := &Block{ID: 3, Name: "grass_block", DisplayName: "Grass Block", Material: "dirt"}
		return &GameData{
			Blocks:   newStaticBlocks(Air, stone, dirt, grass),
			Items:    emptyItems{},
			Entities: emptyEntities{},
			Biomes:   emptyBiomes{},
		}
	})
}

// MustLoad loads a registered version, panicking on failure. Intended for
// callers (tests, default server startup) that treat a missing built-in
// version as a programming error rather than a runtime one.
func MustLoad(name string) *GameData {
	gd, err := Load(name)
	if err != nil {
		panic(fmt.Sprintf("gamedata: %v", err))
	}
	return gd
}
