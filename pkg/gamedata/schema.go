package gamedata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// The schemaBlock/schemaItem/schemaEntity/schemaBiome shapes carry json
// tags matching the field names minecraft-data uses in its blocks.json/
// items.json/entities.json/biomes.json; the Parse* functions copy them
// into the untagged Block/Item/Entity/Biome types.
type schemaBlock struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Hardness    *float64 `json:"hardness"`
	Material    string   `json:"material"`
	Transparent bool     `json:"transparent"`
	EmitLight   int      `json:"emitLight"`
	FilterLight int      `json:"filterLight"`
}

type schemaItem struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	StackSize  int    `json:"stackSize"`
	MaxDurable int    `json:"maxDurability"`
}

type schemaEntity struct {
	ID          int      `json:"id"`
	InternalID  int      `json:"internalId"`
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Type        string   `json:"type"`
	Width       *float64 `json:"width"`
	Height      *float64 `json:"height"`
	Category    string   `json:"category"`
}

type schemaBiome struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	NameLegacy    string  `json:"name_legacy"`
	DisplayName   string  `json:"displayName"`
	Category      string  `json:"category"`
	Temperature   float64 `json:"temperature"`
	Precipitation string  `json:"precipitation"`
	Depth         float64 `json:"depth"`
	Dimension     string  `json:"dimension"`
	Color         int     `json:"color"`
	Rainfall      float64 `json:"rainfall"`
}

// ParseBlocks decodes a minecraft-data blocks.json array into interned
// Block values.
func ParseBlocks(r io.Reader) ([]*Block, error) {
	var raw []schemaBlock
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	out := make([]*Block, 0, len(raw))
	for _, b := range raw {
		out = append(out, &Block{
			ID:          b.ID,
			Name:        b.Name,
			DisplayName: b.DisplayName,
			Hardness:    b.Hardness,
			Material:    b.Material,
			Transparent: b.Transparent,
			EmitLight:   b.EmitLight,
			FilterLight: b.FilterLight,
		})
	}
	return out, nil
}

// ParseItems decodes a minecraft-data items.json array into interned
// Item values.
func ParseItems(r io.Reader) ([]*Item, error) {
	var raw []schemaItem
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	out := make([]*Item, 0, len(raw))
	for _, it := range raw {
		out = append(out, &Item{ID: it.ID, Name: it.Name, StackSize: it.StackSize, MaxDurable: it.MaxDurable})
	}
	return out, nil
}

// ParseEntities decodes a minecraft-data entities.json array into
// interned Entity values.
func ParseEntities(r io.Reader) ([]*Entity, error) {
	var raw []schemaEntity
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	out := make([]*Entity, 0, len(raw))
	for _, e := range raw {
		out = append(out, &Entity{
			ID:          e.ID,
			InternalID:  e.InternalID,
			Name:        e.Name,
			DisplayName: e.DisplayName,
			Type:        e.Type,
			Width:       e.Width,
			Height:      e.Height,
			Category:    e.Category,
		})
	}
	return out, nil
}

// ParseBiomes decodes a minecraft-data biomes.json array into interned
// Biome values.
func ParseBiomes(r io.Reader) ([]*Biome, error) {
	var raw []schemaBiome
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode biomes: %w", err)
	}
	out := make([]*Biome, 0, len(raw))
	for _, b := range raw {
		out = append(out, &Biome{
			ID:            b.ID,
			Name:          b.Name,
			NameLegacy:    b.NameLegacy,
			DisplayName:   b.DisplayName,
			Category:      b.Category,
			Temperature:   b.Temperature,
			Precipitation: b.Precipitation,
			Depth:         b.Depth,
			Dimension:     b.Dimension,
			Color:         b.Color,
			Rainfall:      b.Rainfall,
		})
	}
	return out, nil
}

type listItems struct {
	byID   map[int]*Item
	byName map[string]*Item
}

func (r *listItems) ByID(id int) (*Item, bool)     { it, ok := r.byID[id]; return it, ok }
func (r *listItems) ByName(n string) (*Item, bool) { it, ok := r.byName[n]; return it, ok }
func (r *listItems) All() []*Item {
	out := make([]*Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	return out
}

type listEntities struct {
	byID   map[int]*Entity
	byName map[string]*Entity
}

func (r *listEntities) ByID(id int) (*Entity, bool)     { e, ok := r.byID[id]; return e, ok }
func (r *listEntities) ByName(n string) (*Entity, bool) { e, ok := r.byName[n]; return e, ok }
func (r *listEntities) All() []*Entity {
	out := make([]*Entity, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	return out
}

type listBiomes struct {
	byID   map[int]*Biome
	byName map[string]*Biome
}

func (r *listBiomes) ByID(id int) (*Biome, bool)     { b, ok := r.byID[id]; return b, ok }
func (r *listBiomes) ByName(n string) (*Biome, bool) { b, ok := r.byName[n]; return b, ok }
func (r *listBiomes) All() []*Biome {
	out := make([]*Biome, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	return out
}

// LoadSchemaDir builds a GameData from a minecraft-data-shaped directory
// (blocks.json/items.json/entities.json/biomes.json, as produced by
// cmd/schemafetch). A missing file yields an empty registry for that
// concern rather than an error — not every fetched version carries every
// file.
func LoadSchemaDir(dir string) (*GameData, error) {
	blocks, err := loadBlocks(filepath.Join(dir, "blocks.json"))
	if err != nil {
		return nil, err
	}
	items, err := loadItems(filepath.Join(dir, "items.json"))
	if err != nil {
		return nil, err
	}
	entities, err := loadEntities(filepath.Join(dir, "entities.json"))
	if err != nil {
		return nil, err
	}
	biomes, err := loadBiomes(filepath.Join(dir, "biomes.json"))
	if err != nil {
		return nil, err
	}
	return &GameData{Blocks: blocks, Items: items, Entities: entities, Biomes: biomes}, nil
}

func loadBlocks(path string) (BlockRegistry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return newStaticBlocks(), nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	blocks, err := ParseBlocks(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return newStaticBlocks(blocks...), nil
}

func loadItems(path string) (ItemRegistry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return emptyItems{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := ParseItems(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r := &listItems{byID: map[int]*Item{}, byName: map[string]*Item{}}
	for _, it := range items {
		r.byID[it.ID] = it
		r.byName[it.Name] = it
	}
	return r, nil
}

func loadEntities(path string) (EntityRegistry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return emptyEntities{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	entities, err := ParseEntities(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r := &listEntities{byID: map[int]*Entity{}, byName: map[string]*Entity{}}
	for _, e := range entities {
		r.byID[e.ID] = e
		r.byName[e.Name] = e
	}
	return r, nil
}

func loadBiomes(path string) (BiomeRegistry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return emptyBiomes{}, nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	biomes, err := ParseBiomes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r := &listBiomes{byID: map[int]*Biome{}, byName: map[string]*Biome{}}
	for _, b := range biomes {
		r.byID[b.ID] = b
		r.byName[b.Name] = b
	}
	return r, nil
}

// RegisterSchemaDir loads dir via LoadSchemaDir and registers the result
// under version in this process's version table, where Load and
// MustLoad can find it.
func RegisterSchemaDir(version, dir string) error {
	gd, err := LoadSchemaDir(dir)
	if err != nil {
		return err
	}
	Register(version, func() *GameData { return gd })
	return nil
}
