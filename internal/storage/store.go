// Package storage is the persisted-state backend (spec §6): player
// records and chunk snapshots stored as opaque compound-tag blobs in
// a LevelDB database under the configured world path, replacing the
// teacher's flat per-player JSON files with the pack's embedded KV
// store.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/google/uuid"

	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/world"
	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

// PlayerRecord is the compound tag persisted for one player: position
// plus the inventory item list `{count, slot, id}` from spec §6.
type PlayerRecord struct {
	Name       string                  `json:"name"`
	X          float64                 `json:"x"`
	Y          float64                 `json:"y"`
	Z          float64                 `json:"z"`
	Yaw        float64                 `json:"yaw"`
	Pitch      float64                 `json:"pitch"`
	Inventory  []players.InventoryItem `json:"inventory"`
}

// chunkRecord is the compound tag persisted for one chunk: the
// `{Level: {xPos, zPos, Sections}}` shape from spec §6, with
// "Sections" flattened to one block-id per block rather than the
// packed-long-array palette format (see internal/router's sectionBytes
// for the same simplification on the wire side).
type chunkRecord struct {
	Level struct {
		XPos, ZPos int32
		Sections   []int32 // ChunkHeight*16*16 block ids, row-major (y,z,x)
	}
}

// Store is a LevelDB-backed persistence layer for player and chunk
// state.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open world store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func playerKey(id uuid.UUID) []byte {
	return []byte("player:" + id.String())
}

func chunkKey(c world.ChunkCoords) []byte {
	return []byte(fmt.Sprintf("chunk:%d,%d", c.X, c.Z))
}

// SavePlayer persists p's position, rotation, and inventory.
func (s *Store) SavePlayer(p *players.Player) error {
	rec := PlayerRecord{
		Name:      p.Name,
		X:         p.Pos.X(),
		Y:         p.Pos.Y(),
		Z:         p.Pos.Z(),
		Yaw:       p.Yaw,
		Pitch:     p.Pitch,
		Inventory: p.Inventory,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode player record: %w", err)
	}
	if err := s.db.Put(playerKey(p.UUID), data, nil); err != nil {
		return fmt.Errorf("save player %s: %w", p.UUID, err)
	}
	return nil
}

// LoadPlayer returns the persisted record for id, or ok=false if
// there is no record (a first-time join).
func (s *Store) LoadPlayer(id uuid.UUID) (rec PlayerRecord, ok bool, err error) {
	data, err := s.db.Get(playerKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return PlayerRecord{}, false, nil
	}
	if err != nil {
		return PlayerRecord{}, false, fmt.Errorf("load player %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return PlayerRecord{}, false, fmt.Errorf("decode player record: %w", err)
	}
	return rec, true, nil
}

// SaveChunk persists every block in chunk under its chunk coordinates.
func (s *Store) SaveChunk(chunk *world.Chunk) error {
	coords := chunk.Coords()
	var rec chunkRecord
	rec.Level.XPos = coords.X
	rec.Level.ZPos = coords.Z
	rec.Level.Sections = make([]int32, world.ChunkHeight*world.SectionWidth*world.SectionWidth)

	i := 0
	for y := 0; y < world.ChunkHeight; y++ {
		for z := 0; z < world.SectionWidth; z++ {
			for x := 0; x < world.SectionWidth; x++ {
				rec.Level.Sections[i] = int32(chunk.GetBlock(x, y, z).ID)
				i++
			}
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode chunk record: %w", err)
	}
	if err := s.db.Put(chunkKey(coords), data, nil); err != nil {
		return fmt.Errorf("save chunk %d,%d: %w", coords.X, coords.Z, err)
	}
	return nil
}

// LoadChunk returns the persisted chunk at coords, resolving block
// ids against registry, or ok=false if nothing was ever saved there.
func (s *Store) LoadChunk(coords world.ChunkCoords, registry gamedata.BlockRegistry) (chunk *world.Chunk, ok bool, err error) {
	data, err := s.db.Get(chunkKey(coords), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load chunk %d,%d: %w", coords.X, coords.Z, err)
	}

	var rec chunkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("decode chunk record: %w", err)
	}

	chunk = world.NewChunk(coords)
	i := 0
	for y := 0; y < world.ChunkHeight; y++ {
		for z := 0; z < world.SectionWidth; z++ {
			for x := 0; x < world.SectionWidth; x++ {
				id := int(rec.Level.Sections[i])
				i++
				if id == gamedata.Air.ID {
					continue
				}
				b, found := registry.ByID(id)
				if !found {
					b = gamedata.Air
				}
				chunk.SetBlock(x, y, z, b)
			}
		}
	}
	return chunk, true, nil
}
