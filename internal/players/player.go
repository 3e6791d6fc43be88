// Package players holds per-connection simulation state: the piece of
// the ECS world a connected client occupies, plus its view state
// (spec components D-H read and write this every tick).
package players

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/internal/spatial"
	"github.com/kael-voss/voxelpulse/internal/view"
	"github.com/segmentio/fasthash/fnv1a"
)

// SpawnPosition is where a newly accepted player first appears.
var SpawnPosition = mgl64.Vec3{0, 2, 0}

// InventoryItem is one occupied inventory slot, matching the
// persisted player record's item-list shape from spec §6.
type InventoryItem struct {
	Count int8
	Slot  int8
	ID    string
}

// Player is one connected client's simulation-side state.
type Player struct {
	ID     uint32
	Handle spatial.EntityHandle
	UUID   uuid.UUID
	Name   string

	Pos        mgl64.Vec3
	Yaw, Pitch float64

	Inventory []InventoryItem

	Game *conn.GameSide

	ChunkView *view.ChunkView
	Observer  *view.Observer

	// SubscriberID keys this player's chunk-subscription callbacks in
	// the chunk registry; derived once from the player's UUID rather
	// than an incrementing counter, so the same player always maps to
	// the same key even across a resubscribe.
	SubscriberID uint64

	LastKeepAliveID     int64
	KeepAliveAcked      bool
	TicksSinceKeepAlive int
}

// New constructs a Player at the default spawn position with an empty
// view state. id is the ECS entity id assigned by the caller.
func New(id uint32, playerUUID uuid.UUID, name string, game *conn.GameSide, viewDistance int32) *Player {
	return &Player{
		ID:             id,
		Handle:         spatial.EntityHandle(id),
		UUID:           playerUUID,
		Name:           name,
		Pos:            SpawnPosition,
		Game:           game,
		ChunkView:      view.NewChunkView(viewDistance),
		Observer:       view.NewObserver(),
		SubscriberID:   fnv1a.HashString64(playerUUID.String()),
		KeepAliveAcked: true,
	}
}
