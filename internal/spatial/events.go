package spatial

import "github.com/go-gl/mathgl/mgl64"

// EntityHandle is the opaque ECS reference carried alongside an entity's
// numeric id. The bucket grid never dereferences it; only the world
// resolves it back into components.
type EntityHandle uint64

// EventKind discriminates the EntityEvent union.
type EventKind int

const (
	Appear EventKind = iota
	Disappear
	MoveAway
	MoveInto
	PositionChanged
	RotationChanged
	HeadRotationChanged
	InventoryChanged
)

// EntityEvent is the payload fanned out by a Bucket. Only the fields
// relevant to Kind are populated; see the Subscription Router for how
// each kind is translated into outbound packets.
type EntityEvent struct {
	ID     uint32
	Kind   EventKind
	Entity EntityHandle // Appear, MoveInto
	To     BucketCoords // MoveAway
	From   BucketCoords // MoveInto

	// FromPos/ToPos carry the exact positions for MoveAway, MoveInto,
	// and PositionChanged, so the router can pick between a
	// quantized position-delta packet and a full teleport by
	// magnitude without having to re-resolve the entity in the ECS.
	FromPos, ToPos mgl64.Vec3

	// Yaw/Pitch carry the new orientation for RotationChanged and
	// HeadRotationChanged.
	Yaw, Pitch float64
}
