package router

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/spatial"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// deltaRangeBlocks is the magnitude below which a move is sent as a
// quantized position delta; at or above it, a full teleport is sent
// instead (the delta form's 1/4096-block quantization can't represent
// a larger offset).
const deltaRangeBlocks = 8

// EntityRouter drives the per-tick entity-bucket view diff for every
// player against the shared entity tracker.
type EntityRouter struct {
	tracker *spatial.EntityTracker
	list    *players.List
}

// NewEntityRouter returns a router bound to tracker and the connected
// player list (used to resolve Appear targets into SpawnPlayer
// packets).
func NewEntityRouter(tracker *spatial.EntityTracker, list *players.List) *EntityRouter {
	return &EntityRouter{tracker: tracker, list: list}
}

// Tick drains p's observer and translates every event into outbound
// packets on p's connection. A player never receives events for its
// own entity id.
func (r *EntityRouter) Tick(p *players.Player) {
	events := p.Observer.Update(p.Pos, r.tracker)

	pendingSpawns := make(map[uint32]struct{})
	for _, e := range events {
		if e.ID == p.ID {
			continue
		}
		switch e.Kind {
		case spatial.Appear:
			pendingSpawns[e.ID] = struct{}{}

		case spatial.Disappear:
			r.sendDestroy(p, e.ID)

		case spatial.MoveAway:
			// The destination's MoveInto will carry the motion if the
			// player also observes it; otherwise this is a departure.
			if !p.Observer.Observing(e.To) {
				r.sendDestroy(p, e.ID)
			}

		case spatial.MoveInto:
			if p.Observer.Observing(e.From) {
				r.sendPositionUpdate(p, e.ID, e.FromPos, e.ToPos)
			} else {
				pendingSpawns[e.ID] = struct{}{}
			}

		case spatial.PositionChanged:
			r.sendPositionUpdate(p, e.ID, e.FromPos, e.ToPos)

		case spatial.RotationChanged:
			_ = p.Game.Send(&protocol.EntityRotation{EntityID: int32(e.ID), Yaw: e.Yaw, Pitch: e.Pitch, OnGround: true})

		case spatial.HeadRotationChanged:
			_ = p.Game.Send(&protocol.EntityHeadLook{EntityID: int32(e.ID), Yaw: e.Yaw})
		}
	}

	for id := range pendingSpawns {
		r.sendSpawn(p, id)
	}
}

func (r *EntityRouter) sendDestroy(p *players.Player, id uint32) {
	data := protocol.NewBuilder().VarInt(1).VarInt(int32(id)).Build()
	_ = p.Game.Send(&protocol.DestroyEntities{Data: data})
}

func (r *EntityRouter) sendSpawn(p *players.Player, id uint32) {
	target, ok := r.list.ByEntityID(id)
	if !ok {
		return
	}
	var rawUUID [16]byte
	copy(rawUUID[:], target.UUID[:])
	_ = p.Game.Send(&protocol.SpawnPlayer{
		EntityID: int32(target.ID),
		UUID:     rawUUID,
		X:        target.Pos.X(), Y: target.Pos.Y(), Z: target.Pos.Z(),
		Yaw: target.Yaw, Pitch: target.Pitch,
	})
}

// sendPositionUpdate emits the smallest packet that carries the move:
// a quantized delta for a short hop, or a full teleport once the
// magnitude exceeds the delta encoding's range. A mover we can resolve
// in the player list (i.e. another player, not a bare tracked entity)
// also gets its current facing folded into the same packet, so a
// moving-and-turning player costs one packet per tick instead of two.
func (r *EntityRouter) sendPositionUpdate(p *players.Player, id uint32, from, to mgl64.Vec3) {
	delta := to.Sub(from)
	mover, hasFacing := r.list.ByEntityID(id)

	if magnitude(delta) < deltaRangeBlocks {
		if hasFacing {
			_ = p.Game.Send(&protocol.EntityPositionAndRotation{
				EntityID: int32(id),
				DeltaX:   delta.X(), DeltaY: delta.Y(), DeltaZ: delta.Z(),
				Yaw: mover.Yaw, Pitch: mover.Pitch,
				OnGround: true,
			})
			return
		}
		_ = p.Game.Send(&protocol.EntityPosition{
			EntityID: int32(id),
			DeltaX:   delta.X(), DeltaY: delta.Y(), DeltaZ: delta.Z(),
			OnGround: true,
		})
		return
	}

	teleport := &protocol.EntityTeleport{
		EntityID: int32(id),
		X:        to.X(), Y: to.Y(), Z: to.Z(),
		OnGround: true,
	}
	if hasFacing {
		teleport.Yaw, teleport.Pitch = mover.Yaw, mover.Pitch
	}
	_ = p.Game.Send(teleport)
}

func magnitude(v mgl64.Vec3) float64 {
	x, y, z := v.X(), v.Y(), v.Z()
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	if z < 0 {
		z = -z
	}
	if x > y && x > z {
		return x
	}
	if y > z {
		return y
	}
	return z
}
