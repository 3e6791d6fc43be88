package router

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/spatial"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

func drainOutbound(t *testing.T, side *conn.PlayerSide, n int) []protocol.Packet {
	t.Helper()
	out := make([]protocol.Packet, 0, n)
	for i := 0; i < n; i++ {
		pkt, ok := side.NextOutbound()
		if !ok {
			t.Fatalf("expected %d packets, got %d before close", n, i)
		}
		out = append(out, pkt)
	}
	return out
}

func newTestPlayer(id uint32, pos mgl64.Vec3) (*players.Player, *conn.PlayerSide) {
	side, game := conn.NewConnectionPair()
	p := players.New(id, uuid.New(), "p", game, 4)
	p.Pos = pos
	return p, side
}

func TestEntityRouterAppearSendsSpawn(t *testing.T) {
	tracker := spatial.NewEntityTracker()
	list := players.NewList()
	r := NewEntityRouter(tracker, list)

	origin := mgl64.Vec3{0, 64, 0}
	observer, observerSide := newTestPlayer(1, origin)
	list.Add(observer)
	r.Tick(observer) // establish subscriptions before the Appear fires

	target, _ := newTestPlayer(2, origin)
	list.Add(target)
	tracker.Add(target.ID, target.Handle, target.Pos)

	r.Tick(observer)

	packets := drainOutbound(t, observerSide, 1)
	spawn, ok := packets[0].(*protocol.SpawnPlayer)
	if !ok {
		t.Fatalf("got %T, want *SpawnPlayer", packets[0])
	}
	if spawn.EntityID != int32(target.ID) {
		t.Errorf("entity id = %d, want %d", spawn.EntityID, target.ID)
	}
}

func TestEntityRouterSmallMoveCarriesRotationForListedMover(t *testing.T) {
	tracker := spatial.NewEntityTracker()
	list := players.NewList()
	r := NewEntityRouter(tracker, list)

	origin := mgl64.Vec3{0, 64, 0}
	observer, observerSide := newTestPlayer(1, origin)
	list.Add(observer)
	r.Tick(observer)

	target, _ := newTestPlayer(2, origin)
	target.Yaw, target.Pitch = 45, -10
	list.Add(target)
	tracker.Add(target.ID, target.Handle, target.Pos)
	r.Tick(observer)
	drainOutbound(t, observerSide, 1) // the initial SpawnPlayer

	moved := origin.Add(mgl64.Vec3{1, 0, 0})
	tracker.MoveEntity(target.ID, target.Handle, target.Pos, moved)
	target.Pos = moved
	r.Tick(observer)

	packets := drainOutbound(t, observerSide, 1)
	pr, ok := packets[0].(*protocol.EntityPositionAndRotation)
	if !ok {
		t.Fatalf("got %T, want *EntityPositionAndRotation", packets[0])
	}
	if pr.EntityID != int32(target.ID) {
		t.Errorf("entity id = %d, want %d", pr.EntityID, target.ID)
	}
	if pr.Yaw != target.Yaw || pr.Pitch != target.Pitch {
		t.Errorf("yaw/pitch = %v/%v, want %v/%v", pr.Yaw, pr.Pitch, target.Yaw, target.Pitch)
	}
}

func TestEntityRouterNeverSeesOwnEvents(t *testing.T) {
	tracker := spatial.NewEntityTracker()
	list := players.NewList()
	r := NewEntityRouter(tracker, list)

	origin := mgl64.Vec3{0, 64, 0}
	self, selfSide := newTestPlayer(1, origin)
	list.Add(self)
	r.Tick(self)

	tracker.Add(self.ID, self.Handle, self.Pos)
	r.Tick(self)

	if _, ok := selfSide.TryNextOutbound(); ok {
		t.Fatal("expected no packets for the player's own appearance")
	}
}
