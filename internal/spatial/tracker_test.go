package spatial

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestAddEmitsAppear(t *testing.T) {
	tr := NewEntityTracker()
	pos := mgl64.Vec3{1, 2, 3}
	cur := tr.Subscribe(FromPos(pos))

	tr.Add(1, EntityHandle(100), pos)

	events, err := cur.Drain()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != Appear || events[0].ID != 1 {
		t.Fatalf("got %+v", events)
	}
}

func TestMoveWithinBucketEmitsPositionChanged(t *testing.T) {
	tr := NewEntityTracker()
	from := mgl64.Vec3{0, 0, 0}
	to := mgl64.Vec3{1, 0, 0}
	tr.Add(1, EntityHandle(1), from)
	cur := tr.Subscribe(FromPos(from))
	_, _ = cur.Drain() // discard the Appear

	tr.MoveEntity(1, EntityHandle(1), from, to)

	events, err := cur.Drain()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != PositionChanged {
		t.Fatalf("got %+v", events)
	}
}

func TestMoveAcrossBucketsOrdersMoveAwayBeforeMoveInto(t *testing.T) {
	tr := NewEntityTracker()
	from := mgl64.Vec3{0, 0, 0}
	to := mgl64.Vec3{100, 0, 0}
	tr.Add(1, EntityHandle(1), from)

	oldCoords := FromPos(from)
	newCoords := FromPos(to)
	oldCur := tr.Subscribe(oldCoords)
	newCur := tr.Subscribe(newCoords)
	_, _ = oldCur.Drain()

	tr.MoveEntity(1, EntityHandle(1), from, to)

	oldEvents, err := oldCur.Drain()
	if err != nil {
		t.Fatal(err)
	}
	if len(oldEvents) != 1 || oldEvents[0].Kind != MoveAway || oldEvents[0].To != newCoords {
		t.Fatalf("old bucket got %+v", oldEvents)
	}

	newEvents, err := newCur.Drain()
	if err != nil {
		t.Fatal(err)
	}
	if len(newEvents) != 1 || newEvents[0].Kind != MoveInto || newEvents[0].From != oldCoords {
		t.Fatalf("new bucket got %+v", newEvents)
	}

	occupants := tr.GetEntities(newCoords)
	if _, ok := occupants[1]; !ok {
		t.Fatal("entity not registered in destination bucket")
	}
	if occupants := tr.GetEntities(oldCoords); len(occupants) != 0 {
		t.Fatalf("entity still in source bucket: %+v", occupants)
	}
}

func TestSendEventNoopOnMissingBucket(t *testing.T) {
	tr := NewEntityTracker()
	// No subscriber, no occupant: bucket was never created.
	tr.SendEvent(mgl64.Vec3{500, 0, 500}, EntityEvent{ID: 9, Kind: RotationChanged})
}

func TestCursorLagged(t *testing.T) {
	tr := NewEntityTracker()
	pos := mgl64.Vec3{0, 0, 0}
	cur := tr.Subscribe(FromPos(pos))

	for i := 0; i < feedHistory+1; i++ {
		tr.SendEvent(pos, EntityEvent{ID: uint32(i), Kind: RotationChanged})
	}

	_, err := cur.Drain()
	if err != ErrLagged {
		t.Fatalf("expected ErrLagged, got %v", err)
	}
}

func TestEvictDropsUnobservedBuckets(t *testing.T) {
	tr := NewEntityTracker()
	coords := BucketCoords{X: 1, Y: 1, Z: 1}
	b := tr.getOrCreate(coords, time.Now().Add(-UnloadTime-time.Second))

	tr.Evict()

	if _, ok := tr.get(coords); ok {
		t.Fatal("expected bucket to be evicted")
	}
	_ = b
}

func TestEvictSparesOccupiedBuckets(t *testing.T) {
	tr := NewEntityTracker()
	coords := BucketCoords{X: 2, Y: 2, Z: 2}
	b := tr.getOrCreate(coords, time.Now().Add(-UnloadTime-time.Second))
	b.add(1, EntityHandle(1), time.Now().Add(-UnloadTime-time.Second))

	tr.Evict()

	if _, ok := tr.get(coords); !ok {
		t.Fatal("expected occupied bucket to survive eviction")
	}
}
