package view

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kael-voss/voxelpulse/internal/spatial"
)

func TestObserverSeesAppearOnEntry(t *testing.T) {
	tracker := spatial.NewEntityTracker()
	o := NewObserver()

	origin := mgl64.Vec3{0, 64, 0}
	o.Update(origin, tracker)

	tracker.Add(1, spatial.EntityHandle(1), origin)

	events := o.Update(origin, tracker)
	if len(events) != 1 || events[0].Kind != spatial.Appear {
		t.Fatalf("got %+v", events)
	}
}

func TestObserverDropsSubscriptionOutsideRange(t *testing.T) {
	tracker := spatial.NewEntityTracker()
	o := NewObserver()
	origin := mgl64.Vec3{0, 64, 0}
	o.Update(origin, tracker)

	far := mgl64.Vec3{0, 64, 100000}
	o.Update(far, tracker)

	if _, ok := o.cursors[spatial.FromPos(origin)]; ok {
		t.Fatal("expected far-away origin bucket to have been dropped")
	}
}
