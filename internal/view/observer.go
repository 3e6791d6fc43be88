package view

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kael-voss/voxelpulse/internal/spatial"
)

// ViewRangeBlocks is the radius, in blocks, of an entity observer's
// sphere of interest.
const ViewRangeBlocks = 6 * 16

// bucketRadius is the minimal enclosing cube radius, in buckets, for a
// sphere of ViewRangeBlocks.
const bucketRadius = ViewRangeBlocks / spatial.BucketSide

// Observer tracks which entity buckets one player currently subscribes
// to and the read cursor into each. Update recomputes the desired
// bucket set, subscribes/cancels as needed, and drains every retained
// cursor for its backlog of events.
type Observer struct {
	cursors map[spatial.BucketCoords]spatial.Cursor
}

// NewObserver returns an Observer subscribed to nothing.
func NewObserver() *Observer {
	return &Observer{cursors: make(map[spatial.BucketCoords]spatial.Cursor)}
}

// Update recomputes the bucket cube around pos, subscribes to newly
// entered buckets, cancels subscriptions to buckets left behind, and
// returns every event observed since the last call. A cursor that
// lagged past its bucket's retained history is transparently resynced:
// it is resubscribed and the bucket's current occupants are re-emitted
// as synthetic Appear events so the caller can rebuild its view of
// that bucket from scratch.
func (o *Observer) Update(pos mgl64.Vec3, tracker *spatial.EntityTracker) []spatial.EntityEvent {
	center := spatial.FromPos(pos)

	desired := make(map[spatial.BucketCoords]struct{})
	for i := int32(-bucketRadius); i <= bucketRadius; i++ {
		for j := int32(-bucketRadius); j <= bucketRadius; j++ {
			for k := int32(-bucketRadius); k <= bucketRadius; k++ {
				desired[spatial.BucketCoords{X: center.X + i, Y: center.Y + j, Z: center.Z + k}] = struct{}{}
			}
		}
	}

	for coords := range desired {
		if _, ok := o.cursors[coords]; !ok {
			o.cursors[coords] = tracker.Subscribe(coords)
		}
	}
	for coords := range o.cursors {
		if _, ok := desired[coords]; !ok {
			delete(o.cursors, coords)
		}
	}

	var events []spatial.EntityEvent
	for coords, cursor := range o.cursors {
		drained, err := cursor.Drain()
		if err == spatial.ErrLagged {
			events = append(events, o.resync(coords, tracker)...)
			continue
		}
		events = append(events, drained...)
		o.cursors[coords] = cursor
	}
	return events
}

// Observing reports whether coords is currently part of this
// observer's subscribed bucket set.
func (o *Observer) Observing(coords spatial.BucketCoords) bool {
	_, ok := o.cursors[coords]
	return ok
}

// resync resubscribes to coords and synthesizes an Appear event for
// every entity currently occupying it.
func (o *Observer) resync(coords spatial.BucketCoords, tracker *spatial.EntityTracker) []spatial.EntityEvent {
	o.cursors[coords] = tracker.Subscribe(coords)

	occupants := tracker.GetEntities(coords)
	events := make([]spatial.EntityEvent, 0, len(occupants))
	for id, handle := range occupants {
		events = append(events, spatial.EntityEvent{ID: id, Kind: spatial.Appear, Entity: handle})
	}
	return events
}
