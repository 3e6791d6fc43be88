package spatial

import (
	"sync"
	"time"
)

// Bucket is a cubic cell of the spatial index: the set of entities
// currently occupying it, plus the event feed subscribers observe to
// learn about occupancy changes. An entity belongs to exactly one
// bucket at a time — the one containing its current position.
type Bucket struct {
	mu           sync.RWMutex
	occupants    map[uint32]EntityHandle
	feed         *feed
	lastObserved time.Time
}

func newBucket(now time.Time) *Bucket {
	return &Bucket{
		occupants:    make(map[uint32]EntityHandle),
		feed:         newFeed(),
		lastObserved: now,
	}
}

func (b *Bucket) add(id uint32, entity EntityHandle, now time.Time) {
	b.mu.Lock()
	b.occupants[id] = entity
	b.lastObserved = now
	b.mu.Unlock()
}

func (b *Bucket) remove(id uint32, now time.Time) {
	b.mu.Lock()
	delete(b.occupants, id)
	b.lastObserved = now
	b.mu.Unlock()
}

// Entities returns a snapshot of the bucket's current occupants,
// keyed by entity id.
func (b *Bucket) Entities() map[uint32]EntityHandle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[uint32]EntityHandle, len(b.occupants))
	for id, h := range b.occupants {
		out[id] = h
	}
	return out
}

func (b *Bucket) sendEvent(e EntityEvent) {
	b.feed.push(e)
}

// Subscribe returns a cursor into the bucket's event feed and marks it
// as observed, resetting its eviction clock.
func (b *Bucket) Subscribe(now time.Time) Cursor {
	b.mu.Lock()
	b.lastObserved = now
	b.mu.Unlock()
	return b.feed.subscribe()
}

// touch resets the bucket's idle-eviction clock without otherwise
// changing its occupancy or feed, for events (e.g. a same-bucket move)
// that should count as observation even though add/remove do not run.
func (b *Bucket) touch(now time.Time) {
	b.mu.Lock()
	b.lastObserved = now
	b.mu.Unlock()
}

// timeUnobserved reports how long it has been since the bucket was last
// subscribed to or had an occupant added/removed.
func (b *Bucket) timeUnobserved(now time.Time) time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return now.Sub(b.lastObserved)
}

// isEmpty reports whether the bucket currently holds no occupants.
func (b *Bucket) isEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.occupants) == 0
}
