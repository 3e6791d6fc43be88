package spatial

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// UnloadTime is how long a bucket may go unobserved before it is
// evicted from the grid.
const UnloadTime = 10 * time.Second

const shardCount = 16

// shard is one partition of the grid's coordinate→bucket map. Sharding
// by the xxhash of the coordinate keeps console/debug lookups (which
// run on a goroutine outside the tick loop) from serializing behind
// tick-loop traffic on a single lock.
type shard struct {
	mu      sync.RWMutex
	buckets map[BucketCoords]*Bucket
}

// EntityTracker is the spatial bucket grid (spec component D) plus the
// entity-level operations layered over it (component E): every entity
// belongs to exactly one bucket, and bucket membership changes are
// published as events rather than polled.
type EntityTracker struct {
	shards [shardCount]*shard
}

// NewEntityTracker returns an empty grid.
func NewEntityTracker() *EntityTracker {
	t := &EntityTracker{}
	for i := range t.shards {
		t.shards[i] = &shard{buckets: make(map[BucketCoords]*Bucket)}
	}
	return t
}

func (t *EntityTracker) shardFor(c BucketCoords) *shard {
	return t.shards[c.hash()%shardCount]
}

func (t *EntityTracker) getOrCreate(c BucketCoords, now time.Time) *Bucket {
	s := t.shardFor(c)

	s.mu.RLock()
	b, ok := s.buckets[c]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[c]; ok {
		return b
	}
	b = newBucket(now)
	s.buckets[c] = b
	return b
}

func (t *EntityTracker) get(c BucketCoords) (*Bucket, bool) {
	s := t.shardFor(c)
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.buckets[c]
	return b, ok
}

// Add inserts id into the bucket containing pos and announces its
// appearance.
func (t *EntityTracker) Add(id uint32, entity EntityHandle, pos mgl64.Vec3) {
	now := time.Now()
	coords := FromPos(pos)
	b := t.getOrCreate(coords, now)
	b.add(id, entity, now)
	b.sendEvent(EntityEvent{ID: id, Kind: Appear, Entity: entity})
}

// Remove deletes id from the bucket containing pos, if that bucket
// exists, and announces its departure.
func (t *EntityTracker) Remove(id uint32, pos mgl64.Vec3) {
	coords := FromPos(pos)
	b, ok := t.get(coords)
	if !ok {
		return
	}
	b.remove(id, time.Now())
	b.sendEvent(EntityEvent{ID: id, Kind: Disappear})
}

// MoveEntity relocates id from the bucket containing from to the one
// containing to. When the two positions share a bucket, a single
// PositionChanged event is emitted there instead. When they differ,
// MoveAway is always published on the source bucket before MoveInto is
// published on the destination, preserving per-entity ordering for a
// subscriber of both.
func (t *EntityTracker) MoveEntity(id uint32, entity EntityHandle, from, to mgl64.Vec3) {
	now := time.Now()
	oldCoords := FromPos(from)
	newCoords := FromPos(to)

	if oldCoords == newCoords {
		b := t.getOrCreate(oldCoords, now)
		b.touch(now)
		b.sendEvent(EntityEvent{ID: id, Kind: PositionChanged, Entity: entity, FromPos: from, ToPos: to})
		return
	}

	oldBucket := t.getOrCreate(oldCoords, now)
	oldBucket.remove(id, now)
	oldBucket.sendEvent(EntityEvent{ID: id, Kind: MoveAway, To: newCoords, FromPos: from, ToPos: to})

	newBucket := t.getOrCreate(newCoords, now)
	newBucket.add(id, entity, now)
	newBucket.sendEvent(EntityEvent{ID: id, Kind: MoveInto, Entity: entity, From: oldCoords, FromPos: from, ToPos: to})
}

// SendEvent routes an arbitrary per-entity event (rotation, head
// rotation, inventory change) to the bucket containing pos. It is a
// no-op if that bucket has no occupants and no subscribers.
func (t *EntityTracker) SendEvent(pos mgl64.Vec3, event EntityEvent) {
	coords := FromPos(pos)
	b, ok := t.get(coords)
	if !ok {
		return
	}
	b.sendEvent(event)
}

// Subscribe returns a cursor on the bucket at coords, creating it if
// necessary, and resets its idle-eviction clock.
func (t *EntityTracker) Subscribe(coords BucketCoords) Cursor {
	now := time.Now()
	b := t.getOrCreate(coords, now)
	return b.Subscribe(now)
}

// GetEntities returns the current occupants of the bucket at coords,
// or an empty map if it does not exist.
func (t *EntityTracker) GetEntities(coords BucketCoords) map[uint32]EntityHandle {
	b, ok := t.get(coords)
	if !ok {
		return map[uint32]EntityHandle{}
	}
	return b.Entities()
}

// Evict drops every bucket that has both no occupants and gone
// unobserved for at least UnloadTime. A bucket still holding entities
// is never evicted, regardless of how long it has gone unsubscribed.
// Called once per tick.
func (t *EntityTracker) Evict() {
	now := time.Now()
	for _, s := range t.shards {
		s.mu.Lock()
		for c, b := range s.buckets {
			if b.isEmpty() && b.timeUnobserved(now) >= UnloadTime {
				delete(s.buckets, c)
			}
		}
		s.mu.Unlock()
	}
}
