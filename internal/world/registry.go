package world

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/brentp/intintmap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ChunkUnloadTime is how long a chunk may sit with zero subscribers
// before the registry evicts it.
const ChunkUnloadTime = 10 * time.Second

// ChunkRetryBackoff is how long a chunk stays in the Failed state
// after a load error before a new subscribe will retry the source.
const ChunkRetryBackoff = 2 * time.Second

// MaxConcurrentLoads bounds how many chunk loads may be in flight on
// the blocking pool at once.
const MaxConcurrentLoads = 8

// ChunkEventKind discriminates the ChunkEvent union delivered to
// subscriber callbacks.
type ChunkEventKind int

const (
	ChunkLoaded ChunkEventKind = iota
	BlockChanged
)

// ChunkEvent is delivered to a chunk subscriber callback.
type ChunkEvent struct {
	Kind       ChunkEventKind
	Chunk      *Chunk   // ChunkLoaded
	X, Y, Z    int      // BlockChanged, chunk-local
	BlockState int32    // BlockChanged, registry-assigned numeric state id
}

// SubscriberCallback receives chunk events for one subscriber.
type SubscriberCallback func(ChunkEvent)

type chunkEntry struct {
	mu               sync.Mutex
	coords           ChunkCoords
	chunk            *Chunk
	loading          bool
	failedUntil      time.Time
	subscribers      map[uint64]SubscriberCallback
	lastUnsubscribed time.Time
}

type loadResult struct {
	coords ChunkCoords
	chunk  *Chunk
	err    error
}

// ChunkRegistry is the chunk registry (spec component F): a mapping
// from coordinates to loaded chunk plus a subscriber table, backed by
// a pluggable ChunkSource. Loads run on their own goroutine; their
// result is handed back to whichever goroutine calls PumpCompletions
// (the tick loop) rather than mutating registry state directly, so the
// tick loop remains the sole writer of chunk data.
type ChunkRegistry struct {
	mu      sync.RWMutex
	entries []*chunkEntry
	index   *intintmap.IntIntMap // coords.key() -> slot in entries

	source      ChunkSource
	completions chan loadResult
	loadSem     *semaphore.Weighted
	loadGroup   errgroup.Group // supervises the blocking load pool's goroutines
	log         *slog.Logger
}

// NewChunkRegistry returns a registry backed by source.
func NewChunkRegistry(source ChunkSource, log *slog.Logger) *ChunkRegistry {
	return &ChunkRegistry{
		index:       intintmap.New(256, 0.75),
		source:      source,
		completions: make(chan loadResult, 256),
		loadSem:     semaphore.NewWeighted(MaxConcurrentLoads),
		log:         log,
	}
}

func (r *ChunkRegistry) getOrCreate(coords ChunkCoords) *chunkEntry {
	key := coords.key()

	r.mu.RLock()
	if slot, ok := r.index.Get(key); ok {
		if e := r.entries[slot]; e != nil {
			r.mu.RUnlock()
			return e
		}
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if slot, ok := r.index.Get(key); ok {
		if e := r.entries[slot]; e != nil {
			return e
		}
		e := &chunkEntry{coords: coords, subscribers: make(map[uint64]SubscriberCallback)}
		r.entries[slot] = e
		return e
	}
	e := &chunkEntry{coords: coords, subscribers: make(map[uint64]SubscriberCallback)}
	slot := int64(len(r.entries))
	r.entries = append(r.entries, e)
	r.index.Put(key, slot)
	return e
}

func (r *ChunkRegistry) get(coords ChunkCoords) (*chunkEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.index.Get(coords.key())
	if !ok {
		return nil, false
	}
	e := r.entries[slot]
	return e, e != nil
}

// Subscribe registers callback under subID for coords. If the chunk is
// already loaded, callback is invoked synchronously with ChunkLoaded.
// Otherwise a load is kicked off (if one isn't already in flight) and
// callback is invoked from PumpCompletions once it finishes — exactly
// once, even if the load was already underway when Subscribe was
// called.
func (r *ChunkRegistry) Subscribe(coords ChunkCoords, subID uint64, callback SubscriberCallback) {
	e := r.getOrCreate(coords)

	e.mu.Lock()
	e.subscribers[subID] = callback
	if e.chunk != nil {
		chunk := e.chunk
		e.mu.Unlock()
		callback(ChunkEvent{Kind: ChunkLoaded, Chunk: chunk})
		return
	}
	// A chunk that failed its last load stays in the Failed state for
	// ChunkRetryBackoff: new subscribers get a placeholder empty chunk
	// and no block events, rather than piling onto a source that just
	// errored. A subscribe after the window elapses retries.
	if !e.failedUntil.IsZero() && time.Now().Before(e.failedUntil) {
		e.mu.Unlock()
		callback(ChunkEvent{Kind: ChunkLoaded, Chunk: NewChunk(coords)})
		return
	}
	alreadyLoading := e.loading
	e.loading = true
	e.mu.Unlock()

	if !alreadyLoading {
		r.loadGroup.Go(func() error {
			r.load(coords, e)
			return nil
		})
	}
}

// Unsubscribe removes subID's callback for coords. When the last
// subscriber leaves, the chunk becomes eviction-eligible after
// ChunkUnloadTime.
func (r *ChunkRegistry) Unsubscribe(coords ChunkCoords, subID uint64) {
	e, ok := r.get(coords)
	if !ok {
		return
	}
	e.mu.Lock()
	delete(e.subscribers, subID)
	if len(e.subscribers) == 0 {
		e.lastUnsubscribed = time.Now()
	}
	e.mu.Unlock()
}

func (r *ChunkRegistry) load(coords ChunkCoords, e *chunkEntry) {
	ctx := context.Background()
	if err := r.loadSem.Acquire(ctx, 1); err != nil {
		r.log.Error("chunk load semaphore acquire failed", "x", coords.X, "z", coords.Z, "error", err)
		return
	}
	chunk, err := r.source.LoadChunk(ctx, coords)
	r.loadSem.Release(1)

	select {
	case r.completions <- loadResult{coords: coords, chunk: chunk, err: err}:
	default:
		r.log.Warn("chunk completion channel full, dropping result", "x", coords.X, "z", coords.Z)
	}
}

// PumpCompletions applies every chunk load that finished since the
// last call, invoking ChunkLoaded on each of that chunk's current
// subscribers. Call once per tick from the tick loop only.
func (r *ChunkRegistry) PumpCompletions() {
	for {
		select {
		case res := <-r.completions:
			r.applyCompletion(res)
		default:
			return
		}
	}
}

func (r *ChunkRegistry) applyCompletion(res loadResult) {
	e, ok := r.get(res.coords)
	if !ok {
		return
	}
	e.mu.Lock()
	e.loading = false
	if res.err != nil {
		r.log.Error("chunk load failed", "x", res.coords.X, "z", res.coords.Z, "error", res.err)
		e.failedUntil = time.Now().Add(ChunkRetryBackoff)
		e.mu.Unlock()
		return
	}
	e.failedUntil = time.Time{}
	e.chunk = res.chunk
	subs := make([]SubscriberCallback, 0, len(e.subscribers))
	for _, cb := range e.subscribers {
		subs = append(subs, cb)
	}
	e.mu.Unlock()

	for _, cb := range subs {
		cb(ChunkEvent{Kind: ChunkLoaded, Chunk: res.chunk})
	}
}

// NotifyBlockChanged delivers a BlockChanged event to every current
// subscriber of coords. Nothing is delivered while the chunk is not
// loaded, so BlockChanged never reaches a subscriber ahead of
// ChunkLoaded. Callers are expected to mutate the chunk (via
// Chunk.SetBlock) before notifying.
func (r *ChunkRegistry) NotifyBlockChanged(coords ChunkCoords, x, y, z int, state int32) {
	e, ok := r.get(coords)
	if !ok {
		return
	}
	e.mu.Lock()
	if e.chunk == nil {
		e.mu.Unlock()
		return
	}
	subs := make([]SubscriberCallback, 0, len(e.subscribers))
	for _, cb := range e.subscribers {
		subs = append(subs, cb)
	}
	e.mu.Unlock()

	for _, cb := range subs {
		cb(ChunkEvent{Kind: BlockChanged, X: x, Y: y, Z: z, BlockState: state})
	}
}

// Close waits for every in-flight chunk load to finish. A load that's
// already running when eviction or shutdown happens is not cancelled
// (spec: pending loads always complete and the result is cached); this
// just lets a teardown hook block until the blocking pool drains.
func (r *ChunkRegistry) Close() error {
	return r.loadGroup.Wait()
}

// Evict drops every chunk whose subscriber count has been zero for at
// least ChunkUnloadTime. Called once per tick.
func (r *ChunkRegistry) Evict() {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e == nil {
			continue
		}
		e.mu.Lock()
		idle := len(e.subscribers) == 0 && e.chunk != nil && now.Sub(e.lastUnsubscribed) >= ChunkUnloadTime
		e.mu.Unlock()
		if idle {
			r.entries[i] = nil
		}
	}
}
