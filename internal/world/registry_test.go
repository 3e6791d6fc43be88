package world

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func blockingSource(gate chan struct{}, loadCount *int64) ChunkSource {
	return ChunkSourceFunc(func(ctx context.Context, coords ChunkCoords) (*Chunk, error) {
		atomic.AddInt64(loadCount, 1)
		<-gate
		return NewChunk(coords), nil
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSubscribeDuringLoadDeliversOnce(t *testing.T) {
	gate := make(chan struct{})
	var loads int64
	r := NewChunkRegistry(blockingSource(gate, &loads), discardLogger())

	coords := ChunkCoords{X: 1, Z: 1}
	var firstEvents, secondEvents []ChunkEvent
	r.Subscribe(coords, 1, func(e ChunkEvent) { firstEvents = append(firstEvents, e) })
	r.Subscribe(coords, 2, func(e ChunkEvent) { secondEvents = append(secondEvents, e) })

	close(gate)
	time.Sleep(20 * time.Millisecond) // let the load goroutine finish and post to completions
	r.PumpCompletions()

	if atomic.LoadInt64(&loads) != 1 {
		t.Fatalf("expected exactly one load, got %d", loads)
	}
	if len(firstEvents) != 1 || firstEvents[0].Kind != ChunkLoaded {
		t.Fatalf("subscriber 1 got %+v", firstEvents)
	}
	if len(secondEvents) != 1 || secondEvents[0].Kind != ChunkLoaded {
		t.Fatalf("subscriber 2 got %+v", secondEvents)
	}
}

func TestSubscribeAfterLoadIsSynchronous(t *testing.T) {
	gate := make(chan struct{})
	close(gate)
	var loads int64
	r := NewChunkRegistry(blockingSource(gate, &loads), discardLogger())

	coords := ChunkCoords{X: 2, Z: 2}
	r.Subscribe(coords, 1, func(ChunkEvent) {})
	time.Sleep(10 * time.Millisecond)
	r.PumpCompletions()

	var events []ChunkEvent
	r.Subscribe(coords, 2, func(e ChunkEvent) { events = append(events, e) })
	if len(events) != 1 || events[0].Kind != ChunkLoaded {
		t.Fatalf("expected synchronous ChunkLoaded, got %+v", events)
	}
}

func TestBlockChangedNeverPrecedesChunkLoaded(t *testing.T) {
	gate := make(chan struct{})
	var loads int64
	r := NewChunkRegistry(blockingSource(gate, &loads), discardLogger())

	coords := ChunkCoords{X: 3, Z: 3}
	var kinds []ChunkEventKind
	r.Subscribe(coords, 1, func(e ChunkEvent) { kinds = append(kinds, e.Kind) })

	// A block change can't legitimately fire before load completes in
	// the tick loop's own sequencing, but the registry itself must
	// still never deliver one to a subscriber who hasn't seen
	// ChunkLoaded: verify NotifyBlockChanged before the load completes
	// reaches nobody, since the entry isn't resolvable as loaded yet.
	r.NotifyBlockChanged(coords, 0, 0, 0, 5)
	if len(kinds) != 0 {
		t.Fatalf("expected no premature delivery, got %+v", kinds)
	}

	close(gate)
	time.Sleep(20 * time.Millisecond)
	r.PumpCompletions()
	r.NotifyBlockChanged(coords, 0, 0, 0, 5)

	if len(kinds) != 2 || kinds[0] != ChunkLoaded || kinds[1] != BlockChanged {
		t.Fatalf("got %+v", kinds)
	}
}

func TestEvictDropsUnsubscribedChunk(t *testing.T) {
	gate := make(chan struct{})
	close(gate)
	var loads int64
	r := NewChunkRegistry(blockingSource(gate, &loads), discardLogger())

	coords := ChunkCoords{X: 4, Z: 4}
	r.Subscribe(coords, 1, func(ChunkEvent) {})
	time.Sleep(10 * time.Millisecond)
	r.PumpCompletions()
	r.Unsubscribe(coords, 1)

	e, _ := r.get(coords)
	e.mu.Lock()
	e.lastUnsubscribed = time.Now().Add(-ChunkUnloadTime - time.Second)
	e.mu.Unlock()

	r.Evict()

	if _, ok := r.get(coords); ok {
		t.Fatal("expected chunk to be evicted")
	}
}
