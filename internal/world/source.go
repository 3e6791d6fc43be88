package world

import "context"

// ChunkSource provides chunk data on demand — world generation,
// a save-file reader, or any other pluggable backing store. A
// registry load runs this on a blocking-friendly goroutine, never on
// the tick loop itself.
type ChunkSource interface {
	LoadChunk(ctx context.Context, coords ChunkCoords) (*Chunk, error)
}

// ChunkSourceFunc adapts a plain function to ChunkSource.
type ChunkSourceFunc func(ctx context.Context, coords ChunkCoords) (*Chunk, error)

func (f ChunkSourceFunc) LoadChunk(ctx context.Context, coords ChunkCoords) (*Chunk, error) {
	return f(ctx, coords)
}
