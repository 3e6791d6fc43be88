// Package world implements the chunk registry: on-demand chunk loading
// through a pluggable source, per-chunk subscriber fan-out, and the
// block storage backing each loaded chunk.
package world

// ChunkCoords identifies a column of the world, 16 blocks square and
// spanning the full build height.
type ChunkCoords struct {
	X, Z int32
}

// key packs a ChunkCoords into a single int64 for use with the
// registry's coordinate index.
func (c ChunkCoords) key() int64 {
	return int64(uint64(uint32(c.X))<<32 | uint64(uint32(c.Z)))
}
