// Package spatial implements the bucket grid that partitions the world
// into fixed-size cubes for entity interest management: every entity
// belongs to exactly one bucket, and buckets fan out occupancy events to
// the players observing them.
package spatial

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// BucketSide is the edge length, in blocks, of a bucket cube.
const BucketSide = 16

// BucketCoords identifies a cube of BucketSide blocks on a side,
// spanning the full world height.
type BucketCoords struct {
	X, Y, Z int32
}

// FromPos returns the bucket containing the given world position.
func FromPos(pos mgl64.Vec3) BucketCoords {
	return BucketCoords{
		X: floorDiv(pos.X(), BucketSide),
		Y: floorDiv(pos.Y(), BucketSide),
		Z: floorDiv(pos.Z(), BucketSide),
	}
}

func floorDiv(v float64, side int32) int32 {
	return int32(math.Floor(v / float64(side)))
}

// hash produces a well-mixed 64-bit digest of the coordinate, used to
// pick a shard in the entity tracker's sharded bucket map rather than
// relying on Go's built-in (and unexported) map hash.
func (c BucketCoords) hash() uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(c.X))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(c.Y))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.Z))
	return xxhash.Sum64(buf[:])
}
