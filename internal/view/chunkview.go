// Package view computes, once per tick per player, the difference
// between what a player was observing and what they should observe
// now — both chunks and entity buckets — so the Subscription Router
// can translate the diff into subscribe/unsubscribe calls and outbound
// packets.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kael-voss/voxelpulse/internal/world"
)

// ChunkCoordsFromPos returns the chunk column containing pos.
func ChunkCoordsFromPos(pos mgl64.Vec3) world.ChunkCoords {
	return world.ChunkCoords{
		X: int32(floorDiv(pos.X(), 16)),
		Z: int32(floorDiv(pos.Z(), 16)),
	}
}

func chunkCoordsFromPos(pos mgl64.Vec3) world.ChunkCoords {
	return ChunkCoordsFromPos(pos)
}

func floorDiv(v float64, side int32) int32 {
	return int32(math.Floor(v / float64(side)))
}

// ChunkViewMove is the result of ChunkView.MoveTo.
type ChunkViewMove struct {
	Added        []world.ChunkCoords
	Removed      []world.ChunkCoords
	ChangedChunk bool
}

// ChunkView tracks the square of loaded chunk coordinates around one
// player's position. The set always equals
// {(cx+i, cz+j) : |i|,|j| <= Radius} centered on the chunk containing
// the last position passed to MoveTo.
type ChunkView struct {
	Radius  int32
	inView  map[world.ChunkCoords]struct{}
	hasLast bool
	lastPos mgl64.Vec3
}

// NewChunkView returns an empty view with no chunks loaded yet.
func NewChunkView(radius int32) *ChunkView {
	return &ChunkView{Radius: radius, inView: make(map[world.ChunkCoords]struct{})}
}

// MoveTo recomputes the view square around newPos and returns the diff
// against the previous call. The view's internal state is updated
// atomically with respect to the returned diff.
func (v *ChunkView) MoveTo(newPos mgl64.Vec3) ChunkViewMove {
	changedChunk := !v.hasLast || chunkCoordsFromPos(v.lastPos) != chunkCoordsFromPos(newPos)

	center := chunkCoordsFromPos(newPos)
	next := make(map[world.ChunkCoords]struct{}, (2*v.Radius+1)*(2*v.Radius+1))
	for i := -v.Radius; i <= v.Radius; i++ {
		for j := -v.Radius; j <= v.Radius; j++ {
			next[world.ChunkCoords{X: center.X + i, Z: center.Z + j}] = struct{}{}
		}
	}

	var added, removed []world.ChunkCoords
	for c := range next {
		if _, ok := v.inView[c]; !ok {
			added = append(added, c)
		}
	}
	for c := range v.inView {
		if _, ok := next[c]; !ok {
			removed = append(removed, c)
		}
	}

	v.inView = next
	v.lastPos = newPos
	v.hasLast = true

	return ChunkViewMove{Added: added, Removed: removed, ChangedChunk: changedChunk}
}

// InView reports whether coords is currently part of the view.
func (v *ChunkView) InView(coords world.ChunkCoords) bool {
	_, ok := v.inView[coords]
	return ok
}
