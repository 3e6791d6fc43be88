// Package router implements the Subscription Router (spec component
// H): it binds each player's view diff to the chunk registry and
// entity tracker and translates their events into outbound packets.
package router

import (
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/view"
	"github.com/kael-voss/voxelpulse/internal/world"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// ChunkRouter drives the per-tick chunk view diff for every player
// against the shared chunk registry.
type ChunkRouter struct {
	registry *world.ChunkRegistry
}

// NewChunkRouter returns a router bound to registry.
func NewChunkRouter(registry *world.ChunkRegistry) *ChunkRouter {
	return &ChunkRouter{registry: registry}
}

// Tick computes p's chunk view diff and subscribes/unsubscribes and
// sends packets accordingly. Call once per player per tick.
func (r *ChunkRouter) Tick(p *players.Player) {
	move := p.ChunkView.MoveTo(p.Pos)

	if move.ChangedChunk {
		here := view.ChunkCoordsFromPos(p.Pos)
		_ = p.Game.Send(&protocol.UpdateViewPosition{ChunkX: here.X, ChunkZ: here.Z})
	}

	for _, coords := range move.Added {
		coords := coords
		r.registry.Subscribe(coords, p.SubscriberID, func(e world.ChunkEvent) {
			deliverChunkEvent(p, coords, e)
		})
	}
	for _, coords := range move.Removed {
		r.registry.Unsubscribe(coords, p.SubscriberID)
		_ = p.Game.Send(&protocol.UnloadChunk{X: coords.X, Z: coords.Z})
	}
}

func deliverChunkEvent(p *players.Player, coords world.ChunkCoords, e world.ChunkEvent) {
	switch e.Kind {
	case world.ChunkLoaded:
		data, light := buildChunkPackets(coords, e.Chunk)
		_ = p.Game.Send(data)
		_ = p.Game.Send(light)
	case world.BlockChanged:
		pos := protocol.BlockPosition{
			X: coords.X*16 + int32(e.X),
			Y: int32(e.Y),
			Z: coords.Z*16 + int32(e.Z),
		}
		_ = p.Game.Send(&protocol.BlockChange{Position: pos, State: e.BlockState})
	}
}

// buildChunkPackets assembles the ChunkData + UpdateLight pair sent
// whenever a chunk finishes loading for a subscriber. Sky light is
// sent fully lit and block light empty — the core has no lighting
// engine; it passes through whatever a ChunkSource's blocks imply.
func buildChunkPackets(coords world.ChunkCoords, chunk *world.Chunk) (*protocol.ChunkData, *protocol.UpdateLight) {
	heightmap := chunk.Heightmap()
	heightmapNBT := protocol.NewBuilder()
	for _, h := range heightmap {
		heightmapNBT.I32(int32(h))
	}

	biomes := chunk.BiomeMap()
	body := protocol.NewBuilder().
		Bool(true). // full chunk
		VarInt(int32(chunk.SectionsBitmask())).
		NBT(heightmapNBT.Build()).
		Bool(true) // biomes present
	for _, b := range biomes {
		body.U16(b)
	}
	data := sectionBytes(chunk)
	body.VarInt(int32(len(data))).Bytes(data).VarInt(0) // no block entities

	chunkData := &protocol.ChunkData{X: coords.X, Z: coords.Z, Data: body.Build()}

	const sectionCount = 16
	skyArray := make([]byte, 2048)
	for i := range skyArray {
		skyArray[i] = 0xFF
	}
	lightBody := protocol.NewBuilder().
		Bool(true). // trust edges
		VarInt(0b0011_1111_1111_1111_1111).
		VarInt(0).
		VarInt(0).
		VarInt(0b0011_1111_1111_1111_1111).
		VarInt(sectionCount)
	for i := 0; i < sectionCount; i++ {
		lightBody.VarInt(int32(len(skyArray))).Bytes(skyArray)
	}
	lightBody.VarInt(0)

	light := &protocol.UpdateLight{X: coords.X, Z: coords.Z, Data: lightBody.Build()}
	return chunkData, light
}

// sectionBytes serializes every block of the column, absent sections
// included as air, in y-then-z-then-x order, one state id per block as
// a varint — the exact packed-long-array palette format is
// out of the core's scope, so this is the flat representation a
// ChunkSource's consumer on the other end is expected to agree on.
func sectionBytes(chunk *world.Chunk) []byte {
	b := protocol.NewBuilder()
	for y := 0; y < world.ChunkHeight; y++ {
		for z := 0; z < world.SectionWidth; z++ {
			for x := 0; x < world.SectionWidth; x++ {
				blk := chunk.GetBlock(x, y, z)
				b.VarInt(int32(blk.ID))
			}
		}
	}
	return b.Build()
}
