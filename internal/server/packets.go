package server

import (
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// emptyCompound is a bare TAG_End — the opaque NBT pass-through's
// stand-in for the dimension codec/dimension blobs JoinGame carries
// (spec §4.A treats NBT as opaque; the core has no registry codec to
// emit a real one).
func emptyCompound() []byte {
	return []byte{0x00}
}

// buildJoinGame assembles the JoinGame payload for a newly accepted
// player: entity id, gamemode, a single fixed world, and the scalar
// flags the play state expects before further packets are accepted.
func buildJoinGame(p *players.Player, viewDistance int32, maxPlayers uint32) *protocol.JoinGame {
	body := protocol.NewBuilder().
		I32(int32(p.ID)).
		Bool(false). // hardcore
		U8(0).       // gamemode: survival
		I32(-1).     // previous gamemode: none
		VarInt(1).   // world count
		Str("voxelpulse:world").
		NBT(emptyCompound()). // dimension codec
		NBT(emptyCompound()). // dimension
		Str("voxelpulse:world").
		I64(0). // hashed seed
		VarInt(int32(maxPlayers)).
		VarInt(viewDistance).
		Bool(false). // reduced debug info
		Bool(true).  // enable respawn screen
		Bool(false). // is debug
		Bool(true)   // is flat
	return &protocol.JoinGame{Data: body.Build()}
}

// playerInfoAddEntry builds one PlayerInfoAdd entry: UUID, name, an
// empty property list, gamemode, ping, and no custom display name.
func playerInfoAddEntry(p *players.Player) []byte {
	var rawUUID [16]byte
	copy(rawUUID[:], p.UUID[:])
	return protocol.NewBuilder().
		UUID(rawUUID).
		Str(p.Name).
		VarInt(0). // properties
		VarInt(0). // gamemode: survival
		VarInt(0). // ping
		Bool(false).
		Build()
}

// playerInfoRemoveEntry builds one PlayerInfoRemove entry: just the
// UUID.
func playerInfoRemoveEntry(p *players.Player) []byte {
	var rawUUID [16]byte
	copy(rawUUID[:], p.UUID[:])
	return protocol.NewBuilder().UUID(rawUUID).Build()
}

// buildPlayerInfo wraps a list of pre-built entries under the given
// action.
func buildPlayerInfo(action int32, entries [][]byte) *protocol.PlayerInfo {
	body := protocol.NewBuilder().VarInt(int32(len(entries)))
	for _, e := range entries {
		body.Bytes(e)
	}
	return &protocol.PlayerInfo{Action: action, Data: body.Build()}
}
