package protocol

// Packet IDs from spec §6. Packets whose payload doesn't reduce to a flat
// tagged struct (ChunkData, UpdateLight, JoinGame, PlayerInfo,
// WindowItems, DestroyEntities, Tags) carry a pre-built Data []byte
// assembled with a Builder by the caller that has the context (the
// Subscription Router, the player manager) to do so.
const (
	IDHandshake     = 0x00
	IDStatusRequest = 0x00
	IDStatusPing    = 0x01
	IDLoginStart    = 0x00

	IDStatusResponse            = 0x00
	IDStatusPong                = 0x01
	IDLoginSuccess              = 0x02
	IDSpawnPlayer               = 0x04
	IDBlockChange               = 0x0B
	IDWindowItems               = 0x13
	IDPluginMessage             = 0x17
	IDDisconnect                = 0x19
	IDUnloadChunk               = 0x1C
	IDKeepAlive                 = 0x1F
	IDChunkData                 = 0x20
	IDUpdateLight               = 0x23
	IDJoinGame                  = 0x24
	IDEntityPosition            = 0x27
	IDEntityPositionAndRotation = 0x28
	IDEntityRotation            = 0x29
	IDPlayerInfo                = 0x32
	IDPlayerPosition            = 0x34
	IDDestroyEntities           = 0x36
	IDEntityHeadLook            = 0x3A
	IDUpdateViewPosition        = 0x40
	IDEntityTeleport            = 0x56
	IDTags                      = 0x5B
)

// --- Serverbound (handshake/status/login) ---

type Handshake struct {
	ProtocolVersion int32  `mc:"varint"`
	ServerAddress   string `mc:"string"`
	ServerPort      uint16 `mc:"u16"`
	NextState       int32  `mc:"varint"`
}

func (Handshake) PacketID() int32 { return IDHandshake }

type StatusRequest struct{}

func (StatusRequest) PacketID() int32 { return IDStatusRequest }

type StatusPing struct {
	Payload int64 `mc:"i64"`
}

func (StatusPing) PacketID() int32 { return IDStatusPing }

type LoginStart struct {
	Name string `mc:"string"`
}

func (LoginStart) PacketID() int32 { return IDLoginStart }

// --- Clientbound (status/login) ---

type StatusResponse struct {
	JSON string `mc:"string"`
}

func (StatusResponse) PacketID() int32 { return IDStatusResponse }

type StatusPong struct {
	Payload int64 `mc:"i64"`
}

func (StatusPong) PacketID() int32 { return IDStatusPong }

type LoginSuccess struct {
	UUID [16]byte `mc:"uuid"`
	Name string   `mc:"string"`
}

func (LoginSuccess) PacketID() int32 { return IDLoginSuccess }

// --- Clientbound (play) ---

type SpawnPlayer struct {
	EntityID int32    `mc:"varint"`
	UUID     [16]byte `mc:"uuid"`
	X, Y, Z  float64  `mc:"f64"`
	Yaw      float64  `mc:"angle"`
	Pitch    float64  `mc:"angle"`
}

func (SpawnPlayer) PacketID() int32 { return IDSpawnPlayer }

type BlockChange struct {
	Position BlockPosition `mc:"blockpos"`
	State    int32         `mc:"varint"`
}

func (BlockChange) PacketID() int32 { return IDBlockChange }

type WindowItems struct {
	WindowID uint8  `mc:"u8"`
	Count    uint16 `mc:"u16"`
	Data     []byte `mc:"raw"` // count×slot, pre-encoded
}

func (WindowItems) PacketID() int32 { return IDWindowItems }

type PluginMessage struct {
	Channel string `mc:"string"`
	Content string `mc:"string"`
}

func (PluginMessage) PacketID() int32 { return IDPluginMessage }

type Disconnect struct {
	ReasonJSON string `mc:"string"`
}

func (Disconnect) PacketID() int32 { return IDDisconnect }

type UnloadChunk struct {
	X int32 `mc:"i32"`
	Z int32 `mc:"i32"`
}

func (UnloadChunk) PacketID() int32 { return IDUnloadChunk }

type KeepAlive struct {
	ID int64 `mc:"i64"`
}

func (KeepAlive) PacketID() int32 { return IDKeepAlive }

// KeepAliveResponse is the client's echo of a KeepAlive.ID, read back
// by the tick scheduler's process_inbound system to set KeepAliveAcked.
type KeepAliveResponse struct {
	ID int64 `mc:"i64"`
}

func (KeepAliveResponse) PacketID() int32 { return IDKeepAlive }

type ChunkData struct {
	X, Z int32  `mc:"i32"`
	Data []byte `mc:"raw"` // full, bitmask, heightmap nbt, biomes, data, block entities
}

func (ChunkData) PacketID() int32 { return IDChunkData }

type UpdateLight struct {
	X, Z int32  `mc:"varint"`
	Data []byte `mc:"raw"` // trust-edges, masks, sky/block arrays
}

func (UpdateLight) PacketID() int32 { return IDUpdateLight }

// JoinGame's body is assembled entirely with a Builder (world list, the
// dimension codec/dimension NBT blobs, and a dozen scalar flags) — see
// buildJoinGame in internal/server.
type JoinGame struct {
	Data []byte `mc:"raw"`
}

func (JoinGame) PacketID() int32 { return IDJoinGame }

type EntityPosition struct {
	EntityID int32   `mc:"varint"`
	DeltaX   float64 `mc:"posdelta"`
	DeltaY   float64 `mc:"posdelta"`
	DeltaZ   float64 `mc:"posdelta"`
	OnGround bool    `mc:"bool"`
}

func (EntityPosition) PacketID() int32 { return IDEntityPosition }

type EntityPositionAndRotation struct {
	EntityID int32   `mc:"varint"`
	DeltaX   float64 `mc:"posdelta"`
	DeltaY   float64 `mc:"posdelta"`
	DeltaZ   float64 `mc:"posdelta"`
	Yaw      float64 `mc:"angle"`
	Pitch    float64 `mc:"angle"`
	OnGround bool    `mc:"bool"`
}

func (EntityPositionAndRotation) PacketID() int32 { return IDEntityPositionAndRotation }

type EntityRotation struct {
	EntityID int32   `mc:"varint"`
	Yaw      float64 `mc:"angle"`
	Pitch    float64 `mc:"angle"`
	OnGround bool    `mc:"bool"`
}

func (EntityRotation) PacketID() int32 { return IDEntityRotation }

// PlayerInfo action ids. Actions 1 and 2 follow the entry layout
// described in SPEC_FULL.md's Open Question decisions (UUID + varint
// payload), not a verified wire capture.
const (
	PlayerInfoAdd            = 0
	PlayerInfoUpdateGamemode = 1
	PlayerInfoUpdateLatency  = 2
	PlayerInfoRemove         = 4
)

// PlayerInfo's Action selects the variant (0=add, 1=update gamemode,
// 2=update latency, 4=remove); Data holds the pre-built per-entry list.
// The exact wire layout for actions 1 and 2 is an Open Question (spec
// §9) resolved in SPEC_FULL.md.
type PlayerInfo struct {
	Action int32  `mc:"varint"`
	Data   []byte `mc:"raw"`
}

func (PlayerInfo) PacketID() int32 { return IDPlayerInfo }

type PlayerPosition struct {
	X, Y, Z    float64 `mc:"f64"`
	Yaw, Pitch float32 `mc:"f32"`
	Flags      uint8   `mc:"u8"`
	TeleportID int32   `mc:"varint"`
}

func (PlayerPosition) PacketID() int32 { return IDPlayerPosition }

type DestroyEntities struct {
	Data []byte `mc:"raw"` // varint count, varint×n ids
}

func (DestroyEntities) PacketID() int32 { return IDDestroyEntities }

type EntityHeadLook struct {
	EntityID int32   `mc:"varint"`
	Yaw      float64 `mc:"angle"`
}

func (EntityHeadLook) PacketID() int32 { return IDEntityHeadLook }

type UpdateViewPosition struct {
	ChunkX int32 `mc:"varint"`
	ChunkZ int32 `mc:"varint"`
}

func (UpdateViewPosition) PacketID() int32 { return IDUpdateViewPosition }

type EntityTeleport struct {
	EntityID   int32   `mc:"varint"`
	X, Y, Z    float64 `mc:"f64"`
	Yaw, Pitch float64 `mc:"angle"`
	OnGround   bool    `mc:"bool"`
}

func (EntityTeleport) PacketID() int32 { return IDEntityTeleport }

type Tags struct {
	Data []byte `mc:"raw"` // opaque pre-serialized blob
}

func (Tags) PacketID() int32 { return IDTags }
