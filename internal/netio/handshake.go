package netio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// Intent is the handshake packet's declared next state.
type Intent int32

const (
	IntentStatus Intent = 1
	IntentLogin  Intent = 2
)

// ServerStatus is marshaled to JSON for the status response.
type ServerStatus struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int32  `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int32 `json:"max"`
		Online int32 `json:"online"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

// RunHandshake reads the single handshake packet and returns the
// negotiated intent and the raw Handshake fields. Any intent other
// than Status or Login is a protocol error, per spec component C.
func RunHandshake(c net.Conn) (Intent, protocol.Handshake, error) {
	r := bufio.NewReader(c)
	var hs protocol.Handshake
	if err := protocol.ReadPacket(r, &hs); err != nil {
		return 0, hs, fmt.Errorf("read handshake: %w", err)
	}
	switch Intent(hs.NextState) {
	case IntentStatus, IntentLogin:
		return Intent(hs.NextState), hs, nil
	default:
		return 0, hs, fmt.Errorf("%w: unrecognized intent %d", conn.ErrProtocolError, hs.NextState)
	}
}

// ServeStatus answers the status request/ping exchange and returns
// once the client disconnects. It never produces a player.
func ServeStatus(c net.Conn, status ServerStatus) error {
	r := bufio.NewReader(c)
	w := bufio.NewWriter(c)
	for {
		id, payload, err := protocol.ReadRawPacket(r)
		if err != nil {
			return err
		}
		switch id {
		case protocol.IDStatusRequest:
			body, err := json.Marshal(status)
			if err != nil {
				return err
			}
			if err := protocol.WritePacket(w, &protocol.StatusResponse{JSON: string(body)}); err != nil {
				return err
			}
		case protocol.IDStatusPing:
			var ping protocol.StatusPing
			if err := protocol.Unmarshal(payload, &ping); err != nil {
				return err
			}
			if err := protocol.WritePacket(w, &protocol.StatusPong{Payload: ping.Payload}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unexpected status-state packet 0x%02X", conn.ErrProtocolError, id)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

// RunLogin reads the LoginStart packet, derives the player's UUID
// (v3, nil namespace, over the UTF-8 username), and replies with
// LoginSuccess. No encryption, compression, or identity lookup runs
// here — adding them later must change only this function's body, not
// the state machine around it.
func RunLogin(c net.Conn) (uuid.UUID, string, error) {
	r := bufio.NewReader(c)
	w := bufio.NewWriter(c)

	var start protocol.LoginStart
	if err := protocol.ReadPacket(r, &start); err != nil {
		return uuid.UUID{}, "", fmt.Errorf("read login start: %w", err)
	}

	id := uuid.NewMD5(uuid.Nil, []byte(start.Name))

	var raw [16]byte
	copy(raw[:], id[:])
	success := &protocol.LoginSuccess{UUID: raw, Name: start.Name}
	if err := protocol.WritePacket(w, success); err != nil {
		return uuid.UUID{}, "", fmt.Errorf("write login success: %w", err)
	}
	if err := w.Flush(); err != nil {
		return uuid.UUID{}, "", err
	}
	return id, start.Name, nil
}
