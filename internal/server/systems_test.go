package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/kael-voss/voxelpulse/internal/config"
	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	return New(cfg, discardLogger(), nil, gamedata.MustLoad("minimal"))
}

func TestAcceptNewPlayersDrainsPendingAndBroadcastsJoin(t *testing.T) {
	s := newTestServer(t)

	playerSide, gameSide := conn.NewConnectionPair()
	defer playerSide.Close()

	s.pending <- pendingJoin{uuid: uuid.New(), name: "Steve", game: gameSide}

	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}

	if s.list.Len() != 1 {
		t.Fatalf("players connected = %d, want 1", s.list.Len())
	}

	if _, ok := gameSide.TryNextOutbound(); !ok {
		t.Fatal("expected JoinGame queued for the new player")
	}
	if _, ok := gameSide.TryNextOutbound(); !ok {
		t.Fatal("expected PlayerInfo(add) queued for the new player")
	}
}

func TestAcceptNewPlayersBroadcastsNewcomerToExisting(t *testing.T) {
	s := newTestServer(t)

	firstPlayerSide, firstGameSide := conn.NewConnectionPair()
	defer firstPlayerSide.Close()
	s.pending <- pendingJoin{uuid: uuid.New(), name: "Alex", game: firstGameSide}
	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}
	// Drain the first player's own join packets.
	firstGameSide.TryNextOutbound()
	firstGameSide.TryNextOutbound()

	secondPlayerSide, secondGameSide := conn.NewConnectionPair()
	defer secondPlayerSide.Close()
	s.pending <- pendingJoin{uuid: uuid.New(), name: "Steve", game: secondGameSide}
	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}

	if _, ok := firstGameSide.TryNextOutbound(); !ok {
		t.Fatal("expected the first player to receive PlayerInfo(add) for the newcomer")
	}
}

func TestSystemKeepAliveSendsAfterInterval(t *testing.T) {
	s := newTestServer(t)
	playerSide, gameSide := conn.NewConnectionPair()
	defer playerSide.Close()

	s.pending <- pendingJoin{uuid: uuid.New(), name: "Steve", game: gameSide}
	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}
	gameSide.TryNextOutbound()
	gameSide.TryNextOutbound()

	p := s.list.All()[0]
	p.TicksSinceKeepAlive = KeepAliveIntervalTicks

	if err := s.systemKeepAlive(context.Background()); err != nil {
		t.Fatalf("systemKeepAlive: %v", err)
	}

	if _, ok := gameSide.TryNextOutbound(); !ok {
		t.Fatal("expected a KeepAlive packet to be queued")
	}
	if p.KeepAliveAcked {
		t.Error("expected KeepAliveAcked to be reset to false after sending")
	}
}

func TestSystemKeepAliveDisconnectsOnTimeout(t *testing.T) {
	s := newTestServer(t)
	playerSide, gameSide := conn.NewConnectionPair()
	defer playerSide.Close()

	s.pending <- pendingJoin{uuid: uuid.New(), name: "Steve", game: gameSide}
	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}

	p := s.list.All()[0]
	p.KeepAliveAcked = false
	p.TicksSinceKeepAlive = KeepAliveGraceTicks

	if err := s.systemKeepAlive(context.Background()); err != nil {
		t.Fatalf("systemKeepAlive: %v", err)
	}

	select {
	case <-gameSide.Closed():
	default:
		t.Fatal("expected the connection to be closed after a keep-alive timeout")
	}
}

func TestSystemDisconnectCleanupRemovesClosedPlayer(t *testing.T) {
	s := newTestServer(t)
	playerSide, gameSide := conn.NewConnectionPair()
	defer playerSide.Close()

	s.pending <- pendingJoin{uuid: uuid.New(), name: "Steve", game: gameSide}
	if err := s.systemAcceptNewPlayers(context.Background()); err != nil {
		t.Fatalf("systemAcceptNewPlayers: %v", err)
	}
	if s.list.Len() != 1 {
		t.Fatalf("players connected = %d, want 1", s.list.Len())
	}

	gameSide.Close()
	if err := s.systemDisconnectCleanup(context.Background()); err != nil {
		t.Fatalf("systemDisconnectCleanup: %v", err)
	}

	if s.list.Len() != 0 {
		t.Fatalf("players connected after cleanup = %d, want 0", s.list.Len())
	}
}
