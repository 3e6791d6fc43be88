// Package server wires every other package into the running game
// server: the TCP accept loop (spec component B/C), the tick
// scheduler's registered systems (component I), and the shutdown
// sequence that flushes state to storage.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/kael-voss/voxelpulse/internal/config"
	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/internal/netio"
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/router"
	"github.com/kael-voss/voxelpulse/internal/scheduler"
	"github.com/kael-voss/voxelpulse/internal/spatial"
	"github.com/kael-voss/voxelpulse/internal/storage"
	"github.com/kael-voss/voxelpulse/internal/world"
	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

// protocolVersion is advertised in status responses. The core accepts
// any client that completes the handshake/login exchange regardless of
// the version it declares — protocol negotiation is out of scope
// (spec §1).
const protocolVersion = 754

// pendingQueueCapacity bounds how many logged-in connections may be
// waiting for the accept_new_players system before a new login is
// rejected outright.
const pendingQueueCapacity = 64

// groundLevel is the flat world's surface height, passed to the
// bundled FlatSource.
const groundLevel = 63

// pendingJoin is a connection that finished login and is waiting for
// the next tick's accept_new_players system to fold it into the
// simulation.
type pendingJoin struct {
	uuid uuid.UUID
	name string
	game *conn.GameSide
}

// Server owns every shared resource the tick scheduler's systems close
// over, and runs the accept loop that feeds new connections to them.
type Server struct {
	cfg   *config.Config
	log   *slog.Logger
	gd    *gamedata.GameData
	store *storage.Store

	tracker      *spatial.EntityTracker
	registry     *world.ChunkRegistry
	list         *players.List
	chunkRouter  *router.ChunkRouter
	entityRouter *router.EntityRouter
	sched        *scheduler.Scheduler

	pending chan pendingJoin
}

// New constructs a Server and registers its tick systems. With a store,
// player state is saved on disconnect and shutdown, and chunks already
// in the store are loaded from it; the server never writes chunks to
// the store. store may be nil, in which case nothing is persisted and
// every chunk comes from the flat generator.
func New(cfg *config.Config, log *slog.Logger, store *storage.Store, gd *gamedata.GameData) *Server {
	tracker := spatial.NewEntityTracker()
	source := chunkSourceFor(store, gd.Blocks)
	registry := world.NewChunkRegistry(source, log)
	list := players.NewList()

	s := &Server{
		cfg:          cfg,
		log:          log,
		gd:           gd,
		store:        store,
		tracker:      tracker,
		registry:     registry,
		list:         list,
		chunkRouter:  router.NewChunkRouter(registry),
		entityRouter: router.NewEntityRouter(tracker, list),
		sched:        scheduler.New(log),
		pending:      make(chan pendingJoin, pendingQueueCapacity),
	}
	s.registerSystems()
	return s
}

// chunkSourceFor wraps the bundled flat generator with a store-backed
// lookup when persistence is enabled, so a previously saved chunk wins
// over regenerating it flat.
func chunkSourceFor(store *storage.Store, blocks gamedata.BlockRegistry) world.ChunkSource {
	flat := world.NewFlatSource(blocks, groundLevel)
	if store == nil {
		return flat
	}
	return world.ChunkSourceFunc(func(ctx context.Context, coords world.ChunkCoords) (*world.Chunk, error) {
		if chunk, ok, err := store.LoadChunk(coords, blocks); err != nil {
			return nil, err
		} else if ok {
			return chunk, nil
		}
		return flat.LoadChunk(ctx, coords)
	})
}

// Scheduler returns the server's tick scheduler, for the caller to run
// and register an OS-signal teardown against.
func (s *Server) Scheduler() *scheduler.Scheduler { return s.sched }

// Players returns the connected-player list, for the console's
// "players" command.
func (s *Server) Players() *players.List { return s.list }

// Start listens on the configured port and accepts connections until
// ctx is cancelled. Each connection runs its handshake/status/login
// driver on its own goroutine; a connection that reaches Play state is
// handed to the tick loop through the pending queue rather than
// touched further here.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.log.Info("server listening", "port", s.cfg.Port, "motd", s.cfg.MOTD, "world_path", s.cfg.WorldPath)

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Error("accept connection", "error", err)
			continue
		}
		go s.handleConnection(c)
	}
}

func (s *Server) handleConnection(c net.Conn) {
	intent, _, err := netio.RunHandshake(c)
	if err != nil {
		s.log.Debug("handshake failed", "error", err)
		c.Close()
		return
	}

	switch intent {
	case netio.IntentStatus:
		s.serveStatus(c)

	case netio.IntentLogin:
		s.serveLogin(c)

	default:
		c.Close()
	}
}

func (s *Server) serveStatus(c net.Conn) {
	defer c.Close()

	var status netio.ServerStatus
	status.Version.Name = "voxelpulse"
	status.Version.Protocol = protocolVersion
	status.Players.Max = int32(s.cfg.MaxPlayers)
	status.Players.Online = int32(s.list.Len())
	status.Description.Text = s.cfg.MOTD

	if err := netio.ServeStatus(c, status); err != nil && !errors.Is(err, io.EOF) {
		s.log.Debug("status exchange ended", "error", err)
	}
}

func (s *Server) serveLogin(c net.Conn) {
	id, name, err := netio.RunLogin(c)
	if err != nil {
		s.log.Warn("login failed", "error", err)
		c.Close()
		return
	}

	playerSide, gameSide := conn.NewConnectionPair()
	go netio.RunPlayLoop(c, playerSide, s.cfg.WriteTimeout(), s.log)

	select {
	case s.pending <- pendingJoin{uuid: id, name: name, game: gameSide}:
	default:
		s.log.Warn("pending join queue full, rejecting connection", "name", name)
		gameSide.Close()
	}
}
