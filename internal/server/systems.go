package server

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// KeepAliveIntervalTicks is how often, in ticks, the server sends a
// fresh KeepAlive to each connected player (10s at the scheduler's
// 20 TPS).
const KeepAliveIntervalTicks = 200

// KeepAliveGraceTicks is how long a player has to answer a KeepAlive
// before disconnect_cleanup force-closes their connection.
const KeepAliveGraceTicks = 400

// registerSystems lays out the fixed per-tick execution order: drain
// new connections first so the rest of the tick already sees them,
// process what clients sent last tick, keep connections alive, diff
// both view kinds, apply chunk loads that finished in the background,
// evict what's gone idle, then clean up anyone who disconnected.
func (s *Server) registerSystems() {
	s.sched.Register("accept_new_players", s.systemAcceptNewPlayers)
	s.sched.Register("process_inbound", s.systemProcessInbound)
	s.sched.Register("keep_alive", s.systemKeepAlive)
	s.sched.Register("update_chunk_view", s.systemUpdateChunkView)
	s.sched.Register("send_entity_events", s.systemSendEntityEvents)
	s.sched.Register("pump_chunk_completions", s.systemPumpChunkCompletions)
	s.sched.Register("evict_idle", s.systemEvictIdle)
	s.sched.Register("disconnect_cleanup", s.systemDisconnectCleanup)

	s.sched.RegisterTeardown(s.teardownFlushPlayers)
	s.sched.RegisterTeardown(s.teardownDrainChunkLoads)
	s.sched.RegisterTeardown(s.teardownCloseStore)
}

func (s *Server) systemAcceptNewPlayers(ctx context.Context) error {
	for {
		select {
		case pj := <-s.pending:
			s.acceptPlayer(pj)
		default:
			return nil
		}
	}
}

// acceptPlayer folds a logged-in connection into the simulation: loads
// its saved position (if any), registers it with the player list and
// entity tracker, and exchanges the join broadcast — JoinGame plus the
// existing roster to the new player, and the new player's own entry to
// everyone already connected.
func (s *Server) acceptPlayer(pj pendingJoin) {
	id := s.list.NextEntityID()
	p := players.New(id, pj.uuid, pj.name, pj.game, int32(s.cfg.ViewDistance))

	if s.store != nil {
		if rec, ok, err := s.store.LoadPlayer(pj.uuid); err != nil {
			s.log.Error("load player record failed", "player", pj.name, "error", err)
		} else if ok {
			p.Pos = mgl64.Vec3{rec.X, rec.Y, rec.Z}
			p.Yaw, p.Pitch = rec.Yaw, rec.Pitch
			p.Inventory = rec.Inventory
		}
	}

	existing := s.list.All()

	s.list.Add(p)
	s.tracker.Add(p.ID, p.Handle, p.Pos)

	_ = p.Game.Send(buildJoinGame(p, int32(s.cfg.ViewDistance), s.cfg.MaxPlayers))

	addEntries := make([][]byte, 0, len(existing)+1)
	addEntries = append(addEntries, playerInfoAddEntry(p))
	for _, other := range existing {
		addEntries = append(addEntries, playerInfoAddEntry(other))
	}
	_ = p.Game.Send(buildPlayerInfo(protocol.PlayerInfoAdd, addEntries))

	selfEntry := playerInfoAddEntry(p)
	for _, other := range existing {
		_ = other.Game.Send(buildPlayerInfo(protocol.PlayerInfoAdd, [][]byte{selfEntry}))
	}

	s.log.Info("player joined", "name", p.Name, "uuid", p.UUID, "entity_id", p.ID)
}

// systemProcessInbound drains every player's inbound queue and handles
// the handful of play-state packets the core cares about directly:
// KeepAlive acknowledgement and position updates (which re-bucket the
// entity in the spatial grid).
func (s *Server) systemProcessInbound(ctx context.Context) error {
	for _, p := range s.list.All() {
		for _, pkt := range p.Game.TryDrain() {
			raw, ok := pkt.(protocol.RawPacket)
			if !ok {
				continue
			}
			switch raw.ID {
			case protocol.IDKeepAlive:
				s.handleKeepAliveResponse(p, raw.Payload)
			case protocol.IDPlayerPosition:
				s.handlePlayerPosition(p, raw.Payload)
			}
		}
	}
	return nil
}

func (s *Server) handleKeepAliveResponse(p *players.Player, payload []byte) {
	var resp protocol.KeepAliveResponse
	if err := protocol.Unmarshal(payload, &resp); err != nil {
		return
	}
	if resp.ID == p.LastKeepAliveID {
		p.KeepAliveAcked = true
	}
}

func (s *Server) handlePlayerPosition(p *players.Player, payload []byte) {
	var pos protocol.PlayerPosition
	if err := protocol.Unmarshal(payload, &pos); err != nil {
		return
	}
	from := p.Pos
	to := mgl64.Vec3{pos.X, pos.Y, pos.Z}
	p.Pos = to
	p.Yaw, p.Pitch = float64(pos.Yaw), float64(pos.Pitch)
	s.tracker.MoveEntity(p.ID, p.Handle, from, to)
}

// systemKeepAlive sends a fresh KeepAlive to any player due for one
// and force-closes anyone who hasn't answered within the grace period.
func (s *Server) systemKeepAlive(ctx context.Context) error {
	for _, p := range s.list.All() {
		p.TicksSinceKeepAlive++

		if !p.KeepAliveAcked && p.TicksSinceKeepAlive >= KeepAliveGraceTicks {
			s.log.Warn("disconnecting client", "name", p.Name, "reason", conn.ErrKeepAliveTimeout)
			p.Game.Close()
			continue
		}

		if p.KeepAliveAcked && p.TicksSinceKeepAlive >= KeepAliveIntervalTicks {
			p.LastKeepAliveID = int64(s.sched.Tick())
			p.KeepAliveAcked = false
			p.TicksSinceKeepAlive = 0
			_ = p.Game.Send(&protocol.KeepAlive{ID: p.LastKeepAliveID})
		}
	}
	return nil
}

func (s *Server) systemUpdateChunkView(ctx context.Context) error {
	for _, p := range s.list.All() {
		s.chunkRouter.Tick(p)
	}
	return nil
}

func (s *Server) systemSendEntityEvents(ctx context.Context) error {
	for _, p := range s.list.All() {
		s.entityRouter.Tick(p)
	}
	return nil
}

func (s *Server) systemPumpChunkCompletions(ctx context.Context) error {
	s.registry.PumpCompletions()
	return nil
}

func (s *Server) systemEvictIdle(ctx context.Context) error {
	s.registry.Evict()
	s.tracker.Evict()
	return nil
}

// systemDisconnectCleanup removes every player whose connection has
// closed (I/O error, keep-alive timeout, inbound overflow), persists
// their final state, and broadcasts their departure.
func (s *Server) systemDisconnectCleanup(ctx context.Context) error {
	for _, p := range s.list.All() {
		select {
		case <-p.Game.Closed():
			s.disconnectPlayer(p)
		default:
		}
	}
	return nil
}

func (s *Server) disconnectPlayer(p *players.Player) {
	s.list.Remove(p.UUID)
	s.tracker.Remove(p.ID, p.Pos)

	if s.store != nil {
		if err := s.store.SavePlayer(p); err != nil {
			s.log.Error("save player on disconnect failed", "name", p.Name, "error", err)
		}
	}

	removeEntry := playerInfoRemoveEntry(p)
	for _, other := range s.list.All() {
		_ = other.Game.Send(buildPlayerInfo(protocol.PlayerInfoRemove, [][]byte{removeEntry}))
	}

	s.log.Info("player left", "name", p.Name, "uuid", p.UUID)
}

// teardownFlushPlayers persists every still-connected player's state
// when the scheduler shuts down.
func (s *Server) teardownFlushPlayers() {
	if s.store == nil {
		return
	}
	for _, p := range s.list.All() {
		if err := s.store.SavePlayer(p); err != nil {
			s.log.Error("flush player on shutdown failed", "name", p.Name, "error", err)
		}
	}
}

// teardownDrainChunkLoads waits for every in-flight chunk load on the
// blocking pool to finish before the process exits.
func (s *Server) teardownDrainChunkLoads() {
	if err := s.registry.Close(); err != nil {
		s.log.Error("chunk registry drain failed", "error", err)
	}
}

func (s *Server) teardownCloseStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Error("close store failed", "error", err)
	}
}
