// Package scheduler implements the Tick Scheduler (spec component I):
// a fixed-rate driver that executes registered systems in declared
// order every tick, enforces the tick budget without ever sleeping
// through an overrun, and runs teardown hooks on shutdown.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// TickRate is the simulation rate in ticks per second.
const TickRate = 20

// TickDuration is the per-tick budget the scheduler targets.
const TickDuration = time.Second / TickRate

// System is one unit of per-tick work. An error is logged against the
// system's registered name but never stops the scheduler — a single
// system's failure must not cascade into a dead tick loop.
type System func(ctx context.Context) error

// TeardownHook runs once, in registration order, when the scheduler
// shuts down (player persistence, chunk flush, and similar).
type TeardownHook func()

type namedSystem struct {
	name string
	fn   System
}

// Scheduler drives the fixed-rate tick loop. It owns no simulation
// state itself — systems close over whatever world/resource state
// they need — matching spec's "all systems share an ECS-style world
// and a resource map" by convention rather than by a typed container,
// since this module's ECS is the plain Go structs under
// internal/players, internal/world, and internal/spatial.
type Scheduler struct {
	log       *slog.Logger
	systems   []namedSystem
	teardowns []TeardownHook
	tick      uint64
}

// New returns a scheduler with no systems registered yet.
func New(log *slog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Register appends a system to the fixed execution order. Order of
// registration is the order of execution every tick.
func (s *Scheduler) Register(name string, fn System) {
	s.systems = append(s.systems, namedSystem{name: name, fn: fn})
}

// RegisterTeardown appends a hook run once on shutdown, in
// registration order.
func (s *Scheduler) RegisterTeardown(hook TeardownHook) {
	s.teardowns = append(s.teardowns, hook)
}

// Tick returns the number of ticks executed so far.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Run executes the registered systems every TickDuration until ctx is
// cancelled, then runs every teardown hook and returns. If a tick's
// systems overrun the budget, Run logs a lag warning, skips the sleep,
// and starts the next tick immediately.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			s.runTeardown()
			return
		}

		start := time.Now()
		s.runSystems(ctx)
		s.tick++
		elapsed := time.Since(start)

		if elapsed > TickDuration {
			s.log.Warn("tick overrun", "tick", s.tick, "elapsed", elapsed, "budget", TickDuration)
			continue
		}

		select {
		case <-ctx.Done():
			s.runTeardown()
			return
		case <-time.After(TickDuration - elapsed):
		}
	}
}

func (s *Scheduler) runSystems(ctx context.Context) {
	for _, sys := range s.systems {
		if err := sys.fn(ctx); err != nil {
			s.log.Error("system failed", "system", sys.name, "tick", s.tick, "error", err)
		}
	}
}

func (s *Scheduler) runTeardown() {
	s.log.Info("scheduler shutting down", "ticks", s.tick)
	for _, hook := range s.teardowns {
		hook()
	}
}
