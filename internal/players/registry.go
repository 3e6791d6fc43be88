package players

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// List is the set of currently connected players, keyed by UUID —
// the analogue of the original prototype's PlayerList resource.
type List struct {
	mu       sync.RWMutex
	players  map[uuid.UUID]*Player
	byEntity map[uint32]*Player
	nextID   atomic.Uint32
}

// NewList returns an empty player list.
func NewList() *List {
	return &List{
		players:  make(map[uuid.UUID]*Player),
		byEntity: make(map[uint32]*Player),
	}
}

// NextEntityID returns a fresh, process-unique entity id for a newly
// accepted player.
func (l *List) NextEntityID() uint32 {
	return l.nextID.Add(1)
}

// Add registers p under its UUID and entity id.
func (l *List) Add(p *Player) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.players[p.UUID] = p
	l.byEntity[p.ID] = p
}

// Remove drops the player with the given UUID.
func (l *List) Remove(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.players[id]; ok {
		delete(l.byEntity, p.ID)
	}
	delete(l.players, id)
}

// Get returns the player with the given UUID, if connected.
func (l *List) Get(id uuid.UUID) (*Player, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.players[id]
	return p, ok
}

// ByEntityID returns the player with the given ECS entity id, if
// connected.
func (l *List) ByEntityID(id uint32) (*Player, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.byEntity[id]
	return p, ok
}

// All returns a snapshot slice of every connected player. Safe to
// range over while the tick loop mutates individual players, since
// the tick loop is the only goroutine that calls Add/Remove.
func (l *List) All() []*Player {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Player, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, p)
	}
	return out
}

// Len returns the number of connected players.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.players)
}
