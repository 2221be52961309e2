// internal/store/memory.go
//
// In-memory registry of game sessions.
// Sessions are kept only for the life of the process; players resume a
// finished or lost session by passing its tried list to a new game.
//
// Characteristics:
//   - Stores *game.Session keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sweep drops sessions idle for longer than a TTL.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/letterwheel/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Each calls fn for every session.
	Each(fn func(*game.Session))

	// Sweep removes sessions last accessed before cutoff and returns how
	// many were removed.
	Sweep(cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex            // guards sessions
	sessions map[string]*game.Session // keyed by Session.ID()
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Each snapshots the session list so fn may call back into the store.
func (m *memory) Each(fn func(*game.Session)) {
	m.mu.RLock()
	list := make([]*game.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()
	for _, s := range list {
		fn(s)
	}
}

func (m *memory) Sweep(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastAccess().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
