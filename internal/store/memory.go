// internal/store/memory.go
//
// In-memory store of live game sessions, one per player.
//
// Characteristics:
//   - Sessions are keyed by player ID in a map guarded by an RWMutex.
//   - Every session carries its own mutex; all game mutations go through
//     Session.Do, so two requests for the same player never interleave while
//     different players never block each other.
//   - Idle sessions are evicted by Sweep (see RunJanitor).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hsr-guess/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session wraps one live game with its own lock.
type Session struct {
	ID    string // player ID owning the session
	Daily bool   // target was the daily pick

	mu       sync.Mutex
	game     *game.Game
	lastUsed atomic.Int64 // unix nanos
}

// NewSession wraps g for player id.
func NewSession(id string, g *game.Game) *Session {
	s := &Session{ID: id, game: g}
	s.touch()
	return s
}

// Do runs fn with exclusive access to the session's game.
func (s *Session) Do(fn func(g *game.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return fn(s.game)
}

// LastUsed reports the time of the last Do call.
func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) touch() { s.lastUsed.Store(time.Now().UnixNano()) }

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds or replaces the session for s.ID.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by player ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep evicts sessions idle since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor sweeps st every interval, evicting sessions idle for longer than
// ttl, until ctx is cancelled.
func RunJanitor(ctx context.Context, st Store, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(ctx, now.Add(-ttl)); n > 0 {
				log.Debug().Int("evicted", n).Msg("swept idle sessions")
			}
		}
	}
}
