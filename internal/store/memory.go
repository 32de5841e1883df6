// internal/store/memory.go
//
// In-memory implementation of Store.
// Used when DB_PATH is empty (local development) and in tests.
//
// Characteristics:
//   - Plays keyed by (player, date); results keyed the same way.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out, callers never share a *game.Play.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guessityet/guessityet/internal/game"
)

type key struct{ player, date string }

type memory struct {
	mu      sync.RWMutex
	plays   map[key]game.Play
	results map[key]stored
	now     func() time.Time
}

type stored struct {
	Result
	created time.Time
	order   int
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return &memory{plays: map[key]game.Play{}, results: map[key]stored{}, now: time.Now}
}

func (m *memory) GetPlay(ctx context.Context, playerID, date string) (*game.Play, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plays[key{playerID, date}]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePlay(p), nil
}

func (m *memory) SavePlay(ctx context.Context, p *game.Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays[key{p.PlayerID, p.Date}] = *clonePlay(*p)
	return nil
}

// InsertResult ignores a second result for the same player and date.
func (m *memory) InsertResult(ctx context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{r.PlayerID, r.Date}
	if _, ok := m.results[k]; ok {
		return nil
	}
	m.results[k] = stored{Result: r, created: m.now(), order: len(m.results)}
	return nil
}

func (m *memory) Leaderboard(ctx context.Context, date string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	m.mu.RLock()
	var day []stored
	for k, s := range m.results {
		if k.date == date {
			day = append(day, s)
		}
	}
	m.mu.RUnlock()

	sort.Slice(day, func(i, j int) bool {
		a, b := day[i], day[j]
		if a.Attempts != b.Attempts {
			return a.Attempts < b.Attempts
		}
		if a.ElapsedMs != b.ElapsedMs {
			return a.ElapsedMs < b.ElapsedMs
		}
		return a.order < b.order
	})
	out := make([]Row, 0, min(limit, len(day)))
	for _, s := range day {
		if len(out) == limit {
			break
		}
		out = append(out, Row{PlayerID: s.PlayerID, Attempts: s.Attempts, GuessedIt: s.GuessedIt, ElapsedMs: s.ElapsedMs})
	}
	return out, nil
}

func (m *memory) Close() error { return nil }

func clonePlay(p game.Play) *game.Play {
	p.Attempts = append([]game.Attempt{}, p.Attempts...)
	return &p
}
