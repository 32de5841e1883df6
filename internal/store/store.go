package store

import (
	"context"
	"errors"

	"github.com/guessityet/guessityet/internal/game"
)

// DefaultLeaderboardLimit is used when a caller passes limit <= 0.
const DefaultLeaderboardLimit = 20

// ErrNotFound is returned by GetPlay when the player has not started the day.
var ErrNotFound = errors.New("not found")

// Store persists daily plays and won results.
// Implementations: memory (this package) and SQLite.
type Store interface {
	// GetPlay returns the player's play for date, or ErrNotFound.
	GetPlay(ctx context.Context, playerID, date string) (*game.Play, error)

	// SavePlay persists or replaces a play.
	SavePlay(ctx context.Context, p *game.Play) error

	// InsertResult records a won game; a second insert for the same
	// player and date is ignored.
	InsertResult(ctx context.Context, r Result) error

	// Leaderboard lists a day's wins by attempts, then elapsed time, then
	// insertion order.
	Leaderboard(ctx context.Context, date string, limit int) ([]Row, error)

	Close() error
}

// Result is one won daily game.
type Result struct {
	PlayerID  string
	Date      string // YYYY-MM-DD
	GameID    int64
	Attempts  int
	GuessedIt bool
	ElapsedMs int64 // from play start to win
}

// Row is one leaderboard entry.
type Row struct {
	PlayerID  string `json:"playerId"`
	Attempts  int    `json:"attempts"`
	GuessedIt bool   `json:"guessedIt"`
	ElapsedMs int64  `json:"elapsedMs"`
}
