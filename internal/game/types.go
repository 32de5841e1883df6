// internal/game/types.go
//
// Core type definitions for the server-side play engine.
// Defines:
//   - AttemptType: how a round was spent (guess / skipped).
//   - Attempt: one recorded round, in the shape the game page injects.
//   - Play: one player's state for one daily game.

package game

import "time"

// AttemptType tells guessed rounds from skipped ones.
type AttemptType string

const (
	AttemptGuess   AttemptType = "guess"
	AttemptSkipped AttemptType = "skipped"
)

// SkipLabel is the game name recorded for skipped rounds.
const SkipLabel = "Turn skipped"

// Attempt is one completed round.
type Attempt struct {
	Attempt        int         `json:"attempt"`
	Type           AttemptType `json:"type"`
	GameName       string      `json:"game_name"`
	GameID         int64       `json:"game_id,omitempty"`
	Service        string      `json:"service,omitempty"`
	Correct        bool        `json:"correct"`
	FranchiseMatch bool        `json:"franchise_match"`
	FranchiseName  string      `json:"franchise_name,omitempty"`
}

// Play holds one player's progress on one daily game.
type Play struct {
	PlayerID       string    // anonymous player id (JWT pid claim)
	Date           string    // YYYY-MM-DD, UTC
	GameID         int64     // catalog id of the answer
	MaxAttempts    int       // 1..6, fixed when the play starts
	CurrentAttempt int       // 1-based; MaxAttempts+1 once exhausted
	Attempts       []Attempt // rounds so far, oldest first
	Won            bool
	Lost           bool
	GuessedIt      bool // won on the first attempt
	StartedAt      time.Time
}

// Finished reports whether no further guesses or skips are accepted.
func (p *Play) Finished() bool {
	return p.Won || p.Lost || p.CurrentAttempt > p.MaxAttempts
}
