// internal/api/types.go
//
// Wire payloads of the game backend.
//   - GET  /search-games/  -> SearchResult
//   - POST /submit-guess/  GuessRequest -> GuessResponse
//   - POST /skip-turn/     -> SkipResponse
//   - GET  /               -> game page carrying GameState, GameData and Screenshots
//                             as JSON script elements.

package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// GameHit is one search result.
type GameHit struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Service          string          `json:"service,omitempty"`
	Franchise        string          `json:"franchise,omitempty"`
	FirstReleaseDate int64           `json:"first_release_date,omitempty"` // unix seconds
	Released         json.RawMessage `json:"released,omitempty"`           // unix seconds or a date string
}

// ReleaseYear extracts the release year from whichever date field the
// backend sent; 0 when unknown.
func (g GameHit) ReleaseYear() int {
	if g.FirstReleaseDate > 0 {
		return time.Unix(g.FirstReleaseDate, 0).UTC().Year()
	}
	raw := strings.TrimSpace(string(g.Released))
	if raw == "" || raw == "null" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
		return time.Unix(n, 0).UTC().Year()
	}
	var s string
	if err := json.Unmarshal(g.Released, &s); err != nil || len(s) < 4 {
		return 0
	}
	if y, err := strconv.Atoi(s[:4]); err == nil {
		return y
	}
	return 0
}

// SearchResult is the body of GET /search-games/.
type SearchResult struct {
	Games []GameHit `json:"games"`
}

// GuessRequest is the body of POST /submit-guess/.
type GuessRequest struct {
	GameName string `json:"game_name"`
	GameID   int64  `json:"game_id"`
	Service  string `json:"service"`
}

// GuessResponse is the server verdict for a guess.
type GuessResponse struct {
	Success        bool   `json:"success"`
	Correct        bool   `json:"correct"`
	FranchiseMatch bool   `json:"franchise_match"`
	FranchiseName  string `json:"franchise_name,omitempty"`
	CurrentAttempt int    `json:"current_attempt"`
	Won            bool   `json:"won,omitempty"`
	Lost           bool   `json:"lost,omitempty"`
	GuessedIt      bool   `json:"guessed_it,omitempty"`
	GameName       string `json:"game_name,omitempty"`
	Error          string `json:"error,omitempty"`
}

// SkipResponse is the server verdict for a skipped turn.
type SkipResponse struct {
	Success        bool   `json:"success"`
	Skipped        bool   `json:"skipped,omitempty"`
	CurrentAttempt int    `json:"current_attempt"`
	GameEnded      bool   `json:"game_ended,omitempty"`
	Error          string `json:"error,omitempty"`
}

// AttemptState is one prior attempt inside GameState.
type AttemptState struct {
	Attempt        int    `json:"attempt"`
	Type           string `json:"type"`
	GameName       string `json:"game_name"`
	GameID         int64  `json:"game_id,omitempty"`
	Service        string `json:"service,omitempty"`
	Correct        bool   `json:"correct"`
	FranchiseMatch bool   `json:"franchise_match"`
	FranchiseName  string `json:"franchise_name,omitempty"`
}

// GameState is the player's progress injected into the game page.
type GameState struct {
	GameID         int64          `json:"game_id"`
	CurrentAttempt int            `json:"current_attempt"`
	Attempts       []AttemptState `json:"attempts"`
	Won            bool           `json:"won"`
	Lost           bool           `json:"lost"`
	GuessedIt      bool           `json:"guessed_it"`
}

// GameData is today's game metadata injected into the game page.
type GameData struct {
	Title         string `json:"title"`
	Developer     string `json:"developer,omitempty"`
	ReleaseYear   int    `json:"release_year,omitempty"`
	Genres        string `json:"genres,omitempty"`
	Platforms     string `json:"platforms,omitempty"`
	Metacritic    int    `json:"metacritic,omitempty"`
	FranchiseName string `json:"franchise_name,omitempty"`
	GifPath       string `json:"gif_path,omitempty"`
}

// ScreenshotData is one hint image injected into the game page.
type ScreenshotData struct {
	Difficulty int    `json:"difficulty"`
	URL        string `json:"url"`
}
