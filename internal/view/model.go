// internal/view/model.go
//
// View model for the daily game screen.
// The element identifiers below are the contract between the controller and
// any renderer sharing the game page's markup; renderers look regions up by
// these IDs and must not invent their own.

package view

import (
	"strconv"

	"github.com/guessityet/guessityet/internal/session"
)

// Element identifiers.
const (
	IDSearchInput       = "game-search"
	IDSubmitButton      = "submit-btn"
	IDSkipButton        = "skip-btn"
	IDSuggestions       = "search-suggestions"
	IDScreenshot        = "current-screenshot"
	IDContentType       = "content-type-indicator"
	IDInfoOverlay       = "game-info-overlay"
	IDInfoContent       = "info-content"
	IDHistory           = "attempts-history"
	IDHistoryContent    = "attempts-history-content"
	IDRemainingAttempts = "remaining-attempts"
	IDCountdown         = "countdown-display"
	IDStatus            = "status-message"
	attemptIDPrefix     = "attempt-"
)

// AttemptID returns the identifier of attempt indicator n ("attempt-3").
func AttemptID(n int) string { return attemptIDPrefix + strconv.Itoa(n) }

// SuggestionState is what the suggestion container currently shows.
type SuggestionState int

const (
	SuggestionsHidden SuggestionState = iota
	SuggestionsLoading
	SuggestionsList
	SuggestionsEmpty
	SuggestionsError
)

// Suggestion is one selectable search result.
type Suggestion struct {
	ID          int64
	Name        string
	Franchise   string
	ReleaseYear int
}

// UI is presentation state the controller owns next to the session.
type UI struct {
	Query       string
	State       SuggestionState
	Suggestions []Suggestion
	Highlight   int    // index into Suggestions
	Status      string // transient error / info line
}

// Input is the search box.
type Input struct {
	ID       string
	Value    string
	Disabled bool
}

// Button is a submit or skip control.
type Button struct {
	ID       string
	Label    string
	Disabled bool
}

// SuggestionPanel is the dropdown under the search box.
type SuggestionPanel struct {
	ID        string
	Visible   bool
	State     SuggestionState
	Message   string
	Items     []Suggestion
	Highlight int
}

// AttemptCircle is one attempt indicator.
type AttemptCircle struct {
	ID string
	session.Indicator
}

// HintImage is the screenshot or bonus clip currently on screen.
type HintImage struct {
	ID          string
	Source      string
	Alt         string
	ClipBadgeID string
	IsClip      bool
}

// InfoOverlay carries the per-attempt metadata.
type InfoOverlay struct {
	ID        string
	ContentID string
	Visible   bool
	Lines     []session.MetaLine
}

// HistoryEntry is one line of the attempts history.
type HistoryEntry struct {
	Number    int
	Kind      session.IndicatorKind
	GameName  string
	Franchise string
}

// HistoryPanel lists completed rounds, newest first.
type HistoryPanel struct {
	ID        string
	ContentID string
	Visible   bool
	Entries   []HistoryEntry
}

// Banner is the remaining-attempts line or the end-of-game message.
type Banner struct {
	ID      string
	Outcome session.Outcome
	Title   string
	Detail  string
}

// Model is everything a renderer needs to draw one frame.
type Model struct {
	Search      Input
	Submit      Button
	Skip        Button
	Suggestions SuggestionPanel
	Attempts    [session.MaxSlots]AttemptCircle
	Hint        HintImage
	Info        InfoOverlay
	History     HistoryPanel
	Remaining   Banner
	Countdown   string
	Status      string
}
