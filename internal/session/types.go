// internal/session/types.go
//
// Core type definitions for the daily game session.
// Defines:
//   - Snapshot / HintBundle: the server-injected inputs a session is built from.
//   - AttemptRecord: one completed round (a guess or a skip).
//   - Session: all client-side state for one daily game.
//   - Outcome and IndicatorKind enums.

package session

// MaxSlots is the number of attempt indicators the page always carries.
const MaxSlots = 6

// Outcome is the coarse state of the session state machine.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Won        Outcome = "won"
	Lost       Outcome = "lost"
)

// AttemptType tells a guess apart from a skipped turn.
type AttemptType string

const (
	AttemptGuess   AttemptType = "guess"
	AttemptSkipped AttemptType = "skipped"
)

// AttemptRecord is one completed round.
type AttemptRecord struct {
	Number         int         // 1-based attempt number
	Type           AttemptType // guess | skipped
	GameName       string      // guessed title, or the skip label
	Correct        bool
	FranchiseMatch bool
	FranchiseName  string // set only on franchise matches
}

// Game is a candidate picked from the search suggestions.
type Game struct {
	ID      int64
	Name    string
	Service string
}

// Screenshot is one progressively revealed hint image.
type Screenshot struct {
	Difficulty int // 1..6
	URL        string
}

// Metadata holds the optional facts revealed as attempts go by.
type Metadata struct {
	Title         string
	Developer     string
	Genres        string
	Platforms     string
	ReviewScore   int // 0 = unknown
	ReleaseYear   int // 0 = unknown
	FranchiseName string
}

// HintBundle is the static, server-supplied hint set for today's game.
type HintBundle struct {
	Screenshots []Screenshot
	ClipPath    string // bonus video clip; empty if none
	Meta        Metadata
}

// HasClip reports whether a bonus clip is available.
func (h HintBundle) HasClip() bool { return trimmed(h.ClipPath) != "" }

// Snapshot is the server-authoritative state injected with the page.
type Snapshot struct {
	CurrentAttempt int
	Attempts       []AttemptRecord
	Won            bool
	Lost           bool
	GuessedIt      bool
}

// Session holds all client-side state for one daily game.
//
// A Session is a value: Reduce never mutates its input, so callers can
// keep the previous state around (tests do).
type Session struct {
	CurrentAttempt        int
	CurrentViewingAttempt int
	MaxAttempts           int
	Outcome               Outcome
	Selected              *Game
	Pending               *Game // the game a guess in flight was sent with
	History               []AttemptRecord
	Awaiting              bool // a guess or skip request is in flight
	GuessedIt             bool
	AnswerName            string

	Hints HintBundle
}

// Ended reports whether the session reached Won or Lost.
func (s Session) Ended() bool { return s.Outcome != InProgress }

// MaxAvailable is the highest attempt whose hint may be viewed.
func (s Session) MaxAvailable() int {
	if s.Ended() {
		return s.MaxAttempts
	}
	return s.CurrentAttempt
}

// IndicatorKind is the single decoration an attempt slot carries.
type IndicatorKind string

const (
	IndicatorHidden    IndicatorKind = "hidden"
	IndicatorCurrent   IndicatorKind = "current"
	IndicatorClickable IndicatorKind = "clickable"
	IndicatorDisabled  IndicatorKind = "disabled"
	IndicatorCorrect   IndicatorKind = "correct"
	IndicatorWrong     IndicatorKind = "wrong"
	IndicatorFranchise IndicatorKind = "franchise"
	IndicatorSkipped   IndicatorKind = "skipped"
)

// Indicator is the rendered state of one attempt slot.
type Indicator struct {
	Slot      int
	Kind      IndicatorKind
	Navigable bool // the player may jump to this attempt's hint
	Viewing   bool // emphasis: this slot's hint is on screen
}
