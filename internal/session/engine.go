// internal/session/engine.go
//
// State machine for one daily game session.
// Responsibilities:
//   - Build a session from the injected snapshot + hint bundle (fail fast on bad input).
//   - Apply events purely: Reduce(state, event) -> new state.
//   - Track transitions: in_progress -> won/lost.
//
// Notes:
//   - The server decides every outcome; this package only reflects it.
//   - Reduce copies the history slice before appending so older values stay intact.

package session

import (
	"errors"
	"fmt"
	"strings"
)

// SkipLabel is the game name recorded for skipped turns.
const SkipLabel = "Turn skipped"

var (
	ErrInvalidSnapshot = errors.New("invalid game state snapshot")
	ErrInvalidHints    = errors.New("invalid hint bundle")
	ErrGameEnded       = errors.New("game already ended")
	ErrNoSelection     = errors.New("no game selected")
	ErrAwaiting        = errors.New("a request is already in flight")
)

// Event is anything Reduce knows how to apply.
type Event interface{ isEvent() }

// Select picks a suggestion as the pending guess.
type Select struct{ Game Game }

// ClearSelection drops the pending guess (new input, or after a submission).
type ClearSelection struct{}

// BeginGuess marks a guess request as in flight.
type BeginGuess struct{}

// BeginSkip marks a skip request as in flight.
type BeginSkip struct{}

// RequestFailed clears the in-flight flag after a transport or application error.
type RequestFailed struct{}

// GuessResult is the server verdict for a guess.
type GuessResult struct {
	Correct        bool
	FranchiseMatch bool
	FranchiseName  string
	CurrentAttempt int
	Lost           bool
	GuessedIt      bool
	GameName       string // answer title, sent on wins
}

// GuessResolved applies a successful guess response.
type GuessResolved struct{ Result GuessResult }

// SkipResult is the server verdict for a skipped turn.
type SkipResult struct {
	CurrentAttempt int
	GameEnded      bool
}

// SkipResolved applies a successful skip response.
type SkipResolved struct{ Result SkipResult }

// Navigate shows the hint of a given attempt.
type Navigate struct{ Attempt int }

// Step moves the viewed attempt by Delta (prev = -1, next = +1).
type Step struct{ Delta int }

func (Select) isEvent()         {}
func (ClearSelection) isEvent() {}
func (BeginGuess) isEvent()     {}
func (BeginSkip) isEvent()      {}
func (RequestFailed) isEvent()  {}
func (GuessResolved) isEvent()  {}
func (SkipResolved) isEvent()   {}
func (Navigate) isEvent()       {}
func (Step) isEvent()           {}

// MaxAttemptsFor returns 6 with a bonus clip, else min(screenshots, 6).
func MaxAttemptsFor(h HintBundle) int {
	if h.HasClip() {
		return MaxSlots
	}
	return min(len(h.Screenshots), MaxSlots)
}

// New builds a session from the page-injected snapshot and hint bundle.
// A nil argument or inconsistent content is an error; callers must not
// attach interactive behaviour when New fails.
func New(snap *Snapshot, hints *HintBundle) (Session, error) {
	if hints == nil {
		return Session{}, fmt.Errorf("%w: missing", ErrInvalidHints)
	}
	if snap == nil {
		return Session{}, fmt.Errorf("%w: missing", ErrInvalidSnapshot)
	}
	maxAttempts := MaxAttemptsFor(*hints)
	if maxAttempts < 1 {
		return Session{}, fmt.Errorf("%w: no screenshots and no clip", ErrInvalidHints)
	}
	for _, sc := range hints.Screenshots {
		if sc.Difficulty < 1 || sc.Difficulty > MaxSlots {
			return Session{}, fmt.Errorf("%w: screenshot difficulty %d", ErrInvalidHints, sc.Difficulty)
		}
	}
	if snap.CurrentAttempt < 1 {
		return Session{}, fmt.Errorf("%w: current attempt %d", ErrInvalidSnapshot, snap.CurrentAttempt)
	}
	if snap.Won && snap.Lost {
		return Session{}, fmt.Errorf("%w: both won and lost", ErrInvalidSnapshot)
	}
	for i, a := range snap.Attempts {
		if a.Number < 1 || a.Number > maxAttempts {
			return Session{}, fmt.Errorf("%w: attempt %d has number %d", ErrInvalidSnapshot, i, a.Number)
		}
	}

	s := Session{
		CurrentAttempt: clamp(snap.CurrentAttempt, 1, maxAttempts),
		MaxAttempts:    maxAttempts,
		Outcome:        InProgress,
		History:        append([]AttemptRecord(nil), snap.Attempts...),
		GuessedIt:      snap.GuessedIt,
		Hints:          *hints,
	}
	switch {
	case snap.Won:
		s.Outcome = Won
		s.AnswerName = hints.Meta.Title
	case snap.Lost:
		s.Outcome = Lost
	}
	s.CurrentViewingAttempt = s.CurrentAttempt
	if s.Ended() && len(s.History) > 0 {
		s.CurrentViewingAttempt = s.History[len(s.History)-1].Number
	}
	return s, nil
}

// Reduce applies ev to s and returns the new state.
// Rejected writes return s unchanged together with an error; out-of-range
// navigation is ignored without error.
func Reduce(s Session, ev Event) (Session, error) {
	switch e := ev.(type) {
	case Select:
		if err := s.writable(); err != nil {
			return s, err
		}
		g := e.Game
		s.Selected = &g
		return s, nil

	case ClearSelection:
		if s.Awaiting {
			return s, ErrAwaiting
		}
		s.Selected = nil
		return s, nil

	case BeginGuess:
		if err := s.writable(); err != nil {
			return s, err
		}
		if s.Selected == nil {
			return s, ErrNoSelection
		}
		g := *s.Selected
		s.Pending = &g
		s.Awaiting = true
		return s, nil

	case BeginSkip:
		if err := s.writable(); err != nil {
			return s, err
		}
		s.Awaiting = true
		return s, nil

	case RequestFailed:
		s.Awaiting = false
		s.Pending = nil
		return s, nil

	case GuessResolved:
		return s.applyGuess(e.Result)

	case SkipResolved:
		return s.applySkip(e.Result)

	case Navigate:
		return s.navigate(e.Attempt), nil

	case Step:
		return s.navigate(s.CurrentViewingAttempt + e.Delta), nil
	}
	return s, fmt.Errorf("unknown event %T", ev)
}

func (s Session) writable() error {
	if s.Ended() {
		return ErrGameEnded
	}
	if s.Awaiting {
		return ErrAwaiting
	}
	return nil
}

func (s Session) applyGuess(r GuessResult) (Session, error) {
	if s.Ended() {
		return s, ErrGameEnded
	}
	name := ""
	if s.Pending != nil {
		name = s.Pending.Name
	}
	rec := AttemptRecord{
		Number:         s.CurrentAttempt,
		Type:           AttemptGuess,
		GameName:       name,
		Correct:        r.Correct,
		FranchiseMatch: r.FranchiseMatch && !r.Correct,
	}
	if rec.FranchiseMatch {
		rec.FranchiseName = r.FranchiseName
	}
	s.History = appendRecord(s.History, rec)
	s.Awaiting = false
	s.Selected = nil
	s.Pending = nil

	switch {
	case r.Correct:
		s.Outcome = Won
		s.GuessedIt = r.GuessedIt
		s.AnswerName = strings.TrimSpace(r.GameName)
		if s.AnswerName == "" {
			s.AnswerName = s.Hints.Meta.Title
		}
	case r.Lost:
		s.Outcome = Lost
		s.CurrentAttempt = clamp(r.CurrentAttempt, 1, s.MaxAttempts)
	default:
		s.advance(r.CurrentAttempt)
	}
	return s, nil
}

func (s Session) applySkip(r SkipResult) (Session, error) {
	if s.Ended() {
		return s, ErrGameEnded
	}
	s.History = appendRecord(s.History, AttemptRecord{
		Number:   s.CurrentAttempt,
		Type:     AttemptSkipped,
		GameName: SkipLabel,
	})
	s.Awaiting = false
	s.Selected = nil
	s.Pending = nil

	if r.GameEnded {
		s.Outcome = Lost
		s.CurrentAttempt = clamp(r.CurrentAttempt, 1, s.MaxAttempts)
		return s, nil
	}
	s.advance(r.CurrentAttempt)
	return s, nil
}

// advance adopts the server's attempt number for the next round. A number
// that does not move forward (missing or stale) counts as the next round.
// If the server claims more rounds than the hints allow, the session is lost.
func (s *Session) advance(next int) {
	if next <= s.CurrentAttempt {
		next = s.CurrentAttempt + 1
	}
	if next > s.MaxAttempts {
		s.Outcome = Lost
		s.CurrentAttempt = s.MaxAttempts
		return
	}
	s.CurrentAttempt = next
	s.CurrentViewingAttempt = s.CurrentAttempt
}

func (s Session) navigate(n int) Session {
	if n < 1 || n > s.MaxAvailable() {
		return s
	}
	s.CurrentViewingAttempt = n
	return s
}

func appendRecord(h []AttemptRecord, r AttemptRecord) []AttemptRecord {
	out := make([]AttemptRecord, len(h), len(h)+1)
	copy(out, h)
	return append(out, r)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func trimmed(s string) string { return strings.TrimSpace(s) }
