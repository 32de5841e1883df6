// internal/game/engine.go
//
// Server-side rules for one daily play.
// Responsibilities:
//   - Start a play for a player and the day's answer.
//   - Judge guesses: exact match on (id, service), else franchise match.
//   - Apply skips; track transitions: playing → won/lost.
//
// Notes:
//   - The caller resolves the guessed game's franchise from the catalog; an
//     unknown game simply has no franchise.
//   - The attempt counter only advances on misses and skips, so a win keeps
//     current_attempt at the winning round.

package game

import (
	"errors"
	"strings"
	"time"

	"github.com/guessityet/guessityet/internal/catalog"
)

var (
	ErrFinished  = errors.New("game already ended")
	ErrEmptyName = errors.New("game name required")
)

// Guess is one submitted answer.
type Guess struct {
	Name      string
	ID        int64
	Service   string
	Franchise *catalog.Franchise // franchise of the guessed game, if known
}

// Verdict is the judged outcome of a guess.
type Verdict struct {
	Correct        bool
	FranchiseMatch bool
	FranchiseName  string // the answer's franchise, set on franchise matches
}

// New starts a play on answer.
func New(playerID, date string, answer catalog.Game, now time.Time) *Play {
	return &Play{
		PlayerID:       playerID,
		Date:           date,
		GameID:         answer.ID,
		MaxAttempts:    answer.MaxAttempts(),
		CurrentAttempt: 1,
		Attempts:       []Attempt{},
		StartedAt:      now.UTC(),
	}
}

// ApplyGuess judges g against answer and records the round.
//
// State transitions:
//   - Correct → Won (GuessedIt when on attempt 1).
//   - Otherwise the attempt advances; past MaxAttempts → Lost.
func (p *Play) ApplyGuess(answer catalog.Game, g Guess) (Verdict, error) {
	if p.Finished() {
		return Verdict{}, ErrFinished
	}
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return Verdict{}, ErrEmptyName
	}

	var v Verdict
	if g.ID == answer.ID && g.Service == answer.Service {
		v.Correct = true
	} else if catalog.SameFranchise(answer.Franchise, g.Franchise) {
		v.FranchiseMatch = true
		v.FranchiseName = answer.FranchiseName()
	}

	p.Attempts = append(p.Attempts, Attempt{
		Attempt:        p.CurrentAttempt,
		Type:           AttemptGuess,
		GameName:       name,
		GameID:         g.ID,
		Service:        g.Service,
		Correct:        v.Correct,
		FranchiseMatch: v.FranchiseMatch,
		FranchiseName:  v.FranchiseName,
	})

	if v.Correct {
		p.Won = true
		p.GuessedIt = p.CurrentAttempt == 1
		return v, nil
	}
	p.advance()
	return v, nil
}

// ApplySkip records a skipped round.
func (p *Play) ApplySkip() error {
	if p.Finished() {
		return ErrFinished
	}
	p.Attempts = append(p.Attempts, Attempt{
		Attempt:  p.CurrentAttempt,
		Type:     AttemptSkipped,
		GameName: SkipLabel,
	})
	p.advance()
	return nil
}

// AttemptsUsed is the number of recorded rounds.
func (p *Play) AttemptsUsed() int { return len(p.Attempts) }

func (p *Play) advance() {
	p.CurrentAttempt++
	if p.CurrentAttempt > p.MaxAttempts {
		p.Lost = true
	}
}
