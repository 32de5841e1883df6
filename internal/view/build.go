package view

import (
	"fmt"
	"time"

	"github.com/guessityet/guessityet/internal/session"
)

// Build renders s and ui into a Model. It has no side effects; renderers
// call it after every state change and on each clock tick.
func Build(s session.Session, ui UI, now time.Time) Model {
	ended := s.Ended()
	m := Model{
		Search: Input{ID: IDSearchInput, Value: ui.Query, Disabled: ended || s.Awaiting},
		Submit: Button{
			ID:       IDSubmitButton,
			Label:    "Submit",
			Disabled: ended || s.Awaiting || s.Selected == nil,
		},
		Skip: Button{
			ID:       IDSkipButton,
			Label:    "Skip",
			Disabled: ended || s.Awaiting,
		},
		Countdown: Countdown(now),
		Status:    ui.Status,
	}
	if s.Awaiting {
		m.Submit.Label = "Sending..."
	}

	m.Suggestions = suggestions(ui, ended)

	for i, ind := range s.Indicators() {
		m.Attempts[i] = AttemptCircle{ID: AttemptID(i + 1), Indicator: ind}
	}

	h := s.ViewingHint()
	m.Hint = HintImage{
		ID:          IDScreenshot,
		Source:      h.URL,
		ClipBadgeID: IDContentType,
		IsClip:      h.IsClip,
	}
	if h.IsClip {
		m.Hint.Alt = "Game clip"
	} else {
		m.Hint.Alt = fmt.Sprintf("Game screenshot - level %d", h.Attempt)
	}

	lines := s.MetadataFor(s.CurrentViewingAttempt)
	m.Info = InfoOverlay{ID: IDInfoOverlay, ContentID: IDInfoContent, Visible: len(lines) > 0, Lines: lines}

	m.History = history(s)
	m.Remaining = banner(s)
	return m
}

func suggestions(ui UI, ended bool) SuggestionPanel {
	p := SuggestionPanel{ID: IDSuggestions, State: ui.State}
	if ended {
		p.State = SuggestionsHidden
		return p
	}
	switch ui.State {
	case SuggestionsLoading:
		p.Visible = true
		p.Message = "Searching games..."
	case SuggestionsList:
		p.Visible = true
		p.Items = ui.Suggestions
		p.Highlight = max(0, min(ui.Highlight, len(ui.Suggestions)-1))
	case SuggestionsEmpty:
		p.Visible = true
		p.Message = "No games found"
	case SuggestionsError:
		p.Visible = true
		p.Message = "Search failed"
	}
	return p
}

func history(s session.Session) HistoryPanel {
	p := HistoryPanel{ID: IDHistory, ContentID: IDHistoryContent, Visible: len(s.History) > 0}
	for i := len(s.History) - 1; i >= 0; i-- {
		r := s.History[i]
		e := HistoryEntry{Number: r.Number, GameName: r.GameName}
		switch {
		case r.Correct:
			e.Kind = session.IndicatorCorrect
		case r.FranchiseMatch:
			e.Kind = session.IndicatorFranchise
			e.Franchise = r.FranchiseName
			if e.Franchise == "" {
				e.Franchise = "Right franchise"
			}
		case r.Type == session.AttemptSkipped:
			e.Kind = session.IndicatorSkipped
		default:
			e.Kind = session.IndicatorWrong
		}
		p.Entries = append(p.Entries, e)
	}
	return p
}

func banner(s session.Session) Banner {
	b := Banner{ID: IDRemainingAttempts, Outcome: s.Outcome}
	switch s.Outcome {
	case session.Won:
		if s.GuessedIt {
			b.Title = "GUESSED IT!"
			b.Detail = "You got it on the first attempt!"
		} else {
			b.Title = "You won!"
			b.Detail = "The answer was: " + s.AnswerName
		}
	case session.Lost:
		b.Title = "You lost!"
		if t := s.Hints.Meta.Title; t != "" {
			b.Detail = "The answer was: " + t
		}
	default:
		left := s.MaxAttempts - s.CurrentAttempt + 1
		if left == 1 {
			b.Title = "Last attempt!"
		} else {
			b.Title = fmt.Sprintf("%d attempts left!", left)
		}
	}
	return b
}

// Countdown formats the time left until the next local midnight, when a
// new daily game is published.
func Countdown(now time.Time) string {
	y, mo, d := now.Date()
	next := time.Date(y, mo, d+1, 0, 0, 0, 0, now.Location())
	left := next.Sub(now)
	if left <= 0 {
		return "A new game is available - reload"
	}
	h := int(left / time.Hour)
	m := int(left%time.Hour) / int(time.Minute)
	sec := int(left%time.Minute) / int(time.Second)
	return fmt.Sprintf("A new game in %02dh %02dm %02ds", h, m, sec)
}
