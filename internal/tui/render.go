// internal/tui/render.go
//
// Terminal renderer for the daily game.
// Responsibilities:
//   - Draw a view.Model frame onto a tcell screen.
//   - Map indicator kinds and suggestion states to styles.
//
// Notes:
//   - Render is only called from the controller goroutine, so the screen is
//     never drawn concurrently.
//   - Every region is keyed by the element ID carried in the model; the
//     layout table below decides where each one lands.

package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/guessityet/guessityet/internal/session"
	"github.com/guessityet/guessityet/internal/view"
)

const title = "GuessItYet"

var (
	styleBase     = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput    = tcell.StyleDefault.Underline(true)
	styleButton   = tcell.StyleDefault.Reverse(true)
	styleHigh     = tcell.StyleDefault.Reverse(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWon      = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLost     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	indicatorLook = map[session.IndicatorKind]tcell.Style{
		session.IndicatorCurrent:   tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		session.IndicatorClickable: tcell.StyleDefault.Foreground(tcell.ColorWhite),
		session.IndicatorDisabled:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		session.IndicatorCorrect:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
		session.IndicatorWrong:     tcell.StyleDefault.Foreground(tcell.ColorRed),
		session.IndicatorFranchise: tcell.StyleDefault.Foreground(tcell.ColorOrange),
		session.IndicatorSkipped:   tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	}
	indicatorMark = map[session.IndicatorKind]rune{
		session.IndicatorCurrent:   '?',
		session.IndicatorClickable: ' ',
		session.IndicatorDisabled:  ' ',
		session.IndicatorCorrect:   '✓',
		session.IndicatorWrong:     '✗',
		session.IndicatorFranchise: '~',
		session.IndicatorSkipped:   '-',
	}
)

// Renderer draws frames on a tcell screen.
type Renderer struct {
	screen tcell.Screen
	last   view.Model
}

// NewRenderer wraps an initialised screen.
func NewRenderer(s tcell.Screen) *Renderer {
	return &Renderer{screen: s}
}

// Render draws m and shows it.
func (r *Renderer) Render(m view.Model) {
	r.last = m
	r.draw()
}

// Redraw repaints the last frame, e.g. after a resize.
func (r *Renderer) Redraw() {
	r.screen.Sync()
	r.draw()
}

func (r *Renderer) draw() {
	s := r.screen
	m := r.last
	s.Clear()
	w, _ := s.Size()

	p := &pen{s: s, w: w}
	p.line(title, styleTitle)
	if m.Countdown != "" {
		p.right(0, m.Countdown, styleDim)
	}
	p.y++

	r.attempts(p, m.Attempts)
	r.hint(p, m.Hint)
	r.info(p, m.Info)
	p.y++

	r.banner(p, m.Remaining)
	r.search(p, m)
	r.suggestions(p, m.Suggestions)
	if m.Status != "" {
		p.line(m.Status, styleError)
	}
	p.y++

	r.history(p, m.History)
	p.line("enter select/submit · ctrl-s skip · ←/→ or F1-F6 hints · esc quit", styleDim)

	s.Show()
}

// attempt-1 .. attempt-6
func (r *Renderer) attempts(p *pen, circles [session.MaxSlots]view.AttemptCircle) {
	x := 0
	for _, c := range circles {
		if c.Kind == session.IndicatorHidden {
			continue
		}
		st, ok := indicatorLook[c.Kind]
		if !ok {
			st = styleBase
		}
		if c.Viewing {
			st = st.Underline(true)
		}
		cell := fmt.Sprintf("(%d%c)", c.Slot, indicatorMark[c.Kind])
		x += p.at(x, p.y, cell, st) + 1
	}
	p.y++
}

// current-screenshot + content-type-indicator
func (r *Renderer) hint(p *pen, h view.HintImage) {
	if h.IsClip {
		p.line("BONUS CLIP  "+h.Source, styleTitle)
		return
	}
	p.line(h.Alt+": "+h.Source, styleBase)
}

// game-info-overlay / info-content
func (r *Renderer) info(p *pen, o view.InfoOverlay) {
	if !o.Visible {
		return
	}
	for _, l := range o.Lines {
		n := p.at(2, p.y, l.Label+": ", styleLabel)
		p.at(2+n, p.y, l.Value, styleBase)
		p.y++
	}
}

// remaining-attempts
func (r *Renderer) banner(p *pen, b view.Banner) {
	st := styleTitle
	switch b.Outcome {
	case session.Won:
		st = styleWon
	case session.Lost:
		st = styleLost
	}
	p.line(b.Title, st)
	if b.Detail != "" {
		p.line(b.Detail, styleBase)
	}
}

// game-search, submit-btn, skip-btn
func (r *Renderer) search(p *pen, m view.Model) {
	label := "Guess: "
	x := p.at(0, p.y, label, styleBase)
	field := m.Search.Value
	width := max(p.w-x-24, 10)
	field = runewidth.Truncate(field, width, "…")
	fieldStyle := styleInput
	if m.Search.Disabled {
		fieldStyle = styleDim
	}
	p.at(x, p.y, runewidth.FillRight(field, width), fieldStyle)
	if !m.Search.Disabled {
		p.s.ShowCursor(x+runewidth.StringWidth(field), p.y)
	} else {
		p.s.HideCursor()
	}
	x += width + 1
	for _, b := range []view.Button{m.Submit, m.Skip} {
		st := styleButton
		if b.Disabled {
			st = styleDim
		}
		x += p.at(x, p.y, " "+b.Label+" ", st) + 1
	}
	p.y++
}

// search-suggestions
func (r *Renderer) suggestions(p *pen, sp view.SuggestionPanel) {
	if !sp.Visible {
		return
	}
	if sp.State != view.SuggestionsList {
		st := styleDim
		if sp.State == view.SuggestionsError {
			st = styleError
		}
		p.line("  "+sp.Message, st)
		return
	}
	for i, it := range sp.Items {
		text := it.Name
		if it.ReleaseYear > 0 {
			text += fmt.Sprintf(" (%d)", it.ReleaseYear)
		}
		if it.Franchise != "" {
			text += " · " + it.Franchise
		}
		st := styleBase
		if i == sp.Highlight {
			st = styleHigh
		}
		p.line("  "+text, st)
	}
}

// attempts-history / attempts-history-content
func (r *Renderer) history(p *pen, h view.HistoryPanel) {
	if !h.Visible {
		return
	}
	p.line("Attempts", styleTitle)
	for _, e := range h.Entries {
		st, ok := indicatorLook[e.Kind]
		if !ok {
			st = styleBase
		}
		line := fmt.Sprintf("  #%d %s", e.Number, e.GameName)
		if e.Franchise != "" {
			line += " · " + e.Franchise
		}
		p.line(line, st)
	}
	p.y++
}

// pen writes lines top-down, clipped to the screen width.
type pen struct {
	s tcell.Screen
	w int
	y int
}

func (p *pen) line(text string, st tcell.Style) {
	p.at(0, p.y, text, st)
	p.y++
}

func (p *pen) right(y int, text string, st tcell.Style) {
	p.at(max(p.w-runewidth.StringWidth(text), 0), y, text, st)
}

// at draws text at (x, y) and returns the number of columns used.
func (p *pen) at(x, y int, text string, st tcell.Style) int {
	start := x
	for _, ch := range strings.ToValidUTF8(text, "?") {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 {
			continue
		}
		if x+cw > p.w {
			break
		}
		p.s.SetContent(x, y, ch, nil, st)
		x += cw
	}
	return x - start
}
