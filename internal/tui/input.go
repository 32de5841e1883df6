package tui

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/view"
)

// Driver is the part of *controller.Controller the terminal drives.
type Driver interface {
	Post(f func())
	Run(ctx context.Context) error
	UI() view.UI
	Input(query string)
	HideSuggestions()
	MoveHighlight(delta int)
	Enter()
	Skip()
	Prev()
	Next()
	Navigate(n int)
	Tick()
}

// Keys translates terminal key events into controller calls. It runs on the
// controller goroutine.
type Keys struct {
	d    Driver
	quit func()
}

// NewKeys binds key handling to d; quit is called on Ctrl-C or a bare Esc.
func NewKeys(d Driver, quit func()) *Keys {
	return &Keys{d: d, quit: quit}
}

// Handle applies one key event.
func (k *Keys) Handle(ev *tcell.EventKey) {
	ui := k.d.UI()
	switch ev.Key() {
	case tcell.KeyCtrlC:
		k.quit()
	case tcell.KeyEscape:
		if ui.State != view.SuggestionsHidden {
			k.d.HideSuggestions()
			return
		}
		k.quit()
	case tcell.KeyEnter:
		k.d.Enter()
	case tcell.KeyCtrlS:
		k.d.Skip()
	case tcell.KeyUp:
		k.d.MoveHighlight(-1)
	case tcell.KeyDown, tcell.KeyTab:
		k.d.MoveHighlight(+1)
	case tcell.KeyLeft, tcell.KeyPgUp:
		k.d.Prev()
	case tcell.KeyRight, tcell.KeyPgDn:
		k.d.Next()
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5, tcell.KeyF6:
		k.d.Navigate(int(ev.Key()-tcell.KeyF1) + 1) // out-of-range slots are ignored downstream
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if q := []rune(ui.Query); len(q) > 0 {
			k.d.Input(string(q[:len(q)-1]))
		}
	case tcell.KeyCtrlU:
		k.d.Input("")
	case tcell.KeyRune:
		k.d.Input(ui.Query + string(ev.Rune()))
	}
}

// TickEvery is how often the countdown is refreshed.
const TickEvery = time.Second

// Run drives d on screen until ctx ends or the player quits. The caller owns
// screen initialisation and Fini.
func Run(ctx context.Context, screen tcell.Screen, r *Renderer, d Driver) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := NewKeys(d, cancel)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			switch e := ev.(type) {
			case *tcell.EventKey:
				d.Post(func() { keys.Handle(e) })
			case *tcell.EventResize:
				d.Post(r.Redraw)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		t := time.NewTicker(TickEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				d.Post(d.Tick)
			}
		}
	}()

	err := d.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("session closed")
		return nil
	}
	return err
}
