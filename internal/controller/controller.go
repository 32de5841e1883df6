// internal/controller/controller.go
//
// Game Session Controller: the single owner of one daily game's client state.
// Responsibilities:
//   - Build the session from the injected snapshot + hints (fail fast).
//   - Drive the search-and-select pipeline and the guess / skip round trips.
//   - Apply server verdicts through session.Reduce and re-render after every change.
//
// Notes:
//   - All state lives on the goroutine running Run. Network calls, timers and
//     the terminal event poller hand work back through Post.
//   - Submit and Skip are refused while a previous request is still in flight.

package controller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/search"
	"github.com/guessityet/guessityet/internal/session"
	"github.com/guessityet/guessityet/internal/view"
)

// Backend is the subset of *api.Client the controller needs.
type Backend interface {
	search.Finder
	SubmitGuess(ctx context.Context, g api.GuessRequest) (*api.GuessResponse, error)
	SkipTurn(ctx context.Context) (*api.SkipResponse, error)
	Service() string
}

// Renderer draws a view model; it is always called on the controller goroutine.
type Renderer interface {
	Render(m view.Model)
}

// Options wires a Controller.
type Options struct {
	Backend   Backend
	Renderer  Renderer
	Now       func() time.Time // default time.Now
	Debounce  time.Duration    // default search.Debounce
	AfterFunc search.AfterFunc // default time.AfterFunc
	Mailbox   int              // queued closures, default 64
}

// Controller owns one session.
type Controller struct {
	backend Backend
	render  Renderer
	now     func() time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	mailbox chan func()

	state  session.Session
	ui     view.UI
	search *search.Searcher
}

// New builds the session and the controller. It returns an error, and no
// controller, when the injected state is missing or malformed.
func New(snap *session.Snapshot, hints *session.HintBundle, opts Options) (*Controller, error) {
	if opts.Backend == nil || opts.Renderer == nil {
		return nil, errors.New("controller: backend and renderer are required")
	}
	st, err := session.New(snap, hints)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mailbox <= 0 {
		opts.Mailbox = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		backend: opts.Backend,
		render:  opts.Renderer,
		now:     opts.Now,
		ctx:     ctx,
		cancel:  cancel,
		mailbox: make(chan func(), opts.Mailbox),
		state:   st,
	}
	c.search = search.New(search.Config{
		Finder:    opts.Backend,
		Post:      c.Post,
		OnResult:  c.searchDone,
		Delay:     opts.Debounce,
		AfterFunc: opts.AfterFunc,
		Context:   ctx,
	})
	return c, nil
}

// Post queues f to run on the controller goroutine. It never blocks past
// shutdown.
func (c *Controller) Post(f func()) {
	select {
	case c.mailbox <- f:
	case <-c.ctx.Done():
	}
}

// Run renders the initial frame and processes posted work until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	defer c.cancel()
	c.emit()
	for {
		select {
		case <-ctx.Done():
			c.search.Cancel()
			return ctx.Err()
		case f := <-c.mailbox:
			f()
		}
	}
}

// Session returns the current state (for tests and the renderer).
func (c *Controller) Session() session.Session { return c.state }

// UI returns the current presentation state.
func (c *Controller) UI() view.UI { return c.ui }

// Tick re-renders so time-dependent parts (the countdown) stay current.
func (c *Controller) Tick() { c.emit() }

// ---------------------------------------------------------------------------
// search and select

// Input handles a change of the search box.
func (c *Controller) Input(query string) {
	if c.state.Ended() || c.state.Awaiting {
		return
	}
	c.ui.Query = query
	c.ui.Suggestions = nil
	c.ui.Highlight = 0
	c.state, _ = session.Reduce(c.state, session.ClearSelection{})
	switch c.search.Input(query) {
	case search.ActionLoading:
		c.ui.State = view.SuggestionsLoading
	default:
		c.ui.State = view.SuggestionsHidden
	}
	c.emit()
}

// HideSuggestions closes the dropdown without touching the selection.
func (c *Controller) HideSuggestions() {
	c.search.Cancel()
	c.ui.State = view.SuggestionsHidden
	c.emit()
}

// MoveHighlight moves the keyboard cursor inside the suggestion list.
func (c *Controller) MoveHighlight(delta int) {
	if c.ui.State != view.SuggestionsList || len(c.ui.Suggestions) == 0 {
		return
	}
	n := len(c.ui.Suggestions)
	c.ui.Highlight = ((c.ui.Highlight+delta)%n + n) % n
	c.emit()
}

// SelectSuggestion makes suggestion i the pending guess.
func (c *Controller) SelectSuggestion(i int) {
	if c.state.Awaiting || c.ui.State != view.SuggestionsList || i < 0 || i >= len(c.ui.Suggestions) {
		return
	}
	sg := c.ui.Suggestions[i]
	next, err := session.Reduce(c.state, session.Select{Game: session.Game{ID: sg.ID, Name: sg.Name, Service: c.backend.Service()}})
	if err != nil {
		return
	}
	c.state = next
	c.search.Cancel()
	c.ui.Query = sg.Name
	c.ui.State = view.SuggestionsHidden
	c.ui.Suggestions = nil
	c.emit()
}

// Enter selects the highlighted suggestion if the list is open, otherwise
// submits the pending guess.
func (c *Controller) Enter() {
	if c.ui.State == view.SuggestionsList {
		c.SelectSuggestion(c.ui.Highlight)
		return
	}
	if c.state.Selected != nil {
		c.Submit()
	}
}

func (c *Controller) searchDone(r search.Result) {
	if c.state.Ended() {
		return
	}
	switch {
	case r.Err != nil:
		log.Error().Err(r.Err).Str("endpoint", "search-games").Str("query", r.Query).Msg("search failed")
		c.ui.State = view.SuggestionsError
	case len(r.Games) == 0:
		c.ui.State = view.SuggestionsEmpty
	default:
		c.ui.State = view.SuggestionsList
		c.ui.Suggestions = c.ui.Suggestions[:0]
		for _, g := range r.Games {
			c.ui.Suggestions = append(c.ui.Suggestions, view.Suggestion{
				ID:          g.ID,
				Name:        g.Name,
				Franchise:   g.Franchise,
				ReleaseYear: g.ReleaseYear(),
			})
		}
		c.ui.Highlight = 0
	}
	c.emit()
}

// ---------------------------------------------------------------------------
// guess and skip

// Submit sends the selected game as a guess.
func (c *Controller) Submit() {
	next, err := session.Reduce(c.state, session.BeginGuess{})
	if err != nil {
		log.Debug().Err(err).Msg("submit refused")
		return
	}
	c.state = next
	g := *c.state.Pending
	c.ui.Status = ""
	c.emit()

	req := api.GuessRequest{GameName: g.Name, GameID: g.ID, Service: g.Service}
	go func() {
		res, err := c.backend.SubmitGuess(c.ctx, req)
		c.Post(func() { c.guessDone(res, err) })
	}()
}

func (c *Controller) guessDone(res *api.GuessResponse, err error) {
	if err != nil {
		c.fail("submit-guess", err)
		return
	}
	next, rerr := session.Reduce(c.state, session.GuessResolved{Result: session.GuessResult{
		Correct:        res.Correct,
		FranchiseMatch: res.FranchiseMatch,
		FranchiseName:  res.FranchiseName,
		CurrentAttempt: res.CurrentAttempt,
		Lost:           res.Lost,
		GuessedIt:      res.GuessedIt,
		GameName:       res.GameName,
	}})
	if rerr != nil {
		log.Warn().Err(rerr).Msg("guess verdict ignored")
		return
	}
	c.state = next
	log.Info().Int("attempt", len(c.state.History)).Bool("correct", res.Correct).Str("outcome", string(c.state.Outcome)).Msg("guess resolved")
	c.resetSearch()
	c.emit()
}

// Skip gives up the current attempt.
func (c *Controller) Skip() {
	next, err := session.Reduce(c.state, session.BeginSkip{})
	if err != nil {
		log.Debug().Err(err).Msg("skip refused")
		return
	}
	c.state = next
	c.ui.Status = ""
	c.emit()

	go func() {
		res, err := c.backend.SkipTurn(c.ctx)
		c.Post(func() { c.skipDone(res, err) })
	}()
}

func (c *Controller) skipDone(res *api.SkipResponse, err error) {
	if err != nil {
		c.fail("skip-turn", err)
		return
	}
	next, rerr := session.Reduce(c.state, session.SkipResolved{Result: session.SkipResult{
		CurrentAttempt: res.CurrentAttempt,
		GameEnded:      res.GameEnded,
	}})
	if rerr != nil {
		log.Warn().Err(rerr).Msg("skip verdict ignored")
		return
	}
	c.state = next
	log.Info().Int("attempt", len(c.state.History)).Str("outcome", string(c.state.Outcome)).Msg("turn skipped")
	c.resetSearch()
	c.emit()
}

// fail leaves the round untouched so the player can retry.
func (c *Controller) fail(endpoint string, err error) {
	log.Error().Err(err).Str("endpoint", endpoint).Msg("request failed")
	c.state, _ = session.Reduce(c.state, session.RequestFailed{})
	c.ui.Status = api.Message(err)
	c.emit()
}

func (c *Controller) resetSearch() {
	c.search.Cancel()
	c.ui.Query = ""
	c.ui.State = view.SuggestionsHidden
	c.ui.Suggestions = nil
	c.ui.Highlight = 0
}

// ---------------------------------------------------------------------------
// history navigation

// Navigate shows the hint of attempt n; out-of-range requests are ignored.
func (c *Controller) Navigate(n int) {
	c.state, _ = session.Reduce(c.state, session.Navigate{Attempt: n})
	c.emit()
}

// Prev shows the previous attempt's hint.
func (c *Controller) Prev() {
	c.state, _ = session.Reduce(c.state, session.Step{Delta: -1})
	c.emit()
}

// Next shows the next attempt's hint.
func (c *Controller) Next() {
	c.state, _ = session.Reduce(c.state, session.Step{Delta: +1})
	c.emit()
}

func (c *Controller) emit() {
	c.render.Render(view.Build(c.state, c.ui, c.now()))
}
