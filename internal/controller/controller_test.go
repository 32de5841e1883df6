package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/search"
	"github.com/guessityet/guessityet/internal/session"
	"github.com/guessityet/guessityet/internal/view"
)

type fakeBackend struct {
	mu      sync.Mutex
	games   []api.GameHit
	guesses []api.GuessRequest
	skips   int
	guessFn func(api.GuessRequest) (*api.GuessResponse, error)
	skipFn  func() (*api.SkipResponse, error)
}

func (b *fakeBackend) SearchGames(_ context.Context, q string) ([]api.GameHit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.games, nil
}

func (b *fakeBackend) SubmitGuess(_ context.Context, g api.GuessRequest) (*api.GuessResponse, error) {
	b.mu.Lock()
	b.guesses = append(b.guesses, g)
	fn := b.guessFn
	b.mu.Unlock()
	return fn(g)
}

func (b *fakeBackend) SkipTurn(context.Context) (*api.SkipResponse, error) {
	b.mu.Lock()
	b.skips++
	fn := b.skipFn
	b.mu.Unlock()
	return fn()
}

func (b *fakeBackend) Service() string { return api.DefaultService }

func (b *fakeBackend) guessCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.guesses)
}

type recorder struct{ frames []view.Model }

func (r *recorder) Render(m view.Model) { r.frames = append(r.frames, m) }

func (r *recorder) last() view.Model { return r.frames[len(r.frames)-1] }

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool { s := !t.stopped; t.stopped = true; return s }

type manualClock struct{ timers []*manualTimer }

func (c *manualClock) AfterFunc(_ time.Duration, f func()) search.Timer {
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) elapse() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func shots() *session.HintBundle {
	h := &session.HintBundle{Meta: session.Metadata{Title: "Celeste", Developer: "Maddy Makes Games"}}
	for i := 1; i <= session.MaxSlots; i++ {
		h.Screenshots = append(h.Screenshots, session.Screenshot{Difficulty: i, URL: fmt.Sprintf("/s%d.jpg", i)})
	}
	return h
}

type fixture struct {
	c       *Controller
	backend *fakeBackend
	rec     *recorder
	clock   *manualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		backend: &fakeBackend{
			games: []api.GameHit{{ID: 11, Name: "Celeste"}, {ID: 12, Name: "Celeste Classic"}},
			guessFn: func(g api.GuessRequest) (*api.GuessResponse, error) {
				return &api.GuessResponse{Success: true, CurrentAttempt: 2}, nil
			},
			skipFn: func() (*api.SkipResponse, error) {
				return &api.SkipResponse{Success: true, Skipped: true, CurrentAttempt: 2}, nil
			},
		},
		rec:   &recorder{},
		clock: &manualClock{},
	}
	c, err := New(&session.Snapshot{CurrentAttempt: 1}, shots(), Options{
		Backend:   f.backend,
		Renderer:  f.rec,
		Now:       func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local) },
		AfterFunc: f.clock.AfterFunc,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.cancel)
	f.c = c
	return f
}

// drain runs n posted closures, as Run would.
func (f *fixture) drain(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case fn := <-f.c.mailbox:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for posted closure %d", i+1)
		}
	}
}

// pick searches for q and selects the first suggestion.
func (f *fixture) pick(t *testing.T, q string) {
	t.Helper()
	f.c.Input(q)
	f.clock.elapse()
	f.drain(t, 2)
	f.c.SelectSuggestion(0)
}

func TestNewFailsFast(t *testing.T) {
	b := &fakeBackend{}
	if _, err := New(nil, shots(), Options{Backend: b, Renderer: &recorder{}}); !errors.Is(err, session.ErrInvalidSnapshot) {
		t.Fatalf("got %v", err)
	}
	if _, err := New(&session.Snapshot{CurrentAttempt: 1}, nil, Options{Backend: b, Renderer: &recorder{}}); !errors.Is(err, session.ErrInvalidHints) {
		t.Fatalf("got %v", err)
	}
}

func TestSearchAndSelect(t *testing.T) {
	f := newFixture(t)
	f.c.Input("ce")
	if f.rec.last().Suggestions.State != view.SuggestionsLoading {
		t.Fatalf("state %v, want loading", f.rec.last().Suggestions.State)
	}
	f.clock.elapse()
	f.drain(t, 2)
	m := f.rec.last()
	if m.Suggestions.State != view.SuggestionsList || len(m.Suggestions.Items) != 2 {
		t.Fatalf("suggestions %+v", m.Suggestions)
	}
	if !m.Submit.Disabled {
		t.Fatal("submit enabled without a selection")
	}

	f.c.MoveHighlight(1)
	f.c.Enter()
	st := f.c.Session()
	if st.Selected == nil || st.Selected.ID != 12 || st.Selected.Service != api.DefaultService {
		t.Fatalf("selected %+v", st.Selected)
	}
	m = f.rec.last()
	if m.Search.Value != "Celeste Classic" || m.Suggestions.Visible || m.Submit.Disabled {
		t.Fatalf("after select: %+v %+v %+v", m.Search, m.Suggestions, m.Submit)
	}

	f.c.Input("Celeste Classi")
	if f.c.Session().Selected != nil {
		t.Fatal("editing the query must clear the selection")
	}
}

func TestSuggestionsFollowClientLimit(t *testing.T) {
	f := newFixture(t)
	f.backend.games = nil
	for i := 0; i < 40; i++ {
		f.backend.games = append(f.backend.games, api.GameHit{ID: int64(i + 1), Name: fmt.Sprintf("Game %d", i+1)})
	}
	f.c.Input("ga")
	f.clock.elapse()
	f.drain(t, 2)
	if n := len(f.rec.last().Suggestions.Items); n != 40 {
		t.Fatalf("suggestions %d, want all 40 the client returned", n)
	}
}

func TestSubmitWrongGuessAdvances(t *testing.T) {
	f := newFixture(t)
	f.pick(t, "celeste")
	f.c.Submit()
	if !f.c.Session().Awaiting || f.rec.last().Submit.Label != "Sending..." {
		t.Fatal("expected in-flight state while the guess is pending")
	}
	f.drain(t, 1)

	st := f.c.Session()
	if st.Awaiting || st.CurrentAttempt != 2 || len(st.History) != 1 {
		t.Fatalf("state %+v", st)
	}
	m := f.rec.last()
	if m.Attempts[0].Kind != session.IndicatorWrong || m.Attempts[1].Kind != session.IndicatorCurrent {
		t.Fatalf("indicators %+v %+v", m.Attempts[0], m.Attempts[1])
	}
	if m.Search.Value != "" || !m.Submit.Disabled {
		t.Fatalf("input not reset: %+v %+v", m.Search, m.Submit)
	}
	if got := f.backend.guesses[0]; got.GameID != 11 || got.GameName != "Celeste" || got.Service != api.DefaultService {
		t.Fatalf("request %+v", got)
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	f.backend.guessFn = func(api.GuessRequest) (*api.GuessResponse, error) {
		<-release
		return &api.GuessResponse{Success: true, CurrentAttempt: 2}, nil
	}
	f.pick(t, "celeste")
	f.c.Submit()
	f.c.Submit()
	f.c.Enter()
	f.c.Skip()
	close(release)
	f.drain(t, 1)
	if n := f.backend.guessCount(); n != 1 {
		t.Fatalf("guess requests %d, want 1", n)
	}
	if f.backend.skips != 0 {
		t.Fatal("skip sent while a guess was pending")
	}
}

func TestSearchLockedWhileGuessPending(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	f.backend.guessFn = func(api.GuessRequest) (*api.GuessResponse, error) {
		<-release
		return &api.GuessResponse{Success: true, CurrentAttempt: 2}, nil
	}
	f.pick(t, "celeste")
	f.c.Submit()
	if !f.rec.last().Search.Disabled {
		t.Fatal("search box enabled while the guess is pending")
	}

	f.c.Input("x")
	f.c.ui.State = view.SuggestionsList
	f.c.ui.Suggestions = []view.Suggestion{{ID: 12, Name: "Celeste Classic"}}
	f.c.SelectSuggestion(0)
	if sel := f.c.Session().Selected; sel == nil || sel.ID != 11 {
		t.Fatalf("selection changed while pending: %+v", sel)
	}

	close(release)
	f.drain(t, 1)
	st := f.c.Session()
	if len(st.History) != 1 || st.History[0].GameName != "Celeste" {
		t.Fatalf("history %+v", st.History)
	}
	if got := f.backend.guesses[0].GameName; got != st.History[0].GameName {
		t.Fatalf("sent %q, recorded %q", got, st.History[0].GameName)
	}
}

func TestCorrectGuessWins(t *testing.T) {
	f := newFixture(t)
	f.backend.guessFn = func(api.GuessRequest) (*api.GuessResponse, error) {
		return &api.GuessResponse{Success: true, Correct: true, CurrentAttempt: 1, GuessedIt: true, GameName: "Celeste"}, nil
	}
	f.pick(t, "celeste")
	f.c.Submit()
	f.drain(t, 1)

	st := f.c.Session()
	if st.Outcome != session.Won || !st.GuessedIt {
		t.Fatalf("state %+v", st)
	}
	m := f.rec.last()
	if !m.Search.Disabled || !m.Skip.Disabled || m.Remaining.Title != "GUESSED IT!" {
		t.Fatalf("model %+v", m.Remaining)
	}
	f.c.Input("more")
	if len(f.clock.timers) != 1 {
		t.Fatal("input after the game ended must not search")
	}
}

func TestRequestFailureKeepsRound(t *testing.T) {
	f := newFixture(t)
	f.backend.skipFn = func() (*api.SkipResponse, error) {
		return nil, &api.HTTPError{Endpoint: "skip-turn", Status: 502}
	}
	f.c.Skip()
	f.drain(t, 1)

	st := f.c.Session()
	if st.Awaiting || st.CurrentAttempt != 1 || len(st.History) != 0 {
		t.Fatalf("state %+v", st)
	}
	m := f.rec.last()
	if m.Status != "Connection error, please try again" || m.Skip.Disabled {
		t.Fatalf("status %q skip %+v", m.Status, m.Skip)
	}

	f.backend.skipFn = func() (*api.SkipResponse, error) {
		return &api.SkipResponse{Success: true, Skipped: true, CurrentAttempt: 2}, nil
	}
	f.c.Skip()
	f.drain(t, 1)
	st = f.c.Session()
	if st.CurrentAttempt != 2 || st.History[0].Type != session.AttemptSkipped {
		t.Fatalf("state %+v", st)
	}
	if f.rec.last().Status != "" {
		t.Fatal("status must clear on the next attempt")
	}
}

func TestNavigateHistory(t *testing.T) {
	f := newFixture(t)
	f.c.Skip()
	f.drain(t, 1)
	if f.rec.last().Hint.Source != "/s2.jpg" {
		t.Fatalf("hint %q", f.rec.last().Hint.Source)
	}
	f.c.Prev()
	if f.rec.last().Hint.Source != "/s1.jpg" {
		t.Fatalf("hint %q", f.rec.last().Hint.Source)
	}
	f.c.Prev()
	if f.c.Session().CurrentViewingAttempt != 1 {
		t.Fatal("prev past the first attempt must be ignored")
	}
	f.c.Navigate(5)
	if f.c.Session().CurrentViewingAttempt != 1 {
		t.Fatal("navigating beyond the current attempt must be ignored")
	}
	f.c.Next()
	if f.c.Session().CurrentViewingAttempt != 2 {
		t.Fatal("next should return to the current attempt")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.c.Run(ctx) }()

	ticked := make(chan struct{})
	f.c.Post(func() { f.c.Tick(); close(ticked) })
	<-ticked
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	if len(f.rec.frames) < 2 {
		t.Fatalf("frames %d, want initial render plus tick", len(f.rec.frames))
	}
}
