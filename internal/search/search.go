// internal/search/search.go
//
// Debounced search-as-you-type for the guess input.
// Responsibilities:
//   - Ignore queries shorter than MinQueryLen (no network call).
//   - Collapse keystrokes: only the last query of a Debounce-long quiet period is sent.
//   - Tag every query with a sequence number and drop responses that were superseded.
//
// Notes:
//   - Input and the posted callbacks must run on the owner's goroutine (the
//     controller loop). Timers and fetches run elsewhere and only hand closures
//     back through Post.

package search

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/guessityet/guessityet/internal/api"
)

const (
	Debounce    = 300 * time.Millisecond
	MinQueryLen = 2
)

// Finder looks up suggestions; *api.Client satisfies it.
type Finder interface {
	SearchGames(ctx context.Context, query string) ([]api.GameHit, error)
}

// Timer is the part of *time.Timer the searcher uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Result is one resolved search.
type Result struct {
	Seq   uint64
	Query string
	Games []api.GameHit
	Err   error
}

// Action tells the caller what the suggestion box should show right after
// an input change.
type Action int

const (
	ActionHide    Action = iota // query too short: hide suggestions
	ActionLoading               // a search is pending: show loading
)

// Config wires a Searcher.
type Config struct {
	Finder    Finder
	Post      func(func()) // runs a closure on the owner's goroutine
	OnResult  func(Result) // called on the owner's goroutine for current results only
	Delay     time.Duration
	AfterFunc AfterFunc
	Context   context.Context
}

// Searcher owns the debounce timer and the sequence counter.
type Searcher struct {
	cfg   Config
	seq   uint64
	timer Timer
	sent  uint64 // queries handed to the Finder
}

// New builds a Searcher; zero Delay means Debounce.
func New(cfg Config) *Searcher {
	if cfg.Delay <= 0 {
		cfg.Delay = Debounce
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = realAfterFunc
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	return &Searcher{cfg: cfg}
}

// Input reacts to a change of the search box. Every call supersedes any
// pending or in-flight query.
func (s *Searcher) Input(query string) Action {
	s.Cancel()
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLen {
		return ActionHide
	}
	seq := s.seq
	s.timer = s.cfg.AfterFunc(s.cfg.Delay, func() {
		s.cfg.Post(func() { s.fire(seq, q) })
	})
	return ActionLoading
}

// Cancel stops the pending timer and invalidates outstanding responses.
func (s *Searcher) Cancel() {
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Sent reports how many queries reached the Finder.
func (s *Searcher) Sent() uint64 { return s.sent }

func (s *Searcher) fire(seq uint64, q string) {
	if seq != s.seq {
		return
	}
	s.timer = nil
	s.sent++
	ctx := s.cfg.Context
	go func() {
		games, err := s.cfg.Finder.SearchGames(ctx, q)
		s.cfg.Post(func() {
			if seq != s.seq {
				return
			}
			s.cfg.OnResult(Result{Seq: seq, Query: q, Games: games, Err: err})
		})
	}()
}
