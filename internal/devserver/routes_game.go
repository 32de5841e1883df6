// internal/devserver/routes_game.go
//
// JSON endpoints driven by the game client:
//   - GET  /search-games/?q=&limit= → catalog matches (min two characters)
//   - POST /submit-guess/           → judge a guess against today's answer
//   - POST /skip-turn/              → spend a round without guessing
//
// Failures answer 400 with {"success":false,"error":...}; the client treats
// any non-2xx as a connection error and keeps the round.

package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/catalog"
	"github.com/guessityet/guessityet/internal/daily"
	"github.com/guessityet/guessityet/internal/game"
	"github.com/guessityet/guessityet/internal/store"
)

const (
	minQueryLen = 2
	maxLimit    = 50
)

// -----------------------------------------------------------------------------
// /search-games/

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < minQueryLen {
		writeJSON(w, api.SearchResult{Games: []api.GameHit{}})
		return
	}
	limit := api.DefaultLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxLimit)
	}

	games := s.cat.Search(q, limit)
	hits := make([]api.GameHit, 0, len(games))
	for _, g := range games {
		hits = append(hits, api.GameHit{
			ID:               g.ID,
			Name:             g.Name,
			Service:          g.Service,
			Franchise:        g.FranchiseName(),
			FirstReleaseDate: g.FirstReleaseDate,
		})
	}
	writeJSON(w, api.SearchResult{Games: hits})
}

// -----------------------------------------------------------------------------
// /submit-guess/

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req api.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, api.GuessResponse{Error: "Invalid request"})
		return
	}
	if req.Service == "" {
		req.Service = catalog.DefaultService
	}

	s.playMu.Lock()
	defer s.playMu.Unlock()

	play, answer, ok := s.activePlay(w, r)
	if !ok {
		return
	}

	g := game.Guess{Name: req.GameName, ID: req.GameID, Service: req.Service}
	if guessed, found := s.cat.Lookup(req.GameID); found && guessed.Service == req.Service {
		g.Franchise = guessed.Franchise
	}
	v, err := play.ApplyGuess(answer, g)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, api.GuessResponse{Error: playError(err)})
		return
	}
	if !s.savePlay(r.Context(), w, play) {
		return
	}
	s.metrics.guess(v.Correct, v.FranchiseMatch)

	if play.Won {
		s.recordWin(r.Context(), play)
	}

	res := api.GuessResponse{
		Success:        true,
		Correct:        v.Correct,
		FranchiseMatch: v.FranchiseMatch,
		FranchiseName:  v.FranchiseName,
		CurrentAttempt: play.CurrentAttempt,
		Won:            play.Won,
		Lost:           play.Lost,
		GuessedIt:      play.GuessedIt,
	}
	if v.Correct {
		res.GameName = answer.Name
	}
	writeJSON(w, res)
}

// -----------------------------------------------------------------------------
// /skip-turn/

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.playMu.Lock()
	defer s.playMu.Unlock()

	play, _, ok := s.activePlay(w, r)
	if !ok {
		return
	}
	if err := play.ApplySkip(); err != nil {
		writeStatus(w, http.StatusBadRequest, api.SkipResponse{Error: playError(err)})
		return
	}
	if !s.savePlay(r.Context(), w, play) {
		return
	}
	s.metrics.skips.Inc()

	writeJSON(w, api.SkipResponse{
		Success:        true,
		Skipped:        true,
		CurrentAttempt: play.CurrentAttempt,
		GameEnded:      play.Lost,
	})
}

// -----------------------------------------------------------------------------
// helpers

// activePlay loads today's play for the request's player. It writes the
// error response itself and returns ok=false when there is none.
func (s *Server) activePlay(w http.ResponseWriter, r *http.Request) (*game.Play, catalog.Game, bool) {
	date := daily.DateKey(s.now())
	play, err := s.store.GetPlay(r.Context(), playerID(r), date)
	if errors.Is(err, store.ErrNotFound) {
		writeStatus(w, http.StatusBadRequest, map[string]any{"success": false, "error": "No active game"})
		return nil, catalog.Game{}, false
	}
	if err != nil {
		log.Error().Err(err).Str("player", playerID(r)).Msg("load play")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return nil, catalog.Game{}, false
	}
	answer, ok := s.cat.Lookup(play.GameID)
	if !ok {
		log.Error().Int64("game_id", play.GameID).Msg("play refers to a game missing from the catalog")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return nil, catalog.Game{}, false
	}
	return play, answer, true
}

func (s *Server) savePlay(ctx context.Context, w http.ResponseWriter, p *game.Play) bool {
	if err := s.store.SavePlay(ctx, p); err != nil {
		log.Error().Err(err).Str("player", p.PlayerID).Msg("save play")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return false
	}
	return true
}

// recordWin adds the play to the day's leaderboard. Failures are logged;
// the guess itself already counted.
func (s *Server) recordWin(ctx context.Context, p *game.Play) {
	err := s.store.InsertResult(ctx, store.Result{
		PlayerID:  p.PlayerID,
		Date:      p.Date,
		GameID:    p.GameID,
		Attempts:  p.AttemptsUsed(),
		GuessedIt: p.GuessedIt,
		ElapsedMs: s.now().Sub(p.StartedAt).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("player", p.PlayerID).Msg("record daily result")
	}
}

func playError(err error) string {
	switch {
	case errors.Is(err, game.ErrFinished):
		return "Game already ended"
	case errors.Is(err, game.ErrEmptyName):
		return "Game name required"
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
