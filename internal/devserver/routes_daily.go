// internal/devserver/routes_daily.go
//
// Daily leaderboard.
//   - GET /daily/leaderboard?date=YYYY-MM-DD → top results (default today, UTC)
//
// Rows are written by the guess handler when a play is won; ranking is by
// attempts used, then elapsed time.

package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/daily"
	"github.com/guessityet/guessityet/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily/leaderboard", s.handleLeaderboard)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string      `json:"date"`
	Top  []store.Row `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, `{"error":"bad date"}`, http.StatusBadRequest)
		return
	}
	limit := store.DefaultLeaderboardLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, 100)
	}
	rows, err := s.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []store.Row{}
	}
	writeJSON(w, lbRes{Date: date, Top: rows})
}
