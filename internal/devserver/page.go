// internal/devserver/page.go
//
// The game page. It carries the CSRF token (meta tag and hidden form field)
// and three JSON script elements the client reads at startup:
// game-state, game-data and screenshots.

package devserver

import (
	"errors"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/catalog"
	"github.com/guessityet/guessityet/internal/daily"
	"github.com/guessityet/guessityet/internal/game"
	"github.com/guessityet/guessityet/internal/store"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="csrf-token" content="{{.CSRF}}">
<title>GuessItYet</title>
</head>
<body>
<h1>GuessItYet</h1>
<form id="guess-form"><input type="hidden" name="csrfmiddlewaretoken" value="{{.CSRF}}"></form>
<script type="application/json" id="game-state">{{.State}}</script>
<script type="application/json" id="game-data">{{.Data}}</script>
<script type="application/json" id="screenshots">{{.Screenshots}}</script>
</body>
</html>
`))

type pageData struct {
	CSRF        string
	State       api.GameState
	Data        api.GameData
	Screenshots []api.ScreenshotData
}

// handlePage renders today's game, starting a play on first visit.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	csrf := s.ensureCSRF(w, r)

	s.playMu.Lock()
	play, answer, err := s.todaysPlay(r)
	s.playMu.Unlock()
	if err != nil {
		log.Error().Err(err).Str("player", playerID(r)).Msg("load game page")
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, pageData{
		CSRF:        csrf,
		State:       stateOf(play),
		Data:        dataOf(answer),
		Screenshots: screenshotsOf(answer),
	}); err != nil {
		log.Warn().Err(err).Msg("render game page")
	}
}

// todaysPlay returns the player's play for today, creating it if needed.
func (s *Server) todaysPlay(r *http.Request) (*game.Play, catalog.Game, error) {
	now := s.now()
	date := daily.DateKey(now)
	play, err := s.store.GetPlay(r.Context(), playerID(r), date)
	switch {
	case err == nil:
		answer, ok := s.cat.Lookup(play.GameID)
		if !ok {
			return nil, catalog.Game{}, errors.New("play refers to a game missing from the catalog")
		}
		return play, answer, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, catalog.Game{}, err
	}

	answer := daily.Pick(s.cat, now, s.salt)
	play = game.New(playerID(r), date, answer, now)
	if err := s.store.SavePlay(r.Context(), play); err != nil {
		return nil, catalog.Game{}, err
	}
	return play, answer, nil
}

func stateOf(p *game.Play) api.GameState {
	st := api.GameState{
		GameID:         p.GameID,
		CurrentAttempt: p.CurrentAttempt,
		Attempts:       make([]api.AttemptState, 0, len(p.Attempts)),
		Won:            p.Won,
		Lost:           p.Lost,
		GuessedIt:      p.GuessedIt,
	}
	for _, a := range p.Attempts {
		st.Attempts = append(st.Attempts, api.AttemptState{
			Attempt:        a.Attempt,
			Type:           string(a.Type),
			GameName:       a.GameName,
			GameID:         a.GameID,
			Service:        a.Service,
			Correct:        a.Correct,
			FranchiseMatch: a.FranchiseMatch,
			FranchiseName:  a.FranchiseName,
		})
	}
	return st
}

func dataOf(g catalog.Game) api.GameData {
	return api.GameData{
		Title:         g.Name,
		Developer:     g.Developer,
		ReleaseYear:   g.ReleaseYear(),
		Genres:        g.Genres,
		Platforms:     g.Platforms,
		Metacritic:    g.Metacritic,
		FranchiseName: g.FranchiseName(),
		GifPath:       g.GifPath,
	}
}

// screenshotsOf lists at most six hint images, hardest first.
func screenshotsOf(g catalog.Game) []api.ScreenshotData {
	out := make([]api.ScreenshotData, 0, len(g.Screenshots))
	for i, url := range g.Screenshots {
		if i == 6 {
			break
		}
		out = append(out, api.ScreenshotData{Difficulty: i + 1, URL: url})
	}
	return out
}

// -----------------------------------------------------------------------------
// /media/*

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="640" height="360" viewBox="0 0 640 360">` +
	`<rect width="640" height="360" fill="#222"/>` +
	`<text x="320" y="185" fill="#ccc" font-family="monospace" font-size="20" text-anchor="middle">%s</text></svg>`

// handleMedia serves a placeholder image for any hint asset; the dev
// backend ships no media.
func handleMedia(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.URL.Path)
	if name == "." || name == "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(strings.Replace(placeholderSVG, "%s", template.HTMLEscapeString(name), 1)))
}
