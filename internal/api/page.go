package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/guessityet/guessityet/internal/session"
)

// Script element IDs carrying the page-injected globals.
const (
	ScriptGameState   = "game-state"
	ScriptGameData    = "game-data"
	ScriptScreenshots = "screenshots"
)

// Page is the server-rendered initial state of the daily game.
type Page struct {
	State       GameState
	Data        GameData
	Screenshots []ScreenshotData
	CSRFToken   string // from the meta tag or the hidden form field

	resolve func(string) string
}

// Bootstrap loads the game page, extracts the injected globals and the
// CSRF token, and remembers the token for later mutating calls. Any
// missing global is an error wrapping ErrMissingGlobal.
func (c *Client) Bootstrap(ctx context.Context) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("/"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("game page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Endpoint: "game page", Status: resp.StatusCode}
	}

	p, err := ParsePage(resp.Body)
	if err != nil {
		return nil, err
	}
	p.resolve = c.resolve
	if p.CSRFToken != "" {
		c.SetCSRFToken(p.CSRFToken)
	}
	return p, nil
}

// ParsePage extracts the injected globals from a game page document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse game page: %w", err)
	}

	var (
		metaToken, fieldToken string
		scripts               = map[string]string{}
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "name") == "csrf-token" && metaToken == "" {
					metaToken = attr(n, "content")
				}
			case "input":
				if attr(n, "name") == "csrfmiddlewaretoken" && fieldToken == "" {
					fieldToken = attr(n, "value")
				}
			case "script":
				if id := attr(n, "id"); id != "" && n.FirstChild != nil {
					scripts[id] = n.FirstChild.Data
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	p := &Page{CSRFToken: metaToken, resolve: func(s string) string { return s }}
	if p.CSRFToken == "" {
		p.CSRFToken = fieldToken
	}
	if err := decodeScript(scripts, ScriptGameState, &p.State); err != nil {
		return nil, err
	}
	if err := decodeScript(scripts, ScriptGameData, &p.Data); err != nil {
		return nil, err
	}
	if err := decodeScript(scripts, ScriptScreenshots, &p.Screenshots); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeScript(scripts map[string]string, id string, out any) error {
	body, ok := scripts[id]
	body = strings.TrimSpace(body)
	if !ok || body == "" || body == "null" {
		return fmt.Errorf("%w: %s", ErrMissingGlobal, id)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingGlobal, id, err)
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Snapshot converts the injected game state for session.New.
func (p *Page) Snapshot() *session.Snapshot {
	snap := &session.Snapshot{
		CurrentAttempt: p.State.CurrentAttempt,
		Won:            p.State.Won,
		Lost:           p.State.Lost,
		GuessedIt:      p.State.GuessedIt,
	}
	for _, a := range p.State.Attempts {
		rec := session.AttemptRecord{
			Number:         a.Attempt,
			Type:           session.AttemptGuess,
			GameName:       a.GameName,
			Correct:        a.Correct,
			FranchiseMatch: a.FranchiseMatch,
			FranchiseName:  a.FranchiseName,
		}
		if a.Type == string(session.AttemptSkipped) {
			rec.Type = session.AttemptSkipped
		}
		snap.Attempts = append(snap.Attempts, rec)
	}
	return snap
}

// Hints converts the injected metadata and screenshots for session.New.
// Relative URLs are resolved against the backend; the clip lives under /media/.
func (p *Page) Hints() *session.HintBundle {
	h := &session.HintBundle{
		Meta: session.Metadata{
			Title:         p.Data.Title,
			Developer:     p.Data.Developer,
			Genres:        p.Data.Genres,
			Platforms:     p.Data.Platforms,
			ReviewScore:   p.Data.Metacritic,
			ReleaseYear:   p.Data.ReleaseYear,
			FranchiseName: p.Data.FranchiseName,
		},
	}
	if gif := strings.TrimSpace(p.Data.GifPath); gif != "" {
		h.ClipPath = p.resolve("/media/" + strings.TrimPrefix(gif, "/"))
	}
	for _, s := range p.Screenshots {
		h.Screenshots = append(h.Screenshots, session.Screenshot{Difficulty: s.Difficulty, URL: p.resolve(s.URL)})
	}
	return h
}
