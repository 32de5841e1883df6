// internal/catalog/catalog.go
//
// Game catalog for the dev backend.
// Responsibilities:
//   - Load the catalog from CATALOG_FILE or fall back to the embedded seed.
//   - Search by accent- and case-insensitive substring, with compound-word splitting.
//   - Look games up by id; list the games that can be served as a daily puzzle.
//
// Catalog format (JSON array):
//   [{"id":1942,"name":"...","service":"igdb","first_release_date":1431993600,
//     "franchise":{"name":"...","slug":"..."},"developer":"...","genres":"...",
//     "platforms":"...","metacritic":93,"gif_path":"clips/x.mp4",
//     "screenshots":["/media/screens/x/1.jpg", ...]}]
//
// Constraints:
//   • ids are unique; a duplicate is a load error.
//   • a playable game has at least one screenshot.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/guessityet/guessityet/assets"
)

const maxAttempts = 6

// DefaultService is assumed for entries that name no service.
const DefaultService = "igdb"

// Franchise groups related games.
type Franchise struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Game is one catalog entry.
type Game struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Service          string     `json:"service"`
	FirstReleaseDate int64      `json:"first_release_date,omitempty"`
	Franchise        *Franchise `json:"franchise,omitempty"`
	Developer        string     `json:"developer,omitempty"`
	Genres           string     `json:"genres,omitempty"`
	Platforms        string     `json:"platforms,omitempty"`
	Metacritic       int        `json:"metacritic,omitempty"`
	GifPath          string     `json:"gif_path,omitempty"`
	Screenshots      []string   `json:"screenshots,omitempty"`
}

// ReleaseYear returns the UTC year of FirstReleaseDate, or 0.
func (g Game) ReleaseYear() int {
	if g.FirstReleaseDate <= 0 {
		return 0
	}
	return time.Unix(g.FirstReleaseDate, 0).UTC().Year()
}

// MaxAttempts is 6 with a bonus clip, else the screenshot count capped at 6.
func (g Game) MaxAttempts() int {
	if strings.TrimSpace(g.GifPath) != "" {
		return maxAttempts
	}
	return min(len(g.Screenshots), maxAttempts)
}

// FranchiseName returns the franchise display name, or "".
func (g Game) FranchiseName() string {
	if g.Franchise == nil {
		return ""
	}
	return g.Franchise.Name
}

// Catalog is an immutable, indexed list of games.
type Catalog struct {
	games    []Game
	folded   []string // Fold(name), parallel to games
	byID     map[int64]int
	playable []int
}

// Load reads the catalog at path, or the embedded seed when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.Catalog()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from its JSON form.
func Parse(data []byte) (*Catalog, error) {
	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(games)
}

// New indexes games. An empty list or a duplicate id is an error.
func New(games []Game) (*Catalog, error) {
	if len(games) == 0 {
		return nil, errors.New("catalog: no games")
	}
	c := &Catalog{
		games:  games,
		folded: make([]string, len(games)),
		byID:   make(map[int64]int, len(games)),
	}
	for i := range c.games {
		g := &c.games[i]
		g.Name = strings.TrimSpace(g.Name)
		if g.Service == "" {
			g.Service = DefaultService
		}
		if g.Name == "" {
			return nil, fmt.Errorf("catalog: game %d has no name", g.ID)
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate id %d", g.ID)
		}
		c.byID[g.ID] = i
		c.folded[i] = Fold(g.Name)
		if len(g.Screenshots) > 0 {
			c.playable = append(c.playable, i)
		}
	}
	if len(c.playable) == 0 {
		return nil, errors.New("catalog: no game has screenshots")
	}
	return c, nil
}

// Len returns the number of games.
func (c *Catalog) Len() int { return len(c.games) }

// Lookup finds a game by id.
func (c *Catalog) Lookup(id int64) (Game, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Game{}, false
	}
	return c.games[i], true
}

// Playable returns the games that can be a daily puzzle, in catalog order.
func (c *Catalog) Playable() []Game {
	out := make([]Game, len(c.playable))
	for i, idx := range c.playable {
		out[i] = c.games[idx]
	}
	return out
}

// Search returns up to limit games whose folded name contains every word of
// the folded query. Names starting with the query rank first; ties keep
// catalog order.
func (c *Catalog) Search(query string, limit int) []Game {
	q := Fold(ExpandCompound(query))
	if q == "" || limit <= 0 {
		return nil
	}
	words := strings.Fields(q)

	type hit struct {
		idx    int
		prefix bool
	}
	var hits []hit
	for i, name := range c.folded {
		if matchAll(name, words) {
			hits = append(hits, hit{idx: i, prefix: strings.HasPrefix(name, q)})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].prefix && !hits[b].prefix })

	out := make([]Game, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, c.games[h.idx])
	}
	return out
}

func matchAll(name string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(name, w) {
			return false
		}
	}
	return true
}

// SameFranchise reports whether two franchises match by slug or by
// case-folded name. Missing franchises never match.
func SameFranchise(a, b *Franchise) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Slug != "" && a.Slug == b.Slug {
		return true
	}
	return a.Name != "" && Fold(a.Name) == Fold(b.Name)
}
