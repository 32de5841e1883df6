package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/catalog"
	"github.com/guessityet/guessityet/internal/store"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	zelda := &catalog.Franchise{Name: "The Legend of Zelda", Slug: "zelda"}
	c, err := catalog.New([]catalog.Game{
		{
			ID: 1, Name: "Breath of the Wild", Franchise: zelda, Developer: "Nintendo",
			FirstReleaseDate: 1488499200, Screenshots: []string{"/media/s/1.jpg", "/media/s/2.jpg", "/media/s/3.jpg"},
		},
		{ID: 2, Name: "Ocarina of Time", Franchise: zelda},
		{ID: 3, Name: "Portal"},
		{ID: 4, Name: "Portal 2"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(Options{
		Catalog:   testCatalog(t),
		Store:     store.NewMemoryStore(),
		JWTSecret: "test-secret",
		DailySalt: "salt",
		Now:       func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func newClient(t *testing.T, base string) *api.Client {
	t.Helper()
	c, err := api.New(api.Options{BaseURL: base})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without catalog and store")
	}
	if _, err := New(Options{Catalog: testCatalog(t), Store: store.NewMemoryStore()}); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK || string(b) != `{"ok":true}` {
		t.Fatalf("got %d %s", res.StatusCode, b)
	}
}

func TestBootstrapInjectsGlobals(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)

	p, err := c.Bootstrap(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.CSRFToken == "" {
		t.Fatal("no csrf token on the page")
	}
	if p.State.GameID != 1 || p.State.CurrentAttempt != 1 || len(p.State.Attempts) != 0 {
		t.Fatalf("state %+v", p.State)
	}
	if p.Data.Title != "Breath of the Wild" || p.Data.ReleaseYear != 2017 || p.Data.FranchiseName != "The Legend of Zelda" {
		t.Fatalf("data %+v", p.Data)
	}
	if len(p.Screenshots) != 3 || p.Screenshots[0].Difficulty != 1 || p.Screenshots[2].URL != "/media/s/3.jpg" {
		t.Fatalf("screenshots %+v", p.Screenshots)
	}
	if got := p.Hints().Screenshots[0].URL; got != ts.URL+"/media/s/1.jpg" {
		t.Fatalf("resolved url %s", got)
	}
}

func TestSearch(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()

	hits, err := c.SearchGames(ctx, "portal")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Name != "Portal" {
		t.Fatalf("hits %+v", hits)
	}

	hits, err = c.SearchGames(ctx, "breath")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Franchise != "The Legend of Zelda" || hits[0].ReleaseYear() != 2017 {
		t.Fatalf("hits %+v", hits)
	}

	if hits, _ := c.SearchGames(ctx, "p"); len(hits) != 0 {
		t.Fatalf("short query returned %+v", hits)
	}
}

func TestRoundTrip(t *testing.T) {
	s, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()

	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	res, err := c.SubmitGuess(ctx, api.GuessRequest{GameName: "Portal", GameID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct || res.FranchiseMatch || res.CurrentAttempt != 2 {
		t.Fatalf("wrong guess %+v", res)
	}

	res, err = c.SubmitGuess(ctx, api.GuessRequest{GameName: "Ocarina of Time", GameID: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.FranchiseMatch || res.FranchiseName != "The Legend of Zelda" || res.CurrentAttempt != 3 {
		t.Fatalf("franchise guess %+v", res)
	}

	res, err = c.SubmitGuess(ctx, api.GuessRequest{GameName: "Breath of the Wild", GameID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct || !res.Won || res.GuessedIt || res.GameName != "Breath of the Wild" || res.CurrentAttempt != 3 {
		t.Fatalf("correct guess %+v", res)
	}

	// finished games reject further rounds
	if _, err := c.SkipTurn(ctx); err == nil {
		t.Fatal("skip after win should fail")
	}

	// the reloaded page reflects the stored play
	p, err := c.Bootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !p.State.Won || len(p.State.Attempts) != 3 || !p.State.Attempts[1].FranchiseMatch {
		t.Fatalf("state %+v", p.State)
	}

	rows, err := s.store.Leaderboard(ctx, "2026-03-01", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Attempts != 3 {
		t.Fatalf("leaderboard %+v", rows)
	}
}

func TestSkipUntilLost(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	// three screenshots and no clip: three rounds
	for i := 1; i <= 3; i++ {
		res, err := c.SkipTurn(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Skipped || res.CurrentAttempt != i+1 || res.GameEnded != (i == 3) {
			t.Fatalf("skip %d: %+v", i, res)
		}
	}
	p, err := c.Bootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !p.State.Lost || p.State.Attempts[0].GameName != "Turn skipped" {
		t.Fatalf("state %+v", p.State)
	}
}

func TestPostWithoutPageVisitIsForbidden(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	c.SetCSRFToken("tok")

	// no page visit means no csrftoken cookie to match the header
	_, err := c.SubmitGuess(context.Background(), api.GuessRequest{GameName: "Portal", GameID: 3})
	var he *api.HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusForbidden {
		t.Fatalf("got %v", err)
	}
}

func TestCSRFRequired(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	c.SetCSRFToken("forged")
	_, err := c.SkipTurn(ctx)
	var he *api.HTTPError
	if !errors.As(err, &he) || he.Status != http.StatusForbidden {
		t.Fatalf("got %v", err)
	}
	if !api.IsConnection(err) {
		t.Fatal("rejected request should surface as a connection error")
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	s, ts := newTestServer(t)
	ctx := context.Background()
	for _, r := range []store.Result{
		{PlayerID: "b", Date: "2026-03-01", Attempts: 3, ElapsedMs: 10},
		{PlayerID: "a", Date: "2026-03-01", Attempts: 1, GuessedIt: true, ElapsedMs: 99},
	} {
		if err := s.store.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	res, err := http.Get(ts.URL + "/daily/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var body lbRes
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Date != "2026-03-01" || len(body.Top) != 2 || body.Top[0].PlayerID != "a" {
		t.Fatalf("body %+v", body)
	}

	bad, err := http.Get(ts.URL + "/daily/leaderboard?date=yesterday")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", bad.StatusCode)
	}
}

func TestMetricsExposed(t *testing.T) {
	_, ts := newTestServer(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()
	if _, err := c.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SkipTurn(ctx); err != nil {
		t.Fatal(err)
	}

	res, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	for _, want := range []string{
		"guessityet_skips_total 1",
		"guessityet_players_issued_total 1",
		`guessityet_http_requests_total{code="200",method="POST",route="/skip-turn"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestMediaPlaceholderAndNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	res, err := http.Get(ts.URL + "/media/screens/x/1.jpg")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK || res.Header.Get("Content-Type") != "image/svg+xml" {
		t.Fatalf("media %d %s", res.StatusCode, res.Header.Get("Content-Type"))
	}

	res, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", res.StatusCode)
	}
}

func TestInvalidPlayerCookieIsReplaced(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: playerCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var minted string
	for _, c := range rec.Result().Cookies() {
		if c.Name == playerCookieName {
			minted = c.Value
		}
	}
	if minted == "" || s.parsePlayer(minted) == "" {
		t.Fatalf("no valid replacement cookie: %q", minted)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, err := New(Options{
		Catalog:   testCatalog(t),
		Store:     store.NewMemoryStore(),
		JWTSecret: "x",
		Origin:    "http://localhost:5173",
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/submit-guess/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "X-CSRFToken") {
		t.Fatal("csrf header not allowed")
	}
}

func TestRouteLabel(t *testing.T) {
	for in, want := range map[string]string{
		"/":                  "/",
		"/skip-turn/":        "/skip-turn",
		"/skip-turn":         "/skip-turn",
		"/daily/leaderboard": "/daily/leaderboard",
		"/media/*":           "/media/*",
	} {
		if got := routeLabel(in); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
