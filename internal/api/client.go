// internal/api/client.go
//
// HTTP client for the game backend.
// Responsibilities:
//   - Keep the backend session cookie (cookie jar) across calls.
//   - Attach the CSRF token to mutating requests (X-CSRFToken).
//   - Decode JSON bodies; map non-2xx to *HTTPError and success=false to *AppError.
//
// Notes:
//   - No retries: every failure is returned to the caller, who decides what the
//     player sees. Safe for concurrent use (search and submit may overlap).

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultService = "igdb"
	DefaultLimit   = 25

	csrfHeader     = "X-CSRFToken"
	csrfCookieName = "csrftoken"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // ignored when HTTPClient is set
	Service    string        // search/guess service, default "igdb"
	Limit      int           // suggestion page size, default 25
	HTTPClient *http.Client  // optional; a cookie jar is added if missing
}

// Client talks to the game backend.
type Client struct {
	base    *url.URL
	hc      *http.Client
	service string
	limit   int

	mu   sync.Mutex
	csrf string // token found in the page; empty falls back to the cookie
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		hc.Jar = jar
	}
	c := &Client{base: base, hc: hc, service: opts.Service, limit: opts.Limit}
	if c.service == "" {
		c.service = DefaultService
	}
	if c.limit <= 0 {
		c.limit = DefaultLimit
	}
	return c, nil
}

// Service is the catalog service guesses are tagged with.
func (c *Client) Service() string { return c.service }

// SetCSRFToken overrides the token sent on mutating calls.
func (c *Client) SetCSRFToken(tok string) {
	c.mu.Lock()
	c.csrf = tok
	c.mu.Unlock()
}

// csrfToken returns the page token, else the csrftoken cookie, else "".
func (c *Client) csrfToken() string {
	c.mu.Lock()
	tok := c.csrf
	c.mu.Unlock()
	if tok != "" {
		return tok
	}
	for _, ck := range c.hc.Jar.Cookies(c.base) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// SearchGames queries the catalog for suggestions.
func (c *Client) SearchGames(ctx context.Context, query string) ([]GameHit, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("service", c.service)
	q.Set("limit", strconv.Itoa(c.limit))

	var res SearchResult
	if err := c.do(ctx, http.MethodGet, "/search-games/?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	if len(res.Games) > c.limit {
		res.Games = res.Games[:c.limit]
	}
	return res.Games, nil
}

// SubmitGuess posts a guess for today's game.
func (c *Client) SubmitGuess(ctx context.Context, g GuessRequest) (*GuessResponse, error) {
	if g.Service == "" {
		g.Service = c.service
	}
	var res GuessResponse
	if err := c.do(ctx, http.MethodPost, "/submit-guess/", g, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &AppError{Endpoint: "submit-guess", Message: res.Error}
	}
	return &res, nil
}

// SkipTurn skips the current attempt.
func (c *Client) SkipTurn(ctx context.Context) (*SkipResponse, error) {
	var res SkipResponse
	if err := c.do(ctx, http.MethodPost, "/skip-turn/", nil, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &AppError{Endpoint: "skip-turn", Message: res.Error}
	}
	return &res, nil
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.base.ResolveReference(u).String()
}

// do performs one request and decodes a JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	endpoint := strings.Trim(strings.SplitN(path, "?", 2)[0], "/")
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(csrfHeader, c.csrfToken())
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{Endpoint: endpoint, Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			herr.Message = eb.Error
		}
		return herr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode: %w", endpoint, err)
	}
	return nil
}

// Message picks the text shown to the player for a failed call.
func Message(err error) string {
	if IsConnection(err) {
		return "Connection error, please try again"
	}
	var app *AppError
	if errors.As(err, &app) && app.Message != "" {
		return app.Message
	}
	return "Something went wrong, please try again"
}
