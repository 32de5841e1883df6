// internal/devserver/server.go
//
// HTTP server wiring for the GuessItYet development backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     request logging, metrics).
//   - Game page "/" with the injected state, plus the three JSON endpoints
//     the client consumes: search, guess, skip.
//   - Daily leaderboard under /daily, diagnostics (/health, /metrics) and
//     placeholder hint images under /media/.
//
// Notes:
//   - Every game route runs with a player identity (signed cookie, minted on
//     first visit). Mutating routes also require the CSRF header.
//   - Guess and skip serialise on one mutex so a play's read-modify-write
//     never interleaves.

package devserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/catalog"
	"github.com/guessityet/guessityet/internal/store"
)

// Options configures a Server.
type Options struct {
	Catalog   *catalog.Catalog
	Store     store.Store
	JWTSecret string
	DailySalt string
	Now       func() time.Time // default time.Now
	Secure    bool             // mark cookies Secure
	Origin    string           // browser origin allowed credentialed CORS; empty disables
}

// Server bundles router, catalog, and persistence.
type Server struct {
	r       *chi.Mux
	cat     *catalog.Catalog
	store   store.Store
	secret  []byte
	salt    string
	now     func() time.Time
	secure  bool
	metrics *metrics
	reg     *prometheus.Registry
	playMu  sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil || opts.Store == nil {
		return nil, errors.New("devserver: catalog and store are required")
	}
	if opts.JWTSecret == "" {
		return nil, errors.New("devserver: JWT secret is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		r:       chi.NewRouter(),
		cat:     opts.Catalog,
		store:   opts.Store,
		secret:  []byte(opts.JWTSecret),
		salt:    opts.DailySalt,
		now:     opts.Now,
		secure:  opts.Secure,
		metrics: newMetrics(reg),
		reg:     reg,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(s.metrics.instrument)            // request counters and latency
	if opts.Origin != "" {
		s.r.Use(cors(opts.Origin)) // credentials-friendly CORS
	}

	// --- diagnostics ---
	s.r.With(jsonContentType).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.r.Get("/media/*", handleMedia)

	// --- game ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Get("/", s.handlePage)
		r.With(jsonContentType).Get("/search-games/", s.handleSearch)
		r.Group(func(r chi.Router) {
			r.Use(jsonContentType, requireCSRF)
			r.Post("/submit-guess/", s.handleGuess)
			r.Post("/skip-turn/", s.handleSkip)
		})
	})

	// --- daily ---
	s.mountDaily(s.r.With(jsonContentType))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s, nil
}

// Start serves HTTP on addr until the listener fails.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+csrfHeaderName)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one debug line per request with status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
