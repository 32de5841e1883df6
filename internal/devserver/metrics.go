package devserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// metrics are registered on the server's own registry so several servers
// (tests) never collide.
type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	guesses  *prometheus.CounterVec
	skips    prometheus.Counter
	players  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guessityet_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guessityet_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guessityet_guesses_total",
				Help: "Judged guesses by result (correct, franchise, wrong)",
			},
			[]string{"result"},
		),
		skips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessityet_skips_total",
			Help: "Skipped turns",
		}),
		players: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guessityet_players_issued_total",
			Help: "New player cookies issued",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.guesses, m.skips, m.players)
	return m
}

// instrument records count and latency under the matched route pattern.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = routeLabel(rc.RoutePattern())
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// routeLabel drops a trailing slash so "/skip-turn/" and "/skip-turn"
// share one series whatever form chi reports.
func routeLabel(pattern string) string {
	if pattern == "/" {
		return pattern
	}
	return strings.TrimSuffix(pattern, "/")
}

func (m *metrics) guess(correct, franchise bool) {
	switch {
	case correct:
		m.guesses.WithLabelValues("correct").Inc()
	case franchise:
		m.guesses.WithLabelValues("franchise").Inc()
	default:
		m.guesses.WithLabelValues("wrong").Inc()
	}
}
