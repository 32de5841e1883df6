// internal/devserver/auth.go
//
// Player identity and CSRF protection.
//   - Player: HS256 JWT in the guessityet_player cookie, claim "pid" (uuid).
//     Missing or invalid tokens are replaced silently; guests always play.
//   - CSRF: double submit. The csrftoken cookie must equal the X-CSRFToken
//     header on every POST.

package devserver

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	playerCookieName = "guessityet_player"
	csrfCookieName   = "csrftoken"
	csrfHeaderName   = "X-CSRFToken"
	playerTTL        = 180 * 24 * time.Hour
	csrfTTL          = 365 * 24 * time.Hour
)

// ctxPlayerKey is the context key type for the player id.
type ctxPlayerKey struct{}

// playerID returns the id stored by withPlayer.
func playerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxPlayerKey{}).(string)
	return id
}

// withPlayer decorates requests with a stable player id, minting a new
// signed cookie when none (or an invalid one) is presented.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
			id = s.parsePlayer(c.Value)
		}
		if id == "" {
			id = uuid.NewString()
			tok, err := s.signPlayer(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     playerCookieName,
				Value:    tok,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(playerTTL.Seconds()),
			})
			s.metrics.players.Inc()
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// signPlayer creates an HS256 JWT carrying the player id.
func (s *Server) signPlayer(id string) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"pid": id,
		"iat": now.Unix(),
		"exp": now.Add(playerTTL).Unix(),
	})
	return t.SignedString(s.secret)
}

// parsePlayer returns the pid claim of a valid token, or "".
func (s *Server) parsePlayer(tok string) string {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return ""
	}
	pid, _ := claims["pid"].(string)
	if _, err := uuid.Parse(pid); err != nil {
		return ""
	}
	return pid
}

// ensureCSRF returns the request's CSRF cookie value or sets a new one.
// The cookie is readable by scripts so pages can fall back to it.
func (s *Server) ensureCSRF(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	tok := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    tok,
		Path:     "/",
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(csrfTTL.Seconds()),
	})
	return tok
}

// requireCSRF rejects requests whose X-CSRFToken header does not match the
// csrftoken cookie.
func requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(csrfCookieName)
		h := r.Header.Get(csrfHeaderName)
		if err != nil || c.Value == "" || h == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(h)) != 1 {
			http.Error(w, `{"error":"CSRF verification failed"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
