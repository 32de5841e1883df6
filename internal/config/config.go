// internal/config/config.go
//
// Environment configuration for both binaries.
// Responsibilities:
//   - Load an optional .env file (godotenv), then read env vars with defaults.
//   - Apply the zerolog global level.
//
// Notes:
//   - Invalid numbers fall back to the default and are logged, they never
//     abort start-up.

package config

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client configures the terminal client.
type Client struct {
	BaseURL     string
	LogLevel    string
	LogFile     string
	Debounce    time.Duration
	SearchLimit int
	Service     string
	HTTPTimeout time.Duration
}

// Server configures the development backend.
type Server struct {
	Port        string
	DBPath      string // empty: in-memory store
	JWTSecret   string
	DailySalt   string
	CatalogFile string // empty: embedded seed catalog
	LogLevel    string
	Origin      string // CLIENT_ORIGIN; empty disables CORS
}

// LoadClient reads the client configuration.
func LoadClient() Client {
	_ = godotenv.Load()
	return Client{
		BaseURL:     strings.TrimRight(getEnv("GUESSITYET_URL", "http://localhost:5175"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "guessityet.log"),
		Debounce:    time.Duration(getInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		SearchLimit: getInt("SEARCH_LIMIT", 25),
		Service:     getEnv("SEARCH_SERVICE", "igdb"),
		HTTPTimeout: time.Duration(getInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// LoadServer reads the dev backend configuration.
func LoadServer() Server {
	_ = godotenv.Load()
	return Server{
		Port:        getEnv("PORT", "5175"),
		DBPath:      os.Getenv("DB_PATH"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		DailySalt:   getEnv("DAILY_SALT", "guessityet"),
		CatalogFile: os.Getenv("CATALOG_FILE"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Origin:      os.Getenv("CLIENT_ORIGIN"),
	}
}

// SetupLogging sets the global zerolog level and output. A nil w keeps
// zerolog's default (stderr).
func SetupLogging(level string, w io.Writer) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if w != nil {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid number in environment")
		return def
	}
	return n
}
