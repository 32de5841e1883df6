// cmd/guessityet/main.go
//
// Terminal client for the GuessItYet daily game.
// Loads today's page from the backend, then hands the screen to the
// session controller until the player quits.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/api"
	"github.com/guessityet/guessityet/internal/config"
	"github.com/guessityet/guessityet/internal/controller"
	"github.com/guessityet/guessityet/internal/tui"
)

func main() {
	cfg := config.LoadClient()

	// The screen owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.LogFile).Msg("open log file")
	}
	defer logFile.Close()
	config.SetupLogging(cfg.LogLevel, logFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := api.New(api.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
		Service: cfg.Service,
		Limit:   cfg.SearchLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configure backend client")
	}
	page, err := client.Bootstrap(ctx)
	if err != nil {
		log.Error().Err(err).Str("url", cfg.BaseURL).Msg("load game page")
		os.Stderr.WriteString("guessityet: could not load today's game from " + cfg.BaseURL + ": " + err.Error() + "\n")
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("create screen")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("init screen")
	}
	defer screen.Fini()

	renderer := tui.NewRenderer(screen)
	ctrl, err := controller.New(page.Snapshot(), page.Hints(), controller.Options{
		Backend:  client,
		Renderer: renderer,
		Debounce: cfg.Debounce,
	})
	if err != nil {
		screen.Fini()
		log.Fatal().Err(err).Msg("start session")
	}

	log.Info().Str("url", cfg.BaseURL).Int64("game_id", page.State.GameID).Msg("session started")
	if err := tui.Run(ctx, screen, renderer, ctrl); err != nil {
		log.Error().Err(err).Msg("session ended with error")
	}
}
