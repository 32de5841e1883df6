package main

import (
	"github.com/rs/zerolog/log"

	"github.com/guessityet/guessityet/internal/catalog"
	"github.com/guessityet/guessityet/internal/config"
	"github.com/guessityet/guessityet/internal/devserver"
	"github.com/guessityet/guessityet/internal/store"
)

func main() {
	cfg := config.LoadServer()
	config.SetupLogging(cfg.LogLevel, nil)

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	st := store.NewMemoryStore()
	if cfg.DBPath != "" {
		if st, err = store.OpenSQLite(cfg.DBPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
	}
	defer st.Close()

	srv, err := devserver.New(devserver.Options{
		Catalog:   cat,
		Store:     st,
		JWTSecret: cfg.JWTSecret,
		DailySalt: cfg.DailySalt,
		Origin:    cfg.Origin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure server")
	}

	log.Info().Str("port", cfg.Port).Int("games", cat.Len()).Bool("sqlite", cfg.DBPath != "").Msg("starting devserver")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
