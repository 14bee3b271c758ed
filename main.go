package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hsr-guess/internal/config"
	"github.com/robalobadob/hsr-guess/internal/dataset"
	"github.com/robalobadob/hsr-guess/internal/httpserver"
	"github.com/robalobadob/hsr-guess/internal/prefs"
	"github.com/robalobadob/hsr-guess/internal/schema"
	"github.com/robalobadob/hsr-guess/internal/store"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sch, err := schema.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load attribute schema")
	}

	data, err := dataset.Load(ctx, dataset.Source{
		URL:     cfg.DatasetURL,
		File:    cfg.DatasetFile,
		Timeout: cfg.DatasetTimeout,
	}, sch)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load character dataset")
	}
	log.Info().Int("characters", data.Len()).Int("attributes", sch.Len()).Msg("dataset loaded")

	opts := httpserver.Options{
		Schema:        sch,
		Dataset:       data,
		Sessions:      store.NewMemoryStore(),
		TokenSecret:   cfg.TokenSecret,
		ClientOrigin:  cfg.ClientOrigin,
		SecureCookies: cfg.Production,
		DailySalt:     cfg.DailySalt,
	}
	if cfg.DBPath != "" {
		ps, err := prefs.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open preferences db")
		}
		defer ps.Close()
		opts.Prefs = ps
	}

	go store.RunJanitor(ctx, opts.Sessions, cfg.SessionTTL, 0)

	srv := httpserver.New(opts)
	log.Info().Str("port", cfg.Port).Msg("starting go-server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
