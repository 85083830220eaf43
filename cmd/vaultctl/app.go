package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/MKhiriev/go-vault-keeper/internal/config"
	"github.com/MKhiriev/go-vault-keeper/internal/logger"
	"github.com/MKhiriev/go-vault-keeper/internal/service"
	"github.com/MKhiriev/go-vault-keeper/internal/store"
	"github.com/MKhiriev/go-vault-keeper/internal/workers"
)

// app holds everything a command needs for one run.
type app struct {
	cfg      *config.StructuredConfig
	db       *store.DB
	services *service.Services
	workers  *workers.Workers
	logger   *logger.Logger
}

func newApp(ctx context.Context, fs *pflag.FlagSet, s *streams, verbose bool) (*app, error) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewCLILogger("vaultctl", s.err, level)

	cfg, err := config.GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error getting configs: %w", err)
	}
	log.Debug().
		Str("driver", cfg.Storage.DB.Driver).
		Int("kdf_concurrency", cfg.Workers.KDFConcurrency).
		Msg("received configs")

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	repos := store.NewRepositories(db, cfg.Storage.Cache.Size, log)
	services := service.NewServices(service.NewDependencies(repos, *cfg), *cfg, log)

	w := workers.NewWorkers(services.Sweeper)
	w.Run(ctx)

	return &app{
		cfg:      cfg,
		db:       db,
		services: services,
		workers:  w,
		logger:   log,
	}, nil
}

func (a *app) Close() {
	a.workers.Stop()
	if err := a.db.Close(); err != nil {
		a.logger.Err(err).Msg("error closing database")
	}
}
