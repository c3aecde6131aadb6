package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"workshop/internal/adapter/repo"
	"workshop/internal/bootstrap"
	"workshop/internal/infra"
	"workshop/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Providers.ImagesEnabled {
		logger.Warn().Msg("worker: image generation disabled, nothing to reconcile")
		return
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	recommendations := repo.NewRecommendationRepository(infra.NewSQLRunner(pool, logger, cfg.DBSlowQuery))
	if err := recommendations.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("worker: migrate failed")
	}

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	engine, err := bootstrap.Build(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build engine")
	}
	defer engine.Close()

	w := &reconciler{
		repo:     recommendations,
		images:   engine.Images,
		fetcher:  engine.Horde,
		store:    fileStore,
		logger:   logger,
		batch:    cfg.ReconcileBatch,
		interval: cfg.ReconcileInterval,
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
