package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"workshop/internal/adapter/repo"
	"workshop/internal/bootstrap"
	"workshop/internal/domain"
	"workshop/internal/http/handlers"
	httpapi "workshop/internal/http/httpapi"
	"workshop/internal/infra"
	"workshop/internal/infra/geoip"
	"workshop/internal/storage"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	engine, err := bootstrap.Build(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}
	defer engine.Close()

	// Storage is best-effort; without a database the API still answers
	// recommendations and layouts.
	var recommendations domain.RecommendationRepository
	dbpool, err := infra.NewDBPool(ctx, cfg)
	switch {
	case errors.Is(err, domain.ErrPersistenceDisabled):
		logger.Warn().Msg("DATABASE_URL not set, recommendations will not be stored")
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to connect database")
	default:
		defer dbpool.Close()
		pg := repo.NewRecommendationRepository(infra.NewSQLRunner(dbpool, logger, cfg.DBSlowQuery))
		if err := pg.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate schema")
		}
		recommendations = pg
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	store, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	app := handlers.NewApp(engine.Coordinator, recommendations, logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		TrustProxy:      cfg.TrustProxy,
		DefaultLocale:   "es",
		CountryLookup:   resolver.Lookup(),
		Static:          store.Handler(),
		Logger:          logger,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
