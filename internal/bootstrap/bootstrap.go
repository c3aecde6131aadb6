// Package bootstrap wires the engine from configuration. The API, the image
// worker and the CLI all build their dependencies here.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"workshop/internal/engine/coordinator"
	"workshop/internal/engine/estimate"
	"workshop/internal/imagegen"
	"workshop/internal/infra"
	"workshop/internal/providers/horde"
	"workshop/internal/providers/model3d"
	"workshop/internal/providers/text"
)

// Engine is a wired coordinator plus the pieces the worker needs directly.
// Horde and Images are nil when image generation is disabled.
type Engine struct {
	Coordinator *coordinator.Coordinator
	Estimator   *estimate.Estimator
	Horde       *horde.Client
	Images      *imagegen.Orchestrator

	closers []func()
}

// Close releases the status cache connection.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// Build wires an Engine. A broken pricing catalog or text provider setting
// fails the build; an unreachable Redis falls back to the in-memory cache.
func Build(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (*Engine, error) {
	catalog, err := LoadCatalog(cfg.PricingCatalogPath)
	if err != nil {
		return nil, err
	}
	e := &Engine{Estimator: estimate.New(catalog)}

	textProvider, err := NewTextProvider(ctx, cfg.Providers, logger)
	if err != nil {
		return nil, err
	}

	var images coordinator.ImageOrchestrator
	if cfg.Providers.ImagesEnabled {
		e.Horde = horde.NewClient(horde.Options{
			APIKey:         cfg.Providers.HordeAPIKey,
			BaseURL:        cfg.Providers.HordeBaseURL,
			ClientAgent:    cfg.Providers.HordeClientAgent,
			Logger:         logger,
			RequestTimeout: cfg.Providers.ImageTimeout,
		})
		cache := NewStatusCache(cfg.RedisAddr, logger)
		if closer, ok := cache.(interface{ Close() }); ok {
			e.closers = append(e.closers, closer.Close)
		}
		e.Images = imagegen.New(imagegen.Options{
			Worker:    e.Horde,
			Cache:     cache,
			StatusTTL: cfg.Providers.ImageStatusTTL,
			Logger:    logger,
		})
		images = e.Images
	}

	modelProvider, err := NewModelProvider(cfg.Providers)
	if err != nil {
		return nil, err
	}

	opts := coordinator.Options{
		Config: coordinator.Config{
			TextTimeout:    cfg.Providers.TextTimeout,
			ImageTimeout:   cfg.Providers.ImageTimeout,
			Model3DTimeout: cfg.Providers.Model3DTimeout,
		},
		Estimator: e.Estimator,
		Text:      textProvider,
		Images:    images,
		Logger:    logger,
	}
	if modelProvider != nil {
		opts.Model3D = modelProvider
	}
	e.Coordinator = coordinator.New(opts)

	logger.Info().
		Str("text_provider", cfg.Providers.TextProvider).
		Bool("images", cfg.Providers.ImagesEnabled).
		Bool("model3d", modelProvider != nil).
		Bool("redis", cfg.RedisAddr != "").
		Msg("engine ready")
	return e, nil
}

// LoadCatalog reads the pricing catalog, or returns the built-in one when
// path is empty.
func LoadCatalog(path string) (*estimate.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return estimate.DefaultCatalog(), nil
	}
	catalog, err := estimate.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("load pricing catalog: %w", err)
	}
	return catalog, nil
}

// NewTextProvider builds the configured text provider. It returns nil and no
// error when no provider is selected.
func NewTextProvider(ctx context.Context, pc infra.ProvidersConfig, logger *infra.Logger) (coordinator.TextProvider, error) {
	switch pc.TextProvider {
	case "", infra.TextProviderNone:
		return nil, nil
	case infra.TextProviderOpenAI:
		p, err := text.NewOpenAI(text.OpenAIOptions{
			APIKey:       pc.OpenAIAPIKey,
			Model:        pc.OpenAIModel,
			BaseURL:      pc.OpenAIBaseURL,
			Organization: pc.OpenAIOrg,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai config adjusted")
			},
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai: %w", err)
		}
		return p, nil
	case infra.TextProviderGemini:
		p, err := text.NewGemini(ctx, text.GeminiOptions{
			APIKey:  pc.GeminiAPIKey,
			Model:   pc.GeminiModel,
			BaseURL: pc.GeminiBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("configure gemini: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("unsupported text provider %q", pc.TextProvider)
}

// NewModelProvider builds the text-to-3D client, or returns nil when it is
// not configured.
func NewModelProvider(pc infra.ProvidersConfig) (*model3d.Client, error) {
	if !pc.Model3DEnabled() {
		return nil, nil
	}
	client, err := model3d.New(model3d.Options{
		APIToken: pc.ReplicateAPIToken,
		BaseURL:  pc.ReplicateBaseURL,
		Version:  pc.Replicate3DVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("configure replicate: %w", err)
	}
	return client, nil
}

// NewStatusCache connects to Redis when addr is set and falls back to a
// process-local cache otherwise.
func NewStatusCache(addr string, logger *infra.Logger) imagegen.StatusCache {
	if strings.TrimSpace(addr) == "" {
		return imagegen.NewMemoryStatusCache()
	}
	cache, err := imagegen.NewRedisStatusCache(addr)
	if err != nil {
		logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, using in-memory image status cache")
		return imagegen.NewMemoryStatusCache()
	}
	return cache
}
