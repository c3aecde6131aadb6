// Package coordinator runs a configuration request through the engine and
// the optional external providers.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"workshop/internal/domain"
	"workshop/internal/engine/complexity"
	"workshop/internal/engine/compose"
	"workshop/internal/engine/estimate"
	"workshop/internal/engine/layout"
	"workshop/internal/engine/units"
	"workshop/internal/infra"
	"workshop/internal/metrics"
	"workshop/internal/providers/model3d"
	"workshop/internal/providers/text"
)

// Config bounds the external calls of a recommendation.
type Config struct {
	TextTimeout    time.Duration
	ImageTimeout   time.Duration
	Model3DTimeout time.Duration
}

const (
	defaultTextTimeout    = 20 * time.Second
	defaultImageTimeout   = 10 * time.Second
	defaultModel3DTimeout = 45 * time.Second
)

// TextProvider is satisfied by the providers in internal/providers/text.
type TextProvider interface {
	Name() string
	Suggest(ctx context.Context, req text.Request) (*domain.TextOverride, error)
}

// ModelProvider is satisfied by *model3d.Client.
type ModelProvider interface {
	Name() string
	Generate(ctx context.Context, req model3d.Request) (*domain.ExternalModel, error)
}

// ImageOrchestrator is satisfied by *imagegen.Orchestrator.
type ImageOrchestrator interface {
	Submit(ctx context.Context, req domain.ConfigurationRequest) (domain.ImageJob, error)
	Poll(ctx context.Context, jobID string) (domain.ImageStatus, error)
}

// ErrImagesDisabled is returned by CheckImageJob when no worker pool is
// configured.
var ErrImagesDisabled = errors.New("image generation is not configured")

type Options struct {
	Config    Config
	Estimator *estimate.Estimator
	Text      TextProvider
	Images    ImageOrchestrator
	Model3D   ModelProvider
	Logger    *infra.Logger
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	cfg       Config
	estimator *estimate.Estimator
	text      TextProvider
	images    ImageOrchestrator
	model3d   ModelProvider
	logger    *infra.Logger
	now       func() time.Time
}

func New(opts Options) *Coordinator {
	cfg := opts.Config
	if cfg.TextTimeout <= 0 {
		cfg.TextTimeout = defaultTextTimeout
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = defaultImageTimeout
	}
	if cfg.Model3DTimeout <= 0 {
		cfg.Model3DTimeout = defaultModel3DTimeout
	}
	est := opts.Estimator
	if est == nil {
		est = estimate.New(nil)
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Coordinator{
		cfg:       cfg,
		estimator: est,
		text:      opts.Text,
		images:    opts.Images,
		model3d:   opts.Model3D,
		logger:    logger,
		now:       time.Now,
	}
}

type prepared struct {
	req    domain.ConfigurationRequest
	dims   domain.Dimensions3D
	family domain.ShapeFamily
}

func (c *Coordinator) prepare(req domain.ConfigurationRequest) (prepared, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return prepared{}, err
	}
	dims, err := units.ToCentimeters(req.Dimensions)
	if err != nil {
		return prepared{}, err
	}
	if err := dims.CheckCentimeters(); err != nil {
		return prepared{}, err
	}
	return prepared{req: req, dims: dims, family: domain.ResolveShapeFamily(req.FurnitureType)}, nil
}

func (c *Coordinator) layout(p prepared) domain.Layout {
	return layout.Generate(layout.Input{
		DimensionsCm:  p.dims,
		Material:      p.req.Material.Primary,
		ColorHex:      layout.ColorHex(p.req.Color.Primary),
		Family:        p.family,
		Name:          p.req.FurnitureType,
		Specification: p.req.Specification,
	})
}

// RequestRecommendation validates req and returns the full recommendation.
// Only validation and unit errors are returned; provider failures degrade
// to the local result.
func (c *Coordinator) RequestRecommendation(ctx context.Context, req domain.ConfigurationRequest) (domain.RecommendationResult, error) {
	p, err := c.prepare(req)
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	score := complexity.Score(p.req.Specification, p.req.Style, p.req.Description)
	volume := p.dims.VolumeCm3()
	cost, duration, err := c.estimator.Estimate(estimate.Input{
		VolumeCm3:     volume,
		Material:      p.req.Material.Primary,
		Complexity:    score,
		BudgetCeiling: p.req.BudgetCeiling,
		Specification: p.req.Specification,
	})
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("estimate: %w", err)
	}
	plan := c.layout(p)

	override, job := c.callProviders(ctx, p)

	comp := compose.Compose(compose.Input{
		Request:             p.req,
		Layout:              plan,
		Cost:                cost,
		Duration:            duration,
		SimilarProducts:     c.estimator.SimilarProducts(p.req, volume),
		Complexity:          score,
		WeightKg:            c.estimator.WeightKg(volume, p.req.Material.Primary),
		CompatibleMaterials: c.estimator.CompatibleMaterials(p.req.Material.Primary),
		Override:            override,
	})
	result := domain.RecommendationResult{
		ID:               uuid.NewString(),
		UserID:           p.req.UserID,
		Source:           comp.Source,
		Text:             comp.Text,
		Cost:             comp.Cost,
		Duration:         comp.Duration,
		Layout:           comp.Layout,
		SimilarProducts:  comp.SimilarProducts,
		Technical:        comp.Technical,
		FabricationSteps: comp.FabricationSteps,
		AdditionalTips:   comp.AdditionalTips,
		Request:          p.req,
		CreatedAt:        c.now().UTC(),
	}
	if job != nil {
		id := job.ID
		result.ImageJobID = &id
		result.ImagePrompt = job.Prompt
	}
	metrics.RecommendationsTotal.WithLabelValues(result.Source, string(result.Layout.ShapeFamily)).Inc()
	c.logger.Info().
		Str("recommendation_id", result.ID).
		Str("source", result.Source).
		Str("shape_family", string(result.Layout.ShapeFamily)).
		Int64("cost_avg", result.Cost.Average).
		Bool("image_job", job != nil).
		Msg("recommendation composed")
	return result, nil
}

// callProviders runs the text provider and the image submission
// concurrently, each under its own timeout. Failures are logged and yield nil.
func (c *Coordinator) callProviders(ctx context.Context, p prepared) (*domain.TextOverride, *domain.ImageJob) {
	var (
		wg       sync.WaitGroup
		override *domain.TextOverride
		job      *domain.ImageJob
	)
	if c.text != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tctx, cancel := context.WithTimeout(ctx, c.cfg.TextTimeout)
			defer cancel()
			started := time.Now()
			out, err := c.text.Suggest(tctx, text.Request{Config: p.req, DimensionsCm: p.dims, Family: p.family})
			metrics.ObserveProvider(c.text.Name(), "suggest", started, err)
			if err != nil {
				c.logger.Warn().Err(err).Str("provider", c.text.Name()).Msg("text provider failed; using local composition")
				return
			}
			override = out
		}()
	}
	if c.images != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ictx, cancel := context.WithTimeout(ctx, c.cfg.ImageTimeout)
			defer cancel()
			submitted, err := c.images.Submit(ictx, p.req)
			if err != nil {
				c.logger.Warn().Err(err).Msg("image submission failed; continuing without image")
				return
			}
			job = &submitted
		}()
	}
	wg.Wait()
	return override, job
}

// RequestLayoutOnly validates req and returns just its layout. When a
// text-to-3D provider is configured its mesh is attached as ExternalModel;
// the parametric layout is returned either way.
func (c *Coordinator) RequestLayoutOnly(ctx context.Context, req domain.ConfigurationRequest) (domain.Layout, error) {
	p, err := c.prepare(req)
	if err != nil {
		return domain.Layout{}, err
	}
	plan := c.layout(p)
	plan.ExternalModel = c.externalModel(ctx, p)
	return plan, nil
}

func (c *Coordinator) externalModel(ctx context.Context, p prepared) *domain.ExternalModel {
	if c.model3d == nil {
		return nil
	}
	mctx, cancel := context.WithTimeout(ctx, c.cfg.Model3DTimeout)
	defer cancel()
	started := time.Now()
	model, err := c.model3d.Generate(mctx, model3d.Request{Config: p.req, DimensionsCm: p.dims, Family: p.family})
	metrics.ObserveProvider(c.model3d.Name(), "generate", started, err)
	if err != nil {
		c.logger.Warn().Err(err).Str("provider", c.model3d.Name()).Msg("3d provider failed; using parametric layout")
		return nil
	}
	return model
}

// CheckImageJob polls an image job.
func (c *Coordinator) CheckImageJob(ctx context.Context, jobID string) (domain.ImageStatus, error) {
	if c.images == nil {
		return domain.ImageStatus{}, ErrImagesDisabled
	}
	ictx, cancel := context.WithTimeout(ctx, c.cfg.ImageTimeout)
	defer cancel()
	return c.images.Poll(ictx, jobID)
}
