// Package imagegen turns configuration requests into image jobs on an
// asynchronous worker pool and reports their progress.
package imagegen

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"workshop/internal/domain"
	"workshop/internal/infra"
	"workshop/internal/metrics"
	"workshop/internal/providers/horde"
)

const defaultStatusTTL = time.Hour

// Worker is the remote render queue.
type Worker interface {
	Name() string
	Submit(ctx context.Context, prompt string) (*horde.Submission, error)
	Status(ctx context.Context, jobID string) (*domain.ImageStatus, error)
}

type Options struct {
	Worker    Worker
	Cache     StatusCache
	StatusTTL time.Duration
	Logger    *infra.Logger
}

// Orchestrator submits and polls image jobs. It keeps no job state of its
// own; terminal statuses live in the shared cache.
type Orchestrator struct {
	worker    Worker
	cache     StatusCache
	statusTTL time.Duration
	logger    *infra.Logger
}

func New(opts Options) *Orchestrator {
	ttl := opts.StatusTTL
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Orchestrator{
		worker:    opts.Worker,
		cache:     opts.Cache,
		statusTTL: ttl,
		logger:    logger,
	}
}

// Submit builds the prompt for req and enqueues it.
func (o *Orchestrator) Submit(ctx context.Context, req domain.ConfigurationRequest) (domain.ImageJob, error) {
	prompt := BuildPrompt(req)
	started := time.Now()
	sub, err := o.worker.Submit(ctx, prompt)
	metrics.ObserveProvider(o.worker.Name(), "submit", started, err)
	if err != nil {
		return domain.ImageJob{}, err
	}
	o.logger.Info().
		Str("job_id", sub.ID).
		Float64("kudos", sub.Kudos).
		Msg("image job submitted")
	return domain.ImageJob{ID: sub.ID, Prompt: prompt, State: domain.ImageJobSubmitted}, nil
}

// Poll reports the job's current status. Repeated polls of a finished job
// return the same terminal result.
func (o *Orchestrator) Poll(ctx context.Context, jobID string) (domain.ImageStatus, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return domain.ImageStatus{}, &domain.JobNotFoundError{JobID: jobID}
	}
	if o.cache != nil {
		cached, err := o.cache.Get(ctx, jobID)
		switch {
		case err != nil:
			o.logger.Warn().Err(err).Str("job_id", jobID).Msg("image status cache read failed")
		case cached != nil:
			metrics.ImageStatusCacheTotal.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.ImageStatusCacheTotal.WithLabelValues("miss").Inc()
		}
	}
	started := time.Now()
	status, err := o.worker.Status(ctx, jobID)
	metrics.ObserveProvider(o.worker.Name(), "status", started, err)
	if err != nil {
		return domain.ImageStatus{}, err
	}
	metrics.ImageJobsTotal.WithLabelValues(string(status.State)).Inc()
	if status.State.Terminal() && o.cache != nil {
		if err := o.cache.Set(ctx, *status, o.statusTTL); err != nil {
			o.logger.Warn().Err(err).Str("job_id", jobID).Msg("image status cache write failed")
		}
	}
	return *status, nil
}
