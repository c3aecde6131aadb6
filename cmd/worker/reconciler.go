package main

import (
	"context"
	"errors"
	"time"

	"workshop/internal/domain"
	"workshop/internal/infra"
	"workshop/internal/metrics"
	"workshop/internal/storage"
)

const (
	defaultReconcileInterval = 15 * time.Second
	defaultReconcileBatch    = 20
)

type imagePoller interface {
	Poll(ctx context.Context, jobID string) (domain.ImageStatus, error)
}

type imageFetcher interface {
	Fetch(ctx context.Context, ref domain.ImageReference) ([]byte, string, error)
}

type renderStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	URL(key string) string
}

// reconciler follows the image jobs of stored recommendations until they
// finish, copies finished renders to the file store and records the result.
type reconciler struct {
	repo     domain.RecommendationRepository
	images   imagePoller
	fetcher  imageFetcher
	store    renderStore
	logger   infra.Logger
	batch    int
	interval time.Duration
}

func (w *reconciler) Run(ctx context.Context) error {
	interval := w.interval
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	w.logger.Info().Dur("interval", interval).Msg("worker: started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := w.reconcileOnce(ctx); err != nil {
			w.logger.Error().Err(err).Msg("worker: reconcile pass failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// reconcileOnce handles one batch and returns how many jobs reached a
// terminal state.
func (w *reconciler) reconcileOnce(ctx context.Context) (int, error) {
	batch := w.batch
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	pending, err := w.repo.ListPendingImages(ctx, batch)
	if err != nil {
		return 0, err
	}
	finished := 0
	for _, p := range pending {
		if ctx.Err() != nil {
			return finished, ctx.Err()
		}
		state, url := w.check(ctx, p)
		if state == "" {
			continue
		}
		if err := w.repo.UpdateImage(ctx, p.RecommendationID, state, url); err != nil {
			w.logger.Error().Err(err).Str("recommendation_id", p.RecommendationID).Msg("worker: update image failed")
			continue
		}
		if state.Terminal() {
			finished++
			metrics.ImageJobsTotal.WithLabelValues("reconciled_" + string(state)).Inc()
			w.logger.Info().
				Str("recommendation_id", p.RecommendationID).
				Str("job_id", p.JobID).
				Str("state", string(state)).
				Msg("worker: image job finished")
		}
	}
	return finished, nil
}

// check returns the state to record and, once done, the public image URL.
// An empty state means the job could not be checked this round.
func (w *reconciler) check(ctx context.Context, p domain.PendingImage) (domain.ImageJobState, string) {
	status, err := w.images.Poll(ctx, p.JobID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ImageJobFailed, ""
	case err != nil:
		w.logger.Warn().Err(err).Str("job_id", p.JobID).Msg("worker: poll failed")
		return "", ""
	}
	if status.State != domain.ImageJobDone {
		return status.State, ""
	}
	if status.Image == nil {
		return domain.ImageJobFailed, ""
	}
	url, err := w.persist(ctx, p.RecommendationID, *status.Image)
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", p.JobID).Msg("worker: store render failed")
		if status.Image.Inline {
			return domain.ImageJobFailed, ""
		}
		return domain.ImageJobDone, status.Image.URL
	}
	return domain.ImageJobDone, url
}

func (w *reconciler) persist(ctx context.Context, recommendationID string, ref domain.ImageReference) (string, error) {
	data, mime, err := w.fetcher.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	key, err := w.store.Write(ctx, storage.RenderKey(recommendationID, mime), data)
	if err != nil {
		return "", err
	}
	return w.store.URL(key), nil
}
