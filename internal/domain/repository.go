package domain

import (
	"context"
	"time"
)

// StoredRecommendation is a persisted result plus the latest known state of
// its image job.
type StoredRecommendation struct {
	RecommendationResult
	ImageState ImageJobState `json:"image_state,omitempty"`
	ImageURL   string        `json:"image_url,omitempty"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// PendingImage is a stored recommendation whose image job is not terminal.
type PendingImage struct {
	RecommendationID string
	JobID            string
}

// RecommendationRepository persists recommendation results.
type RecommendationRepository interface {
	Create(ctx context.Context, rec RecommendationResult) error
	GetByID(ctx context.Context, id string) (*StoredRecommendation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]StoredRecommendation, int, error)
	ListPendingImages(ctx context.Context, limit int) ([]PendingImage, error)
	UpdateImage(ctx context.Context, recommendationID string, state ImageJobState, imageURL string) error
}
