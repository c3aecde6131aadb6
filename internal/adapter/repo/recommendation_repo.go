package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"workshop/internal/domain"
	"workshop/internal/infra"
	"workshop/internal/sqlinline"
)

// RecommendationRepositoryPG implements domain.RecommendationRepository.
// The full result is stored as a JSON payload; columns hold what is filtered
// or updated on its own.
type RecommendationRepositoryPG struct {
	sql infra.SQLExecutor
}

var _ domain.RecommendationRepository = (*RecommendationRepositoryPG)(nil)

// NewRecommendationRepository creates a repository on top of a SQL executor.
func NewRecommendationRepository(sql infra.SQLExecutor) *RecommendationRepositoryPG {
	return &RecommendationRepositoryPG{sql: sql}
}

// Migrate creates the schema when missing.
func (r *RecommendationRepositoryPG) Migrate(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateRecommendationsSchema); err != nil {
		return fmt.Errorf("migrate recommendations: %w", err)
	}
	return nil
}

// Create inserts a new recommendation.
func (r *RecommendationRepositoryPG) Create(ctx context.Context, rec domain.RecommendationResult) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode recommendation: %w", err)
	}
	var jobID, state *string
	if rec.ImageJobID != nil {
		id := *rec.ImageJobID
		submitted := string(domain.ImageJobSubmitted)
		jobID, state = &id, &submitted
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertRecommendation,
		rec.ID,
		rec.UserID,
		rec.Country,
		rec.Source,
		string(rec.Layout.ShapeFamily),
		rec.Cost.Average,
		payload,
		jobID,
		state,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

// GetByID fetches a recommendation. Unknown ids return domain.ErrNotFound.
func (r *RecommendationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.StoredRecommendation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	rec, err := scanStored(r.sql.QueryRow(ctx, sqlinline.QSelectRecommendation, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select recommendation: %w", err)
	}
	return rec, nil
}

// ListByUser returns one page of a user's recommendations, newest first,
// with the user's total count.
func (r *RecommendationRepositoryPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.StoredRecommendation, int, error) {
	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUserRecommendations, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recommendations: %w", err)
	}
	rows, err := r.sql.Query(ctx, sqlinline.QSelectUserRecommendations, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()
	items := make([]domain.StoredRecommendation, 0, limit)
	for rows.Next() {
		rec, err := scanStored(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan recommendation: %w", err)
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate recommendations: %w", err)
	}
	return items, total, nil
}

// ListPendingImages returns recommendations whose image job is still running,
// least recently checked first.
func (r *RecommendationRepositoryPG) ListPendingImages(ctx context.Context, limit int) ([]domain.PendingImage, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectPendingImages, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending images: %w", err)
	}
	defer rows.Close()
	var out []domain.PendingImage
	for rows.Next() {
		var p domain.PendingImage
		if err := rows.Scan(&p.RecommendationID, &p.JobID); err != nil {
			return nil, fmt.Errorf("scan pending image: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateImage records the latest image state and, once done, its URL.
func (r *RecommendationRepositoryPG) UpdateImage(ctx context.Context, recommendationID string, state domain.ImageJobState, imageURL string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateRecommendationImage, recommendationID, string(state), imageURL)
	if err != nil {
		return fmt.Errorf("update recommendation image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStored(row scanner) (*domain.StoredRecommendation, error) {
	var (
		payload   []byte
		state     string
		imageURL  string
		updatedAt time.Time
	)
	if err := row.Scan(&payload, &state, &imageURL, &updatedAt); err != nil {
		return nil, err
	}
	var rec domain.StoredRecommendation
	if err := json.Unmarshal(payload, &rec.RecommendationResult); err != nil {
		return nil, fmt.Errorf("decode recommendation payload: %w", err)
	}
	rec.ImageState = domain.ImageJobState(state)
	rec.ImageURL = imageURL
	rec.UpdatedAt = updatedAt
	return &rec, nil
}
