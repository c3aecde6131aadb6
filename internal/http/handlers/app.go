package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"workshop/internal/domain"
	"workshop/internal/engine/coordinator"
	"workshop/internal/infra"
)

// Engine is the recommendation engine as seen by the HTTP layer.
type Engine interface {
	RequestRecommendation(ctx context.Context, req domain.ConfigurationRequest) (domain.RecommendationResult, error)
	RequestLayoutOnly(ctx context.Context, req domain.ConfigurationRequest) (domain.Layout, error)
	CheckImageJob(ctx context.Context, jobID string) (domain.ImageStatus, error)
}

// App holds the handler dependencies. Repo is nil when persistence is
// disabled.
type App struct {
	Engine Engine
	Repo   domain.RecommendationRepository
	Logger infra.Logger
}

func NewApp(engine Engine, repo domain.RecommendationRepository, logger infra.Logger) *App {
	return &App{Engine: engine, Repo: repo, Logger: logger}
}

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]errorBody{"error": {Code: errCode, Message: message}})
}

// fail maps a domain error onto a status code. Unknown errors are logged and
// reported without detail.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		unit       *domain.UnitConversionError
	)
	switch {
	case errors.As(err, &validation):
		a.json(w, http.StatusBadRequest, map[string]errorBody{"error": {
			Code:    "validation_failed",
			Message: "request is invalid",
			Fields:  validation.Fields,
		}})
	case errors.As(err, &unit):
		a.json(w, http.StatusBadRequest, map[string]errorBody{"error": {
			Code:    "invalid_unit",
			Message: unit.Error(),
			Fields:  []domain.FieldError{{Field: "dimensions.unit", Message: "must be mm, cm or m"}},
		}})
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrPersistenceDisabled):
		a.error(w, http.StatusServiceUnavailable, "persistence_disabled", "recommendation storage is not configured")
	case errors.Is(err, coordinator.ErrImagesDisabled):
		a.error(w, http.StatusServiceUnavailable, "images_disabled", err.Error())
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("provider failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "image provider unavailable")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}
