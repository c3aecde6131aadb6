package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"workshop/internal/domain"
	"workshop/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateRecommendation runs the engine and stores the result. Storage
// failures are logged; the caller still gets the result.
func (a *App) CreateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfigurationRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Locale == "" {
		req.Locale = middleware.LocaleFromContext(r.Context())
	}
	result, err := a.Engine.RequestRecommendation(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	result.Country = middleware.CountryFromContext(r.Context())
	if a.Repo != nil {
		if err := a.Repo.Create(r.Context(), result); err != nil {
			a.Logger.Warn().Err(err).Str("recommendation_id", result.ID).Msg("persist recommendation failed")
		}
	}
	a.json(w, http.StatusCreated, result)
}

func (a *App) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	if a.Repo == nil {
		a.fail(w, r, domain.ErrPersistenceDisabled)
		return
	}
	rec, err := a.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, rec)
}

type recommendationPage struct {
	Items  []domain.StoredRecommendation `json:"items"`
	Total  int                           `json:"total"`
	Limit  int                           `json:"limit"`
	Offset int                           `json:"offset"`
}

func (a *App) ListUserRecommendations(w http.ResponseWriter, r *http.Request) {
	if a.Repo == nil {
		a.fail(w, r, domain.ErrPersistenceDisabled)
		return
	}
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id required")
		return
	}
	limit := queryInt(r, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := max(queryInt(r, "offset", 0), 0)
	items, total, err := a.Repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.StoredRecommendation{}
	}
	a.json(w, http.StatusOK, recommendationPage{Items: items, Total: total, Limit: limit, Offset: offset})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
