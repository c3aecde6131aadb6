package handlers

import (
	"net/http"
	"time"

	"workshop/internal/middleware"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Persistence bool      `json:"persistence"`
	Locale      string    `json:"locale"`
	Time        time.Time `json:"time"`
}

// Health is a liveness probe. It never touches the database or providers.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Persistence: a.Repo != nil,
		Locale:      middleware.LocaleFromContext(r.Context()),
		Time:        time.Now().UTC(),
	})
}
