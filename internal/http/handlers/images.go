package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) ImageStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	status, err := a.Engine.CheckImageJob(r.Context(), jobID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, status)
}
