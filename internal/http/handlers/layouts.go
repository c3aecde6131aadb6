package handlers

import (
	"net/http"

	"workshop/internal/domain"
)

// CreateLayout returns only the parametric 3D layout for a request.
func (a *App) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfigurationRequest
	if !a.decode(w, r, &req) {
		return
	}
	layout, err := a.Engine.RequestLayoutOnly(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, layout)
}
