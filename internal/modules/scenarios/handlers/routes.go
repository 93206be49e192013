package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers scenario analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/scenarios", h.HandleRun)
}
