package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers projection routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/projection", h.HandleProject)
}
