package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers risk statistics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/risk", h.HandleCompute)
}
