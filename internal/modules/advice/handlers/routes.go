package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers advice routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/advice", h.HandleAdvise)
	r.Get("/advice/history", h.HandleHistory)
}
