package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers price alert routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Delete("/{alertID}", h.HandleDelete)
	})
}
