package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers portfolio storage and analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolio/analysis", h.HandleAnalyze)
	r.Post("/portfolio/sector-exposure", h.HandleSectorExposure)

	r.Route("/portfolios", func(r chi.Router) {
		r.Get("/", h.HandleListPortfolios)
		r.Post("/", h.HandleCreatePortfolio)

		r.Route("/{portfolioID}", func(r chi.Router) {
			r.Get("/", h.HandleGetPortfolio)
			r.Put("/", h.HandleUpdatePortfolio)
			r.Delete("/", h.HandleDeletePortfolio)

			r.Route("/holdings", func(r chi.Router) {
				r.Get("/", h.HandleListHoldings)
				r.Post("/", h.HandleAddHolding)
				r.Put("/{holdingID}", h.HandleUpdateHolding)
				r.Delete("/{holdingID}", h.HandleDeleteHolding)
			})
		})
	})
}
