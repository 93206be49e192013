// Package handlers provides HTTP handlers for portfolio storage and analysis.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/portfolio"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	repo     *portfolio.Repository
	analyzer *portfolio.Service
	sectors  portfolio.SectorLookup
	log      zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(repo *portfolio.Repository, analyzer *portfolio.Service, sectors portfolio.SectorLookup, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		analyzer: analyzer,
		sectors:  sectors,
		log:      log.With().Str("handler", "portfolio").Logger(),
	}
}

// analyzeRequest is the body of the analysis endpoints: a holdings snapshot
// plus the session settings that select the target tables.
type analyzeRequest struct {
	Holdings []domain.Holding      `json:"holdings"`
	Session  domain.SessionContext `json:"session"`
}

// HandleAnalyze handles POST /api/portfolio/analysis
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := domain.ParseRiskProfile(string(req.Session.RiskProfile))
	analysis, err := h.analyzer.Analyze(req.Holdings, profile)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to analyze portfolio")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, analysis)
}

// HandleSectorExposure handles POST /api/portfolio/sector-exposure
func (h *Handler) HandleSectorExposure(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exposure, err := h.analyzer.AnalyzeSectorExposure(req.Holdings, h.sectors)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to analyze sector exposure")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, exposure)
}

// createPortfolioRequest carries a new portfolio and its optional initial
// holdings, stored in one transaction.
type createPortfolioRequest struct {
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Market      string           `json:"market"`
	Holdings    []domain.Holding `json:"holdings"`
}

// HandleCreatePortfolio handles POST /api/portfolios
func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "Portfolio name is required")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = domain.DefaultUserID
	}
	p := &domain.Portfolio{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Market:      domain.ParseMarket(req.Market),
	}

	var err error
	if len(req.Holdings) > 0 {
		err = h.repo.CreatePortfolioWithHoldings(p, req.Holdings)
	} else {
		err = h.repo.CreatePortfolio(p)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create portfolio")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, p)
}

// HandleListPortfolios handles GET /api/portfolios
func (h *Handler) HandleListPortfolios(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = domain.DefaultUserID
	}

	portfolios, err := h.repo.ListPortfolios(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list portfolios")
		h.writeError(w, http.StatusInternalServerError, "Failed to list portfolios")
		return
	}
	if portfolios == nil {
		portfolios = []domain.Portfolio{}
	}

	h.writeJSON(w, http.StatusOK, portfolios)
}

// HandleGetPortfolio handles GET /api/portfolios/{portfolioID}
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioID")

	p, err := h.repo.GetPortfolio(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to get portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to get portfolio")
		return
	}
	if p == nil {
		h.writeError(w, http.StatusNotFound, "Portfolio not found")
		return
	}

	holdings, err := h.repo.ListHoldings(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to list holdings")
		h.writeError(w, http.StatusInternalServerError, "Failed to list holdings")
		return
	}
	if holdings == nil {
		holdings = []domain.Holding{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio": p,
		"holdings":  holdings,
	})
}

// updatePortfolioRequest updates only the fields present in the body
type updatePortfolioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Market      *string `json:"market"`
}

// HandleUpdatePortfolio handles PUT /api/portfolios/{portfolioID}
func (h *Handler) HandleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioID")

	var req updatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.repo.GetPortfolio(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to get portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to get portfolio")
		return
	}
	if p == nil {
		h.writeError(w, http.StatusNotFound, "Portfolio not found")
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			h.writeError(w, http.StatusBadRequest, "Portfolio name is required")
			return
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Market != nil {
		p.Market = domain.ParseMarket(*req.Market)
	}

	if err := h.repo.UpdatePortfolio(p); err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to update portfolio")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// HandleDeletePortfolio handles DELETE /api/portfolios/{portfolioID}
func (h *Handler) HandleDeletePortfolio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioID")

	if err := h.repo.DeletePortfolio(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to delete portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete portfolio")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleListHoldings handles GET /api/portfolios/{portfolioID}/holdings
func (h *Handler) HandleListHoldings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioID")

	holdings, err := h.repo.ListHoldings(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to list holdings")
		h.writeError(w, http.StatusInternalServerError, "Failed to list holdings")
		return
	}
	if holdings == nil {
		holdings = []domain.Holding{}
	}

	h.writeJSON(w, http.StatusOK, holdings)
}

// HandleAddHolding handles POST /api/portfolios/{portfolioID}/holdings
func (h *Handler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "portfolioID")

	var holding domain.Holding
	if err := json.NewDecoder(r.Body).Decode(&holding); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.repo.GetPortfolio(id)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to get portfolio")
		h.writeError(w, http.StatusInternalServerError, "Failed to get portfolio")
		return
	}
	if p == nil {
		h.writeError(w, http.StatusNotFound, "Portfolio not found")
		return
	}

	holding.PortfolioID = id
	if err := h.repo.AddHolding(&holding); err != nil {
		h.log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to add holding")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, holding)
}

// HandleUpdateHolding handles PUT /api/portfolios/{portfolioID}/holdings/{holdingID}
func (h *Handler) HandleUpdateHolding(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioID")
	holdingID := chi.URLParam(r, "holdingID")

	var holding domain.Holding
	if err := json.NewDecoder(r.Body).Decode(&holding); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	holding.ID = holdingID
	holding.PortfolioID = portfolioID
	if err := h.repo.UpdateHolding(&holding); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Holding not found")
			return
		}
		h.log.Error().Err(err).Str("holding_id", holdingID).Msg("Failed to update holding")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, holding)
}

// HandleDeleteHolding handles DELETE /api/portfolios/{portfolioID}/holdings/{holdingID}
func (h *Handler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "holdingID")

	if err := h.repo.DeleteHolding(holdingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Holding not found")
			return
		}
		h.log.Error().Err(err).Str("holding_id", holdingID).Msg("Failed to delete holding")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete holding")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Helper methods

// errStatus maps service and repository errors onto HTTP status codes
func errStatus(err error) int {
	var invalidHolding *domain.InvalidHoldingError
	var invalidInput *domain.InvalidInputError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyPortfolio),
		errors.As(err, &invalidHolding),
		errors.As(err, &invalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoTickerData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
