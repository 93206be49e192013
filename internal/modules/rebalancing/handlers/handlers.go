// Package handlers provides HTTP handlers for rebalancing recommendations
// and the stored recommendation history.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/rebalancing"
)

// Handler handles rebalancing HTTP requests
type Handler struct {
	svc     *rebalancing.Service
	history *rebalancing.HistoryRepository
	log     zerolog.Logger
}

// NewHandler creates a new rebalancing handler
func NewHandler(svc *rebalancing.Service, history *rebalancing.HistoryRepository, log zerolog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		history: history,
		log:     log.With().Str("handler", "rebalancing").Logger(),
	}
}

// recommendRequest is a holdings snapshot plus session settings. A non-empty
// portfolio ID makes the recommendation land in the stored history.
type recommendRequest struct {
	Holdings    []domain.Holding      `json:"holdings"`
	Session     domain.SessionContext `json:"session"`
	PortfolioID string                `json:"portfolio_id"`
}

// HandleRecommend handles POST /api/portfolio/rebalance
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := domain.ParseRiskProfile(string(req.Session.RiskProfile))
	rec, err := h.svc.Recommend(req.Holdings, profile)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute rebalancing recommendation")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	// Recording is best effort; the recommendation itself already succeeded
	if req.PortfolioID != "" {
		entry := &rebalancing.HistoryEntry{
			PortfolioID:       req.PortfolioID,
			CurrentAllocation: rec.CurrentAllocation,
			TargetAllocation:  rec.TargetAllocation,
			Actions:           rec.Actions,
		}
		if err := h.history.Save(entry); err != nil {
			h.log.Error().Err(err).Str("portfolio_id", req.PortfolioID).Msg("Failed to record recommendation")
		}
	}

	h.writeData(w, rec)
}

// HandleHistory handles GET /api/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolio_id")
	if portfolioID == "" {
		h.writeError(w, http.StatusBadRequest, "portfolio_id is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.history.List(portfolioID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to list recommendation history")
		h.writeError(w, http.StatusInternalServerError, "Failed to list recommendation history")
		return
	}
	if entries == nil {
		entries = []rebalancing.HistoryEntry{}
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// Helper methods

func errStatus(err error) int {
	var invalidHolding *domain.InvalidHoldingError
	switch {
	case errors.Is(err, domain.ErrEmptyPortfolio), errors.As(err, &invalidHolding):
		return http.StatusBadRequest
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
