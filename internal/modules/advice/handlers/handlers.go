// Package handlers provides HTTP handlers for AI portfolio advice.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/advice"
)

// Handler handles advice HTTP requests
type Handler struct {
	svc *advice.Service
	log zerolog.Logger
}

// NewHandler creates a new advice handler
func NewHandler(svc *advice.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "advice").Logger(),
	}
}

// adviseRequest is the advice endpoint body. Goals are optional context for
// the generator; a non-empty portfolio ID files the advice under that
// portfolio's history.
type adviseRequest struct {
	Holdings    []domain.Holding      `json:"holdings"`
	Goals       []domain.Goal         `json:"goals"`
	Session     domain.SessionContext `json:"session"`
	PortfolioID string                `json:"portfolio_id"`
}

// HandleAdvise handles POST /api/advice
func (h *Handler) HandleAdvise(w http.ResponseWriter, r *http.Request) {
	var req adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Advise(r.Context(), req.PortfolioID, advice.Request{
		Holdings:    req.Holdings,
		Goals:       req.Goals,
		RiskProfile: domain.ParseRiskProfile(string(req.Session.RiskProfile)),
		Market:      domain.ParseMarket(string(req.Session.Market)),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate advice")
		h.writeError(w, http.StatusInternalServerError, "Failed to generate advice")
		return
	}

	h.writeData(w, result)
}

// HandleHistory handles GET /api/advice/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	portfolioID := q.Get("portfolio_id")
	if portfolioID == "" {
		h.writeError(w, http.StatusBadRequest, "portfolio_id is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	records, err := h.svc.History(portfolioID, limit)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio_id", portfolioID).Msg("Failed to list advice history")
		h.writeError(w, http.StatusInternalServerError, "Failed to list advice history")
		return
	}
	if records == nil {
		records = []advice.Record{}
	}

	h.writeJSON(w, http.StatusOK, records)
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
