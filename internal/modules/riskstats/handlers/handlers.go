// Package handlers provides HTTP handlers for the portfolio risk report.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/riskstats"
)

// Handler handles risk statistics HTTP requests. It holds one service per
// market because the benchmark index and price source differ between them.
type Handler struct {
	byMarket map[domain.Market]*riskstats.Service
	log      zerolog.Logger
}

// NewHandler creates a new risk statistics handler
func NewHandler(byMarket map[domain.Market]*riskstats.Service, log zerolog.Logger) *Handler {
	return &Handler{
		byMarket: byMarket,
		log:      log.With().Str("handler", "riskstats").Logger(),
	}
}

// computeRequest is the risk endpoint body. The session market picks the
// benchmark; a zero lookback takes the service default.
type computeRequest struct {
	Holdings     []domain.Holding      `json:"holdings"`
	Session      domain.SessionContext `json:"session"`
	LookbackDays int                   `json:"lookback_days"`
}

// HandleCompute handles POST /api/portfolio/risk
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	market := domain.ParseMarket(string(req.Session.Market))
	svc, ok := h.byMarket[market]
	if !ok {
		h.writeError(w, http.StatusServiceUnavailable, "No price source configured for market "+string(market))
		return
	}

	stats, err := svc.Compute(r.Context(), req.Holdings, req.LookbackDays)
	if err != nil {
		h.log.Error().Err(err).Str("market", string(market)).Msg("Failed to compute risk statistics")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, stats)
}

// errStatus maps risk computation errors onto HTTP status codes
func errStatus(err error) int {
	var insufficient *domain.InsufficientHistoryError
	switch {
	case errors.Is(err, domain.ErrNoTickerData),
		errors.As(err, &insufficient):
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
