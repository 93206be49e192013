// Package handlers provides HTTP handlers for growth projections.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/projection"
)

// Handler handles projection HTTP requests
type Handler struct {
	svc *projection.Service
	log zerolog.Logger
}

// NewHandler creates a new projection handler
func NewHandler(svc *projection.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "projection").Logger(),
	}
}

// projectRequest is a holdings snapshot plus session settings. A zero
// horizon takes the service default.
type projectRequest struct {
	Holdings     []domain.Holding      `json:"holdings"`
	Session      domain.SessionContext `json:"session"`
	HorizonYears int                   `json:"horizon_years"`
}

// HandleProject handles POST /api/portfolio/projection
func (h *Handler) HandleProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.HorizonYears == 0 {
		req.HorizonYears = projection.DefaultHorizonYears
	}

	profile := domain.ParseRiskProfile(string(req.Session.RiskProfile))
	proj, err := h.svc.Project(req.Holdings, profile, req.HorizonYears)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to project portfolio growth")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, proj)
}

// Helper methods

func errStatus(err error) int {
	var invalidHolding *domain.InvalidHoldingError
	var invalidInput *domain.InvalidInputError
	switch {
	case errors.Is(err, domain.ErrEmptyPortfolio),
		errors.As(err, &invalidHolding),
		errors.As(err, &invalidInput):
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
