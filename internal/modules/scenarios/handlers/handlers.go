// Package handlers provides HTTP handlers for scenario analysis.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/scenarios"
)

// Handler handles scenario analysis HTTP requests
type Handler struct {
	svc *scenarios.Service
	log zerolog.Logger
}

// NewHandler creates a new scenarios handler
func NewHandler(svc *scenarios.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "scenarios").Logger(),
	}
}

// runRequest is a holdings snapshot plus an optional custom scenario set.
// Without scenarios the standard four-scenario set runs.
type runRequest struct {
	Holdings     []domain.Holding               `json:"holdings"`
	Scenarios    []scenarios.ScenarioDefinition `json:"scenarios"`
	HorizonYears int                            `json:"horizon_years"`
}

// HandleRun handles POST /api/portfolio/scenarios
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.HorizonYears == 0 {
		req.HorizonYears = scenarios.DefaultHorizonYears
	}

	var analysis *scenarios.Analysis
	var err error
	if len(req.Scenarios) > 0 {
		analysis, err = h.svc.RunWith(req.Holdings, req.HorizonYears, req.Scenarios)
	} else {
		analysis, err = h.svc.Run(req.Holdings, req.HorizonYears)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to run scenario analysis")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, analysis)
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
