// Package handlers provides HTTP handlers for investment suggestions.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/suggestions"
)

// Handler handles suggestion HTTP requests
type Handler struct {
	svc *suggestions.Service
	log zerolog.Logger
}

// NewHandler creates a new suggestions handler
func NewHandler(svc *suggestions.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "suggestions").Logger(),
	}
}

// HandleSuggest handles GET /api/suggestions
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := domain.Category(q.Get("category"))
	if category == "" {
		category = domain.DefaultCategory
	}
	if !domain.ValidCategory(category) {
		h.writeError(w, http.StatusBadRequest, "Unknown category: "+string(category))
		return
	}
	market := domain.ParseMarket(q.Get("market"))

	list, err := h.svc.Suggest(r.Context(), market, category)
	if err != nil {
		h.log.Error().Err(err).Str("category", string(category)).Msg("Failed to build suggestions")
		h.writeError(w, http.StatusInternalServerError, "Failed to build suggestions")
		return
	}

	h.writeData(w, map[string]interface{}{
		"category":    category,
		"market":      market,
		"suggestions": list,
	})
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
