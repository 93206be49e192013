// Package handlers provides HTTP handlers for price alerts.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/alerts"
)

// Handler handles price alert HTTP requests
type Handler struct {
	repo *alerts.Repository
	log  zerolog.Logger
}

// NewHandler creates a new alerts handler
func NewHandler(repo *alerts.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "alerts").Logger(),
	}
}

// HandleList handles GET /api/alerts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		userID = domain.DefaultUserID
	}
	activeOnly, _ := strconv.ParseBool(q.Get("active"))

	list, err := h.repo.ListForUser(userID, activeOnly)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list alerts")
		h.writeError(w, http.StatusInternalServerError, "Failed to list alerts")
		return
	}
	if list == nil {
		list = []domain.PriceAlert{}
	}

	h.writeJSON(w, http.StatusOK, list)
}

type createAlertRequest struct {
	UserID      string  `json:"user_id"`
	Ticker      string  `json:"ticker"`
	Condition   string  `json:"condition"`
	PhoneNumber string  `json:"phone_number"`
	TargetPrice float64 `json:"target_price"`
}

// HandleCreate handles POST /api/alerts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = domain.DefaultUserID
	}
	a := &domain.PriceAlert{
		UserID:      userID,
		Ticker:      req.Ticker,
		Condition:   domain.AlertCondition(req.Condition),
		TargetPrice: req.TargetPrice,
		PhoneNumber: req.PhoneNumber,
	}

	if err := h.repo.Create(a); err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to create alert")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, a)
}

// HandleDelete handles DELETE /api/alerts/{alertID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "alertID")

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		h.log.Error().Err(err).Str("alert_id", id).Msg("Failed to delete alert")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// errStatus maps alert repository errors onto HTTP status codes
func errStatus(err error) int {
	var invalidInput *domain.InvalidInputError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
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
