// Package handlers provides HTTP handlers for financial goals and their
// investment plans.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/niveshak/niveshak/internal/domain"
	"github.com/niveshak/niveshak/internal/modules/goals"
)

// Handler handles goal HTTP requests
type Handler struct {
	svc *goals.Service
	log zerolog.Logger
}

// NewHandler creates a new goals handler
func NewHandler(svc *goals.Service, log zerolog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log.With().Str("handler", "goals").Logger(),
	}
}

// HandleList handles GET /api/goals
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = domain.DefaultUserID
	}

	list, err := h.svc.List(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		h.writeError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	if list == nil {
		list = []domain.Goal{}
	}

	h.writeJSON(w, http.StatusOK, list)
}

type createGoalRequest struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	RiskLevel     string  `json:"risk_level"`
	TargetAmount  float64 `json:"target_amount"`
	TimelineYears int     `json:"timeline_years"`
}

// HandleCreate handles POST /api/goals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = domain.DefaultUserID
	}
	in := goals.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		TimelineYears: req.TimelineYears,
	}
	// An absent risk level stays empty so the service picks its default
	if req.RiskLevel != "" {
		in.RiskLevel = domain.ParseRiskProfile(req.RiskLevel)
	}

	g, err := h.svc.Create(userID, in)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create goal")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusCreated, g)
}

// HandleGet handles GET /api/goals/{goalID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "goalID")

	g, err := h.svc.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("goal_id", id).Msg("Failed to get goal")
		h.writeError(w, http.StatusInternalServerError, "Failed to get goal")
		return
	}
	if g == nil {
		h.writeError(w, http.StatusNotFound, "Goal not found")
		return
	}

	h.writeJSON(w, http.StatusOK, g)
}

// updateGoalRequest updates only the fields present in the body
type updateGoalRequest struct {
	CurrentAmount *float64 `json:"current_amount"`
	RiskLevel     *string  `json:"risk_level"`
}

// HandleUpdate handles PUT /api/goals/{goalID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "goalID")

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentAmount == nil && req.RiskLevel == nil {
		h.writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	if req.CurrentAmount != nil {
		if err := h.svc.UpdateProgress(id, *req.CurrentAmount); err != nil {
			h.writeError(w, errStatus(err), err.Error())
			return
		}
	}
	if req.RiskLevel != nil {
		if err := h.svc.UpdateRiskLevel(id, domain.ParseRiskProfile(*req.RiskLevel)); err != nil {
			h.writeError(w, errStatus(err), err.Error())
			return
		}
	}

	g, err := h.svc.Get(id)
	if err != nil || g == nil {
		h.log.Error().Err(err).Str("goal_id", id).Msg("Failed to reload goal after update")
		h.writeError(w, http.StatusInternalServerError, "Failed to reload goal")
		return
	}

	h.writeJSON(w, http.StatusOK, g)
}

// HandleDelete handles DELETE /api/goals/{goalID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "goalID")

	if err := h.svc.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Goal not found")
			return
		}
		h.log.Error().Err(err).Str("goal_id", id).Msg("Failed to delete goal")
		h.writeError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// planRequest plans a stored goal when goal_id is set, otherwise a
// hypothetical goal built from the inline fields. A positive monthly
// capacity lets the plan flag contributions the caller cannot afford.
type planRequest struct {
	GoalID          string  `json:"goal_id"`
	RiskLevel       string  `json:"risk_level"`
	TargetAmount    float64 `json:"target_amount"`
	CurrentAmount   float64 `json:"current_amount"`
	TimelineYears   int     `json:"timeline_years"`
	MonthlyCapacity float64 `json:"monthly_capacity"`
}

// HandlePlan handles POST /api/goals/plan
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var plan *goals.Plan
	var err error
	if req.GoalID != "" {
		plan, err = h.svc.PlanStored(req.GoalID, req.MonthlyCapacity)
	} else {
		g := &domain.Goal{
			RiskLevel:     domain.ParseRiskProfile(req.RiskLevel),
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
			TimelineYears: req.TimelineYears,
		}
		plan, err = h.svc.Plan(g, req.MonthlyCapacity)
	}
	if err != nil {
		h.log.Error().Err(err).Str("goal_id", req.GoalID).Msg("Failed to plan goal")
		h.writeError(w, errStatus(err), err.Error())
		return
	}

	h.writeData(w, plan)
}

// errStatus maps goal service errors onto HTTP status codes
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
