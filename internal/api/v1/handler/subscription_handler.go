package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// SubscriptionHandler handles subscription and plan endpoints.
type SubscriptionHandler struct {
	subSvc service.SubscriptionService
	logger zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subSvc service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subSvc: subSvc, logger: logger}
}

// RegisterRoutes registers the subscription endpoints.
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /plans", authMw(http.HandlerFunc(h.listPlans)))
	mux.Handle("GET /subscriptions/me", authMw(http.HandlerFunc(h.getSubscription)))
	mux.Handle("POST /subscriptions/me/activate-free", authMw(http.HandlerFunc(h.activateFreePlan)))
}

// listPlans godoc
// @Summary List subscription plans
// @Tags subscriptions
// @Produce json
// @Success 200 {array} dto.PlanResponseDTO
// @Router /plans [get]
func (h *SubscriptionHandler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subSvc.ListPlans(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list plans")
		http.Error(w, "failed to list plans", http.StatusInternalServerError)
		return
	}

	resp := make([]dto.PlanResponseDTO, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, *toPlanDTO(&p))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// getSubscription godoc
// @Summary Get the caller's subscription with its plan
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponseDTO
// @Failure 404 {string} string "no subscription"
// @Router /subscriptions/me [get]
func (h *SubscriptionHandler) getSubscription(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.subSvc.GetSubscription(r.Context(), session.UserID)
	if err != nil {
		http.Error(w, "failed to fetch subscription", http.StatusInternalServerError)
		return
	}
	if sub == nil {
		http.Error(w, "no subscription", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSubscriptionDTO(sub))
}

// activateFreePlan godoc
// @Summary Self-serve activation of the Free plan
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionResponseDTO
// @Failure 500 {string} string "failed to activate plan"
// @Router /subscriptions/me/activate-free [post]
func (h *SubscriptionHandler) activateFreePlan(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.subSvc.ActivateFreePlan(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to activate free plan")
		http.Error(w, "failed to activate plan", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSubscriptionDTO(sub))
}

func toPlanDTO(p *model.Plan) *dto.PlanResponseDTO {
	return &dto.PlanResponseDTO{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		CreditLimit: p.CreditLimit,
	}
}

func toSubscriptionDTO(sub *model.UserSubscription) *dto.SubscriptionResponseDTO {
	if sub == nil {
		return nil
	}
	resp := &dto.SubscriptionResponseDTO{
		PlanID:           sub.PlanID,
		CreditsRemaining: sub.CreditsRemaining,
		IsActive:         sub.IsActive,
		ExpiresAt:        sub.ExpiresAt,
	}
	if sub.Plan != nil {
		resp.Plan = toPlanDTO(sub.Plan)
	}
	return resp
}
