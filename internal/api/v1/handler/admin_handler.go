package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminHandler exposes the role-gated management surface.
type AdminHandler struct {
	adminSvc service.AdminService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc service.AdminService, v *validator.Validate, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, validate: v, logger: logger}
}

// RegisterRoutes registers the admin endpoints. Role checks happen in
// the service, against the acting user's profile.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/users", authMw(http.HandlerFunc(h.listUsers)))
	mux.Handle("PATCH /admin/users/{id}/subscription", authMw(http.HandlerFunc(h.updateSubscription)))
	mux.Handle("POST /admin/users/{id}/plan", authMw(http.HandlerFunc(h.changePlan)))
	mux.Handle("DELETE /admin/users/{id}", authMw(http.HandlerFunc(h.deleteUser)))
}

// listUsers godoc
// @Summary List all users with their subscriptions
// @Tags admin
// @Produce json
// @Success 200 {array} dto.AdminUserResponseDTO
// @Failure 403 {string} string "forbidden"
// @Router /admin/users [get]
func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.adminSvc.ListUsers(r.Context(), session.UserID)
	if err != nil {
		h.writeAdminError(w, err, "failed to list users")
		return
	}

	resp := make([]dto.AdminUserResponseDTO, 0, len(users))
	for _, u := range users {
		row := dto.AdminUserResponseDTO{
			ID:       u.ID,
			Email:    u.Email,
			FullName: u.FullName,
			Role:     string(u.Role),
		}
		if u.Subscription != nil {
			row.Subscription = toSubscriptionDTO(u.Subscription)
		}
		resp = append(resp, row)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// updateSubscription godoc
// @Summary Toggle a user's subscription or overwrite their credits
// @Tags admin
// @Accept json
// @Param id path string true "User id"
// @Param update body dto.AdminSubscriptionUpdateDTO true "Fields to apply"
// @Success 204 {string} string "updated"
// @Failure 403 {string} string "forbidden"
// @Router /admin/users/{id}/subscription [patch]
func (h *AdminHandler) updateSubscription(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := r.PathValue("id")

	var req dto.AdminSubscriptionUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.IsActive == nil && req.Credits == nil {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if req.IsActive != nil {
		if err := h.adminSvc.SetSubscriptionActive(r.Context(), session.UserID, userID, *req.IsActive); err != nil {
			h.writeAdminError(w, err, "failed to update subscription")
			return
		}
	}
	if req.Credits != nil {
		if err := h.adminSvc.SetCredits(r.Context(), session.UserID, userID, *req.Credits); err != nil {
			h.writeAdminError(w, err, "failed to update credits")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// changePlan godoc
// @Summary Reassign a user's plan
// @Description Resets credits to the plan's credit limit, reactivates the subscription and extends it by 30 days.
// @Tags admin
// @Accept json
// @Param id path string true "User id"
// @Param plan body dto.AdminChangePlanDTO true "Target plan"
// @Success 204 {string} string "updated"
// @Failure 403 {string} string "forbidden"
// @Router /admin/users/{id}/plan [post]
func (h *AdminHandler) changePlan(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := r.PathValue("id")

	var req dto.AdminChangePlanDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.adminSvc.ChangePlan(r.Context(), session.UserID, userID, req.PlanID); err != nil {
		h.writeAdminError(w, err, "failed to change plan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteUser godoc
// @Summary Delete a user's profile and subscription rows
// @Description The auth identity is not removed; that requires a separate operator action with the service role key.
// @Tags admin
// @Param id path string true "User id"
// @Success 204 {string} string "deleted"
// @Failure 403 {string} string "forbidden"
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.adminSvc.DeleteProfile(r.Context(), session.UserID, r.PathValue("id")); err != nil {
		h.writeAdminError(w, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) writeAdminError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, repository.ErrPlanNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error().Err(err).Msg(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
