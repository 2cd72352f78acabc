package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// ProjectHandler lists generation results.
type ProjectHandler struct {
	projectSvc service.ProjectService
	logger     zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectSvc service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc, logger: logger}
}

// RegisterRoutes registers the project endpoints.
func (h *ProjectHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /projects", authMw(http.HandlerFunc(h.listProjects)))
}

// listProjects godoc
// @Summary List the caller's projects, newest first
// @Description Expired projects are excluded by default; pass include_expired=true for the full history with expired rows labeled.
// @Tags projects
// @Produce json
// @Param include_expired query bool false "Include expired projects"
// @Success 200 {array} dto.ProjectResponseDTO
// @Router /projects [get]
func (h *ProjectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var projects []model.Project
	var err error
	if r.URL.Query().Get("include_expired") == "true" {
		projects, err = h.projectSvc.ListHistory(r.Context(), session.UserID)
	} else {
		projects, err = h.projectSvc.ListActive(r.Context(), session.UserID)
	}
	if err != nil {
		http.Error(w, "failed to list projects", http.StatusInternalServerError)
		return
	}

	resp := make([]dto.ProjectResponseDTO, 0, len(projects))
	for i := range projects {
		resp = append(resp, *toProjectDTO(&projects[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func toProjectDTO(p *model.Project) *dto.ProjectResponseDTO {
	now := time.Now()
	return &dto.ProjectResponseDTO{
		ID:               p.ID,
		Type:             string(p.Type),
		Prompt:           p.Prompt,
		URL:              p.URL,
		ThumbnailURL:     p.ThumbnailURL,
		CreatedAt:        p.CreatedAt,
		ExpiresAt:        p.ExpiresAt,
		RemainingMinutes: p.RemainingMinutes(now),
		Expired:          !p.Active(now),
	}
}
