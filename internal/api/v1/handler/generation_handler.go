package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// maxUploadBytes bounds multipart parsing for generation requests and
// reference uploads.
const maxUploadBytes = 32 << 20

// GenerationHandler starts generation jobs and reports their state.
type GenerationHandler struct {
	genSvc service.GenerationService
	logger zerolog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(genSvc service.GenerationService, logger zerolog.Logger) *GenerationHandler {
	return &GenerationHandler{genSvc: genSvc, logger: logger}
}

// RegisterRoutes registers the generation endpoints.
func (h *GenerationHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /generations", authMw(http.HandlerFunc(h.startGeneration)))
	mux.Handle("GET /generations/{id}", authMw(http.HandlerFunc(h.getGeneration)))
}

// startGeneration godoc
// @Summary Start a generation job
// @Description Accepts a multipart form with prompt, duration, resolution, type, subType and an optional reference file. Returns the job to poll.
// @Tags generations
// @Accept multipart/form-data
// @Produce json
// @Success 202 {object} dto.GenerationJobResponseDTO
// @Failure 400 {string} string "invalid request"
// @Router /generations [post]
func (h *GenerationHandler) startGeneration(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	kind := model.GenerationKind(r.FormValue("type"))
	if !kind.Valid() {
		http.Error(w, "type must be 'image' or 'video'", http.StatusBadRequest)
		return
	}
	prompt := r.FormValue("prompt")
	if prompt == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	input := &service.GenerationInput{
		Kind:       kind,
		SubKind:    r.FormValue("subType"),
		Prompt:     prompt,
		Duration:   r.FormValue("duration"),
		Resolution: r.FormValue("resolution"),
	}

	// The reference file is read fully up front: the job outlives this
	// request, so it must not hang on to the request body.
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			http.Error(w, "failed to read uploaded file", http.StatusBadRequest)
			return
		}
		input.FileName = header.Filename
		input.FileData = data
	}

	job := h.genSvc.Start(session.UserID, input)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(toJobDTO(job))
}

// getGeneration godoc
// @Summary Get a generation job's state and progress
// @Tags generations
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} dto.GenerationJobResponseDTO
// @Failure 404 {string} string "job not found"
// @Router /generations/{id} [get]
func (h *GenerationHandler) getGeneration(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	job, ok := h.genSvc.Job(session.UserID, r.PathValue("id"))
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toJobDTO(job))
}

func toJobDTO(job *service.GenerationJob) *dto.GenerationJobResponseDTO {
	resp := &dto.GenerationJobResponseDTO{
		ID:        job.ID,
		Kind:      string(job.Kind),
		State:     string(job.State),
		Progress:  job.Progress,
		Error:     job.Error,
		CreatedAt: job.CreatedAt,
	}
	if job.Project != nil {
		resp.Project = toProjectDTO(job.Project)
	}
	return resp
}
