package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// UploadHandler stores reference images for image-to-video runs.
type UploadHandler struct {
	storageSvc service.StorageService
	logger     zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(storageSvc service.StorageService, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{storageSvc: storageSvc, logger: logger}
}

// RegisterRoutes registers the upload endpoint.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("POST /uploads", authMw(http.HandlerFunc(h.uploadReference)))
}

// uploadReference godoc
// @Summary Upload a reference image
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "invalid request"
// @Router /uploads [post]
func (h *UploadHandler) uploadReference(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read uploaded file", http.StatusBadRequest)
		return
	}

	url, err := h.storageSvc.UploadReference(
		r.Context(),
		session.UserID,
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to store reference upload")
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dto.UploadResponseDTO{URL: url})
}
