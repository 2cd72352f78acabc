package dto

import "time"

// GenerationJobResponseDTO reports a generation job's state. Progress
// is cosmetic and stays below 100 until the run finishes.
type GenerationJobResponseDTO struct {
	ID        string              `json:"id"`
	Kind      string              `json:"kind"`
	State     string              `json:"state"`
	Progress  int                 `json:"progress"`
	Error     string              `json:"error,omitempty"`
	Project   *ProjectResponseDTO `json:"project,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// UploadResponseDTO is returned after a reference image upload.
type UploadResponseDTO struct {
	URL string `json:"url"`
}
