package dto

import "time"

// ProjectResponseDTO is returned in project listings. Expired is only
// meaningful on history listings, where aged-out rows are labeled
// instead of hidden.
type ProjectResponseDTO struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	Prompt           string    `json:"prompt"`
	URL              string    `json:"url"`
	ThumbnailURL     string    `json:"thumbnail_url"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	RemainingMinutes int       `json:"remaining_minutes"`
	Expired          bool      `json:"expired"`
}
