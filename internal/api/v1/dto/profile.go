package dto

import "time"

// ProfileResponseDTO is returned for the authenticated user's profile.
type ProfileResponseDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
