package dto

import "time"

// PlanResponseDTO is returned in plan listings.
type PlanResponseDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int    `json:"price_cents"`
	CreditLimit int    `json:"credit_limit"`
}

// SubscriptionResponseDTO is returned for the caller's subscription.
type SubscriptionResponseDTO struct {
	PlanID           string           `json:"plan_id"`
	Plan             *PlanResponseDTO `json:"plan,omitempty"`
	CreditsRemaining int              `json:"credits_remaining"`
	IsActive         bool             `json:"is_active"`
	ExpiresAt        time.Time        `json:"expires_at"`
}
