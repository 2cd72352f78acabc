package model

import "time"

// UserSubscription is a user's subscription row joined with its plan.
// It is always read fresh before a generation attempt; a value in hand
// is a point-in-time snapshot, not guaranteed current by the time a
// write lands.
type UserSubscription struct {
	UserID           string    `db:"user_id" json:"user_id"`
	PlanID           string    `db:"plan_id" json:"plan_id"`
	CreditsRemaining int       `db:"credits_remaining" json:"credits_remaining"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	ExpiresAt        time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// Plan is populated by the joined read; nil when the plan row is
	// missing.
	Plan *Plan `db:"-" json:"plan,omitempty"`
}
