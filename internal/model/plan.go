package model

import "time"

// Plan is a subscription plan. Plans are static reference data; the
// credit limit is the balance a subscription is reset to when the plan
// is assigned.
type Plan struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PriceCents  int       `db:"price_cents" json:"price_cents"`
	CreditLimit int       `db:"credit_limit" json:"credit_limit"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PlanNameFree is the name of the self-service trial plan. Free-plan
// generations run with a locked trial prompt.
const PlanNameFree = "Free"
