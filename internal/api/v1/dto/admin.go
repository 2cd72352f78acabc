package dto

// AdminUserResponseDTO is one row of the admin user listing.
type AdminUserResponseDTO struct {
	ID           string                   `json:"id"`
	Email        string                   `json:"email"`
	FullName     string                   `json:"full_name"`
	Role         string                   `json:"role"`
	Subscription *SubscriptionResponseDTO `json:"subscription,omitempty"`
}

// AdminSubscriptionUpdateDTO updates a user's subscription. Both fields
// are optional; present fields are applied as-is (credits may be
// negative, no bounds are enforced).
type AdminSubscriptionUpdateDTO struct {
	IsActive *bool `json:"is_active,omitempty"`
	Credits  *int  `json:"credits,omitempty"`
}

// AdminChangePlanDTO reassigns a user's plan.
type AdminChangePlanDTO struct {
	PlanID string `json:"plan_id" validate:"required"`
}
