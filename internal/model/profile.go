package model

import "time"

// Profile represents a user profile row. The profile id matches the
// Supabase auth user id, but the two records are otherwise decoupled:
// deleting a profile does not remove the auth identity.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AdminUser is the admin listing projection: a profile joined with its
// subscription and plan, when they exist.
type AdminUser struct {
	Profile
	Subscription *UserSubscription `json:"subscription,omitempty"`
}
