package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository accesses user profile rows.
type ProfileRepository interface {
	// GetByID returns the profile, (nil, nil) when no row exists.
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	// ListWithSubscriptions returns all profiles joined with their
	// subscription and plan, for the admin listing.
	ListWithSubscriptions(ctx context.Context) ([]model.AdminUser, error)
	// Delete removes the profile and its subscription rows. The auth
	// identity behind the profile is left untouched.
	Delete(ctx context.Context, id string) error
}

type profileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	const q = `
        SELECT id, email, full_name, role, created_at, updated_at
        FROM profiles
        WHERE id = $1
    `
	var p model.Profile
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	return &p, nil
}

func (r *profileRepo) ListWithSubscriptions(ctx context.Context) ([]model.AdminUser, error) {
	const q = `
        SELECT pr.id, pr.email, pr.full_name, pr.role, pr.created_at, pr.updated_at,
               us.user_id, us.plan_id, us.credits_remaining, us.is_active, us.expires_at, us.created_at, us.updated_at,
               p.id, p.name, p.price_cents, p.credit_limit, p.created_at
        FROM profiles pr
        LEFT JOIN user_subscriptions us ON us.user_id = pr.id
        LEFT JOIN plans p ON p.id = us.plan_id
        ORDER BY pr.created_at
    `
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var users []model.AdminUser
	for rows.Next() {
		var u model.AdminUser
		var sub model.UserSubscription
		var plan model.Plan
		var subID, subPlanID *string
		var subCredits *int
		var subActive *bool
		var subExpires, subCreated, subUpdated *time.Time
		var planID, planName *string
		var planPrice, planLimit *int
		var planCreated *time.Time
		err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.Role, &u.CreatedAt, &u.UpdatedAt,
			&subID, &subPlanID, &subCredits, &subActive, &subExpires, &subCreated, &subUpdated,
			&planID, &planName, &planPrice, &planLimit, &planCreated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		if subID != nil {
			sub.UserID = *subID
			sub.PlanID = deref(subPlanID)
			sub.CreditsRemaining = derefInt(subCredits)
			sub.IsActive = subActive != nil && *subActive
			sub.ExpiresAt = derefTime(subExpires)
			sub.CreatedAt = derefTime(subCreated)
			sub.UpdatedAt = derefTime(subUpdated)
			if planID != nil {
				plan.ID = *planID
				plan.Name = deref(planName)
				plan.PriceCents = derefInt(planPrice)
				plan.CreditLimit = derefInt(planLimit)
				plan.CreatedAt = derefTime(planCreated)
				sub.Plan = &plan
			}
			u.Subscription = &sub
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}
	return users, nil
}

func (r *profileRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting transaction for profile delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if _, err := tx.Exec(ctx, `DELETE FROM user_subscriptions WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete subscription for profile %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit profile delete %s: %w", id, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
