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

// SubscriptionRepository defines methods for accessing subscription data.
type SubscriptionRepository interface {
	// GetByUserID returns the user's subscription joined with its plan.
	// Returns (nil, nil) when no subscription row exists.
	GetByUserID(ctx context.Context, userID string) (*model.UserSubscription, error)
	// SetActive toggles the subscription's active flag.
	SetActive(ctx context.Context, userID string, active bool) error
	// SetCredits overwrites the remaining credit balance. The value is
	// written as-is; callers own any bounds policy.
	SetCredits(ctx context.Context, userID string, credits int) error
	// AssignPlan points the subscription at a plan, resets credits to the
	// given balance, reactivates it and pushes expiry out to expiresAt.
	AssignPlan(ctx context.Context, userID, planID string, credits int, expiresAt time.Time) error
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

func (r *subscriptionRepo) GetByUserID(ctx context.Context, userID string) (*model.UserSubscription, error) {
	const q = `
        SELECT us.user_id, us.plan_id, us.credits_remaining, us.is_active, us.expires_at, us.created_at, us.updated_at,
               p.id, p.name, p.price_cents, p.credit_limit, p.created_at
        FROM user_subscriptions us
        JOIN plans p ON p.id = us.plan_id
        WHERE us.user_id = $1
    `
	var us model.UserSubscription
	var plan model.Plan
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&us.UserID,
		&us.PlanID,
		&us.CreditsRemaining,
		&us.IsActive,
		&us.ExpiresAt,
		&us.CreatedAt,
		&us.UpdatedAt,
		&plan.ID,
		&plan.Name,
		&plan.PriceCents,
		&plan.CreditLimit,
		&plan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	us.Plan = &plan
	return &us, nil
}

func (r *subscriptionRepo) SetActive(ctx context.Context, userID string, active bool) error {
	const q = `
        UPDATE user_subscriptions
        SET is_active = $2, updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, active); err != nil {
		return fmt.Errorf("set subscription active=%t for user %s: %w", active, userID, err)
	}
	return nil
}

func (r *subscriptionRepo) SetCredits(ctx context.Context, userID string, credits int) error {
	const q = `
        UPDATE user_subscriptions
        SET credits_remaining = $2, updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, credits); err != nil {
		return fmt.Errorf("set credits=%d for user %s: %w", credits, userID, err)
	}
	return nil
}

func (r *subscriptionRepo) AssignPlan(ctx context.Context, userID, planID string, credits int, expiresAt time.Time) error {
	const q = `
        UPDATE user_subscriptions
        SET plan_id = $2,
            credits_remaining = $3,
            is_active = TRUE,
            expires_at = $4,
            updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, planID, credits, expiresAt); err != nil {
		return fmt.Errorf("assign plan %s to user %s: %w", planID, userID, err)
	}
	return nil
}
