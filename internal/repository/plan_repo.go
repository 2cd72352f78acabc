package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPlanNotFound is returned when no plan matches the lookup.
var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository reads the static plan reference data.
type PlanRepository interface {
	List(ctx context.Context) ([]model.Plan, error)
	GetByID(ctx context.Context, planID string) (*model.Plan, error)
	GetByName(ctx context.Context, name string) (*model.Plan, error)
}

type planRepo struct {
	pool *pgxpool.Pool
}

// NewPlanRepo creates a new PlanRepository.
func NewPlanRepo(pool *pgxpool.Pool) PlanRepository {
	return &planRepo{pool: pool}
}

func (r *planRepo) List(ctx context.Context) ([]model.Plan, error) {
	const q = `
        SELECT id, name, price_cents, credit_limit, created_at
        FROM plans
        ORDER BY price_cents
    `
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreditLimit, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan rows: %w", err)
	}
	return plans, nil
}

func (r *planRepo) GetByID(ctx context.Context, planID string) (*model.Plan, error) {
	const q = `
        SELECT id, name, price_cents, credit_limit, created_at
        FROM plans
        WHERE id = $1
    `
	return r.getOne(ctx, q, planID)
}

func (r *planRepo) GetByName(ctx context.Context, name string) (*model.Plan, error) {
	const q = `
        SELECT id, name, price_cents, credit_limit, created_at
        FROM plans
        WHERE name = $1
    `
	return r.getOne(ctx, q, name)
}

func (r *planRepo) getOne(ctx context.Context, q string, arg any) (*model.Plan, error) {
	var p model.Plan
	err := r.pool.QueryRow(ctx, q, arg).Scan(&p.ID, &p.Name, &p.PriceCents, &p.CreditLimit, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	return &p, nil
}
