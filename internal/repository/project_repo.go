package repository

import (
	"context"
	"fmt"
	"time"

	"app/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectRepository stores generation results.
type ProjectRepository interface {
	// Insert persists a new project row and fills in its id and
	// created_at.
	Insert(ctx context.Context, p *model.Project) error
	// ListByUserID returns the user's projects, newest first. With
	// includeExpired false only rows with expires_at after now are
	// returned; expired rows are never deleted, they just stop
	// matching.
	ListByUserID(ctx context.Context, userID string, includeExpired bool, now time.Time) ([]model.Project, error)
}

type projectRepo struct {
	pool *pgxpool.Pool
}

// NewProjectRepo creates a new ProjectRepository.
func NewProjectRepo(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepo{pool: pool}
}

func (r *projectRepo) Insert(ctx context.Context, p *model.Project) error {
	const q = `
        INSERT INTO projects (user_id, type, prompt, url, thumbnail_url, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.pool.QueryRow(ctx, q, p.UserID, string(p.Type), p.Prompt, p.URL, p.ThumbnailURL, p.ExpiresAt).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project for user %s: %w", p.UserID, err)
	}
	return nil
}

func (r *projectRepo) ListByUserID(ctx context.Context, userID string, includeExpired bool, now time.Time) ([]model.Project, error) {
	q := `
        SELECT id, user_id, type, prompt, url, thumbnail_url, created_at, expires_at
        FROM projects
        WHERE user_id = $1
    `
	args := []any{userID}
	if !includeExpired {
		q += ` AND expires_at > $2`
		args = append(args, now)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects for user %s: %w", userID, err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Type, &p.Prompt, &p.URL, &p.ThumbnailURL, &p.CreatedAt, &p.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, nil
}
