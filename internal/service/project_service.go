package service

import (
	"context"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ProjectService lists generation results. Expired projects drop out of
// the default listing; the history view may include them, labeled.
type ProjectService interface {
	ListActive(ctx context.Context, userID string) ([]model.Project, error)
	ListHistory(ctx context.Context, userID string) ([]model.Project, error)
}

type projectService struct {
	repo   repository.ProjectRepository
	logger zerolog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repo repository.ProjectRepository, logger zerolog.Logger) ProjectService {
	return &projectService{
		repo:   repo,
		logger: logger.With().Str("service", "ProjectService").Logger(),
	}
}

func (s *projectService) ListActive(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.repo.ListByUserID(ctx, userID, false, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list projects")
		return nil, err
	}
	return projects, nil
}

func (s *projectService) ListHistory(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.repo.ListByUserID(ctx, userID, true, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list project history")
		return nil, err
	}
	return projects, nil
}
