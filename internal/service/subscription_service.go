package service

import (
	"context"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// planTerm is how long an assigned plan stays active before expiring.
const planTerm = 30 * 24 * time.Hour

// SubscriptionService defines business logic methods for subscriptions.
type SubscriptionService interface {
	// GetSubscription returns the user's subscription snapshot with its
	// plan, (nil, nil) when the user has none.
	GetSubscription(ctx context.Context, userID string) (*model.UserSubscription, error)
	// ListPlans returns the plan reference data.
	ListPlans(ctx context.Context) ([]model.Plan, error)
	// ActivateFreePlan self-serves the Free plan: credits reset to the
	// plan's credit limit, active for one plan term.
	ActivateFreePlan(ctx context.Context, userID string) (*model.UserSubscription, error)
}

type subscriptionService struct {
	repo     repository.SubscriptionRepository
	planRepo repository.PlanRepository
	logger   zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService with a scoped logger.
func NewSubscriptionService(repo repository.SubscriptionRepository, planRepo repository.PlanRepository, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		repo:     repo,
		planRepo: planRepo,
		logger:   logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID string) (*model.UserSubscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch subscription")
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]model.Plan, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list plans")
		return nil, err
	}
	return plans, nil
}

func (s *subscriptionService) ActivateFreePlan(ctx context.Context, userID string) (*model.UserSubscription, error) {
	plan, err := s.planRepo.GetByName(ctx, model.PlanNameFree)
	if err != nil {
		s.logger.Error().Err(err).Msg("Free plan not found")
		return nil, err
	}
	expiresAt := time.Now().Add(planTerm)
	if err := s.repo.AssignPlan(ctx, userID, plan.ID, plan.CreditLimit, expiresAt); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to activate free plan")
		return nil, err
	}
	return s.repo.GetByUserID(ctx, userID)
}
