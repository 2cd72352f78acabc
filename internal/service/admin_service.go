package service

import (
	"context"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// AdminService is the role-gated mutation surface for managing users,
// subscriptions and credit balances. Every operation authorizes the
// acting user before touching anything.
type AdminService interface {
	ListUsers(ctx context.Context, actorID string) ([]model.AdminUser, error)
	SetSubscriptionActive(ctx context.Context, actorID, userID string, active bool) error
	// SetCredits overwrites the balance as given. No bounds checks:
	// negative and above-allowance values are written as-is.
	SetCredits(ctx context.Context, actorID, userID string, credits int) error
	// ChangePlan reassigns the plan, resets credits to the plan's
	// credit limit (overwriting any prior balance), reactivates the
	// subscription and extends it by one plan term.
	ChangePlan(ctx context.Context, actorID, userID, planID string) error
	// DeleteProfile removes the profile and subscription rows only. The
	// Supabase auth identity stays; removing it needs the service role
	// key and is a separate operator action.
	DeleteProfile(ctx context.Context, actorID, userID string) error
}

type adminService struct {
	profileRepo repository.ProfileRepository
	subRepo     repository.SubscriptionRepository
	planRepo    repository.PlanRepository
	logger      zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	profileRepo repository.ProfileRepository,
	subRepo repository.SubscriptionRepository,
	planRepo repository.PlanRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		profileRepo: profileRepo,
		subRepo:     subRepo,
		planRepo:    planRepo,
		logger:      logger.With().Str("service", "AdminService").Logger(),
	}
}

// authorize checks the actor holds the given permission.
func (s *adminService) authorize(ctx context.Context, actorID string, perm model.Permission) error {
	profile, err := s.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if profile == nil || !profile.Role.Can(perm) {
		return ErrForbidden
	}
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, actorID string) ([]model.AdminUser, error) {
	if err := s.authorize(ctx, actorID, model.PermissionManageUsers); err != nil {
		return nil, err
	}
	users, err := s.profileRepo.ListWithSubscriptions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}
	return users, nil
}

func (s *adminService) SetSubscriptionActive(ctx context.Context, actorID, userID string, active bool) error {
	if err := s.authorize(ctx, actorID, model.PermissionManageUsers); err != nil {
		return err
	}
	if err := s.subRepo.SetActive(ctx, userID, active); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to toggle subscription")
		return err
	}
	return nil
}

func (s *adminService) SetCredits(ctx context.Context, actorID, userID string, credits int) error {
	if err := s.authorize(ctx, actorID, model.PermissionManageUsers); err != nil {
		return err
	}
	if err := s.subRepo.SetCredits(ctx, userID, credits); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to set credits")
		return err
	}
	return nil
}

func (s *adminService) ChangePlan(ctx context.Context, actorID, userID, planID string) error {
	if err := s.authorize(ctx, actorID, model.PermissionManageUsers); err != nil {
		return err
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		s.logger.Error().Err(err).Str("plan_id", planID).Msg("Failed to fetch plan for change")
		return err
	}
	expiresAt := time.Now().Add(planTerm)
	if err := s.subRepo.AssignPlan(ctx, userID, plan.ID, plan.CreditLimit, expiresAt); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("plan_id", planID).Msg("Failed to change plan")
		return err
	}
	return nil
}

func (s *adminService) DeleteProfile(ctx context.Context, actorID, userID string) error {
	if err := s.authorize(ctx, actorID, model.PermissionManageUsers); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to delete profile")
		return err
	}
	s.logger.Warn().Str("user_id", userID).Msg("Profile deleted; auth identity left in place")
	return nil
}
