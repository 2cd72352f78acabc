package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	listed   []model.AdminUser
	deleted  []string
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) ListWithSubscriptions(ctx context.Context) ([]model.AdminUser, error) {
	return f.listed, nil
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePlanRepo struct {
	plans map[string]*model.Plan
}

func (f *fakePlanRepo) List(ctx context.Context) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, planID string) (*model.Plan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return nil, repository.ErrPlanNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlanRepo) GetByName(ctx context.Context, name string) (*model.Plan, error) {
	for _, p := range f.plans {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPlanNotFound
}

func adminFixture() (*fakeProfileRepo, *fakeSubRepo, *fakePlanRepo, AdminService) {
	profiles := &fakeProfileRepo{profiles: map[string]*model.Profile{
		"admin-1":  {ID: "admin-1", Email: "admin@example.com", Role: model.RoleAdmin},
		"member-1": {ID: "member-1", Email: "member@example.com", Role: model.RoleMember},
	}}
	subs := &fakeSubRepo{sub: activeSnapshot(42)}
	plans := &fakePlanRepo{plans: map[string]*model.Plan{
		"plan-pro": {ID: "plan-pro", Name: "Pro", PriceCents: 2900, CreditLimit: 500},
	}}
	svc := NewAdminService(profiles, subs, plans, zerolog.Nop())
	return profiles, subs, plans, svc
}

func TestAdminNonAdminForbidden(t *testing.T) {
	_, subs, _, svc := adminFixture()

	cases := []struct {
		name string
		call func() error
	}{
		{"ListUsers", func() error { _, err := svc.ListUsers(context.Background(), "member-1"); return err }},
		{"SetSubscriptionActive", func() error {
			return svc.SetSubscriptionActive(context.Background(), "member-1", "user-1", false)
		}},
		{"SetCredits", func() error { return svc.SetCredits(context.Background(), "member-1", "user-1", 0) }},
		{"ChangePlan", func() error { return svc.ChangePlan(context.Background(), "member-1", "user-1", "plan-pro") }},
		{"DeleteProfile", func() error { return svc.DeleteProfile(context.Background(), "member-1", "user-1") }},
	}
	for _, tc := range cases {
		if err := tc.call(); !errors.Is(err, ErrForbidden) {
			t.Errorf("%s as member: got %v, want ErrForbidden", tc.name, err)
		}
	}
	if len(subs.creditWrites) != 0 || len(subs.activeWrites) != 0 || len(subs.assignedPlans) != 0 {
		t.Fatal("forbidden calls must not write")
	}
}

func TestAdminUnknownActorForbidden(t *testing.T) {
	_, _, _, svc := adminFixture()
	if _, err := svc.ListUsers(context.Background(), "ghost"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestAdminSetCreditsNoBounds(t *testing.T) {
	_, subs, _, svc := adminFixture()

	if err := svc.SetCredits(context.Background(), "admin-1", "user-1", -10); err != nil {
		t.Fatalf("SetCredits(-10): %v", err)
	}
	if err := svc.SetCredits(context.Background(), "admin-1", "user-1", 10000); err != nil {
		t.Fatalf("SetCredits(10000): %v", err)
	}
	if len(subs.creditWrites) != 2 || subs.creditWrites[0] != -10 || subs.creditWrites[1] != 10000 {
		t.Fatalf("credit writes = %v", subs.creditWrites)
	}
}

func TestAdminSetSubscriptionActive(t *testing.T) {
	_, subs, _, svc := adminFixture()

	if err := svc.SetSubscriptionActive(context.Background(), "admin-1", "user-1", false); err != nil {
		t.Fatalf("SetSubscriptionActive: %v", err)
	}
	if len(subs.activeWrites) != 1 || subs.activeWrites[0] {
		t.Fatalf("active writes = %v", subs.activeWrites)
	}
}

func TestAdminChangePlanResetsSubscription(t *testing.T) {
	_, subs, _, svc := adminFixture()
	before := time.Now()

	if err := svc.ChangePlan(context.Background(), "admin-1", "user-1", "plan-pro"); err != nil {
		t.Fatalf("ChangePlan: %v", err)
	}

	if len(subs.assignedPlans) != 1 || subs.assignedPlans[0] != "plan-pro" {
		t.Fatalf("assigned plans = %v", subs.assignedPlans)
	}
	// Credits reset to the plan limit regardless of the prior balance.
	if subs.assignCredits[0] != 500 {
		t.Fatalf("assigned credits = %d, want 500", subs.assignCredits[0])
	}
	term := subs.assignExpiry[0].Sub(before)
	if term < 30*24*time.Hour-time.Minute || term > 30*24*time.Hour+time.Minute {
		t.Fatalf("plan term = %v, want about 30 days", term)
	}
	if !subs.sub.IsActive {
		t.Fatal("change plan should reactivate the subscription")
	}
}

func TestAdminChangePlanUnknownPlan(t *testing.T) {
	_, subs, _, svc := adminFixture()

	err := svc.ChangePlan(context.Background(), "admin-1", "user-1", "plan-ghost")
	if !errors.Is(err, repository.ErrPlanNotFound) {
		t.Fatalf("got %v, want ErrPlanNotFound", err)
	}
	if len(subs.assignedPlans) != 0 {
		t.Fatal("unknown plan must not be assigned")
	}
}

func TestAdminDeleteProfile(t *testing.T) {
	profiles, _, _, svc := adminFixture()

	if err := svc.DeleteProfile(context.Background(), "admin-1", "member-1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if len(profiles.deleted) != 1 || profiles.deleted[0] != "member-1" {
		t.Fatalf("deleted = %v", profiles.deleted)
	}
}
