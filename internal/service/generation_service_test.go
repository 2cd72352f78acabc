package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// fakeSubRepo implements repository.SubscriptionRepository in memory.
type fakeSubRepo struct {
	mu            sync.Mutex
	sub           *model.UserSubscription
	getErr        error
	setCreditsErr error
	creditWrites  []int
	activeWrites  []bool
	assignedPlans []string
	assignCredits []int
	assignExpiry  []time.Time
}

func (f *fakeSubRepo) GetByUserID(ctx context.Context, userID string) (*model.UserSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.sub == nil {
		return nil, nil
	}
	cp := *f.sub
	return &cp, nil
}

func (f *fakeSubRepo) SetActive(ctx context.Context, userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeWrites = append(f.activeWrites, active)
	if f.sub != nil {
		f.sub.IsActive = active
	}
	return nil
}

func (f *fakeSubRepo) SetCredits(ctx context.Context, userID string, credits int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setCreditsErr != nil {
		return f.setCreditsErr
	}
	f.creditWrites = append(f.creditWrites, credits)
	if f.sub != nil {
		f.sub.CreditsRemaining = credits
	}
	return nil
}

func (f *fakeSubRepo) AssignPlan(ctx context.Context, userID, planID string, credits int, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignedPlans = append(f.assignedPlans, planID)
	f.assignCredits = append(f.assignCredits, credits)
	f.assignExpiry = append(f.assignExpiry, expiresAt)
	if f.sub != nil {
		f.sub.PlanID = planID
		f.sub.CreditsRemaining = credits
		f.sub.IsActive = true
		f.sub.ExpiresAt = expiresAt
	}
	return nil
}

// fakeProjectRepo implements repository.ProjectRepository in memory.
type fakeProjectRepo struct {
	mu        sync.Mutex
	insertErr error
	projects  []model.Project
}

func (f *fakeProjectRepo) Insert(ctx context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	p.ID = "project-1"
	p.CreatedAt = time.Now()
	f.projects = append(f.projects, *p)
	return nil
}

func (f *fakeProjectRepo) ListByUserID(ctx context.Context, userID string, includeExpired bool, now time.Time) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Project
	for _, p := range f.projects {
		if p.UserID != userID {
			continue
		}
		if !includeExpired && !p.Active(now) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectRepo) stored() []model.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Project(nil), f.projects...)
}

type fakeGenClient struct {
	mu  sync.Mutex
	url string
	err error
	got *GenerationRequest
}

func (f *fakeGenClient) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = req
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestGenerationService(subs *fakeSubRepo, projects *fakeProjectRepo, client GenerationClient) *generationService {
	return &generationService{
		subRepo:     subs,
		projectRepo: projects,
		client:      client,
		tracker:     NewJobTracker(),
		logger:      zerolog.Nop(),
		simDelay:    10 * time.Millisecond,
	}
}

func waitForTerminal(t *testing.T, svc GenerationService, userID, jobID string) *GenerationJob {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for job to finish")
		case <-time.After(5 * time.Millisecond):
		}
		job, ok := svc.Job(userID, jobID)
		if !ok {
			t.Fatalf("job %s disappeared", jobID)
		}
		if job.State.Terminal() {
			return job
		}
	}
}

func TestGenerateDeniedInsufficientCredits(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(3)}
	projects := &fakeProjectRepo{}
	svc := newTestGenerationService(subs, projects, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationVideo, Prompt: "a storm over the sea"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobDenied {
		t.Fatalf("expected denied, got %s", final.State)
	}
	if !strings.Contains(final.Error, "need 5") || !strings.Contains(final.Error, "have 3") {
		t.Fatalf("deny reason should carry the shortfall, got %q", final.Error)
	}
	if len(subs.creditWrites) != 0 {
		t.Fatalf("denied run must not write credits, wrote %v", subs.creditWrites)
	}
	if len(projects.stored()) != 0 {
		t.Fatal("denied run must not insert a project")
	}
}

func TestGenerateNoSubscriptionDenied(t *testing.T) {
	subs := &fakeSubRepo{}
	svc := newTestGenerationService(subs, &fakeProjectRepo{}, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobDenied {
		t.Fatalf("expected denied, got %s", final.State)
	}
	if !strings.Contains(final.Error, "inactive") {
		t.Fatalf("expected inactive reason, got %q", final.Error)
	}
}

func TestGenerateInactivePlanDenied(t *testing.T) {
	snap := activeSnapshot(100)
	snap.IsActive = false
	subs := &fakeSubRepo{sub: snap}
	svc := newTestGenerationService(subs, &fakeProjectRepo{}, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobDenied {
		t.Fatalf("expected denied, got %s", final.State)
	}
}

func TestGenerateSimulationSuccess(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(10)}
	projects := &fakeProjectRepo{}
	svc := newTestGenerationService(subs, projects, nil)

	start := time.Now()
	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobSucceeded {
		t.Fatalf("expected succeeded, got %s (%s)", final.State, final.Error)
	}
	if final.Progress != 100 {
		t.Fatalf("progress should snap to 100, got %d", final.Progress)
	}
	if len(subs.creditWrites) != 1 || subs.creditWrites[0] != 9 {
		t.Fatalf("expected one credit write of 9, got %v", subs.creditWrites)
	}

	stored := projects.stored()
	if len(stored) != 1 {
		t.Fatalf("expected one project, got %d", len(stored))
	}
	p := stored[0]
	if p.Type != model.GenerationImage {
		t.Fatalf("project type = %s", p.Type)
	}
	if !strings.HasPrefix(p.URL, "https://picsum.photos/seed/") {
		t.Fatalf("unexpected simulated image URL %q", p.URL)
	}
	if p.ThumbnailURL != p.URL {
		t.Fatal("thumbnail should reuse the result URL")
	}
	remaining := p.ExpiresAt.Sub(start)
	if remaining < 55*time.Minute || remaining > 65*time.Minute {
		t.Fatalf("expires_at should be about an hour out, got %v", remaining)
	}
}

func TestGenerateVideoSimulationURL(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(10)}
	projects := &fakeProjectRepo{}
	svc := newTestGenerationService(subs, projects, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationVideo, Prompt: "a storm over the sea"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobSucceeded {
		t.Fatalf("expected succeeded, got %s (%s)", final.State, final.Error)
	}
	if got := projects.stored()[0].URL; got != simulatedVideoURL {
		t.Fatalf("video simulation URL = %q", got)
	}
	if subs.creditWrites[0] != 5 {
		t.Fatalf("video should cost 5, balance write = %d", subs.creditWrites[0])
	}
}

func TestGenerateFreePlanLockedPrompt(t *testing.T) {
	snap := activeSnapshot(5)
	snap.Plan = &model.Plan{ID: "plan-free", Name: "Free", CreditLimit: 5}
	subs := &fakeSubRepo{sub: snap}
	projects := &fakeProjectRepo{}
	client := &fakeGenClient{url: "https://cdn.example.com/out.png"}
	svc := newTestGenerationService(subs, projects, client)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "my own prompt"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobSucceeded {
		t.Fatalf("expected succeeded, got %s (%s)", final.State, final.Error)
	}
	if client.got.Prompt != trialPrompt {
		t.Fatalf("free plan must run the trial prompt, sent %q", client.got.Prompt)
	}
	if got := projects.stored()[0].Prompt; got != trialPrompt {
		t.Fatalf("stored prompt = %q, want trial prompt", got)
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(10)}
	projects := &fakeProjectRepo{}
	client := &fakeGenClient{err: &UpstreamError{Message: "GPU pool exhausted"}}
	svc := newTestGenerationService(subs, projects, client)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobFailed {
		t.Fatalf("expected failed, got %s", final.State)
	}
	if final.Error != "GPU pool exhausted" {
		t.Fatalf("upstream detail should surface verbatim, got %q", final.Error)
	}
	if len(subs.creditWrites) != 0 || len(projects.stored()) != 0 {
		t.Fatal("failed run must not write")
	}
}

func TestGenerateCommitPartialFailure(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(10), setCreditsErr: errors.New("pool closed")}
	projects := &fakeProjectRepo{}
	svc := newTestGenerationService(subs, projects, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	final := waitForTerminal(t, svc, "user-1", job.ID)

	if final.State != JobFailed {
		t.Fatalf("expected failed after deduct error, got %s", final.State)
	}
	// The project insert is still attempted; the partial write stays.
	if len(projects.stored()) != 1 {
		t.Fatalf("insert should be attempted despite deduct failure, got %d projects", len(projects.stored()))
	}
	if !strings.Contains(final.Error, "pool closed") {
		t.Fatalf("failure should carry the cause, got %q", final.Error)
	}
}

func TestJobOwnership(t *testing.T) {
	subs := &fakeSubRepo{sub: activeSnapshot(10)}
	svc := newTestGenerationService(subs, &fakeProjectRepo{}, nil)

	job := svc.Start("user-1", &GenerationInput{Kind: model.GenerationImage, Prompt: "dunes at dawn"})
	if _, ok := svc.Job("user-2", job.ID); ok {
		t.Fatal("another user must not see the job")
	}
	if _, ok := svc.Job("user-1", "no-such-job"); ok {
		t.Fatal("unknown job id must not resolve")
	}
	if _, ok := svc.Job("user-1", job.ID); !ok {
		t.Fatal("owner should see the job")
	}
}
