package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// trialPrompt is the locked prompt Free-plan generations run with.
const trialPrompt = "a beautiful cat walking in a garden"

// simulatedRunDelay is how long the no-backend simulation path waits
// before manufacturing a result.
const simulatedRunDelay = 5 * time.Second

// simulatedVideoURL is the canned clip the simulation path returns for
// video generations.
const simulatedVideoURL = "https://cdn.pixabay.com/video/2023/10/20/185848-876610237_tiny.mp4"

// GenerationInput is one generation request as received from the API.
type GenerationInput struct {
	Kind       model.GenerationKind
	SubKind    string
	Prompt     string
	Duration   string
	Resolution string
	FileName   string
	FileData   []byte
}

// GenerationService runs the credit-gated generation workflow: gate
// against a fresh subscription read, produce a result (backend or
// simulation), then deduct credits and persist the project.
type GenerationService interface {
	// Start begins one generation invocation and returns its job
	// immediately; the run itself is detached from the caller's request
	// so an abandoned poller does not cancel it.
	Start(userID string, input *GenerationInput) *GenerationJob
	// Job returns the caller's job by id, false when the id is unknown
	// or belongs to another user.
	Job(userID, jobID string) (*GenerationJob, bool)
}

type generationService struct {
	subRepo     repository.SubscriptionRepository
	projectRepo repository.ProjectRepository
	client      GenerationClient // nil when no backend is configured
	tracker     *JobTracker
	logger      zerolog.Logger
	simDelay    time.Duration
}

// NewGenerationService creates a GenerationService. A nil client
// activates the simulation path; it must never be nil merely because
// construction forgot it when a backend URL is configured.
func NewGenerationService(
	subRepo repository.SubscriptionRepository,
	projectRepo repository.ProjectRepository,
	client GenerationClient,
	tracker *JobTracker,
	logger zerolog.Logger,
) GenerationService {
	return &generationService{
		subRepo:     subRepo,
		projectRepo: projectRepo,
		client:      client,
		tracker:     tracker,
		logger:      logger.With().Str("service", "GenerationService").Logger(),
		simDelay:    simulatedRunDelay,
	}
}

func (s *generationService) Start(userID string, input *GenerationInput) *GenerationJob {
	job := s.tracker.Create(userID, input.Kind)
	// The run is deliberately detached: the HTTP caller may navigate
	// away while the job is in flight, and late completions must still
	// land their writes.
	go s.run(context.Background(), job.ID, userID, input)
	return job
}

func (s *generationService) Job(userID, jobID string) (*GenerationJob, bool) {
	job, ok := s.tracker.Get(jobID)
	if !ok || job.UserID != userID {
		return nil, false
	}
	return job, true
}

func (s *generationService) run(ctx context.Context, jobID, userID string, input *GenerationInput) {
	// Validate against a fresh read; a snapshot from page load may be
	// arbitrarily stale.
	snapshot, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to read subscription for gate check")
		s.tracker.Fail(jobID, err.Error())
		return
	}

	gate := EvaluateGate(snapshot, input.Kind)
	if gateErr := gate.Err(); gateErr != nil {
		s.tracker.Deny(jobID, gateErr.Error())
		return
	}

	prompt := input.Prompt
	if snapshot.Plan != nil && snapshot.Plan.Name == model.PlanNameFree {
		prompt = trialPrompt
	}

	s.tracker.Run(jobID)

	resultURL, err := s.produce(ctx, userID, prompt, input)
	if err != nil {
		s.tracker.Fail(jobID, err.Error())
		return
	}

	project, err := s.commit(ctx, userID, snapshot, gate.Cost, prompt, resultURL, input.Kind)
	if err != nil {
		s.tracker.Fail(jobID, err.Error())
		return
	}
	s.tracker.Succeed(jobID, project)
}

// produce obtains the result URL from the configured backend, or from
// the simulation path when none is configured. The simulation path
// exists for environments without a backend and never runs otherwise.
func (s *generationService) produce(ctx context.Context, userID, prompt string, input *GenerationInput) (string, error) {
	if s.client != nil {
		return s.client.Generate(ctx, &GenerationRequest{
			Prompt:     prompt,
			Duration:   input.Duration,
			Resolution: input.Resolution,
			Kind:       input.Kind,
			SubKind:    input.SubKind,
			UserID:     userID,
			FileName:   input.FileName,
			FileData:   input.FileData,
		})
	}

	select {
	case <-time.After(s.simDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if input.Kind == model.GenerationVideo {
		return simulatedVideoURL, nil
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/1920/1080", uuid.NewString()), nil
}

// commit applies the two success writes: overwrite the credit balance
// and insert the project row. Both are attempted even if the first
// fails; neither is rolled back on a partial failure. The balance write
// is an absolute value computed from the gate-time snapshot, so two
// concurrent runs can each debit against the same stale balance and the
// last writer wins.
func (s *generationService) commit(ctx context.Context, userID string, snapshot *model.UserSubscription, cost int, prompt, resultURL string, kind model.GenerationKind) (*model.Project, error) {
	deductErr := s.subRepo.SetCredits(ctx, userID, snapshot.CreditsRemaining-cost)
	if deductErr != nil {
		s.logger.Error().Err(deductErr).Str("user_id", userID).Msg("Failed to deduct credits")
	}

	project := &model.Project{
		UserID:       userID,
		Type:         kind,
		Prompt:       prompt,
		URL:          resultURL,
		ThumbnailURL: resultURL,
		ExpiresAt:    time.Now().Add(model.ProjectRetention),
	}
	insertErr := s.projectRepo.Insert(ctx, project)
	if insertErr != nil {
		s.logger.Error().Err(insertErr).Str("user_id", userID).Msg("Failed to persist project")
	}

	if deductErr != nil || insertErr != nil {
		return nil, errors.Join(deductErr, insertErr)
	}
	return project, nil
}
