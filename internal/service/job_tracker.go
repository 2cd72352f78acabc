package service

import (
	"math/rand"
	"sync"
	"time"

	"app/internal/model"

	"github.com/google/uuid"
)

// JobState is the lifecycle state of one generation invocation.
type JobState string

const (
	JobValidating JobState = "validating"
	JobDenied     JobState = "denied"
	JobRunning    JobState = "running"
	JobSucceeded  JobState = "succeeded"
	JobFailed     JobState = "failed"
)

// Terminal reports whether the state is final.
func (s JobState) Terminal() bool {
	return s == JobDenied || s == JobSucceeded || s == JobFailed
}

// GenerationJob is one tracked generation invocation. Progress is
// cosmetic: it ticks independently of the backend and stays capped
// below 100 until the run actually finishes.
type GenerationJob struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      model.GenerationKind `json:"kind"`
	State     JobState        `json:"state"`
	Progress  int             `json:"progress"`
	Error     string          `json:"error,omitempty"`
	Project   *model.Project  `json:"project,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

const (
	progressCap      = 95
	progressInterval = time.Second
	// Finished jobs are polled briefly after completion; keep them
	// around for the project retention window, then drop them.
	jobRetention = time.Hour
)

// JobTracker holds in-flight and recently finished generation jobs in
// memory. Jobs are not durable: a restart forgets them, which is fine
// because the project row is the durable record.
type JobTracker struct {
	mu   sync.Mutex
	jobs map[string]*GenerationJob
}

// NewJobTracker creates an empty tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: make(map[string]*GenerationJob)}
}

// Create registers a new job in the validating state.
func (t *JobTracker) Create(userID string, kind model.GenerationKind) *GenerationJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked(time.Now())
	job := &GenerationJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		State:     JobValidating,
		CreatedAt: time.Now(),
	}
	t.jobs[job.ID] = job
	return t.copyLocked(job)
}

// Get returns a snapshot of the job, false when unknown.
func (t *JobTracker) Get(id string) (*GenerationJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return nil, false
	}
	return t.copyLocked(job), true
}

// Run moves the job to running and starts its progress ticker.
func (t *JobTracker) Run(id string) {
	t.setState(id, JobRunning, "", nil)
	go t.tickProgress(id)
}

// Deny finishes the job as denied with the gate's reason.
func (t *JobTracker) Deny(id string, reason string) {
	t.setState(id, JobDenied, reason, nil)
}

// Fail finishes the job as failed with the underlying cause.
func (t *JobTracker) Fail(id string, cause string) {
	t.setState(id, JobFailed, cause, nil)
}

// Succeed finishes the job, snapping progress to 100 and attaching the
// persisted project.
func (t *JobTracker) Succeed(id string, project *model.Project) {
	t.setState(id, JobSucceeded, "", project)
}

func (t *JobTracker) setState(id string, state JobState, message string, project *model.Project) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.State = state
	job.Error = message
	job.Project = project
	if state == JobSucceeded {
		job.Progress = 100
	}
}

// tickProgress advances the cosmetic progress bar once a second while
// the job is running, capped below 100 until a terminal state snaps it.
func (t *JobTracker) tickProgress(id string) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for range ticker.C {
		if !t.advance(id) {
			return
		}
	}
}

// advance applies one progress tick. Returns false once the job is
// terminal or gone.
func (t *JobTracker) advance(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok || job.State.Terminal() {
		return false
	}
	job.Progress += rand.Intn(5) + 1
	if job.Progress > progressCap {
		job.Progress = progressCap
	}
	return true
}

func (t *JobTracker) evictLocked(now time.Time) {
	for id, job := range t.jobs {
		if job.State.Terminal() && now.Sub(job.CreatedAt) > jobRetention {
			delete(t.jobs, id)
		}
	}
}

func (t *JobTracker) copyLocked(job *GenerationJob) *GenerationJob {
	cp := *job
	if job.Project != nil {
		project := *job.Project
		cp.Project = &project
	}
	return &cp
}
