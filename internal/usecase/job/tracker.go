package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// writeCadence throttles progress persistence. Broker publishes are not
// throttled; only database writes are.
const writeCadence = 2 * time.Second

var (
	ErrJobNotFound   = errors.New("job: not found")
	ErrJobNotFailed  = errors.New("job: only failed jobs can be retried")
	ErrEmptyFailure  = errors.New("job: a failed job requires a failure message")
	ErrBadRetryIndex = errors.New("job: retry index is out of range")
)

type trackerSrv struct {
	jobs    port.JobRepository
	broker  port.ProgressBroker
	genUUID port.UUIDGen
	now     func() time.Time

	mu         sync.Mutex
	lastWrites map[uuid.UUID]time.Time
}

// compile-time check: *trackerSrv must satisfy port.JobTracker
var _ port.JobTracker = (*trackerSrv)(nil)

// NewTracker constructs a JobTracker implementation.
func NewTracker(jobs port.JobRepository, broker port.ProgressBroker, genUUID port.UUIDGen) port.JobTracker {
	return &trackerSrv{
		jobs:       jobs,
		broker:     broker,
		genUUID:    genUUID,
		now:        func() time.Time { return time.Now().UTC() },
		lastWrites: make(map[uuid.UUID]time.Time),
	}
}

// CreateJob persists a new job in the queued state.
func (t *trackerSrv) CreateJob(ctx context.Context, sessionID uuid.UUID, jobType string, totalItems int) (*model.ProcessingJob, error) {
	job := &model.ProcessingJob{
		ID:         t.genUUID(),
		SessionID:  sessionID,
		Type:       jobType,
		Status:     model.JobStatusQueued,
		TotalItems: totalItems,
	}
	if err := t.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}
	return job, nil
}

// StartJob flips a queued job to processing and stamps its start time.
func (t *trackerSrv) StartJob(ctx context.Context, job *model.ProcessingJob) error {
	started := t.now()
	job.Status = model.JobStatusProcessing
	job.StartedAt = &started
	if err := t.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("error starting job: %w", err)
	}
	t.publish(job, "")
	return nil
}

// TrackProgress records that item `index` is being worked on. Progress only
// ever moves forward. Every call reaches subscribers; database writes are
// capped at one per cadence window so hot loops do not hammer the store.
func (t *trackerSrv) TrackProgress(ctx context.Context, job *model.ProcessingJob, index int, step string) {
	if index > job.CurrentIndex {
		job.CurrentIndex = index
	}
	if job.TotalItems > 0 {
		if pct := job.CurrentIndex * 100 / job.TotalItems; pct > job.Progress {
			job.Progress = pct
		}
	}

	t.publish(job, step)

	if t.shouldPersist(job.ID) {
		if err := t.jobs.Update(ctx, job); err != nil {
			log.Printf("failed persisting progress for job #%s: %v", job.ID, err)
		}
	}
}

// CompleteJob marks the job done. Per-item errors do not demote the job;
// completion always means progress 100.
func (t *trackerSrv) CompleteJob(ctx context.Context, job *model.ProcessingJob, itemErrs model.ItemErrors) error {
	done := t.now()
	job.Status = model.JobStatusCompleted
	job.Progress = 100
	job.CurrentIndex = job.TotalItems
	job.ItemErrors = itemErrs
	job.CompletedAt = &done
	if err := t.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("error completing job: %w", err)
	}
	t.forget(job.ID)
	t.publish(job, "done")

	// completion notification for anyone watching the session: what came
	// out of the run, and where to go look at it
	ready := job.TotalItems - len(itemErrs)
	if ready < 0 {
		ready = 0
	}
	t.broker.Publish(progress.SessionTopic(job.SessionID.String()), port.ProgressSnapshot{
		Progress:    100,
		CurrentStep: "done",
		Message:     fmt.Sprintf("%d files ready for review", ready),
		Link:        "/sessions/" + job.SessionID.String(),
	})
	return nil
}

// FailJob marks the job failed at the given item. The message is mandatory:
// a failure a client cannot explain is not a recorded failure.
func (t *trackerSrv) FailJob(ctx context.Context, job *model.ProcessingJob, failedIndex int, message string) error {
	if message == "" {
		return ErrEmptyFailure
	}
	done := t.now()
	job.Status = model.JobStatusFailed
	job.FailedIndex = &failedIndex
	job.ErrorMessage = &message
	job.CompletedAt = &done
	if err := t.jobs.Update(ctx, job); err != nil {
		return fmt.Errorf("error failing job: %w", err)
	}
	t.forget(job.ID)
	t.publish(job, "failed")
	return nil
}

// RetryJob resets a failed job so it can resume. The same row is mutated;
// a retry never creates a second job. Work resumes from the explicit index
// when one is given, otherwise from the index that failed.
func (t *trackerSrv) RetryJob(ctx context.Context, in port.RetryJobInput) (*model.ProcessingJob, error) {
	job, err := t.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("error fetching job: %w", err)
	}
	if job.Status != model.JobStatusFailed {
		return nil, ErrJobNotFailed
	}

	resumeAt := 0
	if job.FailedIndex != nil {
		resumeAt = *job.FailedIndex
	}
	if in.FromIndex != nil {
		resumeAt = *in.FromIndex
	}
	if resumeAt < 0 || (job.TotalItems > 0 && resumeAt >= job.TotalItems) {
		return nil, fmt.Errorf("%w: %d of %d items", ErrBadRetryIndex, resumeAt, job.TotalItems)
	}

	job.Status = model.JobStatusQueued
	job.CurrentIndex = resumeAt
	job.ErrorMessage = nil
	job.FailedIndex = nil
	job.CompletedAt = nil
	if job.TotalItems > 0 {
		job.Progress = resumeAt * 100 / job.TotalItems
	} else {
		job.Progress = 0
	}

	if err := t.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("error resetting job: %w", err)
	}
	t.publish(job, "retrying")
	return job, nil
}

func (t *trackerSrv) publish(job *model.ProcessingJob, step string) {
	snap := port.ProgressSnapshot{
		Progress:    job.Progress,
		CurrentStep: step,
		ETASeconds:  t.etaSeconds(job),
	}
	if job.ErrorMessage != nil {
		snap.Message = *job.ErrorMessage
	}
	t.broker.Publish(progress.JobTopic(job.ID.String()), snap)
	t.broker.Publish(progress.SessionTopic(job.SessionID.String()), snap)
}

// etaSeconds extrapolates from elapsed time and completed share. Before any
// measurable progress there is nothing to extrapolate from.
func (t *trackerSrv) etaSeconds(job *model.ProcessingJob) int {
	if job.StartedAt == nil || job.Progress <= 0 || job.Progress >= 100 {
		return 0
	}
	elapsed := t.now().Sub(*job.StartedAt)
	remaining := elapsed * time.Duration(100-job.Progress) / time.Duration(job.Progress)
	return int(remaining.Round(time.Second) / time.Second)
}

func (t *trackerSrv) shouldPersist(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if last, ok := t.lastWrites[id]; ok && now.Sub(last) < writeCadence {
		return false
	}
	t.lastWrites[id] = now
	return true
}

func (t *trackerSrv) forget(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.lastWrites, id)
}
