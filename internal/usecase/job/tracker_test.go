package job

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// newTestTracker wires a tracker around mocks and a controllable clock.
func newTestTracker(jobs *mock.JobRepo, broker *mock.Broker) (*trackerSrv, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(jobs, broker, uuid.NewUUID).(*trackerSrv)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func queuedJob(total int) *model.ProcessingJob {
	return &model.ProcessingJob{
		ID:         uuid.NewUUID(),
		SessionID:  uuid.NewUUID(),
		Type:       model.JobTypeThumbnail,
		Status:     model.JobStatusQueued,
		TotalItems: total,
	}
}

func TestCreateJob(t *testing.T) {
	jobs := &mock.JobRepo{}
	tr, _ := newTestTracker(jobs, &mock.Broker{})

	sessionID := uuid.NewUUID()
	job, err := tr.CreateJob(context.Background(), sessionID, model.JobTypeExtraction, 12)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Status != model.JobStatusQueued || job.TotalItems != 12 {
		t.Errorf("job = %+v, want queued with 12 items", job)
	}
	if jobs.Created != job {
		t.Error("expected the job row to be persisted")
	}
}

func TestStartJob(t *testing.T) {
	jobs := &mock.JobRepo{}
	broker := &mock.Broker{}
	tr, _ := newTestTracker(jobs, broker)

	job := queuedJob(4)
	if err := tr.StartJob(context.Background(), job); err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	if job.Status != model.JobStatusProcessing || job.StartedAt == nil {
		t.Errorf("job = %+v, want processing with a start time", job)
	}
	if len(broker.Snapshots(progress.JobTopic(job.ID.String()))) != 1 {
		t.Error("expected a snapshot on the job topic")
	}
	if len(broker.Snapshots(progress.SessionTopic(job.SessionID.String()))) != 1 {
		t.Error("expected a snapshot on the session topic")
	}
}

func TestTrackProgressIsMonotonic(t *testing.T) {
	jobs := &mock.JobRepo{}
	tr, _ := newTestTracker(jobs, &mock.Broker{})

	job := queuedJob(10)
	job.Status = model.JobStatusProcessing

	tr.TrackProgress(context.Background(), job, 5, "halfway")
	if job.CurrentIndex != 5 || job.Progress != 50 {
		t.Fatalf("after index 5: index %d progress %d", job.CurrentIndex, job.Progress)
	}

	// a stale index must never walk progress backwards
	tr.TrackProgress(context.Background(), job, 3, "stale")
	if job.CurrentIndex != 5 || job.Progress != 50 {
		t.Errorf("after stale index 3: index %d progress %d, want 5/50", job.CurrentIndex, job.Progress)
	}
}

func TestTrackProgressThrottlesWrites(t *testing.T) {
	jobs := &mock.JobRepo{}
	broker := &mock.Broker{}
	tr, now := newTestTracker(jobs, broker)

	job := queuedJob(100)
	job.Status = model.JobStatusProcessing

	tr.TrackProgress(context.Background(), job, 1, "a")
	tr.TrackProgress(context.Background(), job, 2, "b")
	tr.TrackProgress(context.Background(), job, 3, "c")

	if jobs.UpdateCount != 1 {
		t.Errorf("expected 1 database write inside one cadence window, got %d", jobs.UpdateCount)
	}
	if got := len(broker.Snapshots(progress.JobTopic(job.ID.String()))); got != 3 {
		t.Errorf("every call should reach subscribers, got %d snapshots", got)
	}

	*now = now.Add(writeCadence)
	tr.TrackProgress(context.Background(), job, 4, "d")
	if jobs.UpdateCount != 2 {
		t.Errorf("expected a second write after the cadence elapsed, got %d", jobs.UpdateCount)
	}
}

func TestCompleteJobForcesFullProgress(t *testing.T) {
	jobs := &mock.JobRepo{}
	broker := &mock.Broker{}
	tr, _ := newTestTracker(jobs, broker)

	job := queuedJob(8)
	job.Status = model.JobStatusProcessing
	job.CurrentIndex = 6
	job.Progress = 75

	itemErrs := model.ItemErrors{{Index: 2, Name: "bad.jpg", Error: "corrupt"}}
	if err := tr.CompleteJob(context.Background(), job, itemErrs); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	if job.Status != model.JobStatusCompleted {
		t.Errorf("status = %q, want completed despite item errors", job.Status)
	}
	if job.Progress != 100 || job.CurrentIndex != 8 {
		t.Errorf("progress %d index %d, want 100/8", job.Progress, job.CurrentIndex)
	}
	if job.CompletedAt == nil || len(job.ItemErrors) != 1 {
		t.Errorf("completion metadata missing: %+v", job)
	}

	snaps := broker.Snapshots(progress.JobTopic(job.ID.String()))
	if len(snaps) != 1 || snaps[0].CurrentStep != "done" {
		t.Errorf("expected a final 'done' snapshot, got %+v", snaps)
	}
}

func TestCompleteJobNotifiesSession(t *testing.T) {
	jobs := &mock.JobRepo{}
	broker := &mock.Broker{}
	tr, _ := newTestTracker(jobs, broker)

	job := queuedJob(8)
	job.Status = model.JobStatusProcessing

	itemErrs := model.ItemErrors{{Index: 2, Name: "bad.jpg", Error: "corrupt"}}
	if err := tr.CompleteJob(context.Background(), job, itemErrs); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	snaps := broker.Snapshots(progress.SessionTopic(job.SessionID.String()))
	if len(snaps) == 0 {
		t.Fatal("expected snapshots on the session topic")
	}
	summary := snaps[len(snaps)-1]
	if summary.Message != "7 files ready for review" {
		t.Errorf("summary message = %q, want the ready-file count", summary.Message)
	}
	if summary.Link != "/sessions/"+job.SessionID.String() {
		t.Errorf("summary link = %q, want the session resource", summary.Link)
	}
	if summary.Progress != 100 {
		t.Errorf("summary progress = %d, want 100", summary.Progress)
	}
}

func TestFailJobRequiresMessage(t *testing.T) {
	jobs := &mock.JobRepo{}
	tr, _ := newTestTracker(jobs, &mock.Broker{})

	job := queuedJob(5)
	if err := tr.FailJob(context.Background(), job, 2, ""); !errors.Is(err, ErrEmptyFailure) {
		t.Fatalf("got %v, want ErrEmptyFailure", err)
	}
	if jobs.UpdateCalled {
		t.Error("a rejected failure must not touch the database")
	}

	if err := tr.FailJob(context.Background(), job, 2, "decode error"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}
	if job.Status != model.JobStatusFailed {
		t.Errorf("status = %q, want failed", job.Status)
	}
	if job.FailedIndex == nil || *job.FailedIndex != 2 {
		t.Errorf("failed index = %v, want 2", job.FailedIndex)
	}
	if job.ErrorMessage == nil || *job.ErrorMessage != "decode error" {
		t.Errorf("error message = %v", job.ErrorMessage)
	}
}

func TestRetryJobResumesFromFailedIndex(t *testing.T) {
	failedAt := 6
	msg := "boom"
	doneAt := time.Now()
	job := queuedJob(10)
	job.Status = model.JobStatusFailed
	job.FailedIndex = &failedAt
	job.ErrorMessage = &msg
	job.CompletedAt = &doneAt
	job.Progress = 60

	jobs := &mock.JobRepo{JobRecord: job}
	tr, _ := newTestTracker(jobs, &mock.Broker{})

	got, err := tr.RetryJob(context.Background(), port.RetryJobInput{JobID: job.ID})
	if err != nil {
		t.Fatalf("RetryJob: %v", err)
	}
	if got != job {
		t.Fatal("a retry must mutate the same row, not create a new job")
	}
	if job.Status != model.JobStatusQueued || job.CurrentIndex != failedAt {
		t.Errorf("job = %+v, want queued resuming at %d", job, failedAt)
	}
	if job.ErrorMessage != nil || job.FailedIndex != nil || job.CompletedAt != nil {
		t.Error("retry must clear the failure fields")
	}
	if job.Progress != 60 {
		t.Errorf("progress = %d, want 60 for a resume at 6/10", job.Progress)
	}
}

func TestRetryJobHonoursExplicitIndex(t *testing.T) {
	failedAt := 6
	job := queuedJob(10)
	job.Status = model.JobStatusFailed
	job.FailedIndex = &failedAt

	jobs := &mock.JobRepo{JobRecord: job}
	tr, _ := newTestTracker(jobs, &mock.Broker{})

	from := 0
	if _, err := tr.RetryJob(context.Background(), port.RetryJobInput{JobID: job.ID, FromIndex: &from}); err != nil {
		t.Fatalf("RetryJob: %v", err)
	}
	if job.CurrentIndex != 0 || job.Progress != 0 {
		t.Errorf("explicit index 0 should restart from scratch, got %d/%d", job.CurrentIndex, job.Progress)
	}
}

func TestRetryJobRejections(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		tr, _ := newTestTracker(&mock.JobRepo{GetErr: sql.ErrNoRows}, &mock.Broker{})
		if _, err := tr.RetryJob(context.Background(), port.RetryJobInput{JobID: uuid.NewUUID()}); !errors.Is(err, ErrJobNotFound) {
			t.Errorf("got %v, want ErrJobNotFound", err)
		}
	})

	t.Run("not failed", func(t *testing.T) {
		job := queuedJob(5)
		job.Status = model.JobStatusProcessing
		tr, _ := newTestTracker(&mock.JobRepo{JobRecord: job}, &mock.Broker{})
		if _, err := tr.RetryJob(context.Background(), port.RetryJobInput{JobID: job.ID}); !errors.Is(err, ErrJobNotFailed) {
			t.Errorf("got %v, want ErrJobNotFailed", err)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		job := queuedJob(5)
		job.Status = model.JobStatusFailed
		tr, _ := newTestTracker(&mock.JobRepo{JobRecord: job}, &mock.Broker{})
		from := 5
		if _, err := tr.RetryJob(context.Background(), port.RetryJobInput{JobID: job.ID, FromIndex: &from}); !errors.Is(err, ErrBadRetryIndex) {
			t.Errorf("got %v, want ErrBadRetryIndex", err)
		}
	})
}

func TestETAExtrapolation(t *testing.T) {
	broker := &mock.Broker{}
	tr, now := newTestTracker(&mock.JobRepo{}, broker)

	started := *now
	job := queuedJob(10)
	job.Status = model.JobStatusProcessing
	job.StartedAt = &started

	// 5 of 10 done after 20 seconds: 20 more to go
	*now = now.Add(20 * time.Second)
	tr.TrackProgress(context.Background(), job, 5, "halfway")

	snaps := broker.Snapshots(progress.JobTopic(job.ID.String()))
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snaps))
	}
	if snaps[0].ETASeconds != 20 {
		t.Errorf("ETA = %ds, want 20s", snaps[0].ETASeconds)
	}
}
