package mock

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// SessionCreator implements port.SessionCreator for tests.
type SessionCreator struct {
	Out port.CreateSessionOutput
	Err error

	Called bool
	In     port.CreateSessionInput
}

func (m *SessionCreator) CreateSession(ctx context.Context, in port.CreateSessionInput) (port.CreateSessionOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// UploadFinaliser implements port.UploadFinaliser for tests.
type UploadFinaliser struct {
	Out *model.CreativeAsset
	Err error

	Called bool
	Ins    []port.FinaliseUploadInput
	// PerAsset overrides Err for specific asset ids.
	PerAsset map[uuid.UUID]error
}

func (m *UploadFinaliser) FinaliseUpload(ctx context.Context, in port.FinaliseUploadInput) (*model.CreativeAsset, error) {
	m.Called = true
	m.Ins = append(m.Ins, in)
	if m.PerAsset != nil {
		if err, ok := m.PerAsset[in.AssetID]; ok {
			return nil, err
		}
	}
	return m.Out, m.Err
}

// BatchFinaliser implements port.BatchFinaliser for tests.
type BatchFinaliser struct {
	Out port.FinaliseBatchOutput
	Err error

	Called bool
	In     port.FinaliseBatchInput
}

func (m *BatchFinaliser) FinaliseBatch(ctx context.Context, in port.FinaliseBatchInput) (port.FinaliseBatchOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// ProcessingStarter implements port.ProcessingStarter for tests.
type ProcessingStarter struct {
	Out port.BeginProcessingOutput
	Err error

	Called bool
	In     port.BeginProcessingInput
}

func (m *ProcessingStarter) BeginProcessing(ctx context.Context, in port.BeginProcessingInput) (port.BeginProcessingOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// ArchiveProcessor implements port.ArchiveProcessor for tests.
type ArchiveProcessor struct {
	Err error

	Called bool
	JobID  uuid.UUID
}

func (m *ArchiveProcessor) ProcessArchive(ctx context.Context, jobID uuid.UUID) error {
	m.Called = true
	m.JobID = jobID
	return m.Err
}

// ThumbnailBatcher implements port.ThumbnailBatcher for tests.
type ThumbnailBatcher struct {
	Err error

	Called bool
	JobID  uuid.UUID
}

func (m *ThumbnailBatcher) GenerateThumbnails(ctx context.Context, jobID uuid.UUID) error {
	m.Called = true
	m.JobID = jobID
	return m.Err
}

// StatusGetter implements port.StatusGetter for tests.
type StatusGetter struct {
	Out *port.GetStatusOutput
	Err error

	Called bool
	In     port.GetStatusInput
}

func (m *StatusGetter) GetStatus(ctx context.Context, in port.GetStatusInput) (*port.GetStatusOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// SessionDeleter implements port.SessionDeleter for tests.
type SessionDeleter struct {
	Err error

	Called bool
	In     port.DeleteSessionInput
}

func (m *SessionDeleter) DeleteSession(ctx context.Context, in port.DeleteSessionInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

// Tracker implements port.JobTracker for tests.
type Tracker struct {
	CreateOut *model.ProcessingJob
	RetryOut  *model.ProcessingJob

	CreateErr   error
	StartErr    error
	CompleteErr error
	FailErr     error
	RetryErr    error

	CreateCalled   bool
	StartCalled    bool
	ProgressCalls  int
	CompleteCalled bool
	FailCalled     bool
	RetryCalled    bool

	CompletedErrs model.ItemErrors
	FailedIndex   int
	FailedMessage string
	RetryIn       port.RetryJobInput
}

func (m *Tracker) CreateJob(ctx context.Context, sessionID uuid.UUID, jobType string, totalItems int) (*model.ProcessingJob, error) {
	m.CreateCalled = true
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.CreateOut != nil {
		return m.CreateOut, nil
	}
	return &model.ProcessingJob{
		ID:         uuid.NewUUID(),
		SessionID:  sessionID,
		Type:       jobType,
		Status:     model.JobStatusQueued,
		TotalItems: totalItems,
	}, nil
}

func (m *Tracker) StartJob(ctx context.Context, job *model.ProcessingJob) error {
	m.StartCalled = true
	if m.StartErr != nil {
		return m.StartErr
	}
	job.Status = model.JobStatusProcessing
	return nil
}

func (m *Tracker) TrackProgress(ctx context.Context, job *model.ProcessingJob, index int, step string) {
	m.ProgressCalls++
	if index > job.CurrentIndex {
		job.CurrentIndex = index
	}
}

func (m *Tracker) CompleteJob(ctx context.Context, job *model.ProcessingJob, itemErrs model.ItemErrors) error {
	m.CompleteCalled = true
	if m.CompleteErr != nil {
		return m.CompleteErr
	}
	job.Status = model.JobStatusCompleted
	job.Progress = 100
	m.CompletedErrs = itemErrs
	return nil
}

func (m *Tracker) FailJob(ctx context.Context, job *model.ProcessingJob, failedIndex int, message string) error {
	m.FailCalled = true
	if m.FailErr != nil {
		return m.FailErr
	}
	job.Status = model.JobStatusFailed
	m.FailedIndex = failedIndex
	m.FailedMessage = message
	return nil
}

func (m *Tracker) RetryJob(ctx context.Context, in port.RetryJobInput) (*model.ProcessingJob, error) {
	m.RetryCalled = true
	m.RetryIn = in
	return m.RetryOut, m.RetryErr
}
