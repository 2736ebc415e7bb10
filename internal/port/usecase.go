package port

import (
	"context"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// FileMeta is the client-declared description of one file to upload.
type FileMeta struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
}

// FileTarget is one time-limited presigned write target.
type FileTarget struct {
	AssetID  uuid.UUID `json:"asset_id"`
	Filename string    `json:"filename"`
	URL      string    `json:"url"`
	Expiry   time.Time `json:"expiry"`
}

// SessionCreator opens an upload session and hands out write targets.
type SessionCreator interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (CreateSessionOutput, error)
}
type CreateSessionInput struct {
	OwnerID *string
	Kind    string
	Files   []FileMeta
}
type CreateSessionOutput struct {
	SessionID uuid.UUID    `json:"session_id"`
	Targets   []FileTarget `json:"targets"`
}

// UploadFinaliser validates one staged file, scans it, and promotes it to
// permanent storage as a completed asset.
type UploadFinaliser interface {
	FinaliseUpload(ctx context.Context, in FinaliseUploadInput) (*model.CreativeAsset, error)
}
type FinaliseUploadInput struct {
	SessionID uuid.UUID
	AssetID   uuid.UUID
}

// BatchFinaliser finalises many staged files with bounded concurrency and
// partial-failure semantics.
type BatchFinaliser interface {
	FinaliseBatch(ctx context.Context, in FinaliseBatchInput) (FinaliseBatchOutput, error)
}
type FinaliseBatchInput struct {
	SessionID       uuid.UUID
	AssetIDs        []uuid.UUID
	MaxConcurrent   int
	ContinueOnError bool
}
type FinaliseBatchOutput struct {
	Succeeded int              `json:"succeeded"`
	Failed    model.ItemErrors `json:"failed,omitempty"`
}

// ProcessingStarter decides sync-vs-background and kicks off the
// post-upload processing of a session.
type ProcessingStarter interface {
	BeginProcessing(ctx context.Context, in BeginProcessingInput) (BeginProcessingOutput, error)
}
type BeginProcessingInput struct {
	SessionID uuid.UUID
}
type BeginProcessingOutput struct {
	Jobs   []*model.ProcessingJob `json:"jobs"`
	Inline bool                   `json:"inline"`
}

// ArchiveProcessor runs the extract → classify → organise pipeline for the
// archive referenced by a job.
type ArchiveProcessor interface {
	ProcessArchive(ctx context.Context, jobID uuid.UUID) error
}

// ThumbnailBatcher generates previews for the session referenced by a job.
type ThumbnailBatcher interface {
	GenerateThumbnails(ctx context.Context, jobID uuid.UUID) error
}

// StatusGetter serves the poll path of progress observation.
type StatusGetter interface {
	GetStatus(ctx context.Context, in GetStatusInput) (*GetStatusOutput, error)
}
type GetStatusInput struct {
	SessionID     uuid.UUID
	IncludeAssets bool
	// CallerID is the authenticated identity making the request, nil for
	// anonymous callers. Owned sessions are only visible to their owner.
	CallerID *string
}
type GetStatusOutput struct {
	Session *model.UploadSession   `json:"session"`
	Jobs    []*model.ProcessingJob `json:"jobs"`
	Sets    []*model.CreativeSet   `json:"sets,omitempty"`
	Assets  []*model.CreativeAsset `json:"assets,omitempty"`
}

// JobTracker drives the persisted job state machine.
type JobTracker interface {
	CreateJob(ctx context.Context, sessionID uuid.UUID, jobType string, totalItems int) (*model.ProcessingJob, error)
	StartJob(ctx context.Context, job *model.ProcessingJob) error
	TrackProgress(ctx context.Context, job *model.ProcessingJob, index int, step string)
	CompleteJob(ctx context.Context, job *model.ProcessingJob, itemErrs model.ItemErrors) error
	FailJob(ctx context.Context, job *model.ProcessingJob, failedIndex int, message string) error
	RetryJob(ctx context.Context, in RetryJobInput) (*model.ProcessingJob, error)
}
type RetryJobInput struct {
	JobID     uuid.UUID
	FromIndex *int
}

// SessionDeleter removes a session, its children and their stored objects.
// Deletion is always explicit, never implicit.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, in DeleteSessionInput) error
}
type DeleteSessionInput struct {
	SessionID uuid.UUID
	CallerID  *string
}
