package port

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous background work by job id.
type TaskDispatcher interface {
	EnqueueExtractArchive(ctx context.Context, jobID uuid.UUID) error
	EnqueueGenerateThumbnails(ctx context.Context, jobID uuid.UUID) error
}
