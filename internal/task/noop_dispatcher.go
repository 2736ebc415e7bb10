package task

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueExtractArchive(ctx context.Context, jobID uuid.UUID) error {
	return nil
}

func (d *NoopDispatcher) EnqueueGenerateThumbnails(ctx context.Context, jobID uuid.UUID) error {
	return nil
}
