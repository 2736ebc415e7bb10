package worker

import (
	"context"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/task"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/fhuszti/creatives-ms-go/internal/validation"
)

// GenerateThumbnailsHandler handles a generate-thumbnails task.
// It validates the incoming payload and delegates the call to the service.
func GenerateThumbnailsHandler(ctx context.Context, p task.JobPayload, svc port.ThumbnailBatcher) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	jobID, err := uuid.Parse(p.JobID)
	if err != nil {
		log.Printf("❌  Job ID %q is not a valid UUID: %v", p.JobID, err)
		return err
	}
	if err := svc.GenerateThumbnails(ctx, jobID); err != nil {
		log.Printf("❌  Failed to generate thumbnails for job #%s: %v", jobID, err)
		return err
	}

	log.Printf("✅  Successfully generated thumbnails for job #%s", jobID)
	return nil
}
