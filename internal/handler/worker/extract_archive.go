package worker

import (
	"context"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/task"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/fhuszti/creatives-ms-go/internal/validation"
)

// ExtractArchiveHandler handles an extract-archive task.
// It validates the incoming payload and delegates the call to the service.
func ExtractArchiveHandler(ctx context.Context, p task.JobPayload, svc port.ArchiveProcessor) error {
	if err := validation.ValidateStruct(p); err != nil {
		log.Printf("❌  Payload validation failed: %v", err)
		return err
	}

	jobID, err := uuid.Parse(p.JobID)
	if err != nil {
		log.Printf("❌  Job ID %q is not a valid UUID: %v", p.JobID, err)
		return err
	}
	if err := svc.ProcessArchive(ctx, jobID); err != nil {
		log.Printf("❌  Failed to process archive for job #%s: %v", jobID, err)
		return err
	}

	log.Printf("✅  Successfully processed archive for job #%s", jobID)
	return nil
}
