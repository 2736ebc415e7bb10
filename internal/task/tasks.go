package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeExtractArchive     = "session:extract_archive"
	TypeGenerateThumbnails = "session:generate_thumbnails"
)

type JobPayload struct {
	JobID string `json:"job_id" validate:"required,uuid"`
}

// NewExtractArchiveTask creates an Asynq task for extracting the archive
// referenced by a processing job.
func NewExtractArchiveTask(jobID string) (*asynq.Task, error) {
	data, err := json.Marshal(JobPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal extract-archive payload: %w", err)
	}
	return asynq.NewTask(TypeExtractArchive, data), nil
}

// NewGenerateThumbnailsTask creates an Asynq task for the thumbnail batch
// referenced by a processing job.
func NewGenerateThumbnailsTask(jobID string) (*asynq.Task, error) {
	data, err := json.Marshal(JobPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal generate-thumbnails payload: %w", err)
	}
	return asynq.NewTask(TypeGenerateThumbnails, data), nil
}

// ParseJobPayload parses a task payload to JobPayload.
func ParseJobPayload(t *asynq.Task) (JobPayload, error) {
	var p JobPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return JobPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
