package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/job"
)

type RetryJobRequest struct {
	FromIndex *int `json:"from_index" validate:"omitempty,min=0"`
}

// RetryJobHandler resets a failed job and puts it back on the queue. The
// optional from_index overrides the recorded failing index.
func RetryJobHandler(tracker port.JobTracker, dispatcher port.TaskDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.JobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "job ID is required", nil)
			return
		}

		var req RetryJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		retried, err := tracker.RetryJob(r.Context(), port.RetryJobInput{JobID: jobID, FromIndex: req.FromIndex})
		if err != nil {
			switch {
			case errors.Is(err, job.ErrJobNotFound):
				WriteError(w, http.StatusNotFound, "job not found", nil)
			case errors.Is(err, job.ErrJobNotFailed), errors.Is(err, job.ErrBadRetryIndex):
				WriteError(w, http.StatusConflict, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not retry job #%s", jobID), err)
			}
			return
		}

		if err := enqueue(r, dispatcher, retried); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not re-enqueue job #%s", jobID), err)
			return
		}

		RespondJSON(w, http.StatusAccepted, retried)
		logger.Infof(r.Context(), "✅  Successfully re-enqueued job #%s from index %d", retried.ID, retried.CurrentIndex)
	}
}

func enqueue(r *http.Request, dispatcher port.TaskDispatcher, j *model.ProcessingJob) error {
	switch j.Type {
	case model.JobTypeExtraction:
		return dispatcher.EnqueueExtractArchive(r.Context(), j.ID)
	case model.JobTypeThumbnail:
		return dispatcher.EnqueueGenerateThumbnails(r.Context(), j.ID)
	default:
		return fmt.Errorf("no queue route for job type %q", j.Type)
	}
}
