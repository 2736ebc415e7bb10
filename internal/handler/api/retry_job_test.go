package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/job"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func retryRequest(jobID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/jobs/"+jobID.String()+"/retry", strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), api_context.JobIDKey, jobID))
}

func TestRetryJobHandler(t *testing.T) {
	jobID := uuid.NewUUID()
	extraction := &model.ProcessingJob{ID: jobID, Type: model.JobTypeExtraction, Status: model.JobStatusQueued, CurrentIndex: 3}
	thumbnails := &model.ProcessingJob{ID: jobID, Type: model.JobTypeThumbnail, Status: model.JobStatusQueued}

	tests := []struct {
		name             string
		body             string
		retryOut         *model.ProcessingJob
		retryErr         error
		wantStatus       int
		wantExtractQd    bool
		wantThumbnailQd  bool
		wantBodyContains string
	}{
		{
			name:          "extraction retry with empty body",
			body:          "",
			retryOut:      extraction,
			wantStatus:    http.StatusAccepted,
			wantExtractQd: true,
		},
		{
			name:            "thumbnail retry with explicit index",
			body:            `{"from_index":0}`,
			retryOut:        thumbnails,
			wantStatus:      http.StatusAccepted,
			wantThumbnailQd: true,
		},
		{
			name:             "job not found",
			retryErr:         job.ErrJobNotFound,
			wantStatus:       http.StatusNotFound,
			wantBodyContains: "job not found",
		},
		{
			name:             "job not failed",
			retryErr:         job.ErrJobNotFailed,
			wantStatus:       http.StatusConflict,
			wantBodyContains: "only failed jobs",
		},
		{
			name:             "bad index",
			body:             `{"from_index":99}`,
			retryErr:         job.ErrBadRetryIndex,
			wantStatus:       http.StatusConflict,
			wantBodyContains: "out of range",
		},
		{
			name:             "invalid JSON",
			body:             `{"from_index":`,
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: "Invalid request",
		},
		{
			name:             "tracker error",
			retryErr:         errors.New("db down"),
			wantStatus:       http.StatusInternalServerError,
			wantBodyContains: "could not retry",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tracker := &mock.Tracker{RetryOut: tc.retryOut, RetryErr: tc.retryErr}
			dispatcher := &mock.Dispatcher{}
			rec := httptest.NewRecorder()
			RetryJobHandler(tracker, dispatcher)(rec, retryRequest(jobID, tc.body))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if dispatcher.ExtractCalled != tc.wantExtractQd {
				t.Errorf("extract enqueued = %t; want %t", dispatcher.ExtractCalled, tc.wantExtractQd)
			}
			if dispatcher.ThumbnailsCalled != tc.wantThumbnailQd {
				t.Errorf("thumbnails enqueued = %t; want %t", dispatcher.ThumbnailsCalled, tc.wantThumbnailQd)
			}
			if tc.wantBodyContains != "" && !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %s; want it to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
		})
	}
}

func TestRetryJobHandlerForwardsFromIndex(t *testing.T) {
	jobID := uuid.NewUUID()
	tracker := &mock.Tracker{RetryOut: &model.ProcessingJob{ID: jobID, Type: model.JobTypeThumbnail}}
	rec := httptest.NewRecorder()
	RetryJobHandler(tracker, &mock.Dispatcher{})(rec, retryRequest(jobID, `{"from_index":4}`))

	if tracker.RetryIn.JobID != jobID {
		t.Errorf("job ID = %s; want %s", tracker.RetryIn.JobID, jobID)
	}
	if tracker.RetryIn.FromIndex == nil || *tracker.RetryIn.FromIndex != 4 {
		t.Errorf("from index = %v; want 4", tracker.RetryIn.FromIndex)
	}
}

func TestRetryJobHandlerMissingJobID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/jobs/x/retry", nil)
	rec := httptest.NewRecorder()
	RetryJobHandler(&mock.Tracker{}, &mock.Dispatcher{})(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400 without a parsed job ID", rec.Code)
	}
}
