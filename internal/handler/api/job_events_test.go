package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/progress"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func TestJobEventsHandlerStreamsSnapshots(t *testing.T) {
	jobID := uuid.NewUUID()
	hub := progress.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, api_context.JobIDKey, jobID)
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID.String()+"/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		JobEventsHandler(hub)(rec, req)
	}()

	// let the handler subscribe before publishing
	time.Sleep(50 * time.Millisecond)
	hub.Publish(progress.JobTopic(jobID.String()), port.ProgressSnapshot{Progress: 42, CurrentStep: "extracting banner.jpg"})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, ": connected\n\n") {
		t.Errorf("body should open with a keepalive, got %q", body)
	}
	if !strings.Contains(body, "event: progress\n") {
		t.Errorf("body = %q; want a progress event", body)
	}
	if !strings.Contains(body, `"progress_percentage":42`) {
		t.Errorf("body = %q; want the published snapshot", body)
	}
}

func TestJobEventsHandlerMissingJobID(t *testing.T) {
	rec := httptest.NewRecorder()
	JobEventsHandler(progress.NewHub())(rec, httptest.NewRequest(http.MethodGet, "/jobs/x/events", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400 without a parsed job ID", rec.Code)
	}
}
