package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/task"
	csuuid "github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func TestGenerateThumbnailsHandler_InvalidID(t *testing.T) {
	svc := &mock.ThumbnailBatcher{}
	err := GenerateThumbnailsHandler(context.Background(), task.JobPayload{JobID: "not-a-uuid"}, svc)
	if err == nil {
		t.Fatal("expected error for invalid UUID")
	}
	if svc.Called {
		t.Error("service should not be called on invalid id")
	}
}

func TestGenerateThumbnailsHandler_ServiceError(t *testing.T) {
	jobID := csuuid.NewUUID()
	svcErr := errors.New("svc fail")
	svc := &mock.ThumbnailBatcher{Err: svcErr}

	err := GenerateThumbnailsHandler(context.Background(), task.JobPayload{JobID: jobID.String()}, svc)
	if !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	if !svc.Called {
		t.Error("service not called")
	}
	if svc.JobID != jobID {
		t.Errorf("service got id %s; want %s", svc.JobID, jobID)
	}
}

func TestGenerateThumbnailsHandler_Success(t *testing.T) {
	jobID := csuuid.NewUUID()
	svc := &mock.ThumbnailBatcher{}

	err := GenerateThumbnailsHandler(context.Background(), task.JobPayload{JobID: jobID.String()}, svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Called {
		t.Error("service not called")
	}
	if svc.JobID != jobID {
		t.Errorf("service got id %s; want %s", svc.JobID, jobID)
	}
}
