package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func processRequest(sessionID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID.String()+"/process", nil)
	return req.WithContext(context.WithValue(req.Context(), api_context.SessionIDKey, sessionID))
}

func TestBeginProcessingHandler(t *testing.T) {
	tests := []struct {
		name       string
		svcOut     port.BeginProcessingOutput
		svcErr     error
		wantStatus int
	}{
		{
			name:       "queued jobs respond 202",
			svcOut:     port.BeginProcessingOutput{Jobs: []*model.ProcessingJob{{ID: uuid.NewUUID()}}},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "inline runs respond 200",
			svcOut:     port.BeginProcessingOutput{Inline: true, Jobs: []*model.ProcessingJob{{ID: uuid.NewUUID()}}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "session not found",
			svcErr:     session.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "nothing to process",
			svcErr:     upload.ErrNothingToProcess,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.ProcessingStarter{Out: tc.svcOut, Err: tc.svcErr}
			rec := httptest.NewRecorder()
			BeginProcessingHandler(svc)(rec, processRequest(uuid.NewUUID()))

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}
