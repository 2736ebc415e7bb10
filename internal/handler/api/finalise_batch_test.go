package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func batchRequest(sessionID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID.String()+"/finalise", strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), api_context.SessionIDKey, sessionID))
}

func TestFinaliseBatchHandler(t *testing.T) {
	sessionID := uuid.NewUUID()
	idA := uuid.NewUUID()
	idB := uuid.NewUUID()

	svc := &mock.BatchFinaliser{Out: port.FinaliseBatchOutput{Succeeded: 2}}
	body := fmt.Sprintf(`{"asset_ids":[%q,%q]}`, idA, idB)
	rec := httptest.NewRecorder()
	FinaliseBatchHandler(svc)(rec, batchRequest(sessionID, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if svc.In.SessionID != sessionID || len(svc.In.AssetIDs) != 2 {
		t.Errorf("service input = %+v", svc.In)
	}
	if svc.In.AssetIDs[0] != idA || svc.In.AssetIDs[1] != idB {
		t.Errorf("asset IDs = %v; want [%s %s]", svc.In.AssetIDs, idA, idB)
	}
	if !svc.In.ContinueOnError {
		t.Error("continue_on_error should default to true")
	}
}

func TestFinaliseBatchHandlerContinueOnErrorOff(t *testing.T) {
	sessionID := uuid.NewUUID()
	svc := &mock.BatchFinaliser{}
	body := fmt.Sprintf(`{"asset_ids":[%q],"continue_on_error":false}`, uuid.NewUUID())
	rec := httptest.NewRecorder()
	FinaliseBatchHandler(svc)(rec, batchRequest(sessionID, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if svc.In.ContinueOnError {
		t.Error("continue_on_error=false should be forwarded")
	}
}

func TestFinaliseBatchHandlerRejections(t *testing.T) {
	tests := []struct {
		name             string
		body             string
		wantStatus       int
		wantBodyContains string
	}{
		{"invalid JSON", `{"asset_ids":`, http.StatusBadRequest, "Invalid request"},
		{"empty list", `{"asset_ids":[]}`, http.StatusBadRequest, "asset_ids"},
		{"bad uuid", `{"asset_ids":["not-a-uuid"]}`, http.StatusBadRequest, "asset_ids"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.BatchFinaliser{}
			rec := httptest.NewRecorder()
			FinaliseBatchHandler(svc)(rec, batchRequest(uuid.NewUUID(), tc.body))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called {
				t.Error("a rejected request must not reach the service")
			}
			if !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %s; want it to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
		})
	}
}
