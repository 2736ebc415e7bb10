package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMethodNotAllowedHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/sessions", nil)
	rec := httptest.NewRecorder()
	MethodNotAllowedHandler()(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d; want 405", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "PATCH is not allowed") {
		t.Errorf("body = %q; want the offending method named", rec.Body.String())
	}
}
