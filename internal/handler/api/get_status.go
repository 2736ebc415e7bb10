package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
)

func GetStatusHandler(svc port.StatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := api_context.SessionIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "session ID is required", nil)
			return
		}

		in := port.GetStatusInput{
			SessionID:     sessionID,
			IncludeAssets: r.URL.Query().Get("include_assets") == "true",
			CallerID:      callerID(r),
		}
		out, err := svc.GetStatus(r.Context(), in)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				WriteError(w, http.StatusNotFound, "session not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not fetch status of session #%s", sessionID), err)
			return
		}

		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		RespondJSON(w, http.StatusOK, out)
	}
}
