package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
)

func DeleteSessionHandler(svc port.SessionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := api_context.SessionIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "session ID is required", nil)
			return
		}

		in := port.DeleteSessionInput{SessionID: sessionID, CallerID: callerID(r)}
		if err := svc.DeleteSession(r.Context(), in); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				WriteError(w, http.StatusNotFound, "session not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not delete session #%s", sessionID), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully deleted session #%s", sessionID)
	}
}
