package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
)

func BeginProcessingHandler(svc port.ProcessingStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := api_context.SessionIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "session ID is required", nil)
			return
		}

		out, err := svc.BeginProcessing(r.Context(), port.BeginProcessingInput{SessionID: sessionID})
		if err != nil {
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				WriteError(w, http.StatusNotFound, "session not found", nil)
			case errors.Is(err, upload.ErrNothingToProcess):
				WriteError(w, http.StatusConflict, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not start processing for session #%s", sessionID), err)
			}
			return
		}

		status := http.StatusAccepted
		if out.Inline {
			status = http.StatusOK
		}
		RespondJSON(w, status, out)
		logger.Infof(r.Context(), "✅  Started processing for session #%s (%d jobs, inline=%t)", sessionID, len(out.Jobs), out.Inline)
	}
}
