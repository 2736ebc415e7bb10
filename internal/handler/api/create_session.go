package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/session"
	"github.com/fhuszti/creatives-ms-go/internal/validation"
)

type CreateSessionRequest struct {
	Kind  string          `json:"kind" validate:"required,oneof=single multiple archive"`
	Files []port.FileMeta `json:"files" validate:"required,min=1,max=500,dive"`
}

func CreateSessionHandler(svc port.SessionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "Validation error (could not encode details)", fmt.Errorf("encoding validation errors: %w", err))
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		in := port.CreateSessionInput{Kind: req.Kind, Files: req.Files}
		if owner, ok := api_context.AuthOwnerIDFromContext(r.Context()); ok {
			in.OwnerID = &owner
		}

		out, err := svc.CreateSession(r.Context(), in)
		if err != nil {
			if isSessionRejection(err) {
				WriteError(w, http.StatusUnprocessableEntity, err.Error(), nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, "Could not create upload session", err)
			return
		}

		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully created session #%s with %d upload targets", out.SessionID, len(out.Targets))
	}
}

// isSessionRejection separates client mistakes from server faults.
func isSessionRejection(err error) bool {
	return errors.Is(err, session.ErrNoFiles) ||
		errors.Is(err, session.ErrTooManyFiles) ||
		errors.Is(err, session.ErrTooManyBytes) ||
		errors.Is(err, session.ErrBatchTooLarge) ||
		errors.Is(err, session.ErrMimeNotAllowed) ||
		errors.Is(err, session.ErrWrongKind)
}
