package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/fhuszti/creatives-ms-go/internal/validation"
)

type FinaliseBatchRequest struct {
	AssetIDs        []string `json:"asset_ids" validate:"required,min=1,max=500,dive,uuid"`
	ContinueOnError *bool    `json:"continue_on_error"`
}

func FinaliseBatchHandler(svc port.BatchFinaliser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := api_context.SessionIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "session ID is required", nil)
			return
		}

		var req FinaliseBatchRequest
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

		assetIDs := make([]uuid.UUID, 0, len(req.AssetIDs))
		for _, raw := range req.AssetIDs {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("asset ID %q is not a valid UUID", raw), nil)
				return
			}
			assetIDs = append(assetIDs, parsed)
		}

		continueOnError := true
		if req.ContinueOnError != nil {
			continueOnError = *req.ContinueOnError
		}

		out, err := svc.FinaliseBatch(r.Context(), port.FinaliseBatchInput{
			SessionID:       sessionID,
			AssetIDs:        assetIDs,
			ContinueOnError: continueOnError,
		})
		if err != nil {
			if errors.Is(err, upload.ErrEmptyBatch) {
				WriteError(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not finalise batch for session #%s", sessionID), err)
			return
		}

		RespondJSON(w, http.StatusOK, out)
		logger.Infof(r.Context(), "✅  Finalised batch for session #%s: %d succeeded, %d failed", sessionID, out.Succeeded, len(out.Failed))
	}
}
