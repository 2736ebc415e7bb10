package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/logger"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/usecase/upload"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

func FinaliseUploadHandler(svc port.UploadFinaliser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := api_context.SessionIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "session ID is required", nil)
			return
		}

		rawFileID := chi.URLParam(r, "fileID")
		fileID, err := uuid.Parse(rawFileID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("file ID %q is not a valid UUID", rawFileID), nil)
			return
		}

		in := port.FinaliseUploadInput{
			SessionID: sessionID,
			AssetID:   fileID,
		}
		asset, err := svc.FinaliseUpload(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrAssetNotFound):
				WriteError(w, http.StatusNotFound, "asset not found", nil)
			case errors.Is(err, upload.ErrSessionMismatch):
				WriteError(w, http.StatusNotFound, "asset does not belong to this session", nil)
			case errors.Is(err, upload.ErrUnsafeContent):
				WriteError(w, http.StatusUnprocessableEntity, err.Error(), nil)
			default:
				WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not finalise upload of asset #%s", in.AssetID), err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, asset)
		logger.Infof(r.Context(), "✅  Successfully finalised upload of asset #%s", asset.ID)
	}
}
