package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/port"
)

func GetJobHandler(repo port.JobRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := api_context.JobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "job ID is required", nil)
			return
		}

		job, err := repo.GetByID(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteError(w, http.StatusNotFound, "job not found", nil)
				return
			}
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("could not fetch job #%s", jobID), err)
			return
		}

		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		RespondJSON(w, http.StatusOK, job)
	}
}
