package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fhuszti/creatives-ms-go/internal/api_context"
	"github.com/fhuszti/creatives-ms-go/internal/handler/api"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

func WithSessionID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			if id == "" {
				api.WriteError(w, http.StatusBadRequest, "session ID is required", nil)
				return
			}
			parsedID, err := uuid.Parse(id)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("session ID %q is not a valid UUID", id), nil)
				return
			}

			// stash it in context and call the real handler
			ctx := context.WithValue(r.Context(), api_context.SessionIDKey, parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
