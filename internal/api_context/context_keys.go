package api_context

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type contextKey string

const (
	// SessionIDKey holds the session UUID parsed from the URL.
	SessionIDKey contextKey = "sessionID"
	// JobIDKey holds the job UUID parsed from the URL.
	JobIDKey contextKey = "jobID"
	// AuthOwnerIDKey holds the authenticated owner id, when present.
	AuthOwnerIDKey contextKey = "authOwnerID"
)

func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDKey).(uuid.UUID)
	return id, ok
}

func JobIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(JobIDKey).(uuid.UUID)
	return id, ok
}

func AuthOwnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthOwnerIDKey).(string)
	return id, ok
}
