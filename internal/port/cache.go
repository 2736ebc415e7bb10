package port

import (
	"context"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// Cache provides caching for hot session status reads.
type Cache interface {
	GetSessionStatus(ctx context.Context, id uuid.UUID) ([]byte, error)
	SetSessionStatus(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration)
	DeleteSessionStatus(ctx context.Context, id uuid.UUID) error
}
