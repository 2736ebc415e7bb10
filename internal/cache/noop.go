package cache

import (
	"context"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// Noop is the cache used when redis is not configured.
type Noop struct{}

var _ port.Cache = (*Noop)(nil)

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) GetSessionStatus(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return nil, nil
}

func (n *Noop) SetSessionStatus(ctx context.Context, id uuid.UUID, data []byte, ttl time.Duration) {
}

func (n *Noop) DeleteSessionStatus(ctx context.Context, id uuid.UUID) error {
	return nil
}
