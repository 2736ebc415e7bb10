package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

// statusCacheTTL matches the progress write cadence, so polled reads stay
// at most one tick behind the database.
const statusCacheTTL = 2 * time.Second

type statusGetterSrv struct {
	sessions port.SessionRepository
	jobs     port.JobRepository
	sets     port.SetRepository
	assets   port.AssetRepository
	cache    port.Cache
}

// compile-time check: *statusGetterSrv must satisfy port.StatusGetter
var _ port.StatusGetter = (*statusGetterSrv)(nil)

// NewStatusGetter constructs a StatusGetter implementation.
func NewStatusGetter(sessions port.SessionRepository, jobs port.JobRepository, sets port.SetRepository, assets port.AssetRepository, cache port.Cache) port.StatusGetter {
	return &statusGetterSrv{sessions, jobs, sets, assets, cache}
}

// GetStatus returns the session with its jobs, and optionally its sets and
// assets. Summary reads go through the cache; asset listings always hit the
// database so finalised uploads show up immediately.
func (s *statusGetterSrv) GetStatus(ctx context.Context, in port.GetStatusInput) (*port.GetStatusOutput, error) {
	if !in.IncludeAssets {
		if data, err := s.cache.GetSessionStatus(ctx, in.SessionID); err == nil {
			var out port.GetStatusOutput
			if err := json.Unmarshal(data, &out); err == nil && out.Session != nil {
				if !canAccess(out.Session, in.CallerID) {
					return nil, ErrSessionNotFound
				}
				return &out, nil
			}
		}
	}

	sess, err := s.sessions.GetByID(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error fetching session: %w", err)
	}
	// foreign sessions read as missing, their existence is not disclosed
	if !canAccess(sess, in.CallerID) {
		return nil, ErrSessionNotFound
	}

	jobs, err := s.jobs.ListBySession(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing jobs: %w", err)
	}

	out := &port.GetStatusOutput{Session: sess, Jobs: jobs}

	if in.IncludeAssets {
		if out.Sets, err = s.sets.ListBySession(ctx, in.SessionID); err != nil {
			return nil, fmt.Errorf("error listing sets: %w", err)
		}
		if out.Assets, err = s.assets.ListBySession(ctx, in.SessionID); err != nil {
			return nil, fmt.Errorf("error listing assets: %w", err)
		}
		return out, nil
	}

	if data, err := json.Marshal(out); err == nil {
		s.cache.SetSessionStatus(ctx, in.SessionID, data, statusCacheTTL)
	}
	return out, nil
}
