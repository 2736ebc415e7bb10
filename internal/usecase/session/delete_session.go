package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/port"
)

type sessionDeleterSrv struct {
	sessions        port.SessionRepository
	assets          port.AssetRepository
	thumbs          port.ThumbnailRepository
	strg            port.Storage
	cache           port.Cache
	stagingBucket   string
	creativesBucket string
}

// compile-time check: *sessionDeleterSrv must satisfy port.SessionDeleter
var _ port.SessionDeleter = (*sessionDeleterSrv)(nil)

// NewSessionDeleter constructs a SessionDeleter implementation.
func NewSessionDeleter(sessions port.SessionRepository, assets port.AssetRepository, thumbs port.ThumbnailRepository, strg port.Storage, cache port.Cache, stagingBucket, creativesBucket string) port.SessionDeleter {
	return &sessionDeleterSrv{sessions, assets, thumbs, strg, cache, stagingBucket, creativesBucket}
}

// DeleteSession removes the session's stored objects then its database rows.
// Object removals are best-effort: a missing object never blocks deletion,
// and the database cascade handles the children. Only the owning identity
// may delete an owned session; foreign sessions read as missing.
func (s *sessionDeleterSrv) DeleteSession(ctx context.Context, in port.DeleteSessionInput) error {
	id := in.SessionID
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("error fetching session: %w", err)
	}
	if !canAccess(sess, in.CallerID) {
		return ErrSessionNotFound
	}

	assets, err := s.assets.ListBySession(ctx, id)
	if err != nil {
		return fmt.Errorf("error listing assets: %w", err)
	}

	for _, asset := range assets {
		if asset.StagingKey != "" {
			s.removeObject(ctx, s.stagingBucket, asset.StagingKey)
		}
		if asset.Bucket != nil && asset.ObjectKey != nil {
			s.removeObject(ctx, *asset.Bucket, *asset.ObjectKey)
		}
		if thumb, err := s.thumbs.GetByAssetID(ctx, asset.ID); err == nil {
			s.removeObject(ctx, thumb.Bucket, thumb.ObjectKey)
		}
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if err := s.cache.DeleteSessionStatus(ctx, id); err != nil {
		log.Printf("failed deleting status cache for session #%s: %v", id, err)
	}
	return nil
}

func (s *sessionDeleterSrv) removeObject(ctx context.Context, bucket, key string) {
	if err := s.strg.RemoveFile(ctx, bucket, key); err != nil && !errors.Is(err, port.ErrObjectNotFound) {
		log.Printf("warning: failed to remove object %q from bucket %q: %v", key, bucket, err)
	}
}
