package session

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/fhuszti/creatives-ms-go/internal/mock"
	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

func TestDeleteSessionRemovesAllObjects(t *testing.T) {
	id := uuid.NewUUID()
	assetID := uuid.NewUUID()
	bucket := "creatives"
	key := id.String() + "/banner.jpg"

	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: id}}
	assets := &mock.AssetRepo{ListOut: []*model.CreativeAsset{{
		ID:         assetID,
		SessionID:  id,
		StagingKey: assetID.String(),
		Bucket:     &bucket,
		ObjectKey:  &key,
	}}}
	thumbs := &mock.ThumbnailRepo{ThumbnailRecord: &model.Thumbnail{
		AssetID:   assetID,
		Bucket:    "creatives",
		ObjectKey: "thumbnails/" + assetID.String() + ".webp",
	}}
	strg := &mock.Storage{}
	cache := &mock.Cache{}
	svc := NewSessionDeleter(sessions, assets, thumbs, strg, cache, "staging", "creatives")

	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id}); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	want := []string{
		"staging/" + assetID.String(),
		"creatives/" + key,
		"creatives/thumbnails/" + assetID.String() + ".webp",
	}
	if !reflect.DeepEqual(strg.RemovedKeys, want) {
		t.Errorf("removed %v, want %v", strg.RemovedKeys, want)
	}
	if !sessions.DeleteCalled {
		t.Error("expected the session row to be deleted")
	}
	if !cache.DelCalled {
		t.Error("expected the status cache entry to be dropped")
	}
}

func TestDeleteSessionSurvivesMissingObjects(t *testing.T) {
	id := uuid.NewUUID()
	assetID := uuid.NewUUID()

	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: id}}
	assets := &mock.AssetRepo{ListOut: []*model.CreativeAsset{{ID: assetID, SessionID: id, StagingKey: assetID.String()}}}
	thumbs := &mock.ThumbnailRepo{GetErr: sql.ErrNoRows}
	strg := &mock.Storage{RemoveErr: errors.New("object gone")}
	svc := NewSessionDeleter(sessions, assets, thumbs, strg, &mock.Cache{}, "staging", "creatives")

	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id}); err != nil {
		t.Fatalf("object removal failures must not block deletion: %v", err)
	}
	if !sessions.DeleteCalled {
		t.Error("expected the session row to be deleted regardless")
	}
}

func TestDeleteSessionNotFound(t *testing.T) {
	sessions := &mock.SessionRepo{GetErr: sql.ErrNoRows}
	svc := NewSessionDeleter(sessions, &mock.AssetRepo{}, &mock.ThumbnailRepo{}, &mock.Storage{}, &mock.Cache{}, "staging", "creatives")

	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: uuid.NewUUID()}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSessionCacheFailureIsLoggedOnly(t *testing.T) {
	id := uuid.NewUUID()
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: id}}
	thumbs := &mock.ThumbnailRepo{GetErr: sql.ErrNoRows}
	cache := &mock.Cache{DelErr: errors.New("redis down")}
	svc := NewSessionDeleter(sessions, &mock.AssetRepo{}, thumbs, &mock.Storage{}, cache, "staging", "creatives")

	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id}); err != nil {
		t.Errorf("a cache failure must not surface: %v", err)
	}
}

func TestDeleteSessionScopedToOwner(t *testing.T) {
	id := uuid.NewUUID()
	owner := "acct-42"
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: id, OwnerID: &owner}}
	thumbs := &mock.ThumbnailRepo{GetErr: sql.ErrNoRows}
	svc := NewSessionDeleter(sessions, &mock.AssetRepo{}, thumbs, &mock.Storage{}, &mock.Cache{}, "staging", "creatives")

	// no caller at all
	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("anonymous caller: got %v, want ErrSessionNotFound", err)
	}

	// a different identity
	stranger := "acct-99"
	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id, CallerID: &stranger}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign caller: got %v, want ErrSessionNotFound", err)
	}
	if sessions.DeleteCalled {
		t.Fatal("a foreign caller must never delete the session")
	}

	// the owner
	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id, CallerID: &owner}); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if !sessions.DeleteCalled {
		t.Error("expected the owner's delete to go through")
	}
}

func TestDeleteSessionAnonymousIsOpenByID(t *testing.T) {
	id := uuid.NewUUID()
	sessions := &mock.SessionRepo{SessionRecord: &model.UploadSession{ID: id}}
	thumbs := &mock.ThumbnailRepo{GetErr: sql.ErrNoRows}
	svc := NewSessionDeleter(sessions, &mock.AssetRepo{}, thumbs, &mock.Storage{}, &mock.Cache{}, "staging", "creatives")

	caller := "acct-42"
	if err := svc.DeleteSession(context.Background(), port.DeleteSessionInput{SessionID: id, CallerID: &caller}); err != nil {
		t.Fatalf("an ownerless session is addressed by its UUID alone: %v", err)
	}
}
