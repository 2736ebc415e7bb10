package port

import (
	"context"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

// SessionRepository defines persistence operations for upload sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *model.UploadSession) error
	Update(ctx context.Context, session *model.UploadSession) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.UploadSession, error)
	// Delete cascades to sets, assets, folders, jobs and thumbnails.
	Delete(ctx context.Context, ID uuid.UUID) error
}

// SetRepository defines persistence operations for creative sets.
type SetRepository interface {
	Create(ctx context.Context, set *model.CreativeSet) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeSet, error)
	GetBySessionAndName(ctx context.Context, sessionID uuid.UUID, name string) (*model.CreativeSet, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeSet, error)
	IncrementAssetCount(ctx context.Context, ID uuid.UUID, delta int) error
}

// AssetRepository defines persistence operations for creative assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *model.CreativeAsset) error
	Update(ctx context.Context, asset *model.CreativeAsset) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeAsset, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeAsset, error)
	Delete(ctx context.Context, ID uuid.UUID) error
}

// FolderRepository defines persistence operations for folder nodes.
type FolderRepository interface {
	Create(ctx context.Context, node *model.FolderNode) error
	ListBySet(ctx context.Context, setID uuid.UUID) ([]*model.FolderNode, error)
}

// JobRepository defines persistence operations for processing jobs.
type JobRepository interface {
	Create(ctx context.Context, job *model.ProcessingJob) error
	Update(ctx context.Context, job *model.ProcessingJob) error
	GetByID(ctx context.Context, ID uuid.UUID) (*model.ProcessingJob, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.ProcessingJob, error)
}

// ThumbnailRepository defines persistence operations for thumbnails.
type ThumbnailRepository interface {
	Create(ctx context.Context, thumb *model.Thumbnail) error
	GetByAssetID(ctx context.Context, assetID uuid.UUID) (*model.Thumbnail, error)
}
