package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type ThumbnailRepository struct {
	db *sql.DB
}

// compile-time check: *ThumbnailRepository must satisfy port.ThumbnailRepository
var _ port.ThumbnailRepository = (*ThumbnailRepository)(nil)

func NewThumbnailRepository(db *sql.DB) *ThumbnailRepository {
	return &ThumbnailRepository{db: db}
}

func (r *ThumbnailRepository) Create(ctx context.Context, thumb *model.Thumbnail) error {
	log.Printf("creating database record for thumbnail of asset #%s...", thumb.AssetID)

	const query = `
      INSERT INTO thumbnails
        (id, asset_id, bucket, object_key, width, height, size_bytes, format)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		thumb.ID, thumb.AssetID, thumb.Bucket, thumb.ObjectKey,
		thumb.Width, thumb.Height, thumb.SizeBytes, thumb.Format,
	)
	return err
}

func (r *ThumbnailRepository) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*model.Thumbnail, error) {
	const query = `
      SELECT id, asset_id, bucket, object_key, width, height, size_bytes, format, created_at
      FROM thumbnails
      WHERE asset_id = ?
    `
	row := r.db.QueryRowContext(ctx, query, assetID)

	var thumb model.Thumbnail
	if err := row.Scan(
		&thumb.ID, &thumb.AssetID, &thumb.Bucket, &thumb.ObjectKey,
		&thumb.Width, &thumb.Height, &thumb.SizeBytes, &thumb.Format, &thumb.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &thumb, nil
}
