package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type AssetRepository struct {
	db *sql.DB
}

// compile-time check: *AssetRepository must satisfy port.AssetRepository
var _ port.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `
  id, set_id, session_id, original_filename, storage_filename, type, mime_type,
  size_bytes, width, height, duration_secs, staging_key, bucket, object_key,
  status, failure_message, validation_status, validation_notes, is_bundle,
  created_at, updated_at
`

func (r *AssetRepository) Create(ctx context.Context, asset *model.CreativeAsset) error {
	log.Printf("creating database record for asset #%s, at status %q...", asset.ID, asset.Status)

	const query = `
      INSERT INTO creative_assets
        (id, set_id, session_id, original_filename, storage_filename, type, mime_type,
         size_bytes, width, height, duration_secs, staging_key, bucket, object_key,
         status, failure_message, validation_status, validation_notes, is_bundle)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		asset.ID, asset.SetID, asset.SessionID,
		asset.OriginalFilename, asset.StorageFilename, asset.Type, asset.MimeType,
		asset.SizeBytes, asset.Width, asset.Height, asset.DurationSecs,
		asset.StagingKey, asset.Bucket, asset.ObjectKey,
		asset.Status, asset.FailureMessage,
		asset.ValidationStatus, asset.ValidationNotes, asset.IsBundle,
	)
	return err
}

func (r *AssetRepository) Update(ctx context.Context, asset *model.CreativeAsset) error {
	log.Printf("updating database record for asset #%s, with status %q...", asset.ID, asset.Status)

	const query = `
      UPDATE creative_assets
      SET
        set_id            = ?,
        storage_filename  = ?,
        type              = ?,
        mime_type         = ?,
        size_bytes        = ?,
        width             = ?,
        height            = ?,
        duration_secs     = ?,
        bucket            = ?,
        object_key        = ?,
        status            = ?,
        failure_message   = ?,
        validation_status = ?,
        validation_notes  = ?,
        is_bundle         = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		asset.SetID,
		asset.StorageFilename,
		asset.Type,
		asset.MimeType,
		asset.SizeBytes,
		asset.Width,
		asset.Height,
		asset.DurationSecs,
		asset.Bucket,
		asset.ObjectKey,
		asset.Status,
		asset.FailureMessage,
		asset.ValidationStatus,
		asset.ValidationNotes,
		asset.IsBundle,
		asset.ID,
	)
	return err
}

func (r *AssetRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeAsset, error) {
	log.Printf("fetching asset #%s from the database...", ID)

	query := `SELECT ` + assetColumns + ` FROM creative_assets WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, ID)

	var asset model.CreativeAsset
	if err := scanAsset(row.Scan, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *AssetRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM creative_assets WHERE session_id = ? ORDER BY created_at, original_filename`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var assets []*model.CreativeAsset
	for rows.Next() {
		var asset model.CreativeAsset
		if err := scanAsset(rows.Scan, &asset); err != nil {
			return nil, err
		}
		assets = append(assets, &asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Delete(ctx context.Context, ID uuid.UUID) error {
	log.Printf("deleting asset #%s from the database...", ID)

	const query = `DELETE FROM creative_assets WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, ID)
	return err
}

func scanAsset(scan func(dest ...any) error, asset *model.CreativeAsset) error {
	return scan(
		&asset.ID, &asset.SetID, &asset.SessionID,
		&asset.OriginalFilename, &asset.StorageFilename, &asset.Type, &asset.MimeType,
		&asset.SizeBytes, &asset.Width, &asset.Height, &asset.DurationSecs,
		&asset.StagingKey, &asset.Bucket, &asset.ObjectKey,
		&asset.Status, &asset.FailureMessage,
		&asset.ValidationStatus, &asset.ValidationNotes, &asset.IsBundle,
		&asset.CreatedAt, &asset.UpdatedAt,
	)
}
