package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type SetRepository struct {
	db *sql.DB
}

// compile-time check: *SetRepository must satisfy port.SetRepository
var _ port.SetRepository = (*SetRepository)(nil)

func NewSetRepository(db *sql.DB) *SetRepository {
	return &SetRepository{db: db}
}

func (r *SetRepository) Create(ctx context.Context, set *model.CreativeSet) error {
	log.Printf("creating database record for set %q in session #%s...", set.Name, set.SessionID)

	const query = `
      INSERT INTO creative_sets
        (id, session_id, name, original_path, asset_count)
      VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		set.ID, set.SessionID, set.Name, set.OriginalPath, set.AssetCount,
	)
	return err
}

func (r *SetRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.CreativeSet, error) {
	const query = `
      SELECT id, session_id, name, original_path, asset_count, created_at
      FROM creative_sets
      WHERE id = ?
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, ID))
}

func (r *SetRepository) GetBySessionAndName(ctx context.Context, sessionID uuid.UUID, name string) (*model.CreativeSet, error) {
	const query = `
      SELECT id, session_id, name, original_path, asset_count, created_at
      FROM creative_sets
      WHERE session_id = ? AND name = ?
    `
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID, name))
}

func (r *SetRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.CreativeSet, error) {
	const query = `
      SELECT id, session_id, name, original_path, asset_count, created_at
      FROM creative_sets
      WHERE session_id = ?
      ORDER BY created_at, name
    `
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sets []*model.CreativeSet
	for rows.Next() {
		var set model.CreativeSet
		if err := rows.Scan(&set.ID, &set.SessionID, &set.Name, &set.OriginalPath, &set.AssetCount, &set.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, &set)
	}
	return sets, rows.Err()
}

func (r *SetRepository) IncrementAssetCount(ctx context.Context, ID uuid.UUID, delta int) error {
	const query = `UPDATE creative_sets SET asset_count = asset_count + ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, delta, ID)
	return err
}

func (r *SetRepository) scanOne(row *sql.Row) (*model.CreativeSet, error) {
	var set model.CreativeSet
	if err := row.Scan(&set.ID, &set.SessionID, &set.Name, &set.OriginalPath, &set.AssetCount, &set.CreatedAt); err != nil {
		return nil, err
	}
	return &set, nil
}
