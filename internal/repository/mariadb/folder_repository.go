package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type FolderRepository struct {
	db *sql.DB
}

// compile-time check: *FolderRepository must satisfy port.FolderRepository
var _ port.FolderRepository = (*FolderRepository)(nil)

func NewFolderRepository(db *sql.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) Create(ctx context.Context, node *model.FolderNode) error {
	log.Printf("creating database record for folder %q in set #%s...", node.Path, node.SetID)

	const query = `
      INSERT INTO folder_structure
        (id, set_id, name, parent_id, depth, path, original_path, asset_count)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		node.ID, node.SetID, node.Name, node.ParentID,
		node.Depth, node.Path, node.OriginalPath, node.AssetCount,
	)
	return err
}

func (r *FolderRepository) ListBySet(ctx context.Context, setID uuid.UUID) ([]*model.FolderNode, error) {
	const query = `
      SELECT id, set_id, name, parent_id, depth, path, original_path, asset_count, created_at
      FROM folder_structure
      WHERE set_id = ?
      ORDER BY depth, path
    `
	rows, err := r.db.QueryContext(ctx, query, setID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var nodes []*model.FolderNode
	for rows.Next() {
		var node model.FolderNode
		if err := rows.Scan(
			&node.ID, &node.SetID, &node.Name, &node.ParentID,
			&node.Depth, &node.Path, &node.OriginalPath, &node.AssetCount, &node.CreatedAt,
		); err != nil {
			return nil, err
		}
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}
