package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type SessionRepository struct {
	db *sql.DB
}

// compile-time check: *SessionRepository must satisfy port.SessionRepository
var _ port.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.UploadSession) error {
	log.Printf("creating database record for session #%s, at status %q...", session.ID, session.Status)

	const query = `
      INSERT INTO upload_sessions
        (id, owner_id, anon_expires_at, kind, status, total_files, total_bytes, uploaded_bytes)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.OwnerID, session.AnonExpiresAt,
		session.Kind, session.Status,
		session.TotalFiles, session.TotalBytes, session.UploadedBytes,
	)
	return err
}

func (r *SessionRepository) Update(ctx context.Context, session *model.UploadSession) error {
	log.Printf("updating database record for session #%s, with status %q...", session.ID, session.Status)

	const query = `
      UPDATE upload_sessions
      SET
        status         = ?,
        total_files    = ?,
        total_bytes    = ?,
        uploaded_bytes = ?,
        completed_at   = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		session.Status,
		session.TotalFiles,
		session.TotalBytes,
		session.UploadedBytes,
		session.CompletedAt,
		session.ID,
	)
	return err
}

func (r *SessionRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.UploadSession, error) {
	log.Printf("fetching session #%s from the database...", ID)

	const query = `
      SELECT id, owner_id, anon_expires_at, kind, status, total_files, total_bytes, uploaded_bytes, created_at, updated_at, completed_at
      FROM upload_sessions
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, ID)
	var session model.UploadSession
	if err := row.Scan(
		&session.ID, &session.OwnerID, &session.AnonExpiresAt,
		&session.Kind, &session.Status,
		&session.TotalFiles, &session.TotalBytes, &session.UploadedBytes,
		&session.CreatedAt, &session.UpdatedAt, &session.CompletedAt,
	); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, ID uuid.UUID) error {
	log.Printf("deleting session #%s from the database...", ID)

	const query = `DELETE FROM upload_sessions WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, ID)
	return err
}
