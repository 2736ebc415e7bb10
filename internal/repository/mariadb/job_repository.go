package mariadb

import (
	"context"
	"database/sql"
	"log"

	"github.com/fhuszti/creatives-ms-go/internal/model"
	"github.com/fhuszti/creatives-ms-go/internal/port"
	"github.com/fhuszti/creatives-ms-go/internal/uuid"
)

type JobRepository struct {
	db *sql.DB
}

// compile-time check: *JobRepository must satisfy port.JobRepository
var _ port.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `
  id, session_id, type, status, progress, current_index, total_items,
  item_errors, error_message, failed_index, started_at, completed_at,
  created_at, updated_at
`

func (r *JobRepository) Create(ctx context.Context, job *model.ProcessingJob) error {
	log.Printf("creating database record for %s job #%s, at status %q...", job.Type, job.ID, job.Status)

	const query = `
      INSERT INTO processing_jobs
        (id, session_id, type, status, progress, current_index, total_items,
         item_errors, error_message, failed_index, started_at, completed_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.SessionID, job.Type, job.Status,
		job.Progress, job.CurrentIndex, job.TotalItems,
		job.ItemErrors, job.ErrorMessage, job.FailedIndex,
		job.StartedAt, job.CompletedAt,
	)
	return err
}

func (r *JobRepository) Update(ctx context.Context, job *model.ProcessingJob) error {
	log.Printf("updating database record for job #%s, with status %q and progress %d%%...", job.ID, job.Status, job.Progress)

	const query = `
      UPDATE processing_jobs
      SET
        status        = ?,
        progress      = ?,
        current_index = ?,
        total_items   = ?,
        item_errors   = ?,
        error_message = ?,
        failed_index  = ?,
        started_at    = ?,
        completed_at  = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		job.Status,
		job.Progress,
		job.CurrentIndex,
		job.TotalItems,
		job.ItemErrors,
		job.ErrorMessage,
		job.FailedIndex,
		job.StartedAt,
		job.CompletedAt,
		job.ID,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, ID uuid.UUID) (*model.ProcessingJob, error) {
	log.Printf("fetching job #%s from the database...", ID)

	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, ID)

	var job model.ProcessingJob
	if err := scanJob(row.Scan, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*model.ProcessingJob, error) {
	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE session_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var jobs []*model.ProcessingJob
	for rows.Next() {
		var job model.ProcessingJob
		if err := scanJob(rows.Scan, &job); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func scanJob(scan func(dest ...any) error, job *model.ProcessingJob) error {
	return scan(
		&job.ID, &job.SessionID, &job.Type, &job.Status,
		&job.Progress, &job.CurrentIndex, &job.TotalItems,
		&job.ItemErrors, &job.ErrorMessage, &job.FailedIndex,
		&job.StartedAt, &job.CompletedAt,
		&job.CreatedAt, &job.UpdatedAt,
	)
}
