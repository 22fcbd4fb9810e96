package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// ExportJobRepository implements repository.ExportJobRepo over the
// export_jobs table.
type ExportJobRepository struct{}

func NewExportJobRepository() *ExportJobRepository {
	return &ExportJobRepository{}
}

func (r *ExportJobRepository) Create(ctx context.Context, ext sqlx.ExtContext, j *domain.ExportJob) error {
	const q = `
		INSERT INTO export_jobs (
			external_id, project_id, creator_id, status, level, format, pii_strategy,
			include_manifest, include_failed, include_rejected
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q,
		j.ExternalID, j.ProjectID, j.CreatorID, j.Status, j.Level, j.Format, j.PIIStrategy,
		j.IncludeManifest, j.IncludeFailed, j.IncludeRejected)
	if err := row.Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return translate("create export job", err)
	}
	return nil
}

func (r *ExportJobRepository) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.ExportJob, error) {
	const q = `SELECT * FROM export_jobs WHERE id = $1`
	var j domain.ExportJob
	if err := sqlx.GetContext(ctx, ext, &j, q, id); err != nil {
		return nil, translate("get export job", err)
	}
	return &j, nil
}

// ClaimOldestQueued locks and returns the oldest queued job within tx,
// using SKIP LOCKED so concurrent workers never block on each other's
// claims. Returns (nil, nil) when the queue is empty.
func (r *ExportJobRepository) ClaimOldestQueued(ctx context.Context, tx *sqlx.Tx) (*domain.ExportJob, error) {
	const q = `
		SELECT * FROM export_jobs
		WHERE status = $1
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT 1`
	var j domain.ExportJob
	err := tx.GetContext(ctx, &j, q, domain.JobQueued)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("claim export job", err)
	}
	return &j, nil
}

func (r *ExportJobRepository) MarkRunning(ctx context.Context, ext sqlx.ExtContext, id int64) error {
	const q = `UPDATE export_jobs SET status = $2, updated_at = now() WHERE id = $1`
	_, err := ext.ExecContext(ctx, q, id, domain.JobRunning)
	if err != nil {
		return translate("mark export job running", err)
	}
	return nil
}

func (r *ExportJobRepository) MarkCompleted(ctx context.Context, ext sqlx.ExtContext, id int64, resultPath string) error {
	const q = `UPDATE export_jobs SET status = $2, result_path = $3, updated_at = now() WHERE id = $1`
	_, err := ext.ExecContext(ctx, q, id, domain.JobCompleted, resultPath)
	if err != nil {
		return translate("mark export job completed", err)
	}
	return nil
}

func (r *ExportJobRepository) MarkFailed(ctx context.Context, ext sqlx.ExtContext, id int64, errMessage string) error {
	const q = `UPDATE export_jobs SET status = $2, error_message = $3, updated_at = now() WHERE id = $1`
	_, err := ext.ExecContext(ctx, q, id, domain.JobFailed, errMessage)
	if err != nil {
		return translate("mark export job failed", err)
	}
	return nil
}
