package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// SentenceRepository implements repository.SentenceRepo over the
// sentences table. ListByProject treats a nil statuses slice as "every
// status" — the same convention pkg/export relies on for its "all"
// export level.
type SentenceRepository struct{}

func NewSentenceRepository() *SentenceRepository {
	return &SentenceRepository{}
}

func (r *SentenceRepository) Create(ctx context.Context, ext sqlx.ExtContext, s *domain.Sentence) error {
	const q = `
		INSERT INTO sentences (project_id, text, source, difficulty, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, s.ProjectID, s.Text, s.Source, s.Difficulty, s.Status)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return translate("create sentence", err)
	}
	return nil
}

func (r *SentenceRepository) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Sentence, error) {
	const q = `SELECT * FROM sentences WHERE id = $1`
	var s domain.Sentence
	if err := sqlx.GetContext(ctx, ext, &s, q, id); err != nil {
		return nil, translate("get sentence", err)
	}
	return &s, nil
}

func (r *SentenceRepository) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.SentenceStatus) error {
	const q = `UPDATE sentences SET status = $2, updated_at = now() WHERE id = $1`
	res, err := ext.ExecContext(ctx, q, id, status)
	if err != nil {
		return translate("update sentence status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("update sentence status", domain.ErrNotFound)
	}
	return nil
}

func (r *SentenceRepository) ListByProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, statuses []domain.SentenceStatus) ([]domain.Sentence, error) {
	var (
		q    string
		args []interface{}
	)
	if len(statuses) == 0 {
		q = `SELECT * FROM sentences WHERE project_id = $1 ORDER BY id`
		args = []interface{}{projectID}
	} else {
		var err error
		q, args, err = sqlx.In(`SELECT * FROM sentences WHERE project_id = ? AND status IN (?) ORDER BY id`, projectID, statuses)
		if err != nil {
			return nil, translate("build sentence query", err)
		}
		q = ext.Rebind(q)
	}

	var sentences []domain.Sentence
	if err := sqlx.SelectContext(ctx, ext, &sentences, q, args...); err != nil {
		return nil, translate("list sentences", err)
	}
	return sentences, nil
}
