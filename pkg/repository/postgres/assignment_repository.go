package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// AssignmentRepository implements repository.AssignmentRepo over the
// assignments table. Assignments are never deleted, only deactivated.
type AssignmentRepository struct{}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{}
}

func (r *AssignmentRepository) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Assignment) error {
	const q = `
		INSERT INTO assignments (sentence_id, user_id, role, blind, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, a.SentenceID, a.UserID, a.Role, a.Blind, a.Active)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate("create assignment", err)
	}
	return nil
}

func (r *AssignmentRepository) Deactivate(ctx context.Context, ext sqlx.ExtContext, id int64) error {
	const q = `UPDATE assignments SET active = false, updated_at = now() WHERE id = $1`
	res, err := ext.ExecContext(ctx, q, id)
	if err != nil {
		return translate("deactivate assignment", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("deactivate assignment", domain.ErrNotFound)
	}
	return nil
}

func (r *AssignmentRepository) DeactivateAllActive(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]int64, error) {
	const q = `
		UPDATE assignments SET active = false, updated_at = now()
		WHERE sentence_id = $1 AND active
		RETURNING id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, ext, &ids, q, sentenceID); err != nil {
		return nil, translate("deactivate active assignments", err)
	}
	return ids, nil
}

func (r *AssignmentRepository) ActiveForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Assignment, error) {
	const q = `SELECT * FROM assignments WHERE sentence_id = $1 AND active ORDER BY id`
	var assignments []domain.Assignment
	if err := sqlx.SelectContext(ctx, ext, &assignments, q, sentenceID); err != nil {
		return nil, translate("list active assignments", err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) ActiveForUserSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID, userID int64) (*domain.Assignment, error) {
	const q = `SELECT * FROM assignments WHERE sentence_id = $1 AND user_id = $2 AND active ORDER BY id DESC LIMIT 1`
	var a domain.Assignment
	if err := sqlx.GetContext(ctx, ext, &a, q, sentenceID, userID); err != nil {
		return nil, translate("get active assignment", err)
	}
	return &a, nil
}
