package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// AnnotationRepository implements repository.AnnotationRepo over the
// annotations table.
type AnnotationRepository struct{}

func NewAnnotationRepository() *AnnotationRepository {
	return &AnnotationRepository{}
}

func (r *AnnotationRepository) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Annotation) error {
	const q = `
		INSERT INTO annotations (sentence_id, assignment_id, author_id, canonical_penman, validity_report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, a.SentenceID, a.AssignmentID, a.AuthorID, a.CanonicalPenman, a.ValidityReport)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate("create annotation", err)
	}
	return nil
}

func (r *AnnotationRepository) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Annotation, error) {
	const q = `SELECT * FROM annotations WHERE id = $1`
	var a domain.Annotation
	if err := sqlx.GetContext(ctx, ext, &a, q, id); err != nil {
		return nil, translate("get annotation", err)
	}
	return &a, nil
}

func (r *AnnotationRepository) ListForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Annotation, error) {
	const q = `SELECT * FROM annotations WHERE sentence_id = $1 ORDER BY id`
	var annotations []domain.Annotation
	if err := sqlx.SelectContext(ctx, ext, &annotations, q, sentenceID); err != nil {
		return nil, translate("list annotations", err)
	}
	return annotations, nil
}
