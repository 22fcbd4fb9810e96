package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// ReviewRepository implements repository.ReviewRepo over the reviews
// table.
type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Create(ctx context.Context, ext sqlx.ExtContext, rv *domain.Review) error {
	const q = `
		INSERT INTO reviews (annotation_id, reviewer_id, decision, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, rv.AnnotationID, rv.ReviewerID, rv.Decision, rv.Score, rv.Comment)
	if err := row.Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return translate("create review", err)
	}
	return nil
}

func (r *ReviewRepository) ListForAnnotation(ctx context.Context, ext sqlx.ExtContext, annotationID int64) ([]domain.Review, error) {
	const q = `SELECT * FROM reviews WHERE annotation_id = $1 ORDER BY id`
	var reviews []domain.Review
	if err := sqlx.SelectContext(ctx, ext, &reviews, q, annotationID); err != nil {
		return nil, translate("list reviews", err)
	}
	return reviews, nil
}

func (r *ReviewRepository) HasRejectionForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reviews rv
			JOIN annotations a ON a.id = rv.annotation_id
			WHERE a.sentence_id = $1 AND rv.decision = $2
		)`
	var exists bool
	if err := sqlx.GetContext(ctx, ext, &exists, q, sentenceID, domain.DecisionReject); err != nil {
		return false, translate("check rejection history", err)
	}
	return exists, nil
}
