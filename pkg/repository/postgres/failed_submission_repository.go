package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// FailedSubmissionRepository implements repository.FailedSubmissionRepo
// over the failed_submissions table. Rows are append-only.
type FailedSubmissionRepository struct{}

func NewFailedSubmissionRepository() *FailedSubmissionRepository {
	return &FailedSubmissionRepository{}
}

func (r *FailedSubmissionRepository) Create(ctx context.Context, ext sqlx.ExtContext, f *domain.FailedSubmission) error {
	const q = `
		INSERT INTO failed_submissions (
			project_id, sentence_id, assignment_id, annotation_id, user_id, reviewer_id,
			failure_type, reason, details, amr_version, role_set_version, rule_version, submitted_penman
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`
	row := sqlx.QueryRowxContext(ctx, ext, q,
		f.ProjectID, f.SentenceID, f.AssignmentID, f.AnnotationID, f.UserID, f.ReviewerID,
		f.FailureType, f.Reason, f.Details, f.AMRVersion, f.RoleSetVersion, f.RuleVersion, f.SubmittedPenman)
	if err := row.Scan(&f.ID, &f.CreatedAt); err != nil {
		return translate("create failed submission", err)
	}
	return nil
}

func (r *FailedSubmissionRepository) ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, failureType *domain.FailureType) ([]domain.FailedSubmission, error) {
	var (
		q    string
		args []interface{}
	)
	if failureType == nil {
		q = `SELECT * FROM failed_submissions WHERE project_id = $1 ORDER BY id`
		args = []interface{}{projectID}
	} else {
		q = `SELECT * FROM failed_submissions WHERE project_id = $1 AND failure_type = $2 ORDER BY id`
		args = []interface{}{projectID, *failureType}
	}

	var failures []domain.FailedSubmission
	if err := sqlx.SelectContext(ctx, ext, &failures, q, args...); err != nil {
		return nil, translate("list failed submissions", err)
	}
	return failures, nil
}
