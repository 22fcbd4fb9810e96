// Package failure appends FailedSubmission rows into an already-open
// transaction. Like pkg/audit, it never commits; the caller's
// transaction boundary owns that.
package failure

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// Submission describes one failed attempt before it is stamped with
// version metadata and persisted.
type Submission struct {
	ProjectID       int64
	SentenceID      int64
	AssignmentID    *int64
	AnnotationID    *int64
	UserID          *int64
	ReviewerID      *int64
	FailureType     domain.FailureType
	Reason          string
	Details         string
	SubmittedPenman string
	Versions        domain.VersionTriple
}

// Recorder records failed submissions via a repository.FailedSubmissionRepo.
type Recorder struct {
	repo repository.FailedSubmissionRepo
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo repository.FailedSubmissionRepo) *Recorder {
	return &Recorder{repo: repo}
}

// Record stamps Submission with the project's version triple and
// appends it as a FailedSubmission row within tx. It does not commit.
func (r *Recorder) Record(ctx context.Context, tx *sqlx.Tx, s Submission) error {
	f := &domain.FailedSubmission{
		ProjectID:       s.ProjectID,
		SentenceID:      s.SentenceID,
		AssignmentID:    s.AssignmentID,
		AnnotationID:    s.AnnotationID,
		UserID:          s.UserID,
		ReviewerID:      s.ReviewerID,
		FailureType:     s.FailureType,
		Reason:          s.Reason,
		Details:         s.Details,
		AMRVersion:      s.Versions.AMRVersion,
		RoleSetVersion:  s.Versions.RoleSetVersion,
		RuleVersion:     s.Versions.ValidationRuleVersion,
		SubmittedPenman: s.SubmittedPenman,
	}
	return r.repo.Create(ctx, tx, f)
}
