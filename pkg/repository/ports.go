// Package repository defines the narrow, per-aggregate persistence
// ports the workflow orchestrator, assignment engine, and export
// service depend on. pkg/repository/postgres is the one concrete
// implementation, over jmoiron/sqlx and jackc/pgx/v5/stdlib; every
// interface here is satisfiable by a fake for unit tests that don't
// want a database at all.
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// TxRunner opens one *sqlx.Tx per call, commits on a nil return from
// fn, and rolls back otherwise. Every user-visible lifecycle operation
// in pkg/workflow runs inside exactly one call to RunInTx.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// ProjectRepo persists Project rows.
type ProjectRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, p *domain.Project) error
	Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Project, error)
	List(ctx context.Context, ext sqlx.ExtContext) ([]domain.Project, error)
}

// UserRepo persists User rows.
type UserRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, u *domain.User) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (*domain.User, error)
	UpdateRoleActive(ctx context.Context, ext sqlx.ExtContext, id int64, role domain.Role, active bool) error
}

// MembershipRepo persists ProjectMembership rows.
type MembershipRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, m *domain.Membership) error
	Approve(ctx context.Context, ext sqlx.ExtContext, id int64, approvedBy int64, approvedAt time.Time) error
	Get(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) (*domain.Membership, error)
	ForUserProject(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) ([]domain.Membership, error)
}

// SentenceRepo persists Sentence rows.
type SentenceRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, s *domain.Sentence) error
	Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Sentence, error)
	UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.SentenceStatus) error
	ListByProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, statuses []domain.SentenceStatus) ([]domain.Sentence, error)
}

// AssignmentRepo persists Assignment rows.
type AssignmentRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Assignment) error
	Deactivate(ctx context.Context, ext sqlx.ExtContext, id int64) error
	DeactivateAllActive(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]int64, error)
	ActiveForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Assignment, error)
	ActiveForUserSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID, userID int64) (*domain.Assignment, error)
}

// AnnotationRepo persists Annotation rows.
type AnnotationRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Annotation) error
	Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Annotation, error)
	ListForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Annotation, error)
}

// ReviewRepo persists Review rows.
type ReviewRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, r *domain.Review) error
	ListForAnnotation(ctx context.Context, ext sqlx.ExtContext, annotationID int64) ([]domain.Review, error)
	HasRejectionForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (bool, error)
}

// AdjudicationRepo persists Adjudication rows.
type AdjudicationRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Adjudication) error
	GetForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (*domain.Adjudication, error)
}

// FailedSubmissionRepo persists FailedSubmission rows.
type FailedSubmissionRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, f *domain.FailedSubmission) error
	ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, failureType *domain.FailureType) ([]domain.FailedSubmission, error)
}

// AuditLogRepo persists AuditLog rows.
type AuditLogRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, a *domain.AuditLog) error
	ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, limit, offset int) ([]domain.AuditLog, error)
}

// ExportJobRepo persists ExportJob rows.
type ExportJobRepo interface {
	Create(ctx context.Context, ext sqlx.ExtContext, j *domain.ExportJob) error
	Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.ExportJob, error)
	ClaimOldestQueued(ctx context.Context, tx *sqlx.Tx) (*domain.ExportJob, error)
	MarkRunning(ctx context.Context, ext sqlx.ExtContext, id int64) error
	MarkCompleted(ctx context.Context, ext sqlx.ExtContext, id int64, resultPath string) error
	MarkFailed(ctx context.Context, ext sqlx.ExtContext, id int64, errMessage string) error
}

// UserProfileRepo persists UserProfile rows, used by the skill-based
// assignment strategy.
type UserProfileRepo interface {
	Get(ctx context.Context, ext sqlx.ExtContext, userID int64) (*domain.UserProfile, error)
}
