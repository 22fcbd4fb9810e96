package failure_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/failure"
)

type capturingRepo struct {
	created *domain.FailedSubmission
}

func (r *capturingRepo) Create(ctx context.Context, ext sqlx.ExtContext, f *domain.FailedSubmission) error {
	r.created = f
	return nil
}

func (r *capturingRepo) ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, failureType *domain.FailureType) ([]domain.FailedSubmission, error) {
	return nil, nil
}

func newTestTx(t *testing.T) (*sqlx.Tx, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectBegin()
	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("Beginx() error = %v", err)
	}
	mock.ExpectRollback()
	return tx, func() { _ = tx.Rollback() }
}

func TestRecorder_Record_StampsVersionTriple(t *testing.T) {
	tx, cleanup := newTestTx(t)
	defer cleanup()

	repo := &capturingRepo{}
	r := failure.NewRecorder(repo)

	userID := int64(5)
	err := r.Record(context.Background(), tx, failure.Submission{
		ProjectID:       1,
		SentenceID:      2,
		UserID:          &userID,
		FailureType:     domain.FailureValidation,
		Reason:          "role_mismatch",
		Details:         `{"offenders":["ARG9"]}`,
		SubmittedPenman: "(b / buy-01 :ARG9 (p / person))",
		Versions: domain.VersionTriple{
			AMRVersion:            "amr-1.2",
			RoleSetVersion:        "tr-propbank-v1",
			ValidationRuleVersion: "rules-3",
		},
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if repo.created.AMRVersion != "amr-1.2" || repo.created.RoleSetVersion != "tr-propbank-v1" || repo.created.RuleVersion != "rules-3" {
		t.Errorf("version triple not stamped correctly: %+v", repo.created)
	}
	if repo.created.FailureType != domain.FailureValidation {
		t.Errorf("FailureType = %v, want validation", repo.created.FailureType)
	}
	if repo.created.UserID == nil || *repo.created.UserID != 5 {
		t.Errorf("UserID = %v, want 5", repo.created.UserID)
	}
}
