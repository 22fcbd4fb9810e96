package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// MembershipRepository implements repository.MembershipRepo over the
// project_memberships table.
type MembershipRepository struct{}

func NewMembershipRepository() *MembershipRepository {
	return &MembershipRepository{}
}

func (r *MembershipRepository) Create(ctx context.Context, ext sqlx.ExtContext, m *domain.Membership) error {
	const q = `
		INSERT INTO project_memberships (user_id, project_id, role, active, approved_at, invited_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, m.UserID, m.ProjectID, m.Role, m.Active, m.ApprovedAt, m.InvitedBy)
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return translate("create membership", err)
	}
	return nil
}

func (r *MembershipRepository) Approve(ctx context.Context, ext sqlx.ExtContext, id int64, approvedBy int64, approvedAt time.Time) error {
	const q = `
		UPDATE project_memberships
		SET active = true, approved_at = $2, invited_by = $3, updated_at = now()
		WHERE id = $1`
	res, err := ext.ExecContext(ctx, q, id, approvedAt, approvedBy)
	if err != nil {
		return translate("approve membership", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("approve membership", domain.ErrNotFound)
	}
	return nil
}

func (r *MembershipRepository) Get(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) (*domain.Membership, error) {
	const q = `SELECT * FROM project_memberships WHERE user_id = $1 AND project_id = $2 AND active ORDER BY id DESC LIMIT 1`
	var m domain.Membership
	if err := sqlx.GetContext(ctx, ext, &m, q, userID, projectID); err != nil {
		return nil, translate("get membership", err)
	}
	return &m, nil
}

func (r *MembershipRepository) ForUserProject(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) ([]domain.Membership, error) {
	const q = `SELECT * FROM project_memberships WHERE user_id = $1 AND project_id = $2 ORDER BY id`
	var memberships []domain.Membership
	if err := sqlx.SelectContext(ctx, ext, &memberships, q, userID, projectID); err != nil {
		return nil, translate("list memberships", err)
	}
	return memberships, nil
}
