package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// UserRepository implements repository.UserRepo over the users table.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, ext sqlx.ExtContext, u *domain.User) error {
	const q = `
		INSERT INTO users (username, email, hashed_credential, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, u.Username, u.Email, u.HashedCredential, u.Role, u.Active)
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return translate("create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.User, error) {
	const q = `SELECT * FROM users WHERE id = $1`
	var u domain.User
	if err := sqlx.GetContext(ctx, ext, &u, q, id); err != nil {
		return nil, translate("get user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (*domain.User, error) {
	const q = `SELECT * FROM users WHERE username = $1`
	var u domain.User
	if err := sqlx.GetContext(ctx, ext, &u, q, username); err != nil {
		return nil, translate("get user by username", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateRoleActive(ctx context.Context, ext sqlx.ExtContext, id int64, role domain.Role, active bool) error {
	const q = `UPDATE users SET role = $2, active = $3, updated_at = now() WHERE id = $1`
	res, err := ext.ExecContext(ctx, q, id, role, active)
	if err != nil {
		return translate("update user role", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return translate("update user role", domain.ErrNotFound)
	}
	return nil
}
