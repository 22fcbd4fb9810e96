// Package account implements user registration/authentication and
// project & membership management — the operations spec.md §2 names
// in its component table but does not detail in the distilled spec
// body (recovered from original_source/backend/app/routers/projects.py
// and membership.py, and from the auth flow implicit in spec.md §6).
package account

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// AuthService registers new users and authenticates existing ones.
// Every new registration starts pending and active; an admin or
// project curator must add and approve the membership that grants it
// a working role, per spec.md §6's "pending user is rejected on all
// operations except me".
type AuthService struct {
	txRunner repository.TxRunner
	users    repository.UserRepo
	issuer   TokenIssuer
	log      logr.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(txRunner repository.TxRunner, users repository.UserRepo, issuer TokenIssuer, log logr.Logger) *AuthService {
	return &AuthService{txRunner: txRunner, users: users, issuer: issuer, log: log}
}

// RegisterRequest is the input to Register.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register creates a new, pending user with a bcrypt-hashed credential.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing credential: %w", err)
	}

	var result *domain.User
	err = s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		user := &domain.User{
			Username:         req.Username,
			Email:            req.Email,
			HashedCredential: string(hash),
			Role:             domain.RolePending,
			Active:           true,
		}
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		result = user
		return nil
	})
	return result, err
}

// AuthResult bundles an authenticated user with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// Authenticate verifies a username/password pair against the stored
// bcrypt hash and issues a bearer token on success.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	var user *domain.User
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		u, err := s.users.GetByUsername(ctx, tx, username)
		if err != nil {
			if err == domain.ErrNotFound {
				return domain.ErrAuthInvalid
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrAuthInvalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedCredential), []byte(password)); err != nil {
		return nil, domain.ErrAuthInvalid
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// UpdateUserRole changes a user's global role and/or active flag.
// Callers must enforce the admin-only restriction themselves; this
// method performs the write unconditionally (mirrors
// original_source/backend/app/routers/auth.py's admin-gated
// update_user_role route, recovered since spec.md's distillation
// dropped it).
func (s *AuthService) UpdateUserRole(ctx context.Context, userID int64, role domain.Role, active bool) (*domain.User, error) {
	var result *domain.User
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.users.UpdateRoleActive(ctx, tx, userID, role, active); err != nil {
			return err
		}
		u, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		result = u
		return nil
	})
	return result, err
}

// CurrentUser loads the user behind a verified token's claims,
// rejecting pending users per spec.md §6 except for this call itself
// (the caller is expected to allow GET /auth/me through for a pending
// user; this method just resolves the identity).
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	var user *domain.User
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		u, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}
