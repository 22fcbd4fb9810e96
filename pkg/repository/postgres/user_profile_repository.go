package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// UserProfileRepository implements repository.UserProfileRepo over the
// user_profiles table. Skills is stored as a jsonb array and is excluded
// from the struct's db tags (see pkg/domain), so it's scanned and
// assembled by hand rather than through sqlx.Get.
type UserProfileRepository struct{}

func NewUserProfileRepository() *UserProfileRepository {
	return &UserProfileRepository{}
}

func (r *UserProfileRepository) Get(ctx context.Context, ext sqlx.ExtContext, userID int64) (*domain.UserProfile, error) {
	const q = `SELECT id, user_id, skills, created_at, updated_at FROM user_profiles WHERE user_id = $1`
	var (
		p         domain.UserProfile
		skillsRaw []byte
	)
	row := sqlx.QueryRowxContext(ctx, ext, q, userID)
	if err := row.Scan(&p.ID, &p.UserID, &skillsRaw, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate("get user profile", err)
	}
	if len(skillsRaw) > 0 {
		if err := json.Unmarshal(skillsRaw, &p.Skills); err != nil {
			return nil, translate("decode user profile skills", err)
		}
	}
	return &p, nil
}
