package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/assignment"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

// CandidatePoolRepository implements assignment.CandidatePool, joining
// approved project memberships against each member's active-assignment
// load across the project's sentences and their declared skills.
//
// Unlike the rest of pkg/repository/postgres, CandidatePool's port
// takes no sqlx.ExtContext: the assignment engine runs its eligibility
// read as a separate query from the orchestrator's transaction, so this
// repository holds its own pooled *sqlx.DB rather than threading a tx
// through from the caller.
type CandidatePoolRepository struct {
	db *sqlx.DB
}

func NewCandidatePoolRepository(db *sqlx.DB) *CandidatePoolRepository {
	return &CandidatePoolRepository{db: db}
}

func (r *CandidatePoolRepository) Eligible(ctx context.Context, projectID int64, role domain.Role) ([]assignment.Candidate, error) {
	const q = `
		SELECT
			pm.user_id,
			COUNT(DISTINCT a.id) FILTER (WHERE a.active) AS load,
			COALESCE(up.skills, '[]'::jsonb) AS skills
		FROM project_memberships pm
		LEFT JOIN assignments a
			ON a.user_id = pm.user_id
			AND a.role = pm.role
			AND a.sentence_id IN (SELECT id FROM sentences WHERE project_id = pm.project_id)
		LEFT JOIN user_profiles up ON up.user_id = pm.user_id
		WHERE pm.project_id = $1
			AND pm.role = $2
			AND pm.active = true
			AND pm.approved_at IS NOT NULL
		GROUP BY pm.user_id, up.skills`

	rows, err := r.db.QueryxContext(ctx, q, projectID, string(role))
	if err != nil {
		return nil, translate("list eligible candidates", err)
	}
	defer rows.Close()

	var candidates []assignment.Candidate
	for rows.Next() {
		var (
			c         assignment.Candidate
			skillsRaw []byte
		)
		if err := rows.Scan(&c.UserID, &c.Load, &skillsRaw); err != nil {
			return nil, translate("scan eligible candidate", err)
		}
		if len(skillsRaw) > 0 {
			if err := json.Unmarshal(skillsRaw, &c.Skills); err != nil {
				return nil, translate("decode candidate skills", err)
			}
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate eligible candidates", err)
	}
	return candidates, nil
}
