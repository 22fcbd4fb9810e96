package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// ProjectRepository implements repository.ProjectRepo over the projects
// table.
type ProjectRepository struct{}

// NewProjectRepository constructs a ProjectRepository. It carries no
// state of its own: every method takes the sqlx.ExtContext to operate
// against.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) Create(ctx context.Context, ext sqlx.ExtContext, p *domain.Project) error {
	const q = `
		INSERT INTO projects (name, language, amr_version, role_set_version, validation_rule_version, version_tag, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q,
		p.Name, p.Language, p.AMRVersion, p.RoleSetVersion, p.ValidationRuleVersion, p.VersionTag, p.Description)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return translate("create project", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Project, error) {
	const q = `SELECT * FROM projects WHERE id = $1`
	var p domain.Project
	if err := sqlx.GetContext(ctx, ext, &p, q, id); err != nil {
		return nil, translate("get project", err)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, ext sqlx.ExtContext) ([]domain.Project, error) {
	const q = `SELECT * FROM projects ORDER BY id`
	var projects []domain.Project
	if err := sqlx.SelectContext(ctx, ext, &projects, q); err != nil {
		return nil, translate("list projects", err)
	}
	return projects, nil
}
