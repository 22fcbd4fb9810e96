package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// AuditLogRepository implements repository.AuditLogRepo over the
// audit_logs table, an append-only record of every state change.
// Metadata is stored as jsonb and excluded from the struct's db tags,
// so it's marshaled and scanned by hand.
type AuditLogRepository struct{}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.AuditLog) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return translate("encode audit metadata", err)
	}

	const q = `
		INSERT INTO audit_logs (actor_id, actor_role, action, entity_type, entity_id, before_status, after_status, project_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	row := sqlx.QueryRowxContext(ctx, ext, q,
		a.ActorID, a.ActorRole, a.Action, a.EntityType, a.EntityID, a.BeforeStatus, a.AfterStatus, a.ProjectID, metadata)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return translate("create audit log", err)
	}
	return nil
}

func (r *AuditLogRepository) ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, limit, offset int) ([]domain.AuditLog, error) {
	const q = `
		SELECT id, actor_id, actor_role, action, entity_type, entity_id, before_status, after_status, project_id, metadata, created_at
		FROM audit_logs WHERE project_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := ext.QueryxContext(ctx, q, projectID, limit, offset)
	if err != nil {
		return nil, translate("list audit logs", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var (
			a           domain.AuditLog
			metadataRaw []byte
		)
		if err := rows.Scan(&a.ID, &a.ActorID, &a.ActorRole, &a.Action, &a.EntityType, &a.EntityID,
			&a.BeforeStatus, &a.AfterStatus, &a.ProjectID, &metadataRaw, &a.CreatedAt); err != nil {
			return nil, translate("scan audit log", err)
		}
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &a.Metadata); err != nil {
				return nil, translate("decode audit metadata", err)
			}
		}
		logs = append(logs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate audit logs", err)
	}
	return logs, nil
}
