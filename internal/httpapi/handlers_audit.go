package httpapi

import (
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// listAuditLogs serves GET /audit. pkg/repository.AuditLogRepo only
// exposes per-project pagination, so (unlike the original implementation's
// actor_id/entity_type/action filters) every caller, admin or curator,
// must scope the query to one project_id.
func (h *handlers) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}

	projectIDStr := r.URL.Query().Get("project_id")
	if projectIDStr == "" {
		writeErrorWithStatus(w, http.StatusBadRequest, "project_id parametresi zorunludur.")
		return
	}
	projectID, err := strconv.ParseInt(projectIDStr, 10, 64)
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz project_id.")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	var entries []domain.AuditLog
	err = h.deps.TxRunner.RunInTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		entries, err = h.deps.AuditLogs.ListForProject(r.Context(), tx, projectID, limit, offset)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
