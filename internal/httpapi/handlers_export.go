package httpapi

import (
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/export"
)

func (h *handlers) exportInline(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	projectID, err := pathInt64(r, "projectID")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}

	q := r.URL.Query()
	req := export.Request{
		ProjectID:       projectID,
		Level:           domain.ExportLevel(q.Get("level")),
		Format:          domain.ExportFormat(q.Get("format")),
		PIIStrategy:     domain.PIIStrategy(q.Get("pii_strategy")),
		IncludeManifest: queryBool(r, "include_manifest", true),
		IncludeFailed:   queryBool(r, "include_failed", false),
		IncludeRejected: queryBool(r, "include_rejected", false),
		ActorRole:       claims.Role,
	}

	var snapshot *export.Snapshot
	err = h.deps.TxRunner.RunInTx(r.Context(), func(tx *sqlx.Tx) error {
		snapshot, err = h.deps.Export.Export(r.Context(), tx, req)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if project, perr := h.projectForHeaders(r, projectID); perr == nil {
		w.Header().Set("X-Project-AMR-Version", project.AMRVersion)
		w.Header().Set("X-Project-Role-Set-Version", project.RoleSetVersion)
		w.Header().Set("X-Project-Validation-Rule-Version", project.ValidationRuleVersion)
		w.Header().Set("X-Project-Version-Tag", project.VersionTag)
	}
	if requestID := r.Header.Get("X-Request-Id"); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *handlers) projectForHeaders(r *http.Request, projectID int64) (*domain.Project, error) {
	projects, err := h.deps.Projects.ListProjects(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == projectID {
			return &projects[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (h *handlers) enqueueExportJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}
	projectID, err := pathInt64(r, "projectID")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}

	var req exportJobCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	var job *domain.ExportJob
	err = h.deps.TxRunner.RunInTx(r.Context(), func(tx *sqlx.Tx) error {
		job, err = export.Enqueue(r.Context(), tx, h.deps.ExportJobs, export.EnqueueRequest{
			ProjectID:       projectID,
			CreatorID:       claims.UserID,
			Level:           domain.ExportLevel(req.Level),
			Format:          domain.ExportFormat(req.Format),
			PIIStrategy:     domain.PIIStrategy(req.PIIStrategy),
			IncludeManifest: req.IncludeManifest,
			IncludeFailed:   req.IncludeFailed,
			IncludeRejected: req.IncludeRejected,
		})
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *handlers) getExportJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}
	jobID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz export job kimliği.")
		return
	}

	var job *domain.ExportJob
	err = h.deps.TxRunner.RunInTx(r.Context(), func(tx *sqlx.Tx) error {
		job, err = h.deps.ExportJobs.Get(r.Context(), tx, jobID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *handlers) downloadExportJob(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}
	jobID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz export job kimliği.")
		return
	}

	var job *domain.ExportJob
	err = h.deps.TxRunner.RunInTx(r.Context(), func(tx *sqlx.Tx) error {
		job, err = h.deps.ExportJobs.Get(r.Context(), tx, jobID)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if job.Status != domain.JobCompleted || job.ResultPath == nil {
		writeErrorWithStatus(w, http.StatusConflict, "Job tamamlanmadı veya indirme yolu hazır değil.")
		return
	}

	file, err := os.Open(*job.ResultPath)
	if err != nil {
		writeErrorWithStatus(w, http.StatusNotFound, "Export dosyası bulunamadı.")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, *job.ResultPath, job.UpdatedAt, file)
}
