package httpapi

import (
	"net/http"

	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims.Role != domain.RoleAdmin {
		writeError(w, domain.ErrTransitionForbidden)
		return
	}

	var req projectCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	project, err := h.deps.Projects.CreateProject(r.Context(), claims.UserID, account.ProjectCreate{
		Name:                  req.Name,
		Language:              req.Language,
		AMRVersion:            req.AMRVersion,
		RoleSetVersion:        req.RoleSetVersion,
		ValidationRuleVersion: req.ValidationRuleVersion,
		VersionTag:            req.VersionTag,
		Description:           req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.deps.Projects.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *handlers) projectSummary(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}
	summary, err := h.deps.Projects.Summary(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handlers) addMember(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}
	projectID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}
	role, ok := validRole(req.Role)
	if !ok {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz rol.")
		return
	}

	membership, err := h.deps.Projects.AddMember(r.Context(), claims.UserID, projectID, req.UserID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membership)
}

func (h *handlers) approveMember(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := requireAdminOrCurator(claims.Role); err != nil {
		writeError(w, err)
		return
	}
	projectID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz proje kimliği.")
		return
	}
	userID, err := pathInt64(r, "userID")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz kullanıcı kimliği.")
		return
	}

	pending, err := h.deps.Projects.MembershipForUser(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	membership, err := h.deps.Projects.ApproveMember(r.Context(), claims.UserID, claims.Role, projectID, pending.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, membership)
}
