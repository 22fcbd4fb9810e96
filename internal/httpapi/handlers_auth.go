package httpapi

import (
	"net/http"

	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	user, err := h.deps.Auth.Register(r.Context(), account.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *handlers) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	if err := validate().Struct(req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz alanlar.")
		return
	}

	result, err := h.deps.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": result.Token,
		"token_type":   "bearer",
		"role":         result.User.Role,
	})
}

func (h *handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	user, err := h.deps.Auth.CurrentUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) updateUserRole(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims.Role != domain.RoleAdmin {
		writeError(w, domain.ErrTransitionForbidden)
		return
	}

	userID, err := pathInt64(r, "id")
	if err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz kullanıcı kimliği.")
		return
	}

	var req updateRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz istek gövdesi.")
		return
	}
	role, ok := validRole(req.Role)
	if !ok {
		writeErrorWithStatus(w, http.StatusBadRequest, "Geçersiz rol.")
		return
	}

	user, err := h.deps.Auth.UpdateUserRole(r.Context(), userID, role, req.Active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
