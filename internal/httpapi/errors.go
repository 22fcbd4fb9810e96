package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/validation"
)

// errorMapping pairs an HTTP status with the Turkish message shown to
// the caller, grounded on the original implementation's HTTPException
// details (spec.md §7).
type errorMapping struct {
	status  int
	message string
}

var errorTable = []struct {
	err error
	errorMapping
}{
	{domain.ErrAuthMissing, errorMapping{http.StatusUnauthorized, "Kimlik doğrulaması eksik."}},
	{domain.ErrAuthInvalid, errorMapping{http.StatusUnauthorized, "Geçersiz kimlik bilgileri."}},
	{domain.ErrPendingApproval, errorMapping{http.StatusForbidden, "Hesabınız henüz onaylanmadı."}},

	{domain.ErrTransitionNotDefined, errorMapping{http.StatusBadRequest, "Bu durum geçişi tanımlı değil."}},
	{domain.ErrTransitionForbidden, errorMapping{http.StatusForbidden, "Bu işlem için yetkiniz yok."}},

	{domain.ErrAssignmentNotAllowed, errorMapping{http.StatusConflict, "Atama işlemine izin verilmiyor."}},
	{domain.ErrReassignRequiresRejection, errorMapping{http.StatusBadRequest, "Yeniden atama için ret kararı gereklidir."}},
	{domain.ErrInvalidCount, errorMapping{http.StatusBadRequest, "Atanacak kullanıcı sayısı geçersiz."}},
	{domain.ErrUnknownStrategy, errorMapping{http.StatusBadRequest, "Geçersiz atama stratejisi."}},

	{domain.ErrNoEligibleCandidates, errorMapping{http.StatusNotFound, "Uygun aday bulunamadı."}},
	{domain.ErrInsufficientCandidates, errorMapping{http.StatusConflict, "Yeterli sayıda aday bulunamadı."}},

	{domain.ErrValidationFailed, errorMapping{http.StatusBadRequest, "Validasyon hatası."}},

	{domain.ErrExportAccess, errorMapping{http.StatusForbidden, "Export işlemi için yetkiniz yok."}},
	{domain.ErrExportNotFound, errorMapping{http.StatusNotFound, "Export bulunamadı."}},
	{domain.ErrExportFormatUnsupported, errorMapping{http.StatusBadRequest, "Desteklenmeyen export formatı."}},

	{domain.ErrNotFound, errorMapping{http.StatusNotFound, "Kayıt bulunamadı."}},
	{domain.ErrConflict, errorMapping{http.StatusConflict, "Kayıt zaten mevcut."}},
}

func mapError(err error) errorMapping {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			return entry.errorMapping
		}
	}
	return errorMapping{http.StatusInternalServerError, "Beklenmeyen bir hata oluştu."}
}

// errorEnvelope is the uniform JSON body every error response carries
// (spec.md §7's "{ detail }" envelope), with an optional embedded
// validation report for the ValidationFailed case.
type errorEnvelope struct {
	Detail string            `json:"detail"`
	Report *validation.Report `json:"report,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	mapping := mapError(err)
	writeErrorWithStatus(w, mapping.status, mapping.message)
}

func writeErrorWithStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Detail: message})
}

// writeValidationFailed renders a ValidationFailed response body that
// embeds the full report, per spec.md §7.
func writeValidationFailed(w http.ResponseWriter, report *validation.Report) {
	mapping := mapError(domain.ErrValidationFailed)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(mapping.status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Detail: mapping.message, Report: report})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
