package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/validation"
)

var _ = Describe("mapError", func() {
	It("maps every known sentinel to a non-500 status", func() {
		for _, entry := range errorTable {
			mapping := mapError(entry.err)
			Expect(mapping.status).NotTo(Equal(http.StatusInternalServerError), "sentinel %v", entry.err)
			Expect(mapping.message).NotTo(BeEmpty())
		}
	})

	It("falls back to 500 for an unrecognized error", func() {
		mapping := mapError(domain.ErrExportFormatUnsupported)
		Expect(mapping.status).To(Equal(http.StatusBadRequest))

		mapping = mapError(errPlain("something else entirely"))
		Expect(mapping.status).To(Equal(http.StatusInternalServerError))
	})

	It("unwraps wrapped sentinels via errors.Is", func() {
		wrapped := wrapErr(domain.ErrNotFound)
		Expect(mapError(wrapped).status).To(Equal(http.StatusNotFound))
	})
})

var _ = Describe("writeError and writeValidationFailed", func() {
	It("writes the uniform detail envelope", func() {
		rec := httptest.NewRecorder()
		writeError(rec, domain.ErrAuthInvalid)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		var body errorEnvelope
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Detail).To(Equal("Geçersiz kimlik bilgileri."))
		Expect(body.Report).To(BeNil())
	})

	It("embeds the validation report", func() {
		rec := httptest.NewRecorder()
		report := &validation.Report{IsValid: false}
		writeValidationFailed(rec, report)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body errorEnvelope
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Report).NotTo(BeNil())
		Expect(body.Report.IsValid).To(BeFalse())
	})
})

type errPlain string

func (e errPlain) Error() string { return string(e) }

type wrappedErr struct{ inner error }

func (w wrappedErr) Error() string { return "wrapped: " + w.inner.Error() }
func (w wrappedErr) Unwrap() error { return w.inner }

func wrapErr(err error) error { return wrappedErr{inner: err} }
