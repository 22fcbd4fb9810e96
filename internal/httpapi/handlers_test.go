package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

func requestWithURLParam(key, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("pathInt64", func() {
	It("parses a numeric path parameter", func() {
		r := requestWithURLParam("id", "42")
		v, err := pathInt64(r, "id")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(42)))
	})

	It("errors on a non-numeric path parameter", func() {
		r := requestWithURLParam("id", "abc")
		_, err := pathInt64(r, "id")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("queryInt and queryBool", func() {
	It("returns the default when the query param is absent", func() {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		Expect(queryInt(r, "limit", 50)).To(Equal(50))
		Expect(queryBool(r, "include_manifest", true)).To(BeTrue())
	})

	It("parses supplied values", func() {
		r := httptest.NewRequest(http.MethodGet, "/?limit=10&include_manifest=false", nil)
		Expect(queryInt(r, "limit", 50)).To(Equal(10))
		Expect(queryBool(r, "include_manifest", true)).To(BeFalse())
	})

	It("falls back to the default on an unparseable value", func() {
		r := httptest.NewRequest(http.MethodGet, "/?limit=nope", nil)
		Expect(queryInt(r, "limit", 50)).To(Equal(50))
	})
})

var _ = Describe("requireAdminOrCurator", func() {
	It("allows admin and curator", func() {
		Expect(requireAdminOrCurator(domain.RoleAdmin)).To(Succeed())
		Expect(requireAdminOrCurator(domain.RoleCurator)).To(Succeed())
	})

	It("forbids every other role", func() {
		Expect(requireAdminOrCurator(domain.RoleAnnotator)).To(MatchError(domain.ErrTransitionForbidden))
		Expect(requireAdminOrCurator(domain.RolePending)).To(MatchError(domain.ErrTransitionForbidden))
	})
})
