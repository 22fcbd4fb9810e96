package httpapi

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amr-platform/annotation-core/internal/config"
	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

type fakeVerifier struct {
	claims *account.Claims
	err    error
}

func (f *fakeVerifier) Verify(token string) (*account.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFromContext(r.Context())
		if claims != nil {
			w.Header().Set("X-User-Role", string(claims.Role))
		}
		w.WriteHeader(http.StatusOK)
	})
}

var _ = Describe("authMiddleware", func() {
	It("rejects a missing Authorization header", func() {
		verifier := &fakeVerifier{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		authMiddleware(verifier)(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a header without the Bearer prefix", func() {
		verifier := &fakeVerifier{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic xyz")
		authMiddleware(verifier)(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a token the verifier refuses", func() {
		verifier := &fakeVerifier{err: domain.ErrAuthInvalid}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		authMiddleware(verifier)(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("attaches claims to the request context on success", func() {
		verifier := &fakeVerifier{claims: &account.Claims{UserID: 7, Role: domain.RoleCurator}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		authMiddleware(verifier)(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-User-Role")).To(Equal("curator"))
	})
})

var _ = Describe("rejectPending", func() {
	It("rejects a pending user's claims", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withClaims(req.Context(), &account.Claims{UserID: 1, Role: domain.RolePending}))
		rejectPending()(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})

	It("passes through a non-pending role", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(withClaims(req.Context(), &account.Claims{UserID: 1, Role: domain.RoleAnnotator}))
		rejectPending()(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("corsMiddleware", func() {
	It("echoes an allowed origin in the preflight response", func() {
		mw := corsMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")
		mw(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
	})
})
