package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return f.allowed, f.err
}

var _ = Describe("rateLimitMiddleware", func() {
	It("passes through when the limiter allows the request", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rateLimitMiddleware(&fakeLimiter{allowed: true})(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects with 429 when the budget is exhausted", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rateLimitMiddleware(&fakeLimiter{allowed: false})(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
	})

	It("fails open when the limiter errors", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rateLimitMiddleware(&fakeLimiter{err: context.DeadlineExceeded})(okHandler()).ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
