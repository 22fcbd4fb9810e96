// Package httpapi is the thin chi-based transport layer over pkg/workflow,
// pkg/account, and pkg/export (spec.md §4.10 / §6). Handlers translate
// HTTP requests into the narrow request structs those packages already
// define, and translate domain errors back into the taxonomy of §7.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"

	"github.com/amr-platform/annotation-core/internal/config"
	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/export"
	"github.com/amr-platform/annotation-core/pkg/metrics"
	"github.com/amr-platform/annotation-core/pkg/repository"
	"github.com/amr-platform/annotation-core/pkg/shared/logging"
	"github.com/amr-platform/annotation-core/pkg/workflow"
)

// Dependencies bundles every collaborator the router needs to bind the
// full route table of spec.md §6.
type Dependencies struct {
	Auth         *account.AuthService
	Projects     *account.ProjectService
	Orchestrator *workflow.Orchestrator
	Export       *export.Service
	ExportJobs   repository.ExportJobRepo
	AuditLogs    repository.AuditLogRepo
	TxRunner     repository.TxRunner
	Verifier     account.TokenVerifier
	Metrics      *metrics.Registry
	Limiter      RateLimiter
	CORS         config.CORSConfig
	Log          logr.Logger
}

// NewRouter builds the full chi.Router: CORS, request logging, the auth
// middleware, an optional rate limiter, every route in spec.md §6's
// table, and a /metrics endpoint.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(deps.Log))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(deps.CORS))
	if deps.Limiter != nil {
		r.Use(rateLimitMiddleware(deps.Limiter))
	}

	h := &handlers{deps: deps}

	r.Get("/metrics", h.metricsHandler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.registerUser)
		r.Post("/token", h.issueToken)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(deps.Verifier))
			r.Get("/me", h.currentUser)
			r.Patch("/{id}/role", h.updateUserRole)
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Use(authMiddleware(deps.Verifier))
		r.Use(rejectPending())
		r.Post("/", h.createProject)
		r.Get("/", h.listProjects)
		r.Get("/{id}/summary", h.projectSummary)
		r.Post("/{id}/members", h.addMember)
		r.Post("/{id}/members/{userID}/approve", h.approveMember)
	})

	r.Route("/sentences", func(r chi.Router) {
		r.Use(authMiddleware(deps.Verifier))
		r.Use(rejectPending())
		r.Post("/project/{projectID}", h.createSentence)
		r.Post("/{id}/assign", h.assignSentence)
		r.Post("/{id}/submit", h.submitAnnotation)
		r.Post("/{id}/review", h.reviewAnnotation)
		r.Post("/{id}/adjudicate", h.adjudicateSentence)
		r.Post("/{id}/accept", h.acceptSentence)
		r.Post("/{id}/reopen", h.reopenSentence)
	})

	r.Route("/audit", func(r chi.Router) {
		r.Use(authMiddleware(deps.Verifier))
		r.Use(rejectPending())
		r.Get("/", h.listAuditLogs)
	})

	r.Route("/exports", func(r chi.Router) {
		r.Use(authMiddleware(deps.Verifier))
		r.Use(rejectPending())
		r.Get("/project/{projectID}", h.exportInline)
		r.Post("/project/{projectID}/jobs", h.enqueueExportJob)
		r.Get("/jobs/{id}", h.getExportJob)
		r.Get("/jobs/{id}/download", h.downloadExportJob)
	})

	return r
}

func requestLogger(log logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			fields := logging.HTTPFields(r.Method, r.URL.Path, ww.Status()).Duration(time.Since(start))
			log.Info("http request", fields.ToKeyValues()...)
		})
	}
}
