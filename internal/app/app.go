// Package app is the composition root: it wires internal/config's
// loaded configuration into the database connection, every
// pkg/repository/postgres repository, the domain services of
// pkg/account, pkg/workflow and pkg/export, the export worker's poll
// loop, and internal/httpapi's router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/internal/config"
	"github.com/amr-platform/annotation-core/internal/database"
	"github.com/amr-platform/annotation-core/internal/database/migrations"
	"github.com/amr-platform/annotation-core/internal/httpapi"
	"github.com/amr-platform/annotation-core/internal/httpapi/ratelimit"
	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/assignment"
	"github.com/amr-platform/annotation-core/pkg/audit"
	"github.com/amr-platform/annotation-core/pkg/export"
	"github.com/amr-platform/annotation-core/pkg/failure"
	"github.com/amr-platform/annotation-core/pkg/metrics"
	"github.com/amr-platform/annotation-core/pkg/repository/postgres"
	"github.com/amr-platform/annotation-core/pkg/shared/loggerx"
	"github.com/amr-platform/annotation-core/pkg/validation"
	"github.com/amr-platform/annotation-core/pkg/workflow"
)

// App holds every long-lived collaborator the server needs to run and
// shut down cleanly.
type App struct {
	db        *sqlx.DB
	log       logr.Logger
	limiter   *ratelimit.Limiter
	router    http.Handler
	worker    *export.Worker
	pollEvery time.Duration
}

// New loads cfg's database connection, applies migrations, and wires
// every service and the HTTP router. The caller owns calling RunWorker
// and eventually Close.
func New(cfg *config.Config) (*App, error) {
	log, err := loggerx.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	db, err := database.Connect(&database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}, log)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db.DB); err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	txRunner := postgres.NewTxRunner(db)
	projects := postgres.NewProjectRepository()
	users := postgres.NewUserRepository()
	memberships := postgres.NewMembershipRepository()
	sentences := postgres.NewSentenceRepository()
	assignments := postgres.NewAssignmentRepository()
	annotations := postgres.NewAnnotationRepository()
	reviews := postgres.NewReviewRepository()
	adjudications := postgres.NewAdjudicationRepository()
	failures := postgres.NewFailedSubmissionRepository()
	auditLogs := postgres.NewAuditLogRepository()
	exportJobs := postgres.NewExportJobRepository()
	candidatePool := postgres.NewCandidatePoolRepository(db)

	metricsRegistry := metrics.NewRegistry()
	auditWriter := audit.NewWriter(auditLogs)
	tokenizer := account.NewHMACTokenizer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	authSvc := account.NewAuthService(txRunner, users, tokenizer, log)
	projectSvc := account.NewProjectService(txRunner, projects, memberships, sentences, assignments, auditWriter, log)

	engine := assignment.NewEngine(candidatePool).WithMetrics(metricsRegistry)
	validator := validation.NewService().WithMetrics(metricsRegistry)
	failureRecorder := failure.NewRecorder(failures)

	orchestrator := workflow.NewOrchestrator(workflow.Dependencies{
		TxRunner:        txRunner,
		Projects:        projects,
		Sentences:       sentences,
		Assignments:     assignments,
		Annotations:     annotations,
		Reviews:         reviews,
		Adjudications:   adjudications,
		Memberships:     memberships,
		Engine:          engine,
		Validator:       validator,
		AuditWriter:     auditWriter,
		FailureRecorder: failureRecorder,
		Log:             log,
	})

	exportSvc := export.NewService(projects, sentences, annotations, reviews, adjudications, failures, validator)
	worker := export.NewWorker(export.WorkerConfig{
		TxRunner:  txRunner,
		Jobs:      exportJobs,
		Service:   exportSvc,
		OutputDir: cfg.Export.OutputDir,
		Log:       log,
		Metrics:   metricsRegistry,
	})

	limiter, err := ratelimit.New(cfg.RateLimit.RedisURL, cfg.RateLimit.RequestsPerMinute)
	if err != nil {
		return nil, fmt.Errorf("building rate limiter: %w", err)
	}

	deps := httpapi.Dependencies{
		Auth:         authSvc,
		Projects:     projectSvc,
		Orchestrator: orchestrator,
		Export:       exportSvc,
		ExportJobs:   exportJobs,
		AuditLogs:    auditLogs,
		TxRunner:     txRunner,
		Verifier:     tokenizer,
		Metrics:      metricsRegistry,
		CORS:         cfg.CORS,
		Log:          log,
	}
	// limiter is a typed *ratelimit.Limiter; assigning a nil pointer
	// straight into the RateLimiter interface field would make
	// deps.Limiter != nil true even when rate limiting is disabled.
	if limiter != nil {
		deps.Limiter = limiter
	}
	router := httpapi.NewRouter(deps)

	return &App{
		db:        db,
		log:       log,
		limiter:   limiter,
		router:    router,
		worker:    worker,
		pollEvery: cfg.Export.PollInterval,
	}, nil
}

// Router exposes the wired chi.Router for tests and for http.Server
// construction.
func (a *App) Router() http.Handler {
	return a.router
}

// RunWorker polls the export job queue until ctx is cancelled, pulling
// and running at most one job per tick.
func (a *App) RunWorker(ctx context.Context) {
	ticker := time.NewTicker(a.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.worker.RunNext(ctx); err != nil {
				a.log.Error(err, "export worker iteration failed")
			}
		}
	}
}

// Close releases the database connection and, if configured, the rate
// limiter's Redis connection.
func (a *App) Close() error {
	if a.limiter != nil {
		if err := a.limiter.Close(); err != nil {
			a.log.Error(err, "closing rate limiter")
		}
	}
	return a.db.Close()
}
