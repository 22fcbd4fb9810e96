package export

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"
	"github.com/sony/gobreaker"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/metrics"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// Worker is the single-consumer pull loop over the ExportJob table.
// Never more than one job runs at a time per Worker; workers are
// process-local and do not coordinate with each other beyond the
// row-locking semantics of ClaimOldestQueued.
type Worker struct {
	txRunner     repository.TxRunner
	jobs         repository.ExportJobRepo
	service      *Service
	materializer *Materializer
	outputDir    string
	breaker      *gobreaker.CircuitBreaker
	log          logr.Logger
	metrics      *metrics.Registry
}

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	TxRunner  repository.TxRunner
	Jobs      repository.ExportJobRepo
	Service   *Service
	OutputDir string
	Log       logr.Logger
	// Metrics is optional; when nil, the worker runs uninstrumented.
	Metrics *metrics.Registry
}

// NewWorker constructs a Worker. Its circuit breaker trips after five
// consecutive RunNext calls that return an error (a failed claim or
// status-update transaction) and stays open for thirty seconds. A job
// whose export or materialization fails is marked failed and does not
// count as a breaker failure.
func NewWorker(cfg WorkerConfig) *Worker {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "export-worker",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &Worker{
		txRunner:     cfg.TxRunner,
		jobs:         cfg.Jobs,
		service:      cfg.Service,
		materializer: NewMaterializer(),
		outputDir:    cfg.OutputDir,
		breaker:      breaker,
		log:          cfg.Log,
		metrics:      cfg.Metrics,
	}
}

func (w *Worker) recordLoop(outcome string) {
	if w.metrics == nil {
		return
	}
	w.metrics.WorkerLoopsTotal.WithLabelValues(outcome).Inc()
}

// RunNext claims the oldest queued job (if any) and runs it to
// completion. It returns nil, nil when the queue is empty.
func (w *Worker) RunNext(ctx context.Context) (*domain.ExportJob, error) {
	result, err := w.breaker.Execute(func() (interface{}, error) {
		return w.runNext(ctx)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			w.recordLoop("breaker_open")
		}
		return nil, err
	}
	job, _ := result.(*domain.ExportJob)
	switch {
	case job == nil:
		w.recordLoop("empty")
	case job.Status == domain.JobFailed:
		w.recordLoop("failed")
	default:
		w.recordLoop("completed")
	}
	return job, nil
}

func (w *Worker) runNext(ctx context.Context) (*domain.ExportJob, error) {
	var claimed *domain.ExportJob
	err := w.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		job, err := w.jobs.ClaimOldestQueued(ctx, tx)
		if err != nil {
			return err
		}
		if job == nil {
			return nil
		}
		if err := w.jobs.MarkRunning(ctx, tx, job.ID); err != nil {
			return err
		}
		job.Status = domain.JobRunning
		claimed = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	if claimed == nil {
		return nil, nil
	}

	path, runErr := w.materialize(ctx, claimed)
	if runErr != nil {
		w.log.Error(runErr, "export job failed", "job_id", claimed.ID)
		if err := w.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
			return w.jobs.MarkFailed(ctx, tx, claimed.ID, runErr.Error())
		}); err != nil {
			return nil, err
		}
		claimed.Status = domain.JobFailed
		errMsg := runErr.Error()
		claimed.ErrorMessage = &errMsg
		return claimed, nil
	}

	if err := w.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		return w.jobs.MarkCompleted(ctx, tx, claimed.ID, path)
	}); err != nil {
		return nil, err
	}
	claimed.Status = domain.JobCompleted
	claimed.ResultPath = &path
	return claimed, nil
}

func (w *Worker) materialize(ctx context.Context, job *domain.ExportJob) (string, error) {
	start := time.Now()
	if w.metrics != nil {
		defer func() {
			w.metrics.ExportJobDuration.
				WithLabelValues(string(job.Level), string(job.Format)).
				Observe(time.Since(start).Seconds())
		}()
	}

	req := toExportRequest(job)
	var snapshot *Snapshot
	err := w.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		snapshot, err = w.service.Export(ctx, tx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return w.materializer.Write(snapshot, req, w.outputDir, &job.ID)
}
