package export

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// EnqueueRequest is the input to Enqueue.
type EnqueueRequest struct {
	ProjectID       int64
	CreatorID       int64
	Level           domain.ExportLevel
	Format          domain.ExportFormat
	PIIStrategy     domain.PIIStrategy
	IncludeManifest bool
	IncludeFailed   bool
	IncludeRejected bool
}

// Enqueue inserts a new, queued ExportJob row.
func Enqueue(ctx context.Context, ext sqlx.ExtContext, repo repository.ExportJobRepo, req EnqueueRequest) (*domain.ExportJob, error) {
	job := &domain.ExportJob{
		ExternalID:      uuid.NewString(),
		ProjectID:       req.ProjectID,
		CreatorID:       req.CreatorID,
		Status:          domain.JobQueued,
		Level:           req.Level,
		Format:          req.Format,
		PIIStrategy:     req.PIIStrategy,
		IncludeManifest: req.IncludeManifest,
		IncludeFailed:   req.IncludeFailed,
		IncludeRejected: req.IncludeRejected,
	}
	if err := repo.Create(ctx, ext, job); err != nil {
		return nil, err
	}
	return job, nil
}

// toExportRequest converts a queued ExportJob into the Request its
// owning Worker passes to Service.Export. The worker always runs with
// admin-equivalent privilege: a job it pulled off the queue was already
// authorized when it was enqueued.
func toExportRequest(job *domain.ExportJob) Request {
	return Request{
		ProjectID:       job.ProjectID,
		Level:           job.Level,
		Format:          job.Format,
		PIIStrategy:     job.PIIStrategy,
		IncludeManifest: job.IncludeManifest,
		IncludeFailed:   job.IncludeFailed,
		IncludeRejected: job.IncludeRejected,
		ActorRole:       domain.RoleAdmin,
	}
}
