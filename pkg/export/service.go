// Package export assembles a project's sentences, annotations,
// reviews, adjudications, and failed submissions into a PII-filtered
// snapshot, and materializes that snapshot to a json or manifest+json
// file. pkg/export/job.go and pkg/export/worker.go layer a durable,
// single-consumer job queue on top of Service.Export.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
	"github.com/amr-platform/annotation-core/pkg/validation"
)

const timeLayout = time.RFC3339

// Request is the input to Service.Export.
type Request struct {
	ProjectID       int64
	Level           domain.ExportLevel
	Format          domain.ExportFormat
	PIIStrategy     domain.PIIStrategy
	IncludeManifest bool
	IncludeFailed   bool
	IncludeRejected bool
	ActorRole       domain.Role
}

// Service assembles export snapshots from the repository layer.
type Service struct {
	projects      repository.ProjectRepo
	sentences     repository.SentenceRepo
	annotations   repository.AnnotationRepo
	reviews       repository.ReviewRepo
	adjudications repository.AdjudicationRepo
	failures      repository.FailedSubmissionRepo
	validator     *validation.Service
}

// NewService constructs a Service.
func NewService(
	projects repository.ProjectRepo,
	sentences repository.SentenceRepo,
	annotations repository.AnnotationRepo,
	reviews repository.ReviewRepo,
	adjudications repository.AdjudicationRepo,
	failures repository.FailedSubmissionRepo,
	validator *validation.Service,
) *Service {
	return &Service{
		projects:      projects,
		sentences:     sentences,
		annotations:   annotations,
		reviews:       reviews,
		adjudications: adjudications,
		failures:      failures,
		validator:     validator,
	}
}

func requireExportAccess(role domain.Role) error {
	if role == domain.RoleAdmin || role == domain.RoleCurator {
		return nil
	}
	return domain.ErrExportAccess
}

func levelStatuses(level domain.ExportLevel) []domain.SentenceStatus {
	switch level {
	case domain.ExportLevelGold:
		return []domain.SentenceStatus{domain.StatusAccepted}
	case domain.ExportLevelSilver:
		return []domain.SentenceStatus{domain.StatusAdjudicated, domain.StatusInReview}
	case domain.ExportLevelAll:
		return nil // nil statuses means "every status" to SentenceRepo.ListByProject
	default:
		return nil
	}
}

// Export assembles and PII-filters a full export snapshot for req.
func (s *Service) Export(ctx context.Context, ext sqlx.ExtContext, req Request) (*Snapshot, error) {
	if err := requireExportAccess(req.ActorRole); err != nil {
		return nil, err
	}
	project, err := s.projects.Get(ctx, ext, req.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrExportNotFound
		}
		return nil, err
	}

	pii := NewPIIFilter(req.PIIStrategy)
	onlyFailed := req.Level == domain.ExportLevelFailed || req.Level == domain.ExportLevelRejected

	var records []Record
	if !onlyFailed {
		sentences, err := s.sentences.ListByProject(ctx, ext, req.ProjectID, levelStatuses(req.Level))
		if err != nil {
			return nil, err
		}
		records, err = s.assembleRecords(ctx, ext, sentences, project, pii)
		if err != nil {
			return nil, err
		}
	}

	includeFailed := req.IncludeFailed || req.Level == domain.ExportLevelFailed
	includeRejected := req.IncludeRejected || req.Level == domain.ExportLevelRejected
	failed, err := s.assembleFailed(ctx, ext, req.ProjectID, includeFailed, includeRejected, pii)
	if err != nil {
		return nil, err
	}

	exportedAt := time.Now().UTC().Format(timeLayout)
	snapshot := &Snapshot{
		ProjectID:         req.ProjectID,
		ExportedAt:        exportedAt,
		Records:           records,
		FailedSubmissions: failed,
	}
	if req.IncludeManifest {
		snapshot.Manifest = buildManifest(project, len(records), len(failed), req, exportedAt)
	}
	return snapshot, nil
}

func (s *Service) assembleRecords(ctx context.Context, ext sqlx.ExtContext, sentences []domain.Sentence, project *domain.Project, pii *PIIFilter) ([]Record, error) {
	records := make([]Record, 0, len(sentences))
	for _, sentence := range sentences {
		annotations, err := s.annotations.ListForSentence(ctx, ext, sentence.ID)
		if err != nil {
			return nil, err
		}
		annotationRecords := make([]AnnotationRecord, 0, len(annotations))
		var reviewRecords []ReviewRecord
		for _, a := range annotations {
			ar, err := s.serializeAnnotation(a, project, pii)
			if err != nil {
				return nil, err
			}
			annotationRecords = append(annotationRecords, ar)

			reviews, err := s.reviews.ListForAnnotation(ctx, ext, a.ID)
			if err != nil {
				return nil, err
			}
			for _, r := range reviews {
				reviewRecords = append(reviewRecords, serializeReview(r, pii))
			}
		}

		var adjudicationRecord *AdjudicationRecord
		adjudication, err := s.adjudications.GetForSentence(ctx, ext, sentence.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if adjudication != nil {
			rec := serializeAdjudication(*adjudication, pii)
			adjudicationRecord = &rec
		}

		records = append(records, Record{
			Sentence:     serializeSentence(sentence, pii),
			Annotations:  annotationRecords,
			Reviews:      reviewRecords,
			Adjudication: adjudicationRecord,
		})
	}
	return records, nil
}

func (s *Service) assembleFailed(ctx context.Context, ext sqlx.ExtContext, projectID int64, includeFailed, includeRejected bool, pii *PIIFilter) ([]FailedRecord, error) {
	if !includeFailed && !includeRejected {
		return nil, nil
	}
	rows, err := s.failures.ListForProject(ctx, ext, projectID, nil)
	if err != nil {
		return nil, err
	}
	out := make([]FailedRecord, 0, len(rows))
	for _, f := range rows {
		if !includeFailed && f.FailureType != domain.FailureReviewReject {
			continue
		}
		if !includeRejected && f.FailureType == domain.FailureReviewReject {
			continue
		}
		out = append(out, serializeFailed(f, pii))
	}
	return out, nil
}

func serializeSentence(s domain.Sentence, pii *PIIFilter) SentenceRecord {
	return SentenceRecord{
		ID:         s.ID,
		Text:       s.Text,
		Source:     pii.ApplySource(s.Source),
		Difficulty: s.Difficulty,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt.Format(timeLayout),
		UpdatedAt:  s.UpdatedAt.Format(timeLayout),
	}
}

func (s *Service) serializeAnnotation(a domain.Annotation, project *domain.Project, pii *PIIFilter) (AnnotationRecord, error) {
	report := json.RawMessage(a.ValidityReport)
	if !json.Valid(report) {
		recomputed := s.validator.Validate(a.CanonicalPenman, project.Versions())
		marshaled, err := json.Marshal(recomputed)
		if err != nil {
			return AnnotationRecord{}, err
		}
		report = marshaled
	}
	authorID := a.AuthorID
	return AnnotationRecord{
		ID:             a.ID,
		SentenceID:     a.SentenceID,
		AuthorID:       pii.ApplyUser(&authorID),
		Penman:         a.CanonicalPenman,
		ValidityReport: report,
		CreatedAt:      a.CreatedAt.Format(timeLayout),
	}, nil
}

func serializeReview(r domain.Review, pii *PIIFilter) ReviewRecord {
	reviewerID := r.ReviewerID
	return ReviewRecord{
		ID:           r.ID,
		AnnotationID: r.AnnotationID,
		ReviewerID:   pii.ApplyUser(&reviewerID),
		Decision:     string(r.Decision),
		Score:        r.Score,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt.Format(timeLayout),
	}
}

func serializeAdjudication(a domain.Adjudication, pii *PIIFilter) AdjudicationRecord {
	curatorID := a.CuratorID
	return AdjudicationRecord{
		ID:                  a.ID,
		SentenceID:          a.SentenceID,
		CuratorID:           pii.ApplyUser(&curatorID),
		FinalPenman:         a.FinalPenman,
		Note:                a.Note,
		SourceAnnotationIDs: a.SourceAnnIDs,
		CreatedAt:           a.CreatedAt.Format(timeLayout),
	}
}

func serializeFailed(f domain.FailedSubmission, pii *PIIFilter) FailedRecord {
	return FailedRecord{
		ID:              f.ID,
		SentenceID:      f.SentenceID,
		AssignmentID:    f.AssignmentID,
		AnnotationID:    f.AnnotationID,
		UserID:          pii.ApplyUser(f.UserID),
		ReviewerID:      pii.ApplyUser(f.ReviewerID),
		FailureType:     string(f.FailureType),
		Reason:          f.Reason,
		Details:         pii.CleanseDetails(f.Details),
		AMRVersion:      f.AMRVersion,
		RoleSetVersion:  f.RoleSetVersion,
		RuleVersion:     f.RuleVersion,
		SubmittedPenman: f.SubmittedPenman,
		CreatedAt:       f.CreatedAt.Format(timeLayout),
	}
}
