package export_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/export"
	"github.com/amr-platform/annotation-core/pkg/validation"
)

func TestExportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Export Service Suite")
}

type fakeProjects struct{ projects map[int64]*domain.Project }

func (f *fakeProjects) Create(ctx context.Context, ext sqlx.ExtContext, p *domain.Project) error {
	return nil
}
func (f *fakeProjects) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeProjects) List(ctx context.Context, ext sqlx.ExtContext) ([]domain.Project, error) {
	return nil, nil
}

type fakeSentences struct {
	sentences []domain.Sentence
}

func (f *fakeSentences) Create(ctx context.Context, ext sqlx.ExtContext, s *domain.Sentence) error {
	return nil
}
func (f *fakeSentences) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Sentence, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeSentences) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.SentenceStatus) error {
	return nil
}
func (f *fakeSentences) ListByProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, statuses []domain.SentenceStatus) ([]domain.Sentence, error) {
	if statuses == nil {
		return f.sentences, nil
	}
	allowed := map[domain.SentenceStatus]bool{}
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []domain.Sentence
	for _, s := range f.sentences {
		if allowed[s.Status] {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAnnotations struct{ bySentence map[int64][]domain.Annotation }

func (f *fakeAnnotations) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Annotation) error {
	return nil
}
func (f *fakeAnnotations) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Annotation, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeAnnotations) ListForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Annotation, error) {
	return f.bySentence[sentenceID], nil
}

type fakeReviews struct{ byAnnotation map[int64][]domain.Review }

func (f *fakeReviews) Create(ctx context.Context, ext sqlx.ExtContext, r *domain.Review) error {
	return nil
}
func (f *fakeReviews) ListForAnnotation(ctx context.Context, ext sqlx.ExtContext, annotationID int64) ([]domain.Review, error) {
	return f.byAnnotation[annotationID], nil
}
func (f *fakeReviews) HasRejectionForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (bool, error) {
	return false, nil
}

type fakeAdjudications struct{ bySentence map[int64]*domain.Adjudication }

func (f *fakeAdjudications) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Adjudication) error {
	return nil
}
func (f *fakeAdjudications) GetForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (*domain.Adjudication, error) {
	a, ok := f.bySentence[sentenceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

type fakeFailures struct{ byProject map[int64][]domain.FailedSubmission }

func (f *fakeFailures) Create(ctx context.Context, ext sqlx.ExtContext, s *domain.FailedSubmission) error {
	return nil
}
func (f *fakeFailures) ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, failureType *domain.FailureType) ([]domain.FailedSubmission, error) {
	return f.byProject[projectID], nil
}

var _ = Describe("Service.Export", func() {
	var (
		projects      *fakeProjects
		sentences     *fakeSentences
		annotations   *fakeAnnotations
		reviews       *fakeReviews
		adjudications *fakeAdjudications
		failures      *fakeFailures
		svc           *export.Service
		ctx           context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		projects = &fakeProjects{projects: map[int64]*domain.Project{
			7: {ID: 7, Name: "P7", AMRVersion: "1.0", RoleSetVersion: "tr-propbank", ValidationRuleVersion: "v1"},
		}}
		sentences = &fakeSentences{sentences: []domain.Sentence{
			{ID: 1, ProjectID: 7, Text: "s1", Status: domain.StatusAccepted},
			{ID: 2, ProjectID: 7, Text: "s2", Status: domain.StatusAssigned},
		}}
		annotations = &fakeAnnotations{bySentence: map[int64][]domain.Annotation{
			1: {{ID: 10, SentenceID: 1, AuthorID: 42, CanonicalPenman: "(b / buy-01)", ValidityReport: `{"is_valid":true}`}},
		}}
		reviews = &fakeReviews{byAnnotation: map[int64][]domain.Review{
			10: {{ID: 100, AnnotationID: 10, ReviewerID: 55, Decision: domain.DecisionApprove}},
		}}
		adjudications = &fakeAdjudications{bySentence: map[int64]*domain.Adjudication{}}
		failures = &fakeFailures{byProject: map[int64][]domain.FailedSubmission{
			7: {
				{ID: 1000, ProjectID: 7, SentenceID: 2, FailureType: domain.FailureValidation, Reason: "role_mismatch"},
				{ID: 1001, ProjectID: 7, SentenceID: 2, FailureType: domain.FailureReviewReject, Reason: "review_reject"},
			},
		}}
		svc = export.NewService(projects, sentences, annotations, reviews, adjudications, failures, validation.NewService())
	})

	It("rejects a non-admin/curator actor", func() {
		_, err := svc.Export(ctx, nil, export.Request{ProjectID: 7, ActorRole: domain.RoleAnnotator})
		Expect(err).To(MatchError(domain.ErrExportAccess))
	})

	It("reports an unknown project", func() {
		_, err := svc.Export(ctx, nil, export.Request{ProjectID: 999, ActorRole: domain.RoleAdmin})
		Expect(err).To(MatchError(domain.ErrExportNotFound))
	})

	It("assembles only ACCEPTED sentences at gold level, with nested annotations and reviews", func() {
		snapshot, err := svc.Export(ctx, nil, export.Request{
			ProjectID: 7, Level: domain.ExportLevelGold, Format: domain.ExportFormatJSON,
			PIIStrategy: domain.PIIInclude, IncludeManifest: true,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Records).To(HaveLen(1))
		Expect(snapshot.Records[0].Sentence.ID).To(Equal(int64(1)))
		Expect(snapshot.Records[0].Annotations).To(HaveLen(1))
		Expect(snapshot.Records[0].Annotations[0].AuthorID).ToNot(BeNil())
		Expect(*snapshot.Records[0].Annotations[0].AuthorID).To(Equal(int64(42)))
		Expect(snapshot.Records[0].Reviews).To(HaveLen(1))
		Expect(snapshot.Manifest).ToNot(BeNil())
		Expect(snapshot.Manifest.Export.RecordCount).To(Equal(1))
	})

	It("strips PII from author and reviewer ids under the strip strategy", func() {
		snapshot, err := svc.Export(ctx, nil, export.Request{
			ProjectID: 7, Level: domain.ExportLevelGold, Format: domain.ExportFormatJSON,
			PIIStrategy: domain.PIIStrip,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Records[0].Annotations[0].AuthorID).To(BeNil())
		Expect(snapshot.Records[0].Reviews[0].ReviewerID).To(BeNil())
	})

	It("includes no sentences at the failed level, only failed-submission rows", func() {
		snapshot, err := svc.Export(ctx, nil, export.Request{
			ProjectID: 7, Level: domain.ExportLevelFailed, Format: domain.ExportFormatJSON,
			PIIStrategy: domain.PIIInclude,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Records).To(BeEmpty())
		Expect(snapshot.FailedSubmissions).To(HaveLen(1))
		Expect(snapshot.FailedSubmissions[0].FailureType).To(Equal(string(domain.FailureValidation)))
	})

	It("includes no sentences at the rejected level, only review_reject rows", func() {
		snapshot, err := svc.Export(ctx, nil, export.Request{
			ProjectID: 7, Level: domain.ExportLevelRejected, Format: domain.ExportFormatJSON,
			PIIStrategy: domain.PIIInclude,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Records).To(BeEmpty())
		Expect(snapshot.FailedSubmissions).To(HaveLen(1))
		Expect(snapshot.FailedSubmissions[0].FailureType).To(Equal(string(domain.FailureReviewReject)))
	})

	It("recomputes the validity report when the stored one is unparseable", func() {
		annotations.bySentence[1][0].ValidityReport = ""
		snapshot, err := svc.Export(ctx, nil, export.Request{
			ProjectID: 7, Level: domain.ExportLevelGold, Format: domain.ExportFormatJSON,
			PIIStrategy: domain.PIIInclude,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Records[0].Annotations[0].ValidityReport).ToNot(BeEmpty())
	})
})
