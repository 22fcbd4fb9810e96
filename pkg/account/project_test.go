package account_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/account"
	"github.com/amr-platform/annotation-core/pkg/audit"
	"github.com/amr-platform/annotation-core/pkg/domain"
)

type recordingAuditRepo struct {
	entries []domain.AuditLog
	nextID  int64
}

func (f *recordingAuditRepo) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.AuditLog) error {
	f.nextID++
	a.ID = f.nextID
	f.entries = append(f.entries, *a)
	return nil
}
func (f *recordingAuditRepo) ListForProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, limit, offset int) ([]domain.AuditLog, error) {
	return f.entries, nil
}

var _ = Describe("ProjectService", func() {
	var (
		projects    *fakeProjects
		memberships *fakeMemberships
		sentences   *fakeSentences
		assignments *fakeAssignments
		auditRepo   *recordingAuditRepo
		svc         *account.ProjectService
		ctx         context.Context
	)

	BeforeEach(func() {
		projects = newFakeProjects()
		memberships = newFakeMemberships()
		sentences = &fakeSentences{}
		assignments = &fakeAssignments{byID: map[int64]*domain.Assignment{}}
		auditRepo = &recordingAuditRepo{}
		svc = account.NewProjectService(&fakeTxRunner{}, projects, memberships, sentences, assignments, audit.NewWriter(auditRepo), logr.Discard())
		ctx = context.Background()
	})

	Describe("CreateProject", func() {
		It("inserts a new project", func() {
			p, err := svc.CreateProject(ctx, 1, account.ProjectCreate{
				Name: "amr-tr-news", Language: "tr", AMRVersion: "1.0",
				RoleSetVersion: "tr-propbank-v1", ValidationRuleVersion: "rules-1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).NotTo(BeZero())
			Expect(p.Name).To(Equal("amr-tr-news"))
		})
	})

	Describe("AddMember then ApproveMember", func() {
		It("creates an inactive membership and then activates it", func() {
			m, err := svc.AddMember(ctx, 1, 10, 20, domain.RoleAnnotator)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Active).To(BeFalse())

			approved, err := svc.ApproveMember(ctx, 1, domain.RoleAdmin, 10, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Active).To(BeTrue())
			Expect(approved.ApprovedAt).NotTo(BeNil())
			Expect(len(auditRepo.entries)).To(Equal(1))
			Expect(auditRepo.entries[0].Action).To(Equal("membership_approved"))
		})

		It("returns not found for an unknown membership", func() {
			_, err := svc.ApproveMember(ctx, 1, domain.RoleAdmin, 10, 999)
			Expect(err).To(MatchError(domain.ErrNotFound))
		})
	})

	Describe("Summary", func() {
		It("counts sentences by status and active assignments by role", func() {
			sentences.sentences = []domain.Sentence{
				{ID: 1, ProjectID: 10, Status: domain.StatusNew},
				{ID: 2, ProjectID: 10, Status: domain.StatusAssigned},
				{ID: 3, ProjectID: 10, Status: domain.StatusAssigned},
			}
			assignments.byID[1] = &domain.Assignment{ID: 1, SentenceID: 2, Role: domain.RoleAnnotator, Active: true}
			assignments.byID[2] = &domain.Assignment{ID: 2, SentenceID: 3, Role: domain.RoleAnnotator, Active: true}
			assignments.byID[3] = &domain.Assignment{ID: 3, SentenceID: 3, Role: domain.RoleReviewer, Active: false}

			summary, err := svc.Summary(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.SentencesByStatus[domain.StatusNew]).To(Equal(1))
			Expect(summary.SentencesByStatus[domain.StatusAssigned]).To(Equal(2))
			Expect(summary.AssignmentsByRole[domain.RoleAnnotator]).To(Equal(2))
			Expect(summary.AssignmentsByRole[domain.RoleReviewer]).To(Equal(0))
		})
	})
})
