package account

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/audit"
	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/repository"
)

// ProjectService implements project creation and membership management,
// recovered from original_source/backend/app/routers/projects.py and
// membership.py (spec.md §2 names this component but its body does not
// detail the operations).
type ProjectService struct {
	txRunner    repository.TxRunner
	projects    repository.ProjectRepo
	memberships repository.MembershipRepo
	sentences   repository.SentenceRepo
	assignments repository.AssignmentRepo
	auditWriter *audit.Writer
	log         logr.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(
	txRunner repository.TxRunner,
	projects repository.ProjectRepo,
	memberships repository.MembershipRepo,
	sentences repository.SentenceRepo,
	assignments repository.AssignmentRepo,
	auditWriter *audit.Writer,
	log logr.Logger,
) *ProjectService {
	return &ProjectService{
		txRunner:    txRunner,
		projects:    projects,
		memberships: memberships,
		sentences:   sentences,
		assignments: assignments,
		auditWriter: auditWriter,
		log:         log,
	}
}

// ProjectCreate is the input to CreateProject.
type ProjectCreate struct {
	Name                  string
	Language              string
	AMRVersion            string
	RoleSetVersion        string
	ValidationRuleVersion string
	VersionTag            string
	Description           string
}

// CreateProject inserts a new project. Callers must enforce the
// admin-only restriction (spec.md §6) before calling this.
func (s *ProjectService) CreateProject(ctx context.Context, actorID int64, req ProjectCreate) (*domain.Project, error) {
	var result *domain.Project
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		p := &domain.Project{
			Name:                  req.Name,
			Language:              req.Language,
			AMRVersion:            req.AMRVersion,
			RoleSetVersion:        req.RoleSetVersion,
			ValidationRuleVersion: req.ValidationRuleVersion,
			VersionTag:            req.VersionTag,
			Description:           req.Description,
		}
		if err := s.projects.Create(ctx, tx, p); err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// ListProjects returns every project.
func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var result []domain.Project
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		ps, err := s.projects.List(ctx, tx)
		if err != nil {
			return err
		}
		result = ps
		return nil
	})
	return result, err
}

// AddMember creates an inactive, unapproved membership for userID on
// projectID. Callers must enforce the admin-or-curator restriction.
func (s *ProjectService) AddMember(ctx context.Context, actorID int64, projectID, userID int64, role domain.Role) (*domain.Membership, error) {
	var result *domain.Membership
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		m := &domain.Membership{
			UserID:    userID,
			ProjectID: projectID,
			Role:      role,
			Active:    false,
		}
		if err := s.memberships.Create(ctx, tx, m); err != nil {
			return err
		}
		result = m
		return nil
	})
	return result, err
}

// MembershipForUser resolves userID's membership row on projectID,
// regardless of approval state. internal/httpapi uses this to translate
// the user id carried in the approve route into the membership id
// ApproveMember expects.
func (s *ProjectService) MembershipForUser(ctx context.Context, projectID, userID int64) (*domain.Membership, error) {
	var result *domain.Membership
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		memberships, err := s.memberships.ForUserProject(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		for i := range memberships {
			if !memberships[i].Approved() {
				result = &memberships[i]
				return nil
			}
		}
		if len(memberships) > 0 {
			result = &memberships[0]
			return nil
		}
		return domain.ErrNotFound
	})
	return result, err
}

// ApproveMember activates a membership, stamping approved_at and
// invited_by with the approving actor, and records an audit entry.
// Callers must enforce the admin-or-curator restriction.
func (s *ProjectService) ApproveMember(ctx context.Context, actorID int64, actorRole domain.Role, projectID, membershipID int64) (*domain.Membership, error) {
	var result *domain.Membership
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		approvedAt := time.Now().UTC()
		if err := s.memberships.Approve(ctx, tx, membershipID, actorID, approvedAt); err != nil {
			return err
		}

		if err := s.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:    actorID,
			ActorRole:  actorRole,
			Action:     "membership_approved",
			EntityType: "membership",
			EntityID:   membershipID,
			ProjectID:  projectID,
		}); err != nil {
			return err
		}
		result = &domain.Membership{ID: membershipID, ProjectID: projectID, Active: true, ApprovedAt: &approvedAt, InvitedBy: &actorID}
		return nil
	})
	return result, err
}

// ProjectSummary reports sentence counts by status and open (active)
// assignment counts by role for one project.
type ProjectSummary struct {
	ProjectID          int64
	SentencesByStatus  map[domain.SentenceStatus]int
	AssignmentsByRole  map[domain.Role]int
}

// Summary computes a ProjectSummary by walking every sentence in the
// project and its active assignments. This is a read-only, uncached
// aggregation (spec.md §5 forbids caches on the workflow engine, but
// names no caching layer for this reporting endpoint either).
func (s *ProjectService) Summary(ctx context.Context, projectID int64) (*ProjectSummary, error) {
	summary := &ProjectSummary{
		ProjectID:         projectID,
		SentencesByStatus: map[domain.SentenceStatus]int{},
		AssignmentsByRole: map[domain.Role]int{},
	}
	err := s.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentences, err := s.sentences.ListByProject(ctx, tx, projectID, nil)
		if err != nil {
			return err
		}
		for _, sent := range sentences {
			summary.SentencesByStatus[sent.Status]++
			assignments, err := s.assignments.ActiveForSentence(ctx, tx, sent.ID)
			if err != nil {
				return err
			}
			for _, a := range assignments {
				summary.AssignmentsByRole[a.Role]++
			}
		}
		return nil
	})
	return summary, err
}
