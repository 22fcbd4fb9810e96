package workflow

import (
	"context"
	"encoding/json"

	"github.com/go-logr/logr"
	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/assignment"
	"github.com/amr-platform/annotation-core/pkg/audit"
	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/failure"
	"github.com/amr-platform/annotation-core/pkg/repository"
	"github.com/amr-platform/annotation-core/pkg/validation"
)

// Orchestrator composes the guard, assignment engine, validator,
// failure recorder, and audit writer into the sentence lifecycle
// operations of spec.md §4.4. Every exported method runs inside
// exactly one transaction via TxRunner.
type Orchestrator struct {
	txRunner        repository.TxRunner
	projects        repository.ProjectRepo
	sentences       repository.SentenceRepo
	assignments     repository.AssignmentRepo
	annotations     repository.AnnotationRepo
	reviews         repository.ReviewRepo
	adjudications   repository.AdjudicationRepo
	memberships     repository.MembershipRepo
	guard           *Guard
	engine          *assignment.Engine
	validator       *validation.Service
	auditWriter     *audit.Writer
	failureRecorder *failure.Recorder
	log             logr.Logger
}

// Dependencies bundles every collaborator NewOrchestrator needs.
type Dependencies struct {
	TxRunner        repository.TxRunner
	Projects        repository.ProjectRepo
	Sentences       repository.SentenceRepo
	Assignments     repository.AssignmentRepo
	Annotations     repository.AnnotationRepo
	Reviews         repository.ReviewRepo
	Adjudications   repository.AdjudicationRepo
	Memberships     repository.MembershipRepo
	Engine          *assignment.Engine
	Validator       *validation.Service
	AuditWriter     *audit.Writer
	FailureRecorder *failure.Recorder
	Log             logr.Logger
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(deps Dependencies) *Orchestrator {
	return &Orchestrator{
		txRunner:        deps.TxRunner,
		projects:        deps.Projects,
		sentences:       deps.Sentences,
		assignments:     deps.Assignments,
		annotations:     deps.Annotations,
		reviews:         deps.Reviews,
		adjudications:   deps.Adjudications,
		memberships:     deps.Memberships,
		guard:           NewGuard(),
		engine:          deps.Engine,
		validator:       deps.Validator,
		auditWriter:     deps.AuditWriter,
		failureRecorder: deps.FailureRecorder,
		log:             deps.Log,
	}
}

func requireAdminOrCurator(role domain.Role) error {
	if role == domain.RoleAdmin || role == domain.RoleCurator {
		return nil
	}
	return domain.ErrTransitionForbidden
}

// effectiveRole resolves the role a project-scoped operation should
// authorize against: an approved project membership's role takes
// precedence over the actor's global role, except admin which is
// always a superuser.
func (o *Orchestrator) effectiveRole(ctx context.Context, ext sqlx.ExtContext, actorID int64, globalRole domain.Role, projectID int64) (domain.Role, error) {
	if globalRole == domain.RoleAdmin {
		return domain.RoleAdmin, nil
	}
	memberships, err := o.memberships.ForUserProject(ctx, ext, actorID, projectID)
	if err != nil {
		return "", err
	}
	for _, m := range memberships {
		if m.Approved() {
			return m.Role, nil
		}
	}
	return globalRole, nil
}

// CreateRequest is the input to Create.
type CreateRequest struct {
	ProjectID  int64
	Text       string
	Source     *string
	Difficulty *string
	ActorID    int64
	ActorRole  domain.Role
}

// Create inserts a new sentence in NEW status.
func (o *Orchestrator) Create(ctx context.Context, req CreateRequest) (*domain.Sentence, error) {
	var result *domain.Sentence
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, req.ProjectID)
		if err != nil {
			return err
		}
		if err := requireAdminOrCurator(role); err != nil {
			return err
		}

		sentence := &domain.Sentence{
			ProjectID:  req.ProjectID,
			Text:       req.Text,
			Source:     req.Source,
			Difficulty: req.Difficulty,
			Status:     domain.StatusNew,
		}
		if err := o.sentences.Create(ctx, tx, sentence); err != nil {
			return err
		}

		after := domain.StatusNew
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:     req.ActorID,
			ActorRole:   role,
			Action:      "sentence_created",
			EntityType:  "sentence",
			EntityID:    sentence.ID,
			AfterStatus: &after,
			ProjectID:   req.ProjectID,
		}); err != nil {
			return err
		}

		result = sentence
		return nil
	})
	return result, err
}

// AssignRequest is the input to Assign.
type AssignRequest struct {
	SentenceID          int64
	ActorID             int64
	ActorRole           domain.Role
	Strategy            domain.AssignmentStrategy
	Role                domain.Role
	Count               int
	RequiredSkills      []string
	ProvidedAssignees   []int64
	ExcludeUserIDs      []int64
	AllowMultiple       bool
	ReassignAfterReject bool
}

// Assign selects and records new assignments for a sentence.
func (o *Orchestrator) Assign(ctx context.Context, req AssignRequest) ([]domain.Assignment, error) {
	var result []domain.Assignment
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}

		active, err := o.assignments.ActiveForSentence(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		hasActive := len(active) > 0

		if err := EnsureAssignmentAllowed(sentence.Status, hasActive, req.AllowMultiple, req.ReassignAfterReject); err != nil {
			return err
		}

		var deactivatedIDs []int64
		if req.ReassignAfterReject {
			hasRejection, err := o.reviews.HasRejectionForSentence(ctx, tx, req.SentenceID)
			if err != nil {
				return err
			}
			if err := RequireRejectionForReassignment(hasRejection); err != nil {
				return err
			}
			for _, a := range active {
				if err := o.assignments.Deactivate(ctx, tx, a.ID); err != nil {
					return err
				}
				deactivatedIDs = append(deactivatedIDs, a.ID)
			}
		}

		if err := o.guard.EnsureTransition(sentence.Status, domain.StatusAssigned, role); err != nil {
			return err
		}

		userIDs, err := o.engine.Assign(ctx, assignment.Request{
			ProjectID:         sentence.ProjectID,
			Strategy:          req.Strategy,
			Role:              req.Role,
			Count:             req.Count,
			RequiredSkills:    req.RequiredSkills,
			ProvidedAssignees: req.ProvidedAssignees,
			ExcludeUserIDs:    req.ExcludeUserIDs,
		})
		if err != nil {
			return err
		}

		created := make([]domain.Assignment, 0, len(userIDs))
		for _, uid := range userIDs {
			a := &domain.Assignment{
				SentenceID: req.SentenceID,
				UserID:     uid,
				Role:       req.Role,
				Active:     true,
			}
			if err := o.assignments.Create(ctx, tx, a); err != nil {
				return err
			}
			created = append(created, *a)
		}

		if err := o.sentences.UpdateStatus(ctx, tx, req.SentenceID, domain.StatusAssigned); err != nil {
			return err
		}

		before := sentence.Status
		after := domain.StatusAssigned
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "sentence_assigned",
			EntityType:   "sentence",
			EntityID:     req.SentenceID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
			Metadata: map[string]interface{}{
				"assignee_ids":     userIDs,
				"strategy":         req.Strategy,
				"requested_count":  req.Count,
				"deactivated_ids":  deactivatedIDs,
			},
		}); err != nil {
			return err
		}

		result = created
		return nil
	})
	return result, err
}

// SubmitRequest is the input to Submit.
type SubmitRequest struct {
	SentenceID int64
	ActorID    int64
	ActorRole  domain.Role
	PenmanText string
}

// SubmitResult carries both outcomes Submit can produce: a successful
// Annotation, or a failed validation report.
type SubmitResult struct {
	Annotation *domain.Annotation
	Report     *validation.Report
}

// Submit validates and, on success, records a new annotation.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	var result *SubmitResult
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		project, err := o.projects.Get(ctx, tx, sentence.ProjectID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}

		activeAssignment, err := o.assignments.ActiveForUserSentence(ctx, tx, req.SentenceID, req.ActorID)
		if err != nil {
			return err
		}
		if activeAssignment == nil {
			return domain.ErrAssignmentNotAllowed
		}

		if err := o.guard.EnsureTransition(sentence.Status, domain.StatusSubmitted, role); err != nil {
			return err
		}

		report := o.validator.Validate(req.PenmanText, project.Versions())
		if !report.IsValid {
			details, marshalErr := json.Marshal(report)
			if marshalErr != nil {
				return marshalErr
			}
			if err := o.failureRecorder.Record(ctx, tx, failure.Submission{
				ProjectID:       sentence.ProjectID,
				SentenceID:      sentence.ID,
				AssignmentID:    &activeAssignment.ID,
				UserID:          &req.ActorID,
				FailureType:     domain.FailureValidation,
				Reason:          "validation_failed",
				Details:         string(details),
				SubmittedPenman: req.PenmanText,
				Versions:        project.Versions(),
			}); err != nil {
				return err
			}
			// The FailedSubmission row must survive even though this
			// attempt does not advance the sentence, so the
			// transaction still commits; ErrValidationFailed is
			// surfaced to the caller after RunInTx returns below.
			result = &SubmitResult{Report: report}
			return nil
		}

		reportJSON, err := json.Marshal(report)
		if err != nil {
			return err
		}
		annotation := &domain.Annotation{
			SentenceID:      sentence.ID,
			AssignmentID:    activeAssignment.ID,
			AuthorID:        req.ActorID,
			CanonicalPenman: *report.CanonicalPenman,
			ValidityReport:  string(reportJSON),
		}
		if err := o.annotations.Create(ctx, tx, annotation); err != nil {
			return err
		}

		if err := o.sentences.UpdateStatus(ctx, tx, sentence.ID, domain.StatusSubmitted); err != nil {
			return err
		}

		before := sentence.Status
		after := domain.StatusSubmitted
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "annotation_submitted",
			EntityType:   "sentence",
			EntityID:     sentence.ID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
			Metadata: map[string]interface{}{
				"annotation_id": annotation.ID,
			},
		}); err != nil {
			return err
		}

		result = &SubmitResult{Annotation: annotation}
		return nil
	})
	if err != nil {
		return result, err
	}
	if result != nil && result.Annotation == nil {
		return result, domain.ErrValidationFailed
	}
	return result, nil
}

// ReviewRequest is the input to Review.
type ReviewRequest struct {
	SentenceID       int64
	ActorID          int64
	ActorRole        domain.Role
	AnnotationID     int64
	Decision         domain.ReviewDecision
	Score            *float64
	Comment          *string
	IsMultiAnnotator bool
}

// Review records a reviewer's verdict and advances the sentence.
func (o *Orchestrator) Review(ctx context.Context, req ReviewRequest) (*domain.Sentence, error) {
	var result *domain.Sentence
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		project, err := o.projects.Get(ctx, tx, sentence.ProjectID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}

		target := ReviewToTarget(req.Decision, req.IsMultiAnnotator)
		if target == "" {
			return domain.ErrTransitionNotDefined
		}

		currentStatus := sentence.Status
		if currentStatus == domain.StatusSubmitted {
			if err := o.guard.EnsureTransition(domain.StatusSubmitted, domain.StatusInReview, role); err != nil {
				return err
			}
			currentStatus = domain.StatusInReview
		}
		if err := o.guard.EnsureTransition(currentStatus, target, role); err != nil {
			return err
		}

		annotation, err := o.annotations.Get(ctx, tx, req.AnnotationID)
		if err != nil {
			return err
		}
		if annotation.SentenceID != sentence.ID {
			return domain.ErrConflict
		}

		var deactivatedIDs []int64
		if ShouldCloseAssignmentForReview(req.Decision) {
			if err := o.assignments.Deactivate(ctx, tx, annotation.AssignmentID); err != nil {
				return err
			}
			deactivatedIDs = append(deactivatedIDs, annotation.AssignmentID)
		}
		if ShouldLockAssignmentsForTarget(target) {
			ids, err := o.assignments.DeactivateAllActive(ctx, tx, sentence.ID)
			if err != nil {
				return err
			}
			deactivatedIDs = append(deactivatedIDs, ids...)
		}

		review := &domain.Review{
			AnnotationID: req.AnnotationID,
			ReviewerID:   req.ActorID,
			Decision:     req.Decision,
			Score:        req.Score,
			Comment:      req.Comment,
		}
		if err := o.reviews.Create(ctx, tx, review); err != nil {
			return err
		}

		if err := o.sentences.UpdateStatus(ctx, tx, sentence.ID, target); err != nil {
			return err
		}

		if req.Decision == domain.DecisionReject {
			if err := o.failureRecorder.Record(ctx, tx, failure.Submission{
				ProjectID:       sentence.ProjectID,
				SentenceID:      sentence.ID,
				AnnotationID:    &req.AnnotationID,
				ReviewerID:      &req.ActorID,
				FailureType:     domain.FailureReviewReject,
				Reason:          "review_reject",
				SubmittedPenman: annotation.CanonicalPenman,
				Versions:        project.Versions(),
			}); err != nil {
				return err
			}
		}

		before := sentence.Status
		after := target
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "review_recorded",
			EntityType:   "sentence",
			EntityID:     sentence.ID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
			Metadata: map[string]interface{}{
				"decision":        req.Decision,
				"annotation_id":   req.AnnotationID,
				"deactivated_ids": deactivatedIDs,
			},
		}); err != nil {
			return err
		}

		sentence.Status = target
		result = sentence
		return nil
	})
	return result, err
}

// AdjudicateRequest is the input to Adjudicate.
type AdjudicateRequest struct {
	SentenceID          int64
	ActorID             int64
	ActorRole           domain.Role
	FinalPenman         string
	Note                string
	SourceAnnotationIDs []int64
}

// Adjudicate records a curator's final decision for a sentence.
func (o *Orchestrator) Adjudicate(ctx context.Context, req AdjudicateRequest) (*domain.Adjudication, error) {
	var result *domain.Adjudication
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}
		if err := requireAdminOrCurator(role); err != nil {
			return err
		}
		if sentence.Status != domain.StatusInReview {
			return domain.ErrTransitionNotDefined
		}
		if err := o.guard.EnsureTransition(sentence.Status, domain.StatusAdjudicated, role); err != nil {
			return err
		}

		if _, err := o.assignments.DeactivateAllActive(ctx, tx, sentence.ID); err != nil {
			return err
		}

		adjudication := &domain.Adjudication{
			SentenceID:   sentence.ID,
			CuratorID:    req.ActorID,
			FinalPenman:  req.FinalPenman,
			Note:         req.Note,
			SourceAnnIDs: req.SourceAnnotationIDs,
		}
		if err := o.adjudications.Create(ctx, tx, adjudication); err != nil {
			return err
		}

		if err := o.sentences.UpdateStatus(ctx, tx, sentence.ID, domain.StatusAdjudicated); err != nil {
			return err
		}

		before := sentence.Status
		after := domain.StatusAdjudicated
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "sentence_adjudicated",
			EntityType:   "sentence",
			EntityID:     sentence.ID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
		}); err != nil {
			return err
		}

		result = adjudication
		return nil
	})
	return result, err
}

// AcceptRequest is the input to Accept.
type AcceptRequest struct {
	SentenceID int64
	ActorID    int64
	ActorRole  domain.Role
}

// Accept marks a sentence ACCEPTED.
func (o *Orchestrator) Accept(ctx context.Context, req AcceptRequest) (*domain.Sentence, error) {
	var result *domain.Sentence
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}
		if err := requireAdminOrCurator(role); err != nil {
			return err
		}
		if err := o.guard.EnsureTransition(sentence.Status, domain.StatusAccepted, role); err != nil {
			return err
		}

		if _, err := o.assignments.DeactivateAllActive(ctx, tx, sentence.ID); err != nil {
			return err
		}
		if err := o.sentences.UpdateStatus(ctx, tx, sentence.ID, domain.StatusAccepted); err != nil {
			return err
		}

		before := sentence.Status
		after := domain.StatusAccepted
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "sentence_accepted",
			EntityType:   "sentence",
			EntityID:     sentence.ID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
		}); err != nil {
			return err
		}

		sentence.Status = domain.StatusAccepted
		result = sentence
		return nil
	})
	return result, err
}

// ReopenRequest is the input to Reopen.
type ReopenRequest struct {
	SentenceID int64
	ActorID    int64
	ActorRole  domain.Role
	Reason     string
}

// Reopen moves an ADJUDICATED sentence back to IN_REVIEW.
func (o *Orchestrator) Reopen(ctx context.Context, req ReopenRequest) (*domain.Sentence, error) {
	var result *domain.Sentence
	err := o.txRunner.RunInTx(ctx, func(tx *sqlx.Tx) error {
		sentence, err := o.sentences.Get(ctx, tx, req.SentenceID)
		if err != nil {
			return err
		}
		role, err := o.effectiveRole(ctx, tx, req.ActorID, req.ActorRole, sentence.ProjectID)
		if err != nil {
			return err
		}
		if err := requireAdminOrCurator(role); err != nil {
			return err
		}
		if sentence.Status != domain.StatusAdjudicated {
			return domain.ErrTransitionNotDefined
		}
		if err := o.guard.EnsureTransition(sentence.Status, domain.StatusInReview, role); err != nil {
			return err
		}

		if err := o.sentences.UpdateStatus(ctx, tx, sentence.ID, domain.StatusInReview); err != nil {
			return err
		}

		before := sentence.Status
		after := domain.StatusInReview
		if err := o.auditWriter.Record(ctx, tx, audit.Entry{
			ActorID:      req.ActorID,
			ActorRole:    role,
			Action:       "sentence_reopened",
			EntityType:   "sentence",
			EntityID:     sentence.ID,
			BeforeStatus: &before,
			AfterStatus:  &after,
			ProjectID:    sentence.ProjectID,
			Metadata: map[string]interface{}{
				"reason": req.Reason,
			},
		}); err != nil {
			return err
		}

		sentence.Status = domain.StatusInReview
		result = sentence
		return nil
	})
	return result, err
}
