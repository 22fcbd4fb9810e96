package workflow_test

import (
	"errors"
	"testing"

	"github.com/amr-platform/annotation-core/pkg/domain"
	"github.com/amr-platform/annotation-core/pkg/workflow"
)

func TestGuard_EnsureTransition(t *testing.T) {
	g := workflow.NewGuard()

	tests := []struct {
		name    string
		from    domain.SentenceStatus
		to      domain.SentenceStatus
		actor   domain.Role
		wantErr error
	}{
		{"new to assigned by curator", domain.StatusNew, domain.StatusAssigned, domain.RoleCurator, nil},
		{"new to assigned by annotator forbidden", domain.StatusNew, domain.StatusAssigned, domain.RoleAnnotator, domain.ErrTransitionForbidden},
		{"assigned to submitted by annotator", domain.StatusAssigned, domain.StatusSubmitted, domain.RoleAnnotator, nil},
		{"assigned to submitted by reviewer forbidden", domain.StatusAssigned, domain.StatusSubmitted, domain.RoleReviewer, domain.ErrTransitionForbidden},
		{"undefined edge", domain.StatusNew, domain.StatusAccepted, domain.RoleAdmin, domain.ErrTransitionNotDefined},
		{"admin is superuser regardless of table role set", domain.StatusAssigned, domain.StatusSubmitted, domain.RoleAdmin, nil},
		{"in_review to submitted by reviewer needs_fix", domain.StatusInReview, domain.StatusSubmitted, domain.RoleReviewer, nil},
		{"in_review to submitted by curator forbidden", domain.StatusInReview, domain.StatusSubmitted, domain.RoleCurator, domain.ErrTransitionForbidden},
		{"adjudicated to accepted by curator", domain.StatusAdjudicated, domain.StatusAccepted, domain.RoleCurator, nil},
		{"adjudicated to accepted by reviewer forbidden", domain.StatusAdjudicated, domain.StatusAccepted, domain.RoleReviewer, domain.ErrTransitionForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.EnsureTransition(tt.from, tt.to, tt.actor)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("EnsureTransition() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EnsureTransition() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReviewToTarget(t *testing.T) {
	tests := []struct {
		decision         domain.ReviewDecision
		isMultiAnnotator bool
		want             domain.SentenceStatus
	}{
		{domain.DecisionApprove, false, domain.StatusAdjudicated},
		{domain.DecisionApprove, true, domain.StatusInReview},
		{domain.DecisionNeedsFix, false, domain.StatusSubmitted},
		{domain.DecisionReject, false, domain.StatusAssigned},
	}
	for _, tt := range tests {
		got := workflow.ReviewToTarget(tt.decision, tt.isMultiAnnotator)
		if got != tt.want {
			t.Errorf("ReviewToTarget(%q, %v) = %q, want %q", tt.decision, tt.isMultiAnnotator, got, tt.want)
		}
	}
}

func TestEnsureAssignmentAllowed(t *testing.T) {
	tests := []struct {
		name                                          string
		status                                        domain.SentenceStatus
		hasActive, allowMultiple, allowReassign        bool
		wantErr                                        error
	}{
		{"new with no active assignments", domain.StatusNew, false, false, false, nil},
		{"assigned with no active assignments", domain.StatusAssigned, false, false, false, nil},
		{"assigned with active and allow_multiple", domain.StatusAssigned, true, true, false, nil},
		{"assigned with active and allow_reassign", domain.StatusAssigned, true, false, true, nil},
		{"assigned with active and neither flag", domain.StatusAssigned, true, false, false, domain.ErrAssignmentNotAllowed},
		{"submitted status rejected", domain.StatusSubmitted, false, false, false, domain.ErrAssignmentNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := workflow.EnsureAssignmentAllowed(tt.status, tt.hasActive, tt.allowMultiple, tt.allowReassign)
			if !errors.Is(err, tt.wantErr) && !(tt.wantErr == nil && err == nil) {
				t.Errorf("EnsureAssignmentAllowed() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireRejectionForReassignment(t *testing.T) {
	if err := workflow.RequireRejectionForReassignment(true); err != nil {
		t.Errorf("expected nil error when a rejection exists, got %v", err)
	}
	if err := workflow.RequireRejectionForReassignment(false); !errors.Is(err, domain.ErrReassignRequiresRejection) {
		t.Errorf("expected ErrReassignRequiresRejection, got %v", err)
	}
}

func TestShouldCloseAssignmentForReview(t *testing.T) {
	tests := map[domain.ReviewDecision]bool{
		domain.DecisionApprove:  true,
		domain.DecisionReject:   true,
		domain.DecisionNeedsFix: false,
	}
	for decision, want := range tests {
		if got := workflow.ShouldCloseAssignmentForReview(decision); got != want {
			t.Errorf("ShouldCloseAssignmentForReview(%q) = %v, want %v", decision, got, want)
		}
	}
}

func TestShouldLockAssignmentsForTarget(t *testing.T) {
	tests := map[domain.SentenceStatus]bool{
		domain.StatusInReview:    true,
		domain.StatusAdjudicated: true,
		domain.StatusAccepted:    true,
		domain.StatusAssigned:    false,
		domain.StatusSubmitted:   false,
		domain.StatusNew:         false,
	}
	for status, want := range tests {
		if got := workflow.ShouldLockAssignmentsForTarget(status); got != want {
			t.Errorf("ShouldLockAssignmentsForTarget(%q) = %v, want %v", status, got, want)
		}
	}
}
