// Package workflow implements the sentence lifecycle state machine: a
// pure transition table and role-authorization guard (this file), and
// the transactional orchestrator that composes it with validation,
// assignment, audit, and failure recording (orchestrator.go).
package workflow

import (
	"github.com/amr-platform/annotation-core/pkg/domain"
)

// transition is one allowed (from, to) edge with its authorized roles.
type transition struct {
	from  domain.SentenceStatus
	to    domain.SentenceStatus
	roles map[domain.Role]bool
}

func roleSet(roles ...domain.Role) map[domain.Role]bool {
	set := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

// transitionTable is the fixed sentence status graph from spec.md §4.1.
var transitionTable = []transition{
	{domain.StatusNew, domain.StatusAssigned, roleSet(domain.RoleAdmin, domain.RoleAssignmentEngine, domain.RoleCurator)},
	{domain.StatusAssigned, domain.StatusAssigned, roleSet(domain.RoleAdmin, domain.RoleAssignmentEngine, domain.RoleCurator)},
	{domain.StatusAssigned, domain.StatusSubmitted, roleSet(domain.RoleAnnotator)},
	{domain.StatusSubmitted, domain.StatusInReview, roleSet(domain.RoleAdmin, domain.RoleReviewer, domain.RoleCurator)},
	{domain.StatusInReview, domain.StatusInReview, roleSet(domain.RoleAdmin, domain.RoleReviewer, domain.RoleCurator)},
	{domain.StatusInReview, domain.StatusAdjudicated, roleSet(domain.RoleAdmin, domain.RoleReviewer, domain.RoleCurator)},
	{domain.StatusInReview, domain.StatusSubmitted, roleSet(domain.RoleReviewer)},
	{domain.StatusInReview, domain.StatusAssigned, roleSet(domain.RoleAdmin, domain.RoleReviewer, domain.RoleCurator)},
	{domain.StatusAdjudicated, domain.StatusAccepted, roleSet(domain.RoleAdmin, domain.RoleCurator)},
	{domain.StatusAdjudicated, domain.StatusInReview, roleSet(domain.RoleAdmin, domain.RoleCurator)},
}

// Guard evaluates the sentence status graph. It holds no state of its
// own; admin is always treated as a superuser ahead of the table.
type Guard struct{}

// NewGuard constructs a Guard.
func NewGuard() *Guard {
	return &Guard{}
}

// EnsureTransition fails with ErrTransitionNotDefined if no edge
// connects current to target, or ErrTransitionForbidden if an edge
// exists but actor's role is not authorized for it.
func (g *Guard) EnsureTransition(current, target domain.SentenceStatus, actor domain.Role) error {
	var found *transition
	for i := range transitionTable {
		t := &transitionTable[i]
		if t.from == current && t.to == target {
			found = t
			break
		}
	}
	if found == nil {
		return domain.ErrTransitionNotDefined
	}
	if actor == domain.RoleAdmin || found.roles[actor] {
		return nil
	}
	return domain.ErrTransitionForbidden
}

// ReviewToTarget maps a review decision to the target sentence status.
func ReviewToTarget(decision domain.ReviewDecision, isMultiAnnotator bool) domain.SentenceStatus {
	switch decision {
	case domain.DecisionApprove:
		if isMultiAnnotator {
			return domain.StatusInReview
		}
		return domain.StatusAdjudicated
	case domain.DecisionNeedsFix:
		return domain.StatusSubmitted
	case domain.DecisionReject:
		return domain.StatusAssigned
	default:
		return ""
	}
}

// EnsureAssignmentAllowed permits new assignments only from NEW or
// ASSIGNED, and only when at least one of allowMultiple/allowReassign
// is true if active assignments already exist.
func EnsureAssignmentAllowed(status domain.SentenceStatus, hasActiveAssignments, allowMultiple, allowReassign bool) error {
	if status != domain.StatusNew && status != domain.StatusAssigned {
		return domain.ErrAssignmentNotAllowed
	}
	if hasActiveAssignments && !allowMultiple && !allowReassign {
		return domain.ErrAssignmentNotAllowed
	}
	return nil
}

// RequireRejectionForReassignment blocks reassignment unless at least
// one prior reject review exists on the sentence.
func RequireRejectionForReassignment(hasRejection bool) error {
	if !hasRejection {
		return domain.ErrReassignRequiresRejection
	}
	return nil
}

// ShouldCloseAssignmentForReview reports whether a review decision
// closes (deactivates) the annotation's originating assignment.
func ShouldCloseAssignmentForReview(decision domain.ReviewDecision) bool {
	return decision == domain.DecisionApprove || decision == domain.DecisionReject
}

// ShouldLockAssignmentsForTarget reports whether reaching target status
// deactivates all remaining active assignments on the sentence.
func ShouldLockAssignmentsForTarget(target domain.SentenceStatus) bool {
	switch target {
	case domain.StatusInReview, domain.StatusAdjudicated, domain.StatusAccepted:
		return true
	default:
		return false
	}
}
