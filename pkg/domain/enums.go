// Package domain holds the platform's closed enum sets and entity types.
// Nothing here talks to a database or HTTP request; it is the vocabulary
// every other package shares.
package domain

// Role is a user's (or membership's) position in the annotation
// pipeline. Admin is treated as a superuser wherever a role check is
// performed.
type Role string

const (
	RoleGuest            Role = "guest"
	RolePending          Role = "pending"
	RoleAnnotator        Role = "annotator"
	RoleReviewer         Role = "reviewer"
	RoleCurator          Role = "curator"
	RoleAdmin            Role = "admin"
	RoleAssignmentEngine Role = "assignment_engine"
)

// ValidRoles enumerates the closed role set.
var ValidRoles = map[Role]bool{
	RoleGuest:            true,
	RolePending:          true,
	RoleAnnotator:        true,
	RoleReviewer:         true,
	RoleCurator:          true,
	RoleAdmin:            true,
	RoleAssignmentEngine: true,
}

// SentenceStatus is the sentence's position in the workflow state
// machine.
type SentenceStatus string

const (
	StatusNew         SentenceStatus = "NEW"
	StatusAssigned    SentenceStatus = "ASSIGNED"
	StatusSubmitted   SentenceStatus = "SUBMITTED"
	StatusInReview    SentenceStatus = "IN_REVIEW"
	StatusAdjudicated SentenceStatus = "ADJUDICATED"
	StatusAccepted    SentenceStatus = "ACCEPTED"
)

// ReviewDecision is a reviewer's verdict on a submitted annotation.
type ReviewDecision string

const (
	DecisionApprove  ReviewDecision = "approve"
	DecisionNeedsFix ReviewDecision = "needs_fix"
	DecisionReject   ReviewDecision = "reject"
)

// FailureType classifies why a FailedSubmission was recorded.
type FailureType string

const (
	FailureValidation   FailureType = "validation"
	FailureReviewReject FailureType = "review_reject"
)

// AssignmentStrategy selects how the assignment engine picks candidates.
type AssignmentStrategy string

const (
	StrategyRoundRobin AssignmentStrategy = "round_robin"
	StrategySkillBased AssignmentStrategy = "skill_based"
)

// ExportLevel selects which sentences an export includes.
type ExportLevel string

const (
	ExportLevelGold     ExportLevel = "gold"
	ExportLevelSilver   ExportLevel = "silver"
	ExportLevelAll      ExportLevel = "all"
	ExportLevelFailed   ExportLevel = "failed"
	ExportLevelRejected ExportLevel = "rejected"
)

// ExportFormat selects the materialized output shape.
type ExportFormat string

const (
	ExportFormatJSON         ExportFormat = "json"
	ExportFormatManifestJSON ExportFormat = "manifest+json"
)

// PIIStrategy selects how personally-identifying fields are treated on
// export.
type PIIStrategy string

const (
	PIIInclude   PIIStrategy = "include"
	PIIStrip     PIIStrategy = "strip"
	PIIAnonymize PIIStrategy = "anonymize"
)

// ExportJobStatus is an export job's lifecycle state.
type ExportJobStatus string

const (
	JobQueued    ExportJobStatus = "queued"
	JobRunning   ExportJobStatus = "running"
	JobCompleted ExportJobStatus = "completed"
	JobFailed    ExportJobStatus = "failed"
)

// IssueSeverity classifies a single validation finding.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityLint    IssueSeverity = "lint"
)
