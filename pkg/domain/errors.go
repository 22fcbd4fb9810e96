package domain

import "errors"

// Taxonomy of stable, language-neutral domain error codes. internal/httpapi
// maps each one to an HTTP status and a Turkish user-facing message
// (spec.md §7); the sentinel values themselves stay in English and are
// compared with errors.Is.
var (
	ErrAuthMissing     = errors.New("auth_missing")
	ErrAuthInvalid     = errors.New("auth_invalid")
	ErrPendingApproval = errors.New("pending_approval")

	ErrTransitionNotDefined = errors.New("transition_not_defined")
	ErrTransitionForbidden  = errors.New("transition_forbidden")

	ErrAssignmentNotAllowed       = errors.New("assignment_not_allowed")
	ErrReassignRequiresRejection  = errors.New("reassign_requires_rejection")
	ErrInvalidCount               = errors.New("invalid_count")
	ErrUnknownStrategy            = errors.New("unknown_strategy")

	ErrNoEligibleCandidates  = errors.New("no_eligible_candidates")
	ErrInsufficientCandidates = errors.New("insufficient_candidates")

	ErrValidationFailed = errors.New("validation_failed")

	ErrExportAccess            = errors.New("export_access_error")
	ErrExportNotFound          = errors.New("export_not_found")
	ErrExportFormatUnsupported = errors.New("export_format_unsupported")

	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)
