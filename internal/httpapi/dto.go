package httpapi

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

var (
	validateOnce sync.Once
	validatorInst *validator.Validate
)

func validate() *validator.Validate {
	validateOnce.Do(func() { validatorInst = validator.New() })
	return validatorInst
}

// registerRequest is the body of POST /auth/register.
type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// tokenRequest is the body of POST /auth/token.
type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateRoleRequest is the body of PATCH /auth/{id}/role.
type updateRoleRequest struct {
	Role   string `json:"role" validate:"required"`
	Active bool   `json:"active"`
}

// projectCreateRequest is the body of POST /projects.
type projectCreateRequest struct {
	Name                  string `json:"name" validate:"required,max=255"`
	Language              string `json:"language" validate:"required"`
	AMRVersion            string `json:"amr_version" validate:"required"`
	RoleSetVersion        string `json:"role_set_version" validate:"required"`
	ValidationRuleVersion string `json:"validation_rule_version" validate:"required"`
	VersionTag            string `json:"version_tag"`
	Description           string `json:"description"`
}

// addMemberRequest is the body of POST /projects/{id}/members.
type addMemberRequest struct {
	UserID int64  `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// sentenceCreateRequest is the body of POST /sentences/project/{p}.
type sentenceCreateRequest struct {
	Text       string  `json:"text" validate:"required"`
	Source     *string `json:"source"`
	Difficulty *string `json:"difficulty"`
}

// assignmentRequest is the body of POST /sentences/{id}/assign.
type assignmentRequest struct {
	Strategy            string  `json:"strategy" validate:"required"`
	Role                string  `json:"role" validate:"required"`
	Count               int     `json:"count"`
	RequiredSkills      []string `json:"required_skills"`
	ProvidedAssignees   []int64  `json:"provided_assignees"`
	ExcludeUserIDs      []int64  `json:"exclude_user_ids"`
	AllowMultiple       bool     `json:"allow_multiple"`
	ReassignAfterReject bool     `json:"reassign_after_reject"`
}

// submitRequest is the body of POST /sentences/{id}/submit.
type submitRequest struct {
	Penman string `json:"penman" validate:"required"`
}

// reviewRequest is the body of POST /sentences/{id}/review.
type reviewRequest struct {
	AnnotationID     int64    `json:"annotation_id" validate:"required"`
	Decision         string   `json:"decision" validate:"required"`
	Score            *float64 `json:"score"`
	Comment          *string  `json:"comment"`
	IsMultiAnnotator bool     `json:"is_multi_annotator"`
}

// adjudicateRequest is the body of POST /sentences/{id}/adjudicate.
type adjudicateRequest struct {
	FinalPenman         string  `json:"final_penman" validate:"required"`
	Note                string  `json:"note"`
	SourceAnnotationIDs []int64 `json:"source_annotation_ids"`
}

// reopenRequest is the body of POST /sentences/{id}/reopen.
type reopenRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// exportJobCreateRequest is the body of POST /exports/project/{p}/jobs.
type exportJobCreateRequest struct {
	Level           string `json:"level" validate:"required"`
	Format          string `json:"format" validate:"required"`
	PIIStrategy     string `json:"pii_strategy" validate:"required"`
	IncludeManifest bool   `json:"include_manifest"`
	IncludeFailed   bool   `json:"include_failed"`
	IncludeRejected bool   `json:"include_rejected"`
}

func validRole(s string) (domain.Role, bool) {
	role := domain.Role(s)
	return role, domain.ValidRoles[role]
}
