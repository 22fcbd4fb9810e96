package domain

import "time"

// Project owns a corpus of sentences under a fixed version triple.
// Versions are immutable once any Annotation references the project.
type Project struct {
	ID                    int64     `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	Language              string    `db:"language" json:"language"`
	AMRVersion            string    `db:"amr_version" json:"amr_version"`
	RoleSetVersion        string    `db:"role_set_version" json:"role_set_version"`
	ValidationRuleVersion string    `db:"validation_rule_version" json:"validation_rule_version"`
	VersionTag            string    `db:"version_tag" json:"version_tag"`
	Description           string    `db:"description" json:"description"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// User is a platform account. Password hashing and token issuance are
// external concerns; only the hashed credential is stored here.
type User struct {
	ID                int64     `db:"id" json:"id"`
	Username          string    `db:"username" json:"username"`
	Email             string    `db:"email" json:"email"`
	HashedCredential  string    `db:"hashed_credential" json:"-"`
	Role              Role      `db:"role" json:"role"`
	Active            bool      `db:"active" json:"active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// UserProfile carries a user's self-declared skill tags, used by the
// skill-based assignment strategy.
type UserProfile struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Skills    []string  `db:"-" json:"skills"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Membership gates a user's participation in a project. A user only
// participates when Active && ApprovedAt != nil.
//
// InvitedBy is a supplement recovered from original_source's membership
// approval flow: it records which actor approved the membership, for
// the audit trail (spec.md distillation dropped this field; see
// DESIGN.md / SPEC_FULL.md §3).
type Membership struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	ProjectID  int64      `db:"project_id" json:"project_id"`
	Role       Role       `db:"role" json:"role"`
	Active     bool       `db:"active" json:"active"`
	ApprovedAt *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	InvitedBy  *int64     `db:"invited_by" json:"invited_by,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Approved reports whether this membership currently grants
// participation in its project.
func (m Membership) Approved() bool {
	return m.Active && m.ApprovedAt != nil
}

// Sentence is the unit of work flowing through the annotation pipeline.
type Sentence struct {
	ID         int64          `db:"id" json:"id"`
	ProjectID  int64          `db:"project_id" json:"project_id"`
	Text       string         `db:"text" json:"text"`
	Source     *string        `db:"source" json:"source,omitempty"`
	Difficulty *string        `db:"difficulty" json:"difficulty,omitempty"`
	Status     SentenceStatus `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Assignment links a user to a sentence under a role. Assignments are
// never deleted, only deactivated.
type Assignment struct {
	ID         int64     `db:"id" json:"id"`
	SentenceID int64     `db:"sentence_id" json:"sentence_id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Role       Role      `db:"role" json:"role"`
	Blind      bool      `db:"blind" json:"blind"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Annotation is a submitted, validated PENMAN graph for a sentence.
type Annotation struct {
	ID               int64     `db:"id" json:"id"`
	SentenceID       int64     `db:"sentence_id" json:"sentence_id"`
	AssignmentID     int64     `db:"assignment_id" json:"assignment_id"`
	AuthorID         int64     `db:"author_id" json:"author_id"`
	CanonicalPenman  string    `db:"canonical_penman" json:"canonical_penman"`
	ValidityReport   string    `db:"validity_report" json:"validity_report"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Review is a reviewer's verdict on an Annotation.
type Review struct {
	ID           int64          `db:"id" json:"id"`
	AnnotationID int64          `db:"annotation_id" json:"annotation_id"`
	ReviewerID   int64          `db:"reviewer_id" json:"reviewer_id"`
	Decision     ReviewDecision `db:"decision" json:"decision"`
	Score        *float64       `db:"score" json:"score,omitempty"`
	Comment      *string        `db:"comment" json:"comment,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Adjudication is a curator's final decision for a sentence lifecycle
// segment.
type Adjudication struct {
	ID            int64     `db:"id" json:"id"`
	SentenceID    int64     `db:"sentence_id" json:"sentence_id"`
	CuratorID     int64     `db:"curator_id" json:"curator_id"`
	FinalPenman   string    `db:"final_penman" json:"final_penman"`
	Note          string    `db:"note" json:"note"`
	SourceAnnIDs  []int64   `db:"-" json:"source_annotation_ids"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// FailedSubmission is an append-only record of a failed submit or a
// rejecting review, stamped with the project's version triple and the
// offending PENMAN text at the time of failure.
type FailedSubmission struct {
	ID                    int64       `db:"id" json:"id"`
	ProjectID             int64       `db:"project_id" json:"project_id"`
	SentenceID            int64       `db:"sentence_id" json:"sentence_id"`
	AssignmentID          *int64      `db:"assignment_id" json:"assignment_id,omitempty"`
	AnnotationID          *int64      `db:"annotation_id" json:"annotation_id,omitempty"`
	UserID                *int64      `db:"user_id" json:"user_id,omitempty"`
	ReviewerID            *int64      `db:"reviewer_id" json:"reviewer_id,omitempty"`
	FailureType           FailureType `db:"failure_type" json:"failure_type"`
	Reason                string      `db:"reason" json:"reason"`
	Details               string      `db:"details" json:"details"`
	AMRVersion            string      `db:"amr_version" json:"amr_version"`
	RoleSetVersion        string      `db:"role_set_version" json:"role_set_version"`
	RuleVersion            string      `db:"rule_version" json:"rule_version"`
	SubmittedPenman       string      `db:"submitted_penman" json:"submitted_penman"`
	CreatedAt             time.Time   `db:"created_at" json:"created_at"`
}

// AuditLog is an append-only, per-operation record of a state change.
type AuditLog struct {
	ID           int64                  `db:"id" json:"id"`
	ActorID      int64                  `db:"actor_id" json:"actor_id"`
	ActorRole    Role                   `db:"actor_role" json:"actor_role"`
	Action       string                 `db:"action" json:"action"`
	EntityType   string                 `db:"entity_type" json:"entity_type"`
	EntityID     int64                  `db:"entity_id" json:"entity_id"`
	BeforeStatus *string                `db:"before_status" json:"before_status,omitempty"`
	AfterStatus  *string                `db:"after_status" json:"after_status,omitempty"`
	ProjectID    int64                  `db:"project_id" json:"project_id"`
	Metadata     map[string]interface{} `db:"-" json:"metadata,omitempty"`
	CreatedAt    time.Time              `db:"created_at" json:"created_at"`
}

// ExportJob is a durable, single-consumer work item for the export
// worker.
type ExportJob struct {
	ID               int64           `db:"id" json:"id"`
	ExternalID       string          `db:"external_id" json:"external_id"`
	ProjectID        int64           `db:"project_id" json:"project_id"`
	CreatorID        int64           `db:"creator_id" json:"creator_id"`
	Status           ExportJobStatus `db:"status" json:"status"`
	Level            ExportLevel     `db:"level" json:"level"`
	Format           ExportFormat    `db:"format" json:"format"`
	PIIStrategy      PIIStrategy     `db:"pii_strategy" json:"pii_strategy"`
	IncludeManifest  bool            `db:"include_manifest" json:"include_manifest"`
	IncludeFailed    bool            `db:"include_failed" json:"include_failed"`
	IncludeRejected  bool            `db:"include_rejected" json:"include_rejected"`
	ResultPath       *string         `db:"result_path" json:"result_path,omitempty"`
	ErrorMessage     *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// VersionTriple is the project's reproducibility fingerprint, stamped
// onto FailedSubmission rows and export manifests.
type VersionTriple struct {
	AMRVersion            string `json:"amr_version"`
	RoleSetVersion        string `json:"role_set_version"`
	ValidationRuleVersion string `json:"validation_rule_version"`
}

// Versions returns the project's version triple.
func (p Project) Versions() VersionTriple {
	return VersionTriple{
		AMRVersion:            p.AMRVersion,
		RoleSetVersion:        p.RoleSetVersion,
		ValidationRuleVersion: p.ValidationRuleVersion,
	}
}
