package export

import "encoding/json"

// SentenceRecord is one sentence's exported shape.
type SentenceRecord struct {
	ID         int64   `json:"id"`
	Text       string  `json:"text"`
	Source     *string `json:"source,omitempty"`
	Difficulty *string `json:"difficulty_tag,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// AnnotationRecord is one annotation's exported shape.
type AnnotationRecord struct {
	ID             int64           `json:"id"`
	SentenceID     int64           `json:"sentence_id"`
	AuthorID       *int64          `json:"author_id,omitempty"`
	Penman         string          `json:"penman"`
	ValidityReport json.RawMessage `json:"validity_report,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// ReviewRecord is one review's exported shape.
type ReviewRecord struct {
	ID           int64    `json:"id"`
	AnnotationID int64    `json:"annotation_id"`
	ReviewerID   *int64   `json:"reviewer_id,omitempty"`
	Decision     string   `json:"decision"`
	Score        *float64 `json:"score,omitempty"`
	Comment      *string  `json:"comment,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// AdjudicationRecord is a sentence's exported adjudication, if any.
type AdjudicationRecord struct {
	ID                  int64   `json:"id"`
	SentenceID          int64   `json:"sentence_id"`
	CuratorID           *int64  `json:"curator_id,omitempty"`
	FinalPenman         string  `json:"final_penman"`
	Note                string  `json:"decision_note"`
	SourceAnnotationIDs []int64 `json:"source_annotation_ids,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// Record bundles one sentence with everything attached to it.
type Record struct {
	Sentence     SentenceRecord       `json:"sentence"`
	Annotations  []AnnotationRecord   `json:"annotations"`
	Reviews      []ReviewRecord       `json:"reviews"`
	Adjudication *AdjudicationRecord  `json:"adjudication,omitempty"`
}

// FailedRecord is one failed-submission row's exported shape.
type FailedRecord struct {
	ID              int64   `json:"id"`
	SentenceID      int64   `json:"sentence_id"`
	AssignmentID    *int64  `json:"assignment_id,omitempty"`
	AnnotationID    *int64  `json:"annotation_id,omitempty"`
	UserID          *int64  `json:"user_id,omitempty"`
	ReviewerID      *int64  `json:"reviewer_id,omitempty"`
	FailureType     string  `json:"failure_type"`
	Reason          string  `json:"reason"`
	Details         string  `json:"details,omitempty"`
	AMRVersion      string  `json:"amr_version"`
	RoleSetVersion  string  `json:"role_set_version"`
	RuleVersion     string  `json:"rule_version"`
	SubmittedPenman string  `json:"submitted_penman"`
	CreatedAt       string  `json:"created_at"`
}

// Snapshot is the full in-memory result of one Export call, before
// materialization to a concrete file format.
type Snapshot struct {
	ProjectID         int64          `json:"project_id"`
	ExportedAt        string         `json:"exported_at"`
	Records           []Record       `json:"records"`
	FailedSubmissions []FailedRecord `json:"failed_submissions"`
	Manifest          *Manifest      `json:"manifest,omitempty"`
}

// dataPayload is the subset of Snapshot written to data.json inside a
// manifest+json archive: everything except the manifest itself, which
// is written to its own file.
type dataPayload struct {
	ProjectID         int64          `json:"project_id"`
	ExportedAt        string         `json:"exported_at"`
	Records           []Record       `json:"records"`
	FailedSubmissions []FailedRecord `json:"failed_submissions"`
}
