package export

import "github.com/amr-platform/annotation-core/pkg/domain"

// ProjectInfo is the project metadata carried by a Manifest.
type ProjectInfo struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Language              string `json:"language"`
	AMRVersion            string `json:"amr_version"`
	RoleSetVersion        string `json:"role_set_version"`
	ValidationRuleVersion string `json:"validation_rule_version"`
	VersionTag            string `json:"version_tag"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

// ExportInfo is the export-parameters and count metadata carried by a
// Manifest.
type ExportInfo struct {
	Level           string `json:"level"`
	Format          string `json:"format"`
	PIIStrategy     string `json:"pii_strategy"`
	IncludeFailed   bool   `json:"include_failed"`
	IncludeRejected bool   `json:"include_rejected"`
	RecordCount     int    `json:"record_count"`
	FailedCount     int    `json:"failed_count"`
	GeneratedAt     string `json:"generated_at"`
}

// Manifest describes the reproducibility fingerprint and shape of one
// export, independent of its materialized file format.
type Manifest struct {
	Project ProjectInfo `json:"project"`
	Export  ExportInfo  `json:"export"`
}

func buildManifest(project *domain.Project, recordCount, failedCount int, req Request, generatedAt string) *Manifest {
	return &Manifest{
		Project: ProjectInfo{
			ID:                    project.ID,
			Name:                  project.Name,
			Language:              project.Language,
			AMRVersion:            project.AMRVersion,
			RoleSetVersion:        project.RoleSetVersion,
			ValidationRuleVersion: project.ValidationRuleVersion,
			VersionTag:            project.VersionTag,
			CreatedAt:             project.CreatedAt.Format(timeLayout),
			UpdatedAt:             project.UpdatedAt.Format(timeLayout),
		},
		Export: ExportInfo{
			Level:           string(req.Level),
			Format:          string(req.Format),
			PIIStrategy:     string(req.PIIStrategy),
			IncludeFailed:   req.IncludeFailed,
			IncludeRejected: req.IncludeRejected,
			RecordCount:     recordCount,
			FailedCount:     failedCount,
			GeneratedAt:     generatedAt,
		},
	}
}
