package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// Materializer writes a Snapshot to a concrete file under a directory,
// per Request.Format.
type Materializer struct{}

// NewMaterializer constructs a Materializer.
func NewMaterializer() *Materializer {
	return &Materializer{}
}

// Write materializes snapshot under directory and returns the written
// file's path. jobID, when non-nil, is folded into the file name.
func (m *Materializer) Write(snapshot *Snapshot, req Request, directory string, jobID *int64) (string, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", err
	}

	baseName := fmt.Sprintf("project-%d-%s", snapshot.ProjectID, req.Level)
	if jobID != nil {
		baseName += fmt.Sprintf("-job-%d", *jobID)
	}
	baseName += "-" + time.Now().UTC().Format("20060102-150405")

	switch req.Format {
	case domain.ExportFormatJSON:
		return m.writeJSON(snapshot, directory, baseName)
	case domain.ExportFormatManifestJSON:
		return m.writeManifestZip(snapshot, directory, baseName)
	default:
		return "", domain.ErrExportFormatUnsupported
	}
}

func (m *Materializer) writeJSON(snapshot *Snapshot, directory, baseName string) (string, error) {
	path := filepath.Join(directory, baseName+".json")
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *Materializer) writeManifestZip(snapshot *Snapshot, directory, baseName string) (string, error) {
	path := filepath.Join(directory, baseName+".zip")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	archive := zip.NewWriter(file)

	data := dataPayload{
		ProjectID:         snapshot.ProjectID,
		ExportedAt:        snapshot.ExportedAt,
		Records:           snapshot.Records,
		FailedSubmissions: snapshot.FailedSubmissions,
	}
	if err := writeZipEntry(archive, "data.json", data); err != nil {
		_ = archive.Close()
		return "", err
	}
	if snapshot.Manifest != nil {
		if err := writeZipEntry(archive, "manifest.json", snapshot.Manifest); err != nil {
			_ = archive.Close()
			return "", err
		}
	}

	if err := archive.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func writeZipEntry(archive *zip.Writer, name string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
