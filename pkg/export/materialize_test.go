package export

import (
	"archive/zip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		ProjectID:  7,
		ExportedAt: "2026-08-01T10:00:00Z",
		Records: []Record{
			{Sentence: SentenceRecord{ID: 1, Text: "test", Status: "ACCEPTED"}},
		},
		FailedSubmissions: []FailedRecord{},
		Manifest: &Manifest{
			Project: ProjectInfo{ID: 7, Name: "P7"},
			Export:  ExportInfo{Level: "gold", Format: "json", RecordCount: 1},
		},
	}
}

func TestMaterializer_WriteJSON(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer()
	req := Request{Level: domain.ExportLevelGold, Format: domain.ExportFormatJSON}

	path, err := m.Write(sampleSnapshot(), req, dir, nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("path = %q, want .json suffix", path)
	}
	if !strings.Contains(filepath.Base(path), "project-7-gold-") {
		t.Errorf("path = %q, want project-7-gold-<timestamp>.json", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.ProjectID != 7 || len(decoded.Records) != 1 {
		t.Errorf("decoded snapshot mismatch: %+v", decoded)
	}
	if decoded.Manifest == nil {
		t.Errorf("json format should embed the manifest inline")
	}
}

func TestMaterializer_WriteJSON_JobIDInFileName(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer()
	req := Request{Level: domain.ExportLevelAll, Format: domain.ExportFormatJSON}
	jobID := int64(99)

	path, err := m.Write(sampleSnapshot(), req, dir, &jobID)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(filepath.Base(path), "-job-99-") {
		t.Errorf("path = %q, want -job-99- segment", path)
	}
}

func TestMaterializer_WriteManifestZip(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer()
	req := Request{Level: domain.ExportLevelSilver, Format: domain.ExportFormatManifestJSON}

	path, err := m.Write(sampleSnapshot(), req, dir, nil)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasSuffix(path, ".zip") {
		t.Errorf("path = %q, want .zip suffix", path)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer reader.Close()

	names := map[string]bool{}
	for _, f := range reader.File {
		names[f.Name] = true
	}
	if !names["data.json"] {
		t.Errorf("archive missing data.json, got %v", names)
	}
	if !names["manifest.json"] {
		t.Errorf("archive missing manifest.json, got %v", names)
	}

	for _, f := range reader.File {
		if f.Name != "data.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open() data.json error = %v", err)
		}
		var payload dataPayload
		if err := json.NewDecoder(rc).Decode(&payload); err != nil {
			t.Fatalf("decode data.json error = %v", err)
		}
		rc.Close()
		if payload.ProjectID != 7 || len(payload.Records) != 1 {
			t.Errorf("data.json payload mismatch: %+v", payload)
		}
	}
}

func TestMaterializer_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer()
	req := Request{Level: domain.ExportLevelAll, Format: "xml"}

	_, err := m.Write(sampleSnapshot(), req, dir, nil)
	if err != domain.ErrExportFormatUnsupported {
		t.Errorf("err = %v, want ErrExportFormatUnsupported", err)
	}
}
