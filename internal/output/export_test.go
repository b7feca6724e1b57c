package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
)

func TestExportReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportReport(path, sampleReport()); err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded RunReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Result.RunID != "01JBENCHRUN0000000000000AA" {
		t.Errorf("unexpected run id %q", decoded.Result.RunID)
	}

	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file should be removed after export")
	}
}

func TestExportReportHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.html")
	if err := ExportReport(path, sampleReport()); err != nil {
		t.Fatalf("ExportReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Error("expected HTML export for .html extension")
	}
}

func TestExportReportEmptyPath(t *testing.T) {
	if err := ExportReport("", sampleReport()); err == nil {
		t.Fatal("expected error for empty export path")
	}
}

func TestExportReportLockedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	held := flock.New(path + ".lock")
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("setup lock failed: locked=%v err=%v", locked, err)
	}
	defer func() { _ = held.Unlock() }()

	if err := ExportReport(path, sampleReport()); err == nil {
		t.Fatal("expected error while export path is locked")
	}
}
