package worker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"paperlens/internal/metrics"
)

func writeFile(t *testing.T, dir, name string, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	stale := writeFile(t, dir, "old.pdf", now.Add(-2*time.Hour))
	fresh := writeFile(t, dir, "new.pdf", now.Add(-10*time.Minute))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sweeper := NewUploadSweeper(dir, "@every 1h", time.Hour, nil, m)
	sweeper.now = func() time.Time { return now }

	removed, err := sweeper.Sweep()
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("Sweep() removed %d files, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file still present")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Errorf("directory removed: %v", err)
	}

	expected := `
# HELP paperlens_swept_upload_files_total Stale files removed from the upload directory.
# TYPE paperlens_swept_upload_files_total counter
paperlens_swept_upload_files_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "paperlens_swept_upload_files_total"); err != nil {
		t.Error(err)
	}
}

func TestSweepMissingDir(t *testing.T) {
	sweeper := NewUploadSweeper(filepath.Join(t.TempDir(), "absent"), "@every 1h", time.Hour, nil, nil)
	if _, err := sweeper.Sweep(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	sweeper := NewUploadSweeper(t.TempDir(), "every now and then", time.Hour, nil, nil)
	if err := sweeper.Start(); err == nil {
		sweeper.Close()
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartAndClose(t *testing.T) {
	sweeper := NewUploadSweeper(t.TempDir(), "@every 1h", time.Hour, nil, nil)
	if err := sweeper.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := sweeper.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
	sweeper.Close()
	sweeper.Close()
}
