package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_ConsoleLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", Console: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeFn()

	logger.Debug("hidden")
	logger.Warn("shown", zap.String("source", "a.mp4"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line leaked to console: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "a.mp4") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestNew_FileReceivesDebugAsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var console bytes.Buffer

	logger, closeFn, err := New(Options{Level: "error", File: path, Console: &console})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("probe", zap.Int("items", 3))
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, data)
	}
	if entry["msg"] != "probe" || entry["items"] != float64(3) {
		t.Errorf("unexpected entry: %v", entry)
	}
	if console.Len() != 0 {
		t.Errorf("console should be empty at error level, got %q", console.String())
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}
