package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-feedbackform/internal/config"
)

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(config.LogConfig{Level: "warn", Format: "json"}, WithOutput(&buf))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "visible" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.log")
	var console bytes.Buffer
	logger, cleanup, err := New(config.LogConfig{Level: "info", Format: "console", File: path, MaxSizeMB: 1}, WithOutput(&console))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Info("form submitted")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"form submitted"`) {
		t.Fatalf("expected json entry in file, got %q", raw)
	}
	if !strings.Contains(console.String(), "form submitted") {
		t.Fatalf("expected console entry, got %q", console.String())
	}
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, _, err := New(config.LogConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
}
