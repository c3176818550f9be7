package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/internal/config"
	"github.com/goliatone/go-feedbackform/pkg/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaCommand_JSON(t *testing.T) {
	out, err := execute(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if _, ok := doc["paths"].(map[string]any)["/"]; !ok {
		t.Fatalf("expected / path in %v", doc["paths"])
	}
}

func TestSchemaCommand_YAML(t *testing.T) {
	out, err := execute(t, "schema", "--format", "yaml", "--log-level", "error")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, "title: Training Feedback Form") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestSchemaCommand_RejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "schema", "--format", "xml"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRootCommand_RejectsBadLogLevel(t *testing.T) {
	if _, err := execute(t, "schema", "--log-level", "loud"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildSink_WriterFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Output = "pretty"
	var buf bytes.Buffer

	s, err := buildSink(cfg, zap.NewNop(), &buf)
	if err != nil {
		t.Fatalf("build sink: %v", err)
	}
	data := model.FormData{Name: "Jane", Email: "jane@example.com", Rating: "5", Feedback: "Loved the live demos."}
	if err := s.Submit(context.Background(), data); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(buf.String(), "name=Jane") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestBuildSink_LogOnly(t *testing.T) {
	var buf bytes.Buffer
	s, err := buildSink(config.Default(), zap.NewNop(), &buf)
	if err != nil {
		t.Fatalf("build sink: %v", err)
	}
	if err := s.Submit(context.Background(), model.FormData{Name: "Jane"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("log output should not reach the writer, got %q", buf.String())
	}
}
