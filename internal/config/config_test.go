package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(WithDotEnv(), WithEnvironment(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.SubmitDelay != time.Second {
		t.Fatalf("expected one second delay, got %s", cfg.SubmitDelay)
	}
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "feedback.yaml", `
submit_delay: 250ms
output: pretty
server:
  addr: ":9000"
log:
  level: debug
`)
	dotenv := writeFile(t, dir, ".env", "FEEDBACK_SERVER_ADDR=:9100\nFEEDBACK_LOG_FORMAT=json\n")

	cfg, err := Load(
		WithFile(file),
		WithDotEnv(dotenv),
		WithEnvironment(map[string]string{"FEEDBACK_LOG_FORMAT": "console", "FEEDBACK_SANITIZE": "true"}),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.SubmitDelay = 250 * time.Millisecond
	want.Output = "pretty"
	want.Sanitize = true
	want.Server.Addr = ":9100"
	want.Log.Level = "debug"
	want.Log.Format = "console"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")
	if _, err := Load(WithDotEnv(missing), WithEnvironment(map[string]string{})); err != nil {
		t.Fatalf("missing .env should be skipped: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(WithFile(filepath.Join(t.TempDir(), "absent.yaml")), WithDotEnv(), WithEnvironment(map[string]string{}))
	if err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"output":    {"FEEDBACK_OUTPUT": "xml"},
		"level":     {"FEEDBACK_LOG_LEVEL": "loud"},
		"format":    {"FEEDBACK_LOG_FORMAT": "logfmt"},
		"delay":     {"FEEDBACK_SUBMIT_DELAY": "-1s"},
		"ttl":       {"FEEDBACK_SERVER_SESSION_TTL": "0s"},
		"bad_value": {"FEEDBACK_SERVER_REFRESH_SECONDS": "soon"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(WithDotEnv(), WithEnvironment(environ)); err == nil {
				t.Fatalf("expected error for %v", environ)
			}
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Output = "xml"
	cfg.Log.Format = "logfmt"

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{"output", "log format"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}
