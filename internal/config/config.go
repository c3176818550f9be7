// Package config loads runtime settings for the feedbackform binary.
//
// Values are layered: built-in defaults, then an optional YAML file, then a
// .env file and finally FEEDBACK_ prefixed environment variables. Later
// layers only override the keys they set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-feedbackform/pkg/session"
	"github.com/goliatone/go-feedbackform/pkg/sink"
)

// EnvPrefix scopes environment variables read by Load.
const EnvPrefix = "FEEDBACK_"

// OutputLog selects the zap-backed sink instead of a writer sink.
const OutputLog = "log"

// Config is the complete runtime configuration.
type Config struct {
	SubmitDelay time.Duration `yaml:"submit_delay" env:"SUBMIT_DELAY"`
	// Output is "log" or one of the writer formats (json, form, pretty).
	Output   string       `yaml:"output" env:"OUTPUT"`
	Sanitize bool         `yaml:"sanitize" env:"SANITIZE"`
	Server   ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Log      LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr           string        `yaml:"addr" env:"ADDR"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
	RefreshSeconds int           `yaml:"refresh_seconds" env:"REFRESH_SECONDS"`
	CookieName     string        `yaml:"cookie_name" env:"COOKIE_NAME"`
}

// LogConfig configures the zap logger and optional file rotation.
type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`
	Format     string `yaml:"format" env:"FORMAT"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
	Compress   bool   `yaml:"compress" env:"COMPRESS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SubmitDelay: session.DefaultSubmitDelay,
		Output:      OutputLog,
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     30 * time.Minute,
			RefreshSeconds: 1,
			CookieName:     "feedback_session",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	file    string
	dotenv  []string
	environ map[string]string
}

// WithFile reads a YAML file on top of the defaults. A missing file is an
// error when the path is set explicitly.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithDotEnv sets the .env files consulted before the environment. Missing
// files are skipped.
func WithDotEnv(paths ...string) Option {
	return func(l *loader) {
		l.dotenv = paths
	}
}

// WithEnvironment replaces the process environment, mainly for tests.
func WithEnvironment(environ map[string]string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

// Load resolves the configuration.
func Load(options ...Option) (Config, error) {
	l := loader{dotenv: []string{".env"}}
	for _, opt := range options {
		if opt != nil {
			opt(&l)
		}
	}

	cfg := Default()
	if l.file != "" {
		if err := readFile(l.file, &cfg); err != nil {
			return Config{}, err
		}
	}

	environ, err := l.environment()
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// environment merges .env values under the real (or injected) environment.
func (l loader) environment() (map[string]string, error) {
	merged := make(map[string]string)
	for _, path := range l.dotenv {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		for key, value := range values {
			if _, ok := merged[key]; !ok {
				merged[key] = value
			}
		}
	}

	environ := l.environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	for key, value := range environ {
		merged[key] = value
	}
	return merged, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if c.SubmitDelay < 0 {
		errs = append(errs, fmt.Errorf("config: submit_delay must not be negative"))
	}
	if c.Output != OutputLog {
		if _, err := sink.ParseOutputFormat(c.Output); err != nil {
			errs = append(errs, fmt.Errorf("config: output: %w", err))
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("config: log level: %w", err))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log format %q must be console or json", c.Log.Format))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("config: server.session_ttl must be positive"))
	}
	return errors.Join(errs...)
}
