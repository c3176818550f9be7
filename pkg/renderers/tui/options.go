package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// Theme captures optional prefixes the runner applies to printed messages.
// Keep minimal to avoid coupling runner logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme marks errors with a cross.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "✗ "}
}

// Option configures the TUI runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithForm replaces the form descriptor (labels, placeholders, options).
func WithForm(form model.Form) Option {
	return func(r *Runner) {
		if len(form.Fields) > 0 {
			r.form = form
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSingleSubmission stops the runner after the first successful
// submission instead of offering to start a new one.
func WithSingleSubmission() Option {
	return func(r *Runner) {
		r.once = true
	}
}
