package tui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

// Runner drives a feedback session from the terminal. Each answered prompt
// is a change followed by a blur; after the last field the form is submitted
// and only the fields that failed are asked again.
type Runner struct {
	ctrl   *session.Controller
	driver PromptDriver
	form   model.Form
	theme  Theme
	logger *zap.Logger
	once   bool
}

// New constructs a runner for ctrl with defaults (survey driver, built-in
// form descriptor).
func New(ctrl *session.Controller, options ...Option) (*Runner, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}

	r := &Runner{
		ctrl:   ctrl,
		form:   model.FeedbackForm(),
		theme:  DefaultTheme(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Run prompts until the user declines to send another response. Ctrl+C ends
// the run with ErrAborted.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}

	pending := model.Fields()
	if err := r.header(ctx); err != nil {
		return err
	}

	for {
		for _, id := range pending {
			if err := r.promptField(ctx, id); err != nil {
				return err
			}
		}

		outcome, err := r.ctrl.Submit(ctx)
		if err != nil {
			return fmt.Errorf("tui: submit: %w", err)
		}
		r.logger.Debug("terminal submit", zap.String("outcome", string(outcome)))

		switch outcome {
		case session.OutcomeRejected:
			pending = r.ctrl.State().Errors.Invalid()
			if err := r.reportErrors(ctx, pending); err != nil {
				return err
			}
			continue
		case session.OutcomeIgnored:
			// A submission is already in flight; fall through to waiting.
		}

		done, err := r.finish(ctx)
		if err != nil || done {
			return err
		}
		if err := r.ctrl.Reset(); err != nil {
			return fmt.Errorf("tui: reset: %w", err)
		}
		pending = model.Fields()
		if err := r.header(ctx); err != nil {
			return err
		}
	}
}

func (r *Runner) header(ctx context.Context) error {
	if err := r.info(ctx, r.form.Title); err != nil {
		return err
	}
	return r.info(ctx, r.form.Subtitle)
}

// finish waits for the submission to complete, shows the success screen and
// asks whether to start over. It reports true when the run should end.
func (r *Runner) finish(ctx context.Context) (bool, error) {
	if err := r.info(ctx, "Submitting..."); err != nil {
		return true, err
	}
	st, err := r.ctrl.Wait(ctx)
	if err != nil {
		return true, err
	}
	if !st.Submitted {
		return true, fmt.Errorf("tui: submission did not complete (phase %s)", st.Phase())
	}

	if err := r.info(ctx, "Thank You!"); err != nil {
		return true, err
	}
	if err := r.info(ctx, "Your feedback has been submitted successfully."); err != nil {
		return true, err
	}
	if r.once {
		return true, nil
	}

	again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit New Feedback?"})
	if err != nil {
		return true, err
	}
	return !again, nil
}

func (r *Runner) reportErrors(ctx context.Context, fields []model.FieldID) error {
	st := r.ctrl.State()
	for _, id := range fields {
		label := string(id)
		if field, ok := r.form.Lookup(id); ok {
			label = field.Label
		}
		if err := r.errorLine(ctx, fmt.Sprintf("%s: %s", label, st.Errors.Get(id))); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, id model.FieldID) error {
	field, ok := r.form.Lookup(id)
	if !ok {
		field = model.Field{ID: id, Kind: model.InputText, Label: string(id)}
	}
	current, _ := r.ctrl.State().Data.Get(id)

	var (
		value string
		err   error
	)
	switch field.Kind {
	case model.InputRadio:
		value, err = r.promptOption(ctx, field, current)
	case model.InputTextArea:
		value, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: field.Label,
			Default: current,
			Help:    field.Placeholder,
		})
	default:
		value, err = r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
			Help:    field.Placeholder,
		})
	}
	if err != nil {
		return err
	}

	msg, err := r.ctrl.Edit(id, value)
	if err != nil {
		return fmt.Errorf("tui: edit %s: %w", id, err)
	}

	if field.MaxLength > 0 {
		count := r.ctrl.State().FeedbackCharCount()
		if err := r.info(ctx, fmt.Sprintf("%d/%d characters", count, field.MaxLength)); err != nil {
			return err
		}
	}
	if msg != "" {
		return r.errorLine(ctx, msg)
	}
	return nil
}

func (r *Runner) promptOption(ctx context.Context, field model.Field, current string) (string, error) {
	labels := make([]string, len(field.Options))
	defaultIdx := -1
	for i, opt := range field.Options {
		labels[i] = opt.Label
		if opt.Value == current {
			defaultIdx = i
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         field.Placeholder,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil
	}
	return field.Options[idx].Value, nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) errorLine(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}
