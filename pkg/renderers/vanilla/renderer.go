package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-feedbackform/pkg/model"
	rendertemplate "github.com/goliatone/go-feedbackform/pkg/render/template"
	"github.com/goliatone/go-feedbackform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-feedbackform/pkg/session"
)

const (
	templateForm    = "form"
	templateSuccess = "success"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// RenderOptions carries per-request presentation settings.
type RenderOptions struct {
	// Action is the form post target; defaults to "/".
	Action string
	// ResetAction is the post target of the "Submit New Feedback" button.
	ResetAction string
	// Stylesheet is an optional stylesheet URL.
	Stylesheet string
	// RefreshSeconds makes the page reload itself while a submission is in
	// flight. Zero disables it.
	RefreshSeconds int
}

// Renderer turns a session state into an HTML page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "vanilla"
}

// ContentType reports the media type produced by Render.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the success page once the session is submitted and the
// form otherwise.
func (r *Renderer) Render(ctx context.Context, form model.Form, state session.State, opts RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := templateForm
	if state.Phase() == session.PhaseSubmitted {
		name = templateSuccess
	}

	out, err := r.templates.RenderTemplate(name, buildView(form, state, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s: %w", name, err)
	}
	return []byte(out), nil
}

type optionView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Label       string       `json:"label"`
	Placeholder string       `json:"placeholder"`
	Value       string       `json:"value"`
	Error       string       `json:"error"`
	MaxLength   int          `json:"maxLength"`
	Options     []optionView `json:"options"`
}

type pageView struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Action      string      `json:"action"`
	ResetAction string      `json:"resetAction"`
	Stylesheet  string      `json:"stylesheet"`
	Refresh     int         `json:"refresh"`
	Submitting  bool        `json:"submitting"`
	CharCount   int         `json:"charCount"`
	Fields      []fieldView `json:"fields"`
}

func buildView(form model.Form, state session.State, opts RenderOptions) pageView {
	view := pageView{
		Title:       form.Title,
		Subtitle:    form.Subtitle,
		Action:      opts.Action,
		ResetAction: opts.ResetAction,
		Stylesheet:  opts.Stylesheet,
		Submitting:  state.Submitting,
		CharCount:   state.FeedbackCharCount(),
	}
	if view.Action == "" {
		view.Action = "/"
	}
	if view.ResetAction == "" {
		view.ResetAction = "/reset"
	}
	if state.Submitting {
		view.Refresh = opts.RefreshSeconds
	}

	for _, field := range form.Fields {
		value, _ := state.Data.Get(field.ID)
		fv := fieldView{
			ID:          string(field.ID),
			Kind:        string(field.Kind),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Value:       value,
			Error:       state.Errors.Get(field.ID),
			MaxLength:   field.MaxLength,
		}
		for _, opt := range field.Options {
			fv.Options = append(fv.Options, optionView{
				Value:   opt.Value,
				Label:   opt.Label,
				Checked: opt.Value == value,
			})
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}
