package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/validation"
)

const (
	// OperationID names the submit operation in generated documents.
	OperationID = "submitFeedback"

	mediaTypeForm = "application/x-www-form-urlencoded"

	messagesExtension = "x-feedbackform-messages"
)

// Options configures document generation.
type Options struct {
	Title   string
	Version string
	// Path is the submit endpoint; defaults to "/".
	Path  string
	Form  model.Form
	Rules []validation.FieldRules
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Feedback Form"
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if len(o.Form.Fields) == 0 {
		o.Form = model.FeedbackForm()
	}
	if o.Rules == nil {
		o.Rules = validation.DefaultRules()
	}
	return o
}

// Document describes the submit endpoint: the request body schema mirrors the
// rule table and the 422 response carries the error map.
func Document(opts Options) *openapi3.T {
	opts = opts.withDefaults()

	payload := FormDataSchema(opts.Form, opts.Rules)
	payloadRef := openapi3.NewSchemaRef("", payload)

	content := openapi3.NewContentWithJSONSchemaRef(payloadRef)
	content[mediaTypeForm] = openapi3.NewMediaType().WithSchemaRef(payloadRef)

	errorsSchema := openapi3.NewObjectSchema().
		WithAdditionalProperties(openapi3.NewStringSchema())
	errorsSchema.Description = "Validation message per field"

	accepted := openapi3.NewResponse().WithDescription("Submission accepted")
	redirect := openapi3.NewResponse().WithDescription("Submission accepted; browsers are sent back to the form page")
	rejected := openapi3.NewResponse().
		WithDescription("Validation failed").
		WithContent(openapi3.NewContentWithJSONSchema(errorsSchema))

	operation := &openapi3.Operation{
		OperationID: OperationID,
		Summary:     opts.Form.Title,
		Description: opts.Form.Subtitle,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithContent(content),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusAccepted, &openapi3.ResponseRef{Value: accepted}),
			openapi3.WithStatus(http.StatusSeeOther, &openapi3.ResponseRef{Value: redirect}),
			openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{Value: rejected}),
		),
	}

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(opts.Path, &openapi3.PathItem{Post: operation}),
		),
	}
}

// FormDataSchema converts the rule table into an object schema. Optional
// fields accept the empty string in addition to their pattern.
func FormDataSchema(form model.Form, rules []validation.FieldRules) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	byField := make(map[model.FieldID]validation.FieldRules, len(rules))
	for _, fr := range rules {
		byField[fr.Field] = fr
	}

	for _, field := range form.Fields {
		prop := openapi3.NewStringSchema()
		prop.Title = strings.TrimSuffix(strings.TrimSpace(field.Label), " *")
		prop.Description = field.Placeholder
		for _, opt := range field.Options {
			prop.Enum = append(prop.Enum, opt.Value)
		}

		fr, ok := byField[field.ID]
		if ok {
			applyRules(prop, fr)
			if fr.Required() {
				schema.Required = append(schema.Required, string(field.ID))
			}
		}
		schema.WithProperty(string(field.ID), prop)
	}
	return schema
}

func applyRules(prop *openapi3.Schema, fr validation.FieldRules) {
	var messages []any
	for _, rule := range fr.Rules {
		messages = append(messages, rule.Message)
		switch rule.Kind {
		case validation.RuleRequired, validation.RulePresent:
			if prop.MinLength == 0 {
				prop.MinLength = 1
			}
		case validation.RulePattern:
			pattern := rule.SchemaPattern
			if pattern == "" {
				pattern = rule.Pattern
			}
			if fr.Optional {
				pattern = "^$|" + pattern
			}
			prop.WithPattern(pattern)
		case validation.RuleMinLength:
			prop.WithMinLength(int64(rule.Limit))
		case validation.RuleMaxLength:
			prop.WithMaxLength(int64(rule.Limit))
		}
	}
	if len(messages) > 0 {
		if prop.Extensions == nil {
			prop.Extensions = make(map[string]any)
		}
		prop.Extensions[messagesExtension] = messages
	}
}

// Validate checks the generated document against the OpenAPI rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return fmt.Errorf("openapi: document is nil")
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: validate: %w", err)
	}
	return nil
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	return raw, nil
}

// MarshalYAML renders doc as block-style YAML, keeping the key order of the
// JSON encoding.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("openapi: decode json as yaml: %w", err)
	}
	clearStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return out, nil
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
