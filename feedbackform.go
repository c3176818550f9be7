// Package feedbackform is the top-level entry point: it re-exports the types
// most callers need and wires the default validator, sink and renderers.
package feedbackform

import (
	"context"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/openapi"
	"github.com/goliatone/go-feedbackform/pkg/server"
	"github.com/goliatone/go-feedbackform/pkg/session"
	"github.com/goliatone/go-feedbackform/pkg/validation"
)

// FormData aliases model.FormData.
type FormData = model.FormData

// ErrorMap aliases model.ErrorMap.
type ErrorMap = model.ErrorMap

// State aliases session.State.
type State = session.State

// Controller aliases session.Controller.
type Controller = session.Controller

// NewController starts a form session with the default rule table unless a
// validator option overrides it.
func NewController(options ...session.Option) *Controller {
	return session.New(options...)
}

// NewServer builds the HTTP surface.
func NewServer(options ...server.Option) (*server.Server, error) {
	return server.New(options...)
}

var defaultValidator = sync.OnceValue(validation.Default)

// Validate runs the default rules over data and returns only failing fields.
func Validate(data FormData) ErrorMap {
	return defaultValidator().ValidateAll(data)
}

// Form returns the feedback form descriptor.
func Form() model.Form {
	return model.FeedbackForm()
}

// OpenAPIDocument describes the submit endpoint and checks the result.
func OpenAPIDocument(ctx context.Context) (*openapi3.T, error) {
	doc := openapi.Document(openapi.Options{Title: model.FeedbackForm().Title})
	if err := openapi.Validate(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
