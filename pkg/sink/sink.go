// Package sink provides the collaborators that receive accepted feedback
// submissions. Sinks are fire-and-forget: callers log failures and move on.
package sink

import (
	"context"
	"errors"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// Sink receives one accepted submission.
type Sink interface {
	Submit(ctx context.Context, data model.FormData) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, data model.FormData) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, data model.FormData) error {
	return f(ctx, data)
}

// Discard drops every submission.
var Discard Sink = Func(func(context.Context, model.FormData) error { return nil })

// Multi fans a submission out to every sink, in order. All sinks run even
// when one fails; the errors are joined.
func Multi(sinks ...Sink) Sink {
	var clean []Sink
	for _, s := range sinks {
		if s != nil {
			clean = append(clean, s)
		}
	}
	return Func(func(ctx context.Context, data model.FormData) error {
		var errs []error
		for _, s := range clean {
			if err := s.Submit(ctx, data); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
