package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/sink"
	"github.com/goliatone/go-feedbackform/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithValidator overrides the field validator.
func WithValidator(v validation.FieldValidator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithSink sets the collaborator that receives accepted submissions. The
// default logs them.
func WithSink(s sink.Sink) Option {
	return func(c *Controller) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithSubmitDelay sets how long a submission stays in flight.
func WithSubmitDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithScheduler replaces the timer used to complete submissions. The
// scheduler must not invoke the callback synchronously.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a callback for every state change.
func WithObserver(fn Observer) Option {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}
