package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/sink"
	"github.com/goliatone/go-feedbackform/pkg/validation"
)

// DefaultSubmitDelay is how long a simulated submission stays in flight.
const DefaultSubmitDelay = time.Second

// Observer receives every state the controller moves to. Observers run while
// the controller lock is held and must not call back into the controller.
type Observer func(State)

// Controller owns the state of one form session and applies user events to
// it. Events are serialised, so surfaces may call it from any goroutine.
type Controller struct {
	mu        sync.Mutex
	state     State
	validator validation.FieldValidator
	sink      sink.Sink
	scheduler Scheduler
	delay     time.Duration
	logger    *zap.Logger
	observers []Observer

	pending Task
	settled chan struct{}
	closed  bool
}

// New constructs a controller in the editing phase.
func New(options ...Option) *Controller {
	c := &Controller{
		state:     Initial(),
		scheduler: timerScheduler{},
		delay:     DefaultSubmitDelay,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.validator == nil {
		c.validator = validation.Default()
	}
	if c.sink == nil {
		c.sink = sink.NewLogSink(c.logger)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Change records a new value for field without validating it.
func (c *Controller) Change(field model.FieldID, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	next, err := Change(c.state, field, value)
	if err != nil {
		c.logger.Debug("form change rejected",
			zap.String("field", string(field)),
			zap.Error(err),
		)
		return err
	}
	c.apply(next)
	return nil
}

// Replace records every field of data in one step, so concurrent callers
// never leave a mix of two records behind.
func (c *Controller) Replace(data model.FormData) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	next, err := Replace(c.state, data)
	if err != nil {
		c.logger.Debug("form replace rejected", zap.Error(err))
		return err
	}
	c.apply(next)
	return nil
}

// Blur validates field against value and stores the result. It returns the
// message now shown for the field. Unknown fields are valid and leave the
// state untouched.
func (c *Controller) Blur(field model.FieldID, value string) (string, error) {
	if _, ok := model.ParseField(string(field)); !ok {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return "", ErrClosed
	}

	next := Blur(c.state, c.validator, field, value)
	msg := next.Errors.Get(field)
	c.logger.Debug("form field validated",
		zap.String("field", string(field)),
		zap.String("error", msg),
	)
	c.apply(next)
	return msg, nil
}

// Edit is a change followed by a blur, the sequence of a user typing into a
// field and leaving it.
func (c *Controller) Edit(field model.FieldID, value string) (string, error) {
	if err := c.Change(field, value); err != nil {
		return "", err
	}
	return c.Blur(field, value)
}

// Submit validates the whole form. Accepted submissions are handed to the
// sink and complete after the configured delay; rejected ones leave the
// session editing with the new error set.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return OutcomeIgnored, ErrClosed
	}

	next, outcome := Submit(c.state, c.validator)
	c.logger.Debug("form submit",
		zap.String("outcome", string(outcome)),
		zap.Int("errors", len(next.Errors.Invalid())),
	)
	if outcome == OutcomeIgnored {
		c.mu.Unlock()
		return outcome, nil
	}

	c.apply(next)
	if outcome == OutcomeRejected {
		c.mu.Unlock()
		return outcome, nil
	}

	data := next.Data
	c.settled = make(chan struct{})
	c.mu.Unlock()

	c.emit(ctx, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.pending = c.scheduler.Schedule(c.delay, c.complete)
	}
	return outcome, nil
}

// Reset returns the form to its empty state. A submission in flight keeps
// running and still completes.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.logger.Debug("form reset", zap.String("phase", string(c.state.Phase())))
	c.apply(Reset(c.state))
	return nil
}

// Wait blocks until no submission is in flight and returns the state at that
// point.
func (c *Controller) Wait(ctx context.Context) (State, error) {
	c.mu.Lock()
	settled := c.settled
	c.mu.Unlock()

	if settled != nil {
		select {
		case <-settled:
		case <-ctx.Done():
			return c.State(), ctx.Err()
		}
	}
	return c.State(), nil
}

// Close discards the session. A pending completion is stopped and waiters are
// released. Close is idempotent.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
	return nil
}

func (c *Controller) complete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = nil
	c.apply(Complete(c.state))
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
	c.logger.Info("form submission completed")
}

func (c *Controller) emit(ctx context.Context, data model.FormData) {
	if err := c.sink.Submit(ctx, data); err != nil {
		c.logger.Warn("submission sink failed", zap.Error(err))
	}
}

// apply must be called with c.mu held.
func (c *Controller) apply(next State) {
	c.state = next
	for _, observer := range c.observers {
		observer(next.Clone())
	}
}
