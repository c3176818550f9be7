package session

import (
	"github.com/goliatone/go-feedbackform/pkg/model"
	"github.com/goliatone/go-feedbackform/pkg/validation"
)

// Phase is the externally visible stage of a form session.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

// Outcome reports what a submit attempt did.
type Outcome string

const (
	// OutcomeAccepted means validation passed and a submission is in flight.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected means at least one field failed validation.
	OutcomeRejected Outcome = "rejected"
	// OutcomeIgnored means a submission was already in flight or finished.
	OutcomeIgnored Outcome = "ignored"
)

// State is one session's form state. Transitions are pure functions that
// take a State and return the next one; the receiver is never mutated.
type State struct {
	Data       model.FormData `json:"data"`
	Errors     model.ErrorMap `json:"errors,omitempty"`
	Submitting bool           `json:"submitting"`
	Submitted  bool           `json:"submitted"`
}

// Initial returns the state of a freshly mounted form.
func Initial() State {
	return State{Errors: model.ErrorMap{}}
}

// Phase derives the session phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.Submitting:
		return PhaseSubmitting
	case s.Submitted:
		return PhaseSubmitted
	default:
		return PhaseEditing
	}
}

// FeedbackCharCount is the length of the feedback text, for display only.
func (s State) FeedbackCharCount() int {
	return s.Data.FeedbackCharCount()
}

// Clone returns a copy that shares no maps with s.
func (s State) Clone() State {
	s.Errors = s.Errors.Clone()
	return s
}

// Change replaces one field of the form data. Errors are left as they are;
// they are only recomputed on blur or submit.
func Change(s State, field model.FieldID, value string) (State, error) {
	if s.Submitting {
		return s, ErrSubmissionPending
	}
	data, ok := s.Data.With(field, value)
	if !ok {
		return s, ErrUnknownField
	}
	next := s.Clone()
	next.Data = data
	return next, nil
}

// Replace swaps in a whole record at once, with the same rules as Change.
func Replace(s State, data model.FormData) (State, error) {
	if s.Submitting {
		return s, ErrSubmissionPending
	}
	next := s.Clone()
	next.Data = data
	return next, nil
}

// Blur validates one field and records the result, replacing any previous
// message for that field. Blur has no effect once a submission is in flight
// or finished, so a submitted session always has an empty error set.
func Blur(s State, v validation.FieldValidator, field model.FieldID, value string) State {
	if s.Submitting || s.Submitted {
		return s
	}
	if _, ok := s.Data.Get(field); !ok {
		return s
	}
	next := s.Clone()
	if next.Errors == nil {
		next.Errors = model.ErrorMap{}
	}
	next.Errors[field] = v.Validate(field, value)
	return next
}

// Submit validates the whole form, replacing the error set. An accepted
// submit leaves the state submitting until Complete runs.
func Submit(s State, v validation.FieldValidator) (State, Outcome) {
	if s.Submitting || s.Submitted {
		return s, OutcomeIgnored
	}
	next := s.Clone()
	next.Submitting = true
	next.Errors = v.ValidateAll(next.Data)
	if !next.Errors.Empty() {
		next.Submitting = false
		return next, OutcomeRejected
	}
	return next, OutcomeAccepted
}

// Complete finishes an in-flight submission. It is a no-op otherwise.
func Complete(s State) State {
	if !s.Submitting {
		return s
	}
	next := s.Clone()
	next.Submitting = false
	next.Submitted = true
	next.Errors = model.ErrorMap{}
	return next
}

// Reset clears the form data, the error set and the submitted flag. A
// submission already in flight is not affected and still completes.
func Reset(s State) State {
	return State{
		Errors:     model.ErrorMap{},
		Submitting: s.Submitting,
	}
}
