package session

import "errors"

var (
	// ErrSubmissionPending is returned when a field is edited while a
	// submission is in flight.
	ErrSubmissionPending = errors.New("session: submission pending")
	// ErrUnknownField is returned when an event names a field the form does
	// not have.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrClosed is returned by operations on a closed controller.
	ErrClosed = errors.New("session: controller closed")
)
