package messaging

import "errors"

var (
	// ErrNoHandler is returned when no handler is registered for a kind
	ErrNoHandler = errors.New("no handler registered")

	// ErrDuplicateHandler is returned when a kind is registered twice
	ErrDuplicateHandler = errors.New("handler already registered")

	// ErrTimeout is returned when a handler does not answer in time
	ErrTimeout = errors.New("message timed out")

	// ErrPayloadType is returned when a payload does not match the handler's request type
	ErrPayloadType = errors.New("payload type mismatch")

	// ErrHandlerPanic is returned when a handler panics
	ErrHandlerPanic = errors.New("handler panicked")
)
