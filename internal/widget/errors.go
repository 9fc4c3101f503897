package widget

import "errors"

var (
	// ErrBusy is returned when a request is issued while another is outstanding
	ErrBusy = errors.New("widget busy")

	// ErrInvalidTransition is returned when an action is not valid in the current state
	ErrInvalidTransition = errors.New("invalid widget transition")
)
