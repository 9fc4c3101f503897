package analysis

import "errors"

// Backend failure modes. None of them escape the Client's public methods;
// they are logged and replaced by fallback output.
var (
	// ErrUnexpectedStatus is returned for any non-2xx backend response
	ErrUnexpectedStatus = errors.New("unexpected backend status")

	// ErrMalformedResponse is returned when a 2xx body lacks required fields
	ErrMalformedResponse = errors.New("malformed backend response")
)

// UnavailableMessage is the chat answer shown when the backend cannot answer
const UnavailableMessage = "Sorry, the AI assistant is temporarily unavailable. Please try again later, or open the full web application for a detailed analysis."
