package bridge

import "errors"

var (
	// ErrEmission is returned when no UI surface can receive an event
	ErrEmission = errors.New("event channel unavailable")
	// ErrUnknownCommand is returned for names missing from the dispatch table
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArguments is returned when command arguments cannot be decoded
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Error is the single error kind handed back to the UI. Its message is what
// the frontend sees as the rejected promise value.
type Error struct {
	Message string
	err     error
}

func newError(message string, cause error) *Error {
	return &Error{Message: message, err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}
