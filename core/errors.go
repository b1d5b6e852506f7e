package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to one request field. The API layer
// renders a map of these as the 400 response body.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries the form errors for a rejected write: either an
// underlying cause, field errors, or both.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks a listener failure the process cannot recover from. The API
// entrypoint checks for it to decide between a graceful stop and a fatal exit.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err is a shutdown error, unwrapping any
// pkg/errors context added along the way.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
