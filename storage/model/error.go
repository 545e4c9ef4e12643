package model

import (
	"fmt"
)

// NotFoundError is an error signaling that something was not found in the
// database
type NotFoundError string

// Error implements the error interface
func (e NotFoundError) Error() string {
	return string(e)
}

// NotFoundErrorFmt returns a NotFoundError from the passed format string and parameters
func NotFoundErrorFmt(format string, params ...any) NotFoundError {
	return NotFoundError(fmt.Sprintf(format, params...))
}

// AlreadyExistsError is an error signaling that a unique value is already
// taken in the database
type AlreadyExistsError string

// Error implements the error interface
func (e AlreadyExistsError) Error() string {
	return string(e)
}

// AlreadyExistsErrorFmt returns an AlreadyExistsError from the passed format string and parameters
func AlreadyExistsErrorFmt(format string, params ...any) AlreadyExistsError {
	return AlreadyExistsError(fmt.Sprintf(format, params...))
}

// AuthError signals a failed authentication or session operation
type AuthError string

// Error implements the error interface
func (e AuthError) Error() string {
	return string(e)
}

// Possible AuthError values
const (
	// ErrInvalidCredentials is returned for an unknown username as well as for
	// a wrong password, so that callers cannot tell the two apart.
	ErrInvalidCredentials AuthError = "invalid username or password"
	// ErrUnknownUser is returned when a session is requested for a user id
	// that does not exist.
	ErrUnknownUser AuthError = "unknown user"
)

// ValidationKind describes why user input was rejected
type ValidationKind int

// Possible ValidationKind values
const (
	ValidationEmpty ValidationKind = iota + 1
	ValidationInvalid
)

// ValidationError signals that submitted input violated a field rule
type ValidationError struct {
	Kind   ValidationKind
	Reason string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	switch e.Kind {
	case ValidationEmpty:
		return "empty input: " + e.Reason
	default:
		return "invalid input: " + e.Reason
	}
}
