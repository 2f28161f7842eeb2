package service

import (
	"errors"
	"fmt"
)

// Error classes mapped to HTTP statuses at the API boundary.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
)

// classifiedError reads as its message but unwraps to one of the error
// classes above, so handlers can match with errors.Is.
type classifiedError struct {
	kind error
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }
func (e *classifiedError) Unwrap() error { return e.kind }

func invalidf(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}
