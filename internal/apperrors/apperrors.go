// Package apperrors defines the error kinds the service layer reports
// and handlers translate to HTTP statuses.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)

type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }

func (e *appError) Unwrap() error { return e.kind }

func NotFound(format string, args ...any) error {
	return &appError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &appError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &appError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &appError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}
