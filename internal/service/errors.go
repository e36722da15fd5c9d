package service

import (
	"errors"
	"fmt"
)

// Code classifies an error for the command line and the dashboard.
type Code string

const (
	CodeInvalid      Code = "invalid"
	CodeNotFound     Code = "not_found"
	CodeForbidden    Code = "forbidden"
	CodeUnauthorized Code = "unauthorized"
	CodeBusy         Code = "busy"
	CodeBackend      Code = "backend"
)

// Error is a classified error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf builds a classified error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps err with a classification.
func WrapError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsCode reports whether err carries code.
// The outermost classified error in the chain wins.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost classified error, or CodeBackend
// for unclassified errors. It returns "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeBackend
}

// ErrTaskNotFound is returned when an id is not in the collection.
var ErrTaskNotFound = NewError(CodeNotFound, "task not found")
