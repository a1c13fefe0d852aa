package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNavigation ErrorType = "navigation"
	ErrorTypeBrowser    ErrorType = "browser"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeWrite      ErrorType = "write"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error is a typed error carrying the URL it relates to, if any
type Error struct {
	Type    ErrorType
	Message string
	URL     string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.URL != "" {
		msg += fmt.Sprintf(" (url %s)", e.URL)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Wrap creates a typed error around a cause
func Wrap(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// Validation reports input that was rejected before any work started
func Validation(message, url string) *Error {
	return &Error{Type: ErrorTypeValidation, Message: message, URL: url}
}

// Navigation reports a failed or timed out page load
func Navigation(url string, err error) *Error {
	return &Error{Type: ErrorTypeNavigation, Message: "navigation failed", URL: url, Err: err}
}

// Browser reports a failure of the controlled browser itself
func Browser(message string, err error) *Error {
	return &Error{Type: ErrorTypeBrowser, Message: message, Err: err}
}

// Parsing reports unexpected page or URL content
func Parsing(message, url string, err error) *Error {
	return &Error{Type: ErrorTypeParsing, Message: message, URL: url, Err: err}
}

// Write reports a failed file write
func Write(path string, err error) *Error {
	return &Error{Type: ErrorTypeWrite, Message: "failed to write " + path, Err: err}
}

// TypeOf returns the type of the first typed error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// Is reports whether err's chain contains a typed error of type t
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNavigation, ErrorTypeBrowser:
		return true
	case ErrorTypeValidation, ErrorTypeParsing, ErrorTypeWrite, ErrorTypeConfig:
		return false
	default:
		return false
	}
}

// IsFatal checks if an error type ends the run
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeValidation, ErrorTypeBrowser, ErrorTypeConfig:
		return true
	default:
		return false
	}
}
