// Package errors defines the coded errors returned across nugetbridge.
//
// A code lets the HTTP server and the CLI tell a request for the wrong
// framework apart from a feed outage without matching on message text.
//
// # Error Codes
//
// The resolution engine reports four failure categories:
//   - MALFORMED_RESOURCE: the incoming coordinate path could not be parsed
//   - TRANSFER_FAILED: download or atomic rename failed
//   - ARTIFACT_NOT_FOUND: the archive holds no binary for the desired framework
//   - CHECKSUM_UNSUPPORTED: hash sideband requested for an extracted file
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedResource, "too few segments: %s", path)
//	if errors.Is(err, errors.ErrCodeMalformedResource) {
//	    // reject the single request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransfer, origErr, "download %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"
	ErrCodeMalformedResource Code = "MALFORMED_RESOURCE"

	// Resolution errors
	ErrCodeArtifactNotFound    Code = "ARTIFACT_NOT_FOUND"
	ErrCodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	ErrCodeChecksumUnsupported Code = "CHECKSUM_UNSUPPORTED"

	// Transfer errors
	ErrCodeTransfer Code = "TRANSFER_FAILED"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether the outermost *Error in err's chain has code. Inner
// codes are ignored, so a TRANSFER_FAILED wrapping a RESOURCE_NOT_FOUND is
// only a transfer failure.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix or cause. Uncoded errors are returned as err.Error().
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsMalformedResource reports whether err is a MALFORMED_RESOURCE error.
func IsMalformedResource(err error) bool { return Is(err, ErrCodeMalformedResource) }

// IsTransfer reports whether err is a TRANSFER_FAILED error.
func IsTransfer(err error) bool { return Is(err, ErrCodeTransfer) }

// IsArtifactNotFound reports whether err is an ARTIFACT_NOT_FOUND error.
func IsArtifactNotFound(err error) bool { return Is(err, ErrCodeArtifactNotFound) }

// IsChecksumUnsupported reports whether err is a CHECKSUM_UNSUPPORTED error.
func IsChecksumUnsupported(err error) bool { return Is(err, ErrCodeChecksumUnsupported) }
