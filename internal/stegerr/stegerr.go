// Package stegerr defines the error kinds surfaced by the embedding core.
//
// Every error carries a stable Code. Sentinels match any error of the same
// code through errors.Is, so callers can branch on the kind while the
// message keeps the detail:
//
//	if errors.Is(err, stegerr.ErrInvalidPassword) { ... }
package stegerr

import (
	"errors"
	"fmt"
)

// Code identifies an error kind. Values are stable across releases.
type Code string

const (
	CodeInvalidPassword        Code = "ERR_INVALID_PASSWORD"
	CodeInsufficientCapacity   Code = "ERR_INSUFFICIENT_CAPACITY"
	CodeCorruptHeader          Code = "ERR_CORRUPT_HEADER"
	CodeTruncatedData          Code = "ERR_TRUNCATED_DATA"
	CodeUnsupportedImageFormat Code = "ERR_UNSUPPORTED_IMAGE_FORMAT"
	CodeInvalidConfig          Code = "ERR_INVALID_CONFIG"
	CodeInternal               Code = "ERR_INTERNAL"
)

// messages is never written after package initialization.
var messages = map[Code]string{
	CodeInvalidPassword:        "invalid password",
	CodeInsufficientCapacity:   "image too small to hold the data",
	CodeCorruptHeader:          "no valid data header found in image",
	CodeTruncatedData:          "image holds fewer bits than the header declares",
	CodeUnsupportedImageFormat: "unsupported image format",
	CodeInvalidConfig:          "invalid configuration",
	CodeInternal:               "internal error",
}

var (
	ErrInvalidPassword        = &Error{Code: CodeInvalidPassword}
	ErrInsufficientCapacity   = &Error{Code: CodeInsufficientCapacity}
	ErrCorruptHeader          = &Error{Code: CodeCorruptHeader}
	ErrTruncatedData          = &Error{Code: CodeTruncatedData}
	ErrUnsupportedImageFormat = &Error{Code: CodeUnsupportedImageFormat}
	ErrInvalidConfig          = &Error{Code: CodeInvalidConfig}
	ErrInternal               = &Error{Code: CodeInternal}
)

// Error is a typed, recoverable failure of the embedding core.
type Error struct {
	Code Code
	Msg  string // optional detail
	Err  error  // optional cause
}

// Message returns the fixed description for a code.
func Message(code Code) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return string(code)
}

func (e *Error) Error() string {
	s := Message(e.Code)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New returns an error of the given kind with a formatted detail.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind caused by err.
// A nil err yields nil.
func Wrap(code Code, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: msg, Err: err}
}

// CodeOf extracts the code of the first *Error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
