package models

import (
	"context"
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeUnknown               Code = "UNKNOWN"
	CodeInvalidInput          Code = "INVALID_INPUT"
	CodeTranscriptUnavailable Code = "TRANSCRIPT_UNAVAILABLE"
	CodeModelError            Code = "MODEL_ERROR"
	CodeAllChunksFailed       Code = "ALL_CHUNKS_FAILED"
	CodeCancelled             Code = "CANCELLED"
)

// Error carries a Code plus an optional cause.
// Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidInput          = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrTranscriptUnavailable = &Error{Code: CodeTranscriptUnavailable, Message: "no transcript available for this video"}
	ErrModel                 = &Error{Code: CodeModelError, Message: "summarization model failed"}
	ErrAllChunksFailed       = &Error{Code: CodeAllChunksFailed, Message: "summarization failed for every chunk"}
	ErrCancelled             = &Error{Code: CodeCancelled, Message: "operation cancelled"}
)

// NewError builds an Error with the given code.
func NewError(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the Code of err. Context cancellation maps to CodeCancelled.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancelled
	}
	return CodeUnknown
}
