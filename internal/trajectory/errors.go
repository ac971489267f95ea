package trajectory

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeSourceNotFound indicates the source locator does not resolve.
	ErrCodeSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"

	// ErrCodeSourceMalformed indicates the source is not an N×4 numeric matrix.
	ErrCodeSourceMalformed ErrorCode = "SOURCE_MALFORMED"

	// ErrCodeInvalidObjectID indicates a caller id that is not integer-coercible.
	ErrCodeInvalidObjectID ErrorCode = "INVALID_OBJECT_ID"

	// ErrCodeNoActiveSubset indicates a reduction over a subset that no
	// extraction produced.
	ErrCodeNoActiveSubset ErrorCode = "NO_ACTIVE_SUBSET"

	// ErrCodeReducerFailure wraps an error returned by a caller's reduction.
	ErrCodeReducerFailure ErrorCode = "REDUCER_FAILURE"

	// ErrCodeEmptySubset indicates an operation that needs at least one record.
	ErrCodeEmptySubset ErrorCode = "EMPTY_SUBSET"
)

// Error is a coded failure reported by a store operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that reported the error (load, extract, reduce...).
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// NewEmptySubsetError reports an operation that needs a non-empty subset.
func NewEmptySubsetError(op string, id ObjectID) *Error {
	return &Error{
		Code:    ErrCodeEmptySubset,
		Op:      op,
		Message: fmt.Sprintf("object_id %d has no records", id),
	}
}

// NewNoActiveSubsetError reports a subset that no extraction produced.
func NewNoActiveSubsetError(op string) *Error {
	return &Error{
		Code:    ErrCodeNoActiveSubset,
		Op:      op,
		Message: "no trajectory selected; extract an object id first",
	}
}
