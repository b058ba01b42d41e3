// Package domainerrors carries error codes across layer boundaries. Stores
// return sentinel errors for infrastructure facts; services wrap or translate
// them into coded domain errors so transports can map codes to responses
// without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure. Codes are part of the API
// surface: handlers map them to HTTP statuses and clients branch on them.
type Code string

const (
	// CodeUnauthorized: a capability check failed. Never retried.
	CodeUnauthorized Code = "unauthorized"
	// CodeFeatureDisabled: the operation is disabled by an immutable
	// configuration flag (mintable/burnable/freezable). Permanent.
	CodeFeatureDisabled Code = "feature_disabled"
	// CodeFrozen: the asset is frozen; the caller may retry after unfreeze.
	CodeFrozen Code = "frozen"
	// CodeInsufficientBalance: transfer or burn exceeds the holder's balance
	// or allowance. Permanent for that input.
	CodeInsufficientBalance Code = "insufficient_balance"
	// CodeInvalidIdentifier: the token or type identifier does not exist or
	// is not owned as required.
	CodeInvalidIdentifier Code = "invalid_identifier"
	// CodeLengthMismatch: batch id and amount slices differ in length.
	CodeLengthMismatch Code = "length_mismatch"
	// CodeValidationRejected: the compliance validator rejected the
	// operation. Carries the validator's reason. Never retried.
	CodeValidationRejected Code = "validation_rejected"
	// CodeValidationAborted: the validator exceeded its budget or panicked.
	// Treated as a rejection, never as a transient fault.
	CodeValidationAborted Code = "validation_aborted"
	// CodeReentrant: a mutating entry point was invoked while another
	// mutation on the same asset was in flight. Defensive abort.
	CodeReentrant Code = "reentrant"

	CodeConflict     Code = "conflict"
	CodeNotFound     Code = "not_found"
	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeInternal     Code = "internal"
)

// Error is a code-carrying error. Construct via New/Newf/Wrap.
type Error struct {
	code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the error's code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without code or cause.
func (e *Error) Message() string { return e.msg }

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message, preserving the chain for
// errors.Is/As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.code == code {
			return true
		}
		err = de.err
		if err == nil {
			return false
		}
	}
	return false
}

// MessageOf returns the outermost coded message in the chain, or the plain
// error text when the error carries no code.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
