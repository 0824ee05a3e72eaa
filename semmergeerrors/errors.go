// Package semmergeerrors provides structured error types for the merge
// pipeline, adapted from the OpenAPI tooling corpus's oaserrors package:
// typed structs with a sentinel per category, so callers can branch with
// errors.Is and extract detail with errors.As instead of parsing strings.
package semmergeerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrProtocol indicates a worker transport or wire-shape failure.
	ErrProtocol = errors.New("worker protocol error")

	// ErrComposeConflict indicates composition produced at least one
	// unresolved conflict.
	ErrComposeConflict = errors.New("compose conflict")

	// ErrVerify indicates the merged tree failed post-merge verification
	// (formatting or type checking).
	ErrVerify = errors.New("verify error")

	// ErrConfig indicates an invalid or unreadable configuration file.
	ErrConfig = errors.New("configuration error")

	// ErrUnsupportedLanguage indicates no analyzer backend is registered
	// for a requested language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrApply indicates the applier could not materialize an op against
	// the base tree.
	ErrApply = errors.New("apply error")
)

// ProtocolError represents a failure in the line-delimited JSON-RPC
// exchange with an analyzer worker process.
type ProtocolError struct {
	// Method is the RPC method being invoked when the failure occurred.
	Method string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ProtocolError) Error() string {
	msg := "worker protocol error"
	if e.Method != "" {
		msg += " in " + e.Method
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error { return e.Cause }
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// ComposeConflictError wraps one or more unresolved conflicts produced by
// composition. Count is always len(ConflictIDs); it is kept alongside the
// ids so a caller can report the total without walking the slice.
type ComposeConflictError struct {
	// ConflictIDs names every conflict the composer produced.
	ConflictIDs []string
	// Count is the number of conflicts.
	Count int
}

func (e *ComposeConflictError) Error() string {
	return fmt.Sprintf("compose produced %d conflict(s): %v", e.Count, e.ConflictIDs)
}

func (e *ComposeConflictError) Is(target error) bool { return target == ErrComposeConflict }

// VerifyError represents a post-merge verification failure: the merged
// tree failed to format or failed type checking.
type VerifyError struct {
	// Stage is "format" or "typecheck".
	Stage string
	// Diagnostics holds the verifier's own output lines, if any.
	Diagnostics []string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *VerifyError) Error() string {
	msg := "verify error"
	if e.Stage != "" {
		msg += " in " + e.Stage
	}
	if len(e.Diagnostics) > 0 {
		msg += fmt.Sprintf(" (%d diagnostic(s))", len(e.Diagnostics))
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *VerifyError) Unwrap() error { return e.Cause }
func (e *VerifyError) Is(target error) bool { return target == ErrVerify }

// ConfigError represents an invalid configuration file or option.
type ConfigError struct {
	// Path is the config file path, if the error was file-sourced.
	Path string
	// Option is the specific key that was invalid, if known.
	Option string
	// Message describes the problem.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Option != "" {
		msg += fmt.Sprintf(" (option %q)", e.Option)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// UnsupportedLanguageError names the language no worker backend was
// registered for.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language: %s", e.Language)
}

func (e *UnsupportedLanguageError) Is(target error) bool { return target == ErrUnsupportedLanguage }

// ApplyError represents a failure to materialize a specific op against
// the base tree.
type ApplyError struct {
	// OpID is the op that could not be applied.
	OpID string
	// Path is the file the op targeted, if known.
	Path string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *ApplyError) Error() string {
	msg := "apply error"
	if e.OpID != "" {
		msg += " for op " + e.OpID
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ApplyError) Unwrap() error { return e.Cause }
func (e *ApplyError) Is(target error) bool { return target == ErrApply }
