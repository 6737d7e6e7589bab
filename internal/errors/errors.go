// Package errors provides centralized error definitions and error handling
// utilities for the deskmux codebase. It defines the sentinel errors shared
// across subsystems, a domain error type carrying multiplexer context, and
// classification helpers used by the menu loop to decide how failures are
// reported.
//
// Creating errors:
//
//	err := errors.NewMultiplexerError("create failed", errors.ErrDuplicateSession).
//		WithBackend("tmux").WithSession("dev")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrSessionNotFound) { ... }
//
//	var muxErr *errors.MultiplexerError
//	if errors.As(err, &muxErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Session registry sentinel errors
var (
	// ErrSessionNotFound indicates that an identifier resolved to no live session.
	ErrSessionNotFound = New("session not found")
	// ErrDuplicateSession indicates a create with the name of a live session.
	ErrDuplicateSession = New("session already exists")
	// ErrUnsupportedOperation indicates the active backend cannot perform
	// the operation (e.g. rename on zellij).
	ErrUnsupportedOperation = New("operation not supported by this backend")
)

// External tool sentinel errors
var (
	// ErrExternalTool indicates the multiplexer or a helper binary is
	// missing or returned a nonzero exit status.
	ErrExternalTool = New("external tool failure")
	// ErrConfigLoad indicates the settings file was missing or corrupt.
	// Callers recover locally by falling back to defaults.
	ErrConfigLoad = New("config load failed")
)

// -----------------------------------------------------------------------------
// Domain Errors
// -----------------------------------------------------------------------------

// MultiplexerError represents a failure while driving a multiplexer backend.
//
// Example:
//
//	err := errors.NewMultiplexerError("attach failed", cause).
//		WithBackend("tmux").WithSession("dev")
//	fmt.Println(err) // "multiplexer error [backend=tmux, session=dev]: attach failed: ..."
type MultiplexerError struct {
	message string
	cause   error
	Backend string
	Session string
}

// NewMultiplexerError creates a new MultiplexerError.
func NewMultiplexerError(message string, cause error) *MultiplexerError {
	return &MultiplexerError{message: message, cause: cause}
}

// WithBackend adds a backend name to the error context.
func (e *MultiplexerError) WithBackend(name string) *MultiplexerError {
	e.Backend = name
	return e
}

// WithSession adds a session name to the error context.
func (e *MultiplexerError) WithSession(name string) *MultiplexerError {
	e.Session = name
	return e
}

// Error returns the formatted error message.
func (e *MultiplexerError) Error() string {
	var parts []string
	if e.Backend != "" {
		parts = append(parts, fmt.Sprintf("backend=%s", e.Backend))
	}
	if e.Session != "" {
		parts = append(parts, fmt.Sprintf("session=%s", e.Session))
	}

	prefix := "multiplexer error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("multiplexer error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *MultiplexerError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *MultiplexerError) Is(target error) bool {
	if _, ok := target.(*MultiplexerError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsUserInput reports whether the error results from a bad identifier or
// name supplied by the user, as opposed to an external tool failure. The
// menu loop uses this to phrase its inline notices.
func IsUserInput(err error) bool {
	return Is(err, ErrSessionNotFound) || Is(err, ErrDuplicateSession) ||
		Is(err, ErrUnsupportedOperation)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with an additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to restore snapshot")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
