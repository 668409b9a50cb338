package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPageSize is wrapped by the ConfigurationError Paginate returns
	// for a page size below one.
	ErrInvalidPageSize = errors.New("page size must be a positive integer")

	// ErrInterrupted ends a session early: Ctrl+C at a prompt or on the scan
	// spinner, or a cancelled session context.
	ErrInterrupted = errors.New("interrupted")
)

// interruptedBy marks an operation stopped by cause (usually a context error)
// so callers can match either ErrInterrupted or the cause.
func interruptedBy(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// ValidationError reports operator input that cannot be used as a root.
type ValidationError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid path: %s", e.Reason)
	}
	return fmt.Sprintf("invalid path %q: %s", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ScanWarning is a non-fatal problem met while walking the tree.
type ScanWarning struct {
	Path string
	Err  error
}

func (w ScanWarning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// SoftDeleteError wraps a trash failure for a single path.
type SoftDeleteError struct {
	Path string
	Err  error
}

func (e *SoftDeleteError) Error() string {
	return fmt.Sprintf("trash %s: %v", e.Path, e.Err)
}

func (e *SoftDeleteError) Unwrap() error { return e.Err }

// ConfigurationError marks caller misuse that aborts an operation but not the
// session.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Setting, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
