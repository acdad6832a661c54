package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrZoneNotFound     = errors.New("zone not found")
	ErrNotSupported     = errors.New("operation not supported by provider")
)

// ValidationError marks malformed desired records, unscoped change
// attempts, or bad configuration. Always fatal and pre-flight; nothing is
// partially applied once one is raised.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// ProviderError wraps an HTTP/auth/rate-limit failure from a provider API.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ConvergenceError reports that verification exhausted its attempt budget
// without observing the expected state.
type ConvergenceError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("state did not converge after %d attempts (%s)", e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// RollbackError reports that restoring from a snapshot failed or did not
// verify. It is fatal; a second automated rollback is never attempted.
type RollbackError struct {
	SnapshotID string
	Err        error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback from snapshot %s failed: %v", e.SnapshotID, e.Err)
}

func (e *RollbackError) Unwrap() error { return e.Err }
