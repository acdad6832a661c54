package main

import "fmt"

// ExitCodeError carries an explicit process exit code through cobra's
// error return. Exit codes: 0 success/no-op, 1 apply or convergence
// failure, 2 validation/config error.
type ExitCodeError struct {
	Code int
	Err  error
}

func (e ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e ExitCodeError) Unwrap() error { return e.Err }
