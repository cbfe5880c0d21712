// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitError asks Fatal for a specific exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Fatal writes "error: err" to stderr and exits. The status is 1
// unless err wraps an *ExitError. Use it in main() for errors from
// run(), where the structured logger may not exist yet.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err and returns the exit status for it.
func report(w io.Writer, err error) int {
	code := 1
	var exitError *ExitError
	if errors.As(err, &exitError) {
		code = exitError.Code
		if exitError.Err == nil {
			return code
		}
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return code
}
