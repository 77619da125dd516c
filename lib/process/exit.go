// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit status
// and have already reported themselves.
type exitCoder interface {
	ExitCode() int
}

// Fatal reports err and exits. An error implementing ExitCode() exits
// with that code silently; anything else prints "error: err" to stderr
// and exits with code 1.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes err to w unless it carries its own exit code, and
// returns the process exit status for it. A nil error is status 0.
func Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
