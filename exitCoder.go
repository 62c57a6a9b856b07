// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwire

import (
	"errors"
	"fmt"
)

// DefaultErrorExitCode is the exit code of an error nothing else accounts for.
const DefaultErrorExitCode int = 1

// ExitCoder is implemented by errors that carry a process exit code.
type ExitCoder interface {
	ExitCode() int
}

type exitCodeErr struct {
	err      error
	exitCode int
}

func (ece exitCodeErr) Error() string {
	return fmt.Sprintf("%s (exit code %d)", ece.err, ece.exitCode)
}

func (ece exitCodeErr) ExitCode() int {
	return ece.exitCode
}

func (ece exitCodeErr) Unwrap() error {
	return ece.err
}

// UseExitCode attaches an exit code to err.  The result unwraps to err.
// A nil err stays nil, so this can wrap a call's result directly.
func UseExitCode(err error, exitCode int) error {
	if err == nil {
		return nil
	}

	return exitCodeErr{
		err:      err,
		exitCode: exitCode,
	}
}

// SentinelCode maps errors matching Err, per errors.Is, to Code.
type SentinelCode struct {
	Err  error
	Code int
}

// ExitCodeFor determines the process exit code for err.  A nil err is
// always 0.  Otherwise the first ExitCoder in err's chain wins, then the
// first matching sentinel, then DefaultErrorExitCode.
func ExitCodeFor(err error, sentinels ...SentinelCode) int {
	if err == nil {
		return 0
	}

	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	for _, s := range sentinels {
		if errors.Is(err, s.Err) {
			return s.Code
		}
	}

	return DefaultErrorExitCode
}
