// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"time"

	"github.com/invowk/sourcery-build/internal/plan"
)

// Result is the outcome of one executed command.
type Result struct {
	Kind     plan.Kind
	ExitCode ExitCode
	// Error is set for failures that are not a plain non-zero exit, such as a
	// missing executable or a failed directory removal.
	Error    error
	Duration time.Duration
}

// Success reports whether the command exited zero without error.
func (r *Result) Success() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(kind plan.Kind, code ExitCode, err error) *Result {
	return &Result{Kind: kind, ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult(kind plan.Kind) *Result {
	return &Result{Kind: kind}
}
