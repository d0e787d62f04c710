// Package format delegates canonicalization of block text to an external
// formatter. One formatter process runs per block.
package format

import (
	"context"
	"errors"
	"fmt"
)

// DefaultCommand is the formatter used when none is configured.
const DefaultCommand = "terraform fmt -"

// Result is the outcome of formatting one block. Formatted is only meaningful
// when Success is true.
type Result struct {
	Formatted  string
	Diagnostic string
	Success    bool
}

// Text returns the formatted text, or raw when formatting failed.
func (r Result) Text(raw string) string {
	if r.Success {
		return r.Formatted
	}

	return raw
}

// Formatter formats a block body. A returned error means no result could be
// produced at all; a formatter that ran and failed reports Success false.
type Formatter interface {
	Format(ctx context.Context, text string) (Result, error)
}

// Func adapts an ordinary function to the Formatter interface.
type Func func(ctx context.Context, text string) (Result, error)

// Format calls f(ctx, text).
func (f Func) Format(ctx context.Context, text string) (Result, error) {
	return f(ctx, text)
}

// Identity is a formatter that returns its input unchanged.
var Identity = Func(func(_ context.Context, text string) (Result, error) {
	return Result{Formatted: text, Success: true}, nil
})

// LaunchError reports that the formatter could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot launch formatter %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsLaunchError reports whether err is, or wraps, a *LaunchError.
func IsLaunchError(err error) bool {
	var launchErr *LaunchError

	return errors.As(err, &launchErr)
}

var errEmptyCommand = errors.New("empty formatter command")

func timeoutDiagnostic(ctx context.Context, diag string) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return diag + "formatter timed out\n"
	}

	return diag
}
