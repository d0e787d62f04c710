package format

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Command runs an executable directly, feeding the block on stdin.
type Command struct {
	Args    []string
	Dir     string
	Timeout time.Duration
}

// NewCommand splits command with shell quoting rules into an argument vector.
func NewCommand(command string, timeout time.Duration) (*Command, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return nil, errEmptyCommand
	}

	return &Command{Args: args, Timeout: timeout}, nil
}

func (c *Command) String() string {
	return strings.Join(c.Args, " ")
}

// Format runs the command once. A non-zero exit is a failed Result; an exec
// failure before the process starts is a *LaunchError.
func (c *Command) Format(ctx context.Context, text string) (Result, error) {
	if len(c.Args) == 0 {
		return Result{}, &LaunchError{Err: errEmptyCommand}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...) //nolint:gosec
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code, err := exitCode(cmd.Run())
	if err != nil {
		return Result{}, &LaunchError{Command: c.String(), Err: err}
	}

	if code != 0 {
		return Result{Diagnostic: timeoutDiagnostic(ctx, stderr.String())}, nil
	}

	return Result{Formatted: stdout.String(), Diagnostic: stderr.String(), Success: true}, nil
}

// exitCode extracts an exit code from a command error.
// Returns (code, nil) for ExitError, (0, err) for other errors, (0, nil) for nil.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 0, err
}
