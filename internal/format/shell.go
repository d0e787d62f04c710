package format

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// statusNotFound is the POSIX shell status for a command that does not exist.
const statusNotFound = 127

// Shell runs a shell script through the embedded POSIX interpreter, so
// pipelines and quoting work without a system shell.
type Shell struct {
	Script  string
	Dir     string
	Timeout time.Duration

	prog *syntax.File
}

// NewShell parses script once; every Format call runs the parsed program.
func NewShell(script string, timeout time.Duration) (*Shell, error) {
	if len(strings.TrimSpace(script)) == 0 {
		return nil, errEmptyCommand
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		return nil, fmt.Errorf("parse formatter script: %w", err)
	}

	return &Shell{Script: script, Timeout: timeout, prog: prog}, nil
}

func (s *Shell) String() string {
	return s.Script
}

// Format runs the script with text on stdin. Status 127 means the formatter
// executable was not found and is reported as a *LaunchError.
func (s *Shell) Format(ctx context.Context, text string) (Result, error) {
	if s.prog == nil {
		return Result{}, &LaunchError{Command: s.Script, Err: errEmptyCommand}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	opts := []interp.RunnerOption{interp.StdIO(strings.NewReader(text), &stdout, &stderr)}
	if len(s.Dir) != 0 {
		opts = append(opts, interp.Dir(s.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Result{}, &LaunchError{Command: s.Script, Err: err}
	}

	err = runner.Run(ctx, s.prog)
	if err == nil {
		return Result{Formatted: stdout.String(), Diagnostic: stderr.String(), Success: true}, nil
	}

	status, ok := interp.IsExitStatus(err)
	if !ok {
		if ctx.Err() != nil {
			return Result{Diagnostic: timeoutDiagnostic(ctx, stderr.String())}, nil
		}

		return Result{}, &LaunchError{Command: s.Script, Err: err}
	}

	if status == statusNotFound {
		return Result{}, &LaunchError{Command: s.Script, Err: fmt.Errorf("exit status %d: %s", status, strings.TrimSpace(stderr.String()))}
	}

	return Result{Diagnostic: timeoutDiagnostic(ctx, stderr.String())}, nil
}
