package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/format"
	"github.com/ezerfernandes/blockfmt/internal/grammar"
	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/strategy"
	"github.com/ezerfernandes/blockfmt/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// strategyFunc builds the strategy of one file run. Output goes to stdout and
// progress messages to status, both private to that file.
type strategyFunc func(stdout io.Writer, status statusFunc) scan.Strategy

type fileResult struct {
	source   scan.Source
	counters scan.Counters
}

type runner struct {
	grammars  grammar.Registry
	formatter format.Formatter
	palette   ui.Palette
	quiet     bool
	jobs      int
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	strategy  strategyFunc
}

func newRunner(opts *options, stdout, stderr io.Writer, fn strategyFunc) (*runner, error) {
	grammars, err := opts.cfg.Registry()
	if err != nil {
		return nil, err
	}

	formatter, err := opts.cfg.NewFormatter()
	if err != nil {
		return nil, err
	}

	return &runner{
		grammars:  grammars,
		formatter: formatter,
		palette:   opts.palette,
		quiet:     opts.quiet,
		jobs:      opts.cfg.Jobs,
		stdin:     opts.stdin,
		stdout:    stdout,
		stderr:    stderr,
		strategy:  fn,
	}, nil
}

// runAll processes sources in order. With more than one job, files run
// concurrently and their output is flushed in source order once all finish.
func (r *runner) runAll(ctx context.Context, sources []scan.Source) ([]fileResult, error) {
	results := make([]fileResult, len(sources))

	if r.jobs <= 1 || len(sources) < 2 {
		for i, src := range sources {
			counters, err := r.runOne(ctx, src, r.stdout, r.stderr)
			results[i] = fileResult{source: src, counters: counters}

			if err != nil {
				return results[:i+1], err
			}
		}

		return results, nil
	}

	outs := make([]bytes.Buffer, len(sources))
	errs := make([]bytes.Buffer, len(sources))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(r.jobs)

	for i := range sources {
		i := i

		group.Go(func() error {
			counters, err := r.runOne(gctx, sources[i], &outs[i], &errs[i])
			results[i] = fileResult{source: sources[i], counters: counters}

			return err
		})
	}

	err := group.Wait()

	for i := range sources {
		if _, werr := io.Copy(r.stdout, &outs[i]); werr != nil && err == nil {
			err = werr
		}

		if _, werr := io.Copy(r.stderr, &errs[i]); werr != nil && err == nil {
			err = werr
		}
	}

	return results, err
}

func (r *runner) runOne(ctx context.Context, src scan.Source, stdout, stderr io.Writer) (scan.Counters, error) {
	in := r.stdin

	if src.IsFile() {
		file, err := os.Open(src.Path)
		if err != nil {
			return scan.Counters{}, err
		}
		defer file.Close()

		in = file
	}

	ext := &scan.Extractor{
		Grammars:  r.grammars,
		Formatter: r.formatter,
		Report:    r.reporter(stderr),
	}

	st, err := ext.Run(ctx, src, in, r.strategy(stdout, newStatus(stderr, r.quiet)))

	return st.Counters, err
}

// reporter prints recoverable block errors as file@line message.
func (r *runner) reporter(w io.Writer) scan.Reporter {
	return func(err error) {
		var (
			malformed *scan.MalformedBlockError
			execErr   *scan.ExecutionError
		)

		switch {
		case errors.As(err, &malformed):
			msg := fmt.Sprintf("MALFORMED BLOCK: `%s` missing `%s` (%s)",
				malformed.Grammar.Start, malformed.Grammar.Finish, malformed.Grammar.Label)
			fmt.Fprintf(w, "%s %s\n", r.palette.Location(malformed.Source, malformed.Line), r.palette.Error(msg))
		case errors.As(err, &execErr):
			diag := strings.TrimRight(execErr.Diagnostic, "\n")
			if len(strings.TrimSpace(diag)) == 0 {
				diag = r.palette.Error("formatter failed (" + execErr.Grammar.Label + ")")
			}

			fmt.Fprintf(w, "%s %s\n", r.palette.Location(execErr.Source, execErr.Line), diag)
		default:
			fmt.Fprintln(w, r.palette.Error(err.Error()))
		}
	}
}

// findings turns the totals of a run into errFindings when blocks failed or
// were flagged by the strategy.
func findings(results []fileResult) error {
	var total scan.Counters

	for _, res := range results {
		total.Add(res.counters)
	}

	switch {
	case total.Err > 0 && total.Flagged > 0:
		return fmt.Errorf("%w: %d block(s) failed, %d block(s) not formatted", errFindings, total.Err, total.Flagged)
	case total.Err > 0:
		return fmt.Errorf("%w: %d block(s) failed", errFindings, total.Err)
	case total.Flagged > 0:
		return fmt.Errorf("%w: %d block(s) not formatted", errFindings, total.Flagged)
	default:
		return nil
	}
}

// process runs fn over the sources named by args and reports the outcome.
func process(cmd *cobra.Command, opts *options, args []string, fn strategyFunc) error {
	sources, err := sourcesOf(args, opts.cfg.Include, opts.cfg.Exclude)
	if err != nil {
		return err
	}

	r, err := newRunner(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), fn)
	if err != nil {
		return err
	}

	results, err := r.runAll(cmd.Context(), sources)

	if opts.stats {
		printStats(cmd.ErrOrStderr(), opts.palette, results)
	}

	if err != nil {
		return err
	}

	return findings(results)
}

func lintRun(cmd *cobra.Command, opts *options, args []string) error {
	return process(cmd, opts, args, func(stdout io.Writer, _ statusFunc) scan.Strategy {
		return strategy.NewLint(stdout)
	})
}
