// Package cmd implements the blockfmt command line.
package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

//go:embed help/root.md
var rootHelp string

const (
	exitFindings = 1
	exitFatal    = 2
)

// errFindings marks a run that completed but found blocks that failed to
// format, were malformed or are not canonically formatted.
var errFindings = errors.New("findings")

// Execute runs the command line and exits with a non-zero status on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	code := run(ctx, args, os.Stdin, stdout, stderr)

	stop()

	if code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{stdin: stdin}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if errors.Is(err, errFindings) {
		if !opts.quiet {
			fmt.Fprintln(stderr, opts.palette.Error(err.Error()))
		}

		return exitFindings
	}

	fmt.Fprintln(stderr, opts.palette.Error("error: "+err.Error()))

	return exitFatal
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:   "blockfmt [flags] [filename...]",
		Short: "Format embedded code blocks with an external formatter",
		Long:  rootHelp,
		Args:  cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return lintRun(cmd, opts, args)
		},

		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}

	persistentFlags(root, opts)

	root.AddCommand(lintCmd(opts), fmtCmd(opts), diffCmd(opts), fencesCmd(opts))

	return root
}
