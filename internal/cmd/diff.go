package cmd

import (
	_ "embed"
	"io"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/strategy"
	"github.com/spf13/cobra"
)

//go:embed help/diff.md
var diffHelp string

func diffCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:     "diff [flags] [filename...]",
		Aliases: []string{"d"},
		Short:   "Show how embedded blocks would be reformatted",
		Long:    diffHelp,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return process(cmd, opts, args, func(stdout io.Writer, _ statusFunc) scan.Strategy {
				return strategy.NewDiff(stdout, opts.palette)
			})
		},

		DisableAutoGenTag: true,
	}
}
