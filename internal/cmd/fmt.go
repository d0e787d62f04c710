package cmd

import (
	_ "embed"
	"io"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/strategy"
	"github.com/spf13/cobra"
)

//go:embed help/fmt.md
var fmtHelp string

func fmtCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:     "fmt [flags] [filename...]",
		Aliases: []string{"f"},
		Short:   "Rewrite embedded blocks in place",
		Long:    fmtHelp,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return process(cmd, opts, args, func(stdout io.Writer, status statusFunc) scan.Strategy {
				return strategy.NewRewrite(stdout, strategy.StatusFunc(status), opts.palette)
			})
		},

		DisableAutoGenTag: true,
	}
}
