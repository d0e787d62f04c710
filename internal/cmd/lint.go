package cmd

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed help/lint.md
var lintHelp string

func lintCmd(opts *options) *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:     "lint [flags] [filename...]",
		Aliases: []string{"cat"},
		Short:   "Print input with embedded blocks formatted",
		Long:    lintHelp,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lintRun(cmd, opts, args)
		},

		DisableAutoGenTag: true,
	}
}
