package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/ezerfernandes/blockfmt/internal/fence"
	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/fences.md
var fencesHelp string

var markdownPatterns = []string{"*.md", "*.markdown"}

type filterFunc func(lang string) bool

func fencesCmd(opts *options) *cobra.Command {
	var (
		langs []string
		all   bool
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "fences [flags] [filename...]",
		Short: "List markdown fences and whether the scanner closes them",
		Long:  fencesHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := langFilter(langs)
			if err != nil {
				return err
			}

			return fencesRun(cmd, opts, args, filter, all)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringSliceVar(&langs, "fence-lang", []string{"*"}, "only list fences whose language matches a pattern")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "also list fences no grammar recognizes")

	return cmd
}

func langFilter(patterns []string) (filterFunc, error) {
	globs, err := compileGlobs(patterns)
	if err != nil {
		return nil, err
	}

	return func(lang string) bool {
		return matchAny(globs, lang)
	}, nil
}

func fencesRun(cmd *cobra.Command, opts *options, args []string, filter filterFunc, all bool) error {
	sources, err := sourcesOf(args, markdownPatterns, opts.cfg.Exclude)
	if err != nil {
		return err
	}

	reg, err := opts.cfg.Registry()
	if err != nil {
		return err
	}

	tbl := table.New("File", "Line", "Lang", "Grammar", "Status", "Meta").
		WithWriter(cmd.OutOrStdout()).
		WithHeaderFormatter(opts.palette.Header)

	var rows, unclosed int

	for _, src := range sources {
		data, err := readSource(src, opts.stdin)
		if err != nil {
			return err
		}

		fences, err := fence.Audit(data, reg)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}

		for _, f := range fences {
			if !filter(f.Lang) || (!all && f.Status == fence.StatusIgnored) {
				continue
			}

			status := string(f.Status)

			switch f.Status {
			case fence.StatusOK:
				status = opts.palette.Success(status)
			case fence.StatusIndented, fence.StatusUnclosed:
				unclosed++
				status = opts.palette.Warn(status)
			case fence.StatusIgnored:
			}

			tbl.AddRow(src.Name(), f.StartLine, f.Lang, f.Grammar, status, f.Meta.String())
			rows++
		}
	}

	if rows == 0 {
		opts.status("no fences found\n")

		return nil
	}

	tbl.Print()

	if unclosed > 0 {
		return fmt.Errorf("%w: %d fence(s) will not be closed by the block scanner", errFindings, unclosed)
	}

	return nil
}

func readSource(src scan.Source, stdin io.Reader) ([]byte, error) {
	if src.IsFile() {
		return os.ReadFile(src.Path)
	}

	return io.ReadAll(stdin)
}
