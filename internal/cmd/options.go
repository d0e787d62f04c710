package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ezerfernandes/blockfmt/internal/config"
	"github.com/ezerfernandes/blockfmt/internal/ui"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
)

type statusFunc func(format string, args ...interface{})

type options struct {
	configPath string
	formatter  string
	shell      bool
	timeout    string
	lang       string
	include    []string
	jobs       int
	color      string
	quiet      bool
	stats      bool

	cfg     *config.Config
	palette ui.Palette
	status  statusFunc
	stdin   io.Reader
}

func persistentFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&opts.configPath, "config", "", "configuration file (default: nearest "+config.FileName+")")
	flags.StringVarP(&opts.formatter, "formatter", "f", "", "formatter command reading stdin and writing stdout")
	flags.BoolVar(&opts.shell, "shell", false, "run the formatter command through the embedded POSIX shell")
	flags.StringVar(&opts.timeout, "timeout", "", "maximum time per formatter call, e.g. 30s")
	flags.StringVarP(&opts.lang, "lang", "l", "", "markdown fence tag to format")
	flags.StringSliceVar(&opts.include, "include", nil, "file name patterns processed when walking directories")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "number of files processed concurrently")
	flags.StringVar(&opts.color, "color", "auto", "colorize output (auto|on|off)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")
	flags.BoolVar(&opts.stats, "stats", false, "print a table of block statistics per file")
}

// setup loads the configuration, applies explicit flags over it and prepares
// the status writer.
func (opts *options) setup(cmd *cobra.Command) error {
	mode, err := ui.ParseMode(opts.color)
	if err != nil {
		return err
	}

	out, _ := cmd.OutOrStdout().(*os.File)
	opts.palette = ui.NewPalette(mode.Enabled(out))
	opts.createStatus(cmd.ErrOrStderr())

	if len(opts.configPath) != 0 {
		opts.cfg, err = config.Load(opts.configPath)
	} else {
		opts.cfg, err = config.Discover(".")
	}

	if err != nil {
		return err
	}

	if cmd.Flag("formatter").Changed {
		opts.cfg.Formatter = opts.formatter
	}

	if cmd.Flag("shell").Changed {
		opts.cfg.Shell = opts.shell
	}

	if cmd.Flag("timeout").Changed {
		opts.cfg.Timeout = opts.timeout
	}

	if cmd.Flag("lang").Changed {
		opts.cfg.Lang = opts.lang
	}

	if cmd.Flag("include").Changed {
		opts.cfg.Include = opts.include
	}

	if cmd.Flag("jobs").Changed {
		opts.cfg.Jobs = opts.jobs
	}

	return opts.cfg.Validate()
}

func (opts *options) createStatus(w io.Writer) {
	opts.status = newStatus(w, opts.quiet)
}

func newStatus(w io.Writer, quiet bool) statusFunc {
	return func(format string, args ...interface{}) {
		if !quiet {
			fmt.Fprintf(w, format, args...)
		}
	}
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}

	return false
}
