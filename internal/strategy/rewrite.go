package strategy

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/sink"
	"github.com/ezerfernandes/blockfmt/internal/ui"
)

// Replacer atomically replaces a file's content.
type Replacer interface {
	Replace(path string, data []byte) error
}

// StatusFunc prints a progress message.
type StatusFunc func(format string, args ...interface{})

// Rewrite buffers the reconstructed input and writes it back when the scan
// completes: over the source file, or to Stdout for standard input.
type Rewrite struct {
	Files   Replacer
	Stdout  io.Writer
	Status  StatusFunc
	Palette ui.Palette

	output []string
}

// NewRewrite returns a rewrite strategy replacing files atomically.
func NewRewrite(stdout io.Writer, status StatusFunc, palette ui.Palette) *Rewrite {
	return &Rewrite{Files: sink.Atomic{}, Stdout: stdout, Status: status, Palette: palette}
}

func (r *Rewrite) Line(line string) error {
	r.output = append(r.output, line)

	return nil
}

func (r *Rewrite) Block(b *scan.Block) (scan.Outcome, error) {
	r.output = append(r.output, b.Text(), b.Finish)

	return scan.Outcome{Replaced: b.Changed()}, nil
}

func (r *Rewrite) Done(sum *scan.Summary) error {
	r.output = append(r.output, sum.Pending...)
	data := []byte(strings.Join(r.output, ""))
	r.output = nil

	var err error
	if sum.Source.IsFile() {
		err = r.Files.Replace(sum.Source.Path, data)
	} else {
		err = sink.Stream(r.Stdout, data)
	}

	if err != nil {
		return err
	}

	r.summarize(sum)

	return nil
}

func (r *Rewrite) summarize(sum *scan.Summary) {
	if r.Status == nil {
		return
	}

	name := r.Palette.Path(sum.Source.Name() + ":")

	if sum.Counters.Found == 0 {
		r.Status("%s %s\n", name, r.Palette.Warn("no blocks found!"))

		return
	}

	msg := fmt.Sprintf("formatted %d of %d blocks", sum.Counters.Formatted, sum.Counters.Found)
	r.Status("%s %s\n", name, r.Palette.Success(msg))
}
