package strategy

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/ezerfernandes/blockfmt/internal/ui"
	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// Diff prints a unified diff for every block whose formatted body differs
// from the original. Ordinary lines are suppressed.
type Diff struct {
	w       io.Writer
	palette ui.Palette
}

// NewDiff returns a diff strategy writing to w.
func NewDiff(w io.Writer, palette ui.Palette) *Diff {
	return &Diff{w: w, palette: palette}
}

func (d *Diff) Line(string) error {
	return nil
}

func (d *Diff) Block(b *scan.Block) (scan.Outcome, error) {
	if !b.Result.Success || b.Result.Formatted == b.Raw {
		return scan.Outcome{}, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(b.Raw),
		B:        difflib.SplitLines(b.Result.Formatted),
		FromFile: "original",
		ToFile:   "formatted",
		Context:  diffContext,
	})
	if err != nil {
		return scan.Outcome{}, err
	}

	if len(strings.TrimSpace(text)) == 0 {
		return scan.Outcome{}, nil
	}

	header := fmt.Sprintf("%s: %s\n", d.palette.Location(b.Source, b.StartLine),
		d.palette.Label(fmt.Sprintf("block #%d", b.Index)))
	if _, err := io.WriteString(d.w, header); err != nil {
		return scan.Outcome{}, err
	}

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if _, err := fmt.Fprintln(d.w, d.palette.DiffLine(line)); err != nil {
			return scan.Outcome{}, err
		}
	}

	return scan.Outcome{Differs: true}, nil
}

func (d *Diff) Done(*scan.Summary) error {
	return nil
}
