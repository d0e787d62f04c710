// Package strategy holds the ways a scan result is consumed: passing the
// input through, rewriting it in place, or reporting a diff per block.
package strategy

import (
	"io"

	"github.com/ezerfernandes/blockfmt/internal/scan"
)

// Lint passes the input through to w, with successfully formatted block
// bodies substituted for the originals.
type Lint struct {
	w io.Writer
}

// NewLint returns a passthrough strategy writing to w.
func NewLint(w io.Writer) *Lint {
	return &Lint{w: w}
}

func (l *Lint) Line(line string) error {
	_, err := io.WriteString(l.w, line)

	return err
}

func (l *Lint) Block(b *scan.Block) (scan.Outcome, error) {
	if _, err := io.WriteString(l.w, b.Text()); err != nil {
		return scan.Outcome{}, err
	}

	_, err := io.WriteString(l.w, b.Finish)

	return scan.Outcome{Replaced: b.Changed()}, err
}

// Done writes the lines of an unterminated block verbatim.
func (l *Lint) Done(sum *scan.Summary) error {
	for _, line := range sum.Pending {
		if err := l.Line(line); err != nil {
			return err
		}
	}

	return nil
}
