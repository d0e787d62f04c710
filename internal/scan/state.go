package scan

import (
	"fmt"
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/format"
	"github.com/ezerfernandes/blockfmt/internal/grammar"
)

// Counters are the per-run statistics. They only ever grow during a run.
type Counters struct {
	Found     int // blocks opened
	OK        int // blocks the formatter accepted
	Err       int // formatter failures plus malformed blocks
	Differing int // accepted blocks whose formatted text differs
	Formatted int // blocks whose body a strategy replaced
	Flagged   int // blocks a strategy reported as needing formatting
}

// Add accumulates o into c.
func (c *Counters) Add(o Counters) {
	c.Found += o.Found
	c.OK += o.OK
	c.Err += o.Err
	c.Differing += o.Differing
	c.Formatted += o.Formatted
	c.Flagged += o.Flagged
}

// State is the mutable scan state of one run. Buffer is only non-empty while
// Active is set.
type State struct {
	Line       int
	BlockStart int
	Active     *grammar.Grammar
	Buffer     []string

	Counters
}

// Buffering reports whether a block is open.
func (s *State) Buffering() bool {
	return s.Active != nil
}

func (s *State) open(g grammar.Grammar) {
	s.Found++
	s.BlockStart = s.Line
	s.Active = &g
}

func (s *State) close() {
	s.Active = nil
	s.Buffer = nil
}

// Block is one extracted block, handed to a Strategy when it closes.
type Block struct {
	Source     string
	Index      int
	Grammar    grammar.Grammar
	StartLine  int
	FinishLine int
	Finish     string // the closing line, terminator included
	Raw        string // body without the delimiter lines
	Result     format.Result
}

// Text is the body a strategy should emit for the block.
func (b *Block) Text() string {
	return b.Result.Text(b.Raw)
}

// Changed reports whether formatting succeeded and altered the body.
func (b *Block) Changed() bool {
	return b.Result.Success && b.Result.Formatted != b.Raw
}

// Source identifies one input. An empty Path means standard input.
type Source struct {
	Path string
}

// Name is the path, or STDIN for standard input.
func (s Source) Name() string {
	if len(s.Path) == 0 {
		return "STDIN"
	}

	return s.Path
}

// IsFile reports whether the source is a real file.
func (s Source) IsFile() bool {
	return len(s.Path) != 0
}

// Summary is passed to Strategy.Done at the end of a run.
type Summary struct {
	Source   Source
	Counters Counters
	// Pending holds the buffered lines of an unterminated block, which were
	// never formatted nor passed to Strategy.Block.
	Pending []string
}

// MalformedBlockError reports a block opened but never closed.
type MalformedBlockError struct {
	Source  string
	Line    int
	Grammar grammar.Grammar
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("%s@%d: malformed %s block: `%s` missing `%s`",
		e.Source, e.Line, e.Grammar.Label, e.Grammar.Start, e.Grammar.Finish)
}

// ExecutionError reports a formatter run that exited non-zero.
type ExecutionError struct {
	Source     string
	Line       int
	Grammar    grammar.Grammar
	Diagnostic string
}

func (e *ExecutionError) Error() string {
	diag := strings.TrimSpace(e.Diagnostic)
	if len(diag) == 0 {
		diag = "formatter failed"
	}

	return fmt.Sprintf("%s@%d: %s block: %s", e.Source, e.Line, e.Grammar.Label, diag)
}
