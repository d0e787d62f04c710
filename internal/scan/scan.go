// Package scan extracts embedded blocks from line-oriented text in a single
// pass, formats each block body and hands ordinary lines and finished blocks
// to a Strategy.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/format"
	"github.com/ezerfernandes/blockfmt/internal/grammar"
)

// Outcome is what a strategy did with a block.
type Outcome struct {
	Replaced bool // the emitted body differs from the original body
	Differs  bool // the block was reported as not canonically formatted
}

// Strategy consumes the extractor's callbacks.
type Strategy interface {
	// Line receives every line outside a block, including block openers.
	Line(line string) error
	// Block receives a closed block. The closing line is only in b.Finish.
	Block(b *Block) (Outcome, error)
	// Done is called once after the input is exhausted.
	Done(sum *Summary) error
}

// Reporter receives recoverable errors: *MalformedBlockError and
// *ExecutionError.
type Reporter func(err error)

// Extractor drives the scan.
type Extractor struct {
	Grammars  grammar.Registry
	Formatter format.Formatter
	Report    Reporter
}

// Run scans r line by line. Fatal errors (read failures, formatter launch
// failures, strategy I/O) stop the run and are returned; block level errors
// go to Report and are counted in the returned state.
func (e *Extractor) Run(ctx context.Context, src Source, r io.Reader, s Strategy) (*State, error) {
	st := &State{}
	br := bufio.NewReader(r)

	for {
		line, rerr := br.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return st, fmt.Errorf("read %s: %w", src.Name(), rerr)
		}

		if len(line) != 0 {
			if err := e.Step(ctx, st, src, line, s); err != nil {
				return st, err
			}
		}

		if rerr != nil {
			break
		}
	}

	return st, e.Finish(st, src, s)
}

// Step advances st by one line, terminator included.
func (e *Extractor) Step(ctx context.Context, st *State, src Source, line string, s Strategy) error {
	st.Line++

	if st.Buffering() {
		if !st.Active.Finishes(line) {
			st.Buffer = append(st.Buffer, line)

			return nil
		}

		return e.closeBlock(ctx, st, src, line, s)
	}

	if g, ok := e.Grammars.Match(line); ok {
		st.open(g)
	}

	return s.Line(line)
}

func (e *Extractor) closeBlock(ctx context.Context, st *State, src Source, line string, s Strategy) error {
	block := &Block{
		Source:     src.Name(),
		Index:      st.Found,
		Grammar:    *st.Active,
		StartLine:  st.BlockStart,
		FinishLine: st.Line,
		Finish:     line,
		Raw:        strings.Join(st.Buffer, ""),
	}

	st.close()

	res, err := e.Formatter.Format(ctx, block.Raw)
	if err != nil {
		return fmt.Errorf("%s@%d: %w", block.Source, block.StartLine, err)
	}

	block.Result = res

	if res.Success {
		st.OK++

		if res.Formatted != block.Raw {
			st.Differing++
		}
	} else {
		st.Err++
		e.report(&ExecutionError{
			Source:     block.Source,
			Line:       block.StartLine,
			Grammar:    block.Grammar,
			Diagnostic: res.Diagnostic,
		})
	}

	out, err := s.Block(block)
	if err != nil {
		return err
	}

	if out.Replaced {
		st.Formatted++
	}

	if out.Differs {
		st.Flagged++
	}

	return nil
}

// Finish ends the run: an open block is reported as malformed and its lines
// are handed to Done as pending.
func (e *Extractor) Finish(st *State, src Source, s Strategy) error {
	var pending []string

	if st.Buffering() {
		st.Err++
		e.report(&MalformedBlockError{Source: src.Name(), Line: st.BlockStart, Grammar: *st.Active})

		pending = st.Buffer
		st.close()
	}

	return s.Done(&Summary{Source: src, Counters: st.Counters, Pending: pending})
}

func (e *Extractor) report(err error) {
	if e.Report != nil {
		e.Report(err)
	}
}
