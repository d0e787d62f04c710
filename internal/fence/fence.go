// Package fence lists the fenced code blocks of a Markdown document as a
// CommonMark parser sees them, and checks each one against the line scanner's
// grammars. Fences the parser closes but the scanner would not are reported.
package fence

import (
	"strings"

	"github.com/ezerfernandes/blockfmt/internal/grammar"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Status is the scanner's view of a fence.
type Status string

const (
	StatusOK       Status = "ok"
	StatusIgnored  Status = "ignored"
	StatusIndented Status = "indented-close"
	StatusUnclosed Status = "unclosed"
)

// Fence is one fenced code block.
type Fence struct {
	Lang      string
	Meta      Meta
	StartLine int
	EndLine   int // closing fence line, 0 when the fence runs to the end
	Grammar   string
	Status    Status
}

// Parse returns every fenced code block of a Markdown document in order.
func Parse(source []byte) ([]*Fence, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var fences []*Fence

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		f, err := extractFence(fcb, source)
		if err != nil {
			return ast.WalkStop, err
		}

		fences = append(fences, f)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return fences, nil
}

// Audit parses source and sets Grammar and Status on every fence.
func Audit(source []byte, reg grammar.Registry) ([]*Fence, error) {
	fences, err := Parse(source)
	if err != nil {
		return nil, err
	}

	lines := strings.SplitAfter(string(source), "\n")

	for _, f := range fences {
		f.check(lines, reg)
	}

	return fences, nil
}

func (f *Fence) check(lines []string, reg grammar.Registry) {
	f.Status = StatusIgnored

	if f.StartLine < 1 || f.StartLine > len(lines) {
		return
	}

	g, ok := reg.Match(lines[f.StartLine-1])
	if !ok {
		return
	}

	f.Grammar = g.Label

	switch {
	case f.EndLine == 0:
		f.Status = StatusUnclosed
	case g.Finishes(lines[f.EndLine-1]):
		f.Status = StatusOK
	default:
		f.Status = StatusIndented
	}
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func extractFence(fcb *ast.FencedCodeBlock, source []byte) (*Fence, error) {
	f := &Fence{Meta: Meta{}}

	if fcb.Info != nil {
		lang, meta, err := ParseInfo(string(fcb.Info.Text(source)))
		if err != nil {
			return nil, err
		}

		f.Lang, f.Meta = lang, meta
	}

	f.StartLine, f.EndLine = extractLines(fcb, source)

	return f, nil
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, afterBody int

	lines := fcb.Lines()

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else if lines.Len() > 0 {
		startLine = lineAt(source, lines.At(0).Start) - 1
	}

	if lines.Len() > 0 {
		afterBody = lineAt(source, lines.At(lines.Len()-1).Stop-1) + 1
	} else if startLine > 0 {
		afterBody = startLine + 1
	}

	if isClosingFence(source, afterBody) {
		return startLine, afterBody
	}

	return startLine, 0
}

func isClosingFence(source []byte, line int) bool {
	if line < 1 {
		return false
	}

	all := strings.SplitAfter(string(source), "\n")
	if line > len(all) {
		return false
	}

	trimmed := strings.TrimLeft(all[line-1], " \t>")

	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}
