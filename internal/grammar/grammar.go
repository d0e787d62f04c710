// Package grammar holds the block pairs the extractor recognizes.
//
// A grammar opens on a line whose trimmed text begins with its start marker and
// closes on a line whose raw, untrimmed text begins with its finish marker.
// Closing fences are therefore only recognized when they are flush-left.
package grammar

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LabelMarkdown labels fenced code blocks in documentation.
	LabelMarkdown = "markdown"
	// LabelAcctest labels raw-string fixtures returned from fmt.Sprintf.
	LabelAcctest = "acctest"

	// DefaultLang is the fence tag of the built-in markdown grammar.
	DefaultLang = "hcl"
)

// Grammar is one kind of embedded block.
type Grammar struct {
	Start  string
	Finish string
	Label  string
}

// Starts reports whether line opens a block of this grammar.
func (g Grammar) Starts(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), g.Start)
}

// Finishes reports whether line closes a block of this grammar.
func (g Grammar) Finishes(line string) bool {
	return strings.HasPrefix(line, g.Finish)
}

// Validate checks that both markers are present.
func (g Grammar) Validate() error {
	if len(strings.TrimSpace(g.Start)) == 0 {
		return fmt.Errorf("grammar %q: %w", g.Label, errEmptyStart)
	}

	if len(g.Finish) == 0 {
		return fmt.Errorf("grammar %q: %w", g.Label, errEmptyFinish)
	}

	return nil
}

func (g Grammar) String() string {
	return fmt.Sprintf("%s (%s ... %s)", g.Label, g.Start, g.Finish)
}

// Markdown returns the documentation fence grammar for the given tag.
func Markdown(lang string) Grammar {
	return Grammar{Start: "```" + lang, Finish: "```", Label: LabelMarkdown}
}

// Acctest is the acceptance test fixture grammar.
var Acctest = Grammar{Start: "return fmt.Sprintf(`", Finish: "`,", Label: LabelAcctest}

// Registry is an ordered list of grammars; earlier entries win ties.
type Registry []Grammar

// Builtin returns the built-in registry using lang as the markdown fence tag.
func Builtin(lang string) Registry {
	if len(lang) == 0 {
		lang = DefaultLang
	}

	return Registry{Markdown(lang), Acctest}
}

// With returns a copy of r with extra appended after the existing entries.
func (r Registry) With(extra ...Grammar) (Registry, error) {
	res := make(Registry, 0, len(r)+len(extra))
	res = append(res, r...)

	for _, g := range extra {
		if err := g.Validate(); err != nil {
			return nil, err
		}

		res = append(res, g)
	}

	return res, nil
}

// Match returns the first grammar whose start condition holds for line.
func (r Registry) Match(line string) (Grammar, bool) {
	for _, g := range r {
		if g.Starts(line) {
			return g, true
		}
	}

	return Grammar{}, false
}

var (
	errEmptyStart  = errors.New("empty start marker")
	errEmptyFinish = errors.New("empty finish marker")
)
