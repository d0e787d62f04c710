package grammar_test

import (
	"testing"

	"github.com/ezerfernandes/blockfmt/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	reg := grammar.Builtin("")

	tests := []struct {
		line  string
		label string
		ok    bool
	}{
		{"```hcl\n", grammar.LabelMarkdown, true},
		{"   ```hcl  \n", grammar.LabelMarkdown, true},
		{"```go\n", "", false},
		{"\treturn fmt.Sprintf(`\n", grammar.LabelAcctest, true},
		{"return fmt.Sprintf(\"%s\", x)\n", "", false},
		{"plain text\n", "", false},
	}

	for _, tt := range tests {
		g, ok := reg.Match(tt.line)

		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.label, g.Label, tt.line)
	}
}

func TestFinishIsNotTrimmed(t *testing.T) {
	t.Parallel()

	md := grammar.Markdown("hcl")

	assert.True(t, md.Finishes("```\n"))
	assert.False(t, md.Finishes("  ```\n"))
	assert.True(t, grammar.Acctest.Finishes("`, name)\n"))
	assert.False(t, grammar.Acctest.Finishes("\t`, name)\n"))
}

func TestRegistryOrderBreaksTies(t *testing.T) {
	t.Parallel()

	reg, err := grammar.Builtin("hcl").With(grammar.Grammar{Start: "```", Finish: "```", Label: "any"})
	require.NoError(t, err)

	g, ok := reg.Match("```hcl\n")
	require.True(t, ok)
	assert.Equal(t, grammar.LabelMarkdown, g.Label)

	g, ok = reg.Match("```sh\n")
	require.True(t, ok)
	assert.Equal(t, "any", g.Label)
}

func TestWithRejectsEmptyMarkers(t *testing.T) {
	t.Parallel()

	_, err := grammar.Builtin("").With(grammar.Grammar{Start: " ", Finish: "x", Label: "bad"})
	require.Error(t, err)

	_, err = grammar.Builtin("").With(grammar.Grammar{Start: "x", Label: "bad"})
	require.Error(t, err)
}

func TestBuiltinLang(t *testing.T) {
	t.Parallel()

	reg := grammar.Builtin("terraform")

	_, ok := reg.Match("```terraform\n")
	assert.True(t, ok)
	assert.Len(t, reg, 2)
}
