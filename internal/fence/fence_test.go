package fence_test

import (
	"testing"

	"github.com/ezerfernandes/blockfmt/internal/fence"
	"github.com/ezerfernandes/blockfmt/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "# Title\n" +
	"\n" +
	"```hcl title=\"main.tf\"\n" +
	"a = 1\n" +
	"```\n" +
	"\n" +
	"- item\n" +
	"\n" +
	"  ```hcl\n" +
	"  b = 2\n" +
	"  ```\n" +
	"\n" +
	"```go\n" +
	"package main\n" +
	"```\n" +
	"\n" +
	"```hcl\n" +
	"c = 3\n"

func TestAudit(t *testing.T) {
	t.Parallel()

	fences, err := fence.Audit([]byte(doc), grammar.Builtin(""))
	require.NoError(t, err)
	require.Len(t, fences, 4)

	assert.Equal(t, "hcl", fences[0].Lang)
	assert.Equal(t, "main.tf", fences[0].Meta.Get("title"))
	assert.Equal(t, 3, fences[0].StartLine)
	assert.Equal(t, 5, fences[0].EndLine)
	assert.Equal(t, grammar.LabelMarkdown, fences[0].Grammar)
	assert.Equal(t, fence.StatusOK, fences[0].Status)

	assert.Equal(t, 9, fences[1].StartLine)
	assert.Equal(t, 11, fences[1].EndLine)
	assert.Equal(t, fence.StatusIndented, fences[1].Status)

	assert.Equal(t, "go", fences[2].Lang)
	assert.Equal(t, fence.StatusIgnored, fences[2].Status)
	assert.Empty(t, fences[2].Grammar)

	assert.Equal(t, 17, fences[3].StartLine)
	assert.Zero(t, fences[3].EndLine)
	assert.Equal(t, fence.StatusUnclosed, fences[3].Status)
}

func TestParseInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		lang string
		meta fence.Meta
	}{
		{"hcl", "hcl", fence.Meta{}},
		{"  hcl  ", "hcl", fence.Meta{}},
		{`hcl title="a b.tf" skip`, "hcl", fence.Meta{"title": "a b.tf"}},
		{`hcl {title=main.tf}`, "hcl", fence.Meta{"title": "main.tf"}},
		{`hcl {"count": 2}`, "hcl", fence.Meta{"count": float64(2)}},
		{"", "", fence.Meta{}},
	}

	for _, tt := range tests {
		lang, meta, err := fence.ParseInfo(tt.info)
		require.NoError(t, err, tt.info)
		assert.Equal(t, tt.lang, lang, tt.info)
		assert.Equal(t, tt.meta, meta, tt.info)
	}

	_, _, err := fence.ParseInfo(`hcl title="unterminated`)
	require.Error(t, err)
}

func TestMetaString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a=1 b=x", fence.Meta{"b": "x", "a": 1}.String())
	assert.Equal(t, "", fence.Meta(nil).Get("a"))
}
