package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spacing = `sed "s/=/ = /"`

type result struct {
	code   int
	stdout string
	stderr string
}

// blockfmt runs the command line hermetically: an empty configuration file
// keeps discovery from picking up a stray .blockfmt.toml.
func blockfmt(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "blockfmt.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o644))

	var stdout, stderr bytes.Buffer

	args = append([]string{"--config", cfg, "--color", "off"}, args...)
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

const readme = "# Usage\n" +
	"\n" +
	"```hcl\n" +
	"name=\"x\"\n" +
	"```\n"

func TestLintStdin(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "lint", "-f", spacing)

	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Replace(readme, "name=", "name = ", 1), res.stdout)
}

func TestDefaultIsLint(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "-f", "cat")

	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, readme, res.stdout)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "diff", "-f", spacing)

	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stdout, "STDIN@3: block #1\n")
	assert.Contains(t, res.stdout, "-name=\"x\"\n")
	assert.Contains(t, res.stdout, "+name = \"x\"\n")
	assert.NotContains(t, res.stdout, "# Usage")
	assert.Contains(t, res.stderr, "1 block(s) not formatted")
}

func TestDiffClean(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "diff", "-f", "cat")

	assert.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}

func TestFmtFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	fixture := "package provider\n" +
		"\n" +
		"func testConfig() string {\n" +
		"\treturn fmt.Sprintf(`\n" +
		"a=1\n" +
		"`, 1)\n" +
		"}\n"

	files := map[string]string{
		filepath.Join(dir, "README.md"):           readme,
		filepath.Join(docs, "guide.md"):           "nothing to see\n",
		filepath.Join(dir, "resource_test.go"):    fixture,
		filepath.Join(dir, "resource.go"):         fixture,
		filepath.Join(dir, "vendor", "vendor.md"): readme,
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0o755))

	for path, content := range files {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	res := blockfmt(t, "", "fmt", "-f", spacing, "--jobs", "3", dir)
	require.Equal(t, 0, res.code, res.stderr)

	read := func(path string) string {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		return string(data)
	}

	assert.Equal(t, strings.Replace(readme, "name=", "name = ", 1), read(filepath.Join(dir, "README.md")))
	assert.Equal(t, strings.Replace(fixture, "a=1", "a = 1", 1), read(filepath.Join(dir, "resource_test.go")))
	assert.Equal(t, fixture, read(filepath.Join(dir, "resource.go")))
	assert.Equal(t, readme, read(filepath.Join(dir, "vendor", "vendor.md")))

	assert.Equal(t, filepath.Join(dir, "README.md")+": formatted 1 of 1 blocks\n"+
		filepath.Join(docs, "guide.md")+": no blocks found!\n"+
		filepath.Join(dir, "resource_test.go")+": formatted 1 of 1 blocks\n", res.stderr)
}

func TestFmtStdin(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "fmt", "-q", "-f", spacing)

	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Replace(readme, "name=", "name = ", 1), res.stdout)
	assert.Empty(t, res.stderr)
}

func TestFormatterFailure(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "lint", "--shell", "-f", "echo 'Error: bad block' >&2; exit 1")

	assert.Equal(t, exitFindings, res.code)
	assert.Equal(t, readme, res.stdout)
	assert.Contains(t, res.stderr, "STDIN@3 Error: bad block\n")
	assert.Contains(t, res.stderr, "1 block(s) failed")
}

func TestMalformedBlock(t *testing.T) {
	t.Parallel()

	input := "intro\n```hcl\na=1\n"
	res := blockfmt(t, input, "lint", "-f", "cat")

	assert.Equal(t, exitFindings, res.code)
	assert.Equal(t, input, res.stdout)
	assert.Contains(t, res.stderr, "STDIN@2 MALFORMED BLOCK: `"+"```hcl` missing `"+"```` (markdown)")
}

func TestFatalErrors(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"launch":  {"lint", "-f", "blockfmt-no-such-formatter -"},
		"missing": {"lint", "-f", "cat", filepath.Join(t.TempDir(), "missing.md")},
		"color":   {"lint", "--color", "rainbow"},
		"jobs":    {"lint", "--jobs", "0"},
		"config":  {"lint", "--config", filepath.Join(t.TempDir(), "none.toml")},
	}

	for name, args := range tests {
		res := blockfmt(t, readme, args...)

		assert.Equal(t, exitFatal, res.code, name)
		assert.Contains(t, res.stderr, "error: ", name)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	res := blockfmt(t, readme, "diff", "--stats", "-f", spacing)

	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stderr, "File")
	assert.Contains(t, res.stderr, "Differing")
	assert.Contains(t, res.stderr, "STDIN")
}

func TestFences(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "README.md")
	doc := readme + "\n- step\n\n  ```hcl\n  b = 2\n  ```\n\n```go\nx := 1\n```\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	res := blockfmt(t, "", "fences", path)

	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stdout, "ok")
	assert.Contains(t, res.stdout, "indented-close")
	assert.NotContains(t, res.stdout, "go ")
	assert.Contains(t, res.stderr, "1 fence(s) will not be closed")

	res = blockfmt(t, "", "fences", "--all", "--fence-lang", "go", path)

	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ignored")
	assert.NotContains(t, res.stdout, "indented-close")
}
