package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/docxtext/internal/wordml/wordmltest"
)

func init() {
	color.NoColor = true
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--config", writeConfig(t, "")))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a docxcat.yaml so tests never pick up a user config.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docxcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "report.txt", defaultOutputPath("report.docx"))
	assert.Equal(t, filepath.Join("dir", "a.b.txt"), defaultOutputPath(filepath.Join("dir", "a.b.docx")))
	assert.Equal(t, "noext.txt", defaultOutputPath("noext"))
}

func TestExtractCommand(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("Hello")+wordmltest.Table([]string{"a", "", "b"}))

	stdout, _, err := execute(t, src)
	require.NoError(t, err)

	dst := defaultOutputPath(src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Hello\na |  | b", string(data))

	assert.Equal(t, "Extracted 1 paragraphs and 1 tables\n"+
		"Saved to: "+dst+"\n"+
		"\n--- First 5000 characters ---\n\n"+
		"Hello\na |  | b\n", stdout)
}

func TestExtractCommandExplicitOutputAndQuiet(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("Hello"))
	dst := filepath.Join(t.TempDir(), "custom.txt")

	stdout, _, err := execute(t, src, dst, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(data))
}

func TestExtractCommandPreviewFlag(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("abcdef"))

	stdout, _, err := execute(t, src, "--preview", "3", "-o", filepath.Join(t.TempDir(), "o.txt"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- First 3 characters ---\n\nabc\n")
}

func TestExtractCommandZeroPreviewUsesDefault(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("abcdef"))

	stdout, _, err := execute(t, src, "--preview", "0", "-o", filepath.Join(t.TempDir(), "o.txt"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- First 5000 characters ---\n\nabcdef\n")
}

func TestExtractCommandNegativePreview(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("abcdef"))
	dst := filepath.Join(t.TempDir(), "o.txt")

	stdout, _, err := execute(t, src, "--preview=-1", "-o", dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid preview length -1")
	assert.Empty(t, stdout)

	_, statErr := os.Stat(dst)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestExtractCommandConfigFile(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("p")+wordmltest.Table([]string{"a", "b"}))
	dst := filepath.Join(t.TempDir(), "grid.txt")
	cfg := writeConfig(t, "layout: grid\nquiet: true\n")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{src, dst, "--config", cfg})
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "p\n+---+---+\n| a | b |\n+---+---+", string(data))
}

func TestExtractCommandEnvironment(t *testing.T) {
	t.Setenv("DOCXCAT_ENCODING", "windows-1252")
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("café"))
	dst := filepath.Join(t.TempDir(), "latin.txt")

	_, _, err := execute(t, src, dst, "-q")
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, data)
}

func TestExtractCommandMissingFile(t *testing.T) {
	_, stderr, err := execute(t, filepath.Join(t.TempDir(), "missing.docx"))
	require.Error(t, err)
	assert.Contains(t, stderr, "missing.docx")
}

func TestExtractCommandRequiresDocument(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)
}

func TestExtractCommandInvalidLogLevel(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("x"))
	_, _, err := execute(t, src, "--log-level", "loud")
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	src := wordmltest.WriteFile(t,
		wordmltest.Paragraph("x")+
			wordmltest.Table([]string{"h1", "h2"}, []string{"1", "2"}, []string{"3", "4"}))

	stdout, _, err := execute(t, "inspect", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Paragraphs")
	assert.Contains(t, stdout, "h1 | h2")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "docxcat dev\n", stdout)
}
