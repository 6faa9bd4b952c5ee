package docxtext

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/docxtext/internal/olecf/olecftest"
	"github.com/hanpama/docxtext/internal/wordml/wordmltest"
)

func init() {
	color.NoColor = true
}

func TestExtractWritesParagraphsThenRows(t *testing.T) {
	src := wordmltest.WriteFile(t,
		wordmltest.Paragraph("Title")+
			wordmltest.Table([]string{"h1", "h2", "h3"}, []string{"a", "", "b"})+
			wordmltest.Paragraph("")+
			wordmltest.Table([]string{"second"})+
			wordmltest.Paragraph("Closing"))
	dst := filepath.Join(t.TempDir(), "out.txt")

	res, err := Extract(context.Background(), src, dst, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)

	want := "Title\n\nClosing\nh1 | h2 | h3\na |  | b\nsecond"
	assert.Equal(t, want, string(data))
	assert.Equal(t, want, res.Text)
	assert.Equal(t, 3, res.Paragraphs)
	assert.Equal(t, 2, res.Tables)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, res.Paragraphs+res.Rows, res.Lines)
	assert.Equal(t, len(want), res.Bytes)
}

func TestExtractIsIdempotent(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("x")+wordmltest.Table([]string{"1", "2"}))
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")

	_, err := Extract(context.Background(), src, first, Options{})
	require.NoError(t, err)
	_, err = Extract(context.Background(), src, second, Options{})
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtractOverwritesDestination(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("short"))
	dst := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(dst, []byte("a much longer previous content"), 0o644))

	_, err := Extract(context.Background(), src, dst, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestExtractEmptyDocument(t *testing.T) {
	src := wordmltest.WriteFile(t, `<w:sectPr/>`)
	dst := filepath.Join(t.TempDir(), "out.txt")
	var console bytes.Buffer

	res, err := Extract(context.Background(), src, dst, Options{Console: &console})
	require.NoError(t, err)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Zero(t, res.Lines)

	assert.Equal(t, "Extracted 0 paragraphs and 0 tables\n"+
		"Saved to: "+dst+"\n"+
		"\n--- First 5000 characters ---\n\n"+
		"\n", console.String())
}

func TestExtractSummaryPreviewIsTruncated(t *testing.T) {
	long := strings.Repeat("é", 6000)
	src := wordmltest.WriteFile(t, wordmltest.Paragraph(long))
	dst := filepath.Join(t.TempDir(), "out.txt")
	var console bytes.Buffer

	_, err := Extract(context.Background(), src, dst, Options{Console: &console})
	require.NoError(t, err)

	out := console.String()
	header := "Extracted 1 paragraphs and 0 tables\nSaved to: " + dst + "\n\n--- First 5000 characters ---\n\n"
	require.True(t, strings.HasPrefix(out, header))
	assert.Equal(t, strings.Repeat("é", 5000)+"\n", strings.TrimPrefix(out, header))
}

func TestExtractMissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := Extract(context.Background(), filepath.Join(dir, "missing.docx"), filepath.Join(dir, "out.txt"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(filepath.Join(dir, "out.txt"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestExtractInvalidSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(src, []byte("just some text"), 0o644))

	_, err := Extract(context.Background(), src, filepath.Join(dir, "out.txt"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestReadCompoundFiles(t *testing.T) {
	tests := []struct {
		name    string
		streams []string
		want    error
	}{
		{"password protected", []string{"EncryptionInfo", "EncryptedPackage"}, ErrEncrypted},
		{"word 97-2003", []string{"WordDocument", "1Table"}, ErrLegacyFormat},
		{"excel workbook", []string{"Workbook"}, ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := olecftest.Build(tt.streams...)

			doc, err := Read(bytes.NewReader(data), int64(len(data)))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractEncryptedSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "locked.docx")
	require.NoError(t, os.WriteFile(src, olecftest.Build("EncryptionInfo", "EncryptedPackage"), 0o644))

	_, err := Extract(context.Background(), src, filepath.Join(dir, "out.txt"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncrypted)
}

func TestExtractRowsSkipEmptyGridColumns(t *testing.T) {
	src := wordmltest.WriteFile(t, `<w:tbl>
  <w:tr>`+
		`<w:tc>`+wordmltest.Paragraph("h1")+`</w:tc><w:tc>`+wordmltest.Paragraph("h2")+`</w:tc><w:tc>`+wordmltest.Paragraph("h3")+`</w:tc>
  </w:tr>
  <w:tr>
    <w:trPr><w:gridBefore w:val="1"/></w:trPr>`+
		`<w:tc>`+wordmltest.Paragraph("a")+`</w:tc><w:tc>`+wordmltest.Paragraph("b")+`</w:tc>
  </w:tr>
</w:tbl>`)
	dst := filepath.Join(t.TempDir(), "out.txt")

	res, err := Extract(context.Background(), src, dst, Options{})
	require.NoError(t, err)
	assert.Equal(t, "h1 | h2 | h3\na | b", res.Text)
}

func TestWriteSummaryDefaultsPreviewLength(t *testing.T) {
	res := &Result{Paragraphs: 1, Destination: "out.txt", Text: "abc"}

	for _, n := range []int{0, -1} {
		var buf bytes.Buffer
		require.NoError(t, WriteSummary(&buf, res, n))
		assert.Contains(t, buf.String(), "--- First 5000 characters ---\n\nabc\n")
	}
}

func TestExtractUnwritableDestination(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("x"))
	dst := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")

	_, err := Extract(context.Background(), src, dst, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractCanceledContext(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("x"))
	dst := filepath.Join(t.TempDir(), "out.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, src, dst, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractGridLayout(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("p")+wordmltest.Table([]string{"a", "b"}))
	dst := filepath.Join(t.TempDir(), "out.txt")

	res, err := Extract(context.Background(), src, dst, Options{Layout: LayoutGrid})
	require.NoError(t, err)
	assert.Equal(t, "p\n+---+---+\n| a | b |\n+---+---+", res.Text)
}

func TestExtractUnknownLayout(t *testing.T) {
	src := wordmltest.WriteFile(t, wordmltest.Paragraph("p"))
	_, err := Extract(context.Background(), src, filepath.Join(t.TempDir(), "out.txt"), Options{Layout: "html"})
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	data, err := Encode("café", "")
	require.NoError(t, err)
	assert.Equal(t, []byte("café"), data)

	data, err = Encode("café", "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, data)

	_, err = Encode("日本", "iso-8859-1")
	assert.Error(t, err)

	_, err = Encode("x", "no-such-charset")
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview("abc", 0))
	assert.Equal(t, "ab", Preview("abc", 2))
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "日本", Preview("日本語", 2))
}

func TestReadProperties(t *testing.T) {
	core := `<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Spec</dc:title>
</cp:coreProperties>`
	data := wordmltest.Parts(t,
		[2]string{"[Content_Types].xml", wordmltest.ContentTypes},
		[2]string{"_rels/.rels", wordmltest.Rels},
		[2]string{"word/document.xml", wordmltest.Document(wordmltest.Paragraph("x"))},
		[2]string{"docProps/core.xml", core},
	)

	doc, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, "Spec", doc.Properties.Title)
	assert.Equal(t, []string{"x"}, Lines(doc))
}
