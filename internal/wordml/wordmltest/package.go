// Package wordmltest builds minimal WordprocessingML packages for tests.
package wordmltest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const (
	ContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	Rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
)

// Document wraps body content in a w:document part.
func Document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>` + body + `</w:body>
</w:document>`
}

// Parts zips the named parts, in the order given.
func Parts(t testing.TB, parts ...[2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p[0])
		if err != nil {
			t.Fatalf("failed to create %s: %v", p[0], err)
		}
		if _, err := w.Write([]byte(p[1])); err != nil {
			t.Fatalf("failed to write %s: %v", p[0], err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// Build returns a .docx package whose body holds the given content.
func Build(t testing.TB, body string) []byte {
	t.Helper()

	return Parts(t,
		[2]string{"[Content_Types].xml", ContentTypes},
		[2]string{"_rels/.rels", Rels},
		[2]string{"word/document.xml", Document(body)},
	)
}

// WriteFile writes a .docx package built from body into a temp directory
// and returns its path.
func WriteFile(t testing.TB, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	if err := os.WriteFile(path, Build(t, body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Paragraph returns a w:p with a single run holding text.
func Paragraph(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

// Table returns a w:tbl with one w:tc per string, each holding a paragraph.
func Table(rows ...[]string) string {
	var buf bytes.Buffer
	buf.WriteString(`<w:tbl><w:tblPr/><w:tblGrid/>`)
	for _, row := range rows {
		buf.WriteString(`<w:tr>`)
		for _, cell := range row {
			buf.WriteString(`<w:tc><w:tcPr/>` + Paragraph(cell) + `</w:tc>`)
		}
		buf.WriteString(`</w:tr>`)
	}
	buf.WriteString(`</w:tbl>`)
	return buf.String()
}
