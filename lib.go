// Package docxtext flattens Word (.docx) documents into plain text.
//
// Every body paragraph becomes one line, in document order, followed by one
// line per table row with the row's cell texts joined by " | ". The result
// is written to a text file and a short summary with a preview is printed.
//
// # Example Usage
//
//	res, err := docxtext.Extract(ctx, "report.docx", "report.txt", docxtext.Options{
//		Console: os.Stdout,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Lines)
//
// # Supported Formats
//
// WordprocessingML packages (.docx, .docm, .dotx, .dotm):
//   - Body paragraphs, including hyperlink runs, tabs and line breaks
//   - Body tables with horizontally and vertically merged cells
//   - Core properties (title, author, dates)
//
// Compound files (.doc, password-protected .docx) are recognized and
// rejected with ErrLegacyFormat or ErrEncrypted.
package docxtext

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/hanpama/docxtext/internal/document"
	"github.com/hanpama/docxtext/internal/olecf"
	"github.com/hanpama/docxtext/internal/render"
	"github.com/hanpama/docxtext/internal/wordml"
)

type (
	Document   = document.Document
	Paragraph  = document.Paragraph
	Table      = document.Table
	Row        = document.Row
	Cell       = document.Cell
	Properties = document.Properties
	Layout     = render.Layout
)

const (
	LayoutPipe = render.LayoutPipe
	LayoutGrid = render.LayoutGrid
)

var (
	ErrInvalidDocument = document.ErrInvalidDocument
	ErrEncrypted       = document.ErrEncrypted
	ErrLegacyFormat    = document.ErrLegacyFormat
)

// DefaultPreviewLength is the number of characters shown in the summary.
const DefaultPreviewLength = 5000

// Options controls Extract. The zero value writes UTF-8 pipe-layout text and
// prints nothing.
type Options struct {
	// Layout of table rows; LayoutPipe when empty.
	Layout Layout
	// Encoding is a WHATWG encoding label for the output file; UTF-8 when empty.
	Encoding string
	// PreviewLength caps the summary preview; DefaultPreviewLength when zero
	// or negative.
	PreviewLength int
	// Console receives the summary. Nil disables it.
	Console io.Writer
	// Logger receives debug and info events. Nil disables logging.
	Logger *zerolog.Logger
}

// Result describes a finished extraction.
type Result struct {
	Source      string
	Destination string
	Paragraphs  int
	Tables      int
	Rows        int
	Lines       int
	Text        string
	Bytes       int
}

// Open loads the document at path.
func Open(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return Read(file, info.Size())
}

// Read loads a document from a random-access reader of the given size.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	if olecf.IsCompoundFile(r) {
		return nil, olecf.Classify(r)
	}

	reader, err := wordml.Open(r, size)
	if err != nil {
		return nil, err
	}

	scanner, err := reader.NewContentScanner()
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	doc, err := document.Collect(scanner)
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	doc.Properties = reader.Properties()

	return doc, nil
}

// Text flattens doc in the given layout.
func Text(doc *Document, layout Layout) string {
	return render.Text(doc, layout)
}

// Lines returns the pipe-layout lines of doc: paragraphs first, then rows.
func Lines(doc *Document) []string {
	return render.Lines(doc)
}

// Join joins lines with "\n", without a trailing newline.
func Join(lines []string) string {
	return render.Join(lines)
}

// Extract loads src, writes its flattened text to dst (created or
// truncated) and prints a summary to opts.Console.
func Extract(ctx context.Context, src, dst string, opts Options) (*Result, error) {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("source", src).Logger()

	layout, err := render.ParseLayout(string(opts.Layout))
	if err != nil {
		return nil, err
	}

	logger.Debug().Msg("loading document")
	doc, err := Open(src)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("paragraphs", len(doc.Paragraphs)).
		Int("tables", len(doc.Tables)).
		Int("rows", doc.RowCount()).
		Msg("document loaded")

	text := render.Text(doc, layout)

	data, err := Encode(text, opts.Encoding)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info().Str("destination", dst).Int("bytes", len(data)).Msg("text written")

	res := &Result{
		Source:      src,
		Destination: dst,
		Paragraphs:  len(doc.Paragraphs),
		Tables:      len(doc.Tables),
		Rows:        doc.RowCount(),
		Lines:       lineCount(text),
		Text:        text,
		Bytes:       len(data),
	}

	if opts.Console != nil {
		if err := WriteSummary(opts.Console, res, opts.PreviewLength); err != nil {
			return res, fmt.Errorf("failed to print summary: %w", err)
		}
	}

	return res, nil
}

// Encode converts UTF-8 text to the named output encoding.
func Encode(text, name string) ([]byte, error) {
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return []byte(text), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", name, err)
	}

	out, err := enc.NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output as %s: %w", name, err)
	}

	return []byte(out), nil
}

// Preview returns the first n characters of text.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

// WriteSummary prints the extraction counts, destination and a preview of
// the first previewLength characters. A previewLength below 1 selects
// DefaultPreviewLength.
func WriteSummary(w io.Writer, res *Result, previewLength int) error {
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}

	heading := color.New(color.FgCyan, color.Bold)

	if _, err := fmt.Fprintf(w, "Extracted %d paragraphs and %d tables\n", res.Paragraphs, res.Tables); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Saved to: %s\n", res.Destination); err != nil {
		return err
	}
	if _, err := heading.Fprintf(w, "\n--- First %d characters ---\n\n", previewLength); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Preview(res.Text, previewLength))
	return err
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
