package wordml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/hanpama/docxtext/internal/document"
)

// ContentScanner walks the w:body of a main document part and emits its
// direct paragraphs and tables in document order. Content wrapped in other
// containers (w:sdt, w:customXml) is skipped.
type ContentScanner struct {
	decoder *xml.Decoder
	closer  io.Closer
	inBody  bool
	done    bool
}

// NewContentScanner creates a new ContentScanner from a document part reader
func NewContentScanner(r io.ReadCloser) *ContentScanner {
	return &ContentScanner{
		decoder: newDecoder(r),
		closer:  r,
	}
}

// Next returns the next body-level content node, or io.EOF after w:body
func (s *ContentScanner) Next() (document.ContentNode, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		token, err := s.decoder.Token()
		if err == io.EOF {
			if !s.inBody {
				return nil, fmt.Errorf("%w: w:body not found", document.ErrInvalidDocument)
			}
			return nil, fmt.Errorf("XML parse error: %w", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, fmt.Errorf("XML parse error: %w", err)
		}

		switch elem := token.(type) {
		case xml.StartElement:
			if !s.inBody {
				if elem.Name.Local == "body" {
					s.inBody = true
				}
				continue
			}

			switch elem.Name.Local {
			case "p":
				return s.parseParagraph()
			case "tbl":
				return s.parseTable()
			default:
				if err := s.decoder.Skip(); err != nil {
					return nil, fmt.Errorf("XML parse error: %w", err)
				}
			}

		case xml.EndElement:
			if s.inBody && elem.Name.Local == "body" {
				s.done = true
				return nil, io.EOF
			}
		}
	}
}

// Close closes the underlying reader
func (s *ContentScanner) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// parseParagraph consumes a <w:p> whose start tag was just read
func (s *ContentScanner) parseParagraph() (*document.Paragraph, error) {
	var sb strings.Builder

	err := s.eachChild(func(elem xml.StartElement) error {
		switch elem.Name.Local {
		case "r":
			return s.readRun(&sb)
		case "hyperlink":
			return s.eachChild(func(child xml.StartElement) error {
				if child.Name.Local == "r" {
					return s.readRun(&sb)
				}
				return s.decoder.Skip()
			})
		}
		return s.decoder.Skip()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode paragraph: %w", err)
	}

	return &document.Paragraph{
		Text: sb.String(),
	}, nil
}

// readRun appends the text of a <w:r> to sb
func (s *ContentScanner) readRun(sb *strings.Builder) error {
	return s.eachChild(func(elem xml.StartElement) error {
		switch elem.Name.Local {
		case "t":
			var text string
			if err := s.decoder.DecodeElement(&text, &elem); err != nil {
				return err
			}
			sb.WriteString(text)
			return nil
		case "tab", "ptab":
			sb.WriteString("\t")
		case "br":
			switch attr(elem, "type") {
			case "", "textWrapping":
				sb.WriteString("\n")
			}
		case "cr":
			sb.WriteString("\n")
		case "noBreakHyphen":
			sb.WriteString("-")
		}
		return s.decoder.Skip()
	})
}

// rawRow is a <w:tr> before merged cells are resolved
type rawRow struct {
	gridBefore int
	gridAfter  int
	cells      []rawCell
}

type rawCell struct {
	text     string
	gridSpan int
	vMerge   string
}

// parseTable consumes a <w:tbl> whose start tag was just read
func (s *ContentScanner) parseTable() (*document.Table, error) {
	var rows []rawRow

	err := s.eachChild(func(elem xml.StartElement) error {
		if elem.Name.Local != "tr" {
			return s.decoder.Skip()
		}
		row, err := s.parseRow()
		if err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decode table: %w", err)
	}

	return resolveTable(rows), nil
}

func (s *ContentScanner) parseRow() (rawRow, error) {
	var row rawRow

	err := s.eachChild(func(elem xml.StartElement) error {
		switch elem.Name.Local {
		case "trPr":
			return s.eachChild(func(prop xml.StartElement) error {
				switch prop.Name.Local {
				case "gridBefore":
					row.gridBefore = intAttr(prop, "val")
				case "gridAfter":
					row.gridAfter = intAttr(prop, "val")
				}
				return s.decoder.Skip()
			})
		case "tc":
			cell, err := s.parseCell()
			if err != nil {
				return err
			}
			row.cells = append(row.cells, cell)
			return nil
		}
		return s.decoder.Skip()
	})

	return row, err
}

func (s *ContentScanner) parseCell() (rawCell, error) {
	cell := rawCell{gridSpan: 1}
	var textParts []string

	err := s.eachChild(func(elem xml.StartElement) error {
		switch elem.Name.Local {
		case "tcPr":
			return s.eachChild(func(prop xml.StartElement) error {
				switch prop.Name.Local {
				case "gridSpan":
					if span := intAttr(prop, "val"); span > 1 {
						cell.gridSpan = span
					}
				case "vMerge":
					cell.vMerge = attr(prop, "val")
					if cell.vMerge == "" {
						cell.vMerge = "continue"
					}
				}
				return s.decoder.Skip()
			})
		case "p":
			para, err := s.parseParagraph()
			if err != nil {
				return err
			}
			textParts = append(textParts, para.Text)
			return nil
		}
		return s.decoder.Skip()
	})

	cell.text = strings.Join(textParts, "\n")
	return cell, err
}

// resolveTable lays raw rows out on the column grid. A spanned cell fills
// every grid column it covers and a vertical merge continuation takes the
// owner of the slot above it. Grid columns skipped with gridBefore and
// gridAfter hold no cell.
func resolveTable(rawRows []rawRow) *document.Table {
	table := &document.Table{
		Rows: make([]document.Row, 0, len(rawRows)),
	}

	for r, raw := range rawRows {
		row := document.Row{
			Cells:      make([]document.Cell, 0, len(raw.cells)),
			GridBefore: raw.gridBefore,
			GridAfter:  raw.gridAfter,
		}
		col := raw.gridBefore

		for _, rc := range raw.cells {
			owner := document.Cell{Row: r, Col: col, Text: rc.text}
			if rc.vMerge == "continue" && r > 0 {
				if above, ok := table.Rows[r-1].CellAt(col); ok {
					owner = above
				}
			}
			for i := 0; i < rc.gridSpan; i++ {
				row.Cells = append(row.Cells, owner)
			}
			col += rc.gridSpan
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// eachChild calls fn for every child element of the element whose start
// tag was just read, returning after its end tag. fn must consume the
// child completely.
func (s *ContentScanner) eachChild(fn func(xml.StartElement) error) error {
	for {
		token, err := s.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}

		switch elem := token.(type) {
		case xml.StartElement:
			if err := fn(elem); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// newDecoder returns an XML decoder that also accepts parts declared in a
// legacy charset (encoding="windows-1252" and the like).
func newDecoder(r io.Reader) *xml.Decoder {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel
	return decoder
}

func attr(elem xml.StartElement, local string) string {
	for _, a := range elem.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func intAttr(elem xml.StartElement, local string) int {
	n, err := strconv.Atoi(attr(elem, local))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
