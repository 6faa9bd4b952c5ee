package document

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidDocument reports a source that is not a readable Word document.
	ErrInvalidDocument = errors.New("not a valid Word document")
	// ErrEncrypted reports a password-protected document.
	ErrEncrypted = errors.New("password encrypted documents are not supported")
	// ErrLegacyFormat reports a Word 97-2003 binary (.doc) document.
	ErrLegacyFormat = errors.New("legacy binary .doc documents are not supported")
)

// ContentNode is the interface for body-level document content
type ContentNode interface {
	IsContent()
}

// Paragraph represents a body paragraph with its run text
type Paragraph struct {
	Text string
}

func (p *Paragraph) IsContent() {}

// Table represents a body table as rows of grid cells
type Table struct {
	Rows []Row
}

func (t *Table) IsContent() {}

// MaxCells returns the largest number of cells in a row.
func (t *Table) MaxCells() int {
	n := 0
	for _, row := range t.Rows {
		if len(row.Cells) > n {
			n = len(row.Cells)
		}
	}
	return n
}

// GridColumns returns the width of the layout grid: the widest row counting
// its leading and trailing empty grid columns.
func (t *Table) GridColumns() int {
	n := 0
	for _, row := range t.Rows {
		if w := row.GridBefore + len(row.Cells) + row.GridAfter; w > n {
			n = w
		}
	}
	return n
}

// Row is one table row with one entry per grid column covered by a cell.
//
// GridBefore and GridAfter count the grid columns left empty before the
// first and after the last cell (w:gridBefore, w:gridAfter). They are not
// part of Cells, so Cells[i] sits at grid column GridBefore+i.
type Row struct {
	Cells      []Cell
	GridBefore int
	GridAfter  int
}

// CellAt returns the cell covering grid column col.
func (r Row) CellAt(col int) (Cell, bool) {
	i := col - r.GridBefore
	if i < 0 || i >= len(r.Cells) {
		return Cell{}, false
	}
	return r.Cells[i], true
}

// Texts returns the cell texts of the row in grid order.
func (r Row) Texts() []string {
	texts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		texts[i] = c.Text
	}
	return texts
}

// Cell is a grid slot of a table row.
//
// Row and Col locate the w:tc that owns the slot. Slots covered by a
// horizontally or vertically merged cell repeat the owner's text and
// coordinates.
type Cell struct {
	Row  int
	Col  int
	Text string
}

// Properties holds the package core properties (docProps/core.xml)
type Properties struct {
	Title          string
	Subject        string
	Creator        string
	LastModifiedBy string
	Created        string
	Modified       string
}

// Document is a fully loaded Word document body
type Document struct {
	Paragraphs []*Paragraph
	Tables     []*Table
	Properties Properties
}

// RowCount returns the number of rows across all tables.
func (d *Document) RowCount() int {
	n := 0
	for _, t := range d.Tables {
		n += len(t.Rows)
	}
	return n
}

type ContentNodeScanner interface {
	Next() (ContentNode, error)
}

// Collect drains a scanner into a Document, keeping paragraphs and tables
// in their own document order.
func Collect(scanner ContentNodeScanner) (*Document, error) {
	doc := &Document{
		Paragraphs: make([]*Paragraph, 0),
		Tables:     make([]*Table, 0),
	}

	for {
		node, err := scanner.Next()
		if err != nil {
			if err == io.EOF {
				return doc, nil
			}
			return nil, fmt.Errorf("error reading content: %w", err)
		}

		switch n := node.(type) {
		case *Paragraph:
			doc.Paragraphs = append(doc.Paragraphs, n)
		case *Table:
			doc.Tables = append(doc.Tables, n)
		}
	}
}
