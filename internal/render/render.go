package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hanpama/docxtext/internal/document"
)

// Layout selects how tables are flattened to text.
type Layout string

const (
	// LayoutPipe writes one line per table row, cells joined by CellSeparator.
	LayoutPipe Layout = "pipe"
	// LayoutGrid draws each table as an ASCII box.
	LayoutGrid Layout = "grid"
)

// CellSeparator joins the cell texts of a row in the pipe layout.
const CellSeparator = " | "

// ParseLayout converts a layout name to a Layout.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(name)) {
	case LayoutPipe, "":
		return LayoutPipe, nil
	case LayoutGrid:
		return LayoutGrid, nil
	}
	return "", fmt.Errorf("unknown layout %q (want %q or %q)", name, LayoutPipe, LayoutGrid)
}

// Lines flattens a document: every paragraph text in document order, then
// every row of every table in document order with its cells joined by
// CellSeparator.
func Lines(doc *document.Document) []string {
	lines := make([]string, 0, len(doc.Paragraphs)+doc.RowCount())

	for _, p := range doc.Paragraphs {
		lines = append(lines, p.Text)
	}

	for _, t := range doc.Tables {
		for _, row := range t.Rows {
			lines = append(lines, strings.Join(row.Texts(), CellSeparator))
		}
	}

	return lines
}

// Join joins lines with "\n" and no trailing newline.
func Join(lines []string) string {
	return strings.Join(lines, "\n")
}

// Text renders the whole document in the given layout.
func Text(doc *document.Document, layout Layout) string {
	if layout != LayoutGrid {
		return Join(Lines(doc))
	}

	parts := make([]string, 0, len(doc.Paragraphs)+len(doc.Tables))
	for _, p := range doc.Paragraphs {
		parts = append(parts, p.Text)
	}
	for _, t := range doc.Tables {
		if len(t.Rows) == 0 {
			continue
		}
		parts = append(parts, strings.TrimSuffix(gridFromDocument(t).Render(), "\n"))
	}

	return Join(parts)
}

// RenderText writes the document to w in the given layout.
func RenderText(doc *document.Document, layout Layout, w io.Writer) error {
	_, err := io.WriteString(w, Text(doc, layout))
	return err
}

// gridFromDocument turns grid slots back into spanning cells. Slots sharing
// an owner become one cell covering their bounding box; empty grid columns
// and short rows are padded with empty cells.
func gridFromDocument(t *document.Table) *Table {
	cols := t.GridColumns()
	table := &Table{
		Rows:  len(t.Rows),
		Cols:  cols,
		Cells: make([]*Cell, 0, len(t.Rows)*cols),
	}

	type origin struct{ row, col int }
	owners := make(map[origin]*Cell)

	for r, row := range t.Rows {
		for c := 0; c < cols; c++ {
			slot, ok := row.CellAt(c)
			if !ok {
				slot = document.Cell{Row: r, Col: c}
			}

			key := origin{slot.Row, slot.Col}
			cell, found := owners[key]
			if !found {
				cell = &Cell{
					Row:     slot.Row,
					Col:     slot.Col,
					Text:    strings.TrimSpace(slot.Text),
					RowSpan: 1,
					ColSpan: 1,
				}
				owners[key] = cell
				table.Cells = append(table.Cells, cell)
			}
			if span := r - cell.Row + 1; span > cell.RowSpan {
				cell.RowSpan = span
			}
			if span := c - cell.Col + 1; span > cell.ColSpan {
				cell.ColSpan = span
			}
		}
	}

	return table
}
