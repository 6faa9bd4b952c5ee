package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell is a table cell placed on the column grid
type Cell struct {
	Row     int
	Col     int
	Text    string
	RowSpan int
	ColSpan int
}

// Table is a grid of possibly spanning cells
type Table struct {
	Rows  int
	Cols  int
	Cells []*Cell
}

// layout holds the measured geometry of a table.
type layout struct {
	table *Table

	owner      [][]*Cell          // owner[row][col] = cell covering that grid slot
	colWidths  []int              // content width of each column
	rowHeights []int              // text lines of each row
	lines      map[*Cell][]string // cell text split by newlines
}

// Render draws the table with ASCII borders. Borders between slots of the
// same cell are left open.
func (t *Table) Render() string {
	return t.measure().draw()
}

func (t *Table) measure() *layout {
	l := &layout{
		table:      t,
		owner:      make([][]*Cell, t.Rows),
		colWidths:  make([]int, t.Cols),
		rowHeights: make([]int, t.Rows),
		lines:      make(map[*Cell][]string, len(t.Cells)),
	}

	for r := range l.owner {
		l.owner[r] = make([]*Cell, t.Cols)
	}

	for _, cell := range t.Cells {
		for r := cell.Row; r < cell.Row+cell.RowSpan && r < t.Rows; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan && c < t.Cols; c++ {
				l.owner[r][c] = cell
			}
		}
		l.lines[cell] = strings.Split(cell.Text, "\n")
	}

	l.measureColumns()
	l.measureRows()

	return l
}

func (l *layout) textWidth(cell *Cell) int {
	w := 0
	for _, line := range l.lines[cell] {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}

func (l *layout) measureColumns() {
	for c := range l.colWidths {
		l.colWidths[c] = 1
	}

	for _, cell := range l.table.Cells {
		if cell.ColSpan == 1 {
			if w := l.textWidth(cell); w > l.colWidths[cell.Col] {
				l.colWidths[cell.Col] = w
			}
		}
	}

	// spanning cells widen their columns evenly, leftmost first
	for _, cell := range l.table.Cells {
		if cell.ColSpan <= 1 {
			continue
		}

		// joined columns also absorb the " | " between them
		have := (cell.ColSpan - 1) * 3
		for c := cell.Col; c < cell.Col+cell.ColSpan; c++ {
			have += l.colWidths[c]
		}

		need := l.textWidth(cell) - have
		if need <= 0 {
			continue
		}
		for i := 0; i < cell.ColSpan; i++ {
			l.colWidths[cell.Col+i] += need / cell.ColSpan
			if i < need%cell.ColSpan {
				l.colWidths[cell.Col+i]++
			}
		}
	}
}

func (l *layout) measureRows() {
	for r := range l.rowHeights {
		l.rowHeights[r] = 1
	}
	for _, cell := range l.table.Cells {
		if n := len(l.lines[cell]); n > l.rowHeights[cell.Row] {
			l.rowHeights[cell.Row] = n
		}
	}
}

func (l *layout) draw() string {
	var sb strings.Builder

	l.drawBorder(&sb, -1)
	for r := 0; r < l.table.Rows; r++ {
		for line := 0; line < l.rowHeights[r]; line++ {
			l.drawContent(&sb, r, line)
		}
		l.drawBorder(&sb, r)
	}

	return sb.String()
}

// drawBorder draws the border below row r; r == -1 is the top border.
func (l *layout) drawBorder(sb *strings.Builder, r int) {
	outer := r == -1 || r == l.table.Rows-1

	sb.WriteString("+")
	for c := 0; c < l.table.Cols; c++ {
		fill := "-"
		if !outer && l.owner[r][c] == l.owner[r+1][c] {
			fill = " "
		}
		sb.WriteString(strings.Repeat(fill, l.colWidths[c]+2))

		if c == l.table.Cols-1 {
			break
		}
		if outer ||
			l.owner[r][c] != l.owner[r][c+1] ||
			l.owner[r+1][c] != l.owner[r+1][c+1] {
			sb.WriteString("+")
		} else {
			sb.WriteString("-")
		}
	}
	sb.WriteString("+\n")
}

// drawContent draws text line `line` of row r.
func (l *layout) drawContent(sb *strings.Builder, r, line int) {
	sb.WriteString("|")

	for c := 0; c < l.table.Cols; {
		cell := l.owner[r][c]
		if cell == nil || cell.Col != c {
			c++
			continue
		}

		width := (cell.ColSpan - 1) * 3
		for i := 0; i < cell.ColSpan; i++ {
			width += l.colWidths[c+i]
		}

		// spanned rows below the first stay blank
		text := ""
		if cell.Row == r && line < len(l.lines[cell]) {
			text = l.lines[cell][line]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(text, width))
		sb.WriteString(" ")

		c += cell.ColSpan
		if c < l.table.Cols {
			sb.WriteString("|")
		}
	}

	sb.WriteString("|\n")
}
