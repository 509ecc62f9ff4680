package docx

import (
	"strings"

	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/core/errors"
)

// VerticalAlignment is a table-cell vertical alignment value.
type VerticalAlignment string

// Cell vertical alignment values, matching w:vAlign.
const (
	VAlignTop    VerticalAlignment = "top"
	VAlignCenter VerticalAlignment = "center"
	VAlignBottom VerticalAlignment = "bottom"
)

// ParseVerticalAlignment maps a case-insensitive name to a VerticalAlignment.
func ParseVerticalAlignment(s string) (VerticalAlignment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return VAlignTop, true
	case "center", "centre":
		return VAlignCenter, true
	case "bottom":
		return VAlignBottom, true
	}
	return "", false
}

// TableBorders describes a uniform border applied to every edge of a table.
// Size is in eighth-points, the unit of w:sz on border elements.
type TableBorders struct {
	Size  int
	Color string // RRGGBB hex, no leading '#'
}

// Cell is one grid position owning a paragraph sequence.
type Cell struct {
	paragraphs []*Paragraph

	Shading string            // RRGGBB fill, empty for none
	VAlign  VerticalAlignment // empty for inherited
	Width   units.Length      // zero for automatic

	// Merge bookkeeping: the origin cell of a merged region carries the
	// span; continuation cells remain in the grid flagged as merged away.
	ColSpan int
	RowSpan int
	Merged  bool
}

func newCell() *Cell {
	return &Cell{
		paragraphs: []*Paragraph{newParagraph("", StyleNormal)},
		ColSpan:    1,
		RowSpan:    1,
	}
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	return c.paragraphs
}

// AddParagraph appends a paragraph to the cell.
func (c *Cell) AddParagraph(text string) *Paragraph {
	p := newParagraph(text, StyleNormal)
	c.paragraphs = append(c.paragraphs, p)
	return p
}

// Text returns the cell's paragraphs joined with newlines.
func (c *Cell) Text() string {
	parts := make([]string, 0, len(c.paragraphs))
	for _, p := range c.paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// SetText collapses the cell to a single paragraph holding text.
func (c *Cell) SetText(text string) {
	c.paragraphs = []*Paragraph{newParagraph(text, StyleNormal)}
}

// Row is one table row.
type Row struct {
	cells []*Cell
}

// Cells returns the row's cells in column order.
func (r *Row) Cells() []*Cell {
	return r.cells
}

// Table is a rectangular grid of cells. Removing a column removes that
// cell from every row; partial grids are not representable.
type Table struct {
	rows      []*Row
	style     string
	alignment *Alignment
	borders   *TableBorders
}

func newTable(rows, cols int, style string) *Table {
	t := &Table{style: style}
	for i := 0; i < rows; i++ {
		row := &Row{}
		for j := 0; j < cols; j++ {
			row.cells = append(row.cells, newCell())
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*Row {
	return t.rows
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0].cells)
}

// Style returns the table's style name.
func (t *Table) Style() string {
	return t.style
}

// SetStyle points the table at a different named style.
func (t *Table) SetStyle(name string) {
	t.style = name
}

// Alignment returns the table's alignment override, nil when inherited.
func (t *Table) Alignment() *Alignment {
	return t.alignment
}

// SetAlignment overrides the table's alignment.
func (t *Table) SetAlignment(a Alignment) {
	t.alignment = &a
}

// Borders returns the table's uniform border settings, nil when unset.
func (t *Table) Borders() *TableBorders {
	return t.borders
}

// SetBorders applies a uniform border to every edge of the table.
func (t *Table) SetBorders(size int, color string) error {
	if size < 0 {
		return errors.NewValidation("border size", "must not be negative")
	}
	t.borders = &TableBorders{Size: size, Color: strings.TrimPrefix(color, "#")}
	return nil
}

// Cell returns the cell at (row, col).
func (t *Table) Cell(row, col int) (*Cell, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, errors.NewBounds("row", row, len(t.rows))
	}
	if col < 0 || col >= len(t.rows[row].cells) {
		return nil, errors.NewBounds("column", col, len(t.rows[row].cells))
	}
	return t.rows[row].cells[col], nil
}

// AddRow appends a row of empty cells matching the current column count.
func (t *Table) AddRow() *Row {
	row := &Row{}
	for i := 0; i < t.ColCount(); i++ {
		row.cells = append(row.cells, newCell())
	}
	t.rows = append(t.rows, row)
	return row
}

// AddColumn appends a column of empty cells to every row. A non-zero width
// is recorded on each new cell.
func (t *Table) AddColumn(width units.Length) {
	for _, row := range t.rows {
		c := newCell()
		c.Width = width
		row.cells = append(row.cells, c)
	}
}

// DeleteRow removes the row at index.
func (t *Table) DeleteRow(index int) error {
	if index < 0 || index >= len(t.rows) {
		return errors.NewBounds("row", index, len(t.rows))
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}

// DeleteColumn removes the cell at index from every row.
func (t *Table) DeleteColumn(index int) error {
	if index < 0 || index >= t.ColCount() {
		return errors.NewBounds("column", index, t.ColCount())
	}
	for _, row := range t.rows {
		row.cells = append(row.cells[:index], row.cells[index+1:]...)
	}
	return nil
}

// MergeCells merges the rectangular region from (r1,c1) to (r2,c2)
// inclusive. The origin cell absorbs the span; the other cells stay in the
// grid flagged as merged continuations.
func (t *Table) MergeCells(r1, c1, r2, c2 int) error {
	if r2 < r1 || c2 < c1 {
		return errors.NewValidation("merge range", "end must not precede start")
	}
	for _, rc := range [][2]int{{r1, c1}, {r2, c2}} {
		if _, err := t.Cell(rc[0], rc[1]); err != nil {
			return err
		}
	}
	origin := t.rows[r1].cells[c1]
	if origin.Merged {
		return errors.NewValidation("merge range", "origin cell is already merged away")
	}
	origin.RowSpan = r2 - r1 + 1
	origin.ColSpan = c2 - c1 + 1
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if r == r1 && c == c1 {
				continue
			}
			cell := t.rows[r].cells[c]
			cell.Merged = true
			cell.ColSpan = 1
			cell.RowSpan = 1
			cell.paragraphs = []*Paragraph{newParagraph("", StyleNormal)}
		}
	}
	return nil
}
