package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/internal/session"
)

func (r *Registry) registerTableTools() {
	r.register("add_table",
		"Add a table with the given dimensions, style and alignment to the current document.",
		addTable)
	r.register("add_table_row",
		"Append a row to a table.",
		addTableRow)
	r.register("add_table_column",
		"Append a column to a table, optionally with a fixed width in points.",
		addTableColumn)
	r.register("set_table_cell",
		"Set the text and run formatting of a table cell.",
		setTableCell)
	r.register("merge_table_cells",
		"Merge a rectangular cell range into its top-left cell.",
		mergeTableCells)
	r.register("set_table_cell_style",
		"Set shading and vertical alignment on a table cell.",
		setTableCellStyle)
	r.register("set_table_borders",
		"Apply uniform borders to every cell of a table.",
		setTableBorders)
	r.register("delete_table_row",
		"Delete a row from a table.",
		deleteTableRow)
	r.register("delete_table_column",
		"Delete a column from a table.",
		deleteTableColumn)
}

// tableAt resolves a table index on the current document. The bool result
// distinguishes "no document / bad index" responses from success.
func tableAt(sess *session.Session, index int) (*docx.Table, string, bool) {
	if !sess.HasDocument() {
		return nil, noDocument, false
	}
	tbl, err := sess.Current().Table(index)
	if err != nil {
		return nil, fmt.Sprintf("Table index %d out of range.", index), false
	}
	return tbl, "", true
}

func addTable(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Rows      int    `json:"rows"`
		Cols      int    `json:"cols"`
		Style     string `json:"style"`
		Alignment string `json:"alignment"`
	}{Rows: 1, Cols: 1, Style: "Table Grid"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}

	tbl, err := sess.Current().AddTable(p.Rows, p.Cols, p.Style)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if a, ok := docx.ParseAlignment(p.Alignment); ok {
		tbl.SetAlignment(a)
	}
	return fmt.Sprintf("Added %dx%d table with style '%s'.", p.Rows, p.Cols, p.Style), nil
}

func addTableRow(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int `json:"table_index"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	tbl.AddRow()
	return fmt.Sprintf("Added row to table %d. Table now has %d rows.", p.TableIndex, tbl.RowCount()), nil
}

func addTableColumn(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int              `json:"table_index"`
		WidthPt    *units.Dimension `json:"width_pt"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	var width units.Length
	if p.WidthPt != nil {
		width = p.WidthPt.Length()
	}
	tbl.AddColumn(width)
	return fmt.Sprintf("Added column to table %d. Table now has %d columns.", p.TableIndex, tbl.ColCount()), nil
}

func setTableCell(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int              `json:"table_index"`
		Row        int              `json:"row"`
		Col        int              `json:"col"`
		Text       string           `json:"text"`
		Alignment  string           `json:"alignment"`
		Bold       bool             `json:"bold"`
		Italic     bool             `json:"italic"`
		FontSize   *units.Dimension `json:"font_size"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	cell, err := tbl.Cell(p.Row, p.Col)
	if err != nil {
		return fmt.Sprintf("Cell (%d, %d) out of range for table %d.", p.Row, p.Col, p.TableIndex), nil
	}

	cell.SetText(p.Text)
	para := cell.Paragraphs()[0]
	if a, ok := docx.ParseAlignment(p.Alignment); ok {
		para.Format.Alignment = &a
	}
	for _, run := range para.Runs() {
		run.Format.Bold = docx.Bool(p.Bold)
		run.Format.Italic = docx.Bool(p.Italic)
		if p.FontSize != nil {
			run.Format.Size = docx.Len(p.FontSize.Length())
		}
	}
	return fmt.Sprintf("Set cell (%d, %d) in table %d.", p.Row, p.Col, p.TableIndex), nil
}

func mergeTableCells(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int `json:"table_index"`
		StartRow   int `json:"start_row"`
		StartCol   int `json:"start_col"`
		EndRow     int `json:"end_row"`
		EndCol     int `json:"end_col"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	if err := tbl.MergeCells(p.StartRow, p.StartCol, p.EndRow, p.EndCol); err != nil {
		return fmt.Sprintf("Error merging cells: %v", err), nil
	}
	return fmt.Sprintf("Merged cells from (%d, %d) to (%d, %d) in table %d.",
		p.StartRow, p.StartCol, p.EndRow, p.EndCol, p.TableIndex), nil
}

func setTableCellStyle(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex        int    `json:"table_index"`
		Row               int    `json:"row"`
		Col               int    `json:"col"`
		ShadingColor      string `json:"shading_color"`
		VerticalAlignment string `json:"vertical_alignment"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	cell, err := tbl.Cell(p.Row, p.Col)
	if err != nil {
		return fmt.Sprintf("Cell (%d, %d) out of range for table %d.", p.Row, p.Col, p.TableIndex), nil
	}

	if p.ShadingColor != "" {
		cell.Shading = p.ShadingColor
	}
	if p.VerticalAlignment != "" {
		if v, ok := docx.ParseVerticalAlignment(p.VerticalAlignment); ok {
			cell.VAlign = v
		} else {
			return fmt.Sprintf("Invalid vertical alignment: %s", p.VerticalAlignment), nil
		}
	}
	return fmt.Sprintf("Styled cell (%d, %d) in table %d.", p.Row, p.Col, p.TableIndex), nil
}

func setTableBorders(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int    `json:"table_index"`
		Size       int    `json:"size"`
		Color      string `json:"color"`
	}{Size: 4, Color: "000000"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	if err := tbl.SetBorders(p.Size, p.Color); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Applied borders to table %d.", p.TableIndex), nil
}

func deleteTableRow(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex int `json:"table_index"`
		RowIndex   int `json:"row_index"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	if err := tbl.DeleteRow(p.RowIndex); err != nil {
		return fmt.Sprintf("Row index %d out of range for table %d.", p.RowIndex, p.TableIndex), nil
	}
	return fmt.Sprintf("Deleted row %d from table %d.", p.RowIndex, p.TableIndex), nil
}

func deleteTableColumn(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		TableIndex  int `json:"table_index"`
		ColumnIndex int `json:"column_index"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	tbl, msg, ok := tableAt(sess, p.TableIndex)
	if !ok {
		return msg, nil
	}
	if err := tbl.DeleteColumn(p.ColumnIndex); err != nil {
		return fmt.Sprintf("Column index %d out of range for table %d.", p.ColumnIndex, p.TableIndex), nil
	}
	return fmt.Sprintf("Deleted column %d from table %d.", p.ColumnIndex, p.TableIndex), nil
}
