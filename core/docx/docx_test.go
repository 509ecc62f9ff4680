package docx

import (
	"errors"
	"testing"

	cerrors "github.com/docxforge/docxforge/core/errors"
)

func TestNewDocumentDefaults(t *testing.T) {
	d := New()

	if len(d.Paragraphs()) != 0 {
		t.Errorf("fresh document has %d paragraphs, want 0", len(d.Paragraphs()))
	}
	if len(d.Sections()) != 1 {
		t.Fatalf("fresh document has %d sections, want 1", len(d.Sections()))
	}
	s := d.Sections()[0]
	if s.Orient != Portrait {
		t.Errorf("default orientation = %q, want portrait", s.Orient)
	}

	for _, name := range []string{StyleNormal, "Heading 1", "Heading 9", StyleTitle, StyleListBullet, StyleListNumber} {
		if _, ok := d.Styles().Get(name); !ok {
			t.Errorf("built-in style %q missing", name)
		}
	}
}

func TestParagraphOperations(t *testing.T) {
	d := New()
	d.AddParagraph("first")
	d.AddHeading("title", 1)
	d.AddParagraphWithStyle("item", StyleListBullet)

	if got := len(d.Paragraphs()); got != 3 {
		t.Fatalf("paragraph count = %d, want 3", got)
	}
	if got := d.Paragraphs()[1].Style(); got != "Heading 1" {
		t.Errorf("heading style = %q, want Heading 1", got)
	}

	p, err := d.InsertParagraphBefore(1, "between", StyleNormal)
	if err != nil {
		t.Fatalf("InsertParagraphBefore: %v", err)
	}
	if p.Text() != "between" {
		t.Errorf("inserted text = %q", p.Text())
	}
	texts := paragraphTexts(d)
	want := []string{"first", "between", "title", "item"}
	for i, w := range want {
		if texts[i] != w {
			t.Errorf("paragraph %d = %q, want %q", i, texts[i], w)
		}
	}

	if err := d.DeleteParagraph(0); err != nil {
		t.Fatalf("DeleteParagraph: %v", err)
	}
	if got := d.Paragraphs()[0].Text(); got != "between" {
		t.Errorf("after delete, first paragraph = %q, want between", got)
	}
}

func TestParagraphBounds(t *testing.T) {
	d := New()
	d.AddParagraph("only")

	if _, err := d.Paragraph(1); !errors.Is(err, cerrors.ErrOutOfRange) {
		t.Errorf("Paragraph(1) error = %v, want ErrOutOfRange", err)
	}
	if _, err := d.Paragraph(-1); !errors.Is(err, cerrors.ErrOutOfRange) {
		t.Errorf("Paragraph(-1) error = %v, want ErrOutOfRange", err)
	}
	if err := d.DeleteParagraph(5); !errors.Is(err, cerrors.ErrOutOfRange) {
		t.Errorf("DeleteParagraph(5) error = %v, want ErrOutOfRange", err)
	}
	if got := len(d.Paragraphs()); got != 1 {
		t.Errorf("failed operations mutated the document: %d paragraphs", got)
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	d := New()
	if got := d.AddHeading("low", 0).Style(); got != "Heading 1" {
		t.Errorf("level 0 clamps to %q, want Heading 1", got)
	}
	if got := d.AddHeading("high", 12).Style(); got != "Heading 9" {
		t.Errorf("level 12 clamps to %q, want Heading 9", got)
	}
}

func TestRunsAndText(t *testing.T) {
	d := New()
	p := d.AddParagraph("Hello")
	r := p.AddRun(" world")
	r.Format.Bold = Bool(true)

	if got := p.Text(); got != "Hello world" {
		t.Errorf("Text() = %q, want %q", got, "Hello world")
	}
	if got := len(p.Runs()); got != 2 {
		t.Fatalf("run count = %d, want 2", got)
	}

	p.SetText("replaced")
	if got := len(p.Runs()); got != 1 {
		t.Errorf("SetText left %d runs, want 1", got)
	}
	if p.Runs()[0].Format.Bold != nil {
		t.Errorf("SetText must drop run formatting")
	}
}

func TestStyleAddDuplicate(t *testing.T) {
	d := New()
	if _, err := d.Styles().Add("Quote Box", StyleTypeParagraph, StyleNormal); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := d.Styles().Add("Quote Box", StyleTypeParagraph, "")
	if !errors.Is(err, cerrors.ErrAlreadyExists) {
		t.Errorf("duplicate Add error = %v, want ErrAlreadyExists", err)
	}
	_, err = d.Styles().Add("Orphan", StyleTypeParagraph, "No Such Base")
	if !errors.Is(err, cerrors.ErrNotFound) {
		t.Errorf("missing base error = %v, want ErrNotFound", err)
	}
}

func TestTableGrid(t *testing.T) {
	d := New()
	tbl, err := d.AddTable(2, 3, "Table Grid")
	if err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.ColCount() != 3 {
		t.Fatalf("grid = %dx%d, want 2x3", tbl.RowCount(), tbl.ColCount())
	}

	cell, err := tbl.Cell(1, 2)
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	cell.SetText("r1c2")
	if got := cell.Text(); got != "r1c2" {
		t.Errorf("cell text = %q", got)
	}

	tbl.AddRow()
	tbl.AddColumn(0)
	if tbl.RowCount() != 3 || tbl.ColCount() != 4 {
		t.Errorf("after grow, grid = %dx%d, want 3x4", tbl.RowCount(), tbl.ColCount())
	}

	if err := tbl.DeleteColumn(0); err != nil {
		t.Fatalf("DeleteColumn: %v", err)
	}
	for ri, row := range tbl.Rows() {
		if len(row.Cells()) != 3 {
			t.Errorf("row %d has %d cells after column delete, want 3", ri, len(row.Cells()))
		}
	}
	if err := tbl.DeleteRow(2); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if tbl.RowCount() != 2 {
		t.Errorf("row count = %d, want 2", tbl.RowCount())
	}

	if _, err := tbl.Cell(9, 0); !errors.Is(err, cerrors.ErrOutOfRange) {
		t.Errorf("Cell(9,0) error = %v, want ErrOutOfRange", err)
	}
}

func TestMergeCells(t *testing.T) {
	d := New()
	tbl, _ := d.AddTable(3, 3, "")
	if err := tbl.MergeCells(0, 0, 1, 1); err != nil {
		t.Fatalf("MergeCells: %v", err)
	}
	origin, _ := tbl.Cell(0, 0)
	if origin.ColSpan != 2 || origin.RowSpan != 2 {
		t.Errorf("origin span = %dx%d, want 2x2", origin.RowSpan, origin.ColSpan)
	}
	cont, _ := tbl.Cell(1, 1)
	if !cont.Merged {
		t.Errorf("continuation cell not flagged as merged")
	}
	free, _ := tbl.Cell(2, 2)
	if free.Merged {
		t.Errorf("cell outside the region flagged as merged")
	}

	if err := tbl.MergeCells(1, 1, 0, 0); err == nil {
		t.Errorf("inverted range must fail")
	}
}

func TestCorePropertySetGet(t *testing.T) {
	d := New()
	if err := d.Core().Set("author", "R. Daneel"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := d.Core().Get("author")
	if !ok || got != "R. Daneel" {
		t.Errorf("Get(author) = %q, %v", got, ok)
	}
	if err := d.Core().Set("shoe_size", "42"); err == nil {
		t.Errorf("unknown property must fail")
	}
	if _, ok := d.Core().Get("title"); ok {
		t.Errorf("empty property must report absent")
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in   string
		want Alignment
		ok   bool
	}{
		{"LEFT", AlignLeft, true},
		{"center", AlignCenter, true},
		{"Right", AlignRight, true},
		{"JUSTIFY", AlignJustify, true},
		{"diagonal", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseAlignment(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseAlignment(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func paragraphTexts(d *Document) []string {
	out := make([]string, 0, len(d.Paragraphs()))
	for _, p := range d.Paragraphs() {
		out = append(out, p.Text())
	}
	return out
}
