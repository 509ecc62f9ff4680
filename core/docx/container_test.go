package docx

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/docxforge/docxforge/core/docx/units"
)

// buildFixture assembles a document exercising most of the wire format.
func buildFixture(t *testing.T) *Document {
	t.Helper()
	d := New()

	d.Core().Author = "Pat Example"
	d.Core().Title = "Quarterly Report"
	d.Core().Revision = "3"
	d.CustomProperties()["Department"] = "Logistics"
	d.Variables()["watermark"] = "DRAFT"
	d.AddNumbering("1", "0")

	d.AddHeading("Overview", 1)
	p := d.AddParagraph("Plain body text with ")
	r := p.AddRun("emphasis")
	r.Format.Bold = Bool(true)
	r.Format.Size = Len(units.Pt(16))
	r.Format.Color = String("C00000")
	r.Format.Lang = String("en-GB")

	styled := d.AddParagraph("Styled paragraph")
	a := AlignCenter
	styled.Format.Alignment = &a
	styled.Format.LineSpacing = Float64(1.5)
	styled.Format.SpaceAfter = Len(units.Pt(12))
	styled.Format.FirstLineIndent = Len(units.Mm(12.7))

	tbl, _ := d.AddTable(2, 2, "Table Grid")
	cell, _ := tbl.Cell(0, 0)
	cell.SetText("top-left")
	cell.Shading = "D9E2F3"
	cell.VAlign = VAlignCenter
	tbl.SetBorders(8, "4472C4")

	s := d.Sections()[0]
	s.Margins.Top = units.Mm(15)
	s.Margins.Bottom = units.Mm(15)
	s.Margins.Left = units.Mm(20)
	s.Margins.Right = units.Mm(20)
	s.Header = NewHeaderFooter()
	s.Header.AddParagraph("Confidential")

	return d
}

func TestContainerRoundTrip(t *testing.T) {
	d := buildFixture(t)
	path := filepath.Join(t.TempDir(), "fixture.docx")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if n := len(got.Paragraphs()); n != len(d.Paragraphs()) {
		t.Fatalf("paragraph count = %d, want %d", n, len(d.Paragraphs()))
	}
	if got.Paragraphs()[0].Style() != "Heading 1" {
		t.Errorf("heading style = %q, want Heading 1", got.Paragraphs()[0].Style())
	}
	if text := got.Paragraphs()[1].Text(); text != "Plain body text with emphasis" {
		t.Errorf("paragraph text = %q", text)
	}

	runs := got.Paragraphs()[1].Runs()
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2", len(runs))
	}
	bold := runs[1].Format
	if bold.Bold == nil || !*bold.Bold {
		t.Errorf("second run lost bold")
	}
	if bold.Size == nil || math.Abs(bold.Size.Pt()-16) > 1e-9 {
		t.Errorf("second run size = %v, want 16pt", bold.Size)
	}
	if bold.Color == nil || *bold.Color != "C00000" {
		t.Errorf("second run color = %v", bold.Color)
	}
	if bold.Lang == nil || *bold.Lang != "en-GB" {
		t.Errorf("second run lang = %v", bold.Lang)
	}

	styled := got.Paragraphs()[2].Format
	if styled.Alignment == nil || *styled.Alignment != AlignCenter {
		t.Errorf("alignment = %v, want center", styled.Alignment)
	}
	if styled.LineSpacing == nil || math.Abs(*styled.LineSpacing-1.5) > 0.01 {
		t.Errorf("line spacing = %v, want 1.5", styled.LineSpacing)
	}
	if styled.FirstLineIndent == nil || math.Abs(styled.FirstLineIndent.Mm()-12.7) > 0.05 {
		t.Errorf("first line indent = %v, want 12.7mm", styled.FirstLineIndent)
	}
}

func TestContainerRoundTripTables(t *testing.T) {
	d := buildFixture(t)
	path := filepath.Join(t.TempDir(), "fixture.docx")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(got.Tables()) != 1 {
		t.Fatalf("table count = %d, want 1", len(got.Tables()))
	}
	tbl := got.Tables()[0]
	if tbl.RowCount() != 2 || tbl.ColCount() != 2 {
		t.Errorf("grid = %dx%d, want 2x2", tbl.RowCount(), tbl.ColCount())
	}
	cell, err := tbl.Cell(0, 0)
	if err != nil {
		t.Fatalf("Cell: %v", err)
	}
	if cell.Text() != "top-left" {
		t.Errorf("cell text = %q", cell.Text())
	}
	if cell.Shading != "D9E2F3" {
		t.Errorf("cell shading = %q", cell.Shading)
	}
	if cell.VAlign != VAlignCenter {
		t.Errorf("cell valign = %q", cell.VAlign)
	}
	if tbl.Borders() == nil || tbl.Borders().Size != 8 || tbl.Borders().Color != "4472C4" {
		t.Errorf("borders = %+v", tbl.Borders())
	}
}

func TestContainerRoundTripSectionsAndProps(t *testing.T) {
	d := buildFixture(t)
	path := filepath.Join(t.TempDir(), "fixture.docx")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if len(got.Sections()) != 1 {
		t.Fatalf("section count = %d, want 1", len(got.Sections()))
	}
	s := got.Sections()[0]
	if math.Abs(s.Margins.Left.Mm()-20) > 0.05 {
		t.Errorf("left margin = %vmm, want 20", s.Margins.Left.Mm())
	}
	if s.Orient != Portrait {
		t.Errorf("orientation = %q, want portrait", s.Orient)
	}
	if s.Header == nil {
		t.Fatalf("header story lost")
	}
	if len(s.Header.Paragraphs()) != 1 || s.Header.Paragraphs()[0].Text() != "Confidential" {
		t.Errorf("header text lost: %+v", s.Header.Paragraphs())
	}

	if got.Core().Author != "Pat Example" || got.Core().Title != "Quarterly Report" {
		t.Errorf("core properties lost: %+v", got.Core())
	}
	if got.Core().Revision != "3" {
		t.Errorf("revision = %q, want 3", got.Core().Revision)
	}
	if got.Core().Modified == nil {
		t.Errorf("modified timestamp not stamped on save")
	}
	if got.CustomProperties()["Department"] != "Logistics" {
		t.Errorf("custom properties lost: %v", got.CustomProperties())
	}
	if got.Variables()["watermark"] != "DRAFT" {
		t.Errorf("document variables lost: %v", got.Variables())
	}
	if len(got.Numbering()) != 1 || got.Numbering()[0].NumID != "1" {
		t.Errorf("numbering lost: %v", got.Numbering())
	}
}

func TestContainerRoundTripLandscape(t *testing.T) {
	d := New()
	d.AddParagraph("wide")
	d.Sections()[0].SetOrientation(Landscape)
	path := filepath.Join(t.TempDir(), "landscape.docx")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := got.Sections()[0]
	if s.Orient != Landscape {
		t.Errorf("orientation = %q, want landscape", s.Orient)
	}
	if s.PageWidth <= s.PageHeight {
		t.Errorf("landscape page %v x %v not wider than tall", s.PageWidth, s.PageHeight)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "absent.docx")); err == nil {
		t.Fatalf("Open of a missing file must fail")
	}
}

func TestCustomStyleRoundTrip(t *testing.T) {
	d := New()
	st, err := d.Styles().Add("Callout", StyleTypeParagraph, StyleNormal)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	st.Font.Italic = Bool(true)
	st.Font.Name = String("Georgia")
	st.Para.SpaceBefore = Len(units.Pt(6))
	d.AddParagraphWithStyle("note", "Callout")

	path := filepath.Join(t.TempDir(), "styles.docx")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	read, ok := got.Styles().Get("Callout")
	if !ok {
		t.Fatalf("custom style lost")
	}
	if read.BasedOn != StyleNormal {
		t.Errorf("basedOn = %q, want Normal", read.BasedOn)
	}
	if read.Font.Italic == nil || !*read.Font.Italic {
		t.Errorf("style italic lost")
	}
	if read.Font.Name == nil || *read.Font.Name != "Georgia" {
		t.Errorf("style font name lost")
	}
	if got.Paragraphs()[0].Style() != "Callout" {
		t.Errorf("paragraph style = %q, want Callout", got.Paragraphs()[0].Style())
	}
}
