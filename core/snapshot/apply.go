package snapshot

import (
	"regexp"
	"sort"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/docx/units"
)

// ApplyReport records the fate of every style the snapshot named. Best-effort
// skips never fail the application; they surface only here.
type ApplyReport struct {
	Applied         []string `json:"applied"`
	SkippedNotFound []string `json:"skipped_not_found"`
	SkippedInvalid  []string `json:"skipped_invalid"`
}

// StylesApplied returns the count of styles that existed and received at
// least one property change.
func (r *ApplyReport) StylesApplied() int {
	return len(r.Applied)
}

var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// Apply creates a new, empty document and mutates it to match the snapshot.
// The input document of the extraction is never touched; tables and
// numbering are diagnostic in the snapshot and are not replayed.
//
// Sections are applied positionally only where the target index exists; the
// new document does not grow sections. Styles are applied by name against
// the built-in set and are never fabricated.
func Apply(snap *Snapshot) (*docx.Document, *ApplyReport) {
	doc := docx.New()
	report := &ApplyReport{}

	for i, si := range snap.Sections {
		if i >= len(doc.Sections()) {
			break
		}
		applySection(doc.Sections()[i], si)
	}

	if snap.Styles != nil {
		applyStyles(doc, snap.Styles.ParagraphStyles, report)
	}

	for name, value := range snap.CoreProperties {
		// Last-writer-wins, unknown names skipped.
		_ = doc.Core().Set(name, value)
	}

	return doc, report
}

func applySection(s *docx.Section, info SectionInfo) {
	if m := info.Margins; m != nil {
		if v, ok := m["top_mm"]; ok {
			s.Margins.Top = units.Mm(v)
		}
		if v, ok := m["bottom_mm"]; ok {
			s.Margins.Bottom = units.Mm(v)
		}
		if v, ok := m["left_mm"]; ok {
			s.Margins.Left = units.Mm(v)
		}
		if v, ok := m["right_mm"]; ok {
			s.Margins.Right = units.Mm(v)
		}
		if v, ok := m["gutter_mm"]; ok {
			s.Margins.Gutter = units.Mm(v)
		}
	}
	if info.PageWidth != nil && info.PageHeight != nil {
		s.PageWidth = units.Pt(*info.PageWidth)
		s.PageHeight = units.Pt(*info.PageHeight)
	}
	if info.Orientation == "landscape" {
		s.Orient = docx.Landscape
	}
	if hf := info.HeaderFooter; hf != nil {
		if v, ok := hf["header_distance_mm"]; ok {
			s.HeaderDistance = units.Mm(v)
		}
		if v, ok := hf["footer_distance_mm"]; ok {
			s.FooterDistance = units.Mm(v)
		}
	}
	s.DifferentFirstPage = info.DifferentFirstPage
}

// applyStyles walks the snapshot's paragraph styles in a stable order. A
// name missing from the fresh document is skipped, a malformed value skips
// the whole style entry, and everything else lands in Applied.
func applyStyles(doc *docx.Document, styles map[string]StyleInfo, report *ApplyReport) {
	for _, name := range sortedKeys(styles) {
		info := styles[name]
		st, ok := doc.Styles().Get(name)
		if !ok {
			report.SkippedNotFound = append(report.SkippedNotFound, name)
			continue
		}
		if info.Font == nil && info.ParagraphFormat == nil {
			// Nothing to change; the entry carried only identity.
			continue
		}
		if !styleInfoValid(info) {
			report.SkippedInvalid = append(report.SkippedInvalid, name)
			continue
		}
		applyFont(st, info.Font)
		applyParaFormat(st, info.ParagraphFormat)
		report.Applied = append(report.Applied, name)
	}
}

// styleInfoValid vets the entry before any mutation so a malformed value
// cannot leave a style half-applied.
func styleInfoValid(info StyleInfo) bool {
	if f := info.Font; f != nil {
		if f.SizePt != nil && *f.SizePt <= 0 {
			return false
		}
		if f.Color != "" && !hexColor.MatchString(f.Color) {
			return false
		}
	}
	if p := info.ParagraphFormat; p != nil {
		if p.Alignment != "" {
			if _, ok := docx.ParseAlignment(p.Alignment); !ok {
				return false
			}
		}
		if p.LineSpacing != nil && *p.LineSpacing <= 0 {
			return false
		}
	}
	return true
}

func applyFont(st *docx.Style, f *FontInfo) {
	if f == nil {
		return
	}
	if f.Name != "" {
		st.Font.Name = docx.String(f.Name)
	}
	if f.SizePt != nil {
		st.Font.Size = docx.Len(units.Pt(*f.SizePt))
	}
	if f.Bold {
		st.Font.Bold = docx.Bool(true)
	}
	if f.Italic {
		st.Font.Italic = docx.Bool(true)
	}
	if f.Underline {
		st.Font.Underline = docx.Bool(true)
	}
	if f.Color != "" {
		st.Font.Color = docx.String(normalizeHex(f.Color))
	}
}

func applyParaFormat(st *docx.Style, p *ParaInfo) {
	if p == nil {
		return
	}
	if p.Alignment != "" {
		if a, ok := docx.ParseAlignment(p.Alignment); ok {
			st.Para.Alignment = &a
		}
	}
	if p.LineSpacing != nil {
		st.Para.LineSpacing = docx.Float64(*p.LineSpacing)
	}
	if p.SpaceBeforePt != nil {
		st.Para.SpaceBefore = docx.Len(units.Pt(*p.SpaceBeforePt))
	}
	if p.SpaceAfterPt != nil {
		st.Para.SpaceAfter = docx.Len(units.Pt(*p.SpaceAfterPt))
	}
	if p.FirstLineIndentMm != nil {
		st.Para.FirstLineIndent = docx.Len(units.Mm(*p.FirstLineIndentMm))
	}
	if p.LeftIndentMm != nil {
		st.Para.LeftIndent = docx.Len(units.Mm(*p.LeftIndentMm))
	}
	if p.RightIndentMm != nil {
		st.Para.RightIndent = docx.Len(units.Mm(*p.RightIndentMm))
	}
}

func normalizeHex(color string) string {
	if len(color) == 7 && color[0] == '#' {
		return color[1:]
	}
	return color
}

func sortedKeys(m map[string]StyleInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
