package snapshot

import (
	"strconv"
	"strings"
	"time"

	"github.com/docxforge/docxforge/core/docx"
)

// ExtractOptions controls extraction. AllStyles includes styles no paragraph
// references; Compact affects only how the snapshot is rendered to JSON.
type ExtractOptions struct {
	SourceFile string
	AllStyles  bool
	Compact    bool
}

const cellTextLimit = 100

// Extract walks a document and produces its snapshot. The document is never
// mutated; extraction is safe against any loaded document, not only the
// session's current one.
func Extract(doc *docx.Document, opts ExtractOptions) *Snapshot {
	return &Snapshot{
		SourceFile:          opts.SourceFile,
		ExtractionTimestamp: time.Now().Format(time.RFC3339),
		CoreProperties:      ExtractCoreProperties(doc),
		CustomProperties:    ExtractCustomProperties(doc),
		DocumentVariables:   ExtractDocumentVariables(doc),
		Sections:            ExtractSections(doc),
		Styles:              ExtractStyles(doc, opts.AllStyles),
		Numbering:           extractNumbering(doc),
		HeadersFooters:      extractHeadersFooters(doc),
		Tables:              extractTables(doc),
		ParagraphsCount:     len(doc.Paragraphs()),
		TablesCount:         len(doc.Tables()),
	}
}

// coreDateNames are the read-only date properties, rendered in RFC 3339.
// They are not settable by name, so they ride alongside CorePropertyNames
// during extraction only.
var coreDateNames = []string{"created", "modified", "last_printed"}

// ExtractCoreProperties copies the set core properties, including the date
// fields. Absent values are omitted, never emitted as empty placeholders.
func ExtractCoreProperties(doc *docx.Document) map[string]string {
	props := make(map[string]string)
	names := append(docx.CorePropertyNames(), coreDateNames...)
	for _, name := range names {
		if v, ok := doc.Core().Get(name); ok && v != "" {
			props[name] = v
		}
	}
	return props
}

// ExtractCustomProperties copies the document's custom property map.
func ExtractCustomProperties(doc *docx.Document) map[string]string {
	props := make(map[string]string, len(doc.CustomProperties()))
	for k, v := range doc.CustomProperties() {
		props[k] = v
	}
	return props
}

// ExtractDocumentVariables copies the settings docVar map.
func ExtractDocumentVariables(doc *docx.Document) map[string]string {
	vars := make(map[string]string, len(doc.Variables()))
	for k, v := range doc.Variables() {
		vars[k] = v
	}
	return vars
}

// ExtractSections copies each section's geometry with both metric and
// point-based margin values.
func ExtractSections(doc *docx.Document) []SectionInfo {
	sections := make([]SectionInfo, 0, len(doc.Sections()))
	for i, s := range doc.Sections() {
		info := SectionInfo{
			Index:       i,
			PageWidth:   f64(s.PageWidth.Pt()),
			PageHeight:  f64(s.PageHeight.Pt()),
			Orientation: "portrait",
			Margins: map[string]float64{
				"top_mm":    s.Margins.Top.Mm(),
				"top_pt":    s.Margins.Top.Pt(),
				"bottom_mm": s.Margins.Bottom.Mm(),
				"bottom_pt": s.Margins.Bottom.Pt(),
				"left_mm":   s.Margins.Left.Mm(),
				"left_pt":   s.Margins.Left.Pt(),
				"right_mm":  s.Margins.Right.Mm(),
				"right_pt":  s.Margins.Right.Pt(),
			},
			HeaderFooter:       map[string]float64{},
			DifferentFirstPage: s.DifferentFirstPage,
		}
		if s.Orient == docx.Landscape {
			info.Orientation = "landscape"
		}
		if s.Margins.Gutter != 0 {
			info.Margins["gutter_mm"] = s.Margins.Gutter.Mm()
			info.Margins["gutter_pt"] = s.Margins.Gutter.Pt()
		}
		if s.HeaderDistance != 0 {
			info.HeaderFooter["header_distance_mm"] = s.HeaderDistance.Mm()
		}
		if s.FooterDistance != 0 {
			info.HeaderFooter["footer_distance_mm"] = s.FooterDistance.Mm()
		}
		sections = append(sections, info)
	}
	return sections
}

// ExtractStyles records the document's styles grouped by type. Unless
// allStyles is set, a style is included only when some paragraph in the body
// or inside a table cell references it. Hidden styles are always excluded.
// Only non-default attributes are recorded.
func ExtractStyles(doc *docx.Document, allStyles bool) *StylesInfo {
	info := &StylesInfo{
		ParagraphStyles: make(map[string]StyleInfo),
		CharacterStyles: make(map[string]StyleInfo),
		TableStyles:     make(map[string]StyleInfo),
		ListStyles:      make(map[string]StyleInfo),
	}

	var used map[string]bool
	if !allStyles {
		used = usedStyleNames(doc)
	}

	for _, st := range doc.Styles().All() {
		if st.Hidden {
			continue
		}
		if used != nil && !used[st.Name] {
			continue
		}
		si := StyleInfo{}
		if st.ID != "" && st.ID != st.Name {
			si.StyleID = st.ID
		}
		si.Font = fontInfo(st.Font)
		si.ParagraphFormat = paraInfo(st.Para)
		switch st.Type {
		case docx.StyleTypeCharacter:
			info.CharacterStyles[st.Name] = si
		case docx.StyleTypeTable:
			info.TableStyles[st.Name] = si
		case docx.StyleTypeList:
			info.ListStyles[st.Name] = si
		default:
			info.ParagraphStyles[st.Name] = si
		}
	}
	return info
}

// usedStyleNames scans body paragraphs and every table-cell paragraph for
// referenced style names.
func usedStyleNames(doc *docx.Document) map[string]bool {
	used := make(map[string]bool)
	for _, p := range doc.Paragraphs() {
		used[p.Style()] = true
	}
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					used[p.Style()] = true
				}
			}
		}
	}
	return used
}

func fontInfo(f docx.RunFormat) *FontInfo {
	fi := FontInfo{}
	if f.Name != nil {
		fi.Name = *f.Name
	}
	if f.Size != nil {
		fi.SizePt = f64(f.Size.Pt())
	}
	if f.Bold != nil && *f.Bold {
		fi.Bold = true
	}
	if f.Italic != nil && *f.Italic {
		fi.Italic = true
	}
	if f.Underline != nil && *f.Underline {
		fi.Underline = true
	}
	if f.Color != nil && *f.Color != "" {
		fi.Color = *f.Color
	}
	if fi == (FontInfo{}) {
		return nil
	}
	return &fi
}

func paraInfo(f docx.ParagraphFormat) *ParaInfo {
	pi := ParaInfo{}
	if f.Alignment != nil {
		pi.Alignment = string(*f.Alignment)
	}
	if f.LineSpacing != nil && *f.LineSpacing != 1.0 {
		pi.LineSpacing = f64(*f.LineSpacing)
	}
	if f.SpaceBefore != nil && f.SpaceBefore.Pt() != 0 {
		pi.SpaceBeforePt = f64(f.SpaceBefore.Pt())
	}
	if f.SpaceAfter != nil && f.SpaceAfter.Pt() != 0 {
		pi.SpaceAfterPt = f64(f.SpaceAfter.Pt())
	}
	if f.FirstLineIndent != nil && f.FirstLineIndent.Mm() != 0 {
		pi.FirstLineIndentMm = f64(f.FirstLineIndent.Mm())
	}
	if f.LeftIndent != nil && f.LeftIndent.Mm() != 0 {
		pi.LeftIndentMm = f64(f.LeftIndent.Mm())
	}
	if f.RightIndent != nil && f.RightIndent.Mm() != 0 {
		pi.RightIndentMm = f64(f.RightIndent.Mm())
	}
	if pi == (ParaInfo{}) {
		return nil
	}
	return &pi
}

func extractNumbering(doc *docx.Document) map[string]NumberingInfo {
	nums := make(map[string]NumberingInfo, len(doc.Numbering()))
	for _, n := range doc.Numbering() {
		nums[n.NumID] = NumberingInfo{AbstractNumID: n.AbstractNumID}
	}
	return nums
}

// extractHeadersFooters collects header and footer text per section, keyed
// "section_N" with a "_first" variant for different-first-page stories.
// Linked and whitespace-only stories are skipped.
func extractHeadersFooters(doc *docx.Document) *HeadersFooters {
	hf := &HeadersFooters{
		Headers: make(map[string]string),
		Footers: make(map[string]string),
	}
	for i, s := range doc.Sections() {
		key := sectionKey(i)
		if text := storyText(s.Header); text != "" {
			hf.Headers[key] = text
		}
		if text := storyText(s.FirstPageHeader); text != "" {
			hf.Headers[key+"_first"] = text
		}
		if text := storyText(s.Footer); text != "" {
			hf.Footers[key] = text
		}
		if text := storyText(s.FirstPageFooter); text != "" {
			hf.Footers[key+"_first"] = text
		}
	}
	return hf
}

func sectionKey(i int) string {
	return "section_" + strconv.Itoa(i)
}

// storyText joins a story's non-blank paragraph texts with newlines. Linked
// stories yield nothing: their content belongs to the previous section.
func storyText(hf *docx.HeaderFooter) string {
	if hf == nil || hf.LinkedToPrevious {
		return ""
	}
	var lines []string
	for _, p := range hf.Paragraphs() {
		if t := p.Text(); strings.TrimSpace(t) != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func extractTables(doc *docx.Document) []TableInfo {
	tables := make([]TableInfo, 0, len(doc.Tables()))
	for i, t := range doc.Tables() {
		info := TableInfo{
			Index:   i,
			Rows:    t.RowCount(),
			Columns: t.ColCount(),
		}
		for r, row := range t.Rows() {
			cells := make([]CellInfo, 0, len(row.Cells()))
			for c, cell := range row.Cells() {
				cells = append(cells, CellInfo{Row: r, Col: c, Text: truncate(cell.Text(), cellTextLimit)})
			}
			info.Cells = append(info.Cells, cells)
		}
		tables = append(tables, info)
	}
	return tables
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func f64(v float64) *float64 { return &v }
