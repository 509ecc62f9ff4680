package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/docxforge/docxforge/core/errors"
)

// WordprocessingML namespace declarations shared by the main parts.
const wordNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

// SaveAs writes the document to path as an OOXML container and stamps the
// modified time.
func (d *Document) SaveAs(path string) error {
	d.Touch(time.Now())

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	parts := d.buildParts()
	// Deterministic part order keeps containers diffable.
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pw, err := w.Create(name)
		if err != nil {
			return errors.NewIO("create container entry", name, err)
		}
		if _, err := pw.Write(parts[name]); err != nil {
			return errors.NewIO("write container entry", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return errors.NewIO("finalize container", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// buildParts renders every part of the container.
func (d *Document) buildParts() map[string][]byte {
	parts := make(map[string][]byte)

	headerParts, footerParts := d.headerFooterParts()
	for name, data := range headerParts {
		parts[name] = data
	}
	for name, data := range footerParts {
		parts[name] = data
	}

	parts["[Content_Types].xml"] = d.contentTypesXML(len(headerParts), len(footerParts))
	parts["_rels/.rels"] = d.rootRelsXML()
	parts["word/_rels/document.xml.rels"] = d.documentRelsXML(len(headerParts), len(footerParts))
	parts["word/document.xml"] = d.documentXML()
	parts["word/styles.xml"] = d.stylesXML()
	parts["word/settings.xml"] = d.settingsXML()
	parts["docProps/core.xml"] = d.corePropsXML()
	parts["docProps/app.xml"] = d.appPropsXML()
	if len(d.custom) > 0 {
		parts["docProps/custom.xml"] = d.customPropsXML()
	}
	if len(d.numbering) > 0 {
		parts["word/numbering.xml"] = d.numberingXML()
	}
	return parts
}

func (d *Document) contentTypesXML(headers, footers int) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
`)
	if len(d.custom) > 0 {
		b.WriteString(`<Override PartName="/docProps/custom.xml" ContentType="application/vnd.openxmlformats-officedocument.custom-properties+xml"/>` + "\n")
	}
	if len(d.numbering) > 0 {
		b.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` + "\n")
	}
	for i := 1; i <= headers; i++ {
		fmt.Fprintf(&b, `<Override PartName="/word/header%d.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`+"\n", i)
	}
	for i := 1; i <= footers; i++ {
		fmt.Fprintf(&b, `<Override PartName="/word/footer%d.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`+"\n", i)
	}
	b.WriteString(`</Types>`)
	return b.Bytes()
}

func (d *Document) rootRelsXML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>
`)
	if len(d.custom) > 0 {
		b.WriteString(`<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties" Target="docProps/custom.xml"/>` + "\n")
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

func (d *Document) documentRelsXML(headers, footers int) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>
`)
	rid := 3
	if len(d.numbering) > 0 {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`+"\n", rid)
		rid++
	}
	for i := 1; i <= headers; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rIdHdr%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header%d.xml"/>`+"\n", i, i)
	}
	for i := 1; i <= footers; i++ {
		fmt.Fprintf(&b, `<Relationship Id="rIdFtr%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer%d.xml"/>`+"\n", i, i)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

// headerFooterParts renders one part per non-nil, non-linked story, in
// section order. Part numbering matches the relationship ids emitted in
// documentRelsXML and referenced from each sectPr.
func (d *Document) headerFooterParts() (map[string][]byte, map[string][]byte) {
	headers := make(map[string][]byte)
	footers := make(map[string][]byte)
	hn, fn := 0, 0
	for _, s := range d.sections {
		for _, story := range []*HeaderFooter{s.Header, s.FirstPageHeader} {
			if story == nil || story.LinkedToPrevious {
				continue
			}
			hn++
			headers[fmt.Sprintf("word/header%d.xml", hn)] = storyXML("hdr", story, d.styles)
		}
		for _, story := range []*HeaderFooter{s.Footer, s.FirstPageFooter} {
			if story == nil || story.LinkedToPrevious {
				continue
			}
			fn++
			footers[fmt.Sprintf("word/footer%d.xml", fn)] = storyXML("ftr", story, d.styles)
		}
	}
	return headers, footers
}

func storyXML(root string, story *HeaderFooter, styles *Styles) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:%s %s>\n", root, wordNamespaces)
	for _, p := range story.Paragraphs() {
		writeParagraphXML(&b, p, styles)
	}
	fmt.Fprintf(&b, "</w:%s>", root)
	return b.Bytes()
}

// sectionRefs tracks header/footer relationship numbering while emitting
// sectPr elements.
type sectionRefs struct {
	header int
	footer int
}

func (d *Document) documentXML() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:document %s>\n<w:body>\n", wordNamespaces)

	for _, p := range d.paragraphs {
		writeParagraphXML(&b, p, d.styles)
	}
	for _, t := range d.tables {
		writeTableXML(&b, t, d.styles)
	}

	// Sections are trailing properties in the wire format: intermediate
	// sections ride an empty paragraph, the final one closes the body.
	refs := &sectionRefs{}
	for i, s := range d.sections {
		if i == len(d.sections)-1 {
			writeSectPrXML(&b, s, refs)
		} else {
			b.WriteString("<w:p><w:pPr>")
			writeSectPrXML(&b, s, refs)
			b.WriteString("</w:pPr></w:p>\n")
		}
	}

	b.WriteString("</w:body>\n</w:document>")
	return b.Bytes()
}

func writeSectPrXML(b *bytes.Buffer, s *Section, refs *sectionRefs) {
	b.WriteString("<w:sectPr>")
	for _, ref := range []struct {
		story *HeaderFooter
		kind  string
		tag   string
	}{
		{s.Header, "default", "headerReference"},
		{s.FirstPageHeader, "first", "headerReference"},
		{s.Footer, "default", "footerReference"},
		{s.FirstPageFooter, "first", "footerReference"},
	} {
		if ref.story == nil || ref.story.LinkedToPrevious {
			continue
		}
		prefix := "rIdHdr"
		n := &refs.header
		if ref.tag == "footerReference" {
			prefix = "rIdFtr"
			n = &refs.footer
		}
		*n++
		fmt.Fprintf(b, `<w:%s w:type="%s" r:id="%s%d"/>`, ref.tag, ref.kind, prefix, *n)
	}
	orient := ""
	if s.Orient == Landscape {
		orient = ` w:orient="landscape"`
	}
	fmt.Fprintf(b, `<w:pgSz w:w="%d" w:h="%d"%s/>`, s.PageWidth.Twips(), s.PageHeight.Twips(), orient)
	fmt.Fprintf(b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="%d" w:footer="%d" w:gutter="%d"/>`,
		s.Margins.Top.Twips(), s.Margins.Right.Twips(), s.Margins.Bottom.Twips(), s.Margins.Left.Twips(),
		s.HeaderDistance.Twips(), s.FooterDistance.Twips(), s.Margins.Gutter.Twips())
	if s.DifferentFirstPage {
		b.WriteString("<w:titlePg/>")
	}
	b.WriteString("</w:sectPr>\n")
}

// writeParagraphXML renders one paragraph. styles may be nil when the
// style id can be derived from the name alone.
func writeParagraphXML(b *bytes.Buffer, p *Paragraph, styles *Styles) {
	b.WriteString("<w:p>")
	pr := paragraphPropsXML(p, styles)
	if pr != "" {
		fmt.Fprintf(b, "<w:pPr>%s</w:pPr>", pr)
	}
	for _, r := range p.Runs() {
		writeRunXML(b, r)
	}
	b.WriteString("</w:p>\n")
}

func paragraphPropsXML(p *Paragraph, styles *Styles) string {
	var b bytes.Buffer
	if p.Style() != "" && p.Style() != StyleNormal {
		id := styleID(p.Style())
		if styles != nil {
			if st, ok := styles.Get(p.Style()); ok {
				id = st.ID
			}
		}
		fmt.Fprintf(&b, `<w:pStyle w:val="%s"/>`, escapeXML(id))
	}
	b.WriteString(paragraphFormatXML(&p.Format))
	return b.String()
}

// paragraphFormatXML renders the pPr children shared by paragraphs and
// style definitions.
func paragraphFormatXML(f *ParagraphFormat) string {
	var b bytes.Buffer
	if f.SpaceBefore != nil || f.SpaceAfter != nil || f.LineSpacing != nil {
		b.WriteString("<w:spacing")
		if f.SpaceBefore != nil {
			fmt.Fprintf(&b, ` w:before="%d"`, f.SpaceBefore.Twips())
		}
		if f.SpaceAfter != nil {
			fmt.Fprintf(&b, ` w:after="%d"`, f.SpaceAfter.Twips())
		}
		if f.LineSpacing != nil {
			// Multiples of single spacing travel as 240ths with lineRule auto.
			fmt.Fprintf(&b, ` w:line="%d" w:lineRule="auto"`, int64(math.Round(*f.LineSpacing*240)))
		}
		b.WriteString("/>")
	}
	if f.FirstLineIndent != nil || f.LeftIndent != nil || f.RightIndent != nil {
		b.WriteString("<w:ind")
		if f.LeftIndent != nil {
			fmt.Fprintf(&b, ` w:left="%d"`, f.LeftIndent.Twips())
		}
		if f.RightIndent != nil {
			fmt.Fprintf(&b, ` w:right="%d"`, f.RightIndent.Twips())
		}
		if f.FirstLineIndent != nil {
			if *f.FirstLineIndent < 0 {
				fmt.Fprintf(&b, ` w:hanging="%d"`, -f.FirstLineIndent.Twips())
			} else {
				fmt.Fprintf(&b, ` w:firstLine="%d"`, f.FirstLineIndent.Twips())
			}
		}
		b.WriteString("/>")
	}
	if f.Alignment != nil {
		fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, *f.Alignment)
	}
	return b.String()
}

func writeRunXML(b *bytes.Buffer, r *Run) {
	b.WriteString("<w:r>")
	pr := runFormatXML(&r.Format)
	if pr != "" {
		fmt.Fprintf(b, "<w:rPr>%s</w:rPr>", pr)
	}
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(r.Text()))
	b.WriteString("</w:r>")
}

// runFormatXML renders the rPr children shared by runs and style
// definitions.
func runFormatXML(f *RunFormat) string {
	var b bytes.Buffer
	if f.Name != nil {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, escapeXML(*f.Name), escapeXML(*f.Name))
	}
	if f.Bold != nil {
		b.WriteString(onOffXML("w:b", *f.Bold))
	}
	if f.Italic != nil {
		b.WriteString(onOffXML("w:i", *f.Italic))
	}
	if f.Underline != nil {
		if *f.Underline {
			b.WriteString(`<w:u w:val="single"/>`)
		} else {
			b.WriteString(`<w:u w:val="none"/>`)
		}
	}
	if f.Color != nil {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, escapeXML(*f.Color))
	}
	if f.Size != nil {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, f.Size.HalfPoints(), f.Size.HalfPoints())
	}
	if f.Lang != nil {
		fmt.Fprintf(&b, `<w:lang w:val="%s"/>`, escapeXML(*f.Lang))
	}
	return b.String()
}

func onOffXML(tag string, on bool) string {
	if on {
		return "<" + tag + "/>"
	}
	return "<" + tag + ` w:val="0"/>`
}

func writeTableXML(b *bytes.Buffer, t *Table, styles *Styles) {
	b.WriteString("<w:tbl>\n<w:tblPr>")
	if t.Style() != "" {
		fmt.Fprintf(b, `<w:tblStyle w:val="%s"/>`, escapeXML(styleID(t.Style())))
	}
	if t.Alignment() != nil {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, *t.Alignment())
	}
	if bd := t.Borders(); bd != nil {
		b.WriteString("<w:tblBorders>")
		for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			fmt.Fprintf(b, `<w:%s w:val="single" w:sz="%d" w:space="0" w:color="%s"/>`, edge, bd.Size, escapeXML(bd.Color))
		}
		b.WriteString("</w:tblBorders>")
	}
	b.WriteString("</w:tblPr>\n<w:tblGrid>")
	for c := 0; c < t.ColCount(); c++ {
		b.WriteString("<w:gridCol/>")
	}
	b.WriteString("</w:tblGrid>\n")

	for ri, row := range t.Rows() {
		b.WriteString("<w:tr>")
		for ci, cell := range row.Cells() {
			if cell.Merged && coveredHorizontally(t, ri, ci) {
				continue
			}
			writeCellXML(b, t, cell, ri, ci, styles)
		}
		b.WriteString("</w:tr>\n")
	}
	b.WriteString("</w:tbl>\n")
}

func writeCellXML(b *bytes.Buffer, t *Table, cell *Cell, ri, ci int, styles *Styles) {
	b.WriteString("<w:tc><w:tcPr>")
	if cell.Width != 0 {
		fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, cell.Width.Twips())
	}
	if cell.ColSpan > 1 {
		fmt.Fprintf(b, `<w:gridSpan w:val="%d"/>`, cell.ColSpan)
	}
	if cell.RowSpan > 1 {
		b.WriteString(`<w:vMerge w:val="restart"/>`)
	} else if cell.Merged && coveredVertically(t, ri, ci) {
		b.WriteString(`<w:vMerge/>`)
	}
	if cell.Shading != "" {
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, escapeXML(cell.Shading))
	}
	if cell.VAlign != "" {
		fmt.Fprintf(b, `<w:vAlign w:val="%s"/>`, cell.VAlign)
	}
	b.WriteString("</w:tcPr>")
	for _, p := range cell.Paragraphs() {
		writeParagraphXML(b, p, styles)
	}
	b.WriteString("</w:tc>")
}

// coveredHorizontally reports whether a merged-away cell lies in the
// column shadow of an origin on its own row.
func coveredHorizontally(t *Table, ri, ci int) bool {
	for c := 0; c < ci; c++ {
		origin := t.rows[ri].cells[c]
		if origin.Merged {
			continue
		}
		if origin.ColSpan > 1 && c+origin.ColSpan > ci {
			return true
		}
	}
	return false
}

// coveredVertically reports whether a merged-away cell lies in the row
// shadow of an origin above it in the same column.
func coveredVertically(t *Table, ri, ci int) bool {
	for r := 0; r < ri; r++ {
		origin := t.rows[r].cells[ci]
		if origin.Merged {
			continue
		}
		if origin.RowSpan > 1 && r+origin.RowSpan > ri {
			return true
		}
	}
	return false
}

func (d *Document) stylesXML() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:styles %s>\n", wordNamespaces)
	for _, st := range d.styles.All() {
		fmt.Fprintf(&b, `<w:style w:type="%s" w:styleId="%s">`, st.Type, escapeXML(st.ID))
		fmt.Fprintf(&b, `<w:name w:val="%s"/>`, escapeXML(st.Name))
		if st.BasedOn != "" {
			fmt.Fprintf(&b, `<w:basedOn w:val="%s"/>`, escapeXML(styleID(st.BasedOn)))
		}
		if st.Hidden {
			b.WriteString("<w:semiHidden/>")
		}
		if pr := paragraphFormatXML(&st.Para); pr != "" {
			fmt.Fprintf(&b, "<w:pPr>%s</w:pPr>", pr)
		}
		if pr := runFormatXML(&st.Font); pr != "" {
			fmt.Fprintf(&b, "<w:rPr>%s</w:rPr>", pr)
		}
		b.WriteString("</w:style>\n")
	}
	b.WriteString("</w:styles>")
	return b.Bytes()
}

func (d *Document) settingsXML() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:settings %s>\n", wordNamespaces)
	if len(d.variables) > 0 {
		b.WriteString("<w:docVars>")
		names := make([]string, 0, len(d.variables))
		for name := range d.variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, `<w:docVar w:name="%s" w:val="%s"/>`, escapeXML(name), escapeXML(d.variables[name]))
		}
		b.WriteString("</w:docVars>\n")
	}
	b.WriteString("</w:settings>")
	return b.Bytes()
}

func (d *Document) numberingXML() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n<w:numbering %s>\n", wordNamespaces)
	seen := make(map[string]bool)
	for _, n := range d.numbering {
		if n.AbstractNumID == "" || seen[n.AbstractNumID] {
			continue
		}
		seen[n.AbstractNumID] = true
		fmt.Fprintf(&b, `<w:abstractNum w:abstractNumId="%s"/>`+"\n", escapeXML(n.AbstractNumID))
	}
	for _, n := range d.numbering {
		fmt.Fprintf(&b, `<w:num w:numId="%s"><w:abstractNumId w:val="%s"/></w:num>`+"\n", escapeXML(n.NumID), escapeXML(n.AbstractNumID))
	}
	b.WriteString("</w:numbering>")
	return b.Bytes()
}

func (d *Document) corePropsXML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
`)
	cp := &d.core
	writeElem := func(tag, val string) {
		if val != "" {
			fmt.Fprintf(&b, "<%s>%s</%s>\n", tag, escapeXML(val), tag)
		}
	}
	writeElem("dc:creator", cp.Author)
	writeElem("dc:title", cp.Title)
	writeElem("dc:subject", cp.Subject)
	writeElem("dc:identifier", cp.Identifier)
	writeElem("dc:language", cp.Language)
	writeElem("cp:keywords", cp.Keywords)
	writeElem("dc:description", cp.Comments)
	writeElem("cp:category", cp.Category)
	writeElem("cp:contentStatus", cp.ContentStatus)
	writeElem("cp:lastModifiedBy", cp.LastModifiedBy)
	writeElem("cp:revision", cp.Revision)
	if cp.Created != nil {
		fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`+"\n", cp.Created.UTC().Format(time.RFC3339))
	}
	if cp.Modified != nil {
		fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`+"\n", cp.Modified.UTC().Format(time.RFC3339))
	}
	if cp.LastPrinted != nil {
		fmt.Fprintf(&b, `<cp:lastPrinted>%s</cp:lastPrinted>`+"\n", cp.LastPrinted.UTC().Format(time.RFC3339))
	}
	b.WriteString("</cp:coreProperties>")
	return b.Bytes()
}

func (d *Document) appPropsXML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
<Application>docxforge</Application>
`)
	fmt.Fprintf(&b, "<Paragraphs>%d</Paragraphs>\n", len(d.paragraphs))
	b.WriteString("</Properties>")
	return b.Bytes()
}

func (d *Document) customPropsXML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
`)
	names := make([]string, 0, len(d.custom))
	for name := range d.custom {
		names = append(names, name)
	}
	sort.Strings(names)
	// pid 2 is the first legal property id in the custom part.
	for i, name := range names {
		fmt.Fprintf(&b, `<property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="%d" name="%s"><vt:lpwstr>%s</vt:lpwstr></property>`+"\n",
			i+2, escapeXML(name), escapeXML(d.custom[name]))
	}
	b.WriteString("</Properties>")
	return b.Bytes()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
