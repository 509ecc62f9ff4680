package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/core/errors"
)

// Precompiled part-level queries. local-name() keeps them independent of
// whatever prefix the producing application chose.
var (
	queryStyles     = xpath.MustCompile(`//*[local-name()='style']`)
	queryDocVars    = xpath.MustCompile(`//*[local-name()='docVar']`)
	queryNums       = xpath.MustCompile(`//*[local-name()='num']`)
	queryProperties = xpath.MustCompile(`//*[local-name()='property']`)
	queryRels       = xpath.MustCompile(`//*[local-name()='Relationship']`)
)

// Open reads an OOXML container from path into a Document.
func Open(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer r.Close()

	parts := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.NewIO("open container entry", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.NewIO("read container entry", f.Name, err)
		}
		parts[f.Name] = data
	}

	if _, ok := parts["word/document.xml"]; !ok {
		return nil, errors.NewParse("container", path, "word/document.xml missing")
	}

	d := &Document{
		styles:    newStyles(),
		custom:    make(map[string]string),
		variables: make(map[string]string),
	}
	rd := &reader{doc: d, parts: parts}

	if err := rd.readStyles(); err != nil {
		return nil, err
	}
	if err := rd.readBody(); err != nil {
		return nil, err
	}
	rd.readSettings()
	rd.readNumbering()
	rd.readCoreProps()
	rd.readCustomProps()

	if len(d.sections) == 0 {
		d.sections = []*Section{defaultSection()}
	}
	return d, nil
}

type reader struct {
	doc       *Document
	parts     map[string][]byte
	nameForID map[string]string
	rels      map[string]string
}

func (rd *reader) part(name string) (*xmlquery.Node, error) {
	data, ok := rd.parts[name]
	if !ok {
		return nil, errors.NewNotFound("container part", name)
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParse("XML", name, err.Error())
	}
	return root, nil
}

// Node helpers. Matching by local name sidesteps the producing
// application's prefix choices entirely.

func attrOf(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func childOf(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			return c
		}
	}
	return nil
}

func childrenOf(n *xmlquery.Node, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

func elementChildren(n *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func twipAttr(n *xmlquery.Node, local string) (units.Length, bool) {
	v := attrOf(n, local)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return units.Twip(f), true
}

// onOffAttr decodes the WordprocessingML on/off value convention: the bare
// element means on, val of 0/false/none means off.
func onOffValue(n *xmlquery.Node) bool {
	switch strings.ToLower(attrOf(n, "val")) {
	case "0", "false", "none", "off":
		return false
	}
	return true
}

func (rd *reader) readStyles() error {
	rd.nameForID = make(map[string]string)
	root, err := rd.part("word/styles.xml")
	if err != nil {
		// A container without styles.xml still opens; built-ins cover it.
		rd.doc.styles = builtinStyles()
		return nil
	}

	basedOnIDs := make(map[string]string)
	for _, sn := range xmlquery.QuerySelectorAll(root, queryStyles) {
		id := attrOf(sn, "styleId")
		name := id
		if nameNode := childOf(sn, "name"); nameNode != nil {
			name = attrOf(nameNode, "val")
		}
		if name == "" || id == "" {
			continue
		}
		typ := StyleType(attrOf(sn, "type"))
		if typ == "" {
			typ = StyleTypeParagraph
		}
		st, err := rd.doc.styles.Add(name, typ, "")
		if err != nil {
			continue // duplicate style names are a producer bug; first wins
		}
		st.ID = id
		rd.nameForID[id] = name
		if basedOn := childOf(sn, "basedOn"); basedOn != nil {
			basedOnIDs[name] = attrOf(basedOn, "val")
		}
		if childOf(sn, "semiHidden") != nil || childOf(sn, "hidden") != nil {
			st.Hidden = true
		}
		if rPr := childOf(sn, "rPr"); rPr != nil {
			st.Font = readRunFormat(rPr)
		}
		if pPr := childOf(sn, "pPr"); pPr != nil {
			st.Para = readParagraphFormat(pPr)
		}
	}

	// basedOn references travel as style ids; resolve them to names.
	for name, baseID := range basedOnIDs {
		if st, ok := rd.doc.styles.Get(name); ok {
			if baseName, ok := rd.nameForID[baseID]; ok {
				st.BasedOn = baseName
			}
		}
	}
	return nil
}

func (rd *reader) styleName(id string) string {
	if name, ok := rd.nameForID[id]; ok {
		return name
	}
	if id == "" {
		return StyleNormal
	}
	return id
}

func (rd *reader) readBody() error {
	root, err := rd.part("word/document.xml")
	if err != nil {
		return err
	}
	rd.readRels()

	var body *xmlquery.Node
	docElem := childOfTree(root, "document")
	if docElem != nil {
		body = childOf(docElem, "body")
	}
	if body == nil {
		return errors.NewParse("XML", "word/document.xml", "no body element")
	}

	for _, n := range elementChildren(body) {
		switch n.Data {
		case "p":
			if sectPr := sectPrOf(n); sectPr != nil {
				rd.readSection(sectPr)
				if len(runNodesOf(n)) == 0 {
					continue // pure section marker, not body content
				}
			}
			rd.doc.paragraphs = append(rd.doc.paragraphs, rd.readParagraph(n))
		case "tbl":
			rd.doc.tables = append(rd.doc.tables, rd.readTable(n))
		case "sectPr":
			rd.readSection(n)
		}
	}
	return nil
}

// childOfTree finds the first element with the given local name at any
// depth directly under document/declaration nodes.
func childOfTree(root *xmlquery.Node, local string) *xmlquery.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			if c.Data == local {
				return c
			}
			if found := childOfTree(c, local); found != nil {
				return found
			}
		}
	}
	return nil
}

func sectPrOf(p *xmlquery.Node) *xmlquery.Node {
	if pPr := childOf(p, "pPr"); pPr != nil {
		return childOf(pPr, "sectPr")
	}
	return nil
}

func runNodesOf(p *xmlquery.Node) []*xmlquery.Node {
	return childrenOf(p, "r")
}

func (rd *reader) readParagraph(n *xmlquery.Node) *Paragraph {
	p := &Paragraph{style: StyleNormal}
	if pPr := childOf(n, "pPr"); pPr != nil {
		if pStyle := childOf(pPr, "pStyle"); pStyle != nil {
			p.style = rd.styleName(attrOf(pStyle, "val"))
		}
		p.Format = readParagraphFormat(pPr)
	}
	for _, rn := range runNodesOf(n) {
		run := &Run{}
		if rPr := childOf(rn, "rPr"); rPr != nil {
			run.Format = readRunFormat(rPr)
		}
		var text strings.Builder
		for _, c := range elementChildren(rn) {
			switch c.Data {
			case "t":
				text.WriteString(c.InnerText())
			case "tab":
				text.WriteString("\t")
			}
		}
		run.text = text.String()
		p.runs = append(p.runs, run)
	}
	return p
}

func readParagraphFormat(pPr *xmlquery.Node) ParagraphFormat {
	var f ParagraphFormat
	if jc := childOf(pPr, "jc"); jc != nil {
		a := Alignment(attrOf(jc, "val"))
		if a == "start" {
			a = AlignLeft
		}
		if a == "end" {
			a = AlignRight
		}
		f.Alignment = &a
	}
	if spacing := childOf(pPr, "spacing"); spacing != nil {
		if v, ok := twipAttr(spacing, "before"); ok {
			f.SpaceBefore = &v
		}
		if v, ok := twipAttr(spacing, "after"); ok {
			f.SpaceAfter = &v
		}
		if line := attrOf(spacing, "line"); line != "" {
			rule := attrOf(spacing, "lineRule")
			if lineVal, err := strconv.ParseFloat(line, 64); err == nil && (rule == "" || rule == "auto") {
				mult := lineVal / 240
				f.LineSpacing = &mult
			}
		}
	}
	if ind := childOf(pPr, "ind"); ind != nil {
		if v, ok := twipAttr(ind, "left"); ok {
			f.LeftIndent = &v
		}
		if v, ok := twipAttr(ind, "right"); ok {
			f.RightIndent = &v
		}
		if v, ok := twipAttr(ind, "firstLine"); ok {
			f.FirstLineIndent = &v
		} else if v, ok := twipAttr(ind, "hanging"); ok {
			neg := -v
			f.FirstLineIndent = &neg
		}
	}
	return f
}

func readRunFormat(rPr *xmlquery.Node) RunFormat {
	var f RunFormat
	if b := childOf(rPr, "b"); b != nil {
		f.Bold = Bool(onOffValue(b))
	}
	if i := childOf(rPr, "i"); i != nil {
		f.Italic = Bool(onOffValue(i))
	}
	if u := childOf(rPr, "u"); u != nil {
		f.Underline = Bool(attrOf(u, "val") != "none")
	}
	if fonts := childOf(rPr, "rFonts"); fonts != nil {
		if name := attrOf(fonts, "ascii"); name != "" {
			f.Name = &name
		}
	}
	if sz := childOf(rPr, "sz"); sz != nil {
		if half, err := strconv.ParseFloat(attrOf(sz, "val"), 64); err == nil {
			f.Size = Len(units.Pt(half / 2))
		}
	}
	if color := childOf(rPr, "color"); color != nil {
		if v := attrOf(color, "val"); v != "" && v != "auto" {
			f.Color = &v
		}
	}
	if lang := childOf(rPr, "lang"); lang != nil {
		if v := attrOf(lang, "val"); v != "" {
			f.Lang = &v
		}
	}
	return f
}

func (rd *reader) readTable(n *xmlquery.Node) *Table {
	t := &Table{}
	if tblPr := childOf(n, "tblPr"); tblPr != nil {
		if tblStyle := childOf(tblPr, "tblStyle"); tblStyle != nil {
			t.style = rd.styleName(attrOf(tblStyle, "val"))
		}
		if jc := childOf(tblPr, "jc"); jc != nil {
			a := Alignment(attrOf(jc, "val"))
			t.alignment = &a
		}
		if borders := childOf(tblPr, "tblBorders"); borders != nil {
			if top := childOf(borders, "top"); top != nil {
				size, _ := strconv.Atoi(attrOf(top, "sz"))
				t.borders = &TableBorders{Size: size, Color: attrOf(top, "color")}
			}
		}
	}
	for _, tr := range childrenOf(n, "tr") {
		row := &Row{}
		for _, tc := range childrenOf(tr, "tc") {
			cell := &Cell{ColSpan: 1, RowSpan: 1}
			if tcPr := childOf(tc, "tcPr"); tcPr != nil {
				if span := childOf(tcPr, "gridSpan"); span != nil {
					if v, err := strconv.Atoi(attrOf(span, "val")); err == nil && v > 1 {
						cell.ColSpan = v
					}
				}
				if vm := childOf(tcPr, "vMerge"); vm != nil && attrOf(vm, "val") != "restart" {
					cell.Merged = true
				}
				if shd := childOf(tcPr, "shd"); shd != nil {
					if fill := attrOf(shd, "fill"); fill != "" && fill != "auto" {
						cell.Shading = fill
					}
				}
				if va := childOf(tcPr, "vAlign"); va != nil {
					cell.VAlign = VerticalAlignment(attrOf(va, "val"))
				}
				if w, ok := twipAttr(childOrSelf(tcPr, "tcW"), "w"); ok {
					cell.Width = w
				}
			}
			for _, pn := range childrenOf(tc, "p") {
				cell.paragraphs = append(cell.paragraphs, rd.readParagraph(pn))
			}
			if len(cell.paragraphs) == 0 {
				cell.paragraphs = []*Paragraph{newParagraph("", StyleNormal)}
			}
			row.cells = append(row.cells, cell)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// childOrSelf guards twipAttr against a missing parent.
func childOrSelf(n *xmlquery.Node, local string) *xmlquery.Node {
	if n == nil {
		return &xmlquery.Node{}
	}
	if c := childOf(n, local); c != nil {
		return c
	}
	return &xmlquery.Node{}
}

func (rd *reader) readRels() {
	rd.rels = make(map[string]string)
	root, err := rd.part("word/_rels/document.xml.rels")
	if err != nil {
		return
	}
	for _, rel := range xmlquery.QuerySelectorAll(root, queryRels) {
		rd.rels[attrOf(rel, "Id")] = attrOf(rel, "Target")
	}
}

func (rd *reader) readSection(sectPr *xmlquery.Node) {
	s := defaultSection()
	if pgSz := childOf(sectPr, "pgSz"); pgSz != nil {
		if v, ok := twipAttr(pgSz, "w"); ok {
			s.PageWidth = v
		}
		if v, ok := twipAttr(pgSz, "h"); ok {
			s.PageHeight = v
		}
		if attrOf(pgSz, "orient") == "landscape" {
			s.Orient = Landscape
		}
	}
	if pgMar := childOf(sectPr, "pgMar"); pgMar != nil {
		if v, ok := twipAttr(pgMar, "top"); ok {
			s.Margins.Top = v
		}
		if v, ok := twipAttr(pgMar, "bottom"); ok {
			s.Margins.Bottom = v
		}
		if v, ok := twipAttr(pgMar, "left"); ok {
			s.Margins.Left = v
		}
		if v, ok := twipAttr(pgMar, "right"); ok {
			s.Margins.Right = v
		}
		if v, ok := twipAttr(pgMar, "gutter"); ok {
			s.Margins.Gutter = v
		}
		if v, ok := twipAttr(pgMar, "header"); ok {
			s.HeaderDistance = v
		}
		if v, ok := twipAttr(pgMar, "footer"); ok {
			s.FooterDistance = v
		}
	}
	if childOf(sectPr, "titlePg") != nil {
		s.DifferentFirstPage = true
	}

	for _, ref := range childrenOf(sectPr, "headerReference") {
		story := rd.readStory(attrOf(ref, "id"))
		if story == nil {
			continue
		}
		if attrOf(ref, "type") == "first" {
			s.FirstPageHeader = story
		} else {
			s.Header = story
		}
	}
	for _, ref := range childrenOf(sectPr, "footerReference") {
		story := rd.readStory(attrOf(ref, "id"))
		if story == nil {
			continue
		}
		if attrOf(ref, "type") == "first" {
			s.FirstPageFooter = story
		} else {
			s.Footer = story
		}
	}

	// A section after the first with no reference of its own inherits the
	// previous section's story; that is what linked-to-previous means on
	// the wire.
	if len(rd.doc.sections) > 0 {
		if s.Header == nil {
			s.Header = &HeaderFooter{LinkedToPrevious: true}
		}
		if s.Footer == nil {
			s.Footer = &HeaderFooter{LinkedToPrevious: true}
		}
	}

	rd.doc.sections = append(rd.doc.sections, s)
}

func (rd *reader) readStory(relID string) *HeaderFooter {
	target, ok := rd.rels[relID]
	if !ok {
		return nil
	}
	root, err := rd.part("word/" + strings.TrimPrefix(target, "/word/"))
	if err != nil {
		return nil
	}
	story := &HeaderFooter{}
	storyRoot := childOfTree(root, "hdr")
	if storyRoot == nil {
		storyRoot = childOfTree(root, "ftr")
	}
	if storyRoot == nil {
		return nil
	}
	for _, pn := range childrenOf(storyRoot, "p") {
		story.paragraphs = append(story.paragraphs, rd.readParagraph(pn))
	}
	return story
}

func (rd *reader) readSettings() {
	root, err := rd.part("word/settings.xml")
	if err != nil {
		return
	}
	for _, v := range xmlquery.QuerySelectorAll(root, queryDocVars) {
		if name := attrOf(v, "name"); name != "" {
			rd.doc.variables[name] = attrOf(v, "val")
		}
	}
}

func (rd *reader) readNumbering() {
	root, err := rd.part("word/numbering.xml")
	if err != nil {
		return
	}
	for _, num := range xmlquery.QuerySelectorAll(root, queryNums) {
		numID := attrOf(num, "numId")
		if numID == "" {
			continue
		}
		abstract := ""
		if ref := childOf(num, "abstractNumId"); ref != nil {
			abstract = attrOf(ref, "val")
		}
		rd.doc.numbering = append(rd.doc.numbering, NumberingDef{NumID: numID, AbstractNumID: abstract})
	}
}

func (rd *reader) readCoreProps() {
	root, err := rd.part("docProps/core.xml")
	if err != nil {
		return
	}
	props := childOfTree(root, "coreProperties")
	if props == nil {
		return
	}
	cp := &rd.doc.core
	for _, c := range elementChildren(props) {
		text := strings.TrimSpace(c.InnerText())
		if text == "" {
			continue
		}
		switch c.Data {
		case "creator":
			cp.Author = text
		case "title":
			cp.Title = text
		case "subject":
			cp.Subject = text
		case "keywords":
			cp.Keywords = text
		case "description":
			cp.Comments = text
		case "category":
			cp.Category = text
		case "contentStatus":
			cp.ContentStatus = text
		case "identifier":
			cp.Identifier = text
		case "language":
			cp.Language = text
		case "lastModifiedBy":
			cp.LastModifiedBy = text
		case "revision":
			cp.Revision = text
		case "created":
			cp.Created = parseW3CDTF(text)
		case "modified":
			cp.Modified = parseW3CDTF(text)
		case "lastPrinted":
			cp.LastPrinted = parseW3CDTF(text)
		}
	}
}

func parseW3CDTF(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func (rd *reader) readCustomProps() {
	root, err := rd.part("docProps/custom.xml")
	if err != nil {
		return
	}
	for _, prop := range xmlquery.QuerySelectorAll(root, queryProperties) {
		name := attrOf(prop, "name")
		if name == "" {
			continue
		}
		for _, c := range elementChildren(prop) {
			if text := c.InnerText(); text != "" {
				rd.doc.custom[name] = text
				break
			}
		}
	}
}

// Exists reports whether path names a readable file. Shared convenience
// for the tool layer's precondition checks.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
