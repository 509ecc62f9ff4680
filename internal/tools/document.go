package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/internal/logging"
	"github.com/docxforge/docxforge/internal/session"
)

const (
	noDocument         = "No active document. Call create_document first."
	noDocumentOrLoad   = "No active document. Call create_document or load_template first."
	noDocumentProvided = "No document loaded. Provide a filename or create a document first."
)

// applyDefaultStyles installs the house defaults on a fresh document:
// justified 14pt Times New Roman body with first-line indents, centered
// non-bold 16pt headings with single spacing.
func applyDefaultStyles(doc *docx.Document) {
	normal, _ := doc.Styles().Get(docx.StyleNormal)
	normal.Font.Name = docx.String("Times New Roman")
	normal.Font.Size = docx.Len(units.Pt(14))
	normal.Font.Color = docx.String("000000")
	justify := docx.AlignJustify
	normal.Para.Alignment = &justify
	normal.Para.LineSpacing = docx.Float64(1.15)
	normal.Para.SpaceAfter = docx.Len(units.Pt(12))
	normal.Para.FirstLineIndent = docx.Len(units.Mm(12.7))

	for _, name := range []string{"Heading 1", "Heading 2"} {
		h, _ := doc.Styles().Get(name)
		h.Font.Name = docx.String("Times New Roman")
		h.Font.Size = docx.Len(units.Pt(16))
		h.Font.Bold = docx.Bool(false)
		h.Font.Color = docx.String("000000")
		center := docx.AlignCenter
		h.Para.Alignment = &center
		h.Para.SpaceBefore = docx.Len(units.Pt(0))
		h.Para.SpaceAfter = docx.Len(units.Pt(12))
		h.Para.LineSpacing = docx.Float64(1.0)
		h.Para.FirstLineIndent = docx.Len(units.Mm(0))
	}
}

func (r *Registry) registerDocumentTools() {
	r.register("create_document",
		"Create a new document with the default styles and margins; it becomes the current document.",
		createDocument)
	r.register("add_heading",
		"Add a heading paragraph to the current document.",
		addHeading)
	r.register("add_heading_custom",
		"Add a heading with an optional custom font size.",
		addHeadingCustom)
	r.register("add_paragraph",
		"Add a body paragraph with optional alignment and first-line indent control.",
		addParagraph)
	r.register("add_formatted_text",
		"Append a formatted run to a paragraph by index (-1 for the last paragraph).",
		addFormattedText)
	r.register("add_list_item",
		"Add a list item using the List Bullet or List Number style.",
		addListItem)
	r.register("save_document",
		"Save the current document to the given filename or the one set at creation.",
		saveDocument)
	r.register("load_template",
		"Load an existing document as the current document.",
		loadTemplate)
	r.register("set_core_property",
		"Set a core property (author, title, subject, ...) on the current document.",
		setCoreProperty)
	r.register("set_custom_property",
		"Set a custom property on the current document (not fully supported).",
		setCustomProperty)
	r.register("get_document_structure",
		"Summarize headings, paragraphs and tables of the current or named document.",
		getDocumentStructure)
	r.register("delete_paragraph",
		"Delete the paragraph at the given index.",
		deleteParagraph)
}

func createDocument(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename string `json:"filename"`
	}{Filename: "document.docx"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	doc := docx.New()
	for _, s := range doc.Sections() {
		s.Margins.Top = units.Mm(15)
		s.Margins.Bottom = units.Mm(15)
		s.Margins.Left = units.Mm(20)
		s.Margins.Right = units.Mm(20)
	}
	applyDefaultStyles(doc)
	sess.Replace(doc, p.Filename)
	logging.DocumentEvent("created", p.Filename)

	return fmt.Sprintf("Created new document. Ready to save to %s.", p.Filename), nil
}

func addHeading(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Text  string `json:"text"`
		Level int    `json:"level"`
	}{Level: 1}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}
	sess.Current().AddHeading(p.Text, p.Level)
	return fmt.Sprintf("Added heading level %d: '%s'", p.Level, p.Text), nil
}

func addHeadingCustom(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Text     string           `json:"text"`
		Level    int              `json:"level"`
		FontSize *units.Dimension `json:"font_size"`
	}{Level: 1}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}
	h := sess.Current().AddHeading(p.Text, p.Level)
	if p.FontSize != nil {
		for _, run := range h.Runs() {
			run.Format.Size = docx.Len(p.FontSize.Length())
		}
	}
	return fmt.Sprintf("Added custom heading level %d: '%s'", p.Level, p.Text), nil
}

func addParagraph(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Text            string `json:"text"`
		Alignment       string `json:"alignment"`
		IndentFirstLine *bool  `json:"indent_first_line"`
	}{Alignment: "JUSTIFY"}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}

	para := sess.Current().AddParagraph(p.Text)
	if a, ok := docx.ParseAlignment(p.Alignment); ok {
		para.Format.Alignment = &a
	}
	if p.IndentFirstLine != nil && !*p.IndentFirstLine {
		para.Format.FirstLineIndent = docx.Len(units.Mm(0))
	}
	return fmt.Sprintf("Added paragraph starting with: '%s...'", headRunes(p.Text, 30)), nil
}

func addFormattedText(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		ParagraphIndex int              `json:"paragraph_index"`
		Text           string           `json:"text"`
		Bold           bool             `json:"bold"`
		Italic         bool             `json:"italic"`
		FontSize       *units.Dimension `json:"font_size"`
		Lang           string           `json:"lang"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}

	doc := sess.Current()
	idx := p.ParagraphIndex
	if idx < 0 {
		idx += len(doc.Paragraphs())
	}
	para, err := doc.Paragraph(idx)
	if err != nil {
		return fmt.Sprintf("Paragraph index %d out of range.", p.ParagraphIndex), nil
	}

	run := para.AddRun(p.Text)
	run.Format.Bold = docx.Bool(p.Bold)
	run.Format.Italic = docx.Bool(p.Italic)
	if p.FontSize != nil {
		run.Format.Size = docx.Len(p.FontSize.Length())
	}
	if p.Lang != "" {
		run.Format.Lang = docx.String(p.Lang)
	}
	return fmt.Sprintf("Appended formatted text to paragraph %d.", p.ParagraphIndex), nil
}

func addListItem(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Text  string `json:"text"`
		Style string `json:"style"`
	}{Style: docx.StyleListBullet}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}
	sess.Current().AddParagraphWithStyle(p.Text, p.Style)
	return "Added list item.", nil
}

func saveDocument(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename string `json:"filename"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocument, nil
	}
	if p.Filename == "" && sess.Path() == "" {
		return "No filename specified.", nil
	}
	path, err := sess.Save(p.Filename)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	logging.DocumentEvent("saved", path)
	return fmt.Sprintf("Document saved to %s", path), nil
}

func loadTemplate(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename string `json:"filename"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !docx.Exists(p.Filename) {
		return fmt.Sprintf("Error: File not found: %s", p.Filename), nil
	}
	doc, err := docx.Open(p.Filename)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	sess.Replace(doc, p.Filename)
	logging.DocumentEvent("loaded", p.Filename)
	return fmt.Sprintf("Template loaded from %s. Document is ready for modifications.", p.Filename), nil
}

// coreSettable is the property set the setter accepts, in the order the
// rejection message lists them. "status" and "version" map onto the content
// status and revision fields.
var coreSettable = []string{
	"author", "title", "subject", "keywords", "comments", "category",
	"content_status", "identifier", "language", "status", "version",
}

func setCoreProperty(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		PropertyName string `json:"property_name"`
		Value        string `json:"value"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocumentOrLoad, nil
	}

	valid := false
	for _, name := range coreSettable {
		if p.PropertyName == name {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Sprintf("Invalid property. Valid properties are: %s", strings.Join(coreSettable, ", ")), nil
	}

	name := p.PropertyName
	switch name {
	case "status":
		name = "content_status"
	case "version":
		name = "revision"
	}
	if err := sess.Current().Core().Set(name, p.Value); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return fmt.Sprintf("Set %s to '%s'", p.PropertyName, p.Value), nil
}

// setCustomProperty is the documented no-op: the capability is intentionally
// incomplete, and the informational message makes that explicit instead of
// silently dropping the write.
func setCustomProperty(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		PropertyName string `json:"property_name"`
		Value        string `json:"value"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if !sess.HasDocument() {
		return noDocumentOrLoad, nil
	}
	return fmt.Sprintf("Custom property '%s' noted. Note: Full custom property support requires additional XML handling.", p.PropertyName), nil
}

func getDocumentStructure(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename string `json:"filename"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	type headingEntry struct {
		Index int    `json:"index"`
		Level string `json:"level"`
		Text  string `json:"text"`
	}
	type paragraphEntry struct {
		Index       int    `json:"index"`
		Style       string `json:"style"`
		TextPreview string `json:"text_preview"`
	}
	structure := struct {
		Headings    []headingEntry   `json:"headings"`
		Paragraphs  []paragraphEntry `json:"paragraphs"`
		TablesCount int              `json:"tables_count"`
	}{Headings: []headingEntry{}, Paragraphs: []paragraphEntry{}}

	err := sess.View(p.Filename, func(doc *docx.Document) error {
		structure.TablesCount = len(doc.Tables())
		for i, para := range doc.Paragraphs() {
			switch {
			case strings.HasPrefix(para.Style(), "Heading"):
				structure.Headings = append(structure.Headings, headingEntry{
					Index: i,
					Level: para.Style(),
					Text:  truncateRunes(para.Text(), 100),
				})
			case strings.TrimSpace(para.Text()) != "":
				structure.Paragraphs = append(structure.Paragraphs, paragraphEntry{
					Index:       i,
					Style:       para.Style(),
					TextPreview: truncateRunes(para.Text(), 50),
				})
			}
		}
		return nil
	})
	if err != nil {
		return extractionError(p.Filename, err), nil
	}
	out, err := indentJSON(structure, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func deleteParagraph(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename       string `json:"filename"`
		ParagraphIndex int    `json:"paragraph_index"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	err := sess.Mutate(p.Filename, func(doc *docx.Document) error {
		return doc.DeleteParagraph(p.ParagraphIndex)
	})
	if err != nil {
		return mutationError(p.Filename, err,
			fmt.Sprintf("Paragraph index %d out of range.", p.ParagraphIndex)), nil
	}
	return fmt.Sprintf("Deleted paragraph %d.", p.ParagraphIndex), nil
}

// headRunes returns the first limit runes of s without an ellipsis.
func headRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
