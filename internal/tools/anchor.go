package tools

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/core/edit"
	"github.com/docxforge/docxforge/core/errors"
	"github.com/docxforge/docxforge/internal/session"
)

func (r *Registry) registerAnchorTools() {
	r.register("insert_header_near_text",
		"Insert a heading before or after a paragraph located by text or index.",
		insertHeaderNearText)
	r.register("insert_line_or_paragraph_near_text",
		"Insert a paragraph before or after a paragraph located by text or index.",
		insertLineNearText)
	r.register("insert_numbered_list_near_text",
		"Insert a numbered list before or after a paragraph located by text or index.",
		insertNumberedListNearText)
	r.register("format_text",
		"Apply character formatting to a text range within a paragraph.",
		formatText)
	r.register("search_and_replace",
		"Replace every occurrence of a string across paragraphs and table cells.",
		searchAndReplace)
	r.register("create_custom_style",
		"Create a named style with the given font settings.",
		createCustomStyle)
}

// anchorArgs is the shared target shape of the near-text insertion tools.
type anchorArgs struct {
	Filename    string `json:"filename"`
	TargetText  string `json:"target_text"`
	TargetIndex *int   `json:"target_index"`
	Position    string `json:"position"`
}

func (a anchorArgs) position() edit.Position {
	if p, ok := edit.ParsePosition(a.Position); ok {
		return p
	}
	return edit.After
}

// anchorError renders the resolution failures of ResolveAnchor.
func anchorError(a anchorArgs, err error) string {
	switch {
	case stderrors.Is(err, errors.ErrInvalidInput):
		return "Either target_text or target_index must be provided."
	case a.TargetIndex != nil:
		return fmt.Sprintf("Paragraph index %d out of range.", *a.TargetIndex)
	}
	return fmt.Sprintf("Target text '%s' not found in document.", a.TargetText)
}

func insertNear(sess *session.Session, a anchorArgs, blocks []edit.Block) (int, error) {
	var anchor int
	err := sess.Mutate(a.Filename, func(doc *docx.Document) error {
		idx, err := edit.ResolveAnchor(doc, a.TargetText, a.TargetIndex)
		if err != nil {
			return err
		}
		anchor = idx
		return edit.InsertBlocks(doc, idx, blocks, a.position())
	})
	return anchor, err
}

func insertHeaderNearText(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		anchorArgs
		HeaderText string `json:"header_text"`
		Level      int    `json:"level"`
	}{Level: 1}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	block := edit.Block{Text: p.HeaderText, Style: docx.HeadingStyle(p.Level)}
	anchor, err := insertNear(sess, p.anchorArgs, []edit.Block{block})
	if err != nil {
		return mutationError(p.Filename, err, anchorError(p.anchorArgs, err)), nil
	}
	return fmt.Sprintf("Inserted heading level %d %s paragraph %d.", p.Level, p.position(), anchor), nil
}

func insertLineNearText(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		anchorArgs
		LineText string `json:"line_text"`
		Style    string `json:"style"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	block := edit.Block{Text: p.LineText, Style: p.Style}
	anchor, err := insertNear(sess, p.anchorArgs, []edit.Block{block})
	if err != nil {
		return mutationError(p.Filename, err, anchorError(p.anchorArgs, err)), nil
	}
	return fmt.Sprintf("Inserted paragraph %s paragraph %d.", p.position(), anchor), nil
}

func insertNumberedListNearText(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		anchorArgs
		ListItems []string `json:"list_items"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	blocks := make([]edit.Block, 0, len(p.ListItems))
	for _, item := range p.ListItems {
		blocks = append(blocks, edit.Block{Text: item, Style: docx.StyleListNumber})
	}
	anchor, err := insertNear(sess, p.anchorArgs, blocks)
	if err != nil {
		return mutationError(p.Filename, err, anchorError(p.anchorArgs, err)), nil
	}
	return fmt.Sprintf("Inserted %d list item(s) %s paragraph %d.", len(blocks), p.position(), anchor), nil
}

func formatText(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename       string           `json:"filename"`
		ParagraphIndex int              `json:"paragraph_index"`
		StartPos       int              `json:"start_pos"`
		EndPos         int              `json:"end_pos"`
		Bold           bool             `json:"bold"`
		Italic         bool             `json:"italic"`
		Underline      bool             `json:"underline"`
		FontSize       *units.Dimension `json:"font_size"`
		FontName       string           `json:"font_name"`
		Color          string           `json:"color"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	f := docx.RunFormat{
		Bold:      docx.Bool(p.Bold),
		Italic:    docx.Bool(p.Italic),
		Underline: docx.Bool(p.Underline),
	}
	if p.FontSize != nil {
		f.Size = docx.Len(p.FontSize.Length())
	}
	if p.FontName != "" {
		f.Name = docx.String(p.FontName)
	}
	if p.Color != "" {
		f.Color = docx.String(p.Color)
	}

	err := sess.Mutate(p.Filename, func(doc *docx.Document) error {
		return edit.FormatRange(doc, p.ParagraphIndex, p.StartPos, p.EndPos, f)
	})
	if err != nil {
		fallback := fmt.Sprintf("Paragraph index %d out of range.", p.ParagraphIndex)
		if stderrors.Is(err, errors.ErrInvalidInput) {
			fallback = fmt.Sprintf("Invalid range: start %d, end %d.", p.StartPos, p.EndPos)
		}
		return mutationError(p.Filename, err, fallback), nil
	}
	return fmt.Sprintf("Formatted text in paragraph %d from %d to %d.", p.ParagraphIndex, p.StartPos, p.EndPos), nil
}

func searchAndReplace(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename    string `json:"filename"`
		FindText    string `json:"find_text"`
		ReplaceText string `json:"replace_text"`
	}{}
	if err := decode(args, &p); err != nil {
		return nil, err
	}

	var count int
	err := sess.Mutate(p.Filename, func(doc *docx.Document) error {
		count = edit.ReplaceAll(doc, p.FindText, p.ReplaceText)
		return nil
	})
	if err != nil {
		return mutationError(p.Filename, err, fmt.Sprintf("Error: %v", err)), nil
	}
	return fmt.Sprintf("Replaced text in %d paragraph(s).", count), nil
}

func createCustomStyle(ctx context.Context, sess *session.Session, args json.RawMessage) (any, error) {
	p := struct {
		Filename  string           `json:"filename"`
		StyleName string           `json:"style_name"`
		BaseStyle string           `json:"base_style"`
		Bold      bool             `json:"bold"`
		Italic    bool             `json:"italic"`
		FontSize  *units.Dimension `json:"font_size"`
		FontName  string           `json:"font_name"`
		Color     string           `json:"color"`
	}{BaseStyle: docx.StyleNormal}
	if err := decode(args, &p); err != nil {
		return nil, err
	}
	if p.StyleName == "" {
		return "Style name must not be empty.", nil
	}

	err := sess.Mutate(p.Filename, func(doc *docx.Document) error {
		st, err := doc.Styles().Add(p.StyleName, docx.StyleTypeParagraph, p.BaseStyle)
		if err != nil {
			return err
		}
		st.Font.Bold = docx.Bool(p.Bold)
		st.Font.Italic = docx.Bool(p.Italic)
		if p.FontSize != nil {
			st.Font.Size = docx.Len(p.FontSize.Length())
		}
		if p.FontName != "" {
			st.Font.Name = docx.String(p.FontName)
		}
		if p.Color != "" {
			st.Font.Color = docx.String(p.Color)
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrAlreadyExists) {
			return fmt.Sprintf("Style '%s' already exists.", p.StyleName), nil
		}
		return mutationError(p.Filename, err, fmt.Sprintf("Error: %v", err)), nil
	}
	return fmt.Sprintf("Created custom style '%s'.", p.StyleName), nil
}
