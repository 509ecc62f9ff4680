// Package edit implements the anchored-mutation engine: resolving a
// paragraph anchor by index or substring, inserting ordered blocks relative
// to it, rewriting a character sub-range of one paragraph, and document-wide
// search and replace.
//
// The range and replace operations are deliberately lossy: the container
// carries character formatting per run, and there is no split-run primitive,
// so a rewritten paragraph keeps only the formatting the rewrite itself
// assigns. Callers relying on pre-existing per-run formatting outside the
// edited span will lose it.
package edit

import (
	"strconv"
	"strings"

	"github.com/docxforge/docxforge/core/docx"
	"github.com/docxforge/docxforge/core/errors"
)

// Position places inserted blocks relative to the anchor paragraph.
type Position string

// Insertion positions.
const (
	Before Position = "before"
	After  Position = "after"
)

// ParsePosition maps a case-insensitive position name to a Position.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "before":
		return Before, true
	case "after":
		return After, true
	}
	return "", false
}

// Block is one paragraph-like unit to insert: its text and the named style
// it should carry.
type Block struct {
	Text  string
	Style string
}

// ResolveAnchor maps a (substring, explicit index) request to a concrete
// paragraph index. An explicit index wins and is validated against the
// current bounds, never clamped. Otherwise the first paragraph containing
// text is returned. Giving neither is a required-argument error raised
// before any resolution is attempted.
func ResolveAnchor(doc *docx.Document, text string, index *int) (int, error) {
	if index == nil && text == "" {
		return 0, errors.NewValidation("anchor", "either target text or target index is required")
	}
	if index != nil {
		if *index < 0 || *index >= len(doc.Paragraphs()) {
			return 0, errors.NewNotFound("paragraph index", strconv.Itoa(*index))
		}
		return *index, nil
	}
	for i, p := range doc.Paragraphs() {
		if strings.Contains(p.Text(), text) {
			return i, nil
		}
	}
	return 0, errors.NewNotFound("paragraph containing", text)
}

// InsertBlocks inserts blocks relative to the anchor paragraph so that the
// final in-document order matches the input order exactly.
//
// The model only has an insert-before primitive. For Before, inserting in
// forward sequence is already correct: each block lands between the
// previously inserted block and the anchor. For After, the blocks are
// inserted before the anchor's successor in forward order; when the anchor
// is the last paragraph they are appended instead.
func InsertBlocks(doc *docx.Document, anchor int, blocks []Block, pos Position) error {
	if anchor < 0 || anchor >= len(doc.Paragraphs()) {
		return errors.NewBounds("paragraph", anchor, len(doc.Paragraphs()))
	}
	switch pos {
	case Before:
		ref := anchor
		for _, b := range blocks {
			if _, err := doc.InsertParagraphBefore(ref, b.Text, blockStyle(b)); err != nil {
				return err
			}
			// The anchor shifted down by one; keep inserting before it.
			ref++
		}
	case After:
		succ := anchor + 1
		if succ >= len(doc.Paragraphs()) {
			for _, b := range blocks {
				doc.AddParagraphWithStyle(b.Text, blockStyle(b))
			}
			return nil
		}
		for _, b := range blocks {
			if _, err := doc.InsertParagraphBefore(succ, b.Text, blockStyle(b)); err != nil {
				return err
			}
			succ++
		}
	default:
		return errors.NewValidation("position", "must be before or after")
	}
	return nil
}

func blockStyle(b Block) string {
	if b.Style == "" {
		return docx.StyleNormal
	}
	return b.Style
}

// FormatRange rewrites the [start, end) character span of the paragraph at
// paraIdx with the given run overrides. End defaults to (zero or negative)
// and is clamped to the text length; start must satisfy 0 <= start < end.
//
// The paragraph is rebuilt as at most three runs: the prefix and suffix with
// no explicit formatting, the span with the overrides. Empty spans are
// omitted. Bounds failures mutate nothing.
func FormatRange(doc *docx.Document, paraIdx, start, end int, f docx.RunFormat) error {
	p, err := doc.Paragraph(paraIdx)
	if err != nil {
		return err
	}
	text := []rune(p.Text())
	if end <= 0 || end > len(text) {
		end = len(text)
	}
	if start < 0 || start >= end {
		return errors.NewValidation("range", "start must satisfy 0 <= start < end")
	}

	p.ClearRuns()
	if start > 0 {
		p.AddRun(string(text[:start]))
	}
	r := p.AddRun(string(text[start:end]))
	r.Format = f
	if end < len(text) {
		p.AddRun(string(text[end:]))
	}
	return nil
}

// ReplaceAll substitutes every occurrence of find with replace across the
// body paragraphs and then every table-cell paragraph, in document order.
// Matching is a plain, case-sensitive substring match. Each affected
// paragraph collapses to a single run holding the substituted text. The
// return value counts paragraphs modified, not occurrences replaced.
func ReplaceAll(doc *docx.Document, find, replace string) int {
	if find == "" {
		return 0
	}
	count := 0
	for _, p := range doc.Paragraphs() {
		if replaceInParagraph(p, find, replace) {
			count++
		}
	}
	for _, t := range doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if replaceInParagraph(p, find, replace) {
						count++
					}
				}
			}
		}
	}
	return count
}

func replaceInParagraph(p *docx.Paragraph, find, replace string) bool {
	text := p.Text()
	if !strings.Contains(text, find) {
		return false
	}
	p.SetText(strings.ReplaceAll(text, find, replace))
	return true
}
