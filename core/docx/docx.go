// Package docx provides an in-memory WordprocessingML document tree with
// read/write access to paragraphs, runs, styles, tables, sections and
// document properties, persisted to and from the OOXML zip container.
//
// The model follows the container's own shape: a document body holds an
// ordered paragraph sequence and an ordered table sequence, styles are
// shared by name, and every formatting attribute is an optional override
// (nil means "inherit from the style chain").
package docx

import (
	"time"

	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/core/errors"
)

// Document is a single in-memory document. It is not safe for concurrent
// use; callers own the single-writer contract.
type Document struct {
	paragraphs []*Paragraph
	tables     []*Table
	styles     *Styles
	sections   []*Section

	core      CoreProperties
	custom    map[string]string
	variables map[string]string
	numbering []NumberingDef
}

// NumberingDef maps a concrete numbering id to its abstract definition.
type NumberingDef struct {
	NumID         string
	AbstractNumID string
}

// New creates an empty document with the built-in style set and one
// default section (A4 portrait, one-inch margins).
func New() *Document {
	return &Document{
		styles:    builtinStyles(),
		sections:  []*Section{defaultSection()},
		custom:    make(map[string]string),
		variables: make(map[string]string),
	}
}

// Paragraphs returns the body paragraphs in document order. The slice is
// live; indexes into it are unstable across insertions and deletions.
func (d *Document) Paragraphs() []*Paragraph {
	return d.paragraphs
}

// Paragraph returns the body paragraph at index.
func (d *Document) Paragraph(index int) (*Paragraph, error) {
	if index < 0 || index >= len(d.paragraphs) {
		return nil, errors.NewBounds("paragraph", index, len(d.paragraphs))
	}
	return d.paragraphs[index], nil
}

// AddParagraph appends a body paragraph with the Normal style. If text is
// non-empty it becomes the paragraph's single run.
func (d *Document) AddParagraph(text string) *Paragraph {
	return d.AddParagraphWithStyle(text, StyleNormal)
}

// AddParagraphWithStyle appends a body paragraph carrying the named style.
func (d *Document) AddParagraphWithStyle(text, style string) *Paragraph {
	p := newParagraph(text, style)
	d.paragraphs = append(d.paragraphs, p)
	return p
}

// AddHeading appends a heading paragraph. Levels outside 1..9 are clamped,
// matching the container's heading style set.
func (d *Document) AddHeading(text string, level int) *Paragraph {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	return d.AddParagraphWithStyle(text, HeadingStyle(level))
}

// InsertParagraphBefore inserts a new paragraph immediately before the
// paragraph at index. This is the only insertion primitive; insert-after
// is composed from it by the edit layer.
func (d *Document) InsertParagraphBefore(index int, text, style string) (*Paragraph, error) {
	if index < 0 || index >= len(d.paragraphs) {
		return nil, errors.NewBounds("paragraph", index, len(d.paragraphs))
	}
	p := newParagraph(text, style)
	d.paragraphs = append(d.paragraphs, nil)
	copy(d.paragraphs[index+1:], d.paragraphs[index:])
	d.paragraphs[index] = p
	return p, nil
}

// DeleteParagraph removes the body paragraph at index.
func (d *Document) DeleteParagraph(index int) error {
	if index < 0 || index >= len(d.paragraphs) {
		return errors.NewBounds("paragraph", index, len(d.paragraphs))
	}
	d.paragraphs = append(d.paragraphs[:index], d.paragraphs[index+1:]...)
	return nil
}

// Tables returns the document's tables in order.
func (d *Document) Tables() []*Table {
	return d.tables
}

// Table returns the table at index.
func (d *Document) Table(index int) (*Table, error) {
	if index < 0 || index >= len(d.tables) {
		return nil, errors.NewBounds("table", index, len(d.tables))
	}
	return d.tables[index], nil
}

// AddTable appends a rows x cols table. Every cell starts with one empty
// paragraph; partial grids are not representable.
func (d *Document) AddTable(rows, cols int, style string) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.NewValidation("table", "rows and cols must be at least 1")
	}
	t := newTable(rows, cols, style)
	d.tables = append(d.tables, t)
	return t, nil
}

// Styles returns the document's style collection.
func (d *Document) Styles() *Styles {
	return d.styles
}

// Sections returns the document's sections in order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// AddSection appends a new section copying the geometry of the last one.
func (d *Document) AddSection() *Section {
	s := defaultSection()
	if n := len(d.sections); n > 0 {
		clone := *d.sections[n-1]
		clone.Header = nil
		clone.Footer = nil
		clone.FirstPageHeader = nil
		clone.FirstPageFooter = nil
		s = &clone
	}
	d.sections = append(d.sections, s)
	return s
}

// Core returns the document's core properties for reading and writing.
func (d *Document) Core() *CoreProperties {
	return &d.core
}

// CustomProperties returns the user-defined property map. The map is live.
func (d *Document) CustomProperties() map[string]string {
	return d.custom
}

// Variables returns the document variables stored in settings. The map is live.
func (d *Document) Variables() map[string]string {
	return d.variables
}

// Numbering returns the numbering definitions.
func (d *Document) Numbering() []NumberingDef {
	return d.numbering
}

// AddNumbering records a numbering definition.
func (d *Document) AddNumbering(numID, abstractNumID string) {
	d.numbering = append(d.numbering, NumberingDef{NumID: numID, AbstractNumID: abstractNumID})
}

// Touch updates the modified timestamp. Save calls this; explicit callers
// may as well.
func (d *Document) Touch(now time.Time) {
	t := now.UTC()
	d.core.Modified = &t
	if d.core.Created == nil {
		d.core.Created = &t
	}
}

// Pointer helpers for optional formatting overrides.

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float64 returns a pointer to f.
func Float64(f float64) *float64 { return &f }

// Len returns a pointer to l.
func Len(l units.Length) *units.Length { return &l }
