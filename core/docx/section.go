package docx

import (
	"github.com/docxforge/docxforge/core/docx/units"
)

// Orientation is a page orientation.
type Orientation string

// Page orientations, matching w:orient.
const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Margins is a section's page margins.
type Margins struct {
	Top    units.Length
	Bottom units.Length
	Left   units.Length
	Right  units.Length
	Gutter units.Length
}

// HeaderFooter is one header or footer story: a paragraph sequence plus
// the linked-to-previous flag. A nil HeaderFooter on a section means the
// story does not exist at all.
type HeaderFooter struct {
	LinkedToPrevious bool
	paragraphs       []*Paragraph
}

// NewHeaderFooter creates an empty, unlinked header/footer story.
func NewHeaderFooter() *HeaderFooter {
	return &HeaderFooter{}
}

// Paragraphs returns the story's paragraphs in order.
func (hf *HeaderFooter) Paragraphs() []*Paragraph {
	return hf.paragraphs
}

// AddParagraph appends a paragraph to the story.
func (hf *HeaderFooter) AddParagraph(text string) *Paragraph {
	p := newParagraph(text, StyleNormal)
	hf.paragraphs = append(hf.paragraphs, p)
	return p
}

// Section is one page-geometry region: page size, orientation, margins,
// header/footer distances and the header/footer stories.
type Section struct {
	PageWidth  units.Length
	PageHeight units.Length
	Orient     Orientation
	Margins    Margins

	HeaderDistance units.Length
	FooterDistance units.Length

	DifferentFirstPage bool

	Header          *HeaderFooter
	Footer          *HeaderFooter
	FirstPageHeader *HeaderFooter
	FirstPageFooter *HeaderFooter
}

// defaultSection returns A4 portrait with one-inch margins, the geometry a
// fresh container starts with.
func defaultSection() *Section {
	return &Section{
		PageWidth:  units.Mm(210),
		PageHeight: units.Mm(297),
		Orient:     Portrait,
		Margins: Margins{
			Top:    units.Inch(1),
			Bottom: units.Inch(1),
			Left:   units.Inch(1),
			Right:  units.Inch(1),
		},
		HeaderDistance: units.Inch(0.5),
		FooterDistance: units.Inch(0.5),
	}
}

// SetOrientation sets the page orientation, swapping width and height when
// the orientation actually changes.
func (s *Section) SetOrientation(o Orientation) {
	if s.Orient == o {
		return
	}
	s.Orient = o
	s.PageWidth, s.PageHeight = s.PageHeight, s.PageWidth
}
