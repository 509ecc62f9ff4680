package docx

import (
	"strings"

	"github.com/docxforge/docxforge/core/docx/units"
)

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignment values, matching the w:jc attribute.
const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// ParseAlignment maps a case-insensitive alignment name ("LEFT", "center",
// "JUSTIFY", ...) to an Alignment. Unknown names return false.
func ParseAlignment(s string) (Alignment, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT":
		return AlignLeft, true
	case "CENTER", "CENTRE":
		return AlignCenter, true
	case "RIGHT":
		return AlignRight, true
	case "JUSTIFY", "BOTH":
		return AlignJustify, true
	}
	return "", false
}

// ParagraphFormat holds paragraph-level overrides. Nil fields inherit from
// the paragraph's style.
type ParagraphFormat struct {
	Alignment       *Alignment
	LineSpacing     *float64
	SpaceBefore     *units.Length
	SpaceAfter      *units.Length
	FirstLineIndent *units.Length
	LeftIndent      *units.Length
	RightIndent     *units.Length
}

// RunFormat holds character-level overrides. Nil fields inherit from the
// style chain.
type RunFormat struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	Size      *units.Length
	Name      *string
	Color     *string // RRGGBB hex, no leading '#'
	Lang      *string // BCP 47 tag, e.g. "en-US"
}

// Run is a contiguous span of text sharing one set of character overrides.
// Runs have no existence outside their owning paragraph.
type Run struct {
	text   string
	Format RunFormat
}

// Text returns the run's text.
func (r *Run) Text() string {
	return r.text
}

// SetText replaces the run's text.
func (r *Run) SetText(text string) {
	r.text = text
}

// Paragraph is an ordered run sequence with a named style reference and
// optional paragraph-level overrides. Identity within a document is
// positional and unstable across insertions and deletions.
type Paragraph struct {
	style  string
	runs   []*Run
	Format ParagraphFormat
}

func newParagraph(text, style string) *Paragraph {
	p := &Paragraph{style: style}
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// Style returns the paragraph's style name.
func (p *Paragraph) Style() string {
	return p.style
}

// SetStyle points the paragraph at a different named style.
func (p *Paragraph) SetStyle(name string) {
	p.style = name
}

// Runs returns the paragraph's runs in order.
func (p *Paragraph) Runs() []*Run {
	return p.runs
}

// AddRun appends a run with no explicit formatting.
func (p *Paragraph) AddRun(text string) *Run {
	r := &Run{text: text}
	p.runs = append(p.runs, r)
	return r
}

// ClearRuns discards every run. The paragraph itself survives empty.
func (p *Paragraph) ClearRuns() {
	p.runs = nil
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	if len(p.runs) == 1 {
		return p.runs[0].text
	}
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// SetText collapses the paragraph to a single unformatted run holding text.
// Any per-run formatting the paragraph held is lost; the container carries
// styling per run, so a whole-text rewrite cannot preserve it.
func (p *Paragraph) SetText(text string) {
	p.runs = nil
	if text != "" {
		p.AddRun(text)
	}
}
