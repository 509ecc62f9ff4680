// Package snapshot extracts a normalized, JSON-serializable projection of a
// document's formatting-relevant state and applies such a projection back to
// a fresh document.
//
// The snapshot is defaulting-aware: only non-default attributes are recorded,
// so absence of a key is the semantic default, never an unknown value. Table
// content and numbering in a snapshot are diagnostic only and are never
// replayed by Apply.
package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/docxforge/docxforge/core/errors"
)

// Snapshot is the extractor's output and the applicator's input. It is a
// value object, not bound to any live document.
type Snapshot struct {
	SourceFile          string                   `json:"source_file,omitempty"`
	ExtractionTimestamp string                   `json:"extraction_timestamp,omitempty"`
	CoreProperties      map[string]string        `json:"core_properties,omitempty"`
	CustomProperties    map[string]string        `json:"custom_properties,omitempty"`
	DocumentVariables   map[string]string        `json:"document_variables,omitempty"`
	Sections            []SectionInfo            `json:"sections,omitempty"`
	Styles              *StylesInfo              `json:"styles,omitempty"`
	Numbering           map[string]NumberingInfo `json:"numbering,omitempty"`
	HeadersFooters      *HeadersFooters          `json:"headers_footers,omitempty"`
	Tables              []TableInfo              `json:"tables,omitempty"`
	ParagraphsCount     int                      `json:"paragraphs_count"`
	TablesCount         int                      `json:"tables_count"`
}

// SectionInfo is one section's geometry. Margins carry both metric and
// point representations so a consumer can reconstruct with either unit
// system. Orientation is "landscape" only when the section reports it.
type SectionInfo struct {
	Index              int                `json:"index"`
	PageWidth          *float64           `json:"page_width,omitempty"` // points
	PageHeight         *float64           `json:"page_height,omitempty"`
	Orientation        string             `json:"orientation"`
	Margins            map[string]float64 `json:"margins,omitempty"`
	HeaderFooter       map[string]float64 `json:"header_footer,omitempty"`
	DifferentFirstPage bool               `json:"different_first_page"`
}

// StylesInfo groups extracted styles by style type.
type StylesInfo struct {
	ParagraphStyles map[string]StyleInfo `json:"paragraph_styles"`
	CharacterStyles map[string]StyleInfo `json:"character_styles"`
	TableStyles     map[string]StyleInfo `json:"table_styles"`
	ListStyles      map[string]StyleInfo `json:"list_styles"`
}

// StyleInfo holds one style's non-default attributes. Empty sub-objects are
// omitted entirely rather than serialized empty.
type StyleInfo struct {
	StyleID         string    `json:"style_id,omitempty"`
	Font            *FontInfo `json:"font,omitempty"`
	ParagraphFormat *ParaInfo `json:"paragraph_format,omitempty"`
}

// FontInfo records character-level defaults. Bold and italic appear only
// when true; underline only when set.
type FontInfo struct {
	Name      string   `json:"name,omitempty"`
	SizePt    *float64 `json:"size_pt,omitempty"`
	Bold      bool     `json:"bold,omitempty"`
	Italic    bool     `json:"italic,omitempty"`
	Underline bool     `json:"underline,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// ParaInfo records paragraph-format defaults. Line spacing appears only when
// different from single spacing; spacings and indents only when non-zero.
type ParaInfo struct {
	Alignment         string   `json:"alignment,omitempty"`
	LineSpacing       *float64 `json:"line_spacing,omitempty"`
	SpaceBeforePt     *float64 `json:"space_before_pt,omitempty"`
	SpaceAfterPt      *float64 `json:"space_after_pt,omitempty"`
	FirstLineIndentMm *float64 `json:"first_line_indent_mm,omitempty"`
	LeftIndentMm      *float64 `json:"left_indent_mm,omitempty"`
	RightIndentMm     *float64 `json:"right_indent_mm,omitempty"`
}

// NumberingInfo maps a concrete numbering id to its abstract definition.
type NumberingInfo struct {
	AbstractNumID string `json:"abstract_num_id,omitempty"`
}

// HeadersFooters holds header and footer text keyed by "section_N", with a
// "_first" suffix for different-first-page stories.
type HeadersFooters struct {
	Headers map[string]string `json:"headers,omitempty"`
	Footers map[string]string `json:"footers,omitempty"`
}

// TableInfo is a diagnostic table summary: dimensions plus truncated cell
// text for inspection, not for reconstruction.
type TableInfo struct {
	Index   int          `json:"index"`
	Rows    int          `json:"rows"`
	Columns int          `json:"columns"`
	Cells   [][]CellInfo `json:"cells,omitempty"`
}

// CellInfo is one cell's position and truncated text.
type CellInfo struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// EncodeJSON renders the snapshot. Compact suppresses indentation; it never
// changes which keys are present.
func (s *Snapshot) EncodeJSON(compact bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s); err != nil {
		return nil, errors.Wrap(err, "encode snapshot")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses snapshot JSON. Unknown keys are ignored; a missing key is a
// default, not an error.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewParse("snapshot JSON", "", err.Error())
	}
	return &s, nil
}
