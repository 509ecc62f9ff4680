package docx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docxforge/docxforge/core/docx/units"
	"github.com/docxforge/docxforge/core/errors"
)

// StyleType classifies a style.
type StyleType string

// Style types, matching the w:style w:type attribute.
const (
	StyleTypeParagraph StyleType = "paragraph"
	StyleTypeCharacter StyleType = "character"
	StyleTypeTable     StyleType = "table"
	StyleTypeList      StyleType = "numbering"
)

// Well-known built-in style names.
const (
	StyleNormal     = "Normal"
	StyleTitle      = "Title"
	StyleListBullet = "List Bullet"
	StyleListNumber = "List Number"
)

// HeadingStyle returns the built-in heading style name for a level.
func HeadingStyle(level int) string {
	return fmt.Sprintf("Heading %d", level)
}

// Style is a named bundle of font and paragraph-format defaults, optionally
// based on another style. Identity is the name; styles are shared by
// reference and never owned by the paragraphs that use them.
type Style struct {
	Name    string
	ID      string
	Type    StyleType
	BasedOn string
	Hidden  bool
	Font    RunFormat
	Para    ParagraphFormat
}

// Styles is a document's style collection, keyed by name.
type Styles struct {
	byName map[string]*Style
	order  []string
}

func newStyles() *Styles {
	return &Styles{byName: make(map[string]*Style)}
}

// Get returns the named style.
func (s *Styles) Get(name string) (*Style, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// All returns every style in insertion order.
func (s *Styles) All() []*Style {
	out := make([]*Style, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Names returns the style names sorted alphabetically.
func (s *Styles) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	sort.Strings(names)
	return names
}

// Add creates a new style. Creating a style with an existing name is an
// error, not an overwrite. A non-empty baseStyle must already exist.
func (s *Styles) Add(name string, typ StyleType, baseStyle string) (*Style, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewValidation("style name", "must not be empty")
	}
	if _, exists := s.byName[name]; exists {
		return nil, errors.Wrapf(errors.ErrAlreadyExists, "style %q", name)
	}
	if baseStyle != "" {
		if _, ok := s.byName[baseStyle]; !ok {
			return nil, errors.NewNotFound("base style", baseStyle)
		}
	}
	st := &Style{
		Name:    name,
		ID:      styleID(name),
		Type:    typ,
		BasedOn: baseStyle,
	}
	s.byName[name] = st
	s.order = append(s.order, name)
	return st, nil
}

// styleID derives a styleId the way the container does: the name with
// spaces removed.
func styleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// builtinStyles is the style set every fresh document starts with. It
// mirrors the defaults of the reference container library: Normal, nine
// heading levels, Title and the two list styles.
func builtinStyles() *Styles {
	s := newStyles()

	normal, _ := s.Add(StyleNormal, StyleTypeParagraph, "")
	normal.Font.Name = String("Calibri")
	normal.Font.Size = Len(units.Pt(11))

	for level := 1; level <= 9; level++ {
		h, _ := s.Add(HeadingStyle(level), StyleTypeParagraph, StyleNormal)
		h.Font.Bold = Bool(true)
		switch level {
		case 1:
			h.Font.Size = Len(units.Pt(16))
		case 2:
			h.Font.Size = Len(units.Pt(13))
		default:
			h.Font.Size = Len(units.Pt(11))
		}
		// Levels past 4 ship hidden until used, as the reference set does.
		if level > 4 {
			h.Hidden = true
		}
	}

	title, _ := s.Add(StyleTitle, StyleTypeParagraph, StyleNormal)
	title.Font.Size = Len(units.Pt(28))

	s.Add(StyleListBullet, StyleTypeParagraph, StyleNormal) //nolint:errcheck // fresh collection
	s.Add(StyleListNumber, StyleTypeParagraph, StyleNormal) //nolint:errcheck // fresh collection

	return s
}
