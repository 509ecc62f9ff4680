package units

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// measurementGrammar is the participle grammar for measurement literals.
// Examples: "14pt", "12.7mm", "2.54cm", "1in", "240twip", "12" (bare points)
//
//nolint:govet // participle grammar tags are not standard struct tags
type measurementGrammar struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@Unit?"`
}

// measurementLexer defines the lexer for measurement literals.
var measurementLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Unit", Pattern: `[a-z]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// measurementParser is the participle parser for measurement literals.
var measurementParser = participle.MustBuild[measurementGrammar](
	participle.Lexer(measurementLexer),
	participle.Elide("Whitespace"),
)

// Parse parses a measurement literal such as "14pt", "12.7mm", "2.54cm",
// "1in" or "240twip". A bare number is interpreted as points, matching the
// most common unit in tool arguments.
func Parse(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty measurement string")
	}

	parsed, err := measurementParser.ParseString("", s)
	if err != nil {
		return 0, fmt.Errorf("invalid measurement: %q: %w", s, err)
	}

	switch parsed.Unit {
	case "", "pt":
		return Pt(parsed.Value), nil
	case "mm":
		return Mm(parsed.Value), nil
	case "cm":
		return Cm(parsed.Value), nil
	case "in", "inch":
		return Inch(parsed.Value), nil
	case "twip", "twips":
		return Twip(parsed.Value), nil
	case "emu":
		return EMU(int64(parsed.Value)), nil
	default:
		return 0, fmt.Errorf("unknown measurement unit: %q", parsed.Unit)
	}
}

// Dimension is a measurement arriving in a JSON argument. It decodes from a
// bare number, read as points, or from a measurement literal string such as
// "14pt" or "12.7mm".
type Dimension Length

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l, err := Parse(s)
		if err != nil {
			return err
		}
		*d = Dimension(l)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Dimension(Pt(v))
	return nil
}

// Length returns the decoded measurement.
func (d Dimension) Length() Length {
	return Length(d)
}
