// Package units provides unit-aware length measurements for WordprocessingML.
//
// Lengths are stored in English Metric Units (EMU), the native unit of the
// OOXML format: 914400 EMU per inch, 360000 EMU per centimeter. All other
// representations (points, millimeters, twips) are derived views.
package units

import (
	"math"
)

// Length is a physical length stored in EMUs.
type Length int64

// EMU conversion factors.
const (
	EMUPerInch = 914400
	EMUPerPt   = 12700
	EMUPerCm   = 360000
	EMUPerMm   = 36000
	EMUPerTwip = 635
)

// Zero is the zero length.
const Zero Length = 0

// Pt constructs a Length from points.
func Pt(pt float64) Length {
	return Length(math.Round(pt * EMUPerPt))
}

// Mm constructs a Length from millimeters.
func Mm(mm float64) Length {
	return Length(math.Round(mm * EMUPerMm))
}

// Cm constructs a Length from centimeters.
func Cm(cm float64) Length {
	return Length(math.Round(cm * EMUPerCm))
}

// Inch constructs a Length from inches.
func Inch(in float64) Length {
	return Length(math.Round(in * EMUPerInch))
}

// Twip constructs a Length from twentieths of a point, the unit used by
// most WordprocessingML attributes (w:w, w:sz for borders excepted).
func Twip(tw float64) Length {
	return Length(math.Round(tw * EMUPerTwip))
}

// EMU constructs a Length from raw EMUs.
func EMU(emu int64) Length {
	return Length(emu)
}

// Pt returns the length in points.
func (l Length) Pt() float64 {
	return float64(l) / EMUPerPt
}

// Mm returns the length in millimeters.
func (l Length) Mm() float64 {
	return float64(l) / EMUPerMm
}

// Cm returns the length in centimeters.
func (l Length) Cm() float64 {
	return float64(l) / EMUPerCm
}

// Inch returns the length in inches.
func (l Length) Inch() float64 {
	return float64(l) / EMUPerInch
}

// Twips returns the length in twentieths of a point, rounded to the nearest
// whole twip as the wire format requires.
func (l Length) Twips() int64 {
	return int64(math.Round(float64(l) / EMUPerTwip))
}

// EMU returns the raw EMU value.
func (l Length) EMU() int64 {
	return int64(l)
}

// HalfPoints returns the length in half-points, the unit of w:sz run sizes.
func (l Length) HalfPoints() int64 {
	return int64(math.Round(l.Pt() * 2))
}
