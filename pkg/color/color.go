// Package color provides the OKLCH color value used throughout themeforge.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Space identifies the color space a Color's coordinates are expressed in.
type Space string

// SpaceOKLCH is the only space themes are authored in.
const SpaceOKLCH Space = "oklch"

// Color is an immutable OKLCH color. Lightness is nominally in [0,1] but is
// stored unclamped; chroma is >= 0; hue is in degrees and may be NaN for
// achromatic colors. Alpha is in [0,1].
type Color struct {
	Space Space
	L     float64
	C     float64
	H     float64
	Alpha float64
}

// New returns an opaque OKLCH color.
func New(l, c, h float64) Color {
	return Color{Space: SpaceOKLCH, L: l, C: c, H: h, Alpha: 1}
}

// NewWithAlpha returns an OKLCH color with the given alpha.
func NewWithAlpha(l, c, h, alpha float64) Color {
	return Color{Space: SpaceOKLCH, L: l, C: c, H: h, Alpha: alpha}
}

// Coords returns the three coordinates in the color's declared space.
func (c Color) Coords() [3]float64 {
	return [3]float64{c.L, c.C, c.H}
}

// WithLightness returns a copy of c with lightness l.
func (c Color) WithLightness(l float64) Color {
	c.L = l
	return c
}

// WithChroma returns a copy of c with chroma ch.
func (c Color) WithChroma(ch float64) Color {
	c.C = ch
	return c
}

// WithHue returns a copy of c with hue h.
func (c Color) WithHue(h float64) Color {
	c.H = h
	return c
}

// WithAlpha returns a copy of c with alpha a.
func (c Color) WithAlpha(a float64) Color {
	c.Alpha = a
	return c
}

// Equal reports component-wise equality. NaN components compare equal to NaN
// so achromatic colors with a "none" hue are equal to themselves.
func (c Color) Equal(o Color) bool {
	return c.Space == o.Space &&
		sameFloat(c.L, o.L) &&
		sameFloat(c.C, o.C) &&
		sameFloat(c.H, o.H) &&
		sameFloat(c.Alpha, o.Alpha)
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// Clamp01 restricts v to the closed interval [0, 1]. NaN is returned as 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// CSS formats the color using CSS Color 4 syntax, e.g. "oklch(0.5 0.02 260)"
// or "oklch(0.5 0.02 260 / 0.5)" when alpha is below 1.
func (c Color) CSS() string {
	var b strings.Builder
	b.WriteString("oklch(")
	b.WriteString(formatComponent(c.L))
	b.WriteByte(' ')
	b.WriteString(formatComponent(c.C))
	b.WriteByte(' ')
	b.WriteString(formatComponent(c.H))
	if math.IsNaN(c.Alpha) || c.Alpha < 1 {
		b.WriteString(" / ")
		b.WriteString(formatComponent(c.Alpha))
	}
	b.WriteByte(')')
	return b.String()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.CSS()
}

func formatComponent(v float64) string {
	if math.IsNaN(v) {
		return "none"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Hex returns the nearest in-gamut sRGB color as "#rrggbb". Alpha is ignored.
func (c Color) Hex() string {
	h := c.H
	if math.IsNaN(h) {
		h = 0
	}
	ch := c.C
	if math.IsNaN(ch) {
		ch = 0
	}
	return colorful.OkLch(Clamp01(c.L), ch, h).Clamped().Hex()
}

// Parse reads a color in "oklch(L C H)" or "oklch(L C H / A)" form. L and A
// accept percentages; any component may be "none", which is read as NaN.
func Parse(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "oklch(") || !strings.HasSuffix(lower, ")") {
		return Color{}, fmt.Errorf("parse color %q: expected oklch(...)", s)
	}
	body := raw[len("oklch(") : len(raw)-1]

	alpha := 1.0
	if i := strings.IndexByte(body, '/'); i >= 0 {
		a, err := parseComponent(strings.TrimSpace(body[i+1:]), true)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q alpha: %w", s, err)
		}
		alpha = a
		body = body[:i]
	}

	fields := strings.Fields(strings.ReplaceAll(body, ",", " "))
	if len(fields) != 3 {
		return Color{}, fmt.Errorf("parse color %q: expected 3 components, got %d", s, len(fields))
	}

	var comps [3]float64
	for i, f := range fields {
		v, err := parseComponent(f, i == 0)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q component %d: %w", s, i+1, err)
		}
		comps[i] = v
	}
	return NewWithAlpha(comps[0], comps[1], comps[2], alpha), nil
}

func parseComponent(s string, percentOfOne bool) (float64, error) {
	if strings.EqualFold(s, "none") {
		return math.NaN(), nil
	}
	if strings.HasSuffix(s, "%") {
		if !percentOfOne {
			return 0, fmt.Errorf("percentage not allowed in %q", s)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	s = strings.TrimSuffix(s, "deg")
	return strconv.ParseFloat(s, 64)
}
