package color

import (
	"math"
	"testing"
)

func TestNew_DefaultsToOpaqueOKLCH(t *testing.T) {
	c := New(0.5, 0.02, 260)
	if c.Space != SpaceOKLCH {
		t.Errorf("Space = %q, want %q", c.Space, SpaceOKLCH)
	}
	if c.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", c.Alpha)
	}
	if got := c.Coords(); got != [3]float64{0.5, 0.02, 260} {
		t.Errorf("Coords() = %v", got)
	}
}

func TestWith_ReturnsCopies(t *testing.T) {
	base := New(0.5, 0.1, 200)
	lighter := base.WithLightness(0.9)

	if base.L != 0.5 {
		t.Errorf("base mutated: L = %v", base.L)
	}
	if lighter.L != 0.9 || lighter.C != 0.1 || lighter.H != 200 {
		t.Errorf("lighter = %+v", lighter)
	}
	if got := base.WithAlpha(0.3).Alpha; got != 0.3 {
		t.Errorf("WithAlpha = %v", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Color
		want bool
	}{
		{name: "identical", a: New(0.5, 0.1, 20), b: New(0.5, 0.1, 20), want: true},
		{name: "different_lightness", a: New(0.5, 0.1, 20), b: New(0.6, 0.1, 20), want: false},
		{name: "different_alpha", a: New(0.5, 0.1, 20), b: NewWithAlpha(0.5, 0.1, 20, 0.5), want: false},
		{name: "nan_hue_both", a: New(0.5, 0, math.NaN()), b: New(0.5, 0, math.NaN()), want: true},
		{name: "nan_hue_one", a: New(0.5, 0, math.NaN()), b: New(0.5, 0, 0), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	cases := map[float64]float64{
		-0.2: 0,
		0:    0,
		0.4:  0.4,
		1:    1,
		1.15: 1,
	}
	for in, want := range cases {
		if got := Clamp01(in); got != want {
			t.Errorf("Clamp01(%v) = %v, want %v", in, got, want)
		}
	}
	if got := Clamp01(math.NaN()); got != 0 {
		t.Errorf("Clamp01(NaN) = %v, want 0", got)
	}
}

func TestCSS(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{New(0.5, 0.02, 260), "oklch(0.5 0.02 260)"},
		{NewWithAlpha(0.2, 0.02, 260, 0.5), "oklch(0.2 0.02 260 / 0.5)"},
		{New(0.8, 0, math.NaN()), "oklch(0.8 0 none)"},
	}
	for _, tt := range tests {
		if got := tt.c.CSS(); got != tt.want {
			t.Errorf("CSS() = %q, want %q", got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"oklch(0.5 0.02 260)", New(0.5, 0.02, 260)},
		{"  OKLCH(50% 0.1 120deg) ", New(0.5, 0.1, 120)},
		{"oklch(0.2 0.02 260 / 0.25)", NewWithAlpha(0.2, 0.02, 260, 0.25)},
		{"oklch(0.2 0.02 260 / 50%)", NewWithAlpha(0.2, 0.02, 260, 0.5)},
		{"oklch(0.9 0 none)", New(0.9, 0, math.NaN())},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "#ffffff", "oklch(0.5 0.1)", "oklch(a b c)", "rgb(1 2 3)", "oklch(0.5 10% 20)"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestParse_RoundTripsCSS(t *testing.T) {
	c := NewWithAlpha(0.734, 0.121, 33.5, 0.8)
	got, err := Parse(c.CSS())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !got.Equal(c) {
		t.Errorf("round trip = %+v, want %+v", got, c)
	}
}

func TestHex_Extremes(t *testing.T) {
	if got := New(1, 0, 0).Hex(); got != "#ffffff" {
		t.Errorf("white Hex() = %q", got)
	}
	if got := New(0, 0, math.NaN()).Hex(); got != "#000000" {
		t.Errorf("black Hex() = %q", got)
	}
	if got := New(1.4, 0, 0).Hex(); got != "#ffffff" {
		t.Errorf("over-bright Hex() = %q, want clamped white", got)
	}
}
