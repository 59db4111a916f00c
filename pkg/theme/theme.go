// Package theme defines the design-token Theme model and the pure
// group-mutation operations editors apply to it.
//
// A Theme is a value. Every operation returns a new Theme and leaves its input
// untouched; untouched subtrees are shared between the two.
package theme

import (
	"github.com/HerbHall/themeforge/pkg/color"
)

// ColorMode is the theme's declared appearance. The empty value means unset.
type ColorMode string

const (
	ColorModeUnset ColorMode = ""
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// Valid reports whether m is unset, light or dark.
func (m ColorMode) Valid() bool {
	switch m {
	case ColorModeUnset, ColorModeLight, ColorModeDark:
		return true
	}
	return false
}

// MainGroup names one of the three fixed main color groups.
type MainGroup string

const (
	GroupSurface MainGroup = "surface"
	GroupContent MainGroup = "content"
	GroupBorder  MainGroup = "border"
)

// MainGroups lists the fixed main groups in display order.
var MainGroups = []MainGroup{GroupSurface, GroupContent, GroupBorder}

// IsMainGroup reports whether name is one of the fixed main groups.
func IsMainGroup(name string) bool {
	switch MainGroup(name) {
	case GroupSurface, GroupContent, GroupBorder:
		return true
	}
	return false
}

// MainColors holds exactly the three fixed groups. A group may be empty.
type MainColors struct {
	Surface ColorGroup
	Content ColorGroup
	Border  ColorGroup
}

// Get returns the group for g.
func (m MainColors) Get(g MainGroup) (ColorGroup, bool) {
	switch g {
	case GroupSurface:
		return m.Surface, true
	case GroupContent:
		return m.Content, true
	case GroupBorder:
		return m.Border, true
	}
	return ColorGroup{}, false
}

// With returns a copy with g replaced by cg. It reports false when g is not
// a main group.
func (m MainColors) With(g MainGroup, cg ColorGroup) (MainColors, bool) {
	switch g {
	case GroupSurface:
		m.Surface = cg
	case GroupContent:
		m.Content = cg
	case GroupBorder:
		m.Border = cg
	default:
		return m, false
	}
	return m, true
}

// Equal reports value equality of all three groups.
func (m MainColors) Equal(o MainColors) bool {
	return m.Surface.Equal(o.Surface) && m.Content.Equal(o.Content) && m.Border.Equal(o.Border)
}

// Theme is the complete design-token record.
type Theme struct {
	Name        string
	Description string
	ColorMode   ColorMode
	MainColors  MainColors
	BrandColors BrandColors
	Radius      SizeMap
	Shadows     SizeMap
}

// Equal reports deep value equality, including brand group order and every
// variant key.
func (t Theme) Equal(o Theme) bool {
	return t.Name == o.Name &&
		t.Description == o.Description &&
		t.ColorMode == o.ColorMode &&
		t.MainColors.Equal(o.MainColors) &&
		t.BrandColors.Equal(o.BrandColors) &&
		t.Radius.Equal(o.Radius) &&
		t.Shadows.Equal(o.Shadows)
}

// Default returns the starter theme new editing sessions begin with.
func Default() Theme {
	return Theme{
		Name:        "Untitled",
		Description: "",
		ColorMode:   ColorModeLight,
		MainColors: MainColors{
			Surface: NewColorGroup(
				Variant{Key: "100", Color: color.New(0.99, 0.003, 260)},
				Variant{Key: "200", Color: color.New(0.96, 0.006, 260)},
				Variant{Key: "300", Color: color.New(0.92, 0.01, 260)},
			),
			Content: NewColorGroup(
				Variant{Key: "100", Color: color.New(0.2, 0.02, 260)},
				Variant{Key: "200", Color: color.New(0.4, 0.02, 260)},
				Variant{Key: "300", Color: color.New(0.6, 0.015, 260)},
			),
			Border: NewColorGroup(
				Variant{Key: "100", Color: color.New(0.9, 0.01, 260)},
				Variant{Key: "200", Color: color.New(0.8, 0.015, 260)},
			),
		},
		BrandColors: NewBrandColors(
			NamedGroup{Name: "primary", Group: NewColorGroup(
				Variant{Key: ContentKey, Color: color.New(0.98, 0.01, 260)},
				Variant{Key: "100", Color: color.New(0.6, 0.18, 260)},
				Variant{Key: "200", Color: color.New(0.5, 0.18, 260)},
			)},
		),
		Radius: NewSizeMap(
			SizeEntry{Key: "sm", Value: "0.25rem"},
			SizeEntry{Key: "md", Value: "0.5rem"},
			SizeEntry{Key: "lg", Value: "0.75rem"},
		),
		Shadows: NewSizeMap(
			SizeEntry{Key: "sm", Value: "0 1px 2px 0 rgb(0 0 0 / 0.05)"},
			SizeEntry{Key: "md", Value: "0 4px 6px -1px rgb(0 0 0 / 0.1)"},
			SizeEntry{Key: "lg", Value: "0 10px 15px -3px rgb(0 0 0 / 0.1)"},
		),
	}
}
