package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/HerbHall/themeforge/pkg/color"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// number is a float64 whose NaN value travels as JSON null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) {
		return []byte("null"), nil
	}
	if math.IsInf(f, 0) {
		return nil, ErrNonFinite
	}
	return json.Marshal(f)
}

func (n *number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type wireColor struct {
	Space  string   `json:"space"`
	Coords []number `json:"coords"`
	Alpha  number   `json:"alpha"`
}

type wireGroup = orderedmap.OrderedMap[string, wireColor]

type wireMain struct {
	Surface *wireGroup `json:"surface"`
	Content *wireGroup `json:"content"`
	Border  *wireGroup `json:"border"`
}

type wireTheme struct {
	Name        string                                     `json:"name"`
	Description string                                     `json:"description"`
	ColorMode   string                                     `json:"colorMode,omitempty"`
	MainColors  wireMain                                   `json:"mainColors"`
	BrandColors *orderedmap.OrderedMap[string, *wireGroup] `json:"brandColors"`
	Radius      *orderedmap.OrderedMap[string, string]     `json:"radius"`
	Shadows     *orderedmap.OrderedMap[string, string]     `json:"shadows"`
}

// inboundTheme defers every nested object so each can be decoded into an
// ordered map and validated on its own.
type inboundTheme struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ColorMode   *string         `json:"colorMode"`
	MainColors  json.RawMessage `json:"mainColors"`
	BrandColors json.RawMessage `json:"brandColors"`
	Radius      json.RawMessage `json:"radius"`
	Shadows     json.RawMessage `json:"shadows"`
}

type inboundMain struct {
	Surface json.RawMessage `json:"surface"`
	Content json.RawMessage `json:"content"`
	Border  json.RawMessage `json:"border"`
}

func finite(f float64) bool { return !math.IsInf(f, 0) }

func colorToWire(c color.Color) (wireColor, error) {
	for _, f := range []float64{c.L, c.C, c.H, c.Alpha} {
		if !finite(f) {
			return wireColor{}, ErrNonFinite
		}
	}
	space := string(c.Space)
	if space == "" {
		space = string(color.SpaceOKLCH)
	}
	return wireColor{
		Space:  space,
		Coords: []number{number(c.L), number(c.C), number(c.H)},
		Alpha:  number(c.Alpha),
	}, nil
}

func groupToWire(g theme.ColorGroup) (*wireGroup, error) {
	out := orderedmap.New[string, wireColor]()
	for _, v := range g.Variants() {
		wc, err := colorToWire(v.Color)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Key, err)
		}
		out.Set(v.Key, wc)
	}
	return out, nil
}

func sizesToWire(s theme.SizeMap) *orderedmap.OrderedMap[string, string] {
	out := orderedmap.New[string, string]()
	for _, e := range s.Entries() {
		out.Set(e.Key, e.Value)
	}
	return out
}

func toWire(t theme.Theme) (*wireTheme, error) {
	w := &wireTheme{
		Name:        t.Name,
		Description: t.Description,
		ColorMode:   string(t.ColorMode),
		BrandColors: orderedmap.New[string, *wireGroup](),
		Radius:      sizesToWire(t.Radius),
		Shadows:     sizesToWire(t.Shadows),
	}

	var err error
	if w.MainColors.Surface, err = groupToWire(t.MainColors.Surface); err != nil {
		return nil, fmt.Errorf("mainColors.surface: %w", err)
	}
	if w.MainColors.Content, err = groupToWire(t.MainColors.Content); err != nil {
		return nil, fmt.Errorf("mainColors.content: %w", err)
	}
	if w.MainColors.Border, err = groupToWire(t.MainColors.Border); err != nil {
		return nil, fmt.Errorf("mainColors.border: %w", err)
	}
	for _, ng := range t.BrandColors.Groups() {
		g, err := groupToWire(ng.Group)
		if err != nil {
			return nil, fmt.Errorf("brandColors.%s: %w", ng.Name, err)
		}
		w.BrandColors.Set(ng.Name, g)
	}
	return w, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func colorFromWire(raw json.RawMessage) (color.Color, error) {
	wc := wireColor{Alpha: 1}
	if !isObject(raw) {
		return color.Color{}, errors.New("color is not an object")
	}
	if err := json.Unmarshal(raw, &wc); err != nil {
		return color.Color{}, err
	}
	if wc.Space != string(color.SpaceOKLCH) {
		return color.Color{}, fmt.Errorf("unsupported color space %q", wc.Space)
	}
	if len(wc.Coords) != 3 {
		return color.Color{}, fmt.Errorf("want 3 coords, got %d", len(wc.Coords))
	}
	return color.NewWithAlpha(float64(wc.Coords[0]), float64(wc.Coords[1]), float64(wc.Coords[2]), float64(wc.Alpha)), nil
}

func groupFromWire(raw json.RawMessage) (theme.ColorGroup, error) {
	if !isObject(raw) {
		return theme.ColorGroup{}, errors.New("group is not an object")
	}
	entries := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, entries); err != nil {
		return theme.ColorGroup{}, err
	}
	variants := make([]theme.Variant, 0, entries.Len())
	for p := entries.Oldest(); p != nil; p = p.Next() {
		c, err := colorFromWire(p.Value)
		if err != nil {
			return theme.ColorGroup{}, fmt.Errorf("variant %q: %w", p.Key, err)
		}
		variants = append(variants, theme.Variant{Key: p.Key, Color: c})
	}
	return theme.NewColorGroup(variants...), nil
}

func absent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func brandFromWire(raw json.RawMessage) (theme.BrandColors, error) {
	if absent(raw) {
		return theme.NewBrandColors(), nil
	}
	if !isObject(raw) {
		return theme.BrandColors{}, errors.New("brandColors is not an object")
	}
	groups := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, groups); err != nil {
		return theme.BrandColors{}, err
	}
	named := make([]theme.NamedGroup, 0, groups.Len())
	for p := groups.Oldest(); p != nil; p = p.Next() {
		g, err := groupFromWire(p.Value)
		if err != nil {
			return theme.BrandColors{}, fmt.Errorf("brandColors.%s: %w", p.Key, err)
		}
		named = append(named, theme.NamedGroup{Name: p.Key, Group: g})
	}
	return theme.NewBrandColors(named...), nil
}

func sizesFromWire(field string, raw json.RawMessage) (theme.SizeMap, error) {
	if absent(raw) {
		return theme.NewSizeMap(), nil
	}
	if !isObject(raw) {
		return theme.SizeMap{}, fmt.Errorf("%s is not an object", field)
	}
	m := orderedmap.New[string, string]()
	if err := json.Unmarshal(raw, m); err != nil {
		return theme.SizeMap{}, fmt.Errorf("%s: %w", field, err)
	}
	entries := make([]theme.SizeEntry, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		entries = append(entries, theme.SizeEntry{Key: p.Key, Value: p.Value})
	}
	return theme.NewSizeMap(entries...), nil
}

func fromWire(data []byte) (theme.Theme, error) {
	var in inboundTheme
	if err := json.Unmarshal(data, &in); err != nil {
		return theme.Theme{}, err
	}

	t := theme.Theme{Name: in.Name, Description: in.Description}
	if in.ColorMode != nil {
		t.ColorMode = theme.ColorMode(*in.ColorMode)
		if t.ColorMode == theme.ColorModeUnset || !t.ColorMode.Valid() {
			return theme.Theme{}, fmt.Errorf("invalid colorMode %q", *in.ColorMode)
		}
	}

	if !isObject(in.MainColors) {
		return theme.Theme{}, errors.New("mainColors missing")
	}
	var main inboundMain
	if err := json.Unmarshal(in.MainColors, &main); err != nil {
		return theme.Theme{}, fmt.Errorf("mainColors: %w", err)
	}
	var err error
	if t.MainColors.Surface, err = groupFromWire(main.Surface); err != nil {
		return theme.Theme{}, fmt.Errorf("mainColors.surface: %w", err)
	}
	if t.MainColors.Content, err = groupFromWire(main.Content); err != nil {
		return theme.Theme{}, fmt.Errorf("mainColors.content: %w", err)
	}
	if t.MainColors.Border, err = groupFromWire(main.Border); err != nil {
		return theme.Theme{}, fmt.Errorf("mainColors.border: %w", err)
	}

	if t.BrandColors, err = brandFromWire(in.BrandColors); err != nil {
		return theme.Theme{}, err
	}
	if t.Radius, err = sizesFromWire("radius", in.Radius); err != nil {
		return theme.Theme{}, err
	}
	if t.Shadows, err = sizesFromWire("shadows", in.Shadows); err != nil {
		return theme.Theme{}, err
	}
	return t, nil
}
