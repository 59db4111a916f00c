// Package export renders a Theme as CSS custom properties.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/HerbHall/themeforge/pkg/color"
	"github.com/HerbHall/themeforge/pkg/theme"
)

// Format selects how colors are written.
type Format string

const (
	FormatOKLCH Format = "oklch"
	FormatHex   Format = "hex"
)

// ParseFormat accepts "oklch", "hex" or "" (oklch).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatOKLCH:
		return FormatOKLCH, nil
	case FormatHex:
		return FormatHex, nil
	}
	return "", fmt.Errorf("unknown css format %q", s)
}

// Options configures CSS output.
type Options struct {
	Format   Format
	Selector string // defaults to ":root"
}

// Property is one custom property declaration.
type Property struct {
	Name  string
	Value string
}

// Properties lists the custom properties for t in theme order: main groups,
// brand groups, radius, then shadows.
func Properties(t theme.Theme, format Format) []Property {
	var props []Property
	addGroup := func(name string, g theme.ColorGroup) {
		for _, v := range g.Variants() {
			props = append(props, Property{
				Name:  "--" + ident(name) + "-" + ident(v.Key),
				Value: formatColor(v.Color, format),
			})
		}
	}

	for _, mg := range theme.MainGroups {
		g, _ := t.MainColors.Get(mg)
		addGroup(string(mg), g)
	}
	for _, ng := range t.BrandColors.Groups() {
		addGroup(ng.Name, ng.Group)
	}
	for _, e := range t.Radius.Entries() {
		props = append(props, Property{Name: "--radius-" + ident(e.Key), Value: e.Value})
	}
	for _, e := range t.Shadows.Entries() {
		props = append(props, Property{Name: "--shadow-" + ident(e.Key), Value: e.Value})
	}
	return props
}

// CSS returns a single rule declaring every property of t.
func CSS(t theme.Theme, opts Options) string {
	var b strings.Builder
	_ = Write(&b, t, opts)
	return b.String()
}

// Write writes the rule for t to w.
func Write(w io.Writer, t theme.Theme, opts Options) error {
	selector := opts.Selector
	if selector == "" {
		selector = ":root"
	}

	var b strings.Builder
	if t.Name != "" {
		fmt.Fprintf(&b, "/* %s */\n", strings.ReplaceAll(t.Name, "*/", "* /"))
	}
	b.WriteString(selector)
	b.WriteString(" {\n")
	if t.ColorMode != theme.ColorModeUnset {
		fmt.Fprintf(&b, "  color-scheme: %s;\n", t.ColorMode)
	}
	for _, p := range Properties(t, opts.Format) {
		fmt.Fprintf(&b, "  %s: %s;\n", p.Name, p.Value)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func formatColor(c color.Color, format Format) string {
	if format == FormatHex {
		return c.Hex()
	}
	return c.CSS()
}

// ident lowercases s and replaces every character that is not valid in a
// custom property name with '-'.
func ident(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
