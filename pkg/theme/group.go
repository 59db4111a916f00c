package theme

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/HerbHall/themeforge/pkg/color"
)

// Variant is one entry of a ColorGroup.
type Variant struct {
	Key   string
	Color color.Color
}

// ColorGroup is an insertion-ordered mapping from variant key to Color. The
// zero value is an empty group. Writes return a new group.
type ColorGroup struct {
	m *orderedmap.OrderedMap[string, color.Color]
}

// NewColorGroup builds a group from variants in order. A repeated key keeps
// its first position and its last color.
func NewColorGroup(variants ...Variant) ColorGroup {
	m := orderedmap.New[string, color.Color]()
	for _, v := range variants {
		m.Set(v.Key, v.Color)
	}
	return ColorGroup{m: m}
}

// Len returns the number of variants.
func (g ColorGroup) Len() int { return mapLen(g.m) }

// Get returns the color stored under key.
func (g ColorGroup) Get(key string) (color.Color, bool) { return mapGet(g.m, key) }

// Has reports whether key is present.
func (g ColorGroup) Has(key string) bool {
	_, ok := g.Get(key)
	return ok
}

// HasContent reports whether the group has a "content" variant.
func (g ColorGroup) HasContent() bool { return g.Has(ContentKey) }

// Keys returns the raw variant keys in insertion order.
func (g ColorGroup) Keys() []string { return mapKeys(g.m) }

// Variants returns the entries in insertion order.
func (g ColorGroup) Variants() []Variant {
	out := make([]Variant, 0, g.Len())
	if g.m == nil {
		return out
	}
	for p := g.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Variant{Key: p.Key, Color: p.Value})
	}
	return out
}

// StepKeys returns the numeric step keys sorted ascending by value. Keys with
// the same value keep their insertion order.
func (g ColorGroup) StepKeys() []VariantKey {
	var steps []VariantKey
	for _, k := range g.Keys() {
		if vk := ParseVariantKey(k); vk.IsStep() {
			steps = append(steps, vk)
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Step() < steps[j].Step() })
	return steps
}

// With returns a copy of g with key set to c.
func (g ColorGroup) With(key string, c color.Color) ColorGroup {
	return ColorGroup{m: mapWith(g.m, key, c)}
}

// Without returns a copy of g with key removed.
func (g ColorGroup) Without(key string) ColorGroup {
	return ColorGroup{m: mapWithout(g.m, key)}
}

// Equal reports order-sensitive value equality.
func (g ColorGroup) Equal(o ColorGroup) bool {
	return mapEqual(g.m, o.m, color.Color.Equal)
}
