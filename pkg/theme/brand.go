package theme

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NamedGroup is one entry of BrandColors.
type NamedGroup struct {
	Name  string
	Group ColorGroup
}

// BrandColors is an insertion-ordered mapping from group name to ColorGroup.
// Order is observable: editors render groups in this order.
type BrandColors struct {
	m *orderedmap.OrderedMap[string, ColorGroup]
}

// NewBrandColors builds brand colors from groups in order.
func NewBrandColors(groups ...NamedGroup) BrandColors {
	m := orderedmap.New[string, ColorGroup]()
	for _, g := range groups {
		m.Set(g.Name, g.Group)
	}
	return BrandColors{m: m}
}

// Len returns the number of groups.
func (b BrandColors) Len() int { return mapLen(b.m) }

// Get returns the group named name.
func (b BrandColors) Get(name string) (ColorGroup, bool) { return mapGet(b.m, name) }

// Has reports whether a group named name exists.
func (b BrandColors) Has(name string) bool {
	_, ok := b.Get(name)
	return ok
}

// Names returns group names in order.
func (b BrandColors) Names() []string { return mapKeys(b.m) }

// Groups returns the entries in order.
func (b BrandColors) Groups() []NamedGroup {
	out := make([]NamedGroup, 0, b.Len())
	if b.m == nil {
		return out
	}
	for p := b.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, NamedGroup{Name: p.Key, Group: p.Value})
	}
	return out
}

// With returns a copy with name set to g.
func (b BrandColors) With(name string, g ColorGroup) BrandColors {
	return BrandColors{m: mapWith(b.m, name, g)}
}

// Without returns a copy with name removed.
func (b BrandColors) Without(name string) BrandColors {
	return BrandColors{m: mapWithout(b.m, name)}
}

// Renamed returns a copy with oldName replaced by newName at the same
// position. Callers check that oldName exists and newName does not.
func (b BrandColors) Renamed(oldName, newName string) BrandColors {
	return BrandColors{m: mapRename(b.m, oldName, newName)}
}

// Equal reports order-sensitive value equality.
func (b BrandColors) Equal(o BrandColors) bool {
	return mapEqual(b.m, o.m, ColorGroup.Equal)
}
