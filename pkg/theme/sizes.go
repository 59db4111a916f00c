package theme

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	defaultRadiusValue = "0.5rem"
	defaultShadowValue = "0 1px 3px 0 rgb(0 0 0 / 0.1)"
)

var baseSizeKeys = []string{"sm", "md", "lg", "xl"}

// SizeEntry is one entry of a SizeMap.
type SizeEntry struct {
	Key   string
	Value string
}

// SizeMap is an insertion-ordered mapping from size key to a raw CSS value
// (a length for radius, a shadow shorthand for shadows).
type SizeMap struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewSizeMap builds a size map from entries in order.
func NewSizeMap(entries ...SizeEntry) SizeMap {
	m := orderedmap.New[string, string]()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return SizeMap{m: m}
}

// Len returns the number of entries.
func (s SizeMap) Len() int { return mapLen(s.m) }

// Get returns the value stored under key.
func (s SizeMap) Get(key string) (string, bool) { return mapGet(s.m, key) }

// Keys returns the size keys in order.
func (s SizeMap) Keys() []string { return mapKeys(s.m) }

// Entries returns the entries in order.
func (s SizeMap) Entries() []SizeEntry {
	out := make([]SizeEntry, 0, s.Len())
	if s.m == nil {
		return out
	}
	for p := s.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, SizeEntry{Key: p.Key, Value: p.Value})
	}
	return out
}

// With returns a copy with key set to value.
func (s SizeMap) With(key, value string) SizeMap {
	return SizeMap{m: mapWith(s.m, key, value)}
}

// Without returns a copy with key removed.
func (s SizeMap) Without(key string) SizeMap {
	return SizeMap{m: mapWithout(s.m, key)}
}

// Equal reports order-sensitive equality.
func (s SizeMap) Equal(o SizeMap) bool {
	return mapEqual(s.m, o.m, func(a, b string) bool { return a == b })
}

func (s SizeMap) last() (SizeEntry, bool) {
	if s.m == nil || s.m.Len() == 0 {
		return SizeEntry{}, false
	}
	p := s.m.Newest()
	return SizeEntry{Key: p.Key, Value: p.Value}, true
}

// NextSizeKey returns the size key for a map holding n entries:
// sm, md, lg, xl, then 2xl, 3xl and so on.
func NextSizeKey(n int) string {
	if n < 0 {
		n = 0
	}
	if n < len(baseSizeKeys) {
		return baseSizeKeys[n]
	}
	return fmt.Sprintf("%dxl", n-len(baseSizeKeys)+2)
}

// freeSizeKey returns the first generated key, starting at the map's
// cardinality, that is not already taken.
func freeSizeKey(s SizeMap) string {
	for n := s.Len(); ; n++ {
		key := NextSizeKey(n)
		if _, taken := s.Get(key); !taken {
			return key
		}
	}
}

func addSize(s SizeMap, value, fallback string) SizeMap {
	if value == "" {
		if last, ok := s.last(); ok {
			value = last.Value
		} else {
			value = fallback
		}
	}
	return s.With(freeSizeKey(s), value)
}

// AddRadius appends a radius under the next size key. An empty value copies
// the most recently added radius.
func AddRadius(t Theme, value string) Theme {
	t.Radius = addSize(t.Radius, value, defaultRadiusValue)
	return t
}

// AddShadow appends a shadow under the next size key. An empty value copies
// the most recently added shadow.
func AddShadow(t Theme, value string) Theme {
	t.Shadows = addSize(t.Shadows, value, defaultShadowValue)
	return t
}

// SetRadius sets the radius stored under key.
func SetRadius(t Theme, key, value string) Theme {
	t.Radius = t.Radius.With(key, value)
	return t
}

// SetShadow sets the shadow stored under key.
func SetShadow(t Theme, key, value string) Theme {
	t.Shadows = t.Shadows.With(key, value)
	return t
}

// RemoveLastRadius removes the most recently added radius.
func RemoveLastRadius(t Theme) (Theme, error) {
	last, ok := t.Radius.last()
	if !ok {
		return t, fmt.Errorf("remove radius: %w", ErrNoSizes)
	}
	t.Radius = t.Radius.Without(last.Key)
	return t, nil
}

// RemoveLastShadow removes the most recently added shadow.
func RemoveLastShadow(t Theme) (Theme, error) {
	last, ok := t.Shadows.last()
	if !ok {
		return t, fmt.Errorf("remove shadow: %w", ErrNoSizes)
	}
	t.Shadows = t.Shadows.Without(last.Key)
	return t, nil
}
