package theme

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// The helpers below treat *orderedmap.OrderedMap values as immutable: every
// write clones first so Theme values can share untouched subtrees. A nil map
// behaves as an empty one.

func cloneMap[V any](m *orderedmap.OrderedMap[string, V]) *orderedmap.OrderedMap[string, V] {
	out := orderedmap.New[string, V]()
	if m == nil {
		return out
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value)
	}
	return out
}

func mapLen[V any](m *orderedmap.OrderedMap[string, V]) int {
	if m == nil {
		return 0
	}
	return m.Len()
}

func mapGet[V any](m *orderedmap.OrderedMap[string, V], key string) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	return m.Get(key)
}

func mapKeys[V any](m *orderedmap.OrderedMap[string, V]) []string {
	keys := make([]string, 0, mapLen(m))
	if m == nil {
		return keys
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// mapWith sets key, keeping its position when it already exists and
// appending it otherwise.
func mapWith[V any](m *orderedmap.OrderedMap[string, V], key string, v V) *orderedmap.OrderedMap[string, V] {
	out := cloneMap(m)
	out.Set(key, v)
	return out
}

func mapWithout[V any](m *orderedmap.OrderedMap[string, V], key string) *orderedmap.OrderedMap[string, V] {
	out := cloneMap(m)
	out.Delete(key)
	return out
}

// mapRename rebuilds the map substituting newKey for oldKey in place.
func mapRename[V any](m *orderedmap.OrderedMap[string, V], oldKey, newKey string) *orderedmap.OrderedMap[string, V] {
	out := orderedmap.New[string, V]()
	if m == nil {
		return out
	}
	for p := m.Oldest(); p != nil; p = p.Next() {
		if p.Key == oldKey {
			out.Set(newKey, p.Value)
			continue
		}
		out.Set(p.Key, p.Value)
	}
	return out
}

func mapEqual[V any](a, b *orderedmap.OrderedMap[string, V], eq func(V, V) bool) bool {
	if mapLen(a) != mapLen(b) {
		return false
	}
	if mapLen(a) == 0 {
		return true
	}
	pa, pb := a.Oldest(), b.Oldest()
	for pa != nil && pb != nil {
		if pa.Key != pb.Key || !eq(pa.Value, pb.Value) {
			return false
		}
		pa, pb = pa.Next(), pb.Next()
	}
	return pa == nil && pb == nil
}
