// Package maputil holds small generic helpers for deterministic iteration
// over maps. Op params, guards and effects are all map[string]any; every
// place that renders or hashes one needs a stable key order.
package maputil

import "sort"

// SortedKeys returns the keys of m in ascending order. A nil map yields an
// empty, non-nil slice so callers can range over the result unconditionally.
func SortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
