package normalizer

// StringSet is an immutable set of strings used for exception lists.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}

	return s
}

// Has reports whether v is in the set. A nil set is empty.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Group is one key with its members in first-seen order.
type Group[K comparable, V any] struct {
	Key     K
	Members []V
}

// GroupBy partitions items by key in a single pass. Groups appear in the
// order their key was first seen, members in input order.
func GroupBy[K comparable, V any](items []V, key func(V) K) []Group[K, V] {
	pos := make(map[K]int)

	var groups []Group[K, V]

	for _, item := range items {
		k := key(item)

		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, Group[K, V]{Key: k})
		}

		groups[i].Members = append(groups[i].Members, item)
	}

	return groups
}

// Flatten concatenates per-group lists, keeping group order and member order.
func Flatten[V any](lists [][]V) []V {
	n := 0
	for _, l := range lists {
		n += len(l)
	}

	out := make([]V, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}

	return out
}
