package logictree

import "iter"

// CountRlzs returns how many realization paths descend from the given
// branch in the linked view, without materializing them. A branch with no
// child set terminates a path and counts 1.
func CountRlzs(b *Branch) int {
	if b.Child == nil {
		return 1
	}
	total := 0
	for _, br := range b.Child.Branches {
		total += CountRlzs(br)
	}
	return total
}

// Leaves yields the leaf branches reachable from b via Child links,
// depth-first, preserving branch set order at each level. The sequence is
// lazy and restartable; it is meant for diagnostics, not weight math.
func Leaves(b *Branch) iter.Seq[*Branch] {
	return func(yield func(*Branch) bool) {
		walkLeaves(b, yield)
	}
}

func walkLeaves(b *Branch, yield func(*Branch) bool) bool {
	if b.Child == nil {
		return yield(b)
	}
	for _, br := range b.Child.Branches {
		if !walkLeaves(br, yield) {
			return false
		}
	}
	return true
}
