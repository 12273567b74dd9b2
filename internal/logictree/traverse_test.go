package logictree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filteredTree: a1 terminates at the first level, a2 carries bs2, and only
// b1 of bs2 carries bs3.
func filteredTree(t *testing.T) *LogicTree {
	t.Helper()
	lt, err := New([]*BranchSet{
		newSet("bs1", nil, "a1", "A1", 0.5, "a2", "A2", 0.5),
		newSet("bs2", map[string]string{"applyToBranches": "a2"},
			"b1", "B1", 0.4, "b2", "B2", 0.6),
		newSet("bs3", map[string]string{"applyToBranches": "b1"},
			"c1", "C1", 0.5, "c2", "C2", 0.5),
	})
	require.NoError(t, err)
	return lt
}

func TestCountRlzs(t *testing.T) {
	lt := filteredTree(t)
	roots := lt.RootBranches()

	assert.Equal(t, 1, CountRlzs(roots[0]), "a1 terminates regardless of later branch sets")
	// a2 -> b1 -> {c1, c2} and a2 -> b2 terminating: 3 paths
	assert.Equal(t, 3, CountRlzs(roots[1]))

	for _, br := range lt.Get("bs3").Branches {
		assert.Equal(t, 1, CountRlzs(br))
	}
}

func TestLeaves(t *testing.T) {
	lt := filteredTree(t)
	roots := lt.RootBranches()

	var ids []string
	for leaf := range Leaves(roots[1]) {
		ids = append(ids, leaf.ID)
	}
	assert.Equal(t, []string{"c1", "c2", "b2"}, ids, "depth-first, branch set order preserved")

	ids = nil
	for leaf := range Leaves(roots[0]) {
		ids = append(ids, leaf.ID)
	}
	assert.Equal(t, []string{"a1"}, ids, "a terminating branch is its own leaf")
}

func TestLeavesEarlyStop(t *testing.T) {
	lt := filteredTree(t)
	count := 0
	for range Leaves(lt.RootBranches()[1]) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestLeavesMatchesCount(t *testing.T) {
	lt := filteredTree(t)
	for _, br := range lt.RootBranches() {
		n := 0
		for range Leaves(br) {
			n++
		}
		assert.Equal(t, CountRlzs(br), n)
	}
}
