package logictree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(seq func(func(Realization) bool)) []Realization {
	var out []Realization
	for rlz := range seq {
		out = append(out, rlz)
	}
	return out
}

func TestFullEnumScenario(t *testing.T) {
	lt := twoSetTree(t)
	rlzs, err := lt.GenRlzs(0, 42)
	require.NoError(t, err)

	got := collect(rlzs)
	require.Len(t, got, 4)

	wantPaths := [][]string{{"b1", "c1"}, {"b1", "c2"}, {"b2", "c1"}, {"b2", "c2"}}
	wantWeights := []float64{0.15, 0.15, 0.35, 0.35}
	total := 0.0
	for i, rlz := range got {
		assert.Equal(t, i, rlz.Ordinal)
		assert.Equal(t, wantPaths[i], rlz.LTPath)
		assert.InDelta(t, wantWeights[i], rlz.Weight, 1e-12)
		total += rlz.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-12)

	assert.Equal(t, []string{"A", "X"}, got[0].Value)
	assert.Equal(t, []string{"B", "Y"}, got[3].Value)
}

func TestFullEnumCountAndWeightProduct(t *testing.T) {
	// weights deliberately not normalized per set: the total enumeration
	// weight must equal the product of the per-set sums
	lt, err := New([]*BranchSet{
		newSet("bs1", nil, "a1", "A1", 0.2, "a2", "A2", 0.3),
		newSet("bs2", nil, "b1", "B1", 0.5, "b2", "B2", 0.5, "b3", "B3", 0.5),
		newSet("bs3", nil, "c1", "C1", 2.0),
	})
	require.NoError(t, err)

	rlzs, err := lt.GenRlzs(0, 42)
	require.NoError(t, err)
	got := collect(rlzs)
	assert.Len(t, got, 2*3*1)

	total := 0.0
	for _, rlz := range got {
		total += rlz.Weight
	}
	assert.InDelta(t, (0.2+0.3)*(0.5+0.5+0.5)*2.0, total, 1e-12)
}

func TestFullEnumIgnoresLinking(t *testing.T) {
	// flat enumeration composes branch sets unconditionally, even when
	// applyToBranches makes the linked view narrower
	lt, err := New([]*BranchSet{
		newSet("bs1", nil, "a1", "A1", 0.5, "a2", "A2", 0.5),
		newSet("bs2", map[string]string{"applyToBranches": "a2"},
			"b1", "B1", 0.5, "b2", "B2", 0.5),
	})
	require.NoError(t, err)

	rlzs, err := lt.GenRlzs(0, 42)
	require.NoError(t, err)
	assert.Len(t, collect(rlzs), 4)

	linked := 0
	for _, br := range lt.RootBranches() {
		linked += CountRlzs(br)
	}
	assert.Equal(t, 3, linked, "linked view: a1 terminates, a2 has two leaves")
}

func TestFullEnumIsRestartable(t *testing.T) {
	lt := twoSetTree(t)
	rlzs, err := lt.GenRlzs(0, 42)
	require.NoError(t, err)
	assert.Equal(t, collect(rlzs), collect(rlzs))
}

func TestSampleWeightsAreUniform(t *testing.T) {
	lt := twoSetTree(t)
	rlzs, err := lt.GenRlzs(100, 7)
	require.NoError(t, err)
	got := collect(rlzs)
	require.Len(t, got, 100)
	for i, rlz := range got {
		assert.Equal(t, i, rlz.Ordinal)
		assert.Equal(t, 0.01, rlz.Weight)
		assert.Len(t, rlz.LTPath, 2)
		assert.Len(t, rlz.Value, 2)
	}
}

func TestSampleDeterminism(t *testing.T) {
	lt := twoSetTree(t)
	a, err := lt.Sample(500, 123)
	require.NoError(t, err)
	b, err := lt.Sample(500, 123)
	require.NoError(t, err)
	assert.Equal(t, collect(a), collect(b))
	// the returned sequence itself is restartable
	assert.Equal(t, collect(a), collect(a))

	c, err := lt.Sample(500, 124)
	require.NoError(t, err)
	assert.NotEqual(t, collect(a), collect(c), "a different seed must change the draws")
}

func TestSampleFrequenciesConverge(t *testing.T) {
	lt := twoSetTree(t)
	const n = 10000
	rlzs, err := lt.Sample(n, 0)
	require.NoError(t, err)

	counts := map[string]int{}
	for rlz := range rlzs {
		counts[rlz.LTPath[0]+rlz.LTPath[1]]++
	}
	expected := map[string]float64{
		"b1c1": 0.3 * 0.5,
		"b1c2": 0.3 * 0.5,
		"b2c1": 0.7 * 0.5,
		"b2c2": 0.7 * 0.5,
	}
	for path, p := range expected {
		freq := float64(counts[path]) / n
		// > 6 standard deviations at n=10000
		assert.InDeltaf(t, p, freq, 0.03, "path %s", path)
	}
}

func TestSampleRejectsBadWeights(t *testing.T) {
	lt, err := New([]*BranchSet{
		newSet("bs1", nil, "b1", "A", 0.3, "b2", "B", 0.6),
	})
	require.NoError(t, err)

	_, err = lt.Sample(10, 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSampling)
	assert.Contains(t, err.Error(), `"bs1"`)

	// GenRlzs propagates the same failure
	_, err = lt.GenRlzs(10, 42)
	assert.ErrorIs(t, err, ErrSampling)

	// full enumeration does not require normalized weights
	_, err = lt.GenRlzs(0, 42)
	assert.NoError(t, err)
}

func TestSampleRejectsNonPositiveCount(t *testing.T) {
	lt := twoSetTree(t)
	_, err := lt.Sample(0, 42)
	assert.ErrorIs(t, err, ErrSampling)
	_, err = lt.Sample(-3, 42)
	assert.ErrorIs(t, err, ErrSampling)
}

func TestSampleSingleBranchTree(t *testing.T) {
	lt, err := New([]*BranchSet{newSet("bs1", nil, "b1", "only", 1.0)})
	require.NoError(t, err)

	rlzs, err := lt.Sample(5, 42)
	require.NoError(t, err)
	for rlz := range rlzs {
		assert.Equal(t, []string{"b1"}, rlz.LTPath)
		assert.True(t, math.Abs(rlz.Weight-0.2) < 1e-12)
	}
}
