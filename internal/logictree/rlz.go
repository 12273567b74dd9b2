package logictree

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/rand"
)

// ErrSampling marks a branch set whose weights do not sum to 1 at sampling
// time. Sampling aborts entirely; no partial realizations are returned.
var ErrSampling = errors.New("branch weights do not sum to 1")

// weightTol is the floating tolerance on per-set weight sums.
const weightTol = 1e-9

// GenRlzs returns the realizations of the tree as a lazy, restartable,
// finite sequence. numSamples == 0 selects full enumeration, numSamples > 0
// weighted sampling with the given seed.
//
// Full enumeration composes all branch sets combinatorially over the flat
// per-set branch lists; it ignores applyToBranches links. The linked view
// (CountRlzs, Leaves) models conditional-under-a-parent semantics instead.
// The two totals agree only when every filter covers all parent branches.
func (lt *LogicTree) GenRlzs(numSamples int, seed int64) (iter.Seq[Realization], error) {
	if numSamples > 0 {
		return lt.Sample(numSamples, seed)
	}
	return lt.fullEnum(), nil
}

// fullEnum yields the Cartesian product of the branch lists of every branch
// set, in insertion order, with the last set varying fastest. Weight is the
// product of the chosen branches' weights. Nothing is materialized; the
// odometer re-runs from scratch each time the sequence is iterated.
func (lt *LogicTree) fullEnum() iter.Seq[Realization] {
	return func(yield func(Realization) bool) {
		groups := make([][]*Branch, len(lt.order))
		for i, bsid := range lt.order {
			groups[i] = lt.byID[bsid].Branches
			if len(groups[i]) == 0 {
				return // empty set, empty product
			}
		}
		idx := make([]int, len(groups))
		for ordinal := 0; ; ordinal++ {
			value := make([]string, len(groups))
			path := make([]string, len(groups))
			weight := 1.0
			for i, g := range groups {
				br := g[idx[i]]
				value[i] = br.Uncertainty
				path[i] = br.ID
				weight *= br.Weight
			}
			if !yield(Realization{Value: value, Weight: weight, LTPath: path, Ordinal: ordinal}) {
				return
			}
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(groups[i]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

// Sample returns n realizations drawn by weighted sampling. Branch set i is
// sampled with seed+i, so sets are sampled independently but reproducibly:
// the same (seed, n) pair yields an identical sequence. Every realization
// has weight 1/n, since sampling already encodes probability via draw
// frequency. Weight validation happens up front for every branch set; on
// failure no sequence is returned.
func (lt *LogicTree) Sample(n int, seed int64) (iter.Seq[Realization], error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: need a positive sample count, got %d", ErrSampling, n)
	}
	brlists := make([][]*Branch, len(lt.order))
	for i, bsid := range lt.order {
		brs, err := sampleBranches(lt.byID[bsid].Branches, n, seed+int64(i))
		if err != nil {
			return nil, fmt.Errorf("branch set %q: %w", bsid, err)
		}
		brlists[i] = brs
	}
	weight := 1.0 / float64(n)
	return func(yield func(Realization) bool) {
		for i := 0; i < n; i++ {
			value := make([]string, len(brlists))
			path := make([]string, len(brlists))
			for j, brlist := range brlists {
				value[j] = brlist[i].Uncertainty
				path[j] = brlist[i].ID
			}
			if !yield(Realization{Value: value, Weight: weight, LTPath: path, Ordinal: i}) {
				return
			}
		}
	}, nil
}

// sampleBranches draws n branches independently with replacement, each
// branch chosen with probability equal to its weight.
func sampleBranches(branches []*Branch, n int, seed int64) ([]*Branch, error) {
	total := 0.0
	for _, br := range branches {
		total += br.Weight
	}
	if math.Abs(total-1) > weightTol {
		return nil, fmt.Errorf("%w: sum is %g", ErrSampling, total)
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]*Branch, n)
	for i := range out {
		x := rng.Float64()
		acc := 0.0
		pick := branches[len(branches)-1]
		for _, br := range branches {
			acc += br.Weight
			if x < acc {
				pick = br
				break
			}
		}
		out[i] = pick
	}
	return out, nil
}
