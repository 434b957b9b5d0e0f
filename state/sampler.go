package state

import (
	"math"
	"slices"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Counts tallies multi-shot outcomes keyed by bit string, highest qubit first.
type Counts map[string]int

// Total returns the number of shots tallied.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Keys returns the observed bit strings in ascending order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Probability returns the observed frequency of key.
func (c Counts) Probability(key string) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c[key]) / float64(total)
}

// MeasureOnce samples one outcome, one bit per qubit with qubit 0 first. The
// outcome is cached until the next transform, so repeated calls agree.
func (e *Engine) MeasureOnce() []int {
	if e.collapsed != nil {
		return slices.Clone(e.collapsed)
	}

	r := e.rng.Float64()
	for _, idx := range e.order() {
		amp := roundAmplitude(e.amps[idx])
		if amp == 0 {
			continue
		}
		r -= chance(amp)
		if r <= 0 {
			e.collapsed = decode(idx, e.numQubits)
			return slices.Clone(e.collapsed)
		}
	}

	e.logger.Warn("numeric degeneracy: no basis state reached the sampled weight",
		zap.Float64("remaining", r),
		zap.Float64("norm", e.Norm()),
	)
	e.collapsed = make([]int, e.numQubits)
	return slices.Clone(e.collapsed)
}

// MeasureMany samples shots independent outcomes. Every draw is taken before
// the state is scanned; basis states then own contiguous slices of [0, 1) in
// ascending index order, sized by their rounded probability.
func (e *Engine) MeasureMany(shots int) (Counts, error) {
	if shots <= 0 {
		return nil, errors.Wrapf(ErrInvalidShots, "got %d", shots)
	}

	draws := make([]float64, shots)
	for i := range draws {
		draws[i] = e.rng.Float64()
	}

	var (
		keys   []Index
		bounds []float64
		total  float64
	)
	for _, idx := range e.order() {
		amp := roundAmplitude(e.amps[idx])
		if amp == 0 {
			continue
		}
		total += chance(amp)
		keys = append(keys, idx)
		bounds = append(bounds, total)
	}

	counts := make(Counts)
	if total <= 0 {
		e.logger.Warn("numeric degeneracy: state has no weight, tallying ground state",
			zap.Int("shots", shots),
			zap.Int("entries", len(e.amps)),
		)
		counts[binary(0, e.numQubits)] = shots
		return counts, nil
	}

	hits := make([]int, len(keys))
	for _, r := range draws {
		// A draw still positive after a full pass keeps being reduced by the
		// total weight on the following passes.
		if r > total {
			r = math.Mod(r, total)
			if r == 0 {
				r = total
			}
		}
		hits[sort.SearchFloat64s(bounds, r)]++
	}

	for i, n := range hits {
		if n > 0 {
			counts[binary(keys[i], e.numQubits)] += n
		}
	}
	return counts, nil
}
