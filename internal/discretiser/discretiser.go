/*
Package discretiser implements C1, the deterministic pseudo-random
quantisation of one continuous column into D+1 ordinal buckets.

It is grounded on the teacher's partition.go (sorting a copy of the column
with sort.Float64s before deriving split points) and on the reference MDFS
engine's src/cpu/discretize.cpp, which fixes the derivation to a 32-bit
MT19937 stream and threshold placement on rank positions of the sorted
column.
*/
package discretiser

import (
	"fmt"
	"math"

	"github.com/pbanos/mdfs/internal/prng"
)

// Discretise computes out[i] = #{d : in[i] > threshold_d} for a single
// (seed, replicate, variable) triple, per spec §4.1.
//
// in is the original column; sortedIn must be a non-destructively sorted
// copy of the same values (ascending). len(in) == len(sortedIn) == len(out)
// is required. divisions is D; out values range over {0,...,D}.
func Discretise(seed, replicateID, variableID uint32, divisions int, in, sortedIn []float64, out []byte, rng float64) error {
	nObj := len(in)
	if len(sortedIn) != nObj || len(out) != nObj {
		return fmt.Errorf("discretiser: mismatched slice lengths (in=%d sorted=%d out=%d)", nObj, len(sortedIn), len(out))
	}
	if divisions < 1 {
		return fmt.Errorf("discretiser: divisions must be >= 1, got %d", divisions)
	}
	if nObj == 0 {
		return nil
	}

	thresholds := deriveThresholds(seed, replicateID, variableID, divisions, nObj, sortedIn, rng)

	for i, v := range in {
		var b byte
		for _, t := range thresholds {
			if v > t {
				b++
			}
		}
		out[i] = b
	}
	return nil
}

// deriveThresholds implements the three-stage seed chaining and weighted
// cut-position derivation of spec §4.1, following discretize.cpp's own
// accumulation order exactly: each division's rank position is the running
// sum of its predecessors' individually-rounded contributions
// (done += round(weight*step)), not the round of the running sum of raw
// weights. The two differ in tie-breaking on cumulative fractional error, so
// matching this order byte-for-byte is what keeps thresholds (and everything
// downstream of them) reproducible against a seed schedule recorded by the
// reference engine.
func deriveThresholds(seed, replicateID, variableID uint32, divisions, nObj int, sortedIn []float64, rng float64) []float64 {
	gen0 := prng.New(seed)
	a := gen0.Uint32()
	gen1 := prng.New(a ^ replicateID)
	b := gen1.Uint32()
	gen2 := prng.New(b ^ variableID)

	weights := make([]float64, divisions+1)
	sum := 0.0
	for i := range weights {
		w := gen2.UniformRange(1.0-rng, 1.0+rng)
		weights[i] = w
		sum += w
	}

	step := float64(nObj) / sum
	thresholds := make([]float64, divisions)
	done := 0
	for i := 0; i < divisions; i++ {
		done += int(math.Round(weights[i] * step))
		if done >= nObj {
			done = nObj - 1
		}
		thresholds[i] = sortedIn[done]
	}
	return thresholds
}
