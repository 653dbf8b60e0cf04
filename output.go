package mdfs

import (
	"fmt"
	"math"
	"sync"
)

// OutputMode selects one of the four output shapes of spec.md §4.5/§6.
type OutputMode int

const (
	MaxIG OutputMode = iota
	MinIG
	MatchingTuples
	AllPairs
)

func (m OutputMode) String() string {
	switch m {
	case MaxIG:
		return "max_ig"
	case MinIG:
		return "min_ig"
	case MatchingTuples:
		return "matching_tuples"
	case AllPairs:
		return "all_pairs"
	}
	return "unknown"
}

/*
extremum is the running per-variable accumulator shared by MaxIG and MinIG
(both within one replicate and across the final replicate fold); AllPairs
keeps its own matrix instead. "better" decides whether a candidate IG replaces the current
one: a>b for MaxIG and for the MinIG replicate fold, a<b for MinIG within one
replicate. This generalizes the single running-max accumulation pattern the
teacher uses when picking the best-information-gain feature in
partition.go's NewDiscretePartition/NewContinuousPartition to the two running
directions spec.md §4.5 requires.
*/
type extremum struct {
	values       []float64
	tuples       [][]int
	replicates   []int
	recordTuples bool
	better       func(candidate, current float64) bool
}

func newExtremum(v int, init float64, better func(candidate, current float64) bool, recordTuples bool) *extremum {
	e := &extremum{
		values:       make([]float64, v),
		better:       better,
		recordTuples: recordTuples,
	}
	for i := range e.values {
		e.values[i] = init
	}
	if recordTuples {
		e.tuples = make([][]int, v)
		e.replicates = make([]int, v)
	}
	return e
}

func (e *extremum) update(tuple []int, igs []float64, replicate int) {
	for pos, ig := range igs {
		variable := tuple[pos]
		if e.better(ig, e.values[variable]) {
			e.values[variable] = ig
			if e.recordTuples {
				e.tuples[variable] = append([]int(nil), tuple...)
				e.replicates[variable] = replicate
			}
		}
	}
}

type matchKey struct {
	tuple [5]int
	k     int
	focal int
}

func newMatchKey(sortedTuple []int, focal int) matchKey {
	var k matchKey
	k.k = len(sortedTuple)
	k.focal = focal
	copy(k.tuple[:], sortedTuple)
	return k
}

// MatchEntry is one recorded row of a MatchingTuples output.
type MatchEntry struct {
	Tuple     []int
	FocalVar  int
	IG        float64
	Replicate int
}

/*
Output is the tagged variant of spec.md §9's "polymorphic output container":
exactly one of its fields is populated, selected by Mode, and a single
Update call (issued under the aggregator mutex of spec.md §5) dispatches to
whichever one applies. It plays the role the teacher's tree.Node/Prediction
pairing plays for a grown tree: the one shared piece of mutable state workers
fold their results into.
*/
type Output struct {
	Mode OutputMode

	mu sync.Mutex

	ig *extremum // MaxIG, or (within one replicate) MinIG's local accumulator

	threshold   float64
	interesting map[int]bool
	matching    map[matchKey]MatchEntry

	v       int
	matrix  []float64 // V*V, AllPairs only

	perReplicateMin []float64 // diagnostic (SPEC_FULL.md §C.3), MinIG only
}

// newExtremumOutput builds an Output whose sole job is running the given
// extremum direction: used both for MaxIG and for a MinIG replicate-local
// accumulator (see Run in run.go).
func newExtremumOutput(mode OutputMode, v int, init float64, better func(candidate, current float64) bool, recordTuples bool) *Output {
	return &Output{
		Mode: mode,
		v:    v,
		ig:   newExtremum(v, init, better, recordTuples),
	}
}

// NewMaxIGOutput builds the global accumulator for output_mode=MaxIG.
func NewMaxIGOutput(v int, recordTuples bool) *Output {
	return newExtremumOutput(MaxIG, v, math.Inf(-1), func(a, b float64) bool { return a > b }, recordTuples)
}

// newMinIGLocal builds the per-replicate local accumulator MinIG folds from
// (spec.md §4.5 step 3d).
func newMinIGLocal(v int, recordTuples bool) *Output {
	return newExtremumOutput(MinIG, v, math.Inf(1), func(a, b float64) bool { return a < b }, recordTuples)
}

// NewMinIGOutput builds the global fold target for output_mode=MinIG: the
// max, across replicates, of each replicate's local minimum.
func NewMinIGOutput(v int, recordTuples bool) *Output {
	o := newExtremumOutput(MinIG, v, math.Inf(-1), func(a, b float64) bool { return a > b }, recordTuples)
	o.perReplicateMin = nil
	return o
}

// NewMatchingTuplesOutput builds the accumulator for output_mode=MatchingTuples.
// threshold<=0 is normalized to -Inf per spec.md §4.5's IG threshold semantics.
func NewMatchingTuplesOutput(threshold float64, interestingVars []int) *Output {
	if threshold <= 0 {
		threshold = math.Inf(-1)
	}
	var interesting map[int]bool
	if len(interestingVars) > 0 {
		interesting = make(map[int]bool, len(interestingVars))
		for _, i := range interestingVars {
			interesting[i] = true
		}
	}
	return &Output{
		Mode:        MatchingTuples,
		threshold:   threshold,
		interesting: interesting,
		matching:    make(map[matchKey]MatchEntry),
	}
}

// NewAllPairsOutput builds the V×V accumulator for output_mode=AllPairs.
// Only legal at k=2, enforced by Spec.validate before Run constructs it.
func NewAllPairsOutput(v int) *Output {
	m := make([]float64, v*v)
	for i := range m {
		m[i] = math.Inf(-1)
	}
	return &Output{Mode: AllPairs, v: v, matrix: m}
}

// Update folds one tuple's IG vector into the output, under the aggregator
// mutex (spec.md §5's second mutex region: held only for this constant-time
// switch, never spanning kernel work).
func (o *Output) Update(tuple []int, igs []float64, replicate int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch o.Mode {
	case MaxIG, MinIG:
		o.ig.update(tuple, igs, replicate)
	case MatchingTuples:
		o.updateMatching(tuple, igs, replicate)
	case AllPairs:
		o.updateAllPairs(tuple, igs)
	}
}

func (o *Output) updateMatching(tuple []int, igs []float64, replicate int) {
	sorted := sortedCopy(tuple)
	for pos, ig := range igs {
		focal := tuple[pos]
		if ig <= o.threshold {
			continue
		}
		if o.interesting != nil && !o.interesting[focal] {
			continue
		}
		key := newMatchKey(sorted, focal)
		if existing, ok := o.matching[key]; ok && existing.IG >= ig {
			continue
		}
		o.matching[key] = MatchEntry{
			Tuple:     sorted,
			FocalVar:  focal,
			IG:        ig,
			Replicate: replicate,
		}
	}
}

func (o *Output) updateAllPairs(tuple []int, igs []float64) {
	i, j := tuple[0], tuple[1]
	if igs[0] > o.matrix[i*o.v+j] {
		o.matrix[i*o.v+j] = igs[0]
	}
	if igs[1] > o.matrix[j*o.v+i] {
		o.matrix[j*o.v+i] = igs[1]
	}
}

// foldReplicateMin merges a MinIG replicate-local accumulator into the
// global fold target: spec.md §4.5 step 3d's "max over replicates of the
// min-across-tuples-in-one-replicate". Called once per replicate, outside
// of the worker pool for that replicate (no contention with Update).
func (o *Output) foldReplicateMin(local *Output, replicate int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	minOfReplicate := math.Inf(1)
	for v, localMin := range local.ig.values {
		if math.IsInf(localMin, 1) {
			continue // no tuple touched this variable this replicate
		}
		if localMin < minOfReplicate {
			minOfReplicate = localMin
		}
		if localMin > o.ig.values[v] {
			o.ig.values[v] = localMin
			if o.ig.recordTuples && local.ig.recordTuples {
				o.ig.tuples[v] = local.ig.tuples[v]
				o.ig.replicates[v] = replicate
			}
		}
	}
	o.perReplicateMin = append(o.perReplicateMin, minOfReplicate)
}

// MaxIGValues returns the per-variable accumulated values for MaxIG/MinIG
// output modes.
func (o *Output) MaxIGValues() []float64 { return append([]float64(nil), o.ig.values...) }

// BestTuples returns, for MaxIG/MinIG modes with tuple recording enabled,
// the tuple that produced each variable's accumulated value.
func (o *Output) BestTuples() [][]int { return o.ig.tuples }

// BestReplicates returns, for MaxIG/MinIG modes with tuple recording
// enabled, the replicate that produced each variable's accumulated value.
func (o *Output) BestReplicates() []int { return o.ig.replicates }

// Matching returns the recorded rows for output_mode=MatchingTuples.
func (o *Output) Matching() []MatchEntry {
	entries := make([]MatchEntry, 0, len(o.matching))
	for _, e := range o.matching {
		entries = append(entries, e)
	}
	return entries
}

// Matrix returns the flattened V×V matrix for output_mode=AllPairs
// (row-major: cell (i,j) at index i*V+j).
func (o *Output) Matrix() []float64 { return append([]float64(nil), o.matrix...) }

// MatrixColumns returns V, the row/column width of Matrix, for
// output_mode=AllPairs.
func (o *Output) MatrixColumns() int { return o.v }

// PerReplicateMin returns, for output_mode=MinIG, the diagnostic per-
// replicate minimum described in SPEC_FULL.md §C.3.
func (o *Output) PerReplicateMin() []float64 { return append([]float64(nil), o.perReplicateMin...) }

func (o *Output) String() string {
	return fmt.Sprintf("{Output mode=%v}", o.Mode)
}
