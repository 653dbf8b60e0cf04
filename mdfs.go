/*
Package mdfs computes multidimensional information gains (MDFS) over a
numeric data matrix annotated with per-row class labels: for every k-subset
of variable columns, it measures how much information about the decision is
gained by observing those variables jointly. It orchestrates four leaf
components — the stochastic discretiser (internal/discretiser), the
discretised feature tensor (dataset), the k-subset tuple enumerator (tuple)
and the joint-histogram entropy kernel (kernel) — across a worker pool,
funnelling results into one of four output shapes (see Output).

It is grounded on the teacher's botanic.go/partition.go: the same
"orchestrator drives C1-C4 leaves via a shared cursor and a shared result
sink, both mutex-guarded" shape, generalized from growing one decision tree
to computing joint information gains over k-subsets.
*/
package mdfs

import (
	"fmt"
	"sort"
)

// RawInput is the immutable caller-supplied data matrix: N objects by V
// variables, column-major, plus a length-N decision vector (spec.md §3).
type RawInput struct {
	Columns  [][]float64
	Decision []int32
}

func (r RawInput) validate(k int) error {
	if len(r.Columns) == 0 {
		return &InputShapeError{Field: "columns", Got: 0, Want: ">= 1"}
	}
	if len(r.Columns) < k {
		return &InputShapeError{Field: "V", Got: len(r.Columns), Want: fmt.Sprintf(">= k (%d)", k)}
	}
	n := len(r.Columns[0])
	if n < 2 {
		return &InputShapeError{Field: "N", Got: n, Want: ">= 2"}
	}
	for i, col := range r.Columns {
		if len(col) != n {
			return &InputShapeError{Field: fmt.Sprintf("columns[%d]", i), Got: len(col), Want: fmt.Sprintf("length %d", n)}
		}
	}
	if len(r.Decision) != n {
		return &InputShapeError{Field: "decision", Got: len(r.Decision), Want: fmt.Sprintf("length %d", n)}
	}
	for i, d := range r.Decision {
		if d < 0 || d > 1 {
			return &InputShapeError{Field: fmt.Sprintf("decision[%d]", i), Got: d, Want: "in {0,1}"}
		}
	}
	return nil
}

// Spec carries the parameters of one MDFS run beyond the discretisation
// itself (spec.md §4.5/§6): mdfs_spec in the spec's terms.
type Spec struct {
	K               int
	Pseudo          float64
	IGThreshold     float64
	InterestingVars []int
	RequireAllVars  bool
	OutputMode      OutputMode
	ILower          []float64

	// RecordTuples toggles recording the winning tuple/replicate alongside
	// MaxIG/MinIG's accumulated values (SPEC_FULL.md §C.2). It is off
	// unless set (the Go zero value); callers that only need the scalar
	// values leave it off to skip the allocation.
	RecordTuples bool

	// Workers sizes the fixed worker pool of spec.md §5. Zero means "let
	// Run choose" (runtime.GOMAXPROCS(0)).
	Workers int
}

func (s Spec) validate(v int, decisive bool) error {
	if s.K < 1 || s.K > 5 {
		return &InputShapeError{Field: "k", Got: s.K, Want: "1..=5"}
	}
	if v < s.K {
		return &InputShapeError{Field: "V", Got: v, Want: fmt.Sprintf(">= k (%d)", s.K)}
	}
	if s.Pseudo <= 0 {
		return &ParameterRangeError{Field: "pseudo", Got: s.Pseudo, Want: "> 0"}
	}
	if err := s.validateInterestingVars(v); err != nil {
		return err
	}
	if s.OutputMode == AllPairs && s.K != 2 {
		return &ModeMismatchError{Reason: fmt.Sprintf("output_mode=all_pairs requires k=2, got k=%d", s.K)}
	}
	if s.ILower != nil {
		if len(s.ILower) != v {
			return &InputShapeError{Field: "I_lower", Got: len(s.ILower), Want: fmt.Sprintf("length %d", v)}
		}
		if s.K != 2 {
			return &ModeMismatchError{Reason: fmt.Sprintf("I_lower is only usable at k=2, got k=%d", s.K)}
		}
		if !decisive {
			return &ModeMismatchError{Reason: "I_lower's k=2 fast path is only defined in decision mode"}
		}
	}
	return nil
}

func (s Spec) validateInterestingVars(v int) error {
	if len(s.InterestingVars) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(s.InterestingVars))
	for _, iv := range s.InterestingVars {
		if iv < 0 || iv >= v {
			return &InputShapeError{Field: "interesting_vars", Got: iv, Want: fmt.Sprintf("in [0, %d)", v)}
		}
		if seen[iv] {
			return &InputShapeError{Field: "interesting_vars", Got: iv, Want: "no duplicates"}
		}
		seen[iv] = true
	}
	return nil
}

// newOutput builds the accumulator matching spec.Output_mode, per spec.md
// §4.5 step 2's initialisation rules.
func newOutput(spec Spec, v int) (*Output, error) {
	switch spec.OutputMode {
	case MaxIG:
		return NewMaxIGOutput(v, spec.RecordTuples), nil
	case MinIG:
		return NewMinIGOutput(v, spec.RecordTuples), nil
	case MatchingTuples:
		return NewMatchingTuplesOutput(spec.IGThreshold, spec.InterestingVars), nil
	case AllPairs:
		return NewAllPairsOutput(v), nil
	}
	return nil, &ModeMismatchError{Reason: fmt.Sprintf("unknown output_mode %v", spec.OutputMode)}
}

// acceptsTuple implements spec.md §4.5's tuple filter, applied by a worker
// before it invokes the kernel on a candidate tuple.
func acceptsTuple(tuple []int, interestingVars []int, requireAllVars bool) bool {
	if len(interestingVars) == 0 {
		return true
	}
	present := make(map[int]bool, len(tuple))
	for _, t := range tuple {
		present[t] = true
	}
	if requireAllVars {
		for _, iv := range interestingVars {
			if !present[iv] {
				return false
			}
		}
		return true
	}
	for _, iv := range interestingVars {
		if present[iv] {
			return true
		}
	}
	return false
}

// usesRestrictedGenerator reports whether the tuple generator itself can be
// confined to interesting_vars (spec.md §4.3's "implementation hint"):
// legal only when every tuple drawn from that restricted universe already
// satisfies the filter on its own, i.e. require_all_vars with exactly k
// interesting variables.
func usesRestrictedGenerator(spec Spec) bool {
	return spec.RequireAllVars && len(spec.InterestingVars) == spec.K
}

func sortedCopy(xs []int) []int {
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	return cp
}
