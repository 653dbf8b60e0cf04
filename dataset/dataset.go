/*
Package dataset implements C2, the DataSet: the discretised feature
tensor and class-count summary that every tuple evaluation reads from.

It is grounded on the teacher's dataset/set.go (the Dataset interface shape:
an Entropy-bearing, read-only-after-build collection with Count/Samples-style
accessors) adapted from a slice of samples to the [variable][replicate][object]
byte tensor spec.md §3/§4.2 requires. Unlike the teacher's dual memory- vs
CPU-intensive implementations (which exist there to trade memory for time
when repeatedly subsetting samples), MDFS never subsets: the Non-goals of
spec.md exclude streaming/incremental datasets, so a single eagerly built
tensor, built once, is the only dataset this package needs.
*/
package dataset

import (
	"fmt"
	"sort"

	"github.com/pbanos/mdfs/internal/discretiser"
)

// DiscretisationSpec is the tuple (seed, replicates, divisions, range) that
// fully determines the thresholds used to discretise every column, per
// spec.md §3.
type DiscretisationSpec struct {
	Seed       uint32
	Replicates int
	Divisions  int
	Range      float64
}

// Validate checks the DiscretisationSpec invariants of spec.md §7
// (ParameterRangeError conditions).
func (s DiscretisationSpec) Validate() error {
	if s.Divisions < 1 || s.Divisions > 255 {
		return fmt.Errorf("dataset: divisions must be in [1,255], got %d", s.Divisions)
	}
	if s.Replicates < 1 {
		return fmt.Errorf("dataset: replicates must be >= 1, got %d", s.Replicates)
	}
	if s.Range <= 0 || s.Range > 1 {
		return fmt.Errorf("dataset: range must be in (0,1], got %g", s.Range)
	}
	return nil
}

// DataSet owns the discretised feature tensor, the decision vector and the
// per-class object counts. It is immutable once built, and is safe for
// concurrent read-only use by any number of workers.
type DataSet struct {
	variableCount int
	replicates    int
	objectCount   int
	divisions     int

	// data is laid out row-major as [variable][replicate][object], so that
	// Get returns a contiguous N-byte slice: the kernel's inner per-object
	// loop then streams from contiguous memory for every tuple variable.
	data []byte

	decision    []int32
	classCounts []uint64
}

// Build runs the discretiser (C1) for every (variable, replicate) pair over
// columns (V columns, N values each, column-major as spec.md §6 mandates)
// and returns the resulting DataSet, or an error if the inputs violate the
// invariants of spec.md §3/§7.
//
// decision must hold values in {0} (no-decision mode) or {0,1} (binary
// decision mode) for every object.
func Build(columns [][]float64, decision []int32, spec DiscretisationSpec) (*DataSet, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	variableCount := len(columns)
	if variableCount == 0 {
		return nil, fmt.Errorf("dataset: at least one variable is required")
	}
	objectCount := len(columns[0])
	if objectCount < 2 {
		return nil, fmt.Errorf("dataset: at least 2 objects are required, got %d", objectCount)
	}
	for i, col := range columns {
		if len(col) != objectCount {
			return nil, fmt.Errorf("dataset: variable %d has %d values, want %d", i, len(col), objectCount)
		}
	}
	if len(decision) != objectCount {
		return nil, fmt.Errorf("dataset: decision has %d values, want %d", len(decision), objectCount)
	}
	classCounts, err := countClasses(decision)
	if err != nil {
		return nil, err
	}

	ds := &DataSet{
		variableCount: variableCount,
		replicates:    spec.Replicates,
		objectCount:   objectCount,
		divisions:     spec.Divisions,
		data:          make([]byte, variableCount*spec.Replicates*objectCount),
		decision:      append([]int32(nil), decision...),
		classCounts:   classCounts,
	}

	for v, col := range columns {
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)
		for r := 0; r < spec.Replicates; r++ {
			out := ds.slice(v, r)
			err := discretiser.Discretise(spec.Seed, uint32(r), uint32(v), spec.Divisions, col, sorted, out, spec.Range)
			if err != nil {
				return nil, fmt.Errorf("dataset: discretising variable %d replicate %d: %w", v, r, err)
			}
		}
	}
	return ds, nil
}

// FromDiscretised builds a DataSet directly from already-discretised data,
// bypassing C1. It exists for two reasons: an external backend (e.g. the
// GPU sibling implementation of spec.md §1) may discretise off-box and only
// need the rest of the pipeline, and it gives the kernel and orchestrator
// packages a way to construct exact, deterministic fixtures for their
// tests instead of depending on discretiser's randomness.
//
// data must be laid out row-major as [variable][replicate][object], i.e.
// len(data) == variableCount*replicates*objectCount, matching the layout
// Build produces.
func FromDiscretised(data []byte, variableCount, replicates, objectCount, divisions int, decision []int32) (*DataSet, error) {
	if len(data) != variableCount*replicates*objectCount {
		return nil, fmt.Errorf("dataset: data has %d bytes, want %d", len(data), variableCount*replicates*objectCount)
	}
	if len(decision) != objectCount {
		return nil, fmt.Errorf("dataset: decision has %d values, want %d", len(decision), objectCount)
	}
	classCounts, err := countClasses(decision)
	if err != nil {
		return nil, err
	}
	return &DataSet{
		variableCount: variableCount,
		replicates:    replicates,
		objectCount:   objectCount,
		divisions:     divisions,
		data:          append([]byte(nil), data...),
		decision:      append([]int32(nil), decision...),
		classCounts:   classCounts,
	}, nil
}

func countClasses(decision []int32) ([]uint64, error) {
	maxClass := int32(0)
	for _, d := range decision {
		if d < 0 || d > 1 {
			return nil, fmt.Errorf("dataset: decision value %d out of alphabet {0,1}", d)
		}
		if d > maxClass {
			maxClass = d
		}
	}
	counts := make([]uint64, maxClass+1)
	for _, d := range decision {
		counts[d]++
	}
	return counts, nil
}

// Get returns the N discretised bucket values for the given variable and
// discretisation replicate, in {0,...,D}.
func (ds *DataSet) Get(variable, replicate int) []byte {
	return ds.slice(variable, replicate)
}

func (ds *DataSet) slice(variable, replicate int) []byte {
	start := (variable*ds.replicates + replicate) * ds.objectCount
	return ds.data[start : start+ds.objectCount]
}

// Decision returns the per-object class label vector.
func (ds *DataSet) Decision() []int32 { return ds.decision }

// ClassCounts returns the number of objects per decision class. Its length
// is 1 in no-decision mode, 2 in binary decision mode.
func (ds *DataSet) ClassCounts() []uint64 { return ds.classCounts }

// Decisive reports whether the dataset carries a real (non no-decision)
// binary decision, i.e. whether K=2 in the sense of spec.md §4.4.
func (ds *DataSet) Decisive() bool { return len(ds.classCounts) > 1 }

func (ds *DataSet) ObjectCount() int   { return ds.objectCount }
func (ds *DataSet) VariableCount() int { return ds.variableCount }
func (ds *DataSet) Replicates() int    { return ds.replicates }
func (ds *DataSet) Divisions() int     { return ds.divisions }
