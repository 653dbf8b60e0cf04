package bio

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pbanos/mdfs"
)

// jsonOutput is the on-the-wire shape of a mdfs.Output, one field populated
// per spec.md §6's four output shapes. Grounded on tree/json/tree.go and
// dataset/json/json.go's "one dedicated marshalling struct per domain type"
// idiom.
type jsonOutput struct {
	Mode string `json:"mode"`

	MaxIG          []*float64 `json:"max_ig,omitempty"`
	BestTuple      [][]int   `json:"best_tuple,omitempty"`
	BestReplicate  []int     `json:"best_replicate,omitempty"`
	PerReplicateMin []*float64 `json:"per_replicate_min,omitempty"`

	Matching []mdfs.MatchEntry `json:"matching,omitempty"`

	Matrix        []*float64 `json:"matrix,omitempty"`
	MatrixColumns int       `json:"matrix_columns,omitempty"`
}

// WriteJSON serializes a mdfs.Output onto w as a single JSON object (spec.md
// §6's external output interface). Infinite values (variables or matrix
// cells that no tuple updated, such as the AllPairs diagonal) are written as
// null, since JSON has no representation for them.
func WriteJSON(w io.Writer, out *mdfs.Output) error {
	jo := jsonOutput{Mode: out.Mode.String()}
	switch out.Mode {
	case mdfs.MaxIG, mdfs.MinIG:
		jo.MaxIG = nullIfInfinite(out.MaxIGValues())
		if tuples := out.BestTuples(); tuples != nil {
			jo.BestTuple = tuples
			jo.BestReplicate = out.BestReplicates()
		}
		if out.Mode == mdfs.MinIG {
			jo.PerReplicateMin = nullIfInfinite(out.PerReplicateMin())
		}
	case mdfs.MatchingTuples:
		jo.Matching = out.Matching()
	case mdfs.AllPairs:
		jo.Matrix = nullIfInfinite(out.Matrix())
		jo.MatrixColumns = out.MatrixColumns()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jo); err != nil {
		return fmt.Errorf("bio: writing JSON output: %v", err)
	}
	return nil
}

// nullIfInfinite returns pointers into xs, with nil in place of every
// infinite value so that it encodes as JSON null.
func nullIfInfinite(xs []float64) []*float64 {
	ptrs := make([]*float64, len(xs))
	for i := range xs {
		if !math.IsInf(xs[i], 0) {
			ptrs[i] = &xs[i]
		}
	}
	return ptrs
}
