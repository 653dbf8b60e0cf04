/*
Package kernel implements C4, the EntropyKernel: per-tuple joint counting,
entropy/mutual-information computation and the resulting per-dimension
information-gain vector.

It is grounded on two sources: the reference MDFS engine's
src/cpu/{mdfs_cpu_kernel.h,entropy.h,mdfs_count_counters.h,stats.h} for the
exact counting/reduction/entropy formulas, and the teacher's partition.go
(dataset.Dataset.Entropy, weighted information-gain accumulation in
NewDiscretePartition/newRangePartition) for the Go idiom of deriving
information gain from class counts.
*/
package kernel

import (
	"fmt"
	"math"

	"github.com/pbanos/mdfs/dataset"
)

// Scratch holds the thread-owned buffers the kernel needs to process one
// tuple: a joint histogram (Counters), one reduced histogram reused across
// tuple positions (Reduced) and the resulting IG vector (IGs). Per spec.md
// §5, each worker allocates exactly one Scratch at pool startup and reuses
// it across every tuple it processes.
type Scratch struct {
	Counters []float64
	Reduced  []float64
	IGs      []float64
}

// NewScratch allocates a Scratch sized for tuples of k variables, D
// divisions and the given number of decision classes (1 or 2).
func NewScratch(k, divisions, classes int) *Scratch {
	cubes := pow(divisions+1, k)
	reducedCubes := pow(divisions+1, k-1)
	return &Scratch{
		Counters: make([]float64, classes*cubes),
		Reduced:  make([]float64, classes*reducedCubes),
		IGs:      make([]float64, k),
	}
}

func pow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}

// Kernel holds the quantities derived once per run (pseudocount weights)
// and once per replicate (univariate entropies/mutual informations), and
// shared read-only by every worker thereafter.
type Kernel struct {
	k         int
	divisions int
	classes   int // 1 (no-decision) or 2 (binary decision)
	decisive  bool
	pseudoC   []float64 // p_c, spec §4.4 step 2

	// univariate[r][v] is, per replicate r and variable v:
	//  - no-decision mode: H(X_v), the plain entropy of that variable's
	//    discretisation for replicate r.
	//  - decision mode: H(Y|X_v), the conditional entropy of the decision
	//    given that single variable's discretisation for replicate r.
	// Precomputed once per replicate per spec.md §4.4 step 6's rationale,
	// reused by the no-decision k>=2 formula and the UnivariateIG
	// supplemental operation. The decision-mode incremental fast path does
	// not read it: it uses the caller-supplied iLower vector instead.
	univariate [][]float64

	// decisionEntropy is H(Y), the plain entropy of the decision vector
	// alone (no variable involved, no pseudocounts: it is a constant of
	// the dataset, independent of replicate or discretisation).
	decisionEntropy float64
}

// New builds a Kernel for tuples of size k over the given DataSet, with the
// given pseudocount parameter (spec.md §4.4 step 2). It precomputes the
// per-replicate univariate quantities described above.
func New(ds *dataset.DataSet, k int, pseudo float64) (*Kernel, error) {
	if k < 1 || k > 5 {
		return nil, fmt.Errorf("kernel: k must be in [1,5], got %d", k)
	}
	if pseudo <= 0 {
		return nil, fmt.Errorf("kernel: pseudo must be > 0, got %g", pseudo)
	}
	classCounts := ds.ClassCounts()
	classes := len(classCounts)

	kr := &Kernel{
		k:         k,
		divisions: ds.Divisions(),
		classes:   classes,
		decisive:  ds.Decisive(),
		pseudoC:   make([]float64, classes),
	}

	cmin := minUint64(classCounts)
	for c, n := range classCounts {
		kr.pseudoC[c] = (float64(n) / float64(cmin)) * pseudo
	}

	if kr.decisive {
		kr.decisionEntropy = plainDecisionEntropy(classCounts)
	}

	kr.univariate = make([][]float64, ds.Replicates())
	for r := 0; r < ds.Replicates(); r++ {
		kr.univariate[r] = make([]float64, ds.VariableCount())
		for v := 0; v < ds.VariableCount(); v++ {
			kr.univariate[r][v] = kr.univariateStat(ds, v, r)
		}
	}
	return kr, nil
}

func minUint64(xs []uint64) uint64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// plainDecisionEntropy computes H(Y), the entropy of the raw decision class
// counts with no pseudo-smoothing and no bucket structure: it is a fixed
// property of the dataset, used by UnivariateIG and by the decision-mode
// k=2 incremental fast path (spec.md §4.4 step 6).
func plainDecisionEntropy(classCounts []uint64) float64 {
	total := float64(0)
	for _, c := range classCounts {
		total += float64(c)
	}
	h := 0.0
	for _, c := range classCounts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// univariateStat computes, for one variable/replicate, H(X_v) (no-decision)
// or H(Y|X_v) (decision mode): the same joint-entropy formula as a k=1
// tuple evaluation, with pseudocounts applied exactly as step 2 specifies.
func (kr *Kernel) univariateStat(ds *dataset.DataSet, variable, replicate int) float64 {
	cubes := kr.divisions + 1
	counters := make([]float64, kr.classes*cubes)
	col := ds.Get(variable, replicate)
	decision := ds.Decision()
	for o, bucket := range col {
		class := 0
		if kr.decisive {
			class = int(decision[o])
		}
		counters[class*cubes+int(bucket)]++
	}
	for c := 0; c < kr.classes; c++ {
		for b := 0; b < cubes; b++ {
			counters[c*cubes+b] += kr.pseudoC[c]
		}
	}
	if kr.decisive {
		return conditionalEntropy(kr.classes, cubes, counters)
	}
	return plainEntropy(cubes, counters)
}

// UnivariateIG returns, for one variable and replicate, the univariate
// information quantity from spec.md §C.1: I(Y;X_v) in decision mode, or
// H(X_v) in no-decision mode.
func (kr *Kernel) UnivariateIG(variable, replicate int) float64 {
	if kr.decisive {
		return kr.decisionEntropy - kr.univariate[replicate][variable]
	}
	return kr.univariate[replicate][variable]
}

// ProcessTuple fills scratch.IGs with the information gain attributed to
// each position of t (a k-length slice of variable ids) for the given
// discretisation replicate, per spec.md §4.4. iLower is the optional
// externally supplied length-V vector of I(Y;X_i); it is only consulted
// when decisive and k==2 (the incremental fast path of step 6).
func (kr *Kernel) ProcessTuple(ds *dataset.DataSet, t []int, replicate int, scratch *Scratch, iLower []float64) error {
	if len(t) != kr.k {
		return fmt.Errorf("kernel: tuple has %d elements, want %d", len(t), kr.k)
	}
	cubes := pow(kr.divisions+1, kr.k)
	counters := scratch.Counters
	for i := range counters {
		counters[i] = 0
	}
	kr.countJoint(ds, t, replicate, counters, cubes)

	if kr.decisive && kr.k == 2 && iLower != nil {
		hJoint := conditionalEntropy(kr.classes, cubes, counters)
		hGivenX1 := kr.decisionEntropy - iLower[t[1]]
		hGivenX0 := kr.decisionEntropy - iLower[t[0]]
		scratch.IGs[0] = hGivenX1 - hJoint
		scratch.IGs[1] = hGivenX0 - hJoint
		return nil
	}

	var hJoint float64
	if kr.decisive {
		hJoint = conditionalEntropy(kr.classes, cubes, counters)
	} else {
		hJoint = plainEntropy(cubes, counters)
	}

	if !kr.decisive && kr.k == 1 {
		// No "other" tuple variable exists to condition against: report
		// the variable's own entropy directly (spec.md §4.4 edge cases).
		scratch.IGs[0] = hJoint
		return nil
	}

	n1 := kr.divisions + 1
	reducedCubes := cubes / n1
	for v, stride := 0, 1; v < kr.k; v, stride = v+1, stride*n1 {
		reduced := scratch.Reduced[:kr.classes*reducedCubes]
		for i := range reduced {
			reduced[i] = 0
		}
		reduceCounters(kr.classes, cubes, counters, reduced, stride, n1)

		var hReduced float64
		if kr.decisive {
			hReduced = conditionalEntropy(kr.classes, reducedCubes, reduced)
			scratch.IGs[v] = hReduced - hJoint
		} else {
			hReduced = plainEntropy(reducedCubes, reduced)
			scratch.IGs[v] = kr.univariate[replicate][t[v]] + hReduced - hJoint
		}
	}
	return nil
}

// countJoint implements spec.md §4.4 steps 1-2: the flat joint histogram
// over the k-variable bucket space, with pseudocounts applied uniformly.
func (kr *Kernel) countJoint(ds *dataset.DataSet, t []int, replicate int, counters []float64, cubes int) {
	n1 := kr.divisions + 1
	decision := ds.Decision()
	cols := make([][]byte, kr.k)
	for i, v := range t {
		cols[i] = ds.Get(v, replicate)
	}
	nObj := ds.ObjectCount()
	for o := 0; o < nObj; o++ {
		bucket := 0
		stride := 1
		for i := 0; i < kr.k; i++ {
			bucket += int(cols[i][o]) * stride
			stride *= n1
		}
		class := 0
		if kr.decisive {
			class = int(decision[o])
		}
		counters[class*cubes+bucket]++
	}
	for c := 0; c < kr.classes; c++ {
		base := c * cubes
		for b := 0; b < cubes; b++ {
			counters[base+b] += kr.pseudoC[c]
		}
	}
}

// reduceCounters sums out one tuple variable with the given stride
// (spec.md §4.4 step 4): it marginalises the bucket axis of the variable at
// position v (stride = (D+1)^v, block = (D+1)^(v+1)), for every class.
func reduceCounters(classes, cubes int, in, out []float64, stride, n1 int) {
	reducedCubes := cubes / n1
	block := stride * n1
	for c := 0; c < classes; c++ {
		inBase := c * cubes
		outBase := c * reducedCubes
		outIdx := 0
		for base := 0; base < cubes; base += block {
			for s := 0; s < stride; s++ {
				var sum float64
				for d := 0; d < n1; d++ {
					sum += in[inBase+base+s+d*stride]
				}
				out[outBase+outIdx] = sum
				outIdx++
			}
		}
	}
}

// conditionalEntropy implements spec.md §4.4 step 3's decision-mode
// formula, H(joint) = sum_b P(b) * H(Y|X=b), in bits: each cell's raw count
// is normalized against the grand total (so the result does not scale with
// object count) before being weighted by -log2 of its within-bucket
// probability, with the explicit 0*log2(0) = 0 guard step 3/edge-cases
// requires.
func conditionalEntropy(classes, cubes int, counters []float64) float64 {
	grandTotal := 0.0
	for _, n := range counters {
		grandTotal += n
	}
	if grandTotal == 0 {
		return 0
	}
	h := 0.0
	for b := 0; b < cubes; b++ {
		total := 0.0
		for c := 0; c < classes; c++ {
			total += counters[c*cubes+b]
		}
		if total == 0 {
			continue
		}
		for c := 0; c < classes; c++ {
			n := counters[c*cubes+b]
			if n == 0 {
				continue
			}
			h -= (n / grandTotal) * math.Log2(n/total)
		}
	}
	return h
}

// plainEntropy implements spec.md §4.4 step 3's no-decision formula,
// H(joint) = -sum_b p_b * log2(p_b) with p_b = n_b / T, T being the total
// including pseudocounts. Normalizing by T keeps the result in bits
// regardless of object count.
func plainEntropy(cubes int, counters []float64) float64 {
	total := 0.0
	for b := 0; b < cubes; b++ {
		total += counters[b]
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for b := 0; b < cubes; b++ {
		n := counters[b]
		if n == 0 {
			continue
		}
		p := n / total
		h -= p * math.Log2(p)
	}
	return h
}
