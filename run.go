package mdfs

import (
	"runtime"
	"sync"

	"github.com/pbanos/mdfs/dataset"
	"github.com/pbanos/mdfs/kernel"
	"github.com/pbanos/mdfs/tuple"
)

func validateDiscretisationSpec(d dataset.DiscretisationSpec) error {
	if d.Divisions < 1 || d.Divisions > 255 {
		return &ParameterRangeError{Field: "divisions", Got: d.Divisions, Want: "1..=255"}
	}
	if d.Replicates < 1 {
		return &ParameterRangeError{Field: "replicates", Got: d.Replicates, Want: ">= 1"}
	}
	if d.Range <= 0 || d.Range > 1 {
		return &ParameterRangeError{Field: "range", Got: d.Range, Want: "(0,1]"}
	}
	return nil
}

/*
Run is the C5 entry point of spec.md §4.5: it builds the DataSet (C1+C2),
then for every discretisation replicate drives a fixed-size worker pool
(spec.md §5) over the replicate's tuples (C3), invoking the kernel (C4) on
each accepted one and folding its IG vector into Output under the
aggregator mutex.

Every precondition in spec.md §7 is checked before any worker is spawned;
Run never returns a partial result.
*/
func Run(raw RawInput, discSpec dataset.DiscretisationSpec, spec Spec) (*Output, error) {
	if err := raw.validate(spec.K); err != nil {
		return nil, err
	}
	if err := validateDiscretisationSpec(discSpec); err != nil {
		return nil, err
	}
	ds, err := dataset.Build(raw.Columns, raw.Decision, discSpec)
	if err != nil {
		return nil, err
	}
	if err := spec.validate(ds.VariableCount(), ds.Decisive()); err != nil {
		return nil, err
	}
	kr, err := kernel.New(ds, spec.K, spec.Pseudo)
	if err != nil {
		return nil, err
	}
	output, err := newOutput(spec, ds.VariableCount())
	if err != nil {
		return nil, err
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	classes := len(ds.ClassCounts())

	var iLower []float64
	if spec.K == 2 && spec.ILower != nil {
		iLower = spec.ILower
	}

	for r := 0; r < ds.Replicates(); r++ {
		replicateOutput := output
		if spec.OutputMode == MinIG {
			replicateOutput = newMinIGLocal(ds.VariableCount(), spec.RecordTuples)
		}
		var generator *tuple.Generator
		if usesRestrictedGenerator(spec) {
			generator = tuple.NewRestricted(spec.InterestingVars, spec.K)
		} else {
			generator = tuple.New(ds.VariableCount(), spec.K)
		}

		if err := runReplicate(ds, kr, generator, spec, iLower, replicateOutput, r, workers, classes); err != nil {
			return nil, err
		}

		if spec.OutputMode == MinIG {
			output.foldReplicateMin(replicateOutput, r)
		}
	}
	return output, nil
}

// Univariate returns, for every variable, the mean across discretisation
// replicates of the single-variable information quantity SPEC_FULL.md §C.1
// recovers from the original implementation: I(Y;X_v) in decision mode, or
// H(X_v) in no-decision mode. It runs independently of Run's k-subset
// orchestration, reading the per-replicate single-variable statistics that
// kernel.New precomputes.
func Univariate(raw RawInput, discSpec dataset.DiscretisationSpec, spec Spec) ([]float64, error) {
	if err := raw.validate(1); err != nil {
		return nil, err
	}
	if err := validateDiscretisationSpec(discSpec); err != nil {
		return nil, err
	}
	if spec.Pseudo <= 0 {
		return nil, &ParameterRangeError{Field: "pseudo", Got: spec.Pseudo, Want: "> 0"}
	}
	ds, err := dataset.Build(raw.Columns, raw.Decision, discSpec)
	if err != nil {
		return nil, err
	}
	kr, err := kernel.New(ds, 1, spec.Pseudo)
	if err != nil {
		return nil, err
	}
	result := make([]float64, ds.VariableCount())
	for v := 0; v < ds.VariableCount(); v++ {
		var sum float64
		for r := 0; r < ds.Replicates(); r++ {
			sum += kr.UnivariateIG(v, r)
		}
		result[v] = sum / float64(ds.Replicates())
	}
	return result, nil
}

// runReplicate spawns the fixed-size worker pool for one discretisation
// replicate and waits for it to drain the generator.
func runReplicate(ds *dataset.DataSet, kr *kernel.Kernel, generator *tuple.Generator, spec Spec, iLower []float64, out *Output, replicate, workers, classes int) error {
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			scratch := kernel.NewScratch(spec.K, ds.Divisions(), classes)
			buf := make([]int, spec.K)
			for generator.HasNext() {
				if !generator.Next(buf) {
					continue
				}
				if !acceptsTuple(buf, spec.InterestingVars, spec.RequireAllVars) {
					continue
				}
				if err := kr.ProcessTuple(ds, buf, replicate, scratch, iLower); err != nil {
					errCh <- err
					return
				}
				out.Update(buf, scratch.IGs, replicate)
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
