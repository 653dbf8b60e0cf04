package mdfs_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/dataset"
)

func smallDecisiveInput() mdfs.RawInput {
	return mdfs.RawInput{
		Columns: [][]float64{
			{0.1, 0.2, 0.3, 0.4, 1.1, 1.2, 1.3, 1.4},
			{5, 4, 3, 2, 1, 0, -1, -2},
			{0.01, 0.03, 0.02, 0.05, 0.04, 0.09, 0.07, 0.08},
		},
		Decision: []int32{0, 0, 0, 0, 1, 1, 1, 1},
	}
}

func baseDiscSpec() dataset.DiscretisationSpec {
	return dataset.DiscretisationSpec{Seed: 42, Replicates: 3, Divisions: 1, Range: 0.5}
}

func baseSpec() mdfs.Spec {
	return mdfs.Spec{K: 2, Pseudo: 0.001, OutputMode: mdfs.MaxIG, RecordTuples: true}
}

func TestRunRejectsKGreaterThanV(t *testing.T) {
	spec := baseSpec()
	spec.K = 10
	_, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.Error(t, err)
	var shapeErr *mdfs.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestRunRejectsInvalidPseudo(t *testing.T) {
	spec := baseSpec()
	spec.Pseudo = 0
	_, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.Error(t, err)
	var rangeErr *mdfs.ParameterRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestRunRejectsInvalidDivisions(t *testing.T) {
	discSpec := baseDiscSpec()
	discSpec.Divisions = 0
	_, err := mdfs.Run(smallDecisiveInput(), discSpec, baseSpec())
	require.Error(t, err)
	var rangeErr *mdfs.ParameterRangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestRunRejectsAllPairsWithKNotTwo(t *testing.T) {
	spec := baseSpec()
	spec.K = 3
	spec.OutputMode = mdfs.AllPairs
	_, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.Error(t, err)
	var modeErr *mdfs.ModeMismatchError
	require.ErrorAs(t, err, &modeErr)
}

func TestRunRejectsILowerWrongLength(t *testing.T) {
	spec := baseSpec()
	spec.ILower = []float64{0.1, 0.2}
	_, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.Error(t, err)
	var shapeErr *mdfs.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestRunRejectsILowerAtKNotTwo(t *testing.T) {
	spec := baseSpec()
	spec.K = 1
	spec.ILower = []float64{0.1, 0.2, 0.3}
	_, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.Error(t, err)
	var modeErr *mdfs.ModeMismatchError
	require.ErrorAs(t, err, &modeErr)
}

func TestRunRejectsOutOfAlphabetDecision(t *testing.T) {
	in := smallDecisiveInput()
	in.Decision[0] = 2
	_, err := mdfs.Run(in, baseDiscSpec(), baseSpec())
	require.Error(t, err)
	var shapeErr *mdfs.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestRunRejectsMismatchedColumnLengths(t *testing.T) {
	in := smallDecisiveInput()
	in.Columns[1] = in.Columns[1][:4]
	_, err := mdfs.Run(in, baseDiscSpec(), baseSpec())
	require.Error(t, err)
	var shapeErr *mdfs.InputShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestRunMaxIGHasOneEntryPerVariable(t *testing.T) {
	out, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), baseSpec())
	require.NoError(t, err)
	require.Len(t, out.MaxIGValues(), 3)
	require.Len(t, out.BestTuples(), 3)
	require.Len(t, out.BestReplicates(), 3)
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	in := smallDecisiveInput()
	discSpec := baseDiscSpec()
	spec := baseSpec()

	out1, err := mdfs.Run(in, discSpec, spec)
	require.NoError(t, err)
	out2, err := mdfs.Run(in, discSpec, spec)
	require.NoError(t, err)

	require.Equal(t, out1.MaxIGValues(), out2.MaxIGValues())
}

func TestRunAllPairsMatrixIsVByV(t *testing.T) {
	spec := baseSpec()
	spec.OutputMode = mdfs.AllPairs
	out, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.NoError(t, err)
	require.Len(t, out.Matrix(), 3*3)
}

func TestRunMatchingTuplesUnsetThresholdAcceptsNonNegativeIGs(t *testing.T) {
	spec := baseSpec()
	spec.OutputMode = mdfs.MatchingTuples
	spec.IGThreshold = 0 // unset, per spec.md §4.5's threshold semantics
	out, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.NoError(t, err)
	require.NotEmpty(t, out.Matching())
}

func TestRunMinIGFoldsMaxOfReplicateMinima(t *testing.T) {
	spec := baseSpec()
	spec.OutputMode = mdfs.MinIG
	out, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.NoError(t, err)
	require.Len(t, out.MaxIGValues(), 3)
	for _, v := range out.MaxIGValues() {
		require.False(t, math.IsInf(v, 1))
	}
	require.Len(t, out.PerReplicateMin(), baseDiscSpec().Replicates)
}

func TestRunNoDecisionModeAccepted(t *testing.T) {
	in := smallDecisiveInput()
	for i := range in.Decision {
		in.Decision[i] = 0
	}
	spec := baseSpec()
	out, err := mdfs.Run(in, baseDiscSpec(), spec)
	require.NoError(t, err)
	require.Len(t, out.MaxIGValues(), 3)
}

func TestRunRestrictedGeneratorRequireAllVars(t *testing.T) {
	spec := baseSpec()
	spec.InterestingVars = []int{0, 2}
	spec.RequireAllVars = true
	out, err := mdfs.Run(smallDecisiveInput(), baseDiscSpec(), spec)
	require.NoError(t, err)
	tuples := out.BestTuples()
	if tuples[0] != nil {
		require.Equal(t, []int{0, 2}, tuples[0])
	}
}
