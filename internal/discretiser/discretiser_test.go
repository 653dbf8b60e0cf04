package discretiser_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs/internal/discretiser"
)

func discretiseColumn(t *testing.T, in []float64, divisions int, seed uint32, rng float64) []byte {
	t.Helper()
	sorted := append([]float64(nil), in...)
	sort.Float64s(sorted)
	out := make([]byte, len(in))
	err := discretiser.Discretise(seed, 0, 0, divisions, in, sorted, out, rng)
	require.NoError(t, err)
	return out
}

func TestDiscretiseBucketCountsSumToN(t *testing.T) {
	in := []float64{0.1, 3.4, 2.2, 1.9, 5.5, 0.2, 9.9, 4.4}
	out := discretiseColumn(t, in, 3, 42, 0.5)
	require.Len(t, out, len(in))
	counts := make(map[byte]int)
	for _, b := range out {
		require.GreaterOrEqual(t, int(b), 0)
		require.LessOrEqual(t, int(b), 3)
		counts[b]++
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	require.Equal(t, len(in), total)
}

func TestDiscretiseIsDeterministic(t *testing.T) {
	in := []float64{10, 2, 33, 4, 51, 6, 17, 8, 9, 100}
	first := discretiseColumn(t, in, 2, 7, 0.3)
	second := discretiseColumn(t, in, 2, 7, 0.3)
	require.Equal(t, first, second)
}

func TestDiscretiseDiffersAcrossVariableID(t *testing.T) {
	in := []float64{10, 2, 33, 4, 51, 6, 17, 8, 9, 100}
	sorted := append([]float64(nil), in...)
	sort.Float64s(sorted)
	out0 := make([]byte, len(in))
	out1 := make([]byte, len(in))
	require.NoError(t, discretiser.Discretise(7, 0, 0, 2, in, sorted, out0, 0.3))
	require.NoError(t, discretiser.Discretise(7, 0, 1, 2, in, sorted, out1, 0.3))
	require.NotEqual(t, out0, out1)
}

func TestDiscretiseOrderPreserving(t *testing.T) {
	// a monotonically increasing column should produce a monotonically
	// non-decreasing discretisation, since buckets are cut on rank position.
	in := make([]float64, 50)
	for i := range in {
		in[i] = float64(i)
	}
	out := discretiseColumn(t, in, 4, 1, 0.1)
	for i := 1; i < len(out); i++ {
		require.GreaterOrEqual(t, out[i], out[i-1])
	}
}

func TestDiscretiseRejectsMismatchedLengths(t *testing.T) {
	err := discretiser.Discretise(1, 0, 0, 2, []float64{1, 2}, []float64{1, 2, 3}, make([]byte, 2), 0.2)
	require.Error(t, err)
}
