package bio_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/pkg/bio"
)

func TestWriteJSONMaxIG(t *testing.T) {
	out := mdfs.NewMaxIGOutput(2, true)
	out.Update([]int{0, 1}, []float64{1.5, 0.2}, 0)

	var buf bytes.Buffer
	require.NoError(t, bio.WriteJSON(&buf, out))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "max_ig", decoded["mode"])
	require.Len(t, decoded["max_ig"], 2)
	require.Len(t, decoded["best_tuple"], 2)
}

func TestWriteJSONAllPairs(t *testing.T) {
	out := mdfs.NewAllPairsOutput(2)
	out.Update([]int{0, 1}, []float64{0.4, 0.4}, 0)

	var buf bytes.Buffer
	require.NoError(t, bio.WriteJSON(&buf, out))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "all_pairs", decoded["mode"])
	require.Equal(t, float64(2), decoded["matrix_columns"])
}

func TestWriteJSONMatchingTuples(t *testing.T) {
	out := mdfs.NewMatchingTuplesOutput(0, nil)
	out.Update([]int{0, 1}, []float64{0.9, 0.9}, 2)

	var buf bytes.Buffer
	require.NoError(t, bio.WriteJSON(&buf, out))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "matching_tuples", decoded["mode"])
	require.NotEmpty(t, decoded["matching"])
}
