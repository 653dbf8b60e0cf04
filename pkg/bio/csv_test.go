package bio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbanos/mdfs"
	"github.com/pbanos/mdfs/pkg/bio"
)

func TestReadCSVParsesHeaderAndRows(t *testing.T) {
	doc := "x0,x1,decision\n0.1,5,0\n0.2,4,0\n1.1,1,1\n"
	raw, names, err := bio.ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, []string{"x0", "x1"}, names)
	require.Equal(t, [][]float64{{0.1, 0.2, 1.1}, {5, 4, 1}}, raw.Columns)
	require.Equal(t, []int32{0, 0, 1}, raw.Decision)
}

func TestReadCSVRejectsMissingDecisionColumn(t *testing.T) {
	doc := "x0,x1,y\n0.1,5,0\n"
	_, _, err := bio.ReadCSV(strings.NewReader(doc))
	require.Error(t, err)
}

func TestReadCSVRejectsShortHeader(t *testing.T) {
	doc := "decision\n0\n"
	_, _, err := bio.ReadCSV(strings.NewReader(doc))
	require.Error(t, err)
}

func TestReadCSVRejectsRowLengthMismatch(t *testing.T) {
	doc := "x0,decision\n0.1,0\n0.2\n"
	_, _, err := bio.ReadCSV(strings.NewReader(doc))
	require.Error(t, err)
}

func TestReadCSVRejectsNonNumericValue(t *testing.T) {
	doc := "x0,decision\nfoo,0\n"
	_, _, err := bio.ReadCSV(strings.NewReader(doc))
	require.Error(t, err)
}

func TestWriteCSVMaxIG(t *testing.T) {
	out := mdfs.NewMaxIGOutput(2, false)
	out.Update([]int{0, 1}, []float64{1.5, 0.2}, 0)

	var buf bytes.Buffer
	require.NoError(t, bio.WriteCSV(&buf, out))
	require.Equal(t, "variable,ig\n0,1.5\n1,0.2\n", buf.String())
}

func TestWriteCSVAllPairs(t *testing.T) {
	out := mdfs.NewAllPairsOutput(2)
	out.Update([]int{0, 1}, []float64{0.4, 0.3}, 0)

	var buf bytes.Buffer
	require.NoError(t, bio.WriteCSV(&buf, out))
	require.Equal(t, "-Inf,0.4\n0.3,-Inf\n", buf.String())
}
