/*
Package bio reads and writes the ambient file formats a run of mdfs needs:
CSV training data, a YAML run configuration, and JSON output. It is
grounded on the teacher's set/csv/csv.go, feature/yaml/yaml.go and
tree/json/tree.go, generalized from botanic's sample/feature/tree domain to
mdfs.RawInput and mdfs.Output.
*/
package bio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/mdfs"
)

// WriteCSV serializes out as a CSV table, one row per result: variable/IG
// pairs for MaxIG/MinIG, tuple/focal-variable/IG/replicate rows for
// MatchingTuples, or one row per matrix row for AllPairs. Grounded on
// set/csv/csv.go's WriteSetBySample: a header row (none for AllPairs, whose
// rows are bare matrix rows) followed by one record per output value, written
// with the stdlib encoding/csv writer the teacher uses
// everywhere it emits CSV.
func WriteCSV(w io.Writer, out *mdfs.Output) error {
	cw := csv.NewWriter(w)
	switch out.Mode {
	case mdfs.MaxIG, mdfs.MinIG:
		if err := cw.Write([]string{"variable", "ig"}); err != nil {
			return fmt.Errorf("bio: writing CSV header: %v", err)
		}
		for v, ig := range out.MaxIGValues() {
			if err := cw.Write([]string{strconv.Itoa(v), strconv.FormatFloat(ig, 'g', -1, 64)}); err != nil {
				return fmt.Errorf("bio: writing CSV row %d: %v", v, err)
			}
		}
	case mdfs.MatchingTuples:
		if err := cw.Write([]string{"tuple", "focal_var", "ig", "replicate"}); err != nil {
			return fmt.Errorf("bio: writing CSV header: %v", err)
		}
		for _, m := range out.Matching() {
			if err := cw.Write([]string{fmt.Sprint(m.Tuple), strconv.Itoa(m.FocalVar), strconv.FormatFloat(m.IG, 'g', -1, 64), strconv.Itoa(m.Replicate)}); err != nil {
				return fmt.Errorf("bio: writing CSV row: %v", err)
			}
		}
	case mdfs.AllPairs:
		v := out.MatrixColumns()
		matrix := out.Matrix()
		for i := 0; i < v; i++ {
			row := make([]string, v)
			for j := 0; j < v; j++ {
				row[j] = strconv.FormatFloat(matrix[i*v+j], 'g', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("bio: writing CSV row %d: %v", i, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("bio: flushing CSV output: %v", err)
	}
	return nil
}

// ReadCSV reads a column-major numeric matrix plus a decision column from a
// CSV stream into a mdfs.RawInput. The header row names every variable
// column; the last column must be named "decision" and hold integer class
// labels (spec.md §3). Rows hold one object per line.
//
// Grounded on set/csv/csv.go's ReadSetBySample: header-driven column
// ordering, one parse error wrapped per offending line.
func ReadCSV(r io.Reader) (mdfs.RawInput, []string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return mdfs.RawInput{}, nil, fmt.Errorf("bio: reading CSV header: %v", err)
	}
	if len(header) < 2 {
		return mdfs.RawInput{}, nil, fmt.Errorf("bio: CSV header must have at least one variable column and a decision column")
	}
	if header[len(header)-1] != "decision" {
		return mdfs.RawInput{}, nil, fmt.Errorf("bio: CSV header's last column must be named %q, got %q", "decision", header[len(header)-1])
	}
	names := header[:len(header)-1]
	columns := make([][]float64, len(names))

	var decision []int32
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return mdfs.RawInput{}, nil, fmt.Errorf("bio: reading CSV row %d: %v", line, err)
		}
		if len(row) != len(header) {
			return mdfs.RawInput{}, nil, fmt.Errorf("bio: row %d has %d columns, want %d", line, len(row), len(header))
		}
		for i := range names {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				return mdfs.RawInput{}, nil, fmt.Errorf("bio: row %d: parsing %q as float64 for column %q: %v", line, row[i], names[i], err)
			}
			columns[i] = append(columns[i], v)
		}
		d, err := strconv.ParseInt(row[len(row)-1], 10, 32)
		if err != nil {
			return mdfs.RawInput{}, nil, fmt.Errorf("bio: row %d: parsing %q as decision: %v", line, row[len(row)-1], err)
		}
		decision = append(decision, int32(d))
	}
	return mdfs.RawInput{Columns: columns, Decision: decision}, names, nil
}

// ReadCSVFromFilePath opens filepath (or reads STDIN if filepath is empty)
// and parses it with ReadCSV.
func ReadCSVFromFilePath(filepath string) (mdfs.RawInput, []string, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return mdfs.RawInput{}, nil, fmt.Errorf("bio: opening %s: %v", filepath, err)
		}
		defer f.Close()
	}
	return ReadCSV(f)
}
