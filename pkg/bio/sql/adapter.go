/*
Package sql reads a mdfs.RawInput out of a relational table: one column per
variable plus a decision column, selected with plain database/sql. Concrete
drivers live in the pgadapter and sqlite3adapter subpackages; both build a
*sql.DB and hand it to ReadTable here.

Grounded on the teacher's pkg/bio/sql/adapter.go (a single narrow interface
the driver packages satisfy) and set/sqlset/pgadapter/pg_adapter.go (the
sql.Open/prepared-query idiom), simplified from botanic's discrete/continuous
feature-criterion CRUD surface to mdfs's read-only numeric matrix.
*/
package sql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/mdfs"
)

// ReadTable reads variables (column names, in order) plus decisionColumn
// from table via db and returns them as a mdfs.RawInput. Grounded on
// pg_adapter.go's ListSamples: a single SELECT built from caller-supplied
// column names, scanned row by row with database/sql.Rows.
func ReadTable(db *sql.DB, table string, variables []string, decisionColumn string) (mdfs.RawInput, error) {
	if len(variables) == 0 {
		return mdfs.RawInput{}, fmt.Errorf("sql: no variable columns given for table %s", table)
	}
	cols := append(append([]string{}, variables...), decisionColumn)
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoteAll(cols), ", "), quoteIdent(table))
	rows, err := db.Query(query)
	if err != nil {
		return mdfs.RawInput{}, fmt.Errorf("sql: querying %s: %v", table, err)
	}
	defer rows.Close()

	columns := make([][]float64, len(variables))
	var decision []int32
	scanTargets := make([]interface{}, len(cols))
	values := make([]float64, len(variables))
	var d int64
	for i := range variables {
		scanTargets[i] = &values[i]
	}
	scanTargets[len(variables)] = &d

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return mdfs.RawInput{}, fmt.Errorf("sql: scanning row from %s: %v", table, err)
		}
		for i, v := range values {
			columns[i] = append(columns[i], v)
		}
		decision = append(decision, int32(d))
	}
	if err := rows.Err(); err != nil {
		return mdfs.RawInput{}, fmt.Errorf("sql: iterating rows from %s: %v", table, err)
	}
	return mdfs.RawInput{Columns: columns, Decision: decision}, nil
}

func quoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return quoted
}

func quoteIdent(name string) string {
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}
