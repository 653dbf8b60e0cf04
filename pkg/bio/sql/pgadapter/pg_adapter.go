/*
Package pgadapter opens a PostgreSQL RawInput source for mdfs, grounded on
set/sqlset/pgadapter/pg_adapter.go's sql.Open("postgres", url) idiom with the
lib/pq driver registered via blank import.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	mdfssql "github.com/pbanos/mdfs/pkg/bio/sql"

	"github.com/pbanos/mdfs"
)

// New opens a PostgreSQL connection at url and pings it, mirroring
// pg_adapter.go's New: open, then verify the connection is live before
// handing it back.
func New(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("pgadapter: opening %s: %v", url, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pgadapter: connecting to %s: %v", url, err)
	}
	return db, nil
}

// ReadRawInput reads a mdfs.RawInput from table on db, using variables as
// the ordered feature columns and decisionColumn as the class label column.
func ReadRawInput(db *sql.DB, table string, variables []string, decisionColumn string) (mdfs.RawInput, error) {
	return mdfssql.ReadTable(db, table, variables, decisionColumn)
}
