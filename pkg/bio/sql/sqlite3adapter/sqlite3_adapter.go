/*
Package sqlite3adapter opens a SQLite RawInput source for mdfs, grounded on
the teacher's pkg/bio/sql/sqlite3adapter/sqlite3_adapter.go sql.Open("sqlite3",
path) idiom with the go-sqlite3 driver registered via blank import.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	mdfssql "github.com/pbanos/mdfs/pkg/bio/sql"

	"github.com/pbanos/mdfs"
)

// New opens the SQLite database file at path.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite3adapter: opening %s: %v", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3adapter: connecting to %s: %v", path, err)
	}
	return db, nil
}

// ReadRawInput reads a mdfs.RawInput from table on db, using variables as
// the ordered feature columns and decisionColumn as the class label column.
func ReadRawInput(db *sql.DB, table string, variables []string, decisionColumn string) (mdfs.RawInput, error) {
	return mdfssql.ReadTable(db, table, variables, decisionColumn)
}
