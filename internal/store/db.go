package store

import (
	"database/sql"
	"fmt"
)

// Backend names the embedded engine holding the database.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendDuckDB Backend = "duckdb"
)

const memoryPath = ":memory:"

func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendSQLite, "":
		return BackendSQLite, nil
	case BackendDuckDB:
		return BackendDuckDB, nil
	default:
		return "", fmt.Errorf("unknown store backend: %q (supported: sqlite, duckdb)", s)
	}
}

// NewDB opens a database handle for the given backend. path is a file path
// or ":memory:".
func NewDB(backend Backend, path string) (*sql.DB, error) {
	switch backend {
	case BackendSQLite, "":
		dsn := path
		if path != memoryPath {
			dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
		}
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, err
		}
		// a single connection keeps ":memory:" databases shared and gives
		// SQLite its single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return db, nil
	case BackendDuckDB:
		dsn := path
		if path == memoryPath {
			dsn = ""
		}
		return sql.Open("duckdb", dsn)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", backend)
	}
}

// dialect holds the few statements that differ between engines.
type dialect struct {
	tablesQuery  string
	indexesQuery string
}

func dialectFor(backend Backend) dialect {
	if backend == BackendDuckDB {
		return dialect{
			tablesQuery:  queryDuckDBTables,
			indexesQuery: queryDuckDBIndexes,
		}
	}
	return dialect{
		tablesQuery:  querySQLiteTables,
		indexesQuery: querySQLiteIndexes,
	}
}
