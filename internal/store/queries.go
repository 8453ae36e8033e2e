package store

// Schema introspection queries
const (
	querySQLiteTables = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' ORDER BY name`

	querySQLiteIndexes = `
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND name LIKE 'idx_%' ORDER BY name`

	queryDuckDBTables = `
		SELECT table_name FROM duckdb_tables() ORDER BY table_name`

	queryDuckDBIndexes = `
		SELECT index_name FROM duckdb_indexes()
		WHERE index_name LIKE 'idx_%' ORDER BY index_name`
)

// Key generator table
const (
	tableKeyGenerators     = "key_generators"
	columnKeyGenCollection = "collection"
	columnKeyGenLastKey    = "last_key"
)
