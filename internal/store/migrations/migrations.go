package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// SchemaVersion is the version a freshly initialized database ends up at.
const SchemaVersion = 1

// ErrNewerSchema is returned when the database was written by a newer
// schema than this program knows.
var ErrNewerSchema = errors.New("database schema is newer than supported")

//go:embed sql/*.sql
var files embed.FS

const queryCreateMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name VARCHAR NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`

const queryCurrentVersion = `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`

type migration struct {
	version    int
	name       string
	statements []string
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Run applies every migration newer than the database's current version,
// each in its own transaction. Running it against an up-to-date database
// changes nothing.
func Run(ctx context.Context, db *sql.DB) error {
	all, err := load()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, queryCreateMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	current, err := Version(ctx, db)
	if err != nil {
		return err
	}

	latest := all[len(all)-1].version
	if current > latest {
		return fmt.Errorf("%w: database at version %d, latest known %d", ErrNewerSchema, current, latest)
	}

	log := zap.S().Named("migrations")
	for _, m := range all {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %03d_%s failed: %w", m.version, m.name, err)
		}
		log.Infow("applied migration", "version", m.version, "name", m.name)
	}

	return nil
}

// Version returns the highest applied migration, 0 for an empty database.
func Version(ctx context.Context, db queryRower) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, queryCurrentVersion).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	query, args, err := sq.Insert("schema_migrations").
		Columns("version", "name", "applied_at").
		Values(m.version, m.name, time.Now().UTC()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}

func load() ([]migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, err
	}

	var all []migration
	for _, e := range entries {
		base := strings.TrimSuffix(e.Name(), ".sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("invalid migration file name %q", e.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %q: %w", e.Name(), err)
		}

		content, err := fs.ReadFile(files, "sql/"+e.Name())
		if err != nil {
			return nil, err
		}

		all = append(all, migration{
			version:    version,
			name:       name,
			statements: splitStatements(string(content)),
		})
	}

	if len(all) == 0 {
		return nil, errors.New("no migrations found")
	}

	sort.Slice(all, func(i, j int) bool { return all[i].version < all[j].version })
	return all, nil
}

// splitStatements drops comment lines and splits a script on semicolons.
// Statements must not contain semicolons inside literals.
func splitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var stmts []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
