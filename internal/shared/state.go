package shared

import (
	"cmp"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/*.sql
var schemaFiles embed.FS

// MemoryState is the path of a state database that lives only as long as its connection.
const MemoryState = ":memory:"

// Schema is one version of the state database, loaded from a sql/NNNN_name_{up,down}.sql pair.
type Schema struct {
	Version int
	Name    string
	Up      []string // statements, comments stripped
	Down    []string
}

// schemas returns every embedded schema version in ascending order.
func schemas() ([]Schema, error) {
	ups, err := fs.Glob(schemaFiles, "sql/*_up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema files: %w", err)
	}

	out := make([]Schema, 0, len(ups))
	for _, up := range ups {
		base := strings.TrimSuffix(path.Base(up), "_up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("schema file %s has no name", up)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("schema file %s has no version: %w", up, err)
		}

		upSQL, err := schemaFiles.ReadFile(up)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", up, err)
		}
		down := strings.TrimSuffix(up, "_up.sql") + "_down.sql"
		downSQL, err := schemaFiles.ReadFile(down)
		if err != nil {
			return nil, fmt.Errorf("schema %d has no down file: %w", version, err)
		}

		out = append(out, Schema{Version: version, Name: name, Up: statements(string(upSQL)), Down: statements(string(downSQL))})
	}

	slices.SortFunc(out, func(a, b Schema) int { return cmp.Compare(a.Version, b.Version) })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate schema version %d", out[i].Version)
		}
	}
	return out, nil
}

// statements splits a SQL file on semicolons and drops line comments and blank statements.
func statements(src string) []string {
	var out []string
	for _, raw := range strings.Split(src, ";") {
		var lines []string
		for _, line := range strings.Split(raw, "\n") {
			if i := strings.Index(line, "--"); i >= 0 {
				line = line[:i]
			}
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// OpenState opens the state database described by cfg and migrates it to the latest schema.
//
// The parent directory is created when missing. An in-memory database is limited to one connection, since every
// connection to [MemoryState] is a separate database.
func OpenState(cfg StateConfig) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: state path", ErrMissingArgument)
	}
	if cfg.Path != MemoryState {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}

	if cfg.Path == MemoryState {
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	if _, err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies every schema version newer than the database's and returns how many were applied.
func Migrate(db *sql.DB) (int, error) {
	all, err := schemas()
	if err != nil {
		return 0, err
	}
	current, err := SchemaVersion(db)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, s := range all {
		if s.Version <= current {
			continue
		}
		if err := step(db, s.Up, "INSERT INTO plx_schema (version, name) VALUES (?, ?)", s.Version, s.Name); err != nil {
			return applied, fmt.Errorf("failed to apply schema %d (%s): %w", s.Version, s.Name, err)
		}
		applied++
	}
	return applied, nil
}

// SchemaVersion returns the newest applied schema version, 0 for an empty database.
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS plx_schema (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return 0, fmt.Errorf("failed to create schema table: %w", err)
	}

	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM plx_schema").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Rollback reverts the newest applied schema version and returns it. Rolling back an empty database is an error.
func Rollback(db *sql.DB) (int, error) {
	current, err := SchemaVersion(db)
	if err != nil {
		return 0, err
	}
	if current == 0 {
		return 0, fmt.Errorf("%w: no schema to roll back", ErrInvalidInput)
	}

	all, err := schemas()
	if err != nil {
		return 0, err
	}
	i := slices.IndexFunc(all, func(s Schema) bool { return s.Version == current })
	if i < 0 {
		return 0, fmt.Errorf("schema %d is not known to this build", current)
	}

	s := all[i]
	if err := step(db, s.Down, "DELETE FROM plx_schema WHERE version = ?", s.Version); err != nil {
		return 0, fmt.Errorf("failed to roll back schema %d (%s): %w", s.Version, s.Name, err)
	}
	return s.Version, nil
}

// ResetState rolls back every applied schema version and migrates again, discarding all stored dialogs.
func ResetState(db *sql.DB) error {
	for {
		current, err := SchemaVersion(db)
		if err != nil {
			return err
		}
		if current == 0 {
			break
		}
		if _, err := Rollback(db); err != nil {
			return err
		}
	}
	_, err := Migrate(db)
	return err
}

// step runs stmts and the bookkeeping query in one transaction.
func step(db *sql.DB, stmts []string, bookkeeping string, args ...any) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("%w\nstatement: %s", err, stmt)
		}
	}
	if _, err := tx.Exec(bookkeeping, args...); err != nil {
		return err
	}
	return tx.Commit()
}
