// Package results persists experiment output — runs and their per-round
// observations — in SQLite so finished simulations can be inspected later.
// Only the harness writes here; the memory engine itself never touches
// disk.
package results

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is a handle on the results database.
type Store struct {
	*sql.DB
	Path string
}

// DefaultPath places the database under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".declmem", "results.db"), nil
}

// Open opens the database at path, creating the file and bringing the
// schema up to date as needed. The special path ":memory:" opens a private
// in-memory database, which the tests use.
func Open(path string) (*Store, error) {
	inMemory := path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("results dir: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if inMemory {
		// each pooled connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	s := &Store{DB: sqlDB, Path: path}
	if err := s.init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// init applies connection settings and migrates the schema. Runs are
// appended by a single CLI process and read back by the server, so the
// default rollback journal suffices; there is no WAL or mmap tuning here.
func (s *Store) init() error {
	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := s.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return s.migrate()
}
