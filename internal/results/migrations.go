package results

import "fmt"

// The schema history, one DDL step per version. An open database remembers
// the last step applied in SQLite's user_version header field, so
// migrating is simply replaying the steps past it.
var schema = []string{
	// version 1: runs and their per-round observations
	`
CREATE TABLE runs (
    id           TEXT PRIMARY KEY,
    model        TEXT NOT NULL,
    params       TEXT,
    started_at   INTEGER NOT NULL
);

CREATE TABLE observations (
    id           INTEGER PRIMARY KEY,
    run_id       TEXT NOT NULL,
    round        INTEGER NOT NULL,
    label        TEXT NOT NULL,
    value        REAL NOT NULL,

    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX idx_observations_run ON observations(run_id, round);
`,
}

func (s *Store) migrate() error {
	applied, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	for v := applied; v < len(schema); v++ {
		if _, err := s.Exec(schema[v]); err != nil {
			return fmt.Errorf("schema step %d: %w", v+1, err)
		}
		if _, err := s.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("record schema step %d: %w", v+1, err)
		}
	}
	return nil
}

// SchemaVersion reports how many schema steps the database has applied.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}
