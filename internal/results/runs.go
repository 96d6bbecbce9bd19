package results

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one recorded experiment execution.
type Run struct {
	ID        string
	Model     string
	Params    string
	StartedAt int64
}

// Observation is a single per-round measurement within a run.
type Observation struct {
	Round int
	Label string
	Value float64
}

// CreateRun inserts a new run for the named model and returns it. Params is
// a free-form description of the parameters used, typically JSON.
func (db *Store) CreateRun(model, params string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Model:     model,
		Params:    params,
		StartedAt: time.Now().UnixMilli(),
	}
	_, err := db.Exec(
		"INSERT INTO runs (id, model, params, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Model, run.Params, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// AddObservation appends one measurement to a run.
func (db *Store) AddObservation(runID string, obs Observation) error {
	_, err := db.Exec(
		"INSERT INTO observations (run_id, round, label, value) VALUES (?, ?, ?, ?)",
		runID, obs.Round, obs.Label, obs.Value,
	)
	if err != nil {
		return fmt.Errorf("add observation: %w", err)
	}
	return nil
}

// ListRuns returns all runs, most recent first.
func (db *Store) ListRuns() ([]Run, error) {
	rows, err := db.Query("SELECT id, model, params, started_at FROM runs ORDER BY started_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Model, &r.Params, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id, nil when absent.
func (db *Store) GetRun(id string) (*Run, error) {
	var r Run
	err := db.QueryRow(
		"SELECT id, model, params, started_at FROM runs WHERE id = ?", id,
	).Scan(&r.ID, &r.Model, &r.Params, &r.StartedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &r, nil
}

// Observations returns a run's measurements in round order.
func (db *Store) Observations(runID string) ([]Observation, error) {
	rows, err := db.Query(
		"SELECT round, label, value FROM observations WHERE run_id = ? ORDER BY round, id", runID,
	)
	if err != nil {
		return nil, fmt.Errorf("observations: %w", err)
	}
	defer rows.Close()

	var out []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(&o.Round, &o.Label, &o.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
