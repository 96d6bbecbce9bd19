package results

import (
	"testing"
)

func testDB(t *testing.T) *Store {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)
	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("SchemaVersion = %d, want 1", v)
	}
}

func TestCreateAndListRuns(t *testing.T) {
	db := testDB(t)

	run, err := db.CreateRun("rps", `{"rounds":100,"noise":0.1}`)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run ID empty")
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil || got.Model != "rps" {
		t.Fatalf("GetRun = %+v", got)
	}

	missing, err := db.GetRun("nope")
	if err != nil || missing != nil {
		t.Errorf("GetRun of absent id = %v, %v", missing, err)
	}

	if _, err := db.CreateRun("ibl", "{}"); err != nil {
		t.Fatalf("CreateRun ibl: %v", err)
	}
	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("ListRuns = %d runs, want 2", len(runs))
	}
}

func TestObservations(t *testing.T) {
	db := testDB(t)
	run, err := db.CreateRun("ibl", "{}")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	for round, value := range []float64{0.52, 0.44, 0.31} {
		err := db.AddObservation(run.ID, Observation{Round: round, Label: "risky_fraction", Value: value})
		if err != nil {
			t.Fatalf("AddObservation round %d: %v", round, err)
		}
	}

	obs, err := db.Observations(run.ID)
	if err != nil {
		t.Fatalf("Observations: %v", err)
	}
	if len(obs) != 3 {
		t.Fatalf("observations = %d, want 3", len(obs))
	}
	if obs[0].Round != 0 || obs[2].Value != 0.31 {
		t.Errorf("observations out of order: %+v", obs)
	}
	if obs[1].Label != "risky_fraction" {
		t.Errorf("label = %q", obs[1].Label)
	}
}
