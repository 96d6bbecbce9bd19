package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cogmodel/declmem/internal/results"
)

func (a *api) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := a.store.ListRuns()
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []results.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// loadRun resolves the runID path parameter, answering 404 or 500 itself
// when there is nothing to hand back.
func (a *api) loadRun(w http.ResponseWriter, r *http.Request) *results.Run {
	run, err := a.store.GetRun(chi.URLParam(r, "runID"))
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if run == nil {
		fail(w, http.StatusNotFound, "run not found")
		return nil
	}
	return run
}

func (a *api) getRun(w http.ResponseWriter, r *http.Request) {
	if run := a.loadRun(w, r); run != nil {
		writeJSON(w, http.StatusOK, run)
	}
}

func (a *api) observations(w http.ResponseWriter, r *http.Request) {
	run := a.loadRun(w, r)
	if run == nil {
		return
	}
	obs, err := a.store.Observations(run.ID)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if obs == nil {
		obs = []results.Observation{}
	}
	writeJSON(w, http.StatusOK, obs)
}
