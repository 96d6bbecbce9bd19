// Package server publishes recorded experiment results over HTTP. The API
// is read-only; runs are written by the CLI commands that produce them.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cogmodel/declmem/internal/results"
)

// api holds what the handlers share.
type api struct {
	store   *results.Store
	version string
	started time.Time
}

// Handler builds the HTTP API over the given results store.
func Handler(store *results.Store, version string) http.Handler {
	a := &api{store: store, version: version, started: time.Now()}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Get("/runs", a.listRuns)
		r.Get("/runs/{runID}", a.getRun)
		r.Get("/runs/{runID}/observations", a.observations)
	})
	return r
}

// health reports degraded rather than failing outright when the database
// is unreachable, so probes can tell a dead process from a dead disk.
func (a *api) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := a.store.Ping(); err != nil {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"version":  a.version,
		"results":  a.store.Path,
		"uptime_s": int(time.Since(a.started).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
