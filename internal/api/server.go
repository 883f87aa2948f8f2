// Package api provides the read-only HTTP API for observing a run's results.
// Handlers only read the collector, which is safe while the simulation runs.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talgya/mig-world/internal/agents"
	"github.com/talgya/mig-world/internal/engine"
)

// RunInfo describes the run being served. It does not change after start.
type RunInfo struct {
	RunID       string  `json:"run_id,omitempty"`
	Seed        uint64  `json:"seed"`
	Ticks       int     `json:"ticks"`
	Households  int     `json:"households"`
	Individuals int     `json:"individuals"`
	Decision    string  `json:"decision"`
	ShockMethod string  `json:"shock_method"`
	Footprint   string  `json:"footprint"`
	CommScale   float64 `json:"comm_scale"`
}

// Server serves collected results over HTTP.
type Server struct {
	Info      RunInfo
	Collector *engine.Collector
	Gatherer  prometheus.Gatherer // Nil disables /metrics
	Addr      string

	// Requests per client per minute; 0 disables limiting.
	RateLimit int
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.RateLimit > 0 {
		r.Use(NewRateLimiter(s.RateLimit, time.Minute).Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/migrations", s.handleMigrations)
		r.Get("/households/{id}", s.handleHousehold)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Start begins serving the HTTP API in a goroutine. The returned server can
// be shut down by the caller.
func (s *Server) Start() *http.Server {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "metrics", s.Gatherer != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"run":       s.Info,
		"collected": false,
	}
	if last, ok := s.Collector.Latest(); ok {
		status["collected"] = true
		status["tick"] = last.Tick
		status["sim_time"] = engine.SimTime(last.Tick)
		status["total_migrations"] = last.TotalMig
		status["done"] = last.Tick+1 >= uint64(s.Info.Ticks)
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleMigrations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Collector.Migrations())
}

func (s *Server) handleHousehold(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid household id")
		return
	}
	hist := s.Collector.HouseholdHistory(agents.HouseholdID(id))
	if hist == nil {
		writeError(w, http.StatusNotFound, "household not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hh_id":   id,
		"records": hist,
	})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
