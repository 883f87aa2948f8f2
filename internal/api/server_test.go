package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mig-world/internal/config"
	"github.com/talgya/mig-world/internal/engine"
	"github.com/talgya/mig-world/internal/metrics"
)

func newTestServer(t *testing.T, steps int) (*Server, *engine.Simulation) {
	t.Helper()
	cfg := config.Config{
		Ticks:        5,
		Households:   6,
		Individuals:  30,
		Decision:     "utility",
		MigUtil:      20000,
		MigThreshold: 5000,
		WealthFactor: 10000,
		AgFactor:     1000,
		CommScale:    0.3,
		ShockMethod:  config.ShockDiscrete,
		JobsAvail:    5,
		Seed:         11,
	}
	reg := prometheus.NewRegistry()
	sim, err := engine.NewSimulation(cfg, engine.WithMetrics(metrics.New(reg)))
	require.NoError(t, err)
	for i := 0; i < steps; i++ {
		require.NoError(t, sim.Step())
	}
	srv := &Server{
		Info:      RunInfo{Seed: sim.Seed, Ticks: cfg.Ticks, Decision: cfg.Decision},
		Collector: sim.Collector,
		Gatherer:  reg,
	}
	return srv, sim
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStatusBeforeFirstTick(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	rec := get(t, srv.Routes(), "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["collected"])
	assert.NotContains(t, body, "tick")
}

func TestStatusAfterTicks(t *testing.T) {
	srv, sim := newTestServer(t, 2)
	rec := get(t, srv.Routes(), "/api/v1/status")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Collected       bool   `json:"collected"`
		Tick            uint64 `json:"tick"`
		SimTime         string `json:"sim_time"`
		TotalMigrations int    `json:"total_migrations"`
		Done            bool   `json:"done"`
		Run             RunInfo
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Collected)
	assert.Equal(t, uint64(1), body.Tick)
	assert.Equal(t, "Year 2", body.SimTime)
	assert.Equal(t, sim.TotalMigrations(), body.TotalMigrations)
	assert.False(t, body.Done)
	assert.Equal(t, "utility", body.Run.Decision)
}

func TestMigrations(t *testing.T) {
	srv, _ := newTestServer(t, 3)
	rec := get(t, srv.Routes(), "/api/v1/migrations")
	require.Equal(t, http.StatusOK, rec.Code)

	var migs []engine.MigrationRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &migs))
	require.Len(t, migs, 3)
	assert.Equal(t, uint64(2), migs[2].Tick)
}

func TestHouseholdHistory(t *testing.T) {
	srv, sim := newTestServer(t, 2)
	h := srv.Routes()
	hh := sim.Arena.Households()[0]

	rec := get(t, h, "/api/v1/households/"+strconv.FormatUint(uint64(hh.ID), 10))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		HHID    uint64                   `json:"hh_id"`
		Records []engine.HouseholdRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(hh.ID), body.HHID)
	require.Len(t, body.Records, 2)
	assert.Equal(t, hh.Wealth, body.Records[1].Wealth)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/households/9999").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/households/abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/households/0").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	rec := get(t, srv.Routes(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "migsim_ticks_total 1"))

	srv.Gatherer = nil
	assert.Equal(t, http.StatusNotFound, get(t, srv.Routes(), "/metrics").Code)
}

func TestRateLimitedRoutes(t *testing.T) {
	srv, _ := newTestServer(t, 0)
	srv.RateLimit = 2
	h := srv.Routes()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/status").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/api/v1/status").Code)
	rec := get(t, h, "/api/v1/status")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
