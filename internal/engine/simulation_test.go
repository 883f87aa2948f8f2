package engine

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mig-world/internal/agents"
	"github.com/talgya/mig-world/internal/config"
	"github.com/talgya/mig-world/internal/decision"
	"github.com/talgya/mig-world/internal/metrics"
)

func testConfig() config.Config {
	return config.Config{
		Ticks:        10,
		Households:   30,
		Individuals:  150,
		Decision:     "push_threshold",
		MigUtil:      20000,
		MigThreshold: 5000,
		WealthFactor: 10000,
		AgFactor:     1000,
		CommScale:    0.3,
		ShockMethod:  config.ShockDiscrete,
		JobsAvail:    20,
		Seed:         7,
	}
}

func TestNewSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Households = 0
	_, err := NewSimulation(cfg)
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = testConfig()
	cfg.Decision = "tpb"
	_, err = NewSimulation(cfg)
	require.ErrorIs(t, err, decision.ErrUnimplemented)
}

func TestNewSimulationPopulates(t *testing.T) {
	s, err := NewSimulation(testConfig())
	require.NoError(t, err)

	inds, hhs := s.Arena.Len()
	assert.Equal(t, 150, inds)
	assert.Equal(t, 30, hhs)
	assert.Equal(t, uint64(0), s.Tick)
	assert.Equal(t, config.FootprintIndependent, s.Config.Footprint)
	assert.Equal(t, decision.PushThreshold, s.Policy())
}

// stepChecked runs one tick phase by phase and checks the per-phase
// invariants along the way.
func stepChecked(t *testing.T, s *Simulation) {
	t.Helper()
	s.applyShock()
	s.processLand()
	s.processJobSearch()

	for _, ind := range s.Arena.Individuals() {
		require.True(t, ind.Employment.Valid())
		if ind.Household != 0 {
			require.NotEqual(t, agents.EmploymentUnset, ind.Employment, "individual %d", ind.ID)
		}
		if ind.Migrated {
			assert.Equal(t, s.Config.MigUtil, ind.Salary)
			assert.NotEqual(t, agents.EmploymentLooking, ind.Employment)
		}
	}

	s.clearLabor()

	before := map[agents.HouseholdID]struct {
		wealth     float64
		migrations int
	}{}
	for _, hh := range s.Arena.Households() {
		before[hh.ID] = struct {
			wealth     float64
			migrations int
		}{hh.Wealth, hh.Migrations}
	}

	_, err := s.processDecisions()
	require.NoError(t, err)

	for _, hh := range s.Arena.Households() {
		b := before[hh.ID]
		sent := hh.Migrations - b.migrations
		assert.LessOrEqual(t, sent, 1, "household %d sent %d migrants", hh.ID, sent)
		if sent == 1 {
			assert.Greater(t, b.wealth, s.Config.MigThreshold)
		}
		assert.GreaterOrEqual(t, hh.Wealth, 0.0)
		assert.False(t, hh.LandImpacted)
		assert.Empty(t, hh.Payments)
	}

	s.Collector.Collect(s)
	s.advance()
}

func TestStepInvariants(t *testing.T) {
	s, err := NewSimulation(testConfig())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		stepChecked(t, s)
	}
	assert.Equal(t, uint64(10), s.Tick)

	migrants := 0
	for _, ind := range s.Arena.Individuals() {
		if ind.Migrated {
			migrants++
			assert.False(t, ind.CanMigrate)
		}
	}
	assert.Equal(t, migrants, s.TotalMigrations())
}

func TestSlowOnsetDecaysAgFactor(t *testing.T) {
	cfg := testConfig()
	cfg.ShockMethod = config.ShockSlowOnset
	s, err := NewSimulation(cfg)
	require.NoError(t, err)

	require.NoError(t, s.Step())
	require.NoError(t, s.Step())

	assert.InDelta(t, 1000*0.95*0.95, s.AgFactor, 1e-9)
	assert.False(t, s.LastShock)
	assert.False(t, s.Origin.Impacted)
}

func TestZeroCommScaleNeverDamagesLand(t *testing.T) {
	cfg := testConfig()
	cfg.CommScale = 0
	s, err := NewSimulation(cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Step())
	}
	for _, hh := range s.Arena.Households() {
		assert.Zero(t, hh.ShockCount)
	}
}

func TestClusteredFootprintRuns(t *testing.T) {
	cfg := testConfig()
	cfg.Footprint = config.FootprintClustered
	cfg.CommScale = 1
	s, err := NewSimulation(cfg)
	require.NoError(t, err)

	for _, hh := range s.Arena.Households() {
		p := s.hitProbability(hh)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, uint64(cfg.Ticks), s.Tick)
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []MigrationRecord {
		s, err := NewSimulation(testConfig(), WithOrderer(SequentialOrder{}))
		require.NoError(t, err)
		require.NoError(t, s.Run(context.Background()))
		return s.Collector.Migrations()
	}
	assert.Equal(t, run(), run())
}

func TestRunCollectsEveryTick(t *testing.T) {
	cfg := testConfig()
	s, err := NewSimulation(cfg)
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))

	migs := s.Collector.Migrations()
	require.Len(t, migs, cfg.Ticks)
	for i, m := range migs {
		assert.Equal(t, uint64(i), m.Tick)
		if i > 0 {
			assert.GreaterOrEqual(t, m.TotalMig, migs[i-1].TotalMig)
		}
	}
	assert.Len(t, s.Collector.Households(), cfg.Ticks*cfg.Households)
	assert.Len(t, s.Collector.TickRecords(0), cfg.Households)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := NewSimulation(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Zero(t, s.Tick)
}

func TestStepRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	s, err := NewSimulation(testConfig(), WithMetrics(m))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Step())
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, float64(s.TotalMigrations()), testutil.ToFloat64(m.Migrations))
}
