// Package metrics provides Prometheus instrumentation for simulation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters and gauges of one simulation run. All methods
// are safe on a nil receiver.
type Metrics struct {
	Ticks         prometheus.Counter
	Shocks        prometheus.Counter
	LandHits      prometheus.Counter
	Migrations    prometheus.Counter
	LaborMatches  prometheus.Counter
	NonFarmJobs   *prometheus.CounterVec
	Unemployed    prometheus.Gauge
	AgFactor      prometheus.Gauge
	AuctionRounds prometheus.Histogram
	TickDuration  prometheus.Histogram
}

// New creates the run metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "migsim_ticks_total",
			Help: "Simulation ticks completed",
		}),
		Shocks: f.NewCounter(prometheus.CounterOpts{
			Name: "migsim_community_shocks_total",
			Help: "Ticks in which the origin community was hit by a shock",
		}),
		LandHits: f.NewCounter(prometheus.CounterOpts{
			Name: "migsim_household_land_hits_total",
			Help: "Household plots damaged by a shock",
		}),
		Migrations: f.NewCounter(prometheus.CounterOpts{
			Name: "migsim_migrations_total",
			Help: "Migrants dispatched by households",
		}),
		LaborMatches: f.NewCounter(prometheus.CounterOpts{
			Name: "migsim_labor_matches_total",
			Help: "Successful double-auction matches",
		}),
		NonFarmJobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "migsim_nonfarm_jobs_total",
			Help: "Community non-farm jobs granted, by skill",
		}, []string{"skill"}),
		Unemployed: f.NewGauge(prometheus.GaugeOpts{
			Name: "migsim_unemployed",
			Help: "Individuals still looking after the last clearing",
		}),
		AgFactor: f.NewGauge(prometheus.GaugeOpts{
			Name: "migsim_ag_factor",
			Help: "Current agricultural productivity factor",
		}),
		AuctionRounds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "migsim_auction_rounds",
			Help:    "Double-auction rounds per labor market clearing",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "migsim_tick_duration_seconds",
			Help:    "Wall time spent computing one tick",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
}

// ObserveShock records the outcome of the community shock roll.
func (m *Metrics) ObserveShock(hit bool) {
	if m != nil && hit {
		m.Shocks.Inc()
	}
}

// IncrementLandHits records a damaged household plot.
func (m *Metrics) IncrementLandHits() {
	if m != nil {
		m.LandHits.Inc()
	}
}

// IncrementMigrations records a dispatched migrant.
func (m *Metrics) IncrementMigrations() {
	if m != nil {
		m.Migrations.Inc()
	}
}

// ObserveLabor records one labor market clearing.
func (m *Metrics) ObserveLabor(rounds, matches, skilled, unskilled, unemployed int) {
	if m == nil {
		return
	}
	m.AuctionRounds.Observe(float64(rounds))
	m.LaborMatches.Add(float64(matches))
	m.NonFarmJobs.WithLabelValues("skilled").Add(float64(skilled))
	m.NonFarmJobs.WithLabelValues("unskilled").Add(float64(unskilled))
	m.Unemployed.Set(float64(unemployed))
}

// ObserveTick records a completed tick.
func (m *Metrics) ObserveTick(d time.Duration, agFactor float64) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.TickDuration.Observe(d.Seconds())
	m.AgFactor.Set(agFactor)
}
