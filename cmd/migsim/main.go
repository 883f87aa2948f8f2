// Command migsim runs the environmental migration simulation of one origin
// community and optionally records and serves its results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/talgya/mig-world/internal/api"
	"github.com/talgya/mig-world/internal/config"
	"github.com/talgya/mig-world/internal/engine"
	"github.com/talgya/mig-world/internal/metrics"
	"github.com/talgya/mig-world/internal/persistence"
)

func main() {
	var (
		cfgPath   = flag.String("config", "configs/origin.yaml", "run configuration (YAML)")
		dbPath    = flag.String("db", "", "SQLite results file; empty disables the store")
		addr      = flag.String("addr", "", "results API listen address, e.g. :8080; empty disables the API")
		logLevel  = flag.String("log-level", "info", "debug, info, warn or error")
		interval  = flag.Duration("interval", 0, "minimum wall time per tick")
		rateLimit = flag.Int("rate-limit", 120, "API requests per client per minute; 0 disables")
		linger    = flag.Bool("linger", false, "keep serving the API after the run until interrupted")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	if err := run(*cfgPath, *dbPath, *addr, *interval, *rateLimit, *linger); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath, dbPath, addr string, interval time.Duration, rateLimit int, linger bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	sim, err := engine.NewSimulation(cfg, engine.WithMetrics(m))
	if err != nil {
		return err
	}

	// ── Results store ─────────────────────────────────────────────────
	var (
		db    *persistence.DB
		runID uuid.UUID
	)
	if dbPath != "" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err = persistence.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		runID, err = db.SaveRun(sim.Config, sim.Seed)
		if err != nil {
			return err
		}
		slog.Info("results store opened", "path", dbPath, "run", runID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── HTTP API ──────────────────────────────────────────────────────
	if addr != "" {
		srv := (&api.Server{
			Info:      runInfo(sim, runID),
			Collector: sim.Collector,
			Gatherer:  reg,
			Addr:      addr,
			RateLimit: rateLimit,
		}).Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine(uint64(cfg.Ticks))
	eng.Interval = interval
	eng.OnTick = func(uint64) error { return sim.Step() }
	if db != nil {
		eng.OnTickDone = func(tick uint64) error {
			return db.SaveCollected(runID, sim.Collector, tick)
		}
	}

	start := time.Now()
	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	final, _ := sim.Collector.Latest()
	slog.Info("simulation complete",
		"ticks", eng.Tick,
		"total_migrations", final.TotalMig,
		"labor_matches", sim.Labor.Matches,
		"ag_factor", fmt.Sprintf("%.4f", sim.AgFactor),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if linger && addr != "" && ctx.Err() == nil {
		slog.Info("run finished, API still serving; interrupt to exit")
		<-ctx.Done()
	}
	return nil
}

func runInfo(sim *engine.Simulation, runID uuid.UUID) api.RunInfo {
	info := api.RunInfo{
		Seed:        sim.Seed,
		Ticks:       sim.Config.Ticks,
		Households:  sim.Config.Households,
		Individuals: sim.Config.Individuals,
		Decision:    sim.Policy().String(),
		ShockMethod: string(sim.Config.ShockMethod),
		Footprint:   string(sim.Config.Footprint),
		CommScale:   sim.Config.CommScale,
	}
	if runID != uuid.Nil {
		info.RunID = runID.String()
	}
	return info
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
