// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Engine drives a simulation forward for a fixed number of ticks.
type Engine struct {
	Tick     uint64        // Ticks completed
	Ticks    uint64        // Ticks to run
	Interval time.Duration // Minimum wall time per tick; 0 runs flat out

	// Callbacks, populated during setup.
	OnTick     func(tick uint64) error // Computes the tick
	OnTickDone func(tick uint64) error // Runs after a tick completes (saving, publishing)
}

// NewEngine creates an engine that runs the given number of ticks.
func NewEngine(ticks uint64) *Engine {
	return &Engine{Ticks: ticks}
}

// Run executes ticks until Ticks is reached, a callback fails, or ctx is
// done. Cancellation is only observed between ticks.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("simulation engine started", "tick", e.Tick, "ticks", e.Ticks)

	for e.Tick < e.Ticks {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation engine stopped", "tick", e.Tick, "reason", err)
			return err
		}

		start := time.Now()
		if err := e.step(); err != nil {
			return err
		}

		// Sleep for the remainder of the tick interval.
		if elapsed := time.Since(start); elapsed < e.Interval {
			select {
			case <-ctx.Done():
			case <-time.After(e.Interval - elapsed):
			}
		}
	}

	slog.Info("simulation engine finished", "tick", e.Tick)
	return nil
}

// step runs one tick and its completion hook.
func (e *Engine) step() error {
	tick := e.Tick
	if e.OnTick != nil {
		if err := e.OnTick(tick); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}
	e.Tick++
	if e.OnTickDone != nil {
		if err := e.OnTickDone(tick); err != nil {
			return fmt.Errorf("after tick %d: %w", tick, err)
		}
	}
	return nil
}

// SimTime returns a human-readable simulation time for a tick. One tick is
// one year.
func SimTime(tick uint64) string {
	return fmt.Sprintf("Year %d", tick+1)
}
