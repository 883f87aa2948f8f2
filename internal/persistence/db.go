// Package persistence provides the SQLite results store. Each run is stored
// under its own UUID; the store is write-mostly and never used to resume.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mig-world/internal/agents"
	"github.com/talgya/mig-world/internal/config"
	"github.com/talgya/mig-world/internal/engine"
)

// ErrRunNotFound is returned when a run ID has no row in the store.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for simulation results.
type DB struct {
	conn *sqlx.DB
}

// Run is the stored header of one simulation run.
type Run struct {
	ID         string    `db:"id" json:"id"`
	Seed       uint64    `db:"seed" json:"seed"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	ConfigJSON string    `db:"config_json" json:"-"`
}

// Config decodes the run's stored configuration.
func (r Run) Config() (config.Config, error) {
	var cfg config.Config
	err := json.Unmarshal([]byte(r.ConfigJSON), &cfg)
	return cfg, err
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS household_records (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		hh_id INTEGER NOT NULL,
		migrations INTEGER NOT NULL,
		wealth REAL NOT NULL,
		num_shocked INTEGER NOT NULL,
		wtp REAL NOT NULL,
		wta REAL NOT NULL,
		found_work INTEGER NOT NULL,
		ag_fac REAL NOT NULL,
		mig_util REAL NOT NULL,
		mig_threshold REAL NOT NULL,
		comm_scale REAL NOT NULL,
		PRIMARY KEY (run_id, tick, hh_id)
	);

	CREATE TABLE IF NOT EXISTS migration_totals (
		run_id TEXT NOT NULL REFERENCES runs(id),
		tick INTEGER NOT NULL,
		total_mig INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE INDEX IF NOT EXISTS idx_household_records_hh ON household_records(run_id, hh_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun registers a new run and returns its ID.
func (db *DB) SaveRun(cfg config.Config, seed uint64) (uuid.UUID, error) {
	id := uuid.New()
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode config: %w", err)
	}

	_, err = db.conn.Exec(
		"INSERT INTO runs (id, seed, started_at, config_json) VALUES (?, ?, ?, ?)",
		id.String(), int64(seed), time.Now().UTC(), string(cfgJSON),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	slog.Info("run registered", "run", id, "seed", seed)
	return id, nil
}

// SaveTick appends one tick of records for a run.
func (db *DB) SaveTick(runID uuid.UUID, records []engine.HouseholdRecord, total engine.MigrationRecord) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO household_records
		(run_id, tick, hh_id, migrations, wealth, num_shocked, wtp, wta,
		 found_work, ag_fac, mig_util, mig_threshold, comm_scale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	run := runID.String()
	for _, r := range records {
		_, err := stmt.Exec(
			run, int64(r.Tick), int64(r.HouseholdID), r.Migrations, r.Wealth,
			r.NumShocked, r.WageOffer, r.WageAsk, r.FoundWork, r.AgFactor,
			r.MigUtil, r.MigThreshold, r.CommScale,
		)
		if err != nil {
			return fmt.Errorf("insert household %d: %w", r.HouseholdID, err)
		}
	}

	_, err = tx.Exec(
		"INSERT INTO migration_totals (run_id, tick, total_mig) VALUES (?, ?, ?)",
		run, int64(total.Tick), total.TotalMig,
	)
	if err != nil {
		return fmt.Errorf("insert migration total: %w", err)
	}

	return tx.Commit()
}

// SaveCollected writes the collector's records for tick.
func (db *DB) SaveCollected(runID uuid.UUID, c *engine.Collector, tick uint64) error {
	total, ok := c.Latest()
	if !ok || total.Tick != tick {
		return fmt.Errorf("tick %d not collected", tick)
	}
	return db.SaveTick(runID, c.TickRecords(tick), total)
}

// GetRun returns the header of a run.
func (db *DB) GetRun(runID uuid.UUID) (Run, error) {
	var r Run
	err := db.conn.Get(&r,
		"SELECT id, seed, started_at, config_json FROM runs WHERE id = ?",
		runID.String(),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return r, err
}

// Migrations returns the per-tick migration totals of a run in tick order.
func (db *DB) Migrations(runID uuid.UUID) ([]engine.MigrationRecord, error) {
	var out []engine.MigrationRecord
	err := db.conn.Select(&out,
		"SELECT tick, total_mig FROM migration_totals WHERE run_id = ? ORDER BY tick",
		runID.String(),
	)
	return out, err
}

// HouseholdHistory returns one household's records of a run in tick order.
func (db *DB) HouseholdHistory(runID uuid.UUID, hh agents.HouseholdID) ([]engine.HouseholdRecord, error) {
	var out []engine.HouseholdRecord
	err := db.conn.Select(&out, `SELECT
		tick, hh_id, migrations, wealth, num_shocked, wtp, wta,
		found_work, ag_fac, mig_util, mig_threshold, comm_scale
		FROM household_records WHERE run_id = ? AND hh_id = ? ORDER BY tick`,
		runID.String(), int64(hh),
	)
	return out, err
}
