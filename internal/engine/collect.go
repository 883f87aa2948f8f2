// Per-tick data collection of household records and migration totals.
package engine

import (
	"sync"

	"github.com/talgya/mig-world/internal/agents"
)

// HouseholdRecord is one household's state at the end of a tick.
type HouseholdRecord struct {
	HouseholdID  agents.HouseholdID `json:"hh_id" db:"hh_id"`
	Tick         uint64             `json:"tick" db:"tick"`
	Migrations   int                `json:"migrations" db:"migrations"`
	Wealth       float64            `json:"wealth" db:"wealth"`
	NumShocked   int                `json:"num_shocked" db:"num_shocked"`
	WageOffer    float64            `json:"wtp" db:"wtp"`
	WageAsk      float64            `json:"wta" db:"wta"`
	FoundWork    int                `json:"found_work" db:"found_work"` // Cumulative auction matches
	AgFactor     float64            `json:"ag_fac" db:"ag_fac"`
	MigUtil      float64            `json:"mig_util" db:"mig_util"`
	MigThreshold float64            `json:"mig_threshold" db:"mig_threshold"`
	CommScale    float64            `json:"comm_scale" db:"comm_scale"`
}

// MigrationRecord is the community-wide migration total at the end of a tick.
type MigrationRecord struct {
	Tick     uint64 `json:"tick" db:"tick"`
	TotalMig int    `json:"total_mig" db:"total_mig"`
}

// Collector accumulates records over a run. It is safe for concurrent
// readers while the simulation writes.
type Collector struct {
	mu         sync.RWMutex
	households []HouseholdRecord
	migrations []MigrationRecord
	byHH       map[agents.HouseholdID][]int // Indexes into households
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{byHH: make(map[agents.HouseholdID][]int)}
}

// Collect snapshots s at its current tick.
func (c *Collector) Collect(s *Simulation) {
	hhs := s.Arena.Households()
	recs := make([]HouseholdRecord, len(hhs))
	total := 0
	for i, hh := range hhs {
		total += hh.Migrations
		recs[i] = HouseholdRecord{
			HouseholdID:  hh.ID,
			Tick:         s.Tick,
			Migrations:   hh.Migrations,
			Wealth:       hh.Wealth,
			NumShocked:   hh.ShockCount,
			WageOffer:    hh.WageOffer,
			WageAsk:      hh.WageAsk,
			FoundWork:    s.Labor.Matches,
			AgFactor:     s.AgFactor,
			MigUtil:      s.Config.MigUtil,
			MigThreshold: s.Config.MigThreshold,
			CommScale:    s.Config.CommScale,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range recs {
		c.byHH[r.HouseholdID] = append(c.byHH[r.HouseholdID], len(c.households))
		c.households = append(c.households, r)
	}
	c.migrations = append(c.migrations, MigrationRecord{Tick: s.Tick, TotalMig: total})
}

// Households returns a copy of every household record collected so far.
func (c *Collector) Households() []HouseholdRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]HouseholdRecord, len(c.households))
	copy(out, c.households)
	return out
}

// HouseholdHistory returns the records of one household in tick order, or
// nil if the household was never collected.
func (c *Collector) HouseholdHistory(id agents.HouseholdID) []HouseholdRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx := c.byHH[id]
	if len(idx) == 0 {
		return nil
	}
	out := make([]HouseholdRecord, len(idx))
	for i, j := range idx {
		out[i] = c.households[j]
	}
	return out
}

// TickRecords returns the household records collected at tick.
func (c *Collector) TickRecords(tick uint64) []HouseholdRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []HouseholdRecord
	for _, r := range c.households {
		if r.Tick == tick {
			out = append(out, r)
		}
	}
	return out
}

// Migrations returns a copy of the per-tick migration totals.
func (c *Collector) Migrations() []MigrationRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MigrationRecord, len(c.migrations))
	copy(out, c.migrations)
	return out
}

// Latest returns the most recent migration total and whether any tick has
// been collected.
func (c *Collector) Latest() (MigrationRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.migrations) == 0 {
		return MigrationRecord{}, false
	}
	return c.migrations[len(c.migrations)-1], true
}
