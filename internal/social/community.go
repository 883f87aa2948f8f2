// Package social provides the origin community and its shock model.
package social

import "math/rand/v2"

// ShockProbability is the chance of a discrete environmental shock per tick.
const ShockProbability = 0.2

// Community is the origin location shared by every household.
type Community struct {
	Households    int     `json:"households"`
	Impacted      bool    `json:"impacted"`       // Shock happened this tick
	AvailableJobs float64 `json:"available_jobs"` // Non-farm jobs left this tick
	ImpactScale   float64 `json:"impact_scale"`   // Share of the community a shock reaches

	baselineJobs float64
}

// NewOrigin creates the origin community with its per-tick job baseline.
func NewOrigin(households int, jobs, impactScale float64) *Community {
	return &Community{
		Households:    households,
		AvailableJobs: jobs,
		ImpactScale:   impactScale,
		baselineJobs:  jobs,
	}
}

// Shock rolls for an environmental shock. A shock marks the community
// impacted and removes the impact share of non-farm jobs.
func (c *Community) Shock(rng *rand.Rand) bool {
	if rng.Float64() >= ShockProbability {
		return false
	}
	c.Impacted = true
	c.AvailableJobs *= 1 - c.ImpactScale
	return true
}

// Reset clears per-tick state at the end of a tick.
func (c *Community) Reset() {
	c.Impacted = false
	c.AvailableJobs = c.baselineJobs
}

// BaselineJobs returns the configured number of non-farm jobs per tick.
func (c *Community) BaselineJobs() float64 {
	return c.baselineJobs
}
