// Package telemetry aggregates simulation events into fixed-duration windows
// and writes them to structured logs and CSV.
package telemetry

// Collector accumulates events for the current stats window. It is owned by
// the single control goroutine; no locking.
type Collector struct {
	windowSec float64
	elapsed   float64

	births       int
	deaths       int
	growthEvents int
	foodEnergy   float64
}

// NewCollector creates a collector with the given window length in seconds.
func NewCollector(windowSec float64) *Collector {
	return &Collector{windowSec: windowSec}
}

// RecordBirth counts one reproduction event.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath counts one death or cull.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordGrowth counts one successful growth event.
func (c *Collector) RecordGrowth() { c.growthEvents++ }

// RecordFood accumulates food energy consumed by agents.
func (c *Collector) RecordFood(energy float64) { c.foodEnergy += energy }

// Advance adds dt to the window clock and reports whether the window is
// complete and should be flushed.
func (c *Collector) Advance(dt float64) bool {
	c.elapsed += dt
	return c.elapsed >= c.windowSec
}

// Flush builds the window record from the accumulated events and the
// end-of-window population snapshot, then resets the window. An empty
// population yields zero-valued energy statistics.
func (c *Collector) Flush(tick int64, simTime float64, energies []float64) WindowStats {
	s := WindowStats{
		WindowEndTick: tick,
		SimTimeSec:    simTime,
		Population:    len(energies),
		Births:        c.births,
		Deaths:        c.deaths,
		GrowthEvents:  c.growthEvents,
		FoodEnergy:    c.foodEnergy,
	}
	s.EnergyMean, s.EnergyStd, s.EnergyP10, s.EnergyP50, s.EnergyP90 = ComputeEnergyStats(energies)

	c.elapsed = 0
	c.births = 0
	c.deaths = 0
	c.growthEvents = 0
	c.foodEnergy = 0
	return s
}
