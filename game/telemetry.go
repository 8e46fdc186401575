package game

import (
	"log/slog"
)

// flushWindow closes the current stats window: builds the record from the
// collector and the population snapshot, then logs and writes it.
func (g *Game) flushWindow() {
	agents := g.sim.Agents()
	energies := make([]float64, len(agents))
	for i, a := range agents {
		energies[i] = a.Organism.Energy
	}

	stats := g.sim.Stats()
	ws := g.collector.Flush(g.sim.Tick(), stats.SimTime, energies)

	if g.opts.LogStats {
		ws.LogStats()
	}
	if err := g.output.WriteTelemetry(ws); err != nil {
		slog.Error("writing telemetry", "error", err)
	}
}
