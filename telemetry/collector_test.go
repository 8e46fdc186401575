package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowBoundary(t *testing.T) {
	c := NewCollector(5.0)

	for i := 0; i < 4; i++ {
		if c.Advance(1.0) {
			t.Fatalf("window closed early after %d seconds", i+1)
		}
	}
	if !c.Advance(1.0) {
		t.Fatal("window did not close at 5 seconds")
	}
}

func TestCollectorFlushAndReset(t *testing.T) {
	c := NewCollector(5.0)
	c.RecordBirth()
	c.RecordBirth()
	c.RecordDeath()
	c.RecordGrowth()
	c.RecordFood(2.5)
	c.RecordFood(0.5)
	c.Advance(5.0)

	ws := c.Flush(300, 5.0, []float64{1, 2, 3})

	if ws.WindowEndTick != 300 || ws.SimTimeSec != 5.0 {
		t.Errorf("window stamp = %d/%v, want 300/5.0", ws.WindowEndTick, ws.SimTimeSec)
	}
	if ws.Births != 2 || ws.Deaths != 1 || ws.GrowthEvents != 1 {
		t.Errorf("events = %d/%d/%d, want 2/1/1", ws.Births, ws.Deaths, ws.GrowthEvents)
	}
	if math.Abs(ws.FoodEnergy-3.0) > 1e-9 {
		t.Errorf("food energy = %v, want 3.0", ws.FoodEnergy)
	}
	if ws.Population != 3 || math.Abs(ws.EnergyMean-2.0) > 1e-9 {
		t.Errorf("population/mean = %d/%v, want 3/2.0", ws.Population, ws.EnergyMean)
	}

	// Flush resets the window.
	ws2 := c.Flush(600, 10.0, nil)
	if ws2.Births != 0 || ws2.Deaths != 0 || ws2.GrowthEvents != 0 || ws2.FoodEnergy != 0 {
		t.Errorf("second flush not zeroed: %+v", ws2)
	}
	if c.Advance(1.0) {
		t.Error("window clock was not reset by flush")
	}
}
