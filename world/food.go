// Package world implements the simulation environment: the ephemeral food
// field and the body physics applied to organisms within it.
package world

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/polyp/config"
)

// FoodPellet is a single resource unit.
type FoodPellet struct {
	X, Y     float64
	Radius   float64
	Energy   float64
	Age      float64
	Lifespan float64
}

// Dead reports whether the pellet has aged out.
func (p *FoodPellet) Dead() bool {
	return p.Age >= p.Lifespan
}

// RadiusToEnergy derives pellet energy from radius with area-like scaling,
// so energy grows faster than radius.
func RadiusToEnergy(r float64) float64 {
	return math.Max(0.1, r*r*0.08)
}

// FoodField owns the pellet population. Pellets spawn in gaussian-scattered
// clumps while the count is below target and age out individually.
type FoodField struct {
	W, H    float64
	Pellets []FoodPellet

	TargetPellets int
	SpawnRate     float64 // clumps per second while below target

	ClumpCountMin, ClumpCountMax   int
	ClumpSpreadMin, ClumpSpreadMax float64
	RadiusMin, RadiusMax           float64
	LifespanMin, LifespanMax       float64

	spawnAccum float64
	rng        *rand.Rand
}

// NewFoodField creates a field covering a w-by-h area with the configured
// spawn tuning.
func NewFoodField(w, h float64, cfg *config.FoodConfig, rng *rand.Rand) *FoodField {
	return &FoodField{
		W: w, H: h,
		TargetPellets:  cfg.TargetPellets,
		SpawnRate:      cfg.SpawnRate,
		ClumpCountMin:  cfg.ClumpCountMin,
		ClumpCountMax:  cfg.ClumpCountMax,
		ClumpSpreadMin: cfg.ClumpSpreadMin,
		ClumpSpreadMax: cfg.ClumpSpreadMax,
		RadiusMin:      cfg.RadiusMin,
		RadiusMax:      cfg.RadiusMax,
		LifespanMin:    cfg.LifespanMin,
		LifespanMax:    cfg.LifespanMax,
		rng:            rng,
	}
}

// Update ages pellets, drops dead ones, and replenishes toward the target
// count by spawning clumps at the configured rate.
func (f *FoodField) Update(dt float64) {
	kept := f.Pellets[:0]
	for i := range f.Pellets {
		f.Pellets[i].Age += dt
		if !f.Pellets[i].Dead() {
			kept = append(kept, f.Pellets[i])
		}
	}
	f.Pellets = kept

	deficit := f.TargetPellets - len(f.Pellets)
	if deficit <= 0 {
		return
	}

	f.spawnAccum += dt * f.SpawnRate
	for f.spawnAccum >= 1.0 && deficit > 0 {
		f.spawnAccum -= 1.0
		f.spawnClump()
		deficit = f.TargetPellets - len(f.Pellets)
	}
}

// spawnClump scatters a gaussian cluster of pellets around a random interior
// center, clipping positions to the field bounds.
func (f *FoodField) spawnClump() {
	cx := 60 + f.rng.Float64()*(f.W-120)
	cy := 60 + f.rng.Float64()*(f.H-120)
	n := f.ClumpCountMin + f.rng.Intn(f.ClumpCountMax-f.ClumpCountMin+1)
	spread := f.ClumpSpreadMin + f.rng.Float64()*(f.ClumpSpreadMax-f.ClumpSpreadMin)

	for i := 0; i < n; i++ {
		x := cx + f.rng.NormFloat64()*spread
		y := cy + f.rng.NormFloat64()*spread
		r := f.RadiusMin + f.rng.Float64()*(f.RadiusMax-f.RadiusMin)
		life := f.LifespanMin + f.rng.Float64()*(f.LifespanMax-f.LifespanMin)

		f.Pellets = append(f.Pellets, FoodPellet{
			X:        math.Max(10, math.Min(f.W-10, x)),
			Y:        math.Max(10, math.Min(f.H-10, y)),
			Radius:   r,
			Energy:   RadiusToEnergy(r),
			Lifespan: life,
		})
	}
}

// NearestPellet returns the closest pellet to (x, y) and its distance, or
// (nil, +Inf) when the field is empty.
func (f *FoodField) NearestPellet(x, y float64) (*FoodPellet, float64) {
	best := -1
	bestD2 := math.Inf(1)
	for i := range f.Pellets {
		dx := f.Pellets[i].X - x
		dy := f.Pellets[i].Y - y
		d2 := dx*dx + dy*dy
		if d2 < bestD2 {
			bestD2 = d2
			best = i
		}
	}
	if best < 0 {
		return nil, math.Inf(1)
	}
	return &f.Pellets[best], math.Sqrt(bestD2)
}

// EatNear removes every pellet within reach of (x, y) and returns the total
// energy gained. Remaining pellets keep their relative order.
func (f *FoodField) EatNear(x, y, reach float64) float64 {
	gained := 0.0
	reach2 := reach * reach
	kept := f.Pellets[:0]
	for i := range f.Pellets {
		dx := f.Pellets[i].X - x
		dy := f.Pellets[i].Y - y
		if dx*dx+dy*dy <= reach2 {
			gained += f.Pellets[i].Energy
		} else {
			kept = append(kept, f.Pellets[i])
		}
	}
	f.Pellets = kept
	return gained
}
