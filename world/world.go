package world

import (
	"math/rand"

	"github.com/pthm-cable/polyp/config"
)

// World is the environment container: bounds plus the food field.
type World struct {
	W, H float64
	Food *FoodField
}

// New creates a world with a food field drawing randomness from rng.
func New(w, h float64, cfg *config.FoodConfig, rng *rand.Rand) *World {
	return &World{
		W:    w,
		H:    h,
		Food: NewFoodField(w, h, cfg, rng),
	}
}

// Update advances the environment by dt seconds.
func (w *World) Update(dt float64) {
	w.Food.Update(dt)
}
