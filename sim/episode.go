package sim

import (
	"math/rand"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/evolution"
	"github.com/pthm-cable/polyp/world"
)

// RunEpisode evaluates one individual in a solo fixed-duration episode and
// returns its fitness: the total food energy consumed. The episode runs on
// its own randomness stream seeded with seed; evaluating every individual of
// a generation with the same seed gives each the same food field and growth
// rolls, making fitness comparable.
func RunEpisode(cfg *config.Config, ind evolution.Individual, seed int64, duration, dt float64) float64 {
	rng := rand.New(rand.NewSource(seed))
	w := world.New(cfg.Derived.ScreenW, cfg.Derived.ScreenH, &cfg.Food, rng)

	agent := BuildAgent(cfg.Derived.ScreenW/2, cfg.Derived.ScreenH/2, ind.Brain, ind.Genome)

	var fitness float64
	for t := 0.0; t < duration; t += dt {
		w.Update(dt)
		fitness += stepAgent(rng, cfg, agent, w, dt, t)
	}
	return fitness
}

// EvaluateGeneration scores every individual with an identical episode seed
// and writes the fitness back into the slice.
func EvaluateGeneration(cfg *config.Config, pop []evolution.Individual, seed int64, duration, dt float64) {
	for i := range pop {
		pop[i].Fitness = RunEpisode(cfg, pop[i], seed, duration, dt)
	}
}
