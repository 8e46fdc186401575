// Generational evolution runner: evaluates a population of genotypes in
// identical solo episodes, selects elites, and breeds the next generation.
//
// Usage: go run ./cmd/evolve -generations 50 -pop 32 -db runs.db
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/evolution"
	"github.com/pthm-cable/polyp/neural"
	"github.com/pthm-cable/polyp/organism"
	"github.com/pthm-cable/polyp/sim"
	"github.com/pthm-cable/polyp/storage"
)

// generationRow is one CSV line of the per-generation summary.
type generationRow struct {
	Generation  int     `csv:"generation"`
	BestFitness float64 `csv:"best_fitness"`
	MeanFitness float64 `csv:"mean_fitness"`
	StdFitness  float64 `csv:"std_fitness"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	generations := flag.Int("generations", 30, "Number of generations to run")
	popSize := flag.Int("pop", 24, "Population size per generation")
	elites := flag.Int("elites", 4, "Elites carried into the next generation")
	episodeSec := flag.Float64("episode-sec", 60, "Episode duration in simulated seconds")
	dt := flag.Float64("dt", 1.0/60.0, "Simulation timestep in seconds")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	dbPath := flag.String("db", "", "SQLite archive path (empty = no archive)")
	outputDir := flag.String("output-dir", "", "Output directory for generations.csv")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	ctx := context.Background()

	// Optional run archive
	var store *storage.RunStore
	var runID string
	if *dbPath != "" {
		var err error
		store, err = storage.Open(ctx, *dbPath)
		if err != nil {
			slog.Error("failed to open run store", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		cfgYAML, err := yaml.Marshal(cfg)
		if err != nil {
			slog.Error("failed to encode config", "error", err)
			os.Exit(1)
		}
		runID, err = store.CreateRun(ctx, storage.RunMeta{
			Seed:       rngSeed,
			Population: *popSize,
			Elites:     *elites,
			EpisodeSec: *episodeSec,
			ConfigYAML: string(cfgYAML),
		})
		if err != nil {
			slog.Error("failed to create run", "error", err)
			os.Exit(1)
		}
		slog.Info("run archived", "run_id", runID, "db", *dbPath)
	}

	pop := seedPopulation(cfg, rng, *popSize)

	slog.Info("starting evolution",
		"seed", rngSeed,
		"generations", *generations,
		"pop", *popSize,
		"elites", *elites,
		"episode_sec", *episodeSec,
	)

	var rows []generationRow
	for gen := 0; gen < *generations; gen++ {
		// Same episode seed for every individual in the generation so
		// fitness differences come from the genotype, not the environment.
		genSeed := rngSeed + int64(gen)
		sim.EvaluateGeneration(cfg, pop, genSeed, *episodeSec, *dt)

		best := evolution.SelectTop(pop, 1)[0]
		fitnesses := make([]float64, len(pop))
		for i, ind := range pop {
			fitnesses[i] = ind.Fitness
		}
		mean := stat.Mean(fitnesses, nil)
		std := 0.0
		if len(fitnesses) > 1 {
			std = stat.StdDev(fitnesses, nil)
		}

		slog.Info("generation complete",
			"generation", gen,
			"best_fitness", best.Fitness,
			"mean_fitness", mean,
			"std_fitness", std,
		)
		rows = append(rows, generationRow{
			Generation:  gen,
			BestFitness: best.Fitness,
			MeanFitness: mean,
			StdFitness:  std,
		})

		if store != nil {
			err := store.RecordGeneration(ctx, runID, storage.GenerationRecord{
				Generation:  gen,
				BestFitness: best.Fitness,
				MeanFitness: mean,
				StdFitness:  std,
				BestGenome:  best.Genome,
			})
			if err != nil {
				slog.Error("failed to record generation", "error", err)
				os.Exit(1)
			}
		}

		top := evolution.SelectTop(pop, *elites)
		pop = evolution.NextGeneration(rng, top, *popSize, &cfg.Mutation)
	}

	if *outputDir != "" {
		if err := writeGenerationsCSV(*outputDir, rows); err != nil {
			slog.Error("failed to write generations.csv", "error", err)
			os.Exit(1)
		}
	}
}

// seedPopulation builds the initial generation: one unmodified starter
// genotype plus mutated variants of it.
func seedPopulation(cfg *config.Config, rng *rand.Rand, popSize int) []evolution.Individual {
	_, a1, a2 := sim.SeedOrganism(cfg.Derived.ScreenW/2, cfg.Derived.ScreenH/2)
	baseBrain := neural.BuildStarter([]int{a1, a2}, rng)
	baseGenome := organism.StarterGenome()

	pop := make([]evolution.Individual, 0, popSize)
	pop = append(pop, evolution.Individual{Brain: baseBrain.Clone(), Genome: baseGenome.Clone()})

	for len(pop) < popSize {
		brain := baseBrain.Clone()
		brain.MutateParams(rng, cfg.Mutation.PWeight, cfg.Mutation.PBias, cfg.Mutation.Sigma)
		genome := evolution.MutateGenome(rng, baseGenome, &cfg.Mutation)
		pop = append(pop, evolution.Individual{Brain: brain, Genome: genome})
	}
	return pop
}

func writeGenerationsCSV(dir string, rows []generationRow) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "generations.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(rows, f)
}
