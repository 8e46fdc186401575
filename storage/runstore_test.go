package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/polyp/organism"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestCreateRunAssignsID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.CreateRun(context.Background(), RunMeta{
		Seed:       42,
		Population: 24,
		Elites:     4,
		EpisodeSec: 60,
		ConfigYAML: "population:\n  initial: 25\n",
	})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if id == "" {
		t.Error("CreateRun returned an empty id")
	}
}

func TestRecordAndReadGenerations(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	runID, err := store.CreateRun(ctx, RunMeta{Seed: 1, Population: 8, Elites: 2, EpisodeSec: 30})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	g := organism.StarterGenome()
	for gen := 0; gen < 3; gen++ {
		err := store.RecordGeneration(ctx, runID, GenerationRecord{
			Generation:  gen,
			BestFitness: float64(gen) * 2,
			MeanFitness: float64(gen),
			BestGenome:  g,
		})
		if err != nil {
			t.Fatalf("RecordGeneration %d: %v", gen, err)
		}
	}

	recs, err := store.Generations(ctx, runID)
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("record count = %d, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.Generation != i {
			t.Errorf("record %d generation = %d, out of order", i, rec.Generation)
		}
		if rec.BestGenome == nil || len(rec.BestGenome.Rules) != len(g.Rules) {
			t.Errorf("record %d genome did not round-trip", i)
		}
	}
}

func TestRecordGenerationUpserts(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	runID, err := store.CreateRun(ctx, RunMeta{Seed: 1})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	g := organism.StarterGenome()
	rec := GenerationRecord{Generation: 0, BestFitness: 1, BestGenome: g}
	if err := store.RecordGeneration(ctx, runID, rec); err != nil {
		t.Fatalf("first record: %v", err)
	}
	rec.BestFitness = 5
	if err := store.RecordGeneration(ctx, runID, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	recs, err := store.Generations(ctx, runID)
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("record count = %d, want 1 after upsert", len(recs))
	}
	if recs[0].BestFitness != 5 {
		t.Errorf("best fitness = %v, want upserted 5", recs[0].BestFitness)
	}
}

func TestBestGenome(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	runID, err := store.CreateRun(ctx, RunMeta{Seed: 1})
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	g := organism.StarterGenome()
	g.GrowEnergyThreshold = 9.5
	if err := store.RecordGeneration(ctx, runID, GenerationRecord{Generation: 4, BestGenome: g}); err != nil {
		t.Fatalf("RecordGeneration: %v", err)
	}

	got, ok, err := store.BestGenome(ctx, runID, 4)
	if err != nil {
		t.Fatalf("BestGenome: %v", err)
	}
	if !ok || got == nil {
		t.Fatal("stored genome not found")
	}
	if got.GrowEnergyThreshold != 9.5 {
		t.Errorf("threshold = %v, want 9.5", got.GrowEnergyThreshold)
	}

	_, ok, err = store.BestGenome(ctx, runID, 99)
	if err != nil {
		t.Fatalf("BestGenome missing gen: %v", err)
	}
	if ok {
		t.Error("found a genome for a generation that was never recorded")
	}
}
