package evolution

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/polyp/neural"
	"github.com/pthm-cable/polyp/organism"
)

func testParent(rng *rand.Rand) (*organism.Organism, *organism.Genome) {
	org := organism.New(10)
	core := org.AddNode(organism.Core, 100, 100, 0, 12)
	a := org.AddNode(organism.Actuator, 140, 100, 0, 8)
	org.AddEdge(core.ID, a.ID, 40)
	org.Brain = neural.BuildStarter([]int{a.ID}, rng)
	return org, organism.StarterGenome()
}

func TestJitterPositionsPreservesShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	org, _ := testParent(rng)

	ax0 := org.Nodes[1].X - org.Nodes[0].X
	ay0 := org.Nodes[1].Y - org.Nodes[0].Y

	JitterPositions(rng, org, 32)

	ax1 := org.Nodes[1].X - org.Nodes[0].X
	ay1 := org.Nodes[1].Y - org.Nodes[0].Y
	if math.Abs(ax1-ax0) > 1e-9 || math.Abs(ay1-ay0) > 1e-9 {
		t.Error("jitter distorted relative node positions")
	}
}

func TestCloneForSpawnLeavesParentUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	org, genome := testParent(rng)
	mc := aggressiveMutation()

	parentX := org.Nodes[0].X
	parentRules := len(genome.Rules)

	spawn := CloneForSpawn(rng, org, genome, mc, 32)

	if org.Nodes[0].X != parentX {
		t.Error("spawn jitter moved the parent body")
	}
	if len(genome.Rules) != parentRules {
		t.Error("spawn mutation changed the parent genome")
	}
	if spawn.Organism == org || spawn.Genome == genome {
		t.Error("spawn shares structures with the parent")
	}
	if spawn.Organism.Brain == nil {
		t.Fatal("spawn has no brain")
	}
	if spawn.Organism.Brain == org.Brain {
		t.Error("spawn shares the parent brain")
	}
}

func TestSelectTop(t *testing.T) {
	pop := []Individual{
		{Fitness: 1},
		{Fitness: 5},
		{Fitness: 3},
	}

	top := SelectTop(pop, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].Fitness != 5 || top[1].Fitness != 3 {
		t.Errorf("top fitnesses = %v, %v, want 5, 3", top[0].Fitness, top[1].Fitness)
	}

	// k larger than the population returns everyone.
	all := SelectTop(pop, 10)
	if len(all) != 3 {
		t.Errorf("len = %d, want 3", len(all))
	}

	// Selection must not reorder the input.
	if pop[0].Fitness != 1 || pop[2].Fitness != 3 {
		t.Error("SelectTop reordered the input slice")
	}
}

func TestNextGenerationSizeAndElites(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	mc := aggressiveMutation()

	_, genome := testParent(rng)
	elite := Individual{
		Brain:   neural.BuildStarter([]int{1}, rng),
		Genome:  genome,
		Fitness: 9,
	}

	pop := NextGeneration(rng, []Individual{elite}, 6, mc)
	if len(pop) != 6 {
		t.Fatalf("population size = %d, want 6", len(pop))
	}

	// Slot zero is the cloned elite, unmutated.
	if len(pop[0].Genome.Rules) != len(genome.Rules) {
		t.Error("elite clone genome differs from the elite")
	}
	if pop[0].Genome == elite.Genome || pop[0].Brain == elite.Brain {
		t.Error("elite clone shares structures with the stored elite")
	}
}
