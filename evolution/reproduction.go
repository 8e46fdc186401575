package evolution

import (
	"math/rand"
	"sort"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/neural"
	"github.com/pthm-cable/polyp/organism"
)

// Individual pairs a genotype with its fitness, used by generational runs.
type Individual struct {
	Brain   *neural.Brain
	Genome  *organism.Genome
	Fitness float64
}

// ChildSpawn is the result of cloning a live parent for continuous-mode
// reproduction.
type ChildSpawn struct {
	Organism *organism.Organism
	Genome   *organism.Genome
}

// JitterPositions offsets every node by one shared random displacement in
// [-jitter, jitter] per axis, moving the body without distorting its shape.
func JitterPositions(rng *rand.Rand, org *organism.Organism, jitter float64) {
	dx := (rng.Float64()*2 - 1) * jitter
	dy := (rng.Float64()*2 - 1) * jitter
	for _, n := range org.Nodes {
		n.X += dx
		n.Y += dy
	}
}

// CloneForSpawn deep-clones a parent body plus brain, displaces the clone,
// and mutates the cloned genome and brain parameters. The parent is never
// touched.
func CloneForSpawn(rng *rand.Rand, parent *organism.Organism, parentGenome *organism.Genome, mc *config.MutationConfig, jitter float64) ChildSpawn {
	child := parent.CloneWithBrain()
	JitterPositions(rng, child, jitter)

	childGenome := MutateGenome(rng, parentGenome, mc)
	if child.Brain != nil {
		child.Brain.MutateParams(rng, mc.PWeight, mc.PBias, mc.Sigma)
	}

	return ChildSpawn{Organism: child, Genome: childGenome}
}

// SelectTop returns the k fittest individuals, best first.
func SelectTop(pop []Individual, k int) []Individual {
	sorted := make([]Individual, len(pop))
	copy(sorted, pop)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness > sorted[j].Fitness
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// NextGeneration keeps the elites (cloned, so stored genotypes cannot be
// mutated through the new population) and fills the rest with mutated clones
// of uniformly chosen elites, truncated to exactly popSize.
func NextGeneration(rng *rand.Rand, elites []Individual, popSize int, mc *config.MutationConfig) []Individual {
	newPop := make([]Individual, 0, popSize)

	for _, e := range elites {
		newPop = append(newPop, Individual{
			Brain:  e.Brain.Clone(),
			Genome: e.Genome.Clone(),
		})
	}

	for len(newPop) < popSize {
		parent := elites[rng.Intn(len(elites))]
		childBrain := parent.Brain.Clone()
		childGenome := MutateGenome(rng, parent.Genome, mc)
		childBrain.MutateParams(rng, mc.PWeight, mc.PBias, mc.Sigma)
		newPop = append(newPop, Individual{Brain: childBrain, Genome: childGenome})
	}

	if len(newPop) > popSize {
		newPop = newPop[:popSize]
	}
	return newPop
}
