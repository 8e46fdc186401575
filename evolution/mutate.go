// Package evolution implements the heritable-variation operators and the
// selection pipeline: brain/genome mutation, spawn cloning for continuous
// reproduction, and elite-based refill for generational runs.
package evolution

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/organism"
)

// Mutation floors keep rules from becoming degenerate or free.
const (
	minRuleLength   = 4.0
	minRuleRadius   = 1.0
	minRuleCost     = 0.05
	minRuleCooldown = 0.05
	minGrowInterval = 0.05
)

// Sigmas for the extra jitter pass applied to a newly added rule. Larger
// than the regular per-rule sigmas so added rules explore more.
const (
	addAngleSigma    = 0.25
	addLengthSigma   = 8.0
	addRadiusSigma   = 0.8
	addCostSigma     = 0.3
	addCooldownSigma = 0.25
)

// jitterRule perturbs one rule's parameters in place, flooring everything
// that must stay positive.
func jitterRule(rng *rand.Rand, r *organism.GrowthRule, angleSigma, lengthSigma, radiusSigma, costSigma, cooldownSigma float64) {
	r.Angle += rng.NormFloat64() * angleSigma
	r.Length = math.Max(minRuleLength, r.Length+rng.NormFloat64()*lengthSigma)
	r.Radius = math.Max(minRuleRadius, r.Radius+rng.NormFloat64()*radiusSigma)
	r.Cost = math.Max(minRuleCost, r.Cost+rng.NormFloat64()*costSigma)
	r.Cooldown = math.Max(minRuleCooldown, r.Cooldown+rng.NormFloat64()*cooldownSigma)
}

// MutateGenome returns a mutated clone of the genome. Per rule: parameter
// jitter with probability PJitter. One uniformly chosen rule may be dropped
// (PRemoveRule) as long as at least one remains afterward, and one may be
// cloned with a rerolled anchor and a larger jitter pass (PAddRule). Finally
// the global growth gates are perturbed.
func MutateGenome(rng *rand.Rand, g *organism.Genome, mc *config.MutationConfig) *organism.Genome {
	mutated := g.Clone()

	for i := range mutated.Rules {
		if rng.Float64() < mc.PJitter {
			jitterRule(rng, &mutated.Rules[i],
				mc.AngleSigma, mc.LengthSigma, mc.RadiusSigma, mc.CostSigma, mc.CooldownSigma)
		}
	}

	if len(mutated.Rules) > 1 && rng.Float64() < mc.PRemoveRule {
		idx := rng.Intn(len(mutated.Rules))
		mutated.Rules = append(mutated.Rules[:idx], mutated.Rules[idx+1:]...)
	}

	if len(mutated.Rules) > 0 && rng.Float64() < mc.PAddRule {
		clone := mutated.Rules[rng.Intn(len(mutated.Rules))]
		clone.Anchor = organism.Anchors[rng.Intn(len(organism.Anchors))]
		jitterRule(rng, &clone, addAngleSigma, addLengthSigma, addRadiusSigma, addCostSigma, addCooldownSigma)
		mutated.Rules = append(mutated.Rules, clone)
	}

	mutated.GrowEnergyThreshold = math.Max(0, mutated.GrowEnergyThreshold+rng.NormFloat64()*0.4)
	mutated.GrowInterval = math.Max(minGrowInterval, mutated.GrowInterval+rng.NormFloat64()*0.15)

	return mutated
}
