package neural

import "math/rand"

// MutateParams perturbs the brain's evolvable parameters in place: each
// synapse weight with probability pWeight, each hidden neuron bias with
// probability pBias, both by gaussian noise with the given sigma.
func (b *Brain) MutateParams(rng *rand.Rand, pWeight, pBias, sigma float64) {
	for i := range b.synapses {
		if rng.Float64() < pWeight {
			b.synapses[i].Weight += rng.NormFloat64() * sigma
		}
	}
	for _, n := range b.neurons {
		if n.Type == HiddenNeuron && rng.Float64() < pBias {
			n.Bias += rng.NormFloat64() * sigma
		}
	}
}
