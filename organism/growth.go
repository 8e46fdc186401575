package organism

import (
	"math"
	"math/rand"
	"sort"
)

// cooldownEpsilon treats near-zero cooldown remainders as elapsed.
const cooldownEpsilon = 1e-9

// GrowthState is per-organism growth bookkeeping, kept outside the genome so
// a genome can be shared read-only. Cooldown and idle maps are keyed by rule
// index; every new agent gets a fresh state, so index keys stay valid for the
// organism's lifetime.
type GrowthState struct {
	// TimeSinceGlobal is seconds since the last global growth attempt.
	TimeSinceGlobal float64
	// Cooldowns holds remaining cooldown per rule index.
	Cooldowns map[int]float64
	// Idle holds seconds since each rule last fired, used to bias
	// selection toward underused rules.
	Idle map[int]float64
}

// NewGrowthState creates a state whose global timer is already elapsed, so
// the first growth attempt is gated only by energy.
func NewGrowthState(g *Genome) *GrowthState {
	return &GrowthState{
		TimeSinceGlobal: g.GrowInterval,
		Cooldowns:       make(map[int]float64),
		Idle:            make(map[int]float64),
	}
}

// TryApplyGrowth attempts to apply one genome rule to the organism and
// reports whether growth happened. Brain resynchronization and physics
// restabilization after a successful growth are the caller's responsibility.
func TryApplyGrowth(rng *rand.Rand, org *Organism, genome *Genome, st *GrowthState, dt float64) bool {
	st.TimeSinceGlobal += dt
	for k, v := range st.Cooldowns {
		st.Cooldowns[k] = math.Max(0, v-dt)
	}
	for i := range genome.Rules {
		st.Idle[i] += dt
	}

	if org.Energy < genome.GrowEnergyThreshold {
		return false
	}
	if st.TimeSinceGlobal < genome.GrowInterval {
		return false
	}

	idx, ok := pickRule(rng, org, genome, st)
	if !ok {
		return false
	}
	rule := genome.Rules[idx]

	anchor := resolveAnchor(rng, org, rule.Anchor)
	angleAbs := anchor.Angle + rule.Angle
	x := anchor.X + math.Cos(angleAbs)*rule.Length
	y := anchor.Y + math.Sin(angleAbs)*rule.Length

	bud := org.AddNode(rule.Op.NodeType(), x, y, angleAbs, rule.Radius)
	org.AddEdge(anchor.ID, bud.ID, rule.Length)

	org.Energy = math.Max(0, org.Energy-rule.Cost)
	st.Cooldowns[idx] = rule.Cooldown
	st.Idle[idx] = 0
	st.TimeSinceGlobal = 0
	return true
}

// pickRule selects an eligible rule index by weighted random choice. A rule
// is eligible when off cooldown and affordable; weight is 1 + idle time, so
// rules that have waited longer are proportionally favored.
func pickRule(rng *rand.Rand, org *Organism, genome *Genome, st *GrowthState) (int, bool) {
	var eligible []int
	var total float64
	for i, rule := range genome.Rules {
		if st.Cooldowns[i] > cooldownEpsilon {
			continue
		}
		if org.Energy < rule.Cost {
			continue
		}
		eligible = append(eligible, i)
		total += 1 + st.Idle[i]
	}
	if len(eligible) == 0 {
		return 0, false
	}

	r := rng.Float64() * total
	for _, i := range eligible {
		r -= 1 + st.Idle[i]
		if r <= 0 {
			return i, true
		}
	}
	return eligible[len(eligible)-1], true
}

// resolveAnchor maps a symbolic anchor to a concrete node. Category anchors
// with no instances fall back to the core node. An organism without a core is
// a structural precondition violation.
func resolveAnchor(rng *rand.Rand, org *Organism, a Anchor) *Node {
	core := org.Core()
	if core == nil {
		panic("organism: growth requires a core node")
	}

	switch a {
	case AnchorCore:
		return core
	case AnchorAny:
		return randomNode(rng, org, func(*Node) bool { return true }, core)
	case AnchorActuator:
		return randomNode(rng, org, func(n *Node) bool { return n.Type == Actuator }, core)
	case AnchorSensor:
		return randomNode(rng, org, func(n *Node) bool { return n.Type == Sensor }, core)
	case AnchorLeaf:
		return randomNode(rng, org, func(n *Node) bool { return org.Degree(n.ID) <= 1 }, core)
	}
	return core
}

// randomNode picks uniformly among nodes matching the predicate, in id order
// for reproducibility, or returns the fallback when none match.
func randomNode(rng *rand.Rand, org *Organism, match func(*Node) bool, fallback *Node) *Node {
	var ids []int
	for id, n := range org.Nodes {
		if match(n) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return fallback
	}
	sort.Ints(ids)
	return org.Nodes[ids[rng.Intn(len(ids))]]
}
