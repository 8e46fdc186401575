package organism

// GrowOp is a growth operation: which node type a rule buds.
type GrowOp uint8

const (
	BudActuator GrowOp = iota
	BudSensor
	BudSegment
)

// String returns the operation name.
func (op GrowOp) String() string {
	switch op {
	case BudActuator:
		return "bud-actuator"
	case BudSensor:
		return "bud-sensor"
	case BudSegment:
		return "bud-segment"
	}
	return "unknown"
}

// NodeType returns the body node type the operation buds.
func (op GrowOp) NodeType() NodeType {
	switch op {
	case BudActuator:
		return Actuator
	case BudSensor:
		return Sensor
	case BudSegment:
		return Segment
	}
	panic("organism: unknown grow op")
}

// Anchor selects which existing body node a growth rule attaches to.
type Anchor uint8

const (
	// AnchorCore attaches to the unique core node.
	AnchorCore Anchor = iota
	// AnchorAny picks a uniform random node.
	AnchorAny
	// AnchorActuator picks a random actuator, falling back to core.
	AnchorActuator
	// AnchorSensor picks a random sensor, falling back to core.
	AnchorSensor
	// AnchorLeaf picks a random node of edge-degree <= 1, falling back to core.
	AnchorLeaf
)

// Anchors lists every anchor category, for mutation to pick from.
var Anchors = []Anchor{AnchorCore, AnchorAny, AnchorActuator, AnchorSensor, AnchorLeaf}

// String returns the anchor name.
func (a Anchor) String() string {
	switch a {
	case AnchorCore:
		return "core"
	case AnchorAny:
		return "any-node"
	case AnchorActuator:
		return "actuator"
	case AnchorSensor:
		return "sensor"
	case AnchorLeaf:
		return "leaf"
	}
	return "unknown"
}

// GrowthRule is one "bud a new body part" instruction.
type GrowthRule struct {
	Op       GrowOp  `json:"op"`
	Anchor   Anchor  `json:"anchor"`
	Angle    float64 `json:"angle"`    // radians relative to the anchor node's heading
	Length   float64 `json:"length"`   // edge rest length to the new node
	Radius   float64 `json:"radius"`   // new node radius
	Cost     float64 `json:"cost"`     // energy debited on use
	Cooldown float64 `json:"cooldown"` // minimum seconds between uses of this rule
}

// Genome is the heritable growth program: an ordered rule list plus global
// gating parameters. Genomes are cloned at every reproduction event and the
// clone is mutated; a live organism's own genome is never reordered, which
// keeps index-keyed growth bookkeeping valid.
type Genome struct {
	Rules []GrowthRule `json:"rules"`

	// GrowEnergyThreshold is the minimum energy required to attempt growth.
	GrowEnergyThreshold float64 `json:"grow_energy_threshold"`
	// GrowInterval is the minimum seconds between global growth attempts.
	GrowInterval float64 `json:"grow_interval"`
}

// StarterGenome returns a small grammar that tends toward tri/quad bodies:
// three actuator buds at 0 and +-120 degrees plus two sensor buds at +-60.
func StarterGenome() *Genome {
	return &Genome{
		Rules: []GrowthRule{
			{Op: BudActuator, Anchor: AnchorCore, Angle: 0, Length: 40, Radius: 8, Cost: 2, Cooldown: 1},
			{Op: BudActuator, Anchor: AnchorCore, Angle: 2.094, Length: 40, Radius: 8, Cost: 2, Cooldown: 1},
			{Op: BudActuator, Anchor: AnchorCore, Angle: -2.094, Length: 40, Radius: 8, Cost: 2, Cooldown: 1},
			{Op: BudSensor, Anchor: AnchorCore, Angle: 1.047, Length: 28, Radius: 5, Cost: 1, Cooldown: 0.8},
			{Op: BudSensor, Anchor: AnchorCore, Angle: -1.047, Length: 28, Radius: 5, Cost: 1, Cooldown: 0.8},
		},
		GrowEnergyThreshold: 8,
		GrowInterval:        1,
	}
}

// Clone returns an independent deep copy.
func (g *Genome) Clone() *Genome {
	c := &Genome{
		Rules:               make([]GrowthRule, len(g.Rules)),
		GrowEnergyThreshold: g.GrowEnergyThreshold,
		GrowInterval:        g.GrowInterval,
	}
	copy(c.Rules, g.Rules)
	return c
}
