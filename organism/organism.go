package organism

import (
	"github.com/pthm-cable/polyp/neural"
)

// Organism is an embodied agent: a graph of body nodes and edges, an energy
// budget, and an optional neural controller. Node ids are assigned
// monotonically and never reused; nodes and edges are appended by growth and
// never removed.
type Organism struct {
	Nodes      map[int]*Node
	Edges      []Edge
	nextNodeID int

	Energy float64
	Age    float64

	// Brain is nil for brainless organisms; all call sites treat the
	// absent case as a no-op.
	Brain *neural.Brain

	// LastActuatorCost is the effort cost charged by the most recent
	// physics pass, kept for the debug overlay.
	LastActuatorCost float64
}

// New creates an empty organism with the given starting energy.
func New(energy float64) *Organism {
	return &Organism{
		Nodes:  make(map[int]*Node),
		Energy: energy,
	}
}

// AddNode appends a new body node and returns it.
func (o *Organism) AddNode(t NodeType, x, y, angle, radius float64) *Node {
	n := &Node{
		ID:     o.nextNodeID,
		Type:   t,
		X:      x,
		Y:      y,
		Angle:  angle,
		Radius: radius,
		Life:   1,
	}
	o.Nodes[n.ID] = n
	o.nextNodeID++
	return n
}

// AddEdge appends a distance constraint between two existing nodes.
func (o *Organism) AddEdge(a, b int, restLength float64) {
	o.Edges = append(o.Edges, Edge{A: a, B: b, RestLength: restLength})
}

// CenterOfMass returns the unweighted mean node position.
func (o *Organism) CenterOfMass() (float64, float64) {
	if len(o.Nodes) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, n := range o.Nodes {
		sx += n.X
		sy += n.Y
	}
	inv := 1.0 / float64(len(o.Nodes))
	return sx * inv, sy * inv
}

// Core returns the core node, or nil if the organism has none.
func (o *Organism) Core() *Node {
	for _, n := range o.Nodes {
		if n.Type == Core {
			return n
		}
	}
	return nil
}

// ActuatorIDs returns the ids of all actuator nodes.
func (o *Organism) ActuatorIDs() []int {
	var ids []int
	for _, n := range o.Nodes {
		if n.Type == Actuator {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SensorNodes returns all body sensor nodes.
func (o *Organism) SensorNodes() []*Node {
	var out []*Node
	for _, n := range o.Nodes {
		if n.Type == Sensor {
			out = append(out, n)
		}
	}
	return out
}

// Degree returns the edge degree of the given node id.
func (o *Organism) Degree(id int) int {
	d := 0
	for _, e := range o.Edges {
		if e.A == id || e.B == id {
			d++
		}
	}
	return d
}

// UpdateKinematics advances ages and integrates node motion.
func (o *Organism) UpdateKinematics(dt float64) {
	o.Age += dt
	for _, n := range o.Nodes {
		n.Age++
		n.Move(dt)
	}
}

// Clone returns a deep copy of the body without the brain.
func (o *Organism) Clone() *Organism {
	c := &Organism{
		Nodes:            make(map[int]*Node, len(o.Nodes)),
		Edges:            make([]Edge, len(o.Edges)),
		nextNodeID:       o.nextNodeID,
		Energy:           o.Energy,
		Age:              o.Age,
		LastActuatorCost: o.LastActuatorCost,
	}
	for id, n := range o.Nodes {
		cp := *n
		c.Nodes[id] = &cp
	}
	copy(c.Edges, o.Edges)
	return c
}

// CloneWithBrain returns a deep copy of the body and its brain, if any.
func (o *Organism) CloneWithBrain() *Organism {
	c := o.Clone()
	if o.Brain != nil {
		c.Brain = o.Brain.Clone()
	}
	return c
}
