// Package organism implements the body data model: typed nodes connected by
// elastic edges, the growth genome, and the growth engine that buds new body
// parts from genome rules.
package organism

// NodeType identifies a body node's role.
type NodeType uint8

const (
	// Core is the anchor node; every organism built by the standard
	// construction path has exactly one.
	Core NodeType = iota
	// Segment is inert structure.
	Segment
	// Actuator applies thrust along its heading.
	Actuator
	// Sensor is a body-mounted sense organ.
	Sensor
)

// String returns the node type name.
func (t NodeType) String() string {
	switch t {
	case Core:
		return "core"
	case Segment:
		return "segment"
	case Actuator:
		return "actuator"
	case Sensor:
		return "sensor"
	}
	return "unknown"
}

// Node is a single body part.
type Node struct {
	ID     int
	Type   NodeType
	X, Y   float64
	Angle  float64
	Radius float64

	// Dynamics
	VX, VY float64
	AngVel float64

	// Life is tracked per node but not consumed by simulation logic yet.
	Life float64
	Age  int
}

// Move integrates position and heading by the node's velocities.
func (n *Node) Move(dt float64) {
	n.X += n.VX * dt
	n.Y += n.VY * dt
	n.Angle += n.AngVel * dt
}

// Edge is a distance constraint between two nodes.
type Edge struct {
	A, B       int
	RestLength float64
}
