package world

import (
	"math"

	"github.com/pthm-cable/polyp/organism"
)

// Physics tuning. Thrust and drag interact with the edge solver; these were
// tuned together and are not exposed as config.
const (
	ActuatorForce = 90.0
	TorqueScale   = 0.0015

	LinearDrag  = 0.92
	AngularDrag = 0.86

	EdgeSolverIters = 2
	EdgeStiffness   = 0.65
)

// ApplyActuatorForces integrates thrust into node velocities and returns the
// effort cost for this tick. thrust maps actuator node id -> [-1, 1]; larger
// actuators incur a higher cost, mimicking heavier muscles. Off-center thrust
// produces torque about the center of mass.
func ApplyActuatorForces(org *organism.Organism, thrust map[int]float64, dt, costScale float64) float64 {
	cx, cy := org.CenterOfMass()

	var cost float64
	for nodeID, t := range thrust {
		node, ok := org.Nodes[nodeID]
		if !ok || node.Type != organism.Actuator {
			continue
		}

		t = math.Max(-1, math.Min(1, t))
		cost += math.Abs(t) * dt * math.Max(node.Radius, 1)

		fx := math.Cos(node.Angle) * t * ActuatorForce
		fy := math.Sin(node.Angle) * t * ActuatorForce

		// Time-based impulse prevents runaway acceleration.
		node.VX += fx * dt
		node.VY += fy * dt

		// torque = r x F in 2D
		rx := node.X - cx
		ry := node.Y - cy
		node.AngVel += (rx*fy - ry*fx) * TorqueScale * dt
	}
	return cost * costScale
}

// SolveEdges runs a fixed number of position-based relaxation passes over
// the distance constraints. Degenerate (near zero length) edges are skipped
// for that iteration.
func SolveEdges(org *organism.Organism) {
	for iter := 0; iter < EdgeSolverIters; iter++ {
		for _, e := range org.Edges {
			a := org.Nodes[e.A]
			b := org.Nodes[e.B]

			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist <= 1e-6 {
				continue
			}

			diff := (dist - e.RestLength) / dist
			ox := dx * 0.5 * EdgeStiffness * diff
			oy := dy * 0.5 * EdgeStiffness * diff

			a.X += ox
			a.Y += oy
			b.X -= ox
			b.Y -= oy
		}
	}
}

// ApplyDrag exponentially decays linear and angular velocities.
func ApplyDrag(org *organism.Organism) {
	for _, n := range org.Nodes {
		n.VX *= LinearDrag
		n.VY *= LinearDrag
		n.AngVel *= AngularDrag
	}
}

// ClampSpeed rescales any node velocity above maxSpeed back to exactly
// maxSpeed and clamps angular velocity to [-maxAngular, maxAngular].
func ClampSpeed(org *organism.Organism, maxSpeed, maxAngular float64) {
	maxSpeed2 := maxSpeed * maxSpeed
	for _, n := range org.Nodes {
		v2 := n.VX*n.VX + n.VY*n.VY
		if v2 > maxSpeed2 {
			s := maxSpeed / math.Max(math.Sqrt(v2), 1e-9)
			n.VX *= s
			n.VY *= s
		}
		n.AngVel = math.Max(-maxAngular, math.Min(maxAngular, n.AngVel))
	}
}

// WrapWorld teleports nodes that cross outside [-margin, dim+margin] to the
// opposite edge, arcade style.
func WrapWorld(org *organism.Organism, w, h, margin float64) {
	for _, n := range org.Nodes {
		if n.X < -margin {
			n.X = w + margin
		} else if n.X > w+margin {
			n.X = -margin
		}
		if n.Y < -margin {
			n.Y = h + margin
		} else if n.Y > h+margin {
			n.Y = -margin
		}
	}
}

// SeparateOrganisms applies a soft positional push between every pair of
// organisms whose centers of mass are closer than radius. The push is
// proportional to the overlap fraction times strength and is split evenly
// between the two bodies.
func SeparateOrganisms(orgs []*organism.Organism, radius, strength float64) {
	r2 := radius * radius

	for i := 0; i < len(orgs); i++ {
		ax, ay := orgs[i].CenterOfMass()

		for j := i + 1; j < len(orgs); j++ {
			bx, by := orgs[j].CenterOfMass()

			dx := bx - ax
			dy := by - ay
			d2 := dx*dx + dy*dy
			if d2 <= 1e-6 || d2 > r2 {
				continue
			}

			d := math.Sqrt(d2)
			push := (radius - d) / radius * strength
			nx := dx / d
			ny := dy / d

			for _, n := range orgs[i].Nodes {
				n.X -= nx * push
				n.Y -= ny * push
			}
			for _, n := range orgs[j].Nodes {
				n.X += nx * push
				n.Y += ny * push
			}
		}
	}
}
