// Package renderer draws the world and its organisms with raylib.
package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/polyp/organism"
	"github.com/pthm-cable/polyp/sim"
	"github.com/pthm-cable/polyp/world"
)

// Node colors by type.
var (
	coreColor     = rl.Color{R: 235, G: 219, B: 120, A: 255}
	segmentColor  = rl.Color{R: 140, G: 160, B: 190, A: 255}
	actuatorColor = rl.Color{R: 230, G: 110, B: 100, A: 255}
	sensorColor   = rl.Color{R: 110, G: 200, B: 230, A: 255}
	edgeColor     = rl.Color{R: 90, G: 100, B: 120, A: 200}
	foodColor     = rl.Color{R: 120, G: 200, B: 110, A: 220}
	bgColor       = rl.Color{R: 16, G: 18, B: 24, A: 255}
)

// Renderer draws the simulation state. It holds no per-frame state beyond
// the debug toggle owned by the game loop.
type Renderer struct{}

// New creates a renderer.
func New() *Renderer {
	return &Renderer{}
}

// Clear fills the background.
func (r *Renderer) Clear() {
	rl.ClearBackground(bgColor)
}

// DrawFood renders every live pellet as a filled circle.
func (r *Renderer) DrawFood(f *world.FoodField) {
	for i := range f.Pellets {
		p := &f.Pellets[i]
		rl.DrawCircleV(rl.Vector2{X: float32(p.X), Y: float32(p.Y)}, float32(p.Radius), foodColor)
	}
}

// DrawAgents renders every organism: edges first, then nodes colored by
// type, with actuator heading ticks.
func (r *Renderer) DrawAgents(agents []*sim.LiveAgent) {
	for _, a := range agents {
		r.drawOrganism(a.Organism)
	}
}

func (r *Renderer) drawOrganism(org *organism.Organism) {
	for _, e := range org.Edges {
		na, okA := org.Nodes[e.A]
		nb, okB := org.Nodes[e.B]
		if !okA || !okB {
			continue
		}
		rl.DrawLineEx(
			rl.Vector2{X: float32(na.X), Y: float32(na.Y)},
			rl.Vector2{X: float32(nb.X), Y: float32(nb.Y)},
			2, edgeColor,
		)
	}

	for _, n := range org.Nodes {
		rl.DrawCircleV(rl.Vector2{X: float32(n.X), Y: float32(n.Y)}, float32(n.Radius), nodeColor(n.Type))

		if n.Type == organism.Actuator {
			tipX := n.X + math.Cos(n.Angle)*n.Radius*1.8
			tipY := n.Y + math.Sin(n.Angle)*n.Radius*1.8
			rl.DrawLineEx(
				rl.Vector2{X: float32(n.X), Y: float32(n.Y)},
				rl.Vector2{X: float32(tipX), Y: float32(tipY)},
				2, rl.White,
			)
		}
	}
}

func nodeColor(t organism.NodeType) rl.Color {
	switch t {
	case organism.Core:
		return coreColor
	case organism.Actuator:
		return actuatorColor
	case organism.Sensor:
		return sensorColor
	default:
		return segmentColor
	}
}

// DrawDebug overlays per-agent internals: energy, age, node count, and the
// current motor drive per actuator.
func (r *Renderer) DrawDebug(agents []*sim.LiveAgent) {
	for _, a := range agents {
		org := a.Organism
		cx, cy := org.CenterOfMass()

		label := fmt.Sprintf("e=%.1f a=%.0f n=%d", org.Energy, a.Age, len(org.Nodes))
		rl.DrawText(label, int32(cx)+12, int32(cy)-8, 10, rl.LightGray)

		if org.Brain == nil {
			continue
		}
		for nodeID, drive := range org.Brain.MotorOutputs() {
			n, ok := org.Nodes[nodeID]
			if !ok {
				continue
			}
			// Thrust bar along the actuator axis, length proportional to drive
			barX := n.X + math.Cos(n.Angle)*drive*24
			barY := n.Y + math.Sin(n.Angle)*drive*24
			c := rl.Orange
			if drive < 0 {
				c = rl.SkyBlue
			}
			rl.DrawLineEx(
				rl.Vector2{X: float32(n.X), Y: float32(n.Y)},
				rl.Vector2{X: float32(barX), Y: float32(barY)},
				3, c,
			)
		}
	}
}
