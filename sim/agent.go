// Package sim is the render-free simulation core: live agents, the per-tick
// phase ordering, population-level death/reproduction/culling, and the solo
// episode evaluator used by generational runs.
package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/neural"
	"github.com/pthm-cable/polyp/organism"
	"github.com/pthm-cable/polyp/world"
)

// LiveAgent pairs an organism with its heritable genome and growth
// bookkeeping.
type LiveAgent struct {
	Organism *organism.Organism
	Genome   *organism.Genome
	Growth   *organism.GrowthState
	Age      float64
}

// SeedOrganism builds the minimal starting body: a core flanked by two
// actuators facing outward. Returns the organism and the actuator node ids.
func SeedOrganism(cx, cy float64) (*organism.Organism, int, int) {
	org := organism.New(10)
	core := org.AddNode(organism.Core, cx, cy, 0, 12)

	a1 := org.AddNode(organism.Actuator, cx-40, cy, math.Pi, 8)
	a2 := org.AddNode(organism.Actuator, cx+40, cy, 0, 8)

	org.AddEdge(core.ID, a1.ID, 40)
	org.AddEdge(core.ID, a2.ID, 40)
	return org, a1.ID, a2.ID
}

// BuildAgent creates a live agent at (x, y) from a template brain and
// genome; both are cloned, never shared.
func BuildAgent(x, y float64, baseBrain *neural.Brain, genome *organism.Genome) *LiveAgent {
	org, _, _ := SeedOrganism(x, y)
	org.Brain = baseBrain.Clone()
	EnsureBrainBodyIO(org)

	g := genome.Clone()
	return &LiveAgent{
		Organism: org,
		Genome:   g,
		Growth:   organism.NewGrowthState(g),
	}
}

// EnsureBrainBodyIO resynchronizes brain I/O with the body topology: every
// actuator gets a motor neuron and every body sensor node gets a named
// sensor neuron. No-op for brainless organisms.
func EnsureBrainBodyIO(org *organism.Organism) {
	if org.Brain == nil {
		return
	}
	for _, id := range org.ActuatorIDs() {
		org.Brain.EnsureMotorForActuator(id)
	}
	for _, n := range org.SensorNodes() {
		org.Brain.EnsureSensor(fmt.Sprintf("sensor_%d", n.ID), n.ID)
	}
}

// wrapAngle normalizes a to [-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// senseFood returns the food bearing relative to the core heading as
// (sin, cos) plus a closeness signal in [0, 1]. With no food the bearing is
// straight ahead and closeness is 0.
func senseFood(org *organism.Organism, w *world.World, senseRange float64) (foodSin, foodCos, foodDist float64) {
	cx, cy := org.CenterOfMass()
	nearest, dist := w.Food.NearestPellet(cx, cy)
	if nearest == nil {
		return 0, 1, 0
	}

	heading := 0.0
	if core := org.Core(); core != nil {
		heading = core.Angle
	}

	rel := wrapAngle(math.Atan2(nearest.Y-cy, nearest.X-cx) - heading)
	foodSin = math.Sin(rel)
	foodCos = math.Cos(rel)
	foodDist = math.Max(0, 1-math.Min(1, dist/senseRange))
	return foodSin, foodCos, foodDist
}

// stepAgent runs one agent through a full tick: metabolic drain, sensing,
// brain evaluation, growth (with brain resync and restabilization), physics,
// world wrap, and feeding. Returns the food energy gained.
func stepAgent(rng *rand.Rand, cfg *config.Config, agent *LiveAgent, w *world.World, dt, oscT float64) float64 {
	org := agent.Organism
	org.Energy = math.Max(0, org.Energy-cfg.Energy.DrainPerSec*dt)

	foodSin, foodCos, foodDist := senseFood(org, w, cfg.Sensing.Range)

	if org.Brain != nil {
		energy01 := math.Max(0, math.Min(1, org.Energy/cfg.Energy.Max))
		mustSet(org.Brain, "energy", energy01)
		mustSet(org.Brain, "osc_sin", math.Sin(oscT*2))
		mustSet(org.Brain, "osc_cos", math.Cos(oscT*2))
		mustSet(org.Brain, "food_sin", foodSin)
		mustSet(org.Brain, "food_cos", foodCos)
		mustSet(org.Brain, "food_dist", foodDist)
		org.Brain.Step()
	}

	if organism.TryApplyGrowth(rng, org, agent.Genome, agent.Growth, dt) {
		// A fresh bud starts at zero velocity but may be geometrically
		// inconsistent with its neighbors; resync and restabilize.
		EnsureBrainBodyIO(org)
		world.SolveEdges(org)
		world.ApplyDrag(org)
		world.ClampSpeed(org, cfg.Physics.MaxSpeed, cfg.Physics.MaxAngular)
	}

	if org.Brain != nil {
		thrust := org.Brain.MotorOutputs()
		cost := world.ApplyActuatorForces(org, thrust, dt, cfg.Physics.ActuatorCostScale)
		org.LastActuatorCost = cost
		org.Energy = math.Max(0, org.Energy-cost)
	}

	world.SolveEdges(org)
	world.ApplyDrag(org)
	world.ClampSpeed(org, cfg.Physics.MaxSpeed, cfg.Physics.MaxAngular)

	org.UpdateKinematics(dt)
	world.WrapWorld(org, w.W, w.H, cfg.Physics.WrapMargin)

	cx, cy := org.CenterOfMass()
	gained := w.Food.EatNear(cx, cy, cfg.Energy.EatReach)
	if gained > 0 {
		org.Energy = math.Min(cfg.Energy.Max, org.Energy+gained)
	}

	agent.Age += dt
	return gained
}

// mustSet panics on a failed sensor write. The brain is resynchronized after
// every growth event, so a missing canonical sensor is a desync bug.
func mustSet(b *neural.Brain, name string, v float64) {
	if err := b.SetSensor(name, v); err != nil {
		panic(err)
	}
}
