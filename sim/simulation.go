package sim

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/evolution"
	"github.com/pthm-cable/polyp/neural"
	"github.com/pthm-cable/polyp/organism"
	"github.com/pthm-cable/polyp/telemetry"
	"github.com/pthm-cable/polyp/world"
)

// Stats is the population-level aggregate consumed by the HUD and logging.
type Stats struct {
	Population int
	Births     int
	Deaths     int
	AvgEnergy  float64
	SimTime    float64
}

// Simulation owns the continuous-mode population and environment. All
// mutation happens in place on the single control goroutine; the per-tick
// phases run sequentially across the whole population before the next tick.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	world  *world.World
	agents []*LiveAgent

	tick    int64
	simTime float64
	births  int
	deaths  int

	collector *telemetry.Collector
}

// New creates a simulation with the initial population spawned from the
// starter brain and genome templates.
func New(cfg *config.Config, seed int64) *Simulation {
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		cfg:   cfg,
		rng:   rng,
		world: world.New(cfg.Derived.ScreenW, cfg.Derived.ScreenH, &cfg.Food, rng),
	}

	// Template brain wired against the seed body's actuator ids; every
	// agent starts from a clone of it.
	_, a1, a2 := SeedOrganism(cfg.Derived.ScreenW/2, cfg.Derived.ScreenH/2)
	baseBrain := neural.BuildStarter([]int{a1, a2}, rng)
	baseGenome := organism.StarterGenome()

	for i := 0; i < cfg.Population.Initial; i++ {
		x := 80 + rng.Float64()*(cfg.Derived.ScreenW-160)
		y := 80 + rng.Float64()*(cfg.Derived.ScreenH-160)
		s.agents = append(s.agents, BuildAgent(x, y, baseBrain, baseGenome))
	}

	return s
}

// SetCollector attaches a telemetry collector. A nil collector disables
// event recording.
func (s *Simulation) SetCollector(c *telemetry.Collector) { s.collector = c }

// Agents returns the live population, read-only by convention.
func (s *Simulation) Agents() []*LiveAgent { return s.agents }

// World returns the environment, read-only by convention.
func (s *Simulation) World() *world.World { return s.world }

// Tick returns the number of completed simulation steps.
func (s *Simulation) Tick() int64 { return s.tick }

// Step advances the whole simulation by one tick of dt seconds. Phase order
// matters: environment, per-agent stepping, separation, deaths,
// reproduction, cap enforcement.
func (s *Simulation) Step(dt float64) {
	s.tick++
	s.simTime += dt

	s.world.Update(dt)

	for _, agent := range s.agents {
		grewBefore := len(agent.Organism.Nodes)
		gained := stepAgent(s.rng, s.cfg, agent, s.world, dt, s.simTime)
		if s.collector != nil {
			s.collector.RecordFood(gained)
			if len(agent.Organism.Nodes) > grewBefore {
				s.collector.RecordGrowth()
			}
		}
	}

	orgs := make([]*organism.Organism, len(s.agents))
	for i, a := range s.agents {
		orgs[i] = a.Organism
	}
	world.SeparateOrganisms(orgs, s.cfg.Physics.SeparationRadius, s.cfg.Physics.SeparationPush)

	s.removeDead()
	s.reproduce()
	s.cullExcess()
}

// removeDead drops agents below the energy floor or past the maximum age.
func (s *Simulation) removeDead() {
	survivors := s.agents[:0]
	for _, a := range s.agents {
		if a.Organism.Energy <= s.cfg.Energy.DeathFloor || a.Age >= s.cfg.Energy.MaxAge {
			s.deaths++
			if s.collector != nil {
				s.collector.RecordDeath()
			}
			continue
		}
		survivors = append(survivors, a)
	}
	s.agents = survivors
}

// reproduce spawns a mutated clone from every agent over the reproduction
// threshold, while population headroom remains.
func (s *Simulation) reproduce() {
	repro := &s.cfg.Reproduction
	var children []*LiveAgent

	for _, a := range s.agents {
		if a.Organism.Energy < repro.Threshold {
			continue
		}
		if len(s.agents)+len(children) >= s.cfg.Population.Max {
			break
		}
		a.Organism.Energy -= repro.Cost
		children = append(children, s.spawnChild(a))
		s.births++
		if s.collector != nil {
			s.collector.RecordBirth()
		}
	}

	s.agents = append(s.agents, children...)
}

// spawnChild clones and mutates a parent into a fresh agent. The child
// starts with exactly the reproduction cost as energy.
func (s *Simulation) spawnChild(parent *LiveAgent) *LiveAgent {
	spawn := evolution.CloneForSpawn(s.rng, parent.Organism, parent.Genome, &s.cfg.Mutation, s.cfg.Reproduction.SpawnJitter)
	spawn.Organism.Energy = s.cfg.Reproduction.Cost
	EnsureBrainBodyIO(spawn.Organism)

	return &LiveAgent{
		Organism: spawn.Organism,
		Genome:   spawn.Genome,
		Growth:   organism.NewGrowthState(spawn.Genome),
	}
}

// cullExcess enforces the population cap by removing the lowest-energy
// agents.
func (s *Simulation) cullExcess() {
	max := s.cfg.Population.Max
	if len(s.agents) <= max {
		return
	}
	sort.SliceStable(s.agents, func(i, j int) bool {
		return s.agents[i].Organism.Energy < s.agents[j].Organism.Energy
	})
	overflow := len(s.agents) - max
	s.deaths += overflow
	if s.collector != nil {
		for i := 0; i < overflow; i++ {
			s.collector.RecordDeath()
		}
	}
	s.agents = s.agents[overflow:]
}

// Stats computes the population aggregate. An empty population yields
// zero-valued statistics; the simulation keeps running.
func (s *Simulation) Stats() Stats {
	st := Stats{
		Population: len(s.agents),
		Births:     s.births,
		Deaths:     s.deaths,
		SimTime:    s.simTime,
	}
	if len(s.agents) > 0 {
		energies := make([]float64, len(s.agents))
		for i, a := range s.agents {
			energies[i] = a.Organism.Energy
		}
		st.AvgEnergy = stat.Mean(energies, nil)
	}
	return st
}
