// Package game owns the top-level loop: input, fixed-step simulation
// updates, rendering, and telemetry flushing.
package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/polyp/config"
	"github.com/pthm-cable/polyp/renderer"
	"github.com/pthm-cable/polyp/sim"
	"github.com/pthm-cable/polyp/telemetry"
	"github.com/pthm-cable/polyp/ui"
)

// DT is the fixed simulation timestep in seconds. Rendering speed varies;
// simulation semantics do not.
const DT = 1.0 / 60.0

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	StepsPerUpdate int // headless ticks per UpdateHeadless call
}

// Game holds the complete application state.
type Game struct {
	cfg  *config.Config
	opts Options

	sim       *sim.Simulation
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	renderer *renderer.Renderer
	hud      *ui.HUD

	paused bool
	debug  bool
	speed  int // simulation sub-steps per rendered frame
}

// NewGameWithOptions creates a game instance with explicit options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	if opts.StepsPerUpdate <= 0 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		cfg:      cfg,
		opts:     opts,
		sim:      sim.New(cfg, opts.Seed),
		renderer: renderer.New(),
		hud:      ui.NewHUD(),
		speed:    cfg.Screen.SimSpeed,
	}
	if g.speed < 1 {
		g.speed = 1
	}

	if opts.StatsWindowSec > 0 {
		g.collector = telemetry.NewCollector(opts.StatsWindowSec)
		g.sim.SetCollector(g.collector)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		return nil, err
	}

	return g, nil
}

// Update advances the simulation for one rendered frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	for i := 0; i < g.speed; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without any input or rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.opts.StepsPerUpdate; i++ {
		g.step()
	}
}

// step runs a single fixed tick and flushes telemetry on window boundaries.
func (g *Game) step() {
	g.sim.Step(DT)

	if g.collector != nil && g.collector.Advance(DT) {
		g.flushWindow()
	}
}

// Draw renders one frame.
func (g *Game) Draw() {
	rl.BeginDrawing()
	g.renderer.Clear()

	g.renderer.DrawFood(g.sim.World().Food)
	g.renderer.DrawAgents(g.sim.Agents())
	if g.debug {
		g.renderer.DrawDebug(g.sim.Agents())
	}

	res := g.hud.Draw(ui.HUDData{
		Stats:        g.sim.Stats(),
		Tick:         g.sim.Tick(),
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Debug:        g.debug,
		Speed:        float32(g.speed),
		ScreenWidth:  int32(g.cfg.Screen.Width),
		ScreenHeight: int32(g.cfg.Screen.Height),
	})
	g.speed = int(res.Speed)
	if g.speed < 1 {
		g.speed = 1
	}
	g.debug = res.Debug

	g.hud.DrawControls(int32(g.cfg.Screen.Width), int32(g.cfg.Screen.Height))

	rl.EndDrawing()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.sim.Tick()
}

// Unload flushes any partial telemetry window and closes output files.
func (g *Game) Unload() {
	if g.collector != nil {
		g.flushWindow()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
}
