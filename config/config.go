// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Population   PopulationConfig   `yaml:"population"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Food         FoodConfig         `yaml:"food"`
	Mutation     MutationConfig     `yaml:"mutation"`
	Sensing      SensingConfig      `yaml:"sensing"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display and pacing settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	SimSpeed  int `yaml:"sim_speed"` // simulation sub-steps per rendered frame
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Max     int `yaml:"max"`
}

// EnergyConfig holds per-agent energy economics.
type EnergyConfig struct {
	DrainPerSec float64 `yaml:"drain_per_sec"` // passive metabolic drain
	Max         float64 `yaml:"max"`           // energy cap after feeding
	DeathFloor  float64 `yaml:"death_floor"`   // agents at or below this die
	MaxAge      float64 `yaml:"max_age"`       // seconds before death by age
	EatReach    float64 `yaml:"eat_reach"`     // pellet pickup radius from center of mass
}

// ReproductionConfig holds continuous-mode reproduction parameters.
type ReproductionConfig struct {
	Threshold   float64 `yaml:"threshold"`    // minimum energy to spawn a child
	Cost        float64 `yaml:"cost"`         // debited from parent, granted to child
	SpawnJitter float64 `yaml:"spawn_jitter"` // uniform positional offset applied to the child body
}

// PhysicsConfig holds actuation and stability parameters.
type PhysicsConfig struct {
	ActuatorCostScale float64 `yaml:"actuator_cost_scale"` // multiplier on accumulated thrust effort
	MaxSpeed          float64 `yaml:"max_speed"`           // linear velocity clamp
	MaxAngular        float64 `yaml:"max_angular"`         // angular velocity clamp
	WrapMargin        float64 `yaml:"wrap_margin"`         // off-screen distance before wrapping
	SeparationRadius  float64 `yaml:"separation_radius"`   // center-of-mass distance that triggers separation
	SeparationPush    float64 `yaml:"separation_push"`     // separation strength
}

// FoodConfig holds food field parameters.
type FoodConfig struct {
	TargetPellets  int     `yaml:"target_pellets"`
	SpawnRate      float64 `yaml:"spawn_rate"` // clumps per second while below target
	ClumpCountMin  int     `yaml:"clump_count_min"`
	ClumpCountMax  int     `yaml:"clump_count_max"`
	ClumpSpreadMin float64 `yaml:"clump_spread_min"` // gaussian std-dev in world units
	ClumpSpreadMax float64 `yaml:"clump_spread_max"`
	RadiusMin      float64 `yaml:"radius_min"`
	RadiusMax      float64 `yaml:"radius_max"`
	LifespanMin    float64 `yaml:"lifespan_min"`
	LifespanMax    float64 `yaml:"lifespan_max"`
}

// MutationConfig holds brain and genome mutation parameters.
type MutationConfig struct {
	// Brain parameter mutation
	PWeight float64 `yaml:"p_weight"` // per-synapse weight perturbation probability
	PBias   float64 `yaml:"p_bias"`   // per-hidden-neuron bias perturbation probability
	Sigma   float64 `yaml:"sigma"`    // gaussian noise std-dev for brain params

	// Genome rule mutation
	PJitter       float64 `yaml:"p_jitter"`      // per-rule parameter jitter probability
	PAddRule      float64 `yaml:"p_add_rule"`    // probability of cloning+rewiring a rule
	PRemoveRule   float64 `yaml:"p_remove_rule"` // probability of dropping a rule
	AngleSigma    float64 `yaml:"angle_sigma"`
	LengthSigma   float64 `yaml:"length_sigma"`
	RadiusSigma   float64 `yaml:"radius_sigma"`
	CostSigma     float64 `yaml:"cost_sigma"`
	CooldownSigma float64 `yaml:"cooldown_sigma"`
}

// SensingConfig holds food-sensing parameters.
type SensingConfig struct {
	Range float64 `yaml:"range"` // distance at which food_dist reads 0
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW float64 // Screen.Width as float64
	ScreenH float64 // Screen.Height as float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
