// Package neural implements the evolvable neural controller: a small
// directed graph of typed neurons and weighted synapses, evaluated once per
// simulation tick. Sensor values are set externally; hidden, motor, and
// global neurons are recomputed synchronously from the previous tick's
// values, which makes the network a one-step-delayed recurrent network.
package neural

import (
	"fmt"
	"math"
	"math/rand"
)

// Brain owns a growable neuron graph. Neuron ids are assigned monotonically
// and never reused.
type Brain struct {
	neurons  map[int]*Neuron
	synapses []Synapse
	nextID   int

	// named maps debug labels to neuron ids.
	named map[string]int

	// actuatorMotors maps body node id -> motor neuron id.
	actuatorMotors map[int]int
}

// NewBrain creates an empty brain.
func NewBrain() *Brain {
	return &Brain{
		neurons:        make(map[int]*Neuron),
		named:          make(map[string]int),
		actuatorMotors: make(map[int]int),
	}
}

// AddNeuron allocates a new neuron and returns its id. A non-empty name
// registers the neuron for lookup by name.
func (b *Brain) AddNeuron(t NeuronType, bias float64, nodeID int, name string) int {
	id := b.nextID
	b.nextID++
	b.neurons[id] = &Neuron{ID: id, Type: t, Bias: bias, NodeID: nodeID, Name: name}
	if name != "" {
		b.named[name] = id
	}
	return id
}

// AddSynapse appends a directed weighted connection. Both endpoints must
// already exist; a dangling reference is a programmer error.
func (b *Brain) AddSynapse(src, dst int, weight float64) {
	if _, ok := b.neurons[src]; !ok {
		panic(fmt.Sprintf("neural: synapse source %d does not exist", src))
	}
	if _, ok := b.neurons[dst]; !ok {
		panic(fmt.Sprintf("neural: synapse destination %d does not exist", dst))
	}
	b.synapses = append(b.synapses, Synapse{Src: src, Dst: dst, Weight: weight})
}

// EnsureSensor returns the id of the named sensor neuron, creating it if the
// name is not registered yet.
func (b *Brain) EnsureSensor(name string, nodeID int) int {
	if id, ok := b.named[name]; ok {
		return id
	}
	return b.AddNeuron(SensorNeuron, 0, nodeID, name)
}

// EnsureMotorForActuator returns the motor neuron id for the given body node,
// creating the motor and its starter wiring if the node is untracked. An
// existing motor already tagged with the node id is adopted instead of
// duplicated, which recovers from a stale actuatorMotors entry after cloning.
func (b *Brain) EnsureMotorForActuator(nodeID int) int {
	if id, ok := b.actuatorMotors[nodeID]; ok {
		if _, alive := b.neurons[id]; alive {
			return id
		}
	}

	for _, n := range b.neurons {
		if n.Type == MotorNeuron && n.NodeID == nodeID {
			b.actuatorMotors[nodeID] = n.ID
			return n.ID
		}
	}

	idx := len(b.actuatorMotors)
	id := b.AddNeuron(MotorNeuron, 0, nodeID, fmt.Sprintf("motor_%d", nodeID))
	b.actuatorMotors[nodeID] = id
	b.wireStarterMotor(id, idx)
	return id
}

// wireStarterMotor connects a fresh motor to the hidden mixer pair when it
// exists, falling back to the oscillator sensors. Alternating signs per motor
// index produce turning motion out of the box.
func (b *Brain) wireStarterMotor(motorID, idx int) {
	h1, ok1 := b.named["h1"]
	h2, ok2 := b.named["h2"]
	if ok1 && ok2 {
		if idx%2 == 0 {
			b.AddSynapse(h1, motorID, 1.0)
			b.AddSynapse(h2, motorID, -0.8)
		} else {
			b.AddSynapse(h1, motorID, -1.0)
			b.AddSynapse(h2, motorID, 0.8)
		}
		return
	}

	oscSin, okS := b.named["osc_sin"]
	oscCos, okC := b.named["osc_cos"]
	if okS && okC {
		phase := 1.0
		if idx%2 != 0 {
			phase = -1.0
		}
		b.AddSynapse(oscSin, motorID, phase)
		b.AddSynapse(oscCos, motorID, 0.5)
	}
}

// SetSensor writes an externally sensed value. An unregistered name indicates
// a brain/body desynchronization and is returned as an error.
func (b *Brain) SetSensor(name string, value float64) error {
	id, ok := b.named[name]
	if !ok {
		return fmt.Errorf("neural: sensor %q not found", name)
	}
	b.neurons[id].Value = value
	return nil
}

// Value returns the current value of a named neuron.
func (b *Brain) Value(name string) (float64, error) {
	id, ok := b.named[name]
	if !ok {
		return 0, fmt.Errorf("neural: neuron %q not found", name)
	}
	return b.neurons[id].Value, nil
}

// Step evaluates the network once. Weighted sums are gathered from the values
// neurons held before the call, then every non-sensor neuron is assigned
// tanh(sum + bias) with the sum clamped to [-20, 20].
func (b *Brain) Step() {
	sums := make(map[int]float64, len(b.neurons))
	for _, s := range b.synapses {
		sums[s.Dst] += b.neurons[s.Src].Value * s.Weight
	}

	for id, n := range b.neurons {
		if n.Type == SensorNeuron {
			continue
		}
		n.Value = saturate(sums[id] + n.Bias)
	}
}

// saturate is tanh with the input clamped to avoid extreme-magnitude inputs.
func saturate(x float64) float64 {
	return math.Tanh(math.Max(-20, math.Min(20, x)))
}

// MotorOutputs returns actuator node id -> thrust in [-1, 1] for every
// tracked motor. Untracked motor neurons tagged with a node id are included
// as a defensive fallback.
func (b *Brain) MotorOutputs() map[int]float64 {
	out := make(map[int]float64, len(b.actuatorMotors))
	for nodeID, motorID := range b.actuatorMotors {
		n, ok := b.neurons[motorID]
		if !ok {
			continue
		}
		out[nodeID] = clamp(n.Value, -1, 1)
	}

	for _, n := range b.neurons {
		if n.Type != MotorNeuron || n.NodeID == NoNode {
			continue
		}
		if _, seen := out[n.NodeID]; !seen {
			out[n.NodeID] = clamp(n.Value, -1, 1)
		}
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clone returns a deep copy sharing no mutable state with the original.
func (b *Brain) Clone() *Brain {
	c := &Brain{
		neurons:        make(map[int]*Neuron, len(b.neurons)),
		synapses:       make([]Synapse, len(b.synapses)),
		nextID:         b.nextID,
		named:          make(map[string]int, len(b.named)),
		actuatorMotors: make(map[int]int, len(b.actuatorMotors)),
	}
	for id, n := range b.neurons {
		cp := *n
		c.neurons[id] = &cp
	}
	copy(c.synapses, b.synapses)
	for k, v := range b.named {
		c.named[k] = v
	}
	for k, v := range b.actuatorMotors {
		c.actuatorMotors[k] = v
	}
	return c
}

// NeuronCount returns the number of neurons in the brain.
func (b *Brain) NeuronCount() int { return len(b.neurons) }

// SynapseCount returns the number of synapses in the brain.
func (b *Brain) SynapseCount() int { return len(b.synapses) }

// BuildStarter constructs the canonical starting topology: six sensors, a
// hidden mixer pair with small random biases, food wiring with fixed weights,
// and one motor per supplied actuator node id.
func BuildStarter(actuatorNodeIDs []int, rng *rand.Rand) *Brain {
	b := NewBrain()

	b.AddNeuron(SensorNeuron, 0, NoNode, "energy")
	b.AddNeuron(SensorNeuron, 0, NoNode, "osc_sin")
	b.AddNeuron(SensorNeuron, 0, NoNode, "osc_cos")

	// Food bearing (sin/cos of relative angle) and closeness (1=close, 0=far).
	b.AddNeuron(SensorNeuron, 0, NoNode, "food_sin")
	b.AddNeuron(SensorNeuron, 0, NoNode, "food_cos")
	b.AddNeuron(SensorNeuron, 0, NoNode, "food_dist")

	// Hidden mixer pair gives evolution a place to add complexity.
	h1 := b.AddNeuron(HiddenNeuron, rng.Float64()*0.4-0.2, NoNode, "h1")
	h2 := b.AddNeuron(HiddenNeuron, rng.Float64()*0.4-0.2, NoNode, "h2")

	b.AddSynapse(b.named["food_sin"], h1, 1.4)
	b.AddSynapse(b.named["food_sin"], h2, -1.4)
	b.AddSynapse(b.named["food_dist"], h1, 0.8)
	b.AddSynapse(b.named["food_dist"], h2, 0.8)
	b.AddSynapse(b.named["food_cos"], h1, 0.3)
	b.AddSynapse(b.named["food_cos"], h2, 0.3)

	for idx, nodeID := range actuatorNodeIDs {
		id := b.AddNeuron(MotorNeuron, 0, nodeID, fmt.Sprintf("motor_%d", nodeID))
		b.actuatorMotors[nodeID] = id
		b.wireStarterMotor(id, idx)
	}

	return b
}
