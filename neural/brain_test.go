package neural

import (
	"math"
	"math/rand"
	"testing"
)

func TestStepComputesTanhOfWeightedSum(t *testing.T) {
	b := NewBrain()
	b.AddNeuron(SensorNeuron, 0, NoNode, "in")
	b.AddNeuron(MotorNeuron, 0, 7, "out")
	b.AddSynapse(b.named["in"], b.named["out"], 1.0)

	if err := b.SetSensor("in", 0.5); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}
	b.Step()

	got, err := b.Value("out")
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	want := math.Tanh(0.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("out = %v, want %v", got, want)
	}
}

func TestStepIsOneStepDelayed(t *testing.T) {
	b := NewBrain()
	b.AddNeuron(SensorNeuron, 0, NoNode, "in")
	b.AddNeuron(HiddenNeuron, 0, NoNode, "h")
	b.AddNeuron(MotorNeuron, 0, 0, "out")
	b.AddSynapse(b.named["in"], b.named["h"], 1.0)
	b.AddSynapse(b.named["h"], b.named["out"], 1.0)

	if err := b.SetSensor("in", 1.0); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}

	// First step: h sees the sensor, out still sees h's pre-step zero.
	b.Step()
	h1, _ := b.Value("h")
	out1, _ := b.Value("out")
	if math.Abs(h1-math.Tanh(1)) > 1e-9 {
		t.Errorf("h after step 1 = %v, want %v", h1, math.Tanh(1))
	}
	if out1 != 0 {
		t.Errorf("out after step 1 = %v, want 0 (one-step delay)", out1)
	}

	// Second step: out sees h's value from step one.
	b.Step()
	out2, _ := b.Value("out")
	want := math.Tanh(math.Tanh(1))
	if math.Abs(out2-want) > 1e-9 {
		t.Errorf("out after step 2 = %v, want %v", out2, want)
	}
}

func TestStepSaturatesExtremeSums(t *testing.T) {
	b := NewBrain()
	b.AddNeuron(SensorNeuron, 0, NoNode, "in")
	b.AddNeuron(MotorNeuron, 0, 0, "out")
	b.AddSynapse(b.named["in"], b.named["out"], 1000.0)

	if err := b.SetSensor("in", 1000.0); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}
	b.Step()

	got, _ := b.Value("out")
	if got > 1 || math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("out = %v, want finite value <= 1", got)
	}
}

func TestSetSensorUnknownName(t *testing.T) {
	b := NewBrain()
	if err := b.SetSensor("missing", 1.0); err == nil {
		t.Error("expected error for unknown sensor name")
	}
}

func TestEnsureSensorIdempotent(t *testing.T) {
	b := NewBrain()
	id1 := b.EnsureSensor("energy", NoNode)
	id2 := b.EnsureSensor("energy", NoNode)
	if id1 != id2 {
		t.Errorf("EnsureSensor returned %d then %d, want same id", id1, id2)
	}
	if b.NeuronCount() != 1 {
		t.Errorf("neuron count = %d, want 1", b.NeuronCount())
	}
}

func TestEnsureMotorForActuatorIdempotent(t *testing.T) {
	b := NewBrain()
	id1 := b.EnsureMotorForActuator(3)
	before := b.NeuronCount()
	id2 := b.EnsureMotorForActuator(3)

	if id1 != id2 {
		t.Errorf("motor ids differ: %d vs %d", id1, id2)
	}
	if b.NeuronCount() != before {
		t.Errorf("second call added neurons: %d -> %d", before, b.NeuronCount())
	}
}

func TestMotorOutputsWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := BuildStarter([]int{1, 2}, rng)

	if err := b.SetSensor("food_sin", 1.0); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}
	if err := b.SetSensor("food_dist", 1.0); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}
	for i := 0; i < 10; i++ {
		b.Step()
	}

	out := b.MotorOutputs()
	if len(out) != 2 {
		t.Fatalf("motor outputs = %d entries, want 2", len(out))
	}
	for nodeID, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("motor for node %d = %v, out of [-1, 1]", nodeID, v)
		}
	}
}

func TestBuildStarterTopology(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := BuildStarter([]int{10, 20}, rng)

	// 6 sensors + 2 hidden + 2 motors
	if b.NeuronCount() != 10 {
		t.Errorf("neuron count = %d, want 10", b.NeuronCount())
	}

	for _, name := range []string{"energy", "osc_sin", "osc_cos", "food_sin", "food_cos", "food_dist", "h1", "h2"} {
		if _, ok := b.named[name]; !ok {
			t.Errorf("missing named neuron %q", name)
		}
	}

	out := b.MotorOutputs()
	for _, nodeID := range []int{10, 20} {
		if _, ok := out[nodeID]; !ok {
			t.Errorf("no motor output for actuator node %d", nodeID)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := BuildStarter([]int{1}, rng)
	c := b.Clone()

	if c.NeuronCount() != b.NeuronCount() || c.SynapseCount() != b.SynapseCount() {
		t.Fatalf("clone sizes differ: %d/%d vs %d/%d",
			c.NeuronCount(), c.SynapseCount(), b.NeuronCount(), b.SynapseCount())
	}

	if err := c.SetSensor("energy", 0.9); err != nil {
		t.Fatalf("SetSensor: %v", err)
	}
	orig, _ := b.Value("energy")
	if orig != 0 {
		t.Errorf("writing clone sensor mutated original: %v", orig)
	}

	c.AddNeuron(HiddenNeuron, 0, NoNode, "")
	if b.NeuronCount() == c.NeuronCount() {
		t.Error("adding neuron to clone changed original count")
	}
}

func TestMutateParamsPerturbsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b := BuildStarter([]int{1, 2}, rng)

	before := make([]float64, len(b.synapses))
	for i, s := range b.synapses {
		before[i] = s.Weight
	}

	b.MutateParams(rng, 1.0, 1.0, 0.5)

	changed := 0
	for i, s := range b.synapses {
		if s.Weight != before[i] {
			changed++
		}
	}
	if changed == 0 {
		t.Error("MutateParams with p=1 changed no weights")
	}
}
