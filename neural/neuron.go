package neural

// NeuronType identifies how a neuron is updated each tick.
type NeuronType uint8

const (
	// SensorNeuron values are written externally and never recomputed.
	SensorNeuron NeuronType = iota
	// HiddenNeuron values are recomputed from incoming synapses.
	HiddenNeuron
	// MotorNeuron values drive body actuators.
	MotorNeuron
	// GlobalNeuron is reserved for whole-body modulation; updated like hidden.
	GlobalNeuron
)

// String returns the neuron type name.
func (t NeuronType) String() string {
	switch t {
	case SensorNeuron:
		return "sensor"
	case HiddenNeuron:
		return "hidden"
	case MotorNeuron:
		return "motor"
	case GlobalNeuron:
		return "global"
	}
	return "unknown"
}

// NoNode marks a neuron with no body-node attachment.
const NoNode = -1

// Neuron is a single unit in a Brain.
type Neuron struct {
	ID    int
	Type  NeuronType
	Bias  float64
	Value float64

	// NodeID is the attached body node, or NoNode.
	NodeID int

	// Name is a debug label; named neurons are addressable via the Brain.
	Name string
}

// Synapse is a weighted directed connection between two neurons.
type Synapse struct {
	Src    int
	Dst    int
	Weight float64
}
