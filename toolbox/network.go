package toolbox

import (
	"fmt"
	"math/rand"
)

// Sizes describes a three-layer topology.  Every hidden and output node gets
// its own bias node.
type Sizes struct {
	Inputs  int
	Hidden  int
	Outputs int
}

func (s Sizes) Biases() int {
	return s.Hidden + s.Outputs
}

// Connectors is the number of connectors BuildGraph creates for s.
func (s Sizes) Connectors() int {
	return s.Inputs*s.Hidden + s.Hidden*s.Outputs + s.Hidden + s.Outputs
}

// WeightInit returns the initial weight of the connector created index-th
// (counting from 0).
type WeightInit func(index int) float64

// SequentialWeights gives connector i the weight (i+1)*0.01.
func SequentialWeights(index int) float64 {
	return float64(index+1) * 0.01
}

// RandomWeights draws initial weights from a normal distribution with standard
// deviation 0.1.
func RandomWeights(r *rand.Rand) WeightInit {
	return func(int) float64 {
		return r.NormFloat64() * 0.1
	}
}

// BuildGraph creates a fully connected input -> hidden -> output graph with
// bias nodes.  Connectors are created in this order, which is also the order
// of CurrentWeights:
//
//   - input i -> hidden j, input-major
//   - hidden i -> output j, hidden-major
//   - bias i -> hidden i
//   - bias Hidden+j -> output j
//
// A nil weightInit uses SequentialWeights.
func BuildGraph(sizes Sizes, weightInit WeightInit) (*Graph, error) {
	if sizes.Inputs <= 0 || sizes.Hidden <= 0 || sizes.Outputs <= 0 {
		return nil, fmt.Errorf("invalid sizes %+v: %w", sizes, ErrInvalidTopology)
	}
	if weightInit == nil {
		weightInit = SequentialWeights
	}

	g := &Graph{}
	inputs := g.CreateNodes(sizes.Inputs, InputNode)
	hidden := g.CreateNodes(sizes.Hidden, HiddenNode)
	outputs := g.CreateNodes(sizes.Outputs, OutputNode)
	biases := g.CreateNodes(sizes.Biases(), BiasNode)

	type edge struct{ from, to NodeID }
	edges := make([]edge, 0, sizes.Connectors())
	for _, i := range inputs {
		for _, h := range hidden {
			edges = append(edges, edge{i, h})
		}
	}
	for _, h := range hidden {
		for _, o := range outputs {
			edges = append(edges, edge{h, o})
		}
	}
	for j, h := range hidden {
		edges = append(edges, edge{biases[j], h})
	}
	for j, o := range outputs {
		edges = append(edges, edge{biases[sizes.Hidden+j], o})
	}

	for index, e := range edges {
		if _, err := g.Connect(e.from, e.to, weightInit(index)); err != nil {
			return nil, fmt.Errorf("while wiring connector %d: %w", index, err)
		}
	}

	return g, nil
}

// TrainOneEpoch runs a forward pass, computes output and hidden gradients
// against targets, and updates the weights.  It returns the outputs of the
// forward pass.
func (g *Graph) TrainOneEpoch(targets []float64, learningRate, momentum float64) ([]float64, error) {
	// Check targets before the forward pass mutates node values.
	if len(targets) != len(g.Outputs) {
		return nil, fmt.Errorf("got %d targets for %d output nodes: %w", len(targets), len(g.Outputs), ErrDimensionMismatch)
	}

	outputs, err := g.Forward()
	if err != nil {
		return nil, fmt.Errorf("while running forward pass: %w", err)
	}

	outputGrads, err := g.OutputGradients(targets)
	if err != nil {
		return nil, fmt.Errorf("while computing output gradients: %w", err)
	}

	hiddenGrads, err := g.HiddenGradients(outputGrads)
	if err != nil {
		return nil, fmt.Errorf("while computing hidden gradients: %w", err)
	}

	if err := g.UpdateWeights(hiddenGrads, outputGrads, learningRate, momentum); err != nil {
		return nil, fmt.Errorf("while updating weights: %w", err)
	}

	return outputs, nil
}
