package toolbox

import (
	"fmt"
)

type NodeKind int

const (
	InputNode NodeKind = iota
	HiddenNode
	OutputNode
	BiasNode
)

func (k NodeKind) String() string {
	switch k {
	case InputNode:
		return "input"
	case HiddenNode:
		return "hidden"
	case OutputNode:
		return "output"
	case BiasNode:
		return "bias"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// DefaultValue is the activation a node of this kind starts with.
func (k NodeKind) DefaultValue() float64 {
	if k == BiasNode {
		return 1.0
	}
	return 0.0
}

func (k NodeKind) hasInputs() bool {
	return k == HiddenNode || k == OutputNode
}

func (k NodeKind) hasOutputs() bool {
	return k != OutputNode
}

// NodeID indexes Graph.Nodes.
type NodeID int

// ConnectorID indexes Graph.Connectors.
type ConnectorID int

type Node struct {
	Kind  NodeKind
	Value float64

	In  []ConnectorID // Always empty for input and bias nodes
	Out []ConnectorID // Always empty for output nodes
}

// InitialPreviousDelta is the momentum state a new connector starts with.
const InitialPreviousDelta = 0.011

// Connector is a directed, trainable edge.  From and To are fixed once the
// connector is created; only Weight and PreviousDelta change during training.
type Connector struct {
	Weight        float64
	PreviousDelta float64

	From NodeID
	To   NodeID
}

type SumPolicy int

const (
	// ResetSums starts every weighted sum from zero on each forward pass.
	ResetSums SumPolicy = iota
	// AccumulateSums starts every weighted sum from the node's current value,
	// so sums carry over from one forward pass to the next.
	AccumulateSums
)

type HiddenGradientRule int

const (
	// AdditiveRule sums outputGradient + weight over a hidden node's output
	// edges.
	AdditiveRule HiddenGradientRule = iota
	// ProductRule sums outputGradient * weight, as in textbook backprop.
	ProductRule
)

// Graph owns every node and connector of a network.  Nodes and connectors
// refer to each other by index into the Nodes and Connectors slices.
type Graph struct {
	SumPolicy          SumPolicy
	HiddenGradientRule HiddenGradientRule

	Nodes      []Node
	Connectors []Connector

	// Per-kind node lists, in creation order.
	Inputs  []NodeID
	Hidden  []NodeID
	Outputs []NodeID
	Biases  []NodeID
}

// CreateNodes appends count nodes of the given kind, each holding the kind's
// default value, and returns their IDs in order.
func (g *Graph) CreateNodes(count int, kind NodeKind) []NodeID {
	if count < 0 {
		panic(fmt.Sprintf("invalid node count: %d", count))
	}

	ids := make([]NodeID, 0, count)
	for i := 0; i < count; i++ {
		id := NodeID(len(g.Nodes))
		g.Nodes = append(g.Nodes, Node{
			Kind:  kind,
			Value: kind.DefaultValue(),
		})
		ids = append(ids, id)
	}

	switch kind {
	case InputNode:
		g.Inputs = append(g.Inputs, ids...)
	case HiddenNode:
		g.Hidden = append(g.Hidden, ids...)
	case OutputNode:
		g.Outputs = append(g.Outputs, ids...)
	case BiasNode:
		g.Biases = append(g.Biases, ids...)
	default:
		panic("unhandled node kind")
	}

	return ids
}

// Connect creates a connector from -> to carrying initialWeight.  The graph is
// left untouched if the edge is not allowed.
func (g *Graph) Connect(from, to NodeID, initialWeight float64) (ConnectorID, error) {
	if !g.validNode(from) {
		return 0, fmt.Errorf("source node %d does not exist: %w", from, ErrInvalidTopology)
	}
	if !g.validNode(to) {
		return 0, fmt.Errorf("destination node %d does not exist: %w", to, ErrInvalidTopology)
	}
	if fromKind := g.Nodes[from].Kind; !fromKind.hasOutputs() {
		return 0, fmt.Errorf("%s node %d cannot have output edges: %w", fromKind, from, ErrInvalidTopology)
	}
	if toKind := g.Nodes[to].Kind; !toKind.hasInputs() {
		return 0, fmt.Errorf("%s node %d cannot have input edges: %w", toKind, to, ErrInvalidTopology)
	}

	id := ConnectorID(len(g.Connectors))
	g.Connectors = append(g.Connectors, Connector{
		Weight:        initialWeight,
		PreviousDelta: InitialPreviousDelta,
		From:          from,
		To:            to,
	})
	g.Nodes[from].Out = append(g.Nodes[from].Out, id)
	g.Nodes[to].In = append(g.Nodes[to].In, id)

	return id, nil
}

func (g *Graph) validNode(id NodeID) bool {
	return id >= 0 && int(id) < len(g.Nodes)
}

// SetInputs assigns values to the input nodes, in order.
func (g *Graph) SetInputs(values []float64) error {
	if len(values) != len(g.Inputs) {
		return fmt.Errorf("got %d input values for %d input nodes: %w", len(values), len(g.Inputs), ErrDimensionMismatch)
	}
	for i, id := range g.Inputs {
		g.Nodes[id].Value = values[i]
	}
	return nil
}

// CurrentWeights returns a copy of every connector weight in creation order.
func (g *Graph) CurrentWeights() []float64 {
	weights := make([]float64, len(g.Connectors))
	for i := range g.Connectors {
		weights[i] = g.Connectors[i].Weight
	}
	return weights
}

// CurrentOutputs returns a copy of the output node values.
func (g *Graph) CurrentOutputs() []float64 {
	return g.values(g.Outputs)
}

func (g *Graph) values(ids []NodeID) []float64 {
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = g.Nodes[id].Value
	}
	return out
}
