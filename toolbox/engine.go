package toolbox

import (
	"fmt"
)

// Forward computes the hidden and output activations from the current input
// and bias values, and returns the output probabilities in output node order.
//
// Hidden nodes are finished before any output node is summed, since the output
// sums read hidden values.
func (g *Graph) Forward() ([]float64, error) {
	if len(g.Outputs) == 0 {
		return nil, fmt.Errorf("graph has no output nodes: %w", ErrEmptyVector)
	}
	for _, id := range g.Hidden {
		if len(g.Nodes[id].In) == 0 {
			return nil, fmt.Errorf("hidden node %d has no input edges: %w", id, ErrEmptyVector)
		}
	}
	for _, id := range g.Outputs {
		if len(g.Nodes[id].In) == 0 {
			return nil, fmt.Errorf("output node %d has no input edges: %w", id, ErrEmptyVector)
		}
	}

	for _, id := range g.Hidden {
		g.Nodes[id].Value = ClampedTanh(g.weightedSum(id))
	}

	// Raw sums are kept aside; output node values only receive the final
	// probabilities.
	sums := make([]float64, len(g.Outputs))
	for i, id := range g.Outputs {
		sums[i] = g.weightedSum(id)
	}

	result, err := Softmax(sums)
	if err != nil {
		return nil, fmt.Errorf("while applying output activation: %w", err)
	}

	for i, id := range g.Outputs {
		g.Nodes[id].Value = result[i]
	}

	return result, nil
}

func (g *Graph) weightedSum(id NodeID) float64 {
	node := &g.Nodes[id]

	var sum float64
	if g.SumPolicy == AccumulateSums {
		sum = node.Value
	}
	for _, c := range node.In {
		conn := &g.Connectors[c]
		sum += conn.Weight * g.Nodes[conn.From].Value
	}
	return sum
}

// OutputGradients computes value*(1-value)*(target-value) for every output
// node.  The graph is not modified.
func (g *Graph) OutputGradients(targets []float64) ([]float64, error) {
	if len(targets) != len(g.Outputs) {
		return nil, fmt.Errorf("got %d targets for %d output nodes: %w", len(targets), len(g.Outputs), ErrDimensionMismatch)
	}

	grads := make([]float64, len(g.Outputs))
	for i, id := range g.Outputs {
		v := g.Nodes[id].Value
		grads[i] = v * (1.0 - v) * (targets[i] - v)
	}
	return grads, nil
}

// HiddenGradients computes the gradient of every hidden node from the output
// gradients.  The k-th output edge of a hidden node is paired with
// outputGrads[k], and the pairs are combined according to
// g.HiddenGradientRule.  The graph is not modified.
func (g *Graph) HiddenGradients(outputGrads []float64) ([]float64, error) {
	for _, id := range g.Hidden {
		if n := len(g.Nodes[id].Out); n != len(outputGrads) {
			return nil, fmt.Errorf("hidden node %d has %d output edges but got %d output gradients: %w", id, n, len(outputGrads), ErrDimensionMismatch)
		}
	}

	grads := make([]float64, len(g.Hidden))
	for h, id := range g.Hidden {
		node := &g.Nodes[id]

		var sum float64
		for k, c := range node.Out {
			w := g.Connectors[c].Weight
			switch g.HiddenGradientRule {
			case AdditiveRule:
				sum += outputGrads[k] + w
			case ProductRule:
				sum += outputGrads[k] * w
			default:
				panic("unhandled hidden gradient rule")
			}
		}

		grads[h] = tanhGradient(node.Value) * sum
	}
	return grads, nil
}

// UpdateWeights applies one momentum step to every connector incident to a
// hidden node.  Input-side connectors move along the hidden node's gradient,
// output-side connectors along the gradient of the output slot they occupy.
//
// Connectors that touch no hidden node are left alone.  Nothing is modified
// if the gradient vectors do not fit the graph.
func (g *Graph) UpdateWeights(hiddenGrads, outputGrads []float64, learningRate, momentum float64) error {
	if len(hiddenGrads) != len(g.Hidden) {
		return fmt.Errorf("got %d hidden gradients for %d hidden nodes: %w", len(hiddenGrads), len(g.Hidden), ErrDimensionMismatch)
	}
	for _, id := range g.Hidden {
		if n := len(g.Nodes[id].Out); n != len(outputGrads) {
			return fmt.Errorf("hidden node %d has %d output edges but got %d output gradients: %w", id, n, len(outputGrads), ErrDimensionMismatch)
		}
	}

	for h, id := range g.Hidden {
		node := &g.Nodes[id]

		// 1) input-side connectors
		for _, c := range node.In {
			conn := &g.Connectors[c]
			conn.step(learningRate*hiddenGrads[h]*g.Nodes[conn.From].Value, momentum)
		}

		// 2) output-side connectors
		for k, c := range node.Out {
			conn := &g.Connectors[c]
			conn.step(learningRate*outputGrads[k]*g.Nodes[conn.To].Value, momentum)
		}
	}

	return nil
}

func (c *Connector) step(delta, momentum float64) {
	c.Weight += delta
	c.Weight += momentum * c.PreviousDelta
	c.PreviousDelta = delta
}
