package toolbox

import (
	"fmt"
	"time"
)

// targets is the desired output vector.
// outputs is the network's forward output.  Same length as targets.
func MeanSquaredError(targets, outputs []float64) (float64, error) {
	if len(targets) != len(outputs) {
		return 0, fmt.Errorf("got %d outputs for %d targets: %w", len(outputs), len(targets), ErrDimensionMismatch)
	}
	if len(targets) == 0 {
		return 0, fmt.Errorf("loss over zero-length vectors: %w", ErrEmptyVector)
	}

	var loss float64
	for i := range targets {
		diff := outputs[i] - targets[i]
		loss += diff * diff / 2 / float64(len(targets))
	}
	return loss, nil
}

type Trainer struct {
	LearningRate float64
	Momentum     float64

	// Number of epochs run so far.
	step int

	Timings EpochTimings
}

type EpochTimings struct {
	Overall      time.Duration
	Forward      time.Duration
	Gradients    time.Duration
	WeightUpdate time.Duration
}

func (t *EpochTimings) Reset() {
	t.Overall = 0 * time.Second
	t.Forward = 0 * time.Second
	t.Gradients = 0 * time.Second
	t.WeightUpdate = 0 * time.Second
}

func MakeTrainer(learningRate, momentum float64) *Trainer {
	return &Trainer{
		LearningRate: learningRate,
		Momentum:     momentum,
	}
}

// Epochs is the number of successful steps taken so far.
func (tr *Trainer) Epochs() int {
	return tr.step
}

// Step is TrainOneEpoch with the time spent in each phase added to
// tr.Timings.
func (tr *Trainer) Step(g *Graph, targets []float64) ([]float64, error) {
	start := time.Now()

	if len(targets) != len(g.Outputs) {
		return nil, fmt.Errorf("got %d targets for %d output nodes: %w", len(targets), len(g.Outputs), ErrDimensionMismatch)
	}

	forwardStart := time.Now()
	outputs, err := g.Forward()
	if err != nil {
		return nil, fmt.Errorf("while running forward pass: %w", err)
	}
	tr.Timings.Forward += time.Since(forwardStart)

	gradientsStart := time.Now()
	outputGrads, err := g.OutputGradients(targets)
	if err != nil {
		return nil, fmt.Errorf("while computing output gradients: %w", err)
	}
	hiddenGrads, err := g.HiddenGradients(outputGrads)
	if err != nil {
		return nil, fmt.Errorf("while computing hidden gradients: %w", err)
	}
	tr.Timings.Gradients += time.Since(gradientsStart)

	weightUpdateStart := time.Now()
	if err := g.UpdateWeights(hiddenGrads, outputGrads, tr.LearningRate, tr.Momentum); err != nil {
		return nil, fmt.Errorf("while updating weights: %w", err)
	}
	tr.Timings.WeightUpdate += time.Since(weightUpdateStart)

	tr.Timings.Overall += time.Since(start)

	tr.step++
	return outputs, nil
}

// Train runs epochs 0 through maxEpochs inclusive.  If report is non-nil it is
// called after every epoch with that epoch's outputs; a report error stops
// training.
func (tr *Trainer) Train(g *Graph, targets []float64, maxEpochs int, report func(epoch int, outputs []float64) error) ([]float64, error) {
	var outputs []float64
	for epoch := 0; epoch <= maxEpochs; epoch++ {
		var err error
		outputs, err = tr.Step(g, targets)
		if err != nil {
			return nil, fmt.Errorf("in epoch %d: %w", epoch, err)
		}

		if report != nil {
			if err := report(epoch, outputs); err != nil {
				return nil, fmt.Errorf("while reporting epoch %d: %w", epoch, err)
			}
		}
	}
	return outputs, nil
}
