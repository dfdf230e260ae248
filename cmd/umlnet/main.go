// Command umlnet trains the 3-4-2 tanh/softmax graph network on a single
// example and prints its outputs as it learns.
//
// To train on the built-in example: `go run ./cmd/umlnet train`
//
// To train on an example stored in an npz file holding x.npy and y.npy:
// `go run ./cmd/umlnet train --data-file=example.npz`
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/ahmedtd/umlnet/toolbox"
	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&TrainCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

type TrainCommand struct {
	inputs  floatList
	targets floatList
	hidden  int

	dataFile string

	learningRate float64
	momentum     float64
	maxEpochs    int
	reportEvery  int

	accumulateSums    bool
	productRule       bool
	randomWeightsSeed int64

	cpuProfileFile string
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train the network on a single example"
}

func (*TrainCommand) Usage() string {
	return ``
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	c.inputs = floatList{1.0, 2.0, 3.0}
	c.targets = floatList{0.25, 0.75}

	f.Var(&c.inputs, "inputs", "Comma-separated input values; their count sets the input layer size")
	f.Var(&c.targets, "targets", "Comma-separated target values; their count sets the output layer size")
	f.IntVar(&c.hidden, "hidden", 4, "Number of hidden nodes")
	f.StringVar(&c.dataFile, "data-file", "", "Path to an npz file with x.npy and y.npy arrays; overrides --inputs and --targets")

	f.Float64Var(&c.learningRate, "learning-rate", 0.05, "Learning rate")
	f.Float64Var(&c.momentum, "momentum", 0.01, "Fraction of the previous weight delta added to each update")
	f.IntVar(&c.maxEpochs, "max-epochs", 600, "Last epoch to run (epochs are counted from 0)")
	f.IntVar(&c.reportEvery, "report-every", 100, "Print outputs every this many epochs (0 disables)")

	f.BoolVar(&c.accumulateSums, "accumulate-sums", false, "Carry each node's weighted sum over from the previous epoch")
	f.BoolVar(&c.productRule, "product-rule", false, "Combine output gradients and weights by product in the hidden gradient")
	f.Int64Var(&c.randomWeightsSeed, "random-weights-seed", 0, "Seed for normally distributed initial weights (0 uses the sequential 0.01, 0.02, ... weights)")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) executeErr(ctx context.Context) error {
	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	x, y := []float64(c.inputs), []float64(c.targets)
	if c.dataFile != "" {
		var err error
		x, y, err = loadExample(c.dataFile)
		if err != nil {
			return fmt.Errorf("while loading example: %w", err)
		}
	}

	sizes := toolbox.Sizes{
		Inputs:  len(x),
		Hidden:  c.hidden,
		Outputs: len(y),
	}

	var weightInit toolbox.WeightInit
	if c.randomWeightsSeed != 0 {
		weightInit = toolbox.RandomWeights(rand.New(rand.NewSource(c.randomWeightsSeed)))
	}

	g, err := toolbox.BuildGraph(sizes, weightInit)
	if err != nil {
		return fmt.Errorf("while building graph: %w", err)
	}
	if c.accumulateSums {
		g.SumPolicy = toolbox.AccumulateSums
	}
	if c.productRule {
		g.HiddenGradientRule = toolbox.ProductRule
	}

	if err := g.SetInputs(x); err != nil {
		return fmt.Errorf("while setting inputs: %w", err)
	}

	log.Printf("Creating a %d-%d-%d tanh-softmax neural network with %d connectors", sizes.Inputs, sizes.Hidden, sizes.Outputs, len(g.Connectors))
	log.Printf("Inputs are:%s", formatVector(x, 3, 1))
	log.Printf("Initial weights and biases:%s", formatVector(g.CurrentWeights(), 8, 2))

	tr := toolbox.MakeTrainer(c.learningRate, c.momentum)
	outputs, err := tr.Train(g, y, c.maxEpochs, func(epoch int, outputs []float64) error {
		if c.reportEvery <= 0 || epoch%c.reportEvery != 0 {
			return nil
		}

		loss, err := toolbox.MeanSquaredError(y, outputs)
		if err != nil {
			return fmt.Errorf("while computing loss: %w", err)
		}
		log.Printf("epoch %d mse=%g outputs:%s", epoch, loss, formatVector(outputs, 2, 4))
		return nil
	})
	if err != nil {
		return fmt.Errorf("while training: %w", err)
	}

	log.Printf("Final weights and biases:%s", formatVector(g.CurrentWeights(), 8, 2))
	log.Printf("Model outputs:%s", formatVector(outputs, 2, 4))
	log.Printf("timings epochs=%d overall=%v forward=%v gradients=%v weightupdate=%v",
		tr.Epochs(),
		tr.Timings.Overall,
		tr.Timings.Forward,
		tr.Timings.Gradients,
		tr.Timings.WeightUpdate,
	)

	return nil
}

// formatVector lays v out valsPerRow to a line, each value with the given
// number of decimals.
func formatVector(v []float64, valsPerRow, decimals int) string {
	var sb strings.Builder
	for i := range v {
		if i%valsPerRow == 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%*.*f ", decimals+4, decimals, v[i])
	}
	return sb.String()
}

// floatList is a flag.Value holding comma-separated floats.
type floatList []float64

func (l *floatList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(s string) error {
	parts := strings.Split(s, ",")
	out := make(floatList, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("while parsing %q: %w", p, err)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}
