package toolbox

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCreateNodesDefaults(t *testing.T) {
	g := &Graph{}

	inputs := g.CreateNodes(3, InputNode)
	hidden := g.CreateNodes(2, HiddenNode)
	biases := g.CreateNodes(2, BiasNode)
	outputs := g.CreateNodes(1, OutputNode)

	if diff := cmp.Diff(inputs, []NodeID{0, 1, 2}); diff != "" {
		t.Errorf("Wrong input IDs; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(hidden, []NodeID{3, 4}); diff != "" {
		t.Errorf("Wrong hidden IDs; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(biases, []NodeID{5, 6}); diff != "" {
		t.Errorf("Wrong bias IDs; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(outputs, []NodeID{7}); diff != "" {
		t.Errorf("Wrong output IDs; diff (-got +want)\n%s", diff)
	}

	wantValues := []float64{0, 0, 0, 0, 0, 1, 1, 0}
	gotValues := make([]float64, len(g.Nodes))
	for i := range g.Nodes {
		gotValues[i] = g.Nodes[i].Value
	}
	if diff := cmp.Diff(gotValues, wantValues); diff != "" {
		t.Errorf("Wrong default values; diff (-got +want)\n%s", diff)
	}

	if diff := cmp.Diff(g.Biases, biases); diff != "" {
		t.Errorf("Wrong bias list; diff (-got +want)\n%s", diff)
	}
}

func TestCreateNodesNegativeCountPanics(t *testing.T) {
	g := &Graph{}
	require.Panics(t, func() { g.CreateNodes(-1, HiddenNode) })
}

func TestConnectLinksBothEnds(t *testing.T) {
	g := &Graph{}
	in := g.CreateNodes(1, InputNode)[0]
	h := g.CreateNodes(1, HiddenNode)[0]

	id, err := g.Connect(in, h, 0.5)
	require.NoError(t, err)

	want := Connector{
		Weight:        0.5,
		PreviousDelta: InitialPreviousDelta,
		From:          in,
		To:            h,
	}
	if diff := cmp.Diff(g.Connectors[id], want); diff != "" {
		t.Errorf("Wrong connector; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(g.Nodes[in].Out, []ConnectorID{id}); diff != "" {
		t.Errorf("Wrong source edges; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(g.Nodes[h].In, []ConnectorID{id}); diff != "" {
		t.Errorf("Wrong destination edges; diff (-got +want)\n%s", diff)
	}
}

func TestConnectRejectsInvalidDirections(t *testing.T) {
	g := &Graph{}
	in := g.CreateNodes(1, InputNode)[0]
	h := g.CreateNodes(1, HiddenNode)[0]
	out := g.CreateNodes(1, OutputNode)[0]
	bias := g.CreateNodes(1, BiasNode)[0]

	testCases := []struct {
		name     string
		from, to NodeID
	}{
		{"output source", out, h},
		{"input destination", h, in},
		{"bias destination", in, bias},
		{"output to output", out, out},
		{"missing source", NodeID(100), h},
		{"missing destination", in, NodeID(-1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := cloneGraph(g)

			_, err := g.Connect(tc.from, tc.to, 1.0)
			require.ErrorIs(t, err, ErrInvalidTopology)

			if diff := cmp.Diff(g, before); diff != "" {
				t.Errorf("Graph mutated by failed Connect; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestBuildGraphConnectorCount(t *testing.T) {
	for _, sizes := range []Sizes{
		{Inputs: 3, Hidden: 4, Outputs: 2},
		{Inputs: 1, Hidden: 1, Outputs: 1},
		{Inputs: 5, Hidden: 2, Outputs: 7},
	} {
		g, err := BuildGraph(sizes, nil)
		require.NoError(t, err)

		want := sizes.Inputs*sizes.Hidden + sizes.Hidden*sizes.Outputs + sizes.Hidden + sizes.Outputs
		if len(g.Connectors) != want {
			t.Errorf("%+v: got %d connectors, want %d", sizes, len(g.Connectors), want)
		}
		if sizes.Connectors() != want {
			t.Errorf("%+v: Sizes.Connectors() = %d, want %d", sizes, sizes.Connectors(), want)
		}
		if len(g.Biases) != sizes.Hidden+sizes.Outputs {
			t.Errorf("%+v: got %d bias nodes, want %d", sizes, len(g.Biases), sizes.Hidden+sizes.Outputs)
		}
	}

	g, err := BuildGraph(Sizes{Inputs: 3, Hidden: 4, Outputs: 2}, nil)
	require.NoError(t, err)
	require.Len(t, g.Connectors, 26)
}

func TestBuildGraphWiringOrder(t *testing.T) {
	g, err := BuildGraph(Sizes{Inputs: 2, Hidden: 2, Outputs: 1}, nil)
	require.NoError(t, err)

	type edge struct{ From, To NodeID }
	got := []edge{}
	for _, c := range g.Connectors {
		got = append(got, edge{c.From, c.To})
	}

	// Node IDs: inputs 0-1, hidden 2-3, output 4, biases 5-7.
	want := []edge{
		{0, 2}, {0, 3},
		{1, 2}, {1, 3},
		{2, 4}, {3, 4},
		{5, 2}, {6, 3},
		{7, 4},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Wrong wiring; diff (-got +want)\n%s", diff)
	}

	wantWeights := []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09}
	if diff := cmp.Diff(g.CurrentWeights(), wantWeights); diff != "" {
		t.Errorf("Wrong initial weights; diff (-got +want)\n%s", diff)
	}

	for _, id := range g.Inputs {
		require.Empty(t, g.Nodes[id].In)
	}
	for _, id := range g.Biases {
		require.Empty(t, g.Nodes[id].In)
		require.Len(t, g.Nodes[id].Out, 1)
	}
	for _, id := range g.Outputs {
		require.Empty(t, g.Nodes[id].Out)
	}
	for _, id := range g.Hidden {
		require.NotEmpty(t, g.Nodes[id].In)
		require.NotEmpty(t, g.Nodes[id].Out)
	}
}

func TestBuildGraphRandomWeights(t *testing.T) {
	sizes := Sizes{Inputs: 3, Hidden: 4, Outputs: 2}

	g1, err := BuildGraph(sizes, RandomWeights(rand.New(rand.NewSource(12345))))
	require.NoError(t, err)
	g2, err := BuildGraph(sizes, RandomWeights(rand.New(rand.NewSource(12345))))
	require.NoError(t, err)

	if diff := cmp.Diff(g1.CurrentWeights(), g2.CurrentWeights()); diff != "" {
		t.Errorf("Same seed gave different weights; diff (-got +want)\n%s", diff)
	}
}

func TestBuildGraphRejectsEmptyLayers(t *testing.T) {
	for _, sizes := range []Sizes{
		{Inputs: 0, Hidden: 4, Outputs: 2},
		{Inputs: 3, Hidden: 0, Outputs: 2},
		{Inputs: 3, Hidden: 4, Outputs: 0},
	} {
		_, err := BuildGraph(sizes, nil)
		require.ErrorIs(t, err, ErrInvalidTopology, "sizes %+v", sizes)
	}
}

func TestSetInputs(t *testing.T) {
	g, err := BuildGraph(Sizes{Inputs: 3, Hidden: 4, Outputs: 2}, nil)
	require.NoError(t, err)

	require.NoError(t, g.SetInputs([]float64{1, 2, 3}))
	if diff := cmp.Diff(g.values(g.Inputs), []float64{1, 2, 3}); diff != "" {
		t.Errorf("Wrong inputs; diff (-got +want)\n%s", diff)
	}

	err = g.SetInputs([]float64{4, 5})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	if diff := cmp.Diff(g.values(g.Inputs), []float64{1, 2, 3}); diff != "" {
		t.Errorf("Failed SetInputs changed inputs; diff (-got +want)\n%s", diff)
	}
}

func TestCurrentWeightsIsACopy(t *testing.T) {
	g, err := BuildGraph(Sizes{Inputs: 1, Hidden: 1, Outputs: 1}, nil)
	require.NoError(t, err)

	w := g.CurrentWeights()
	w[0] = 100
	if g.Connectors[0].Weight == 100 {
		t.Errorf("CurrentWeights aliases connector storage")
	}
}

func cloneGraph(g *Graph) *Graph {
	c := &Graph{
		SumPolicy:          g.SumPolicy,
		HiddenGradientRule: g.HiddenGradientRule,
		Nodes:              make([]Node, len(g.Nodes)),
		Connectors:         append([]Connector(nil), g.Connectors...),
		Inputs:             append([]NodeID(nil), g.Inputs...),
		Hidden:             append([]NodeID(nil), g.Hidden...),
		Outputs:            append([]NodeID(nil), g.Outputs...),
		Biases:             append([]NodeID(nil), g.Biases...),
	}
	for i, n := range g.Nodes {
		c.Nodes[i] = Node{
			Kind:  n.Kind,
			Value: n.Value,
			In:    append([]ConnectorID(nil), n.In...),
			Out:   append([]ConnectorID(nil), n.Out...),
		}
	}
	return c
}
