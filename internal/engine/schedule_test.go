package engine_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/JaimeStill/trendr/internal/engine"
)

func ids(nodes []engine.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func task(id string) engine.Node {
	return engine.Node{ID: id, Type: engine.NodeTypeTask, Task: "ingest_youtube"}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{
			name:  "ingest then generate",
			nodes: []string{"n1", "n2"},
			edges: [][2]string{{"n1", "n2"}},
			want:  []string{"n1", "n2"},
		},
		{
			name:  "edge against declaration order",
			nodes: []string{"n2", "n1"},
			edges: [][2]string{{"n1", "n2"}},
			want:  []string{"n1", "n2"},
		},
		{
			name:  "no edges keeps declaration order",
			nodes: []string{"c", "a", "b"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "diamond",
			nodes: []string{"root", "left", "right", "join"},
			edges: [][2]string{{"root", "right"}, {"root", "left"}, {"left", "join"}, {"right", "join"}},
			want:  []string{"root", "right", "left", "join"},
		},
		{
			name:  "independent chains interleave fifo",
			nodes: []string{"a1", "b1", "a2", "b2"},
			edges: [][2]string{{"a1", "a2"}, {"b1", "b2"}},
			want:  []string{"a1", "b1", "a2", "b2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var def engine.Definition
			for _, id := range tt.nodes {
				def.Nodes = append(def.Nodes, task(id))
			}
			for _, e := range tt.edges {
				def.Edges = append(def.Edges, engine.Edge{From: e[0], To: e[1]})
			}

			got, err := engine.Order(def)
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("Order() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestOrderCycle(t *testing.T) {
	def := engine.Definition{
		Nodes: []engine.Node{task("a"), task("b"), task("c"), task("d")},
		Edges: []engine.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "b"}, {From: "a", To: "d"}},
	}

	got, err := engine.Order(def)
	if !errors.Is(err, engine.ErrCycleDetected) {
		t.Fatalf("error = %v, want cycle", err)
	}
	if got != nil {
		t.Errorf("partial order returned: %v", ids(got))
	}
}

func TestOrderSelfLoop(t *testing.T) {
	def := engine.Definition{
		Nodes: []engine.Node{task("a")},
		Edges: []engine.Edge{{From: "a", To: "a"}},
	}
	if _, err := engine.Order(def); !errors.Is(err, engine.ErrCycleDetected) {
		t.Errorf("error = %v, want cycle", err)
	}
}

func TestOrderRejectsUnknownEdge(t *testing.T) {
	def := engine.Definition{
		Nodes: []engine.Node{task("a")},
		Edges: []engine.Edge{{From: "a", To: "b"}},
	}
	if _, err := engine.Order(def); !errors.Is(err, engine.ErrInvalidEdge) {
		t.Errorf("error = %v, want invalid edge", err)
	}
}

// Random DAGs: edges only run from a lower to a higher rank of a shuffled
// ranking, so the graph is acyclic while declaration order is arbitrary.
func TestOrderIsTopologicalPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 42))

	for trial := range 200 {
		n := 1 + rng.IntN(12)
		rank := rng.Perm(n)

		var def engine.Definition
		for i := range n {
			def.Nodes = append(def.Nodes, task(fmt.Sprintf("n%d", i)))
		}
		for i := range n {
			for j := range n {
				if rank[i] < rank[j] && rng.Float64() < 0.3 {
					def.Edges = append(def.Edges, engine.Edge{From: def.Nodes[i].ID, To: def.Nodes[j].ID})
				}
			}
		}

		got, err := engine.Order(def)
		if err != nil {
			t.Fatalf("trial %d: Order() error = %v", trial, err)
		}
		if len(got) != n {
			t.Fatalf("trial %d: len = %d, want %d", trial, len(got), n)
		}

		pos := make(map[string]int, n)
		for i, node := range got {
			if _, dup := pos[node.ID]; dup {
				t.Fatalf("trial %d: node %s emitted twice", trial, node.ID)
			}
			pos[node.ID] = i
		}
		for _, e := range def.Edges {
			if pos[e.From] >= pos[e.To] {
				t.Fatalf("trial %d: edge %s -> %s violated in %v", trial, e.From, e.To, ids(got))
			}
		}

		if err := engine.Validate(def, nil); err != nil {
			t.Fatalf("trial %d: Validate() error = %v", trial, err)
		}
	}
}
