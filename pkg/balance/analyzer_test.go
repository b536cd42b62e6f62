package balance_test

import (
	"testing"

	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
)

// linearDag builds start -> a -> end with the given node weights.
func linearDag(weightA int) *dag.Dag {
	d := dag.New(1)
	d.AddNode(&dag.Node{ID: "start", Type: cluster.Start, Weight: 0})
	d.AddNode(&dag.Node{ID: "a", Type: cluster.MiniDungeon, Weight: weightA})
	d.AddNode(&dag.Node{ID: "end", Type: cluster.FinalBoss, Weight: 0})
	d.AddEdge(dag.Edge{SourceID: "start", TargetID: "a"})
	d.AddEdge(dag.Edge{SourceID: "a", TargetID: "end"})
	d.StartID = "start"
	d.EndID = "end"
	return d
}

// twoPathDag builds start branching to a and b, both merging at end, with
// the given per-branch weights.
func twoPathDag(weightA, weightB int) *dag.Dag {
	d := dag.New(1)
	d.AddNode(&dag.Node{ID: "start", Weight: 0})
	d.AddNode(&dag.Node{ID: "a", Weight: weightA})
	d.AddNode(&dag.Node{ID: "b", Weight: weightB})
	d.AddNode(&dag.Node{ID: "end", Weight: 0})
	d.AddEdge(dag.Edge{SourceID: "start", TargetID: "a"})
	d.AddEdge(dag.Edge{SourceID: "start", TargetID: "b"})
	d.AddEdge(dag.Edge{SourceID: "a", TargetID: "end"})
	d.AddEdge(dag.Edge{SourceID: "b", TargetID: "end"})
	d.StartID = "start"
	d.EndID = "end"
	return d
}

func TestAnalyze_SinglePath(t *testing.T) {
	d := linearDag(10)
	r := balance.Analyze(d, balance.Budget{TotalWeight: 10, Tolerance: 0})

	if len(r.Paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(r.Paths))
	}
	if r.Paths[0].Weight != 10 {
		t.Fatalf("expected path weight 10, got %d", r.Paths[0].Weight)
	}
	if !r.IsBalanced {
		t.Fatalf("expected balanced report")
	}
	if r.Spread != 0 {
		t.Fatalf("expected spread 0, got %d", r.Spread)
	}
}

func TestAnalyze_BalancedTwoPaths(t *testing.T) {
	d := twoPathDag(28, 32)
	r := balance.Analyze(d, balance.Budget{TotalWeight: 30, Tolerance: 5})

	if len(r.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(r.Paths))
	}
	if !r.IsBalanced {
		t.Fatalf("expected balanced report")
	}
	if r.Spread != 4 {
		t.Fatalf("expected spread 4, got %d", r.Spread)
	}
	if len(r.UnderweightPaths) != 0 || len(r.OverweightPaths) != 0 {
		t.Fatalf("expected no out-of-budget paths")
	}
}

func TestAnalyze_DetectsOutOfBudget(t *testing.T) {
	d := twoPathDag(5, 50)
	r := balance.Analyze(d, balance.Budget{TotalWeight: 30, Tolerance: 5})

	if r.IsBalanced {
		t.Fatalf("expected unbalanced report")
	}
	if len(r.UnderweightPaths) != 1 || r.UnderweightPaths[0].Weight != 5 {
		t.Fatalf("expected one underweight path of weight 5, got %+v", r.UnderweightPaths)
	}
	if len(r.OverweightPaths) != 1 || r.OverweightPaths[0].Weight != 50 {
		t.Fatalf("expected one overweight path of weight 50, got %+v", r.OverweightPaths)
	}
}

func TestAnalyze_EmptyDag(t *testing.T) {
	d := dag.New(1)
	d.AddNode(&dag.Node{ID: "start", Weight: 0})
	d.StartID = "start"
	d.EndID = "nonexistent"

	r := balance.Analyze(d, balance.Budget{TotalWeight: 10, Tolerance: 2})
	if len(r.Paths) != 0 {
		t.Fatalf("expected no paths when end is unreachable, got %d", len(r.Paths))
	}
	if !r.IsBalanced {
		t.Fatalf("expected an empty report to be considered balanced")
	}
}

func TestBudget_MinMaxWeight(t *testing.T) {
	b := balance.Budget{TotalWeight: 30, Tolerance: 5}
	if b.MinWeight() != 25 {
		t.Fatalf("expected min weight 25, got %d", b.MinWeight())
	}
	if b.MaxWeight() != 35 {
		t.Fatalf("expected max weight 35, got %d", b.MaxWeight())
	}
}
