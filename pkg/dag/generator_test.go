package dag_test

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
	"github.com/rbignon/speedfog/pkg/rng"
)

func newRNG(label string) *rng.RNG {
	h := sha256.Sum256([]byte(label))
	return rng.NewRNG(1, "dag_generate", h[:])
}

// fixturePool builds a small, hand-traced pool with exactly one cluster
// per type, so candidate selection never depends on shuffle order:
//   - a start cluster with a single exit
//   - a mini_dungeon cluster with two exits, so a single incoming branch
//     fans out to two, enough to exceed a MaxParallelPaths of 1
//   - a legacy_dungeon cluster with two matching entry fogs, so the next
//     layer must merge the two branches back down
//   - a final_boss cluster consuming the merged cluster's single exit
func fixturePool() *cluster.Pool {
	start := &cluster.Cluster{
		ID:       "start_c",
		Zones:    []string{"start_zone"},
		Type:     cluster.Start,
		ExitFogs: []cluster.FogRef{{FogID: "f_start_1", Zone: "start_zone"}},
	}
	mini1 := &cluster.Cluster{
		ID:        "mini_1",
		Zones:     []string{"mini_zone_1"},
		Type:      cluster.MiniDungeon,
		Weight:    10,
		EntryFogs: []cluster.FogRef{{FogID: "f_start_1", Zone: "mini_zone_1"}},
		ExitFogs: []cluster.FogRef{
			{FogID: "f_mini1_out_a", Zone: "mini_zone_1"},
			{FogID: "f_mini1_out_b", Zone: "mini_zone_1"},
		},
	}
	legacy := &cluster.Cluster{
		ID:    "legacy_1",
		Zones: []string{"legacy_zone"},
		Type:  cluster.LegacyDungeon,
		EntryFogs: []cluster.FogRef{
			{FogID: "f_mini1_out_a", Zone: "legacy_zone"},
			{FogID: "f_mini1_out_b", Zone: "legacy_zone"},
		},
		ExitFogs: []cluster.FogRef{{FogID: "f_legacy_out", Zone: "legacy_zone"}},
	}
	boss := &cluster.Cluster{
		ID:        "final_1",
		Zones:     []string{"final_zone"},
		Type:      cluster.FinalBoss,
		EntryFogs: []cluster.FogRef{{FogID: "f_legacy_out", Zone: "final_zone"}},
	}

	return cluster.NewPool([]*cluster.Cluster{start, mini1, legacy, boss})
}

func TestGenerate_PassantThenMerge(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.MiniDungeon, cluster.LegacyDungeon},
		MaxParallelPaths: 1,
	}

	d, err := dag.Generate(context.Background(), params, pool, 1, newRNG("t1"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if d.StartID != "start" || d.EndID != "end" {
		t.Fatalf("unexpected start/end ids: %s / %s", d.StartID, d.EndID)
	}
	if len(d.Nodes) != 4 {
		t.Fatalf("expected 4 nodes (start, mini, legacy merge, end), got %d", len(d.Nodes))
	}

	legacyNode, ok := d.Nodes["legacy_1"]
	if !ok {
		t.Fatalf("expected legacy_1 node in dag")
	}
	if len(d.InEdges("legacy_1")) != 2 {
		t.Fatalf("expected legacy_1 to have 2 inbound edges (merge), got %d", len(d.InEdges("legacy_1")))
	}
	if len(legacyNode.EntryFogs) != 2 {
		t.Fatalf("expected legacy node to record 2 consumed entry fogs, got %d", len(legacyNode.EntryFogs))
	}

	reach := d.ReachableFrom(d.StartID)
	if !reach["end"] {
		t.Fatalf("end not reachable from start")
	}
	for id := range d.Nodes {
		if !reach[id] {
			t.Fatalf("node %s not reachable from start", id)
		}
	}

	reverse := d.ReachesTo(d.EndID)
	for id := range d.Nodes {
		if !reverse[id] {
			t.Fatalf("node %s does not reach end", id)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.MiniDungeon, cluster.LegacyDungeon},
		MaxParallelPaths: 1,
	}

	d1, err := dag.Generate(context.Background(), params, pool, 7, newRNG("same"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	d2, err := dag.Generate(context.Background(), params, fixturePool(), 7, newRNG("same"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(d1.Edges) != len(d2.Edges) {
		t.Fatalf("edge count differs: %d vs %d", len(d1.Edges), len(d2.Edges))
	}
	for i, e := range d1.Edges {
		if e != d2.Edges[i] {
			t.Fatalf("edge %d differs: %+v vs %+v", i, e, d2.Edges[i])
		}
	}
	for id, n := range d1.Nodes {
		n2, ok := d2.Nodes[id]
		if !ok {
			t.Fatalf("node %s missing from second run", id)
		}
		if n.Layer != n2.Layer || n.Tier != n2.Tier {
			t.Fatalf("node %s layer/tier differ", id)
		}
	}
}

func TestGenerate_NoZoneReuse(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.MiniDungeon, cluster.LegacyDungeon},
		MaxParallelPaths: 1,
	}

	d, err := dag.Generate(context.Background(), params, pool, 1, newRNG("zones"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	seen := map[string]string{}
	for _, n := range d.Nodes {
		for _, z := range n.Zones {
			if owner, ok := seen[z]; ok {
				t.Fatalf("zone %s claimed by both %s and %s", z, owner, n.ID)
			}
			seen[z] = n.ID
		}
	}
}

func TestGenerate_NoCandidateForLayer(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.BossArena},
		MaxParallelPaths: 1,
	}

	_, err := dag.Generate(context.Background(), params, pool, 1, newRNG("missing"))
	if err == nil {
		t.Fatalf("expected an error when no boss_arena cluster exists")
	}
	genErr, ok := err.(*dag.GenerationError)
	if !ok {
		t.Fatalf("expected *dag.GenerationError, got %T", err)
	}
	if genErr.Reason != dag.NoCandidate {
		t.Fatalf("expected NoCandidate, got %s", genErr.Reason)
	}
}

func TestGenerate_ContextCancellation(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.MiniDungeon, cluster.LegacyDungeon},
		MaxParallelPaths: 1,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dag.Generate(ctx, params, pool, 1, newRNG("cancelled"))
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_TierBounds(t *testing.T) {
	pool := fixturePool()
	params := dag.Params{
		Layers:           []cluster.Type{cluster.MiniDungeon, cluster.LegacyDungeon},
		MaxParallelPaths: 1,
	}

	d, err := dag.Generate(context.Background(), params, pool, 1, newRNG("tiers"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if d.Nodes["start"].Tier != 1 {
		t.Fatalf("expected start tier 1, got %d", d.Nodes["start"].Tier)
	}
	if d.Nodes["end"].Tier != 28 {
		t.Fatalf("expected end tier 28, got %d", d.Nodes["end"].Tier)
	}
	for id, n := range d.Nodes {
		if n.Tier < 1 || n.Tier > 28 {
			t.Fatalf("node %s tier %d out of [1,28]", id, n.Tier)
		}
	}
}
