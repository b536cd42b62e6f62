package validate

import (
	"fmt"

	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
)

func newResult(name, rule string, satisfied bool, details string) ConstraintResult {
	score := 0.0
	if satisfied {
		score = 1.0
	}
	return ConstraintResult{
		Constraint: Constraint{Name: name, Rule: rule},
		Satisfied:  satisfied,
		Score:      score,
		Details:    details,
	}
}

func newHardResult(name, rule string, satisfied bool, details string) ConstraintResult {
	return newResult(name, rule, satisfied, details)
}

func newSoftResult(name, rule string, satisfied bool, details string) ConstraintResult {
	return newResult(name, rule, satisfied, details)
}

// checkStructural verifies both-direction reachability and strict
// forward-layer monotonicity (spec.md §8 structural invariants).
func checkStructural(d *dag.Dag) ConstraintResult {
	forward := d.ReachableFrom(d.StartID)
	backward := d.ReachesTo(d.EndID)

	for id := range d.Nodes {
		if !forward[id] {
			return newHardResult("Structural", "reachable(start_id, n)", false,
				fmt.Sprintf("node %s is not reachable from start_id", id))
		}
		if !backward[id] {
			return newHardResult("Structural", "reaches(n, end_id)", false,
				fmt.Sprintf("node %s cannot reach end_id", id))
		}
	}

	for _, e := range d.Edges {
		src := d.Nodes[e.SourceID]
		tgt := d.Nodes[e.TargetID]
		if src == nil || tgt == nil {
			return newHardResult("Structural", "edge endpoints exist", false,
				fmt.Sprintf("edge %s->%s references a missing node", e.SourceID, e.TargetID))
		}
		if tgt.Layer <= src.Layer {
			return newHardResult("Structural", "layer(target) > layer(source)", false,
				fmt.Sprintf("edge %s->%s does not move forward in layer (%d -> %d)", e.SourceID, e.TargetID, src.Layer, tgt.Layer))
		}
	}

	return newHardResult("Structural", "reachability and layer monotonicity", true, "all nodes reachable both ways, all edges forward")
}

// checkRequirements verifies the DAG contains at least the configured
// minimum count of each required layer type (spec.md §4.7).
func checkRequirements(d *dag.Dag, req Requirements) ConstraintResult {
	counts := map[cluster.Type]int{}
	for _, n := range d.Nodes {
		counts[n.Type]++
	}

	var violations []string
	if counts[cluster.LegacyDungeon] < req.LegacyDungeons {
		violations = append(violations, fmt.Sprintf("legacy_dungeons: want >= %d, got %d", req.LegacyDungeons, counts[cluster.LegacyDungeon]))
	}
	if counts[cluster.MiniDungeon] < req.MiniDungeons {
		violations = append(violations, fmt.Sprintf("mini_dungeons: want >= %d, got %d", req.MiniDungeons, counts[cluster.MiniDungeon]))
	}
	if counts[cluster.BossArena] < req.Bosses {
		violations = append(violations, fmt.Sprintf("bosses: want >= %d, got %d", req.Bosses, counts[cluster.BossArena]))
	}

	if len(violations) > 0 {
		return newHardResult("Requirements", "counts(type) >= requirements", false, fmt.Sprintf("%v", violations))
	}
	return newHardResult("Requirements", "counts(type) >= requirements", true, "all requirement minima met")
}

// checkNonEmptyPaths verifies at least one start→end path exists. A DAG
// with zero paths is unusable regardless of everything else.
func checkNonEmptyPaths(report *balance.Report) ConstraintResult {
	if len(report.Paths) == 0 {
		return newHardResult("PathCount", "len(paths) >= 1", false, "no start->end path exists")
	}
	return newHardResult("PathCount", "len(paths) >= 1", true, fmt.Sprintf("%d path(s) found", len(report.Paths)))
}

// checkSinglePath warns when the DAG has exactly one path: valid, but
// offers no route variety (spec.md §8 boundary case).
func checkSinglePath(report *balance.Report) ConstraintResult {
	if len(report.Paths) == 1 {
		return newSoftResult("PathVariety", "len(paths) > 1", false, "only a single path exists")
	}
	return newSoftResult("PathVariety", "len(paths) > 1", true, fmt.Sprintf("%d paths found", len(report.Paths)))
}

// checkWeight warns about any path outside [min_weight, max_weight]
// (spec.md §4.7).
func checkWeight(report *balance.Report) ConstraintResult {
	total := len(report.Paths)
	bad := len(report.UnderweightPaths) + len(report.OverweightPaths)
	if bad == 0 {
		return newSoftResult("Weight", "weight(path) in [min_weight, max_weight]", true, "all paths within budget")
	}
	return newSoftResult("Weight", "weight(path) in [min_weight, max_weight]", false,
		fmt.Sprintf("%d of %d paths out of budget (%d underweight, %d overweight)", bad, total, len(report.UnderweightPaths), len(report.OverweightPaths)))
}

// checkLayerCount warns when the DAG's deepest layer falls short of
// min_layers (spec.md §4.7).
func checkLayerCount(d *dag.Dag, minLayers int) ConstraintResult {
	maxLayer := 0
	for _, n := range d.Nodes {
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}
	if maxLayer < minLayers {
		return newSoftResult("LayerCount", "max(layer) >= min_layers", false,
			fmt.Sprintf("deepest layer %d is below min_layers %d", maxLayer, minLayers))
	}
	return newSoftResult("LayerCount", "max(layer) >= min_layers", true, fmt.Sprintf("deepest layer %d meets min_layers %d", maxLayer, minLayers))
}
