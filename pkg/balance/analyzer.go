package balance

import "github.com/rbignon/speedfog/pkg/dag"

// Analyze enumerates every start_id→end_id path in d by DFS, sums each
// path's member node weights, and reports statistics against budget
// (spec.md §4.6).
func Analyze(d *dag.Dag, budget Budget) *Report {
	var paths []Path
	enumeratePaths(d, d.StartID, []string{}, 0, &paths)

	report := &Report{Paths: paths}
	if len(paths) == 0 {
		report.IsBalanced = true
		return report
	}

	sum := 0
	report.Min = paths[0].Weight
	report.Max = paths[0].Weight
	for _, p := range paths {
		if p.Weight < report.Min {
			report.Min = p.Weight
		}
		if p.Weight > report.Max {
			report.Max = p.Weight
		}
		sum += p.Weight
	}
	report.Avg = float64(sum) / float64(len(paths))
	report.Spread = report.Max - report.Min

	minW, maxW := budget.MinWeight(), budget.MaxWeight()
	for _, p := range paths {
		switch {
		case p.Weight < minW:
			report.UnderweightPaths = append(report.UnderweightPaths, p)
		case p.Weight > maxW:
			report.OverweightPaths = append(report.OverweightPaths, p)
		}
	}
	report.IsBalanced = len(report.UnderweightPaths) == 0 && len(report.OverweightPaths) == 0

	return report
}

// enumeratePaths walks every outgoing edge from nodeID, accumulating the
// visited id list and running weight, and appends a completed Path each
// time end_id is reached.
func enumeratePaths(d *dag.Dag, nodeID string, visited []string, weight int, out *[]Path) {
	node := d.Nodes[nodeID]
	if node == nil {
		return
	}
	visited = append(visited, nodeID)
	weight += node.Weight

	if nodeID == d.EndID {
		ids := make([]string, len(visited))
		copy(ids, visited)
		*out = append(*out, Path{NodeIDs: ids, Weight: weight})
		return
	}

	for _, e := range d.OutEdges(nodeID) {
		enumeratePaths(d, e.TargetID, visited, weight, out)
	}
}
