package dag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/rng"
)

// Params are Generate's configuration inputs, distilled from the run
// configuration by the glue layer (spec.md §6 "structure").
type Params struct {
	Layers                  []cluster.Type // planned intermediate layer types, in order
	MaxParallelPaths        int
	FinalBossCandidateZones []string // empty means any final_boss/major_boss cluster is eligible
}

// branch is a pending connection awaiting its next node (spec.md §4.5
// "current_branches").
type branch struct {
	sourceID      string
	availableExit cluster.FogRef
}

// Generate builds one DAG attempt. It is deterministic: the same Params,
// Pool, seed, and rng draw sequence always yield a bitwise-identical Dag.
// ctx is checked between the start executor, every layer, and the end
// executor; a cancelled ctx aborts the attempt without consuming another
// rng draw.
func Generate(ctx context.Context, params Params, pool *cluster.Pool, seed uint64, r *rng.RNG) (*Dag, error) {
	d := New(seed)
	usedZones := map[string]bool{}
	totalLayers := len(params.Layers) + 2

	startNode, branches, err := startExecutor(pool, usedZones, params.MaxParallelPaths, r)
	if err != nil {
		return nil, err
	}
	d.AddNode(startNode)
	d.StartID = startNode.ID

	for i, layerType := range params.Layers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		layerNum := i + 1
		tier := computeTier(layerNum, totalLayers)

		branches, err = runLayer(d, branches, layerType, usedZones, pool, params.MaxParallelPaths, layerNum, tier, r)
		if err != nil {
			return nil, err
		}
		if len(branches) == 0 {
			return nil, &GenerationError{Reason: BranchesExhausted, Detail: fmt.Sprintf("layer %d", layerNum)}
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	endNode, edges, err := endExecutor(branches, usedZones, pool, params.FinalBossCandidateZones, totalLayers, r)
	if err != nil {
		return nil, err
	}
	d.AddNode(endNode)
	for _, e := range edges {
		d.AddEdge(e)
	}
	d.EndID = endNode.ID

	return d, nil
}

// computeTier maps an absolute layer number onto the 1-28 tier scale
// (spec.md §4.5 step 1).
func computeTier(layerNum, totalLayers int) int {
	if totalLayers <= 1 {
		return 1
	}
	t := 1 + int(math.Round(27*float64(layerNum)/float64(totalLayers-1)))
	if t < 1 {
		return 1
	}
	if t > 28 {
		return 28
	}
	return t
}

// runLayer decides and executes passant, split, or merge for one planned
// layer and returns the branches available to the next layer.
//
// Policy (not specified precisely by the source material; decided here):
// merge is attempted whenever the branch count exceeds MaxParallelPaths,
// to bring it back under the cap; split is attempted with even odds
// whenever exactly one branch is live and the cap allows growth;
// otherwise every branch advances independently (passant), which can
// itself grow the branch count when a cluster has more than one exit;
// a later layer's merge then brings it back under the cap.
func runLayer(d *Dag, branches []branch, layerType cluster.Type, usedZones map[string]bool, pool *cluster.Pool, maxParallel, layerNum, tier int, r *rng.RNG) ([]branch, error) {
	var next []branch

	switch {
	case maxParallel > 0 && len(branches) > maxParallel:
		node, edges, merged, err := mergeExecutor(branches, layerType, usedZones, pool, layerNum, tier, r)
		if err == nil {
			d.AddNode(node)
			for _, e := range edges {
				d.AddEdge(e)
			}
			next = append(next, merged...)
			break
		}
		// No merge-eligible cluster: fall through to passant. Branch
		// count stays over cap; a later layer gets another chance to merge.
		for _, b := range branches {
			nb, err := passantExecutor(d, b, layerType, usedZones, layerNum, tier, pool, r)
			if err != nil {
				return nil, err
			}
			next = append(next, nb...)
		}

	case len(branches) == 1 && (maxParallel == 0 || maxParallel > 1) && r.Bool():
		nb, err := splitExecutor(d, branches[0], layerType, usedZones, layerNum, tier, pool, r)
		if err != nil {
			return nil, err
		}
		next = append(next, nb...)

	default:
		for _, b := range branches {
			nb, err := passantExecutor(d, b, layerType, usedZones, layerNum, tier, pool, r)
			if err != nil {
				return nil, err
			}
			next = append(next, nb...)
		}
	}

	return next, nil
}

// sortedClustersByType returns pool's clusters of t in id order (the
// pool already stores them this way; this guards against future pool
// implementations that don't).
func sortedClustersByType(pool *cluster.Pool, t cluster.Type) []*cluster.Cluster {
	cs := pool.ByType(t)
	out := make([]*cluster.Cluster, len(cs))
	copy(out, cs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func shuffledClusters(pool *cluster.Pool, t cluster.Type, r *rng.RNG) []*cluster.Cluster {
	cs := sortedClustersByType(pool, t)
	r.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
	return cs
}

func shuffledEntries(c *cluster.Cluster, r *rng.RNG) []cluster.FogRef {
	entries := make([]cluster.FogRef, len(c.EntryFogs))
	copy(entries, c.EntryFogs)
	r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	return entries
}

func zonesDisjoint(zones []string, used map[string]bool) bool {
	for _, z := range zones {
		if used[z] {
			return false
		}
	}
	return true
}

func markZonesUsed(zones []string, used map[string]bool) {
	for _, z := range zones {
		used[z] = true
	}
}

func nodeFromCluster(c *cluster.Cluster, entries, exits []cluster.FogRef, layer, tier int) *Node {
	return &Node{
		ID:         c.ID,
		ClusterID:  c.ID,
		Zones:      c.Zones,
		Type:       c.Type,
		Weight:     c.Weight,
		Layer:      layer,
		Tier:       tier,
		EntryFogs:  entries,
		ExitFogs:   exits,
		DefeatFlag: c.DefeatFlag,
	}
}

func shuffledRemainingExits(c *cluster.Cluster, entryFogID string, r *rng.RNG) []cluster.FogRef {
	remaining := c.RemainingExits(entryFogID)
	r.Shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })
	return remaining
}

// startExecutor picks the start cluster and seeds the initial branch set
// (spec.md §4.5 "Start").
func startExecutor(pool *cluster.Pool, usedZones map[string]bool, maxParallel int, r *rng.RNG) (*Node, []branch, error) {
	for _, c := range shuffledClusters(pool, cluster.Start, r) {
		if !zonesDisjoint(c.Zones, usedZones) {
			continue
		}
		if len(c.ExitFogs) == 0 {
			continue
		}
		exits := make([]cluster.FogRef, len(c.ExitFogs))
		copy(exits, c.ExitFogs)
		r.Shuffle(len(exits), func(i, j int) { exits[i], exits[j] = exits[j], exits[i] })

		markZonesUsed(c.Zones, usedZones)
		node := nodeFromCluster(c, nil, exits, 0, 1)
		node.ID = "start"

		branches := make([]branch, 0, maxParallel)
		for _, ex := range exits {
			if maxParallel > 0 && len(branches) >= maxParallel {
				break
			}
			branches = append(branches, branch{sourceID: node.ID, availableExit: ex})
		}
		if len(branches) == 0 {
			// The cap admitted no branch: keep one on the first exit.
			branches = append(branches, branch{sourceID: node.ID, availableExit: exits[0]})
		}
		if len(branches) == 1 && (maxParallel == 0 || maxParallel > 1) {
			// Only one exit is available: duplicate it into a second
			// pending branch (spec.md §4.5 "if only one is available,
			// duplicate it").
			branches = append(branches, branch{sourceID: node.ID, availableExit: exits[0]})
		}

		return node, branches, nil
	}
	return nil, nil, &GenerationError{Reason: NoCandidate, Detail: "no usable start cluster"}
}

// passantExecutor advances a single branch through one cluster of
// layerType (spec.md §4.5 "Passant executor"). A multi-exit cluster can
// grow the branch count past MaxParallelPaths here; the cap is restored
// by a later layer's merge, not enforced within this executor.
func passantExecutor(d *Dag, b branch, layerType cluster.Type, usedZones map[string]bool, layer, tier int, pool *cluster.Pool, r *rng.RNG) ([]branch, error) {
	node, entry, err := pickNodeForBranch(pool, layerType, usedZones, layer, tier, 1, r)
	if err != nil {
		return nil, err
	}

	d.AddNode(node)
	d.AddEdge(Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entry.FogID})

	next := make([]branch, 0, len(node.ExitFogs))
	for _, ex := range node.ExitFogs {
		next = append(next, branch{sourceID: node.ID, availableExit: ex})
	}
	return next, nil
}

// splitExecutor is passantExecutor's counterpart for growing parallelism:
// the chosen cluster must leave at least two exits after its entry is
// consumed (spec.md §4.5 "Split executor").
func splitExecutor(d *Dag, b branch, layerType cluster.Type, usedZones map[string]bool, layer, tier int, pool *cluster.Pool, r *rng.RNG) ([]branch, error) {
	node, entry, err := pickNodeForBranch(pool, layerType, usedZones, layer, tier, 2, r)
	if err != nil {
		return nil, err
	}

	d.AddNode(node)
	d.AddEdge(Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entry.FogID})

	next := make([]branch, 0, len(node.ExitFogs))
	for _, ex := range node.ExitFogs {
		next = append(next, branch{sourceID: node.ID, availableExit: ex})
	}
	return next, nil
}

// pickNodeForBranch selects a cluster of layerType compatible with
// usedZones, an entry fog leaving at least minExits exits, and builds the
// resulting node.
func pickNodeForBranch(pool *cluster.Pool, layerType cluster.Type, usedZones map[string]bool, layer, tier, minExits int, r *rng.RNG) (*Node, cluster.FogRef, error) {
	for _, c := range shuffledClusters(pool, layerType, r) {
		if !zonesDisjoint(c.Zones, usedZones) {
			continue
		}
		for _, entry := range shuffledEntries(c, r) {
			remaining := shuffledRemainingExits(c, entry.FogID, r)
			if len(remaining) < minExits {
				continue
			}
			markZonesUsed(c.Zones, usedZones)
			node := nodeFromCluster(c, []cluster.FogRef{entry}, remaining, layer, tier)
			return node, entry, nil
		}
	}
	if len(pool.ByType(layerType)) == 0 {
		return nil, cluster.FogRef{}, &GenerationError{Reason: NoCandidate, Detail: fmt.Sprintf("no cluster of type %s in pool", layerType)}
	}
	return nil, cluster.FogRef{}, &GenerationError{Reason: NoValidEntry, Detail: fmt.Sprintf("no valid entry for type %s", layerType)}
}

// canBeMergeNode implements the merge-eligibility predicate (spec.md
// §4.5). entries is the specific distinct-entrance selection that would
// be used if c is not a shared-entrance cluster; it is only consulted in
// that case.
func canBeMergeNode(c *cluster.Cluster, numIn int, entries []cluster.FogRef) bool {
	if c.AllowSharedEntrance {
		return len(c.EntryFogs) >= 2 && len(c.ExitFogs) >= 1
	}
	if len(c.EntryFogs) < numIn {
		return false
	}
	return netExitsAfterEntries(c, entries) == 1
}

func netExitsAfterEntries(c *cluster.Cluster, entries []cluster.FogRef) int {
	used := map[string]bool{}
	for _, e := range entries {
		used[e.FogID] = true
	}
	n := 0
	for _, ex := range c.ExitFogs {
		if !used[ex.FogID] {
			n++
		}
	}
	return n
}

// mergeExecutor converges branches onto a single node via shared-entrance
// or distinct-entrance semantics (spec.md §4.5 "Merge executor").
func mergeExecutor(branches []branch, layerType cluster.Type, usedZones map[string]bool, pool *cluster.Pool, layer, tier int, r *rng.RNG) (*Node, []Edge, []branch, error) {
	numIn := len(branches)

	for _, c := range shuffledClusters(pool, layerType, r) {
		if !zonesDisjoint(c.Zones, usedZones) {
			continue
		}

		if c.AllowSharedEntrance && len(c.EntryFogs) >= 2 && len(c.ExitFogs) >= 1 {
			entries := shuffledEntries(c, r)
			entry := entries[0]
			markZonesUsed(c.Zones, usedZones)

			exits := shuffledRemainingExits(c, entry.FogID, r)
			node := nodeFromCluster(c, []cluster.FogRef{entry}, exits, layer, tier)

			edges := make([]Edge, 0, len(branches))
			for _, b := range branches {
				edges = append(edges, Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entry.FogID})
			}
			next := make([]branch, 0, len(exits))
			for _, ex := range exits {
				next = append(next, branch{sourceID: node.ID, availableExit: ex})
			}
			return node, edges, next, nil
		}

		if len(c.EntryFogs) >= numIn {
			entries := shuffledEntries(c, r)[:numIn]
			if !canBeMergeNode(c, numIn, entries) {
				continue
			}
			markZonesUsed(c.Zones, usedZones)

			exits := remainingAfterEntries(c, entries)
			node := nodeFromCluster(c, entries, exits, layer, tier)

			edges := make([]Edge, 0, len(branches))
			for i, b := range branches {
				edges = append(edges, Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entries[i].FogID})
			}
			next := make([]branch, 0, len(exits))
			for _, ex := range exits {
				next = append(next, branch{sourceID: node.ID, availableExit: ex})
			}
			return node, edges, next, nil
		}
	}

	return nil, nil, nil, &GenerationError{Reason: MergePoolEmpty, Detail: fmt.Sprintf("no merge-eligible cluster of type %s for %d inbound branches", layerType, numIn)}
}

func remainingAfterEntries(c *cluster.Cluster, entries []cluster.FogRef) []cluster.FogRef {
	used := map[string]bool{}
	for _, e := range entries {
		used[e.FogID] = true
	}
	out := make([]cluster.FogRef, 0, len(c.ExitFogs))
	for _, ex := range c.ExitFogs {
		if !used[ex.FogID] {
			out = append(out, ex)
		}
	}
	return out
}

// endExecutor converges all remaining branches onto the final node
// (spec.md §4.5 "End").
func endExecutor(branches []branch, usedZones map[string]bool, pool *cluster.Pool, candidateZones []string, totalLayers int, r *rng.RNG) (*Node, []Edge, error) {
	numIn := len(branches)
	layer := totalLayers - 1
	tier := 28

	candidates := endCandidates(pool, candidateZones, r)
	for _, c := range candidates {
		if !zonesDisjoint(c.Zones, usedZones) {
			continue
		}

		if c.AllowSharedEntrance && len(c.EntryFogs) >= 1 {
			entries := shuffledEntries(c, r)
			entry := entries[0]
			markZonesUsed(c.Zones, usedZones)
			node := nodeFromCluster(c, []cluster.FogRef{entry}, nil, layer, tier)
			node.ID = "end"

			edges := make([]Edge, 0, len(branches))
			for _, b := range branches {
				edges = append(edges, Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entry.FogID})
			}
			return node, edges, nil
		}

		if len(c.EntryFogs) >= numIn {
			entries := shuffledEntries(c, r)[:numIn]
			markZonesUsed(c.Zones, usedZones)
			node := nodeFromCluster(c, entries, nil, layer, tier)
			node.ID = "end"

			edges := make([]Edge, 0, len(branches))
			for i, b := range branches {
				edges = append(edges, Edge{SourceID: b.sourceID, TargetID: node.ID, SourceExitFog: b.availableExit.FogID, TargetEntryFog: entries[i].FogID})
			}
			return node, edges, nil
		}
	}

	return nil, nil, &GenerationError{Reason: EndClusterUnavailable, Detail: fmt.Sprintf("no end cluster admits %d inbound branches", numIn)}
}

// endCandidates gathers final_boss and major_boss clusters, filtered by
// candidateZones when non-empty (spec.md §6 "final_boss_candidates").
func endCandidates(pool *cluster.Pool, candidateZones []string, r *rng.RNG) []*cluster.Cluster {
	var all []*cluster.Cluster
	all = append(all, sortedClustersByType(pool, cluster.FinalBoss)...)
	all = append(all, sortedClustersByType(pool, cluster.MajorBoss)...)

	if len(candidateZones) > 0 {
		allowed := map[string]bool{}
		for _, z := range candidateZones {
			allowed[z] = true
		}
		filtered := all[:0:0]
		for _, c := range all {
			for _, z := range c.Zones {
				if allowed[z] {
					filtered = append(filtered, c)
					break
				}
			}
		}
		all = filtered
	}

	r.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all
}
