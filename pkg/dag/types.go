package dag

import "github.com/rbignon/speedfog/pkg/cluster"

// Node is a single placed cluster instance in the graph (spec.md §3).
// EntryFogs is empty for the start node and has length 1 for passant and
// shared-entrance merge nodes (one fog receives every inbound edge); a
// distinct-entrance merge node records one entry fog per inbound branch.
type Node struct {
	ID         string
	ClusterID  string
	Zones      []string
	Type       cluster.Type
	Weight     int
	Layer      int
	Tier       int
	EntryFogs  []cluster.FogRef
	ExitFogs   []cluster.FogRef
	DefeatFlag *int
}

// Edge is a single fog-gate connection between two nodes (spec.md §3).
type Edge struct {
	SourceID       string
	TargetID       string
	SourceExitFog  string
	TargetEntryFog string
}

// Dag is the full graph produced by one generation attempt (spec.md §3).
// Nodes is keyed by id; NodeOrder preserves insertion order for
// deterministic iteration (the spoiler lists nodes in this order).
type Dag struct {
	Seed      uint64
	Nodes     map[string]*Node
	NodeOrder []string
	Edges     []Edge
	StartID   string
	EndID     string

	outEdges map[string][]Edge
	inEdges  map[string][]Edge
}

// New creates an empty Dag for the given attempt seed.
func New(seed uint64) *Dag {
	return &Dag{
		Seed:     seed,
		Nodes:    map[string]*Node{},
		outEdges: map[string][]Edge{},
		inEdges:  map[string][]Edge{},
	}
}

// AddNode inserts n, recording its arrival in NodeOrder.
func (d *Dag) AddNode(n *Node) {
	d.Nodes[n.ID] = n
	d.NodeOrder = append(d.NodeOrder, n.ID)
}

// AddEdge inserts e and indexes it by both endpoints.
func (d *Dag) AddEdge(e Edge) {
	d.Edges = append(d.Edges, e)
	d.outEdges[e.SourceID] = append(d.outEdges[e.SourceID], e)
	d.inEdges[e.TargetID] = append(d.inEdges[e.TargetID], e)
}

// OutEdges returns the edges leaving nodeID, in insertion order. Callers
// must not mutate the returned slice.
func (d *Dag) OutEdges(nodeID string) []Edge {
	return d.outEdges[nodeID]
}

// InEdges returns the edges arriving at nodeID, in insertion order.
// Callers must not mutate the returned slice.
func (d *Dag) InEdges(nodeID string) []Edge {
	return d.inEdges[nodeID]
}

// ReachableFrom returns the set of node ids reachable from id by
// following outgoing edges, including id itself.
func (d *Dag) ReachableFrom(id string) map[string]bool {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.outEdges[cur] {
			if seen[e.TargetID] {
				continue
			}
			seen[e.TargetID] = true
			queue = append(queue, e.TargetID)
		}
	}
	return seen
}

// ReachesTo returns the set of node ids that reach id by following
// incoming edges backward, including id itself.
func (d *Dag) ReachesTo(id string) map[string]bool {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.inEdges[cur] {
			if seen[e.SourceID] {
				continue
			}
			seen[e.SourceID] = true
			queue = append(queue, e.SourceID)
		}
	}
	return seen
}
