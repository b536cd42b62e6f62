package cluster

// Pool is an immutable, read-only index of clusters by id and by type
// (spec.md §4.3). Safe for concurrent reads; never mutated after NewPool.
type Pool struct {
	byID   map[string]*Cluster
	byType map[Type][]*Cluster
	all    []*Cluster
}

// NewPool builds a Pool from a cluster slice, typically the output of
// Build or FromDoc.
func NewPool(clusters []*Cluster) *Pool {
	p := &Pool{
		byID:   make(map[string]*Cluster, len(clusters)),
		byType: make(map[Type][]*Cluster),
		all:    clusters,
	}
	for _, c := range clusters {
		p.byID[c.ID] = c
		p.byType[c.Type] = append(p.byType[c.Type], c)
	}
	return p
}

// ByID returns the cluster with the given id, or nil if absent.
func (p *Pool) ByID(id string) *Cluster {
	return p.byID[id]
}

// ByType returns the clusters of the given type, in the pool's build
// order. Callers must not mutate the returned slice.
func (p *Pool) ByType(t Type) []*Cluster {
	return p.byType[t]
}

// All returns every cluster in the pool, in the pool's build order.
// Callers must not mutate the returned slice.
func (p *Pool) All() []*Cluster {
	return p.all
}

// Len returns the number of clusters in the pool.
func (p *Pool) Len() int {
	return len(p.all)
}
