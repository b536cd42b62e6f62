package emit

// GraphDoc is the on-disk graph document (spec.md §6). It carries no
// schema version field.
type GraphDoc struct {
	Seed          uint64           `json:"seed"`
	TotalLayers   int              `json:"total_layers"`
	TotalNodes    int              `json:"total_nodes"`
	TotalZones    int              `json:"total_zones"`
	TotalPaths    int              `json:"total_paths"`
	PathWeights   []int            `json:"path_weights"`
	Nodes         map[string]NodeJ `json:"nodes"`
	Edges         []EdgeJ          `json:"edges"`
	StartID       string           `json:"start_id"`
	EndID         string           `json:"end_id"`
	EventMap      map[string]int   `json:"event_map,omitempty"`
	FinalNodeFlag *int             `json:"final_node_flag,omitempty"`
	FinishEvent   string           `json:"finish_event"`
}

// NodeJ is the JSON wire shape of a dag.Node.
type NodeJ struct {
	ClusterID string    `json:"cluster_id"`
	Zones     []string  `json:"zones"`
	Type      string    `json:"type"`
	Weight    int       `json:"weight"`
	Layer     int       `json:"layer"`
	Tier      int       `json:"tier"`
	EntryFogs []FogRefJ `json:"entry_fogs"`
	ExitFogs  []FogRefJ `json:"exit_fogs"`
}

// EdgeJ is the JSON wire shape of a dag.Edge.
type EdgeJ struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	SourceExitFog  string `json:"source_exit_fog"`
	TargetEntryFog string `json:"target_entry_fog"`
}

// FogRefJ is the JSON wire shape of a cluster.FogRef as seen from a node.
type FogRefJ struct {
	FogID string `json:"fog_id"`
	Zone  string `json:"zone"`
}
