package cluster

// Type classifies a cluster's role in the pipeline (spec.md §3).
type Type int

const (
	Start Type = iota
	FinalBoss
	MajorBoss
	LegacyDungeon
	BossArena
	MiniDungeon
)

func (t Type) String() string {
	switch t {
	case Start:
		return "start"
	case FinalBoss:
		return "final_boss"
	case MajorBoss:
		return "major_boss"
	case LegacyDungeon:
		return "legacy_dungeon"
	case BossArena:
		return "boss_arena"
	case MiniDungeon:
		return "mini_dungeon"
	default:
		return "unknown"
	}
}

// ParseType converts a type string (as found in a metadata or config
// document) back into a Type. Returns false if s is not recognized.
func ParseType(s string) (Type, bool) {
	switch s {
	case "start":
		return Start, true
	case "final_boss":
		return FinalBoss, true
	case "major_boss":
		return MajorBoss, true
	case "legacy_dungeon":
		return LegacyDungeon, true
	case "boss_arena":
		return BossArena, true
	case "mini_dungeon":
		return MiniDungeon, true
	default:
		return 0, false
	}
}

// FogRef identifies a specific fog gate as seen from one of its sides.
type FogRef struct {
	FogID  string
	Zone   string
	Unique bool // only meaningful on exit_fogs; true for A-side unique fogs
}

// Cluster is a derived zone-exclusivity unit (spec.md §3).
type Cluster struct {
	ID                  string
	Zones               []string // sorted lexicographically; Zones[0] is the principal zone
	Type                Type
	Weight              int
	EntryFogs           []FogRef
	ExitFogs            []FogRef
	DefeatFlag          *int
	AllowSharedEntrance bool
	AllowEntryAsExit    bool
}

// HasZone reports whether z is a member of the cluster.
func (c *Cluster) HasZone(z string) bool {
	for _, zone := range c.Zones {
		if zone == z {
			return true
		}
	}
	return false
}

// IsUsable reports whether at least one entry-fog choice leaves at least
// one exit fog remaining, per the usable-exit rule (spec.md §4.2 Step E,
// §4.5).
func (c *Cluster) IsUsable() bool {
	if len(c.EntryFogs) == 0 || len(c.ExitFogs) == 0 {
		return false
	}
	for _, entry := range c.EntryFogs {
		if len(c.remainingExits(entry.FogID)) > 0 {
			return true
		}
	}
	return false
}

// RemainingExits returns the exit fogs left after consuming entryFogID as
// the chosen entry.
func (c *Cluster) RemainingExits(entryFogID string) []FogRef {
	return c.remainingExits(entryFogID)
}

func (c *Cluster) remainingExits(entryFogID string) []FogRef {
	out := make([]FogRef, 0, len(c.ExitFogs))
	for _, ex := range c.ExitFogs {
		if ex.FogID == entryFogID {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// Doc is the versioned, on-disk cluster document (spec.md §6).
type Doc struct {
	Version       int        `json:"version"`
	GeneratedFrom string     `json:"generated_from"`
	Clusters      []ClusterJ `json:"clusters"`
}

// ClusterJ is the JSON wire shape of a Cluster. Boolean reuse flags are
// only emitted when true (spec.md §6).
type ClusterJ struct {
	ID                  string    `json:"id"`
	Zones               []string  `json:"zones"`
	Type                string    `json:"type"`
	Weight              int       `json:"weight"`
	EntryFogs           []FogRefJ `json:"entry_fogs"`
	ExitFogs            []FogRefJ `json:"exit_fogs"`
	DefeatFlag          *int      `json:"defeat_flag,omitempty"`
	AllowSharedEntrance bool      `json:"allow_shared_entrance,omitempty"`
	AllowEntryAsExit    bool      `json:"allow_entry_as_exit,omitempty"`
}

// FogRefJ is the JSON wire shape of a FogRef.
type FogRefJ struct {
	FogID  string `json:"fog_id"`
	Zone   string `json:"zone"`
	Unique bool   `json:"unique,omitempty"`
}

// ToDoc converts a built cluster list into its wire document, versioned
// and ordered by id (callers must already have sorted clusters by ID;
// Build does this).
func ToDoc(generatedFrom string, clusters []*Cluster) *Doc {
	doc := &Doc{Version: 1, GeneratedFrom: generatedFrom, Clusters: make([]ClusterJ, len(clusters))}
	for i, c := range clusters {
		doc.Clusters[i] = clusterToJ(c)
	}
	return doc
}

func clusterToJ(c *Cluster) ClusterJ {
	cj := ClusterJ{
		ID:                  c.ID,
		Zones:               c.Zones,
		Type:                c.Type.String(),
		Weight:              c.Weight,
		EntryFogs:           make([]FogRefJ, len(c.EntryFogs)),
		ExitFogs:            make([]FogRefJ, len(c.ExitFogs)),
		DefeatFlag:          c.DefeatFlag,
		AllowSharedEntrance: c.AllowSharedEntrance,
		AllowEntryAsExit:    c.AllowEntryAsExit,
	}
	for i, f := range c.EntryFogs {
		cj.EntryFogs[i] = FogRefJ{FogID: f.FogID, Zone: f.Zone}
	}
	for i, f := range c.ExitFogs {
		cj.ExitFogs[i] = FogRefJ{FogID: f.FogID, Zone: f.Zone, Unique: f.Unique}
	}
	return cj
}

// FromDoc converts a wire document back into Cluster values, e.g. when a
// pre-built cluster document is supplied via the `generate --clusters`
// flag instead of being rebuilt from the fog database.
func FromDoc(doc *Doc) ([]*Cluster, error) {
	out := make([]*Cluster, len(doc.Clusters))
	for i, cj := range doc.Clusters {
		t, ok := ParseType(cj.Type)
		if !ok {
			return nil, &BuildError{Reason: "unknown cluster type " + cj.Type}
		}
		c := &Cluster{
			ID:                  cj.ID,
			Zones:               cj.Zones,
			Type:                t,
			Weight:              cj.Weight,
			EntryFogs:           make([]FogRef, len(cj.EntryFogs)),
			ExitFogs:            make([]FogRef, len(cj.ExitFogs)),
			DefeatFlag:          cj.DefeatFlag,
			AllowSharedEntrance: cj.AllowSharedEntrance,
			AllowEntryAsExit:    cj.AllowEntryAsExit,
		}
		for j, f := range cj.EntryFogs {
			c.EntryFogs[j] = FogRef{FogID: f.FogID, Zone: f.Zone}
		}
		for j, f := range cj.ExitFogs {
			c.ExitFogs[j] = FogRef{FogID: f.FogID, Zone: f.Zone, Unique: f.Unique}
		}
		out[i] = c
	}
	return out, nil
}
