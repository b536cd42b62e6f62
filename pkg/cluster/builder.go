package cluster

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/rbignon/speedfog/pkg/fogdb"
)

// worldEdge is a guaranteed world-connection edge retained for clustering
// (spec.md §4.2 Step A). Edges whose condition references a zone never
// reach this stage.
type worldEdge struct {
	from, to string
	drop     bool
}

// worldGraph is the directed graph of guaranteed world connections used to
// compute cluster closures (Step B) and entry-zone eligibility (Step C).
type worldGraph struct {
	out map[string][]worldEdge // outgoing edges by area name
	in  map[string][]worldEdge // incoming edges by area name
}

func buildWorldGraph(db *fogdb.DB) *worldGraph {
	g := &worldGraph{out: map[string][]worldEdge{}, in: map[string][]worldEdge{}}
	for name, area := range db.Areas {
		for _, conn := range area.Connections {
			if conn.Condition.ReferencesZone() {
				continue // ignored for clustering (spec.md §4.2 Step A)
			}
			e := worldEdge{from: name, to: conn.To, drop: conn.IsDrop()}
			g.out[name] = append(g.out[name], e)
			g.in[conn.To] = append(g.in[conn.To], e)
		}
	}
	return g
}

// reach computes the closure of area names reachable from start following
// outgoing guaranteed edges (spec.md §4.2 Step B).
func (g *worldGraph) reach(start string) map[string]struct{} {
	seen := map[string]struct{}{start: {}}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.out[cur] {
			if _, ok := seen[e.to]; ok {
				continue
			}
			seen[e.to] = struct{}{}
			queue = append(queue, e.to)
		}
	}
	return seen
}

// hasIncomingDropFromMember reports whether zone has an incoming drop
// edge from another member of zones (spec.md §4.2 Step C).
func (g *worldGraph) hasIncomingDropFromMember(zone string, zones map[string]struct{}) bool {
	for _, e := range g.in[zone] {
		if !e.drop {
			continue
		}
		if e.from == zone {
			continue
		}
		if _, member := zones[e.from]; member {
			return true
		}
	}
	return false
}

// mapPrefixDungeonType maps a map identifier's area-code prefix (the
// token before the first underscore, e.g. "m30" in "m30_01_00_00") to the
// mini-dungeon subtype it represents. All four subtypes collapse to the
// single MiniDungeon cluster type (spec.md §4.2 Step D).
var mapPrefixDungeonType = map[string]string{
	"m30": "catacomb",
	"m31": "cave",
	"m32": "tunnel",
	"m33": "gaol",
}

func isMiniDungeonMap(mapID string) bool {
	prefix, _, found := strings.Cut(mapID, "_")
	if !found {
		return false
	}
	_, ok := mapPrefixDungeonType[prefix]
	return ok
}

// Build derives the canonical cluster set from db and optional metadata.
// meta may be nil, in which case all weights default to zero and no
// per-zone overrides apply.
func Build(db *fogdb.DB, meta *Metadata) (*Doc, error) {
	if meta == nil {
		meta = emptyMetadata()
	}

	graph := buildWorldGraph(db)

	eligible := make([]string, 0, len(db.Areas))
	for name, area := range db.Areas {
		if isExcludedArea(area, db) {
			continue
		}
		eligible = append(eligible, name)
	}
	sort.Strings(eligible)

	seen := map[string]bool{} // dedup key: sorted, comma-joined zone set
	var clusters []*Cluster

	for _, name := range eligible {
		zoneSet := graph.reach(name)
		zoneSet[name] = struct{}{}

		zones := make([]string, 0, len(zoneSet))
		for z := range zoneSet {
			zones = append(zones, z)
		}
		sort.Strings(zones)

		key := strings.Join(zones, ",")
		if seen[key] {
			continue
		}
		seen[key] = true

		c, err := buildCluster(db, graph, meta, zones)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue // rejected in Step E
		}
		clusters = append(clusters, c)
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })

	return ToDoc("fogdb", clusters), nil
}

func isExcludedArea(area *fogdb.Area, db *fogdb.DB) bool {
	if area.HasTag(fogdb.TagOverworld) || area.HasTag(fogdb.TagDLC) ||
		area.HasTag(fogdb.TagUnused) || area.HasTag(fogdb.TagCrawlonly) {
		return true
	}
	if area.HasTag(fogdb.TagTrivial) && !areaHasAnyFog(area.Name, db) {
		return true
	}
	return false
}

func areaHasAnyFog(name string, db *fogdb.DB) bool {
	for _, f := range db.Fogs {
		if f.ASide == name || f.BSide == name {
			return true
		}
	}
	return false
}

// buildCluster runs Steps C-F for one candidate zone set. Returns (nil,
// nil) if the cluster is rejected in Step E.
func buildCluster(db *fogdb.DB, graph *worldGraph, meta *Metadata, zones []string) (*Cluster, error) {
	zoneSet := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		zoneSet[z] = struct{}{}
	}

	entryZones := make([]string, 0, len(zones))
	for _, z := range zones {
		if !graph.hasIncomingDropFromMember(z, zoneSet) {
			entryZones = append(entryZones, z)
		}
	}

	entryFogs := make([]FogRef, 0)
	for _, z := range entryZones {
		for _, f := range db.Fogs {
			if f.ASide != z && f.BSide != z {
				continue
			}
			if f.IsNorandom() {
				continue
			}
			if !f.IsUnique() {
				entryFogs = append(entryFogs, FogRef{FogID: f.Name, Zone: z})
			} else if f.BSide == z {
				entryFogs = append(entryFogs, FogRef{FogID: f.Name, Zone: z})
			}
		}
	}

	exitFogs := make([]FogRef, 0)
	for _, z := range zones {
		for _, f := range db.Fogs {
			if f.ASide != z && f.BSide != z {
				continue
			}
			if f.IsNorandom() {
				continue
			}
			if !f.IsUnique() {
				exitFogs = append(exitFogs, FogRef{FogID: f.Name, Zone: z})
			} else if f.ASide == z {
				exitFogs = append(exitFogs, FogRef{FogID: f.Name, Zone: z, Unique: true})
			}
		}
	}

	principal := zones[0]
	c := &Cluster{
		ID:        clusterID(principal, zones),
		Zones:     zones,
		EntryFogs: entryFogs,
		ExitFogs:  exitFogs,
	}

	if err := enrich(db, meta, c); err != nil {
		return nil, err
	}

	// Step E: rejection.
	if len(c.EntryFogs) == 0 || len(c.ExitFogs) == 0 || !c.IsUsable() {
		return nil, nil
	}

	return c, nil
}

func enrich(db *fogdb.DB, meta *Metadata, c *Cluster) error {
	memberAreas := make([]*fogdb.Area, 0, len(c.Zones))
	for _, z := range c.Zones {
		if a, ok := db.Areas[z]; ok {
			memberAreas = append(memberAreas, a)
		}
	}

	t, defeatFlag, err := deriveType(memberAreas, c.Zones[0])
	if err != nil {
		return &BuildError{Principal: c.Zones[0], Reason: err.Error()}
	}
	c.Type = t
	c.DefeatFlag = defeatFlag

	weight := 0
	for _, z := range c.Zones {
		if zm, ok := meta.Zones[z]; ok && zm.Weight != nil {
			weight += *zm.Weight
			continue
		}
		weight += meta.Defaults[t.String()]
	}
	c.Weight = weight

	allowShared := len(c.EntryFogs) >= 2
	for _, z := range c.Zones {
		if zm, ok := meta.Zones[z]; ok && zm.AllowSharedEntrance != nil {
			allowShared = *zm.AllowSharedEntrance
			break
		}
	}
	c.AllowSharedEntrance = allowShared
	c.AllowEntryAsExit = false // reserved, spec.md §4.2 Step D

	return nil
}

func deriveType(members []*fogdb.Area, principal string) (Type, *int, error) {
	for _, a := range members {
		if a.HasTag(fogdb.TagLegacy) {
			return LegacyDungeon, a.DefeatFlag, nil
		}
	}

	for _, a := range members {
		for _, m := range a.Maps {
			if isMiniDungeonMap(m) {
				return MiniDungeon, a.DefeatFlag, nil
			}
		}
	}

	hasMinidungeonTag := false
	var defeatFlag *int
	for _, a := range members {
		if a.HasTag(fogdb.TagMinidungeon) {
			hasMinidungeonTag = true
		}
		if a.DefeatFlag != nil {
			defeatFlag = a.DefeatFlag
		}
	}
	if defeatFlag != nil && !hasMinidungeonTag {
		return BossArena, defeatFlag, nil
	}

	for _, a := range members {
		if a.HasTag(fogdb.TagStart) {
			return Start, defeatFlag, nil
		}
	}
	for _, a := range members {
		if a.HasTag(fogdb.TagFinalBoss) {
			return FinalBoss, defeatFlag, nil
		}
	}
	for _, a := range members {
		if a.HasTag(fogdb.TagMajorBoss) {
			return MajorBoss, defeatFlag, nil
		}
	}
	for _, a := range members {
		if a.HasTag(fogdb.TagBoss) {
			return MajorBoss, defeatFlag, nil
		}
	}

	return 0, nil, fmt.Errorf("cannot derive cluster type for principal zone %s", principal)
}

// clusterID builds the f"{principal_zone}_{short_hash(sorted_zones)}"
// identifier (spec.md §4.2 Step F).
func clusterID(principal string, sortedZones []string) string {
	sum := sha256.Sum256([]byte(strings.Join(sortedZones, ",")))
	return fmt.Sprintf("%s_%02x%02x", principal, sum[0], sum[1])
}
