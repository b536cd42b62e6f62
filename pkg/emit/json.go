package emit

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
)

// ToGraphDoc converts a generated DAG and its balance report into the
// wire-format graph document (spec.md §6).
func ToGraphDoc(d *dag.Dag, balanceReport *balance.Report) *GraphDoc {
	zones := map[string]struct{}{}
	maxLayer := 0
	nodes := make(map[string]NodeJ, len(d.Nodes))
	eventMap := map[string]int{}

	for id, n := range d.Nodes {
		for _, z := range n.Zones {
			zones[z] = struct{}{}
		}
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
		nodes[id] = nodeToJ(n)
		if n.DefeatFlag != nil {
			eventMap[id] = *n.DefeatFlag
		}
	}

	edges := make([]EdgeJ, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = EdgeJ{
			Source:         e.SourceID,
			Target:         e.TargetID,
			SourceExitFog:  e.SourceExitFog,
			TargetEntryFog: e.TargetEntryFog,
		}
	}

	pathWeights := make([]int, len(balanceReport.Paths))
	for i, p := range balanceReport.Paths {
		pathWeights[i] = p.Weight
	}

	var finalFlag *int
	if endNode, ok := d.Nodes[d.EndID]; ok {
		finalFlag = endNode.DefeatFlag
	}

	doc := &GraphDoc{
		Seed:          d.Seed,
		TotalLayers:   maxLayer + 1,
		TotalNodes:    len(d.Nodes),
		TotalZones:    len(zones),
		TotalPaths:    len(balanceReport.Paths),
		PathWeights:   pathWeights,
		Nodes:         nodes,
		Edges:         edges,
		StartID:       d.StartID,
		EndID:         d.EndID,
		FinalNodeFlag: finalFlag,
		FinishEvent:   fmt.Sprintf("finish_%s", d.EndID),
	}
	if len(eventMap) > 0 {
		doc.EventMap = eventMap
	}
	return doc
}

func nodeToJ(n *dag.Node) NodeJ {
	return NodeJ{
		ClusterID: n.ClusterID,
		Zones:     n.Zones,
		Type:      n.Type.String(),
		Weight:    n.Weight,
		Layer:     n.Layer,
		Tier:      n.Tier,
		EntryFogs: fogRefsToJ(n.EntryFogs),
		ExitFogs:  fogRefsToJ(n.ExitFogs),
	}
}

func fogRefsToJ(refs []cluster.FogRef) []FogRefJ {
	out := make([]FogRefJ, len(refs))
	for i, f := range refs {
		out[i] = FogRefJ{FogID: f.FogID, Zone: f.Zone}
	}
	return out
}

// MarshalGraphDoc renders doc as indented JSON.
func MarshalGraphDoc(doc *GraphDoc) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// WriteGraphDoc marshals doc and writes it to path with 0644 permissions.
func WriteGraphDoc(doc *GraphDoc, path string) error {
	data, err := MarshalGraphDoc(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteClusterDoc marshals a cluster.Doc and writes it to path with 0644
// permissions (spec.md §6 "Cluster document").
func WriteClusterDoc(doc *cluster.Doc, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
