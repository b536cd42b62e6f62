package emit

import (
	"fmt"
	"os"
	"strings"

	"github.com/rbignon/speedfog/pkg/balance"
	"github.com/rbignon/speedfog/pkg/dag"
)

// RenderSpoiler builds the plain-text spoiler document: a seed header, a
// per-layer node listing, and path enumeration with weights (spec.md
// §6 "Spoiler document").
func RenderSpoiler(d *dag.Dag, balanceReport *balance.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "seed: %d\n", d.Seed)
	fmt.Fprintf(&sb, "nodes: %d\n\n", len(d.Nodes))

	sb.WriteString("layers:\n")
	byLayer := map[int][]string{}
	maxLayer := 0
	for _, id := range d.NodeOrder {
		n := d.Nodes[id]
		byLayer[n.Layer] = append(byLayer[n.Layer], id)
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}
	for layer := 0; layer <= maxLayer; layer++ {
		ids := byLayer[layer]
		if len(ids) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  layer %d:\n", layer)
		for _, id := range ids {
			n := d.Nodes[id]
			fmt.Fprintf(&sb, "    %s [%s] tier=%d weight=%d zones=%s\n",
				id, n.Type.String(), n.Tier, n.Weight, strings.Join(n.Zones, ","))
		}
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "paths: %d\n", len(balanceReport.Paths))
	for i, p := range balanceReport.Paths {
		fmt.Fprintf(&sb, "  path %d (weight %d): %s\n", i+1, p.Weight, strings.Join(p.NodeIDs, " -> "))
	}

	return sb.String()
}

// WriteSpoiler renders the spoiler document and writes it to path with
// 0644 permissions.
func WriteSpoiler(d *dag.Dag, balanceReport *balance.Report, path string) error {
	return os.WriteFile(path, []byte(RenderSpoiler(d, balanceReport)), 0644)
}
