package emit

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/rbignon/speedfog/pkg/cluster"
	"github.com/rbignon/speedfog/pkg/dag"
)

// SVGOptions configures the debug DAG visualization.
type SVGOptions struct {
	Width      int
	Height     int
	NodeRadius int
	Margin     int
	Title      string
}

// DefaultSVGOptions returns sensible default render options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		Height:     900,
		NodeRadius: 20,
		Margin:     60,
		Title:      "DAG",
	}
}

type position struct {
	X, Y float64
}

// RenderSVG draws a column-per-layer debug visualization of d: nodes
// colored by cluster type, placed left to right by layer and spread
// evenly down the column, edges drawn as straight lines between them.
func RenderSVG(d *dag.Dag, opts SVGOptions) []byte {
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 20
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	positions := layoutByLayer(d, opts)

	for _, e := range d.Edges {
		from, fromOK := positions[e.SourceID]
		to, toOK := positions[e.TargetID]
		if !fromOK || !toOK {
			continue
		}
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y), "stroke:#4a5568;stroke-width:2;opacity:0.8")
	}

	ids := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := d.Nodes[id]
		pos, ok := positions[id]
		if !ok {
			continue
		}
		color := colorForType(n.Type)
		canvas.Circle(int(pos.X), int(pos.Y), opts.NodeRadius, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1", color))
		canvas.Text(int(pos.X), int(pos.Y)+opts.NodeRadius+14, id, "fill:#e2e8f0;font-size:11px;text-anchor:middle")
	}

	if opts.Title != "" {
		canvas.Text(opts.Margin, 30, opts.Title, "fill:#e2e8f0;font-size:20px")
	}

	canvas.End()
	return buf.Bytes()
}

// WriteSVG renders d and writes it to path with 0644 permissions.
func WriteSVG(d *dag.Dag, opts SVGOptions, path string) error {
	return os.WriteFile(path, RenderSVG(d, opts), 0644)
}

// layoutByLayer places nodes on vertical columns by layer index and
// spreads same-layer nodes evenly down the column.
func layoutByLayer(d *dag.Dag, opts SVGOptions) map[string]position {
	positions := make(map[string]position, len(d.Nodes))
	if len(d.Nodes) == 0 {
		return positions
	}

	byLayer := map[int][]string{}
	maxLayer := 0
	for id, n := range d.Nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], id)
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}

	drawWidth := float64(opts.Width - 2*opts.Margin)
	drawHeight := float64(opts.Height - 2*opts.Margin)
	colStep := drawWidth / math.Max(1, float64(maxLayer))

	for layer, ids := range byLayer {
		sort.Strings(ids)
		x := float64(opts.Margin)
		if maxLayer > 0 {
			x += float64(layer) * colStep
		} else {
			x += drawWidth / 2
		}
		rowStep := drawHeight / float64(len(ids)+1)
		for i, id := range ids {
			y := float64(opts.Margin) + float64(i+1)*rowStep
			positions[id] = position{X: x, Y: y}
		}
	}

	return positions
}

func colorForType(t cluster.Type) string {
	switch t {
	case cluster.Start:
		return "#48bb78"
	case cluster.FinalBoss:
		return "#e53e3e"
	case cluster.MajorBoss:
		return "#f56565"
	case cluster.LegacyDungeon:
		return "#9f7aea"
	case cluster.BossArena:
		return "#ed8936"
	case cluster.MiniDungeon:
		return "#4299e1"
	default:
		return "#718096"
	}
}
