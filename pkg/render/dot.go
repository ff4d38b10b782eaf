package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/perm"
)

// Options configures ToDOT.
type Options struct {
	// Title is drawn above the graph when non-empty.
	Title string

	// Mapping places virtual qubits on physical ones.
	Mapping perm.Mapping

	// Usage counts operations per native edge.
	Usage map[coupling.Edge]int
}

// ToDOT converts g to Graphviz DOT.
func ToDOT(g *coupling.Graph, opts Options) string {
	holder := make(map[int]int)
	for v, p := range opts.Mapping {
		if p != perm.Undef {
			holder[p] = v
		}
	}
	maxUse := 0
	for _, n := range opts.Usage {
		maxUse = max(maxUse, n)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", opts.Title)
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n\n")

	for p := range g.Size() {
		label := g.Name(p)
		attrs := []string{}
		if v, ok := holder[p]; ok {
			label += fmt.Sprintf("\nv%d", v)
			attrs = append(attrs, "fillcolor=lightblue")
		}
		attrs = append([]string{fmt.Sprintf("label=%q", label)}, attrs...)
		fmt.Fprintf(&buf, "  %d [%s];\n", p, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if g.IsReverseEdge(e.From, e.To) {
			attrs = append(attrs, "style=dashed", "color=grey")
		}
		if n := opts.Usage[e]; n > 0 {
			attrs = append(attrs,
				fmt.Sprintf("penwidth=%.1f", 1+4*float64(n)/float64(maxUse)),
				fmt.Sprintf("label=\"%d\"", n),
				"color=steelblue")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %d -> %d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Usage counts the physical operations executed on each edge of g, keyed by
// the edge's direction on the device.
func Usage(g *coupling.Graph, ops []bmt.PhysicalOp) map[coupling.Edge]int {
	out := make(map[coupling.Edge]int)
	for _, op := range ops {
		e := coupling.Edge{From: op.U, To: op.V}
		if op.Kind == bmt.OpReversedCNOT || !g.HasEdge(op.U, op.V) {
			e = coupling.Edge{From: op.V, To: op.U}
		}
		out[e]++
	}
	return out
}
