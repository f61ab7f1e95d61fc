package diagram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a compiled diagram to Graphviz DOT format as an alternate
// view. Unlike [RenderSVG], DOT output delegates placement to Graphviz;
// node geometry computed by [LayoutNodes] is ignored, but kinds, labels,
// sub-items, and edge labels carry over.
func ToDOT(nodes []Node, edges []Edge, opts Options) string {
	rankdir := "LR"
	if opts.IsVertical() {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		label := n.Label
		if len(n.SubItems) > 0 {
			label += "\n[" + strings.Join(n.SubItems, ", ") + "]"
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		switch n.Kind {
		case KindDecision:
			attrs = append(attrs, "shape=diamond", "style=filled", "fillcolor=lightyellow")
		case KindStart, KindEnd:
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTPNG renders a DOT graph to PNG using in-process Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
