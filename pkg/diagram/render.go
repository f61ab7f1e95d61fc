package diagram

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Canvas constants. The floor keeps degenerate diagrams (zero or one node)
// visually valid.
const (
	canvasMargin    = 40.0
	minCanvasWidth  = 300.0
	minCanvasHeight = 200.0

	subItemsFontRatio = 0.75 // sub-item line font relative to the label font
	edgeLabelOffset   = 8.0  // perpendicular shift for edge labels
)

// Shape fills and strokes per node kind. Start and end deliberately use
// distinct pairings so chain endpoints read at a glance.
var nodePalette = map[Kind][2]string{
	KindStart:     {"#d1fae5", "#047857"},
	KindEnd:       {"#fee2e2", "#b91c1c"},
	KindProcess:   {"#e2e8f0", "#475569"},
	KindDecision:  {"#fef3c7", "#b45309"},
	KindComponent: {"#e0e7ff", "#4338ca"},
}

const edgeStroke = "#4a5568"

// RenderSVG serializes nodes and edges into a complete, standalone SVG
// document: namespace, dimensions, a reusable arrowhead marker, a background
// fill, then all edges, then all nodes, so shapes sit above connecting lines.
//
// All user-supplied text (labels, sub-items, edge labels) is XML-escaped
// before insertion.
func RenderSVG(nodes []Node, edges []Edge, opts Options) string {
	width, height := canvasSize(nodes)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.1f %.1f">`+"\n",
		width, height, width, height)
	renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="#ffffff"/>`+"\n")

	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	for _, e := range edges {
		renderEdge(&buf, e, byID, opts)
	}
	for _, n := range nodes {
		renderNode(&buf, n, opts)
	}

	buf.WriteString("</svg>\n")
	return buf.String()
}

// canvasSize computes the document bounds from node extents plus a margin,
// clamped to the minimal canvas.
func canvasSize(nodes []Node) (float64, float64) {
	w, h := 0.0, 0.0
	for _, n := range nodes {
		if x := n.X + n.W; x > w {
			w = x
		}
		if y := n.Y + n.H; y > h {
			h = y
		}
	}
	w += canvasMargin
	h += canvasMargin
	if w < minCanvasWidth {
		w = minCanvasWidth
	}
	if h < minCanvasHeight {
		h = minCanvasHeight
	}
	return w, h
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`+"\n")
	fmt.Fprintf(buf, `      <polygon points="0 0, 10 3.5, 0 7" fill="%s"/>`+"\n", edgeStroke)
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

// renderEdge draws a straight line between attachment points chosen by
// orientation: vertical layouts connect bottom-center to top-center,
// horizontal layouts right-middle to left-middle. Edges referencing
// missing nodes are skipped; the parser never produces them, but callers
// constructing graphs by hand might.
func renderEdge(buf *bytes.Buffer, e Edge, byID map[string]Node, opts Options) {
	src, okS := byID[e.From]
	dst, okD := byID[e.To]
	if !okS || !okD {
		return
	}

	var x1, y1, x2, y2 float64
	if opts.IsVertical() {
		x1, y1 = src.X+src.W/2, src.Y+src.H
		x2, y2 = dst.X+dst.W/2, dst.Y
	} else {
		x1, y1 = src.X+src.W, src.Y+src.H/2
		x2, y2 = dst.X, dst.Y+dst.H/2
	}

	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5" marker-end="url(#arrowhead)"/>`+"\n",
		x1, y1, x2, y2, edgeStroke)

	if e.Label == "" {
		return
	}

	// Label at the line midpoint, offset perpendicular to the line so it
	// does not sit on the stroke.
	mx, my := (x1+x2)/2, (y1+y2)/2
	if opts.IsVertical() {
		mx += edgeLabelOffset
	} else {
		my -= edgeLabelOffset
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="%s">%s</text>`+"\n",
		mx, my, escapeXML(opts.FontFamily), opts.FontSize*subItemsFontRatio, edgeStroke, escapeXML(e.Label))
}

func renderNode(buf *bytes.Buffer, n Node, opts Options) {
	fill, stroke := nodeColors(n.Kind)

	if n.IsDecision() {
		cx, cy := n.X+n.W/2, n.Y+n.H/2
		fmt.Fprintf(buf, `  <polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			cx, n.Y, n.X+n.W, cy, cx, n.Y+n.H, n.X, cy, fill, stroke)
	} else {
		fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			n.X, n.Y, n.W, n.H, fill, stroke)
	}

	renderNodeText(buf, n, opts)
}

// renderNodeText centers the label in the node. With sub-items the label
// shifts up to make room for a smaller bracketed line beneath it.
func renderNodeText(buf *bytes.Buffer, n Node, opts Options) {
	cx, cy := n.X+n.W/2, n.Y+n.H/2
	family := escapeXML(opts.FontFamily)

	if len(n.SubItems) == 0 {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="#1a202c">%s</text>`+"\n",
			cx, cy+opts.FontSize*0.35, family, opts.FontSize, escapeXML(n.Label))
		return
	}

	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="#1a202c">%s</text>`+"\n",
		cx, cy-4, family, opts.FontSize, escapeXML(n.Label))

	items := escapeXML("[" + strings.Join(n.SubItems, ", ") + "]")
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="%s" font-size="%.1f" fill="#4a5568">%s</text>`+"\n",
		cx, cy+opts.FontSize, family, opts.FontSize*subItemsFontRatio, items)
}

func nodeColors(k Kind) (fill, stroke string) {
	if c, ok := nodePalette[k]; ok {
		return c[0], c[1]
	}
	c := nodePalette[KindProcess]
	return c[0], c[1]
}

// escapeXML escapes the reserved markup characters (&, <, >, ", ') in
// user-supplied text before insertion into the document.
func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
