package diagram

import "strings"

// Sizing constants. Widths derive from a character-width heuristic rather
// than font metrics, so geometry stays identical across platforms.
const (
	minNodeWidth     = 100.0
	decisionMinWidth = 120.0
	decisionHeight   = 50.0
	baseNodeHeight   = 40.0
	subItemsHeight   = 60.0
	labelPadding     = 30.0
	originOffset     = 40.0

	charWidthRatio     = 0.6 // estimated glyph width as a fraction of font size
	subItemsWidthRatio = 0.8 // sub-item line renders in a smaller font
)

// LayoutNodes returns a copy of nodes with geometry populated for the
// style carried by opts. The input slice is never mutated, so callers
// observe either no geometry or all of it.
//
// Layout is deterministic: nodes are processed in parse order only, and
// identical inputs produce bit-identical geometry.
func LayoutNodes(nodes []Node, opts Options) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)

	sizeNodes(out, opts.FontSize)

	if opts.IsVertical() {
		placeVertical(out, opts)
	} else {
		placeHorizontal(out, opts)
	}
	return out
}

// sizeNodes computes every node's width and height. Placement depends on
// the computed dimensions, so this pass always runs first.
func sizeNodes(nodes []Node, fontSize float64) {
	charWidth := fontSize * charWidthRatio

	for i := range nodes {
		n := &nodes[i]

		w := minNodeWidth
		if lw := float64(len(n.Label))*charWidth + labelPadding; lw > w {
			w = lw
		}
		if len(n.SubItems) > 0 {
			items := strings.Join(n.SubItems, ", ")
			if sw := float64(len(items))*charWidth*subItemsWidthRatio + labelPadding; sw > w {
				w = sw
			}
		}
		n.W = w

		if len(n.SubItems) > 0 {
			n.H = subItemsHeight
		} else {
			n.H = baseNodeHeight
		}

		if n.IsDecision() {
			if n.W < decisionMinWidth {
				n.W = decisionMinWidth
			}
			n.H = decisionHeight
		}
	}
}

// placeVertical stacks nodes top-to-bottom, centering each horizontally
// within the target canvas width.
func placeVertical(nodes []Node, opts Options) {
	y := originOffset
	for i := range nodes {
		n := &nodes[i]
		n.X = (opts.Width - n.W) / 2
		n.Y = y
		y += n.H + opts.LayerSpacing
	}
}

// placeHorizontal lays nodes left-to-right, centering each vertically
// against the tallest node so the chain shares one baseline band.
func placeHorizontal(nodes []Node, opts Options) {
	maxH := 0.0
	for i := range nodes {
		if nodes[i].H > maxH {
			maxH = nodes[i].H
		}
	}

	x := originOffset
	for i := range nodes {
		n := &nodes[i]
		n.X = x
		n.Y = originOffset + (maxH-n.H)/2
		x += n.W + opts.NodeSpacing
	}
}
