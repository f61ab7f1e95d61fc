package diagram

import (
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Kind classifies a diagram node and selects its rendered shape.
type Kind string

// Node kinds.
const (
	KindStart     Kind = "start"
	KindEnd       Kind = "end"
	KindProcess   Kind = "process"
	KindDecision  Kind = "decision"
	KindComponent Kind = "component"
)

// Style selects the layout orientation and edge attachment strategy.
type Style string

// Diagram styles.
const (
	StylePipeline     Style = "pipeline"     // horizontal chain (default)
	StyleArchitecture Style = "architecture" // vertical stack, centered
	StyleFlowchart    Style = "flowchart"    // horizontal chain
)

// ValidStyles is the set of supported diagram styles.
var ValidStyles = map[Style]bool{
	StylePipeline:     true,
	StyleArchitecture: true,
	StyleFlowchart:    true,
}

// Default option values. Unset options fall back independently.
const (
	DefaultWidth        = 800.0
	DefaultNodeSpacing  = 60.0
	DefaultLayerSpacing = 50.0
	DefaultFontSize     = 14.0
	DefaultFontFamily   = "Helvetica, Arial, sans-serif"
)

// DefaultStyle is the style used when none is specified.
const DefaultStyle = StylePipeline

// ParseStyle maps arbitrary input to a valid Style or a structured error.
func ParseStyle(s string) (Style, error) {
	style := Style(s)
	if s == "" {
		return DefaultStyle, nil
	}
	if !ValidStyles[style] {
		return "", errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: pipeline, architecture, flowchart)", s)
	}
	return style, nil
}

// =============================================================================
// Node and Edge
// =============================================================================

// Node is a single diagram element with its computed geometry.
// Geometry fields are zero until the layout stage runs.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	SubItems []string `json:"sub_items,omitempty"` // bracketed sub-component labels
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
}

// IsDecision returns true if the node renders as a diamond.
func (n *Node) IsDecision() bool { return n.Kind == KindDecision }

// Edge is a directed relation between two node IDs.
// Parallel edges between the same pair are legal and rendered independently.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"` // decision-branch outcome text
}

// =============================================================================
// Options - Compiler Configuration
// =============================================================================

// Options configures a compile call. The zero value is usable: every unset
// field falls back to its default without affecting the others.
type Options struct {
	Style        Style   `json:"style,omitempty"`         // diagram style (default: pipeline)
	Width        float64 `json:"width,omitempty"`         // canvas target width
	NodeSpacing  float64 `json:"node_spacing,omitempty"`  // gap between siblings on the primary axis
	LayerSpacing float64 `json:"layer_spacing,omitempty"` // gap between layers in vertical styles
	FontSize     float64 `json:"font_size,omitempty"`     // label font size
	FontFamily   string  `json:"font_family,omitempty"`   // label font family
}

// ValidateAndSetDefaults checks the style and applies defaults in place.
// It is idempotent: calling it twice has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if !ValidStyles[o.Style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: pipeline, architecture, flowchart)", string(o.Style))
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	return nil
}

// IsVertical returns true if the style stacks nodes top-to-bottom.
// Layout placement and edge attachment both key off this, so the two can
// never disagree on orientation.
func (o *Options) IsVertical() bool { return o.Style == StyleArchitecture }

// =============================================================================
// Result
// =============================================================================

// Result is the output bundle of a compile call. It is a fresh value owned
// by the caller and shares no mutable state with the compiler.
type Result struct {
	SVG   string `json:"svg"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeCount returns the number of nodes in the compiled diagram.
func (r *Result) NodeCount() int { return len(r.Nodes) }

// EdgeCount returns the number of edges in the compiled diagram.
func (r *Result) EdgeCount() int { return len(r.Edges) }
