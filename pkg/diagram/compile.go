package diagram

// Compile runs the full parse → layout → render pipeline and returns the
// result bundle. Options are validated and defaulted first; the only error
// the facade produces is an invalid style, since structurally odd notation
// degrades to best-effort labels rather than failing (the notation has no
// formal validator).
//
// Compile is idempotent and has no observable side effects: the same
// (description, options) pair always yields structurally identical node
// and edge lists and a byte-identical document.
func Compile(description string, opts Options) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, err
	}

	nodes, edges := Parse(description)
	nodes = LayoutNodes(nodes, opts)
	svg := RenderSVG(nodes, edges, opts)

	return Result{SVG: svg, Nodes: nodes, Edges: edges}, nil
}
