// Package diagram compiles a compact textual notation into a laid-out SVG
// diagram.
//
// The notation describes a chain of labeled stages separated by "->", with
// optional bracketed sub-components and binary decision branches:
//
//	Input -> Encoder[CNN,RNN] -> Converged? -> Yes: Deploy, No: Tune
//
// # Architecture
//
// The compiler is a three-stage pipeline:
//
//  1. Parse: turn the notation into an ordered node list and edge list
//  2. Layout: assign deterministic geometry per node based on the style
//  3. Render: serialize nodes and edges into a standalone SVG document
//
// [Compile] wires the stages together and is the single entry point.
// Each stage consumes the previous stage's output and returns a new value;
// compiling is a pure function of (description, options) and is safe to
// call concurrently.
//
// # Usage
//
//	result, err := diagram.Compile("A -> B -> C", diagram.Options{Style: diagram.StylePipeline})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.svg", []byte(result.SVG), 0644)
package diagram
