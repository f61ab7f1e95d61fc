package diagram

import (
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	nodes, edges := Parse("Train -> Converged? -> Yes: Deploy, No: Tune")

	dot := ToDOT(nodes, edges, defaultOpts(StylePipeline))

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		"shape=diamond",
		`"node2" -> "node3" [label="Yes"];`,
		`"node2" -> "node4" [label="No"];`,
		"}",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTVerticalRankdir(t *testing.T) {
	nodes, edges := Parse("A -> B")
	dot := ToDOT(nodes, edges, defaultOpts(StyleArchitecture))
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("architecture style should use top-to-bottom rank direction")
	}
}
