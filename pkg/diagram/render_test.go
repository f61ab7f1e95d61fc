package diagram

import (
	"fmt"
	"strings"
	"testing"
)

func renderFor(t *testing.T, desc string, style Style) string {
	t.Helper()
	result, err := Compile(desc, Options{Style: style})
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", desc, err)
	}
	return result.SVG
}

func TestRenderDocumentStructure(t *testing.T) {
	svg := renderFor(t, "A -> B", StylePipeline)

	for _, want := range []string{
		`xmlns="http://www.w3.org/2000/svg"`,
		`<defs>`,
		`<marker id="arrowhead"`,
		`marker-end="url(#arrowhead)"`,
		`</svg>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderEdgesBeforeNodes(t *testing.T) {
	svg := renderFor(t, "A -> B", StylePipeline)

	line := strings.Index(svg, "<line")
	// Skip the background rect; node rects carry an rx attribute.
	rect := strings.Index(svg, `rx="8"`)
	if line == -1 || rect == -1 {
		t.Fatal("expected both an edge line and a node rect")
	}
	if line > rect {
		t.Error("edges must be emitted before nodes")
	}
}

func TestRenderEscapesText(t *testing.T) {
	svg := renderFor(t, "A<B> -> C&D", StylePipeline)

	if !strings.Contains(svg, "&lt;") {
		t.Error("rendered document should contain &lt;")
	}
	if !strings.Contains(svg, "&amp;") {
		t.Error("rendered document should contain &amp;")
	}
	if strings.Contains(svg, ">A<B>") || strings.Contains(svg, ">C&D<") {
		t.Error("raw unescaped text leaked into content")
	}
}

func TestRenderEscapesEdgeLabelsAndSubItems(t *testing.T) {
	svg := renderFor(t, `Sys["quoted",<tag>] -> Ok? -> a&b: Done, "no": Stop`, StylePipeline)

	if strings.Contains(svg, ">a&b<") {
		t.Error("edge label leaked unescaped ampersand")
	}
	if !strings.Contains(svg, "&#34;") && !strings.Contains(svg, "&quot;") {
		t.Error("quotes in text content should be escaped")
	}
	if !strings.Contains(svg, "&lt;tag&gt;") {
		t.Error("sub-item markup should be escaped")
	}
}

func TestRenderDecisionDiamond(t *testing.T) {
	svg := renderFor(t, "Train -> Converged? -> Deploy", StylePipeline)
	if !strings.Contains(svg, "<polygon points=") {
		t.Error("decision node should render as a polygon diamond")
	}
}

func TestRenderSubItemsLine(t *testing.T) {
	svg := renderFor(t, "Encoder[CNN,RNN] -> Out", StylePipeline)
	if !strings.Contains(svg, "[CNN, RNN]") {
		t.Errorf("sub-items line missing, got:\n%s", svg)
	}
}

func TestRenderEdgeLabelAtMidpoint(t *testing.T) {
	result, err := Compile("Ok? -> Yes: Go, No: Stop", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.SVG, ">Yes</text>") || !strings.Contains(result.SVG, ">No</text>") {
		t.Error("branch edge labels should appear in the document")
	}
}

func TestRenderVerticalAttachment(t *testing.T) {
	result, err := Compile("Layer1 -> Layer2", Options{Style: StyleArchitecture})
	if err != nil {
		t.Fatal(err)
	}

	src, dst := result.Nodes[0], result.Nodes[1]
	want := []string{
		// bottom-center of the source
		fmt.Sprintf(`x1="%.1f" y1="%.1f"`, src.X+src.W/2, src.Y+src.H),
		// top-center of the target
		fmt.Sprintf(`x2="%.1f" y2="%.1f"`, dst.X+dst.W/2, dst.Y),
	}
	for _, w := range want {
		if !strings.Contains(result.SVG, w) {
			t.Errorf("vertical attachment point missing: %s", w)
		}
	}
}

func TestRenderMinimalCanvas(t *testing.T) {
	tests := []string{"", "OnlyNode"}
	for _, desc := range tests {
		svg := renderFor(t, desc, StylePipeline)
		if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
			t.Errorf("Compile(%q) should still produce a well-formed document", desc)
		}
	}

	// Empty input hits the absolute canvas floor.
	svg := renderFor(t, "", StylePipeline)
	if !strings.Contains(svg, `width="300" height="200"`) {
		t.Errorf("empty diagram should use the minimal canvas, got:\n%s", svg)
	}
}
