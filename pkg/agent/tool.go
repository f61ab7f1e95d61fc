package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// Tool is a named capability the model can invoke during a run.
type Tool struct {
	Name        string
	Description string
	Execute     func(ctx context.Context, input string) (string, error)
}

// DiagramRequest is the structured input the diagram tool accepts.
type DiagramRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

// DiagramObservation is what the tool reports back to the model: counts
// and the echoed description, never geometry or markup.
type DiagramObservation struct {
	Nodes       int    `json:"nodes"`
	Edges       int    `json:"edges"`
	Style       string `json:"style"`
	Description string `json:"description"`
}

// DiagramSink receives each compiled result so the caller can collect
// or persist diagrams produced during a run.
type DiagramSink func(req DiagramRequest, res diagram.Result)

// NewDiagramTool builds the generate_diagram tool. sink may be nil.
func NewDiagramTool(sink DiagramSink) Tool {
	return Tool{
		Name: "generate_diagram",
		Description: `Compile diagram notation into a rendered diagram. Input is a JSON object:
{"description": "A -> B -> C", "type": "pipeline"}
where "type" is one of pipeline, architecture, flowchart. Notation: stages
joined by "->", "Name[a,b]" for sub-components, a trailing "?" marks a
decision, and "Label: Target, Label: Target" fans out labeled branches.
Returns node and edge counts for the compiled diagram.`,
		Execute: func(ctx context.Context, input string) (string, error) {
			var req DiagramRequest
			if err := json.Unmarshal([]byte(input), &req); err != nil {
				// Bare notation without the JSON envelope is common
				// enough to accept directly.
				req = DiagramRequest{Description: input}
			}

			style := diagram.StylePipeline
			if req.Type != "" {
				parsed, err := diagram.ParseStyle(req.Type)
				if err != nil {
					return "", err
				}
				style = parsed
			}
			req.Type = string(style)

			if strings.TrimSpace(req.Description) == "" {
				return "", errors.New(errors.ErrCodeInvalidDescription, "diagram description is empty")
			}

			res, err := diagram.Compile(req.Description, diagram.Options{Style: style})
			if err != nil {
				return "", err
			}
			if sink != nil {
				sink(req, res)
			}

			obs := DiagramObservation{
				Nodes:       res.NodeCount(),
				Edges:       res.EdgeCount(),
				Style:       string(style),
				Description: req.Description,
			}
			out, err := json.Marshal(obs)
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal observation")
			}
			return string(out), nil
		},
	}
}

// describeTools renders the tool roster for the system prompt, in
// stable name order.
func describeTools(tools map[string]Tool) string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, tools[name].Description)
	}
	return b.String()
}
