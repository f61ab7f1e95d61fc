package suggest

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a diagram author and pins the output
// contract the parser expects.
const SystemPrompt = `You are an expert at visualizing machine learning and systems research.
You design clear, compact diagrams that explain how a method or system works.
Always respond with a JSON array and nothing else.`

// promptTemplate is filled in by BuildPrompt. The notation mirrors what
// the compiler accepts: stages joined by "->", bracketed sub-items, "?"
// for decisions, and "Label: Target" lists for branches.
const promptTemplate = `Suggest 3 diagrams that explain the following topic:

%s

Respond with a JSON array where each entry has:
- "type": one of "pipeline" (horizontal flow), "architecture" (vertical stack), or "flowchart" (flow with decisions)
- "description": the diagram notation, e.g. "Input -> Encoder[CNN,RNN] -> Converged? -> Yes: Deploy, No: Tune"
- "purpose": one sentence on what the diagram shows

Notation rules: stages are joined by "->"; "Name[a,b]" lists sub-components;
a stage ending in "?" is a decision; "Label: Target, Label: Target" fans a
decision out into labeled branches.

Return only the JSON array.`

// BuildPrompt renders the suggestion prompt for a topic.
func BuildPrompt(topic string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(topic))
}
