package agent

import "strings"

// reply is a model turn decomposed into its labeled sections.
type reply struct {
	Thought     string
	Action      string
	ActionInput string
	FinalAnswer string
}

// Section labels the model is instructed to emit.
const (
	labelThought     = "Thought:"
	labelAction      = "Action:"
	labelActionInput = "Action Input:"
	labelFinalAnswer = "Final Answer:"
)

// parseReply splits a completion into thought, action, action input, and
// final answer sections. Labels are matched at line starts; everything
// until the next label (or end of text) belongs to the current section.
// A reply with a final answer ends the run even if an action is also
// present: the answer wins.
func parseReply(text string) reply {
	var r reply
	lines := strings.Split(text, "\n")

	var current *string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, labelThought):
			r.Thought = strings.TrimSpace(strings.TrimPrefix(trimmed, labelThought))
			current = &r.Thought
		case strings.HasPrefix(trimmed, labelFinalAnswer):
			r.FinalAnswer = strings.TrimSpace(strings.TrimPrefix(trimmed, labelFinalAnswer))
			current = &r.FinalAnswer
		case strings.HasPrefix(trimmed, labelActionInput):
			r.ActionInput = strings.TrimSpace(strings.TrimPrefix(trimmed, labelActionInput))
			current = &r.ActionInput
		case strings.HasPrefix(trimmed, labelAction):
			r.Action = strings.TrimSpace(strings.TrimPrefix(trimmed, labelAction))
			current = &r.Action
		default:
			if current != nil && trimmed != "" {
				*current += "\n" + line
			}
		}
	}

	r.Thought = strings.TrimSpace(r.Thought)
	r.Action = strings.TrimSpace(r.Action)
	r.ActionInput = strings.TrimSpace(stripInputFences(r.ActionInput))
	r.FinalAnswer = strings.TrimSpace(r.FinalAnswer)
	return r
}

// stripInputFences removes markdown fences models sometimes wrap tool
// input in.
func stripInputFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
