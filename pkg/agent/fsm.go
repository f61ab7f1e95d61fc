package agent

import "github.com/HomenShum/paper-diagram-gen/pkg/errors"

// State is the run-loop lifecycle state of an agent run.
type State string

const (
	// StateAwaitingModel means the run is waiting on a model completion.
	StateAwaitingModel State = "awaiting-model-response"

	// StateExecutingTool means the model requested a tool and the run is
	// executing it.
	StateExecutingTool State = "executing-tool"

	// StateDone means the model produced a final answer.
	StateDone State = "done"

	// StateExhaustedBudget means the step ceiling was hit before a final
	// answer arrived.
	StateExhaustedBudget State = "exhausted-budget"
)

// validTransitions defines the allowed lifecycle transitions. Done and
// exhausted-budget are terminal.
var validTransitions = map[State][]State{
	StateAwaitingModel:   {StateExecutingTool, StateDone, StateExhaustedBudget},
	StateExecutingTool:   {StateAwaitingModel, StateExhaustedBudget},
	StateDone:            {},
	StateExhaustedBudget: {},
}

// Terminal reports whether s ends the run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateExhaustedBudget
}

// transition validates and applies a state change on the run.
func (r *Run) transition(to State) error {
	allowed := validTransitions[r.state]
	for _, a := range allowed {
		if a == to {
			r.state = to
			return nil
		}
	}
	return errors.New(errors.ErrCodeInternal,
		"invalid agent transition: %s -> %s", r.state, to)
}
