// Package agent runs a multi-step reasoning loop that plans diagrams
// for a topic and compiles them through tools.
//
// Each turn the model emits a thought, then either an action (a tool
// call) or a final answer:
//
//	Thought -> Action -> Observation -> ... -> Final Answer
//
// The loop is an explicit state machine: it waits on the model,
// executes the requested tool, and feeds the observation back, until
// the model answers or the step budget runs out.
package agent

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
)

// DefaultMaxSteps bounds the number of model turns per run.
const DefaultMaxSteps = 8

// Agent drives the reasoning loop against an LLM provider.
type Agent struct {
	provider llm.Provider
	tools    map[string]Tool
	maxSteps int
	logger   *log.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithTool registers a tool the model may invoke.
func WithTool(t Tool) Option {
	return func(a *Agent) { a.tools[t.Name] = t }
}

// WithMaxSteps overrides the step budget. Values below one keep the
// default.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		if n >= 1 {
			a.maxSteps = n
		}
	}
}

// WithLogger sets the logger used for per-step progress.
func WithLogger(logger *log.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// New creates an Agent. Without WithTool options the agent has no
// tools and the model can only answer directly.
func New(provider llm.Provider, opts ...Option) *Agent {
	a := &Agent{
		provider: provider,
		tools:    make(map[string]Tool),
		maxSteps: DefaultMaxSteps,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Step records one completed turn of the loop.
type Step struct {
	Thought     string `json:"thought"`
	Action      string `json:"action"`
	ActionInput string `json:"action_input"`
	Observation string `json:"observation"`
}

// Result is the outcome of a run.
type Result struct {
	RunID       string `json:"run_id"`
	Steps       []Step `json:"steps"`
	FinalAnswer string `json:"final_answer"`
	TotalSteps  int    `json:"total_steps"`
	Provider    string `json:"provider"`
	State       State  `json:"state"`
}

// Run tracks the in-flight loop state for one task.
type Run struct {
	id       string
	state    State
	messages []llm.Message
	steps    []Step
	answer   string
}

// Run executes the loop for task until the model produces a final
// answer or the step budget is exhausted. On budget exhaustion the
// partial result is returned alongside a BUDGET_EXHAUSTED error.
func (a *Agent) Run(ctx context.Context, task string) (*Result, error) {
	run := &Run{
		id:    uuid.NewString(),
		state: StateAwaitingModel,
		messages: []llm.Message{
			{Role: llm.RoleUser, Content: task},
		},
	}
	system := a.systemPrompt()

	logger := a.logger.With("run", run.id)
	logger.Debug("starting run", "task", task, "max_steps", a.maxSteps)

	for turn := 0; turn < a.maxSteps; turn++ {
		completion, err := a.provider.Complete(ctx, system, run.messages)
		if err != nil {
			return nil, err
		}
		r := parseReply(completion)

		// The answer wins over a simultaneous action.
		if r.FinalAnswer != "" || r.Action == "" {
			if err := run.transition(StateDone); err != nil {
				return nil, err
			}
			run.answer = r.FinalAnswer
			if run.answer == "" {
				// No labeled sections at all: the whole reply is the answer.
				run.answer = completion
			}
			if r.Thought != "" {
				run.steps = append(run.steps, Step{Thought: r.Thought})
			}
			logger.Debug("run complete", "steps", len(run.steps))
			return run.result(a.provider.Name()), nil
		}

		if err := run.transition(StateExecutingTool); err != nil {
			return nil, err
		}
		observation := a.execute(ctx, r.Action, r.ActionInput)
		logger.Debug("executed tool", "turn", turn+1, "tool", r.Action)

		run.steps = append(run.steps, Step{
			Thought:     r.Thought,
			Action:      r.Action,
			ActionInput: r.ActionInput,
			Observation: observation,
		})
		run.messages = append(run.messages,
			llm.Message{Role: llm.RoleAssistant, Content: completion},
			llm.Message{Role: llm.RoleUser, Content: "Observation: " + observation},
		)

		if err := run.transition(StateAwaitingModel); err != nil {
			return nil, err
		}
	}

	if err := run.transition(StateExhaustedBudget); err != nil {
		return nil, err
	}
	logger.Warn("step budget exhausted", "steps", len(run.steps))
	return run.result(a.provider.Name()), errors.New(errors.ErrCodeBudgetExhausted,
		"no final answer after %d steps", a.maxSteps)
}

// execute runs the named tool and formats the observation. Failures
// become observations so the model can correct course instead of
// aborting the run.
func (a *Agent) execute(ctx context.Context, name, input string) string {
	tool, ok := a.tools[name]
	if !ok {
		return fmt.Sprintf("error: unknown tool %q; available tools:\n%s", name, describeTools(a.tools))
	}
	out, err := tool.Execute(ctx, input)
	if err != nil {
		return "error: " + err.Error()
	}
	return out
}

func (a *Agent) systemPrompt() string {
	return fmt.Sprintf(`You are a research assistant that explains papers and systems with diagrams.

You have access to these tools:
%s
Use this exact format on every turn:

Thought: your reasoning about what to do next
Action: the tool name
Action Input: the tool input

After each action you will receive an Observation. When you have enough
information, finish with:

Thought: your final reasoning
Final Answer: your answer to the user

Never emit an Action and a Final Answer in the same turn.`, describeTools(a.tools))
}

func (r *Run) result(provider string) *Result {
	return &Result{
		RunID:       r.id,
		Steps:       r.steps,
		FinalAnswer: r.answer,
		TotalSteps:  len(r.steps),
		Provider:    provider,
		State:       r.state,
	}
}
