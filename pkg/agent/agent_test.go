package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
)

// scriptedProvider returns canned completions in order.
type scriptedProvider struct {
	replies []string
	calls   int
	// seen records the message history of each call.
	seen [][]llm.Message
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "test-model" }

func (p *scriptedProvider) Complete(_ context.Context, _ string, messages []llm.Message) (string, error) {
	p.seen = append(p.seen, append([]llm.Message(nil), messages...))
	if p.calls >= len(p.replies) {
		return "", errors.New(errors.ErrCodeProviderResponse, "script exhausted")
	}
	reply := p.replies[p.calls]
	p.calls++
	return reply, nil
}

func TestRunToolThenAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: I should compile the pipeline first.\nAction: generate_diagram\nAction Input: {\"description\": \"Input -> Model -> Output\", \"type\": \"pipeline\"}",
		"Thought: The diagram compiled cleanly.\nFinal Answer: A three-stage pipeline covers it.",
	}}

	var compiled []DiagramRequest
	a := New(provider, WithTool(NewDiagramTool(func(req DiagramRequest, _ diagram.Result) {
		compiled = append(compiled, req)
	})))

	res, err := a.Run(context.Background(), "diagram a simple model")
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "A three-stage pipeline covers it.", res.FinalAnswer)
	assert.Equal(t, "scripted", res.Provider)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, "generate_diagram", res.Steps[0].Action)
	assert.Contains(t, res.Steps[0].Observation, `"nodes":3`)
	assert.Contains(t, res.Steps[0].Observation, `"edges":2`)
	assert.Equal(t, "The diagram compiled cleanly.", res.Steps[1].Thought)

	require.Len(t, compiled, 1)
	assert.Equal(t, "Input -> Model -> Output", compiled[0].Description)

	// Second call must carry the assistant turn and the observation.
	require.Len(t, provider.seen, 2)
	history := provider.seen[1]
	require.Len(t, history, 3)
	assert.Equal(t, llm.RoleAssistant, history[1].Role)
	assert.Contains(t, history[2].Content, "Observation:")
}

func TestRunImmediateAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: No tools needed.\nFinal Answer: done",
	}}

	res, err := New(provider).Run(context.Background(), "trivial")
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "done", res.FinalAnswer)
	assert.Equal(t, 1, provider.calls)
}

func TestRunUnlabeledReplyIsAnswer(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"just plain prose"}}

	res, err := New(provider).Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "just plain prose", res.FinalAnswer)
}

func TestRunUnknownToolRecovers(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: try something odd\nAction: search_web\nAction Input: cats",
		"Thought: fall back\nFinal Answer: recovered",
	}}

	a := New(provider, WithTool(NewDiagramTool(nil)))
	res, err := a.Run(context.Background(), "t")
	require.NoError(t, err)

	assert.Equal(t, StateDone, res.State)
	require.Len(t, res.Steps, 2)
	assert.Contains(t, res.Steps[0].Observation, "unknown tool")
	assert.Contains(t, res.Steps[0].Observation, "generate_diagram")
}

func TestRunToolErrorBecomesObservation(t *testing.T) {
	provider := &scriptedProvider{replies: []string{
		"Thought: compile\nAction: generate_diagram\nAction Input: {\"description\": \"A -> B\", \"type\": \"mindmap\"}",
		"Thought: bad style, retrying properly\nFinal Answer: fixed",
	}}

	a := New(provider, WithTool(NewDiagramTool(nil)))
	res, err := a.Run(context.Background(), "t")
	require.NoError(t, err)
	assert.Contains(t, res.Steps[0].Observation, "error:")
}

func TestRunBudgetExhausted(t *testing.T) {
	loop := "Thought: keep going\nAction: generate_diagram\nAction Input: {\"description\": \"A -> B\"}"
	provider := &scriptedProvider{replies: []string{loop, loop, loop}}

	a := New(provider, WithTool(NewDiagramTool(nil)), WithMaxSteps(3))
	res, err := a.Run(context.Background(), "t")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBudgetExhausted), "code = %v", errors.CodeOf(err))
	require.NotNil(t, res)
	assert.Equal(t, StateExhaustedBudget, res.State)
	assert.Equal(t, 3, res.TotalSteps)
}

func TestRunProviderErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{}

	_, err := New(provider).Run(context.Background(), "t")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeProviderResponse))
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name string
		text string
		want reply
	}{
		{
			name: "action turn",
			text: "Thought: compile it\nAction: generate_diagram\nAction Input: {\"description\": \"A -> B\"}",
			want: reply{Thought: "compile it", Action: "generate_diagram", ActionInput: `{"description": "A -> B"}`},
		},
		{
			name: "final turn",
			text: "Thought: done\nFinal Answer: the answer",
			want: reply{Thought: "done", FinalAnswer: "the answer"},
		},
		{
			name: "fenced action input",
			text: "Action: generate_diagram\nAction Input: ```json\n{\"description\": \"A\"}\n```",
			want: reply{Action: "generate_diagram", ActionInput: `{"description": "A"}`},
		},
		{
			name: "multiline final answer",
			text: "Final Answer: first line\nsecond line",
			want: reply{FinalAnswer: "first line\nsecond line"},
		},
		{
			name: "no labels",
			text: "just text",
			want: reply{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseReply(tt.text))
		})
	}
}

func TestStateTransitions(t *testing.T) {
	run := &Run{state: StateAwaitingModel}
	require.NoError(t, run.transition(StateExecutingTool))
	require.NoError(t, run.transition(StateAwaitingModel))
	require.NoError(t, run.transition(StateDone))

	err := run.transition(StateAwaitingModel)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))

	assert.True(t, StateDone.Terminal())
	assert.True(t, StateExhaustedBudget.Terminal())
	assert.False(t, StateAwaitingModel.Terminal())
	assert.False(t, StateExecutingTool.Terminal())
}
