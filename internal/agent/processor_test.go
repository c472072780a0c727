package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcal/pkg"
)

// fakeNode returns a canned output and records whether it ran
type fakeNode struct {
	name   string
	output NodeOutput
	err    error
	ran    bool
	seen   NodeInput
}

func (f *fakeNode) GetName() string      { return f.name }
func (f *fakeNode) GetType() NodeType    { return NodeType(f.name) }
func (f *fakeNode) Execute(ctx context.Context, input NodeInput) (NodeOutput, error) {
	f.ran = true
	f.seen = input
	return f.output, f.err
}

func buildTestProcessor(t *testing.T, nodes ...*fakeNode) *GraphProcessor {
	t.Helper()

	processor := NewGraphProcessor(DefaultFlow())
	for _, node := range nodes {
		require.NoError(t, processor.AddNode(node))
	}
	return processor
}

func TestExecuteStopsWhenNotSustained(t *testing.T) {
	weather := &fakeNode{name: "weather", output: NodeOutput{Data: map[string]any{"temp": 42.0}}}
	evaluate := &fakeNode{name: "evaluate", output: NodeOutput{Data: map[string]any{"sustained": false, "warm_count": 1}}}
	reason := &fakeNode{name: "reason"}

	processor := buildTestProcessor(t, weather, evaluate, reason)

	result, err := processor.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"weather", "evaluate"}, result.ExecutionPath)
	assert.False(t, reason.ran)
	assert.Equal(t, 42.0, result.Temp)
	assert.False(t, result.Sustained)
	assert.False(t, result.TaskCreated)
	assert.NotEmpty(t, result.CycleID)
}

func TestExecuteStopsWhenCoolingDown(t *testing.T) {
	weather := &fakeNode{name: "weather", output: NodeOutput{Data: map[string]any{"temp": 55.0}}}
	evaluate := &fakeNode{name: "evaluate", output: NodeOutput{Data: map[string]any{"sustained": true, "warm_count": 4, "cooling_down": true}}}
	reason := &fakeNode{name: "reason"}

	processor := buildTestProcessor(t, weather, evaluate, reason)

	result, err := processor.Execute(context.Background())
	require.NoError(t, err)

	// Sustained warmth inside the cooldown never reaches the model
	assert.Equal(t, []string{"weather", "evaluate"}, result.ExecutionPath)
	assert.False(t, reason.ran)
	assert.True(t, result.Sustained)
	assert.False(t, result.TaskCreated)
}

func TestExecuteStopsWhenModelDeclines(t *testing.T) {
	decision := &pkg.Decision{Affirmative: false, Reasoning: "N, too early in the season."}

	weather := &fakeNode{name: "weather", output: NodeOutput{Data: map[string]any{"temp": 52.0}}}
	evaluate := &fakeNode{name: "evaluate", output: NodeOutput{Data: map[string]any{"sustained": true, "warm_count": 4, "cooling_down": false}}}
	reason := &fakeNode{name: "reason", output: NodeOutput{Data: map[string]any{"decision": decision, "affirmative": false}}}
	task := &fakeNode{name: "task"}

	processor := buildTestProcessor(t, weather, evaluate, reason, task)

	result, err := processor.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"weather", "evaluate", "reason"}, result.ExecutionPath)
	assert.False(t, task.ran)
	assert.True(t, result.Sustained)
	assert.Equal(t, decision, result.Decision)
	assert.False(t, result.TaskCreated)
}

func TestExecuteFullPath(t *testing.T) {
	decision := &pkg.Decision{Affirmative: true, Reasoning: "Y, warm and dry."}
	created := &pkg.Task{ID: 9, Description: "Test outside camera setup", Status: pkg.TaskStatusPending}

	weather := &fakeNode{name: "weather", output: NodeOutput{Data: map[string]any{"temp": 55.5}}}
	evaluate := &fakeNode{name: "evaluate", output: NodeOutput{Data: map[string]any{"sustained": true, "warm_count": 4, "cooling_down": false}}}
	reason := &fakeNode{name: "reason", output: NodeOutput{Data: map[string]any{"decision": decision, "affirmative": true}}}
	task := &fakeNode{name: "task", output: NodeOutput{Data: map[string]any{"task": created}}}
	remind := &fakeNode{name: "remind", output: NodeOutput{Data: map[string]any{"reminder_sent": true}, Complete: true}}

	processor := buildTestProcessor(t, weather, evaluate, reason, task, remind)

	result, err := processor.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"weather", "evaluate", "reason", "task", "remind"}, result.ExecutionPath)
	assert.True(t, result.TaskCreated)
	assert.Equal(t, int64(9), result.TaskID)
	assert.True(t, result.ReminderSent)

	// Downstream nodes see accumulated state
	assert.Equal(t, 55.5, remind.seen.Temp)
	assert.True(t, remind.seen.Sustained)
	assert.Equal(t, decision, remind.seen.Decision)
	assert.Equal(t, created, remind.seen.Task)
}

func TestExecutePropagatesNodeFailure(t *testing.T) {
	weather := &fakeNode{name: "weather", err: fmt.Errorf("weather API returned 500")}

	processor := buildTestProcessor(t, weather)

	result, err := processor.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather")
	require.NotNil(t, result)
	assert.Equal(t, []string{"weather"}, result.ExecutionPath)
}

func TestExecuteCollectsNonFatalErrors(t *testing.T) {
	weather := &fakeNode{name: "weather", output: NodeOutput{
		Data:  map[string]any{"temp": 40.0},
		Error: fmt.Errorf("stale reading"),
	}}
	evaluate := &fakeNode{name: "evaluate", output: NodeOutput{Data: map[string]any{"sustained": false}}}

	processor := buildTestProcessor(t, weather, evaluate)

	result, err := processor.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"stale reading"}, result.Metadata["errors"])
}

func TestExecuteMissingNode(t *testing.T) {
	processor := NewGraphProcessor(DefaultFlow())

	_, err := processor.Execute(context.Background())
	assert.ErrorContains(t, err, "node not found")
}

func TestAddNodeValidation(t *testing.T) {
	processor := NewGraphProcessor(DefaultFlow())

	assert.Error(t, processor.AddNode(nil))
	assert.Error(t, processor.AddNode(&fakeNode{name: ""}))

	node := &fakeNode{name: "weather"}
	require.NoError(t, processor.AddNode(node))

	got, err := processor.GetNode("weather")
	require.NoError(t, err)
	assert.Same(t, node, got.(*fakeNode))

	_, err = processor.GetNode("missing")
	assert.Error(t, err)
}

func TestEvaluateCondition(t *testing.T) {
	output := NodeOutput{Data: map[string]any{"sustained": true, "warm_count": 4}}

	assert.True(t, evaluateCondition(nil, output))
	assert.True(t, evaluateCondition(map[string]any{"sustained": true}, output))
	assert.False(t, evaluateCondition(map[string]any{"sustained": false}, output))
	assert.False(t, evaluateCondition(map[string]any{"missing": true}, output))
}
