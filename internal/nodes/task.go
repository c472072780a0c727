package nodes

import (
	"context"
	"fmt"

	"smartcal/internal/agent"
	"smartcal/internal/logger"
	"smartcal/internal/store"
)

// TaskNode creates the pending reminder task once the model confirms
type TaskNode struct {
	store *store.Store
}

func NewTaskNode(st *store.Store) *TaskNode {
	return &TaskNode{store: st}
}

func (t *TaskNode) GetName() string {
	return "task"
}

func (t *TaskNode) GetType() agent.NodeType {
	return agent.NodeTypeTask
}

func (t *TaskNode) Execute(ctx context.Context, input agent.NodeInput) (agent.NodeOutput, error) {
	reasoning := "weather trigger"
	if input.Decision != nil && input.Decision.Reasoning != "" {
		reasoning = input.Decision.Reasoning
	}

	description := fmt.Sprintf("Test outside camera setup (reasoning: %s)", reasoning)

	id, err := t.store.CreateTask(ctx, description)
	if err != nil {
		return agent.NodeOutput{}, err
	}

	task, err := t.store.Task(ctx, id)
	if err != nil {
		return agent.NodeOutput{}, err
	}

	fmt.Printf("✅ Created task #%d: %s\n", id, description)
	logger.Info().Int64("task_id", id).Msg("reminder task created")

	return agent.NodeOutput{
		Data: map[string]any{
			"task": task,
		},
	}, nil
}
