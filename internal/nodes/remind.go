package nodes

import (
	"context"
	"fmt"
	"time"

	"smartcal/internal/agent"
	"smartcal/internal/logger"
	"smartcal/internal/notify"
	"smartcal/internal/storage"
)

// RemindNode delivers the reminder for a freshly created task and
// starts the cooldown window the evaluate stage consults on later runs.
type RemindNode struct {
	notifier notify.Notifier
	cooldown storage.Cooldown
	ttl      time.Duration
}

func NewRemindNode(notifier notify.Notifier, cooldown storage.Cooldown, ttl time.Duration) *RemindNode {
	return &RemindNode{
		notifier: notifier,
		cooldown: cooldown,
		ttl:      ttl,
	}
}

func (r *RemindNode) GetName() string {
	return "remind"
}

func (r *RemindNode) GetType() agent.NodeType {
	return agent.NodeTypeRemind
}

func (r *RemindNode) Execute(ctx context.Context, input agent.NodeInput) (agent.NodeOutput, error) {
	if input.Task == nil {
		return agent.NodeOutput{Error: fmt.Errorf("no task available to remind about")}, nil
	}

	if err := r.notifier.Notify(ctx, *input.Task); err != nil {
		return agent.NodeOutput{}, err
	}

	if err := r.cooldown.Mark(ctx, r.ttl); err != nil {
		logger.Warn().Int64("task_id", input.Task.ID).Err(err).Msg("failed to mark reminder cooldown")
	}

	return agent.NodeOutput{
		Data:     map[string]any{"reminder_sent": true},
		Complete: true,
	}, nil
}
