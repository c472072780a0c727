package notify

import (
	"context"
	"fmt"

	"smartcal/internal/logger"
	"smartcal/pkg"
)

// Notifier delivers a reminder for a task
type Notifier interface {
	Notify(ctx context.Context, task pkg.Task) error
	Name() string
}

// ConsoleNotifier prints the reminder to stdout, which the cron job
// captures in its log.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (ConsoleNotifier) Name() string {
	return "console"
}

func (ConsoleNotifier) Notify(ctx context.Context, task pkg.Task) error {
	fmt.Printf("🚨 REMINDER: Task #%d\n%s\n", task.ID, task.Description)
	return nil
}

// Multi fans a reminder out to every configured notifier. The console
// notifier always runs first, so a webhook failure is non-fatal: the
// reminder already reached the log.
type Multi struct {
	notifiers []Notifier
}

func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Notify(ctx context.Context, task pkg.Task) error {
	var delivered int
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, task); err != nil {
			logger.Warn().Str("notifier", n.Name()).Int64("task_id", task.ID).
				Err(err).Msg("reminder delivery failed")
			continue
		}
		delivered++
	}

	if delivered == 0 && len(m.notifiers) > 0 {
		return fmt.Errorf("no notifier delivered reminder for task #%d", task.ID)
	}
	return nil
}
