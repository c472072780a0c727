package pkg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Core types shared between the store, the agent graph and the CLI.

// TaskStatus is the lifecycle state of a reminder task
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusSnoozed TaskStatus = "snoozed"
	TaskStatusDone    TaskStatus = "done"
)

// Task represents a camera test reminder task
type Task struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	SnoozeUntil *time.Time `json:"snooze_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Open reports whether the task still needs attention
func (t Task) Open() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusSnoozed
}

// Observation represents a single weather reading logged during a check run
type Observation struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Temp         float64   `json:"temp"`
	ConditionMet bool      `json:"condition_met"`
}

// Decision contains the model's verdict on whether to remind
type Decision struct {
	Affirmative bool   `json:"affirmative"`
	Reasoning   string `json:"reasoning"`
}

// CheckResult is the aggregated output of one agent check cycle
type CheckResult struct {
	CycleID       string         `json:"cycle_id"`
	Temp          float64        `json:"temp"`
	Sustained     bool           `json:"sustained"`
	Decision      *Decision      `json:"decision,omitempty"`
	TaskID        int64          `json:"task_id,omitempty"`
	TaskCreated   bool           `json:"task_created"`
	ReminderSent  bool           `json:"reminder_sent"`
	ExecutionPath []string       `json:"execution_path"`
	Metadata      map[string]any `json:"metadata"`
	ElapsedMillis int64          `json:"elapsed_ms"`
}

// ParseSnoozeDuration parses durations like "1d" or "2h".
// Anything unparseable falls back to one day, matching the snooze
// behavior the cron job has always had.
func ParseSnoozeDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err == nil && n > 0 {
			switch s[len(s)-1] {
			case 'd':
				return time.Duration(n) * 24 * time.Hour
			case 'h':
				return time.Duration(n) * time.Hour
			}
		}
	}
	return 24 * time.Hour
}

// FormatTaskLine renders a task the way `smartcal list` prints it
func FormatTaskLine(t Task) string {
	return fmt.Sprintf("#%d [%s] %s", t.ID, t.Status, t.Description)
}
