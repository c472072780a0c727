package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSnoozeDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"2d", 48 * time.Hour},
		{"2h", 2 * time.Hour},
		{"12h", 12 * time.Hour},
		{" 1d ", 24 * time.Hour},
		{"", 24 * time.Hour},
		{"tomorrow", 24 * time.Hour},
		{"0d", 24 * time.Hour},
		{"-2h", 24 * time.Hour},
		{"5m", 24 * time.Hour}, // minutes are not part of the grammar
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSnoozeDuration(tt.input))
		})
	}
}

func TestTaskOpen(t *testing.T) {
	assert.True(t, Task{Status: TaskStatusPending}.Open())
	assert.True(t, Task{Status: TaskStatusSnoozed}.Open())
	assert.False(t, Task{Status: TaskStatusDone}.Open())
}

func TestFormatTaskLine(t *testing.T) {
	task := Task{ID: 7, Status: TaskStatusPending, Description: "Test outside camera setup"}
	assert.Equal(t, "#7 [pending] Test outside camera setup", FormatTaskLine(task))
}
