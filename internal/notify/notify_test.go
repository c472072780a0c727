package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcal/pkg"
)

var testTask = pkg.Task{
	ID:          3,
	Description: "Test outside camera setup (reasoning: weather trigger)",
	Status:      pkg.TaskStatusPending,
}

func TestDiscordNotifier(t *testing.T) {
	var gotContent atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		gotContent.Store(payload["content"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewDiscordNotifier(server.URL).Notify(context.Background(), testTask)
	require.NoError(t, err)

	content := gotContent.Load().(string)
	assert.Contains(t, content, "Task #3")
	assert.Contains(t, content, "Test outside camera setup")
}

func TestDiscordNotifierRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewDiscordNotifier(server.URL).Notify(context.Background(), testTask)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDiscordNotifierBadWebhook(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewDiscordNotifier(server.URL).Notify(context.Background(), testTask)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

type failingNotifier struct{}

func (failingNotifier) Name() string { return "failing" }
func (failingNotifier) Notify(ctx context.Context, task pkg.Task) error {
	return fmt.Errorf("boom")
}

type countingNotifier struct {
	calls atomic.Int32
}

func (c *countingNotifier) Name() string { return "counting" }
func (c *countingNotifier) Notify(ctx context.Context, task pkg.Task) error {
	c.calls.Add(1)
	return nil
}

func TestMultiDeliversDespitePartialFailure(t *testing.T) {
	counting := &countingNotifier{}
	multi := NewMulti(counting, failingNotifier{})

	err := multi.Notify(context.Background(), testTask)
	require.NoError(t, err)
	assert.Equal(t, int32(1), counting.calls.Load())
}

func TestMultiFailsWhenNothingDelivers(t *testing.T) {
	multi := NewMulti(failingNotifier{})

	err := multi.Notify(context.Background(), testTask)
	assert.Error(t, err)
}

func TestConsoleNotifier(t *testing.T) {
	// Console delivery cannot fail
	assert.NoError(t, NewConsoleNotifier().Notify(context.Background(), testTask))
}
