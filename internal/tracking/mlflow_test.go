package tracking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMLflow records the tracking calls a check run makes
type fakeMLflow struct {
	mu          sync.Mutex
	experiments map[string]string
	created     []string
	params      []map[string]any
	metrics     []map[string]any
	tags        []map[string]any
	updates     []map[string]any
}

func newFakeMLflow(existing ...string) *fakeMLflow {
	f := &fakeMLflow{experiments: make(map[string]string)}
	for i, name := range existing {
		f.experiments[name] = string(rune('1' + i))
	}
	return f
}

func (f *fakeMLflow) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(body, &payload)

		switch r.URL.Path {
		case "/api/2.0/mlflow/experiments/get-by-name":
			name := r.URL.Query().Get("experiment_name")
			id, ok := f.experiments[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error_code": "RESOURCE_DOES_NOT_EXIST"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"experiment": map[string]any{"experiment_id": id},
			})

		case "/api/2.0/mlflow/experiments/create":
			name := payload["name"].(string)
			f.experiments[name] = "42"
			f.created = append(f.created, name)
			w.Write([]byte(`{"experiment_id": "42"}`))

		case "/api/2.0/mlflow/runs/create":
			json.NewEncoder(w).Encode(map[string]any{
				"run": map[string]any{
					"info": map[string]any{"run_id": "run-123"},
				},
			})

		case "/api/2.0/mlflow/runs/log-parameter":
			f.params = append(f.params, payload)
			w.Write([]byte(`{}`))

		case "/api/2.0/mlflow/runs/log-metric":
			f.metrics = append(f.metrics, payload)
			w.Write([]byte(`{}`))

		case "/api/2.0/mlflow/runs/set-tag":
			f.tags = append(f.tags, payload)
			w.Write([]byte(`{}`))

		case "/api/2.0/mlflow/runs/update":
			f.updates = append(f.updates, payload)
			w.Write([]byte(`{}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestMLflowClientCreatesMissingExperiment(t *testing.T) {
	fake := newFakeMLflow()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client, err := NewMLflowClient(context.Background(), server.URL, "/smartcal1")
	require.NoError(t, err)

	assert.Equal(t, []string{"/smartcal1"}, fake.created)
	assert.Equal(t, "42", client.experimentID)
}

func TestMLflowClientReusesExperiment(t *testing.T) {
	fake := newFakeMLflow("/smartcal1")
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client, err := NewMLflowClient(context.Background(), server.URL, "/smartcal1")
	require.NoError(t, err)

	assert.Empty(t, fake.created)
	assert.Equal(t, "1", client.experimentID)
}

func TestRunLogging(t *testing.T) {
	fake := newFakeMLflow("/smartcal1")
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	ctx := context.Background()
	client, err := NewMLflowClient(ctx, server.URL, "/smartcal1")
	require.NoError(t, err)

	run, err := client.StartRun(ctx, "check-2026-08-31T10:00:00Z")
	require.NoError(t, err)

	run.LogParam(ctx, "location", "Park Forest,IL,US")
	run.LogMetric(ctx, "current_temp", 52.4)
	run.SetTag(ctx, "llm_reasoning", "Y, it is warm enough.")
	run.End(ctx, StatusFinished)

	require.Len(t, fake.params, 1)
	assert.Equal(t, "run-123", fake.params[0]["run_id"])
	assert.Equal(t, "location", fake.params[0]["key"])

	require.Len(t, fake.metrics, 1)
	assert.Equal(t, "current_temp", fake.metrics[0]["key"])
	assert.Equal(t, 52.4, fake.metrics[0]["value"])

	require.Len(t, fake.tags, 1)
	assert.Equal(t, "llm_reasoning", fake.tags[0]["key"])

	require.Len(t, fake.updates, 1)
	assert.Equal(t, StatusFinished, fake.updates[0]["status"])
}

func TestNoopTracker(t *testing.T) {
	ctx := context.Background()

	run, err := NewNoopTracker().StartRun(ctx, "check")
	require.NoError(t, err)

	// All operations are safe no-ops
	run.LogParam(ctx, "k", "v")
	run.LogMetric(ctx, "k", 1)
	run.SetTag(ctx, "k", "v")
	run.End(ctx, StatusFailed)
}

func TestNewMLflowClientRequiresURI(t *testing.T) {
	_, err := NewMLflowClient(context.Background(), "", "/smartcal1")
	assert.Error(t, err)
}
