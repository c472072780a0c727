package tracking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bytedance/sonic"

	"smartcal/internal/logger"
)

// Run statuses accepted by the MLflow runs/update endpoint
const (
	StatusFinished = "FINISHED"
	StatusFailed   = "FAILED"
)

// Tracker records check runs to an experiment tracking backend
type Tracker interface {
	StartRun(ctx context.Context, name string) (Run, error)
}

// Run is an in-flight tracking run. Logging methods never fail the
// caller; tracking problems are logged and swallowed so a flaky MLflow
// server cannot break the cron cycle.
type Run interface {
	LogParam(ctx context.Context, key, value string)
	LogMetric(ctx context.Context, key string, value float64)
	SetTag(ctx context.Context, key, value string)
	End(ctx context.Context, status string)
}

// MLflowClient talks to an MLflow tracking server over its REST API
type MLflowClient struct {
	baseURL      string
	experiment   string
	experimentID string
	http         *http.Client
}

// NewMLflowClient creates a tracker bound to the named experiment,
// creating the experiment on the server if it does not exist yet.
func NewMLflowClient(ctx context.Context, baseURL, experiment string) (*MLflowClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("MLFLOW_URI is required")
	}

	client := &MLflowClient{
		baseURL:    baseURL,
		experiment: experiment,
		http:       &http.Client{Timeout: 10 * time.Second},
	}

	id, err := client.ensureExperiment(ctx)
	if err != nil {
		return nil, err
	}
	client.experimentID = id

	return client, nil
}

func (c *MLflowClient) ensureExperiment(ctx context.Context) (string, error) {
	endpoint := c.baseURL + "/api/2.0/mlflow/experiments/get-by-name?experiment_name=" +
		url.QueryEscape(c.experiment)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach MLflow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var payload struct {
			Experiment struct {
				ExperimentID string `json:"experiment_id"`
			} `json:"experiment"`
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		if err := sonic.Unmarshal(body, &payload); err != nil {
			return "", fmt.Errorf("error parsing experiment response: %w", err)
		}
		return payload.Experiment.ExperimentID, nil
	}

	// Experiment missing; create it
	var created struct {
		ExperimentID string `json:"experiment_id"`
	}
	err = c.post(ctx, "/api/2.0/mlflow/experiments/create",
		map[string]any{"name": c.experiment}, &created)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment %q: %w", c.experiment, err)
	}
	return created.ExperimentID, nil
}

// StartRun creates a new run under the configured experiment
func (c *MLflowClient) StartRun(ctx context.Context, name string) (Run, error) {
	var payload struct {
		Run struct {
			Info struct {
				RunID string `json:"run_id"`
			} `json:"info"`
		} `json:"run"`
	}

	err := c.post(ctx, "/api/2.0/mlflow/runs/create", map[string]any{
		"experiment_id": c.experimentID,
		"run_name":      name,
		"start_time":    time.Now().UnixMilli(),
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create MLflow run: %w", err)
	}

	return &mlflowRun{client: c, runID: payload.Run.Info.RunID}, nil
}

func (c *MLflowClient) post(ctx context.Context, path string, body any, out any) error {
	data, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost,
				c.baseURL+path, bytes.NewReader(data))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			if resp.StatusCode >= 500 {
				return fmt.Errorf("MLflow returned %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("MLflow returned %d: %s", resp.StatusCode, respBody))
			}

			if out != nil {
				if err := sonic.Unmarshal(respBody, out); err != nil {
					return retry.Unrecoverable(err)
				}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}

type mlflowRun struct {
	client *MLflowClient
	runID  string
}

func (r *mlflowRun) LogParam(ctx context.Context, key, value string) {
	err := r.client.post(ctx, "/api/2.0/mlflow/runs/log-parameter", map[string]any{
		"run_id": r.runID,
		"key":    key,
		"value":  value,
	}, nil)
	if err != nil {
		logger.Warn().Str("param", key).Err(err).Msg("failed to log MLflow param")
	}
}

func (r *mlflowRun) LogMetric(ctx context.Context, key string, value float64) {
	err := r.client.post(ctx, "/api/2.0/mlflow/runs/log-metric", map[string]any{
		"run_id":    r.runID,
		"key":       key,
		"value":     value,
		"timestamp": time.Now().UnixMilli(),
		"step":      0,
	}, nil)
	if err != nil {
		logger.Warn().Str("metric", key).Err(err).Msg("failed to log MLflow metric")
	}
}

func (r *mlflowRun) SetTag(ctx context.Context, key, value string) {
	err := r.client.post(ctx, "/api/2.0/mlflow/runs/set-tag", map[string]any{
		"run_id": r.runID,
		"key":    key,
		"value":  value,
	}, nil)
	if err != nil {
		logger.Warn().Str("tag", key).Err(err).Msg("failed to set MLflow tag")
	}
}

func (r *mlflowRun) End(ctx context.Context, status string) {
	err := r.client.post(ctx, "/api/2.0/mlflow/runs/update", map[string]any{
		"run_id":   r.runID,
		"status":   status,
		"end_time": time.Now().UnixMilli(),
	}, nil)
	if err != nil {
		logger.Warn().Str("status", status).Err(err).Msg("failed to close MLflow run")
	}
}
