package tracking

import "context"

// NoopTracker is used when no MLflow server is configured. Every
// operation succeeds and records nothing.
type NoopTracker struct{}

func NewNoopTracker() *NoopTracker {
	return &NoopTracker{}
}

func (NoopTracker) StartRun(ctx context.Context, name string) (Run, error) {
	return noopRun{}, nil
}

type noopRun struct{}

func (noopRun) LogParam(ctx context.Context, key, value string)      {}
func (noopRun) LogMetric(ctx context.Context, key string, v float64) {}
func (noopRun) SetTag(ctx context.Context, key, value string)        {}
func (noopRun) End(ctx context.Context, status string)               {}
