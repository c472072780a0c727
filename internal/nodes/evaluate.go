package nodes

import (
	"context"
	"fmt"
	"time"

	"smartcal/internal/agent"
	"smartcal/internal/logger"
	"smartcal/internal/storage"
	"smartcal/internal/store"
)

// EvaluateNode checks whether warmth has been sustained over the
// trailing observation window. A sustained spell that already triggered
// a reminder recently is held back here, before the model call, so a
// warm afternoon does not produce a new task every cron run.
type EvaluateNode struct {
	store     *store.Store
	threshold float64
	checks    int
	interval  time.Duration
	cooldown  storage.Cooldown
}

func NewEvaluateNode(st *store.Store, threshold float64, checks int, interval time.Duration, cooldown storage.Cooldown) *EvaluateNode {
	return &EvaluateNode{
		store:     st,
		threshold: threshold,
		checks:    checks,
		interval:  interval,
		cooldown:  cooldown,
	}
}

func (e *EvaluateNode) GetName() string {
	return "evaluate"
}

func (e *EvaluateNode) GetType() agent.NodeType {
	return agent.NodeTypeEvaluate
}

func (e *EvaluateNode) Execute(ctx context.Context, input agent.NodeInput) (agent.NodeOutput, error) {
	count, met, err := e.store.SustainedWarmth(ctx, time.Now(), e.threshold, e.checks, e.interval)
	if err != nil {
		return agent.NodeOutput{}, err
	}

	fmt.Printf("Sustained >%.0f°F for %d/%d checks: %t\n", e.threshold, count, e.checks, met)
	logger.Info().
		Float64("threshold", e.threshold).
		Int("warm_count", count).
		Int("required", e.checks).
		Bool("sustained", met).
		Msg("sustained warmth evaluated")

	coolingDown := false
	if met {
		active, err := e.cooldown.Active(ctx)
		if err != nil {
			// A broken cooldown cache should not swallow reminders
			logger.Warn().Err(err).Msg("cooldown check failed, proceeding anyway")
		} else if active {
			coolingDown = true
			logger.Info().Msg("reminder cooldown active, skipping this cycle")
		}
	}

	return agent.NodeOutput{
		Data: map[string]any{
			"sustained":    met,
			"warm_count":   count,
			"cooling_down": coolingDown,
		},
	}, nil
}
