package nodes

import (
	"context"
	"fmt"

	"smartcal/internal/agent"
	"smartcal/internal/logger"
	"smartcal/internal/store"
	"smartcal/internal/weather"
)

// WeatherNode fetches the current temperature and logs it to the store.
// A fetch failure aborts the cycle: without a fresh reading there is
// nothing to evaluate.
type WeatherNode struct {
	client    *weather.Client
	store     *store.Store
	threshold float64
}

func NewWeatherNode(client *weather.Client, st *store.Store, threshold float64) *WeatherNode {
	return &WeatherNode{
		client:    client,
		store:     st,
		threshold: threshold,
	}
}

func (w *WeatherNode) GetName() string {
	return "weather"
}

func (w *WeatherNode) GetType() agent.NodeType {
	return agent.NodeTypeWeather
}

func (w *WeatherNode) Execute(ctx context.Context, input agent.NodeInput) (agent.NodeOutput, error) {
	reading, err := w.client.Current(ctx)
	if err != nil {
		return agent.NodeOutput{}, err
	}

	conditionMet := reading.Temp > w.threshold
	if _, err := w.store.InsertObservation(ctx, reading.TakenAt, reading.Temp, conditionMet); err != nil {
		return agent.NodeOutput{}, err
	}

	fmt.Printf("Current temp in %s: %.1f°F\n", reading.Location, reading.Temp)
	logger.Info().
		Str("location", reading.Location).
		Float64("temp", reading.Temp).
		Str("condition", reading.Condition).
		Bool("above_threshold", conditionMet).
		Msg("weather observation logged")

	return agent.NodeOutput{
		Data: map[string]any{
			"temp":      reading.Temp,
			"condition": reading.Condition,
		},
	}, nil
}
