package agent

import (
	"context"

	"smartcal/pkg"
)

// Node represents a single processing unit in the agent graph
type Node interface {
	Execute(ctx context.Context, input NodeInput) (NodeOutput, error)
	GetName() string
	GetType() NodeType
}

// NodeType defines the different types of nodes in the check cycle
type NodeType string

const (
	NodeTypeWeather  NodeType = "weather"
	NodeTypeEvaluate NodeType = "evaluate"
	NodeTypeReason   NodeType = "reason"
	NodeTypeTask     NodeType = "task"
	NodeTypeRemind   NodeType = "remind"
)

// NodeInput carries accumulated cycle state into each node
type NodeInput struct {
	CycleID   string         `json:"cycle_id"`
	Temp      float64        `json:"temp"`
	WarmCount int            `json:"warm_count"`
	Sustained bool           `json:"sustained"`
	Decision  *pkg.Decision  `json:"decision,omitempty"`
	Task      *pkg.Task      `json:"task,omitempty"`
	Metadata  map[string]any `json:"metadata"`
}

// NodeOutput contains the output data from a node
type NodeOutput struct {
	Data     map[string]any `json:"data"`
	NextNode string         `json:"next_node,omitempty"`
	Error    error          `json:"error,omitempty"`
	Complete bool           `json:"complete"`
}

// GraphEdge describes a transition between nodes. Conditions are
// matched against the source node's output data.
type GraphEdge struct {
	To        string         `json:"to"`
	Condition map[string]any `json:"condition,omitempty"`
	Priority  int            `json:"priority"`
}

// GraphFlow describes the node wiring for a check cycle
type GraphFlow struct {
	StartNode string                 `json:"start_node"`
	Edges     map[string][]GraphEdge `json:"edges"`
}

// DefaultFlow is the standard check cycle: log the weather, evaluate
// sustained warmth, and only then spend an LLM call deciding whether a
// reminder task is worth creating. A sustained spell still inside the
// reminder cooldown stops at evaluate, so no duplicate task is created.
func DefaultFlow() GraphFlow {
	return GraphFlow{
		StartNode: "weather",
		Edges: map[string][]GraphEdge{
			"weather": {
				{To: "evaluate", Priority: 1},
			},
			"evaluate": {
				{To: "reason", Condition: map[string]any{"sustained": true, "cooling_down": false}, Priority: 1},
				{To: "complete", Priority: 2},
			},
			"reason": {
				{To: "task", Condition: map[string]any{"affirmative": true}, Priority: 1},
				{To: "complete", Priority: 2},
			},
			"task": {
				{To: "remind", Priority: 1},
			},
			"remind": {
				{To: "complete", Priority: 1},
			},
		},
	}
}
