package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"smartcal/internal/logger"
	"smartcal/pkg"
)

// GraphProcessor drives a check cycle through its node graph
type GraphProcessor struct {
	nodes map[string]Node
	flow  GraphFlow
}

// NewGraphProcessor creates a processor with the given flow
func NewGraphProcessor(flow GraphFlow) *GraphProcessor {
	return &GraphProcessor{
		nodes: make(map[string]Node),
		flow:  flow,
	}
}

// AddNode registers a node with the processor
func (g *GraphProcessor) AddNode(node Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	nodeName := node.GetName()
	if nodeName == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	g.nodes[nodeName] = node
	logger.Debug().Str("node", nodeName).Str("type", string(node.GetType())).Msg("node registered")

	return nil
}

// GetNode retrieves a node by name
func (g *GraphProcessor) GetNode(name string) (Node, error) {
	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return node, nil
}

// Execute runs one check cycle through the graph
func (g *GraphProcessor) Execute(ctx context.Context) (*pkg.CheckResult, error) {
	startTime := time.Now()

	result := &pkg.CheckResult{
		CycleID:  uuid.NewString(),
		Metadata: make(map[string]any),
	}

	logger.Info().Str("cycle_id", result.CycleID).Msg("🚀 starting check cycle")

	nodeInput := NodeInput{
		CycleID:  result.CycleID,
		Metadata: make(map[string]any),
	}

	currentNode := g.flow.StartNode
	var executionPath []string

	for currentNode != "" && currentNode != "complete" {
		executionPath = append(executionPath, currentNode)
		logger.Debug().Str("node", currentNode).Msg("executing node")

		node, exists := g.nodes[currentNode]
		if !exists {
			return nil, fmt.Errorf("node not found: %s", currentNode)
		}

		nodeOutput, err := node.Execute(ctx, nodeInput)
		if err != nil {
			logger.Error().Str("node", currentNode).Err(err).Msg("node execution failed")
			result.ExecutionPath = executionPath
			return result, fmt.Errorf("error executing node %s: %w", currentNode, err)
		}

		// Non-fatal node errors are collected in cycle metadata
		if nodeOutput.Error != nil {
			logger.Warn().Str("node", currentNode).Err(nodeOutput.Error).Msg("node reported error")
			result.Metadata["errors"] = append(getStringSlice(result.Metadata, "errors"), nodeOutput.Error.Error())
		}

		g.mergeNodeOutput(currentNode, nodeOutput, result, &nodeInput)

		if nodeOutput.Complete {
			logger.Debug().Str("node", currentNode).Msg("cycle completed by node")
			break
		}

		nextNode := nodeOutput.NextNode
		if nextNode == "" {
			nextNode = g.getNextNode(currentNode, nodeOutput)
		}
		currentNode = nextNode
	}

	result.ExecutionPath = executionPath
	result.ElapsedMillis = time.Since(startTime).Milliseconds()

	logger.Info().
		Str("cycle_id", result.CycleID).
		Strs("path", executionPath).
		Int64("elapsed_ms", result.ElapsedMillis).
		Msg("🏁 check cycle finished")

	return result, nil
}

// mergeNodeOutput folds a node's output into the cycle result and the
// input handed to downstream nodes
func (g *GraphProcessor) mergeNodeOutput(nodeName string, nodeOutput NodeOutput, result *pkg.CheckResult, nodeInput *NodeInput) {
	for key, value := range nodeOutput.Data {
		switch key {
		case "temp":
			if temp, ok := value.(float64); ok {
				result.Temp = temp
				nodeInput.Temp = temp
			}
		case "warm_count":
			if count, ok := value.(int); ok {
				nodeInput.WarmCount = count
			}
		case "sustained":
			if sustained, ok := value.(bool); ok {
				result.Sustained = sustained
				nodeInput.Sustained = sustained
			}
		case "decision":
			if decision, ok := value.(*pkg.Decision); ok {
				result.Decision = decision
				nodeInput.Decision = decision
			}
		case "task":
			if task, ok := value.(*pkg.Task); ok {
				result.TaskID = task.ID
				result.TaskCreated = true
				nodeInput.Task = task
			}
		case "reminder_sent":
			if sent, ok := value.(bool); ok {
				result.ReminderSent = sent
			}
		case "affirmative", "cooling_down":
			// Edge conditions only; not part of the cycle result
		default:
			result.Metadata[fmt.Sprintf("%s_%s", nodeName, key)] = value
			nodeInput.Metadata[key] = value
		}
	}
}

// getNextNode determines the next node based on flow edges and conditions
func (g *GraphProcessor) getNextNode(currentNode string, nodeOutput NodeOutput) string {
	edges, exists := g.flow.Edges[currentNode]
	if !exists || len(edges) == 0 {
		return "complete"
	}

	for _, edge := range sortEdgesByPriority(edges) {
		if evaluateCondition(edge.Condition, nodeOutput) {
			return edge.To
		}
	}

	return "complete"
}

// sortEdgesByPriority sorts edges by priority (lower number = higher priority)
func sortEdgesByPriority(edges []GraphEdge) []GraphEdge {
	sorted := make([]GraphEdge, len(edges))
	copy(sorted, edges)

	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if sorted[j].Priority > sorted[j+1].Priority {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}

	return sorted
}

// evaluateCondition checks all condition entries against node output data
func evaluateCondition(condition map[string]any, nodeOutput NodeOutput) bool {
	if len(condition) == 0 {
		return true
	}

	for key, expectedValue := range condition {
		actualValue, exists := nodeOutput.Data[key]
		if !exists {
			return false
		}
		if actualValue != expectedValue {
			return false
		}
	}

	return true
}

func getStringSlice(metadata map[string]any, key string) []string {
	if value, exists := metadata[key]; exists {
		if slice, ok := value.([]string); ok {
			return slice
		}
	}
	return []string{}
}
