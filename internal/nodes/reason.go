package nodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"smartcal/internal/agent"
	"smartcal/internal/logger"
	"smartcal/pkg"
)

const reasonSystemPrompt = `You are a home maintenance assistant. You decide whether a reminder to test the outdoor camera setup is worth sending, based on weather. Reason briefly, then confirm with Y or N.`

const reasonUserPrompt = `Weather in {location}: {temp}°F sustained >{threshold}°F for {window}+ hrs.
Should we remind to test outside camera? Reason briefly, confirm Y/N.`

// ReasonTemplate builds the chat prompt template for the reminder
// decision
func ReasonTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(reasonSystemPrompt),
		schema.UserMessage(reasonUserPrompt),
	)
}

// ReasonNode asks the LLM whether a reminder is warranted. It only runs
// once sustained warmth is established, so every invocation costs at
// most one model call per cron cycle.
type ReasonNode struct {
	chain     compose.Runnable[map[string]any, *schema.Message]
	location  string
	threshold float64
	window    time.Duration
}

func NewReasonNode(ctx context.Context, chatModel einomodel.BaseChatModel, location string, threshold float64, checks int, interval time.Duration) (*ReasonNode, error) {
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(ReasonTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error compiling reasoning chain: %w", err)
	}

	return &ReasonNode{
		chain:     chain,
		location:  location,
		threshold: threshold,
		window:    time.Duration(checks) * interval,
	}, nil
}

func (r *ReasonNode) GetName() string {
	return "reason"
}

func (r *ReasonNode) GetType() agent.NodeType {
	return agent.NodeTypeReason
}

func (r *ReasonNode) Execute(ctx context.Context, input agent.NodeInput) (agent.NodeOutput, error) {
	start := time.Now()

	out, err := r.chain.Invoke(ctx, r.promptVars(input.Temp))
	if err != nil {
		return agent.NodeOutput{}, fmt.Errorf("error generating reasoning: %w", err)
	}

	reasoning := strings.TrimSpace(out.Content)
	decision := &pkg.Decision{
		Affirmative: isAffirmative(reasoning),
		Reasoning:   reasoning,
	}

	logger.Info().
		Bool("affirmative", decision.Affirmative).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("🧠 model reasoning complete")

	if !decision.Affirmative {
		fmt.Printf("LLM declined: %s\n", reasoning)
	}

	return agent.NodeOutput{
		Data: map[string]any{
			"decision":    decision,
			"affirmative": decision.Affirmative,
		},
	}, nil
}

func (r *ReasonNode) promptVars(temp float64) map[string]any {
	return map[string]any{
		"location":  r.location,
		"temp":      strconv.FormatFloat(temp, 'f', 1, 64),
		"threshold": strconv.FormatFloat(r.threshold, 'f', -1, 64),
		"window":    strconv.FormatFloat(r.window.Hours(), 'f', -1, 64),
	}
}

// isAffirmative applies the decision rule the agent has always used:
// the upper-cased answer counts as a yes when it contains "Y".
func isAffirmative(reasoning string) bool {
	return strings.Contains(strings.ToUpper(reasoning), "Y")
}
