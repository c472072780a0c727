package nodes

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"

	"smartcal/internal/config"
)

// NewChatModel builds the chat model the reason node talks to. The
// default is a local Ollama instance (phi3:mini); an OpenAI-compatible
// endpoint can be selected for hosted models.
func NewChatModel(ctx context.Context, cfg config.ModelConfig) (einomodel.BaseChatModel, error) {
	switch cfg.Provider {
	case "ollama", "":
		temperature := float32(cfg.Temperature)
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.OllamaURL,
			Timeout: 60 * time.Second,
			Model:   cfg.Model,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  cfg.MaxTokens,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return chatModel, nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		maxTokens := cfg.MaxTokens
		temperature := float32(cfg.Temperature)
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return chatModel, nil

	default:
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
}
