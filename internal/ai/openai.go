package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient works against api.openai.com or any OpenAI-compatible base URL.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(cfg ChatConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(90 * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty openai choices")
	}
	return completion.Choices[0].Message.Content, nil
}
