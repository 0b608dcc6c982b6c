package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/cohere-ai/cohere-go/v2/option"
)

// CohereClient talks to the Cohere v2 chat endpoint.
type CohereClient struct {
	client *cohereclient.Client
	model  string
}

func NewCohereClient(cfg ChatConfig) *CohereClient {
	opts := []option.RequestOption{
		option.WithToken(cfg.APIKey),
		option.WithMaxAttempts(1),
		option.WithHTTPClient(&http.Client{Timeout: 90 * time.Second}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")))
	}
	return &CohereClient{
		client: cohereclient.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (c *CohereClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	params := make(cohere.ChatMessages, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, &cohere.ChatMessageV2{
				Role:   RoleSystem,
				System: &cohere.SystemMessageV2{Content: &cohere.SystemMessageV2Content{String: m.Content}},
			})
		case RoleAssistant:
			params = append(params, &cohere.ChatMessageV2{
				Role:      RoleAssistant,
				Assistant: &cohere.AssistantMessage{Content: &cohere.AssistantMessageV2Content{String: m.Content}},
			})
		default:
			params = append(params, &cohere.ChatMessageV2{
				Role: RoleUser,
				User: &cohere.UserMessageV2{Content: &cohere.UserMessageV2Content{String: m.Content}},
			})
		}
	}

	resp, err := c.client.V2.Chat(ctx, &cohere.V2ChatRequest{
		Model:    c.model,
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("cohere request failed: %w", err)
	}
	if resp.Message == nil {
		return "", fmt.Errorf("cohere response has no message")
	}
	for _, item := range resp.Message.Content {
		if item != nil && item.Text != nil {
			return item.Text.Text, nil
		}
	}
	return "", fmt.Errorf("cohere response has no text content")
}
