package ai

import (
	"context"

	"paperlens/internal/config"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Completer sends one non-streaming chat request and returns the first text
// segment of the reply.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// NewCompleter builds the client for the configured provider. It returns nil
// when no API key is configured.
func NewCompleter(cfg config.LLMConfig) Completer {
	if cfg.APIKey == "" {
		return nil
	}
	chatCfg := ChatConfig{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(chatCfg)
	default:
		return NewCohereClient(chatCfg)
	}
}
