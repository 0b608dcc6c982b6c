package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"paperlens/internal/config"
)

type capturedRequest struct {
	Path   string
	Auth   string
	Model  string
	Roles  []string
	Bodies []string
}

func newFakeChatServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		captured.Model = body.Model
		for _, m := range body.Messages {
			captured.Roles = append(captured.Roles, m.Role)
			captured.Bodies = append(captured.Bodies, m.Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

var testMessages = []ChatMessage{
	{Role: RoleSystem, Content: "You summarize papers."},
	{Role: RoleUser, Content: "Please summarize: hello"},
}

func TestCohereClientComplete(t *testing.T) {
	srv, captured := newFakeChatServer(t, http.StatusOK, `{
		"id": "abc",
		"finish_reason": "COMPLETE",
		"message": {"role": "assistant", "content": [{"type": "text", "text": "A short summary."}, {"type": "text", "text": "ignored"}]}
	}`)

	client := NewCohereClient(ChatConfig{BaseURL: srv.URL + "/", APIKey: "co-key", Model: "command-a-03-2025"})
	got, err := client.Complete(context.Background(), testMessages)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "A short summary." {
		t.Errorf("expected first text segment, got %q", got)
	}
	if captured.Path != "/v2/chat" {
		t.Errorf("unexpected path %q", captured.Path)
	}
	if captured.Auth != "Bearer co-key" {
		t.Errorf("unexpected auth header %q", captured.Auth)
	}
	if captured.Model != "command-a-03-2025" {
		t.Errorf("unexpected model %q", captured.Model)
	}
	if strings.Join(captured.Roles, ",") != "system,user" {
		t.Errorf("expected one system and one user message, got %v", captured.Roles)
	}
}

func TestCohereClientErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		reply  string
	}{
		{"http error", http.StatusUnauthorized, `{"message":"invalid api token"}`},
		{"bad json", http.StatusOK, `not json`},
		{"no text", http.StatusOK, `{"message":{"content":[]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newFakeChatServer(t, tc.status, tc.reply)
			client := NewCohereClient(ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"})
			if _, err := client.Complete(context.Background(), testMessages); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCohereClientDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"overloaded"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewCohereClient(ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	if _, err := client.Complete(context.Background(), testMessages); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one request, got %d", calls)
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	srv, captured := newFakeChatServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Key findings here."}, "finish_reason": "stop"}]
	}`)

	client := NewOpenAIClient(ChatConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o-mini"})
	got, err := client.Complete(context.Background(), testMessages)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "Key findings here." {
		t.Errorf("unexpected content %q", got)
	}
	if captured.Path != "/v1/chat/completions" {
		t.Errorf("unexpected path %q", captured.Path)
	}
	if captured.Auth != "Bearer sk-test" {
		t.Errorf("unexpected auth header %q", captured.Auth)
	}
	if strings.Join(captured.Roles, ",") != "system,user" {
		t.Errorf("expected one system and one user message, got %v", captured.Roles)
	}
}

func TestOpenAIClientDoesNotRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewOpenAIClient(ChatConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini"})
	if _, err := client.Complete(context.Background(), testMessages); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected exactly one request, got %d", calls)
	}
}

func TestNewCompleter(t *testing.T) {
	if c := NewCompleter(config.LLMConfig{Provider: config.ProviderCohere}); c != nil {
		t.Errorf("expected nil completer without api key, got %T", c)
	}
	if _, ok := NewCompleter(config.LLMConfig{Provider: config.ProviderCohere, APIKey: "k"}).(*CohereClient); !ok {
		t.Error("expected cohere client")
	}
	if _, ok := NewCompleter(config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "k"}).(*OpenAIClient); !ok {
		t.Error("expected openai client")
	}
}
