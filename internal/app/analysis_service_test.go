package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"paperlens/internal/ai"
)

type fakeCompleter struct {
	reply string
	err   error
	calls [][]ai.ChatMessage
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
		want   string
	}{
		{name: "shorter than budget", text: "abc", budget: 5, want: "abc"},
		{name: "exactly budget", text: "abcde", budget: 5, want: "abcde"},
		{name: "over budget", text: "abcdefgh", budget: 5, want: "abcde..."},
		{name: "counts characters not bytes", text: "ééééé", budget: 3, want: "ééé..."},
		{name: "empty", text: "", budget: 5, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.budget); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.budget, got, tt.want)
			}
		})
	}
}

func TestAnalyzeWithoutCompleterReturnsNotice(t *testing.T) {
	svc := NewAnalysisService(nil, nil, nil)
	if svc.Configured() {
		t.Fatal("service without completer reports configured")
	}

	want := map[AnalysisKind]string{
		KindSummary:      "AI Summary: [LLM API key not configured. Please set LLM_API_KEY to enable AI analysis.]",
		KindResearchGaps: "Research Gap Analysis: [LLM API key not configured. Please set LLM_API_KEY to enable AI analysis.]",
		KindKeyFindings:  "Key Findings: [LLM API key not configured. Please set LLM_API_KEY to enable AI analysis.]",
	}
	for kind, text := range want {
		if got := svc.Analyze(context.Background(), kind, "some paper"); got != text {
			t.Errorf("Analyze(%s) = %q, want %q", kind, got, text)
		}
	}
}

func TestAnalyzeSendsOneSystemAndOneUserMessage(t *testing.T) {
	fake := &fakeCompleter{reply: "a fine summary"}
	svc := NewAnalysisService(fake, nil, nil)

	text := strings.Repeat("a", 10000)
	if got := svc.Summarize(context.Background(), text); got != "a fine summary" {
		t.Fatalf("Summarize() = %q", got)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}

	messages := fake.calls[0]
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != ai.RoleSystem || messages[0].Content != summarySystemPrompt {
		t.Errorf("unexpected system message: %+v", messages[0])
	}
	if messages[1].Role != ai.RoleUser {
		t.Errorf("second message role = %q", messages[1].Role)
	}
	user := messages[1].Content
	if !strings.Contains(user, strings.Repeat("a", 8000)+"...") {
		t.Error("user message does not carry the first 8000 characters plus marker")
	}
	if strings.Contains(user, strings.Repeat("a", 8001)) {
		t.Error("user message carries more than 8000 characters of the paper")
	}
}

func TestAnalyzeBudgets(t *testing.T) {
	text := strings.Repeat("§", 9000)
	tests := []struct {
		kind   AnalysisKind
		budget int
	}{
		{KindSummary, 8000},
		{KindResearchGaps, 6000},
		{KindKeyFindings, 6000},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			profile, ok := Profile(tt.kind)
			if !ok {
				t.Fatalf("no profile for %s", tt.kind)
			}
			if profile.Budget != tt.budget {
				t.Fatalf("budget = %d, want %d", profile.Budget, tt.budget)
			}
			user := BuildAnalysisMessages(profile, text)[1].Content
			if n := strings.Count(user, "§"); n != tt.budget {
				t.Errorf("user message carries %d characters, want %d", n, tt.budget)
			}
		})
	}
}

func TestAnalyzeShortTextIsNotMarked(t *testing.T) {
	profile, _ := Profile(KindKeyFindings)
	user := BuildAnalysisMessages(profile, "short paper")[1].Content
	if !strings.Contains(user, "Text: short paper\n") {
		t.Errorf("short text altered in prompt: %q", user)
	}
}

func TestAnalyzeFailureIsEmbeddedInResult(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("connection refused")}
	svc := NewAnalysisService(fake, nil, nil)
	ctx := context.Background()

	if got := svc.Summarize(ctx, "paper"); got != "Error generating summary: connection refused" {
		t.Errorf("Summarize() = %q", got)
	}
	if got := svc.AnalyzeResearchGaps(ctx, "paper"); got != "Error analyzing research gaps: connection refused" {
		t.Errorf("AnalyzeResearchGaps() = %q", got)
	}
	if got := svc.ExtractKeyFindings(ctx, "paper"); got != "Error extracting key findings: connection refused" {
		t.Errorf("ExtractKeyFindings() = %q", got)
	}
}
