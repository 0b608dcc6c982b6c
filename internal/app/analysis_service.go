package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paperlens/internal/ai"
	"paperlens/internal/metrics"
)

type AnalysisKind string

const (
	KindSummary      AnalysisKind = "summary"
	KindResearchGaps AnalysisKind = "research_gaps"
	KindKeyFindings  AnalysisKind = "key_findings"
)

const truncationSuffix = "..."

const notConfiguredNotice = "[LLM API key not configured. Please set LLM_API_KEY to enable AI analysis.]"

const summarySystemPrompt = "You are an AI assistant that summarizes academic research papers. Provide concise, accurate summaries that capture the main contributions, methodology, and findings."

const researchGapsSystemPrompt = "You are a research analyst specializing in identifying research gaps and future work opportunities in academic papers. Provide structured analysis focusing on limitations, gaps, and future research directions."

const keyFindingsSystemPrompt = "You are a research analyst that extracts key findings, methodology, and contributions from academic papers. Provide clear, structured summaries of research elements."

const summaryUserPrompt = "Please summarize the following research paper:\n\n%s"

const researchGapsUserPrompt = `Analyze the following research paper text and identify:
1. Key limitations in the current research
2. Potential research gaps
3. Future work opportunities
4. Unexplored areas

Text: %s

Please provide a structured analysis focusing on research gaps and future opportunities.`

const keyFindingsUserPrompt = `Extract from this research paper:
1. Key findings and main contributions
2. Research methodology used
3. Results and conclusions

Text: %s

Provide a concise summary of these elements.`

// AnalysisProfile is the fixed prompt and truncation setup of one analysis kind.
type AnalysisProfile struct {
	Kind         AnalysisKind
	Label        string
	Budget       int
	SystemPrompt string
	UserTemplate string
	// ErrorAction completes "Error <ErrorAction>: <err>".
	ErrorAction string
}

var analysisProfiles = map[AnalysisKind]AnalysisProfile{
	KindSummary: {
		Kind:         KindSummary,
		Label:        "AI Summary",
		Budget:       8000,
		SystemPrompt: summarySystemPrompt,
		UserTemplate: summaryUserPrompt,
		ErrorAction:  "generating summary",
	},
	KindResearchGaps: {
		Kind:         KindResearchGaps,
		Label:        "Research Gap Analysis",
		Budget:       6000,
		SystemPrompt: researchGapsSystemPrompt,
		UserTemplate: researchGapsUserPrompt,
		ErrorAction:  "analyzing research gaps",
	},
	KindKeyFindings: {
		Kind:         KindKeyFindings,
		Label:        "Key Findings",
		Budget:       6000,
		SystemPrompt: keyFindingsSystemPrompt,
		UserTemplate: keyFindingsUserPrompt,
		ErrorAction:  "extracting key findings",
	},
}

// Profile returns the configuration of kind.
func Profile(kind AnalysisKind) (AnalysisProfile, bool) {
	p, ok := analysisProfiles[kind]
	return p, ok
}

// NotConfiguredMessage is the value stored for kind when no LLM backend is configured.
func NotConfiguredMessage(kind AnalysisKind) string {
	p, ok := analysisProfiles[kind]
	if !ok {
		return notConfiguredNotice
	}
	return p.Label + ": " + notConfiguredNotice
}

// AnalysisService turns paper text into the three analysis strings. It never
// returns an error: failures are logged and reported inside the result text.
type AnalysisService struct {
	completer ai.Completer
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewAnalysisService accepts a nil completer, meaning no backend is configured.
func NewAnalysisService(completer ai.Completer, logger *zap.Logger, m *metrics.Metrics) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		completer: completer,
		logger:    logger,
		metrics:   m,
	}
}

// Configured reports whether a chat backend is available.
func (s *AnalysisService) Configured() bool {
	return s.completer != nil
}

// Summarize returns an AI summary of the first 8000 characters of text.
func (s *AnalysisService) Summarize(ctx context.Context, text string) string {
	return s.Analyze(ctx, KindSummary, text)
}

// AnalyzeResearchGaps lists limitations and future work found in the first
// 6000 characters of text.
func (s *AnalysisService) AnalyzeResearchGaps(ctx context.Context, text string) string {
	return s.Analyze(ctx, KindResearchGaps, text)
}

// ExtractKeyFindings returns findings, methodology and results from the first
// 6000 characters of text.
func (s *AnalysisService) ExtractKeyFindings(ctx context.Context, text string) string {
	return s.Analyze(ctx, KindKeyFindings, text)
}

// Analyze sends one request for kind. Without a backend it returns the
// not-configured notice; on failure it returns "Error <action>: <err>".
func (s *AnalysisService) Analyze(ctx context.Context, kind AnalysisKind, text string) string {
	profile, ok := analysisProfiles[kind]
	if !ok {
		return fmt.Sprintf("Error analyzing paper: unknown analysis kind %q", kind)
	}
	if s.completer == nil {
		s.metrics.AnalysisCall(string(kind), "unconfigured", 0)
		return NotConfiguredMessage(kind)
	}

	messages := BuildAnalysisMessages(profile, text)

	start := time.Now()
	result, err := s.completer.Complete(ctx, messages)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("analysis request failed",
			zap.String("kind", string(kind)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		s.metrics.AnalysisCall(string(kind), "error", elapsed)
		return fmt.Sprintf("Error %s: %s", profile.ErrorAction, err.Error())
	}

	s.metrics.AnalysisCall(string(kind), "ok", elapsed)
	return result
}

// BuildAnalysisMessages returns the system and user message for one request.
func BuildAnalysisMessages(profile AnalysisProfile, text string) []ai.ChatMessage {
	return []ai.ChatMessage{
		{Role: ai.RoleSystem, Content: profile.SystemPrompt},
		{Role: ai.RoleUser, Content: fmt.Sprintf(profile.UserTemplate, Truncate(text, profile.Budget))},
	}
}

// Truncate cuts text to its first budget characters and marks the cut with
// "...". Text within budget is returned unchanged.
func Truncate(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget]) + truncationSuffix
}
