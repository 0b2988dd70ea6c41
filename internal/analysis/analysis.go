// Package analysis turns a strategic question into a structured analysis
// payload: summary, insights, evidence, report and entrepreneur brief.
package analysis

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/llm"
	"github.com/shubh-37/startupai/internal/models"
)

// Modes
const (
	ModeLLM      = "llm"
	ModeFallback = "fallback"
)

const (
	maxSummarySentences = 3
	maxBullets          = 6
	summaryFallbackLen  = 350
	maxQuestionLen      = 2000
	maxContextLen       = 10000
)

const systemPrompt = `You are a senior startup strategy consultant. Answer the founder's strategic
question with a short executive summary followed by a bulleted list of concrete, evidence-seeking
recommendations. Use "-" for bullets. Keep it under 400 words.`

// Inputs are the founder's question and optional project context.
type Inputs struct {
	StrategicQuestion string `json:"strategicQuestion"`
	ProjectContext    string `json:"projectContext,omitempty"`
}

func (in Inputs) Validate() error {
	if strings.TrimSpace(in.StrategicQuestion) == "" {
		return fmt.Errorf("%w: strategicQuestion is required", models.ErrInvalidInput)
	}
	if len(in.StrategicQuestion) > maxQuestionLen {
		return fmt.Errorf("%w: strategicQuestion exceeds %d characters", models.ErrInvalidInput, maxQuestionLen)
	}
	if len(in.ProjectContext) > maxContextLen {
		return fmt.Errorf("%w: projectContext exceeds %d characters", models.ErrInvalidInput, maxContextLen)
	}
	return nil
}

// Result is one analysis run.
type Result struct {
	AnalysisID string   `json:"analysisId"`
	Mode       string   `json:"mode"`
	Error      string   `json:"error,omitempty"`
	Payload    *Payload `json:"payload"`
}

type Engine struct {
	client llm.Client
	logger *zap.Logger
}

// NewEngine returns an engine. A nil client always produces fallback output.
func NewEngine(client llm.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, logger: logger}
}

// Run asks the model for an analysis. A model failure is recorded on the
// result and the deterministic fallback text is used instead.
func (e *Engine) Run(ctx context.Context, in Inputs, userID string) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		AnalysisID: "analysis_" + uuid.New().String(),
		Mode:       ModeFallback,
	}

	var raw string
	if e.client != nil {
		resp, err := e.client.Complete(ctx, llm.Request{
			System:      systemPrompt,
			Prompt:      buildPrompt(in),
			MaxTokens:   2000,
			Temperature: 0.5,
		})
		switch {
		case err != nil:
			e.logger.Warn("Analysis model call failed, using fallback", zap.Error(err))
			result.Error = err.Error()
		case strings.TrimSpace(resp.Text) == "":
			result.Error = "empty model response"
		default:
			raw = resp.Text
			result.Mode = ModeLLM
		}
	}
	if raw == "" {
		raw = FallbackText(in)
	}

	result.Payload = BuildStructuredPayload(raw, in, userID, result.AnalysisID)
	e.logger.Info("Analysis completed",
		zap.String("analysis_id", result.AnalysisID),
		zap.String("user_id", userID),
		zap.String("mode", result.Mode),
		zap.Int("insights", len(result.Payload.Insights)),
	)
	return result, nil
}

func buildPrompt(in Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Strategic question: %s\n", in.StrategicQuestion)
	if in.ProjectContext != "" {
		fmt.Fprintf(&b, "\nProject context:\n%s\n", in.ProjectContext)
	}
	return b.String()
}

// FallbackText is the analysis used when no model output is available.
func FallbackText(in Inputs) string {
	question := in.StrategicQuestion
	if question == "" {
		question = "your strategic question"
	}
	parts := []string{
		fmt.Sprintf("Strategic analysis focused on: %s.", question),
		"Key Recommendations:",
		"- Validate the problem with direct customer conversations within the next two weeks.",
		"- Prototype a minimal solution and measure engagement to confirm demand.",
		"- Map the competitive landscape and identify differentiation angles based on evidence.",
		"- Define success metrics tied to acquisition, activation, and validation milestones.",
	}
	if in.ProjectContext != "" {
		parts = append(parts, fmt.Sprintf("Context considered: %s...", truncate(in.ProjectContext, 160)))
	}
	return strings.Join(parts, "\n")
}

var (
	sentenceEnd    = regexp.MustCompile(`[.!?]\s+`)
	numberedBullet = regexp.MustCompile(`^\d+[).\s-]+(.+)$`)
)

// ExtractSentences returns the first n sentences of text joined by spaces.
func ExtractSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}

// ExtractBullets collects "-", "*" and numbered list items, up to limit.
func ExtractBullets(text string, limit int) []string {
	bullets := []string{}
	for _, line := range strings.Split(text, "\n") {
		cleaned := strings.Trim(line, " •\t\r")
		if cleaned == "" {
			continue
		}
		var item string
		if strings.HasPrefix(cleaned, "-") || strings.HasPrefix(cleaned, "*") {
			item = strings.TrimSpace(strings.TrimLeft(cleaned, "-* "))
		} else if m := numberedBullet.FindStringSubmatch(cleaned); m != nil {
			item = strings.TrimSpace(m[1])
		}
		if item != "" {
			bullets = append(bullets, item)
		}
		if len(bullets) >= limit {
			break
		}
	}
	return bullets
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func now() time.Time {
	return time.Now().UTC()
}
