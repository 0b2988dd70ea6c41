package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shubh-37/startupai/internal/llm/llmtest"
	"github.com/shubh-37/startupai/internal/models"
)

const modelOutput = `Clinics lose revenue to no-shows. A reminder product can recover part of it. Pricing should follow recovered revenue. Expansion comes later.

Recommendations:
- Interview ten clinic managers about no-show costs
* Run a concierge SMS pilot with two clinics
1. Measure the recovered booking rate weekly
2) Test a revenue-share price against a flat fee
`

func TestExtractSentences(t *testing.T) {
	assert.Equal(t, "One. Two! Three?", ExtractSentences("One. Two! Three? Four.", 3))
	assert.Equal(t, "Only one", ExtractSentences("  Only one  ", 3))
	assert.Equal(t, "", ExtractSentences("", 3))
}

func TestExtractBullets(t *testing.T) {
	want := []string{
		"Interview ten clinic managers about no-show costs",
		"Run a concierge SMS pilot with two clinics",
		"Measure the recovered booking rate weekly",
		"Test a revenue-share price against a flat fee",
	}
	if diff := cmp.Diff(want, ExtractBullets(modelOutput, 6)); diff != "" {
		t.Errorf("ExtractBullets mismatch (-want +got):\n%s", diff)
	}

	many := strings.Repeat("- item\n", 10)
	assert.Len(t, ExtractBullets(many, 6), 6)
	assert.Empty(t, ExtractBullets("no list here", 6))
}

func TestBuildStructuredPayload(t *testing.T) {
	in := Inputs{StrategicQuestion: "How do we reduce no-shows?"}
	p := BuildStructuredPayload(modelOutput, in, "user-1", "analysis_1")

	assert.Equal(t, "Clinics lose revenue to no-shows. A reminder product can recover part of it. Pricing should follow recovered revenue.", p.Summary)
	assert.Len(t, p.Insights, 4)
	assert.Len(t, p.Evidence, 3)
	for _, e := range p.Evidence {
		assert.Equal(t, "medium", e.Strength)
		assert.LessOrEqual(t, len([]rune(e.Title)), 90)
	}
	assert.Equal(t, "Strategic Analysis: How do we reduce no-shows?", p.Report.Title)
	assert.Equal(t, "Interview ten clinic managers about no-show costs", p.Brief.UniqueValueProposition)
	assert.Len(t, p.Brief.RecommendedNextSteps, 3)
	assert.NotNil(t, p.Brief.ValidationFlags)

	assert.InDelta(t, 0.85, p.Quality.EvidenceStrength, 1e-9)
	assert.InDelta(t, 0.8, p.Quality.InsightDepth, 1e-9)
	assert.InDelta(t, 0.83, p.Quality.AnalysisConfidence, 0.01)
	assert.Equal(t, []string{"high_value_insights"}, p.Quality.Tags)
	require.Len(t, p.Stages, 3)
	assert.LessOrEqual(t, p.Stages[1].Quality, 0.82)
	assert.LessOrEqual(t, p.Stages[2].Quality, 0.8)
}

func TestBuildStructuredPayload_NoBullets(t *testing.T) {
	p := BuildStructuredPayload("Focus on one segment first", Inputs{}, "user-1", "analysis_2")

	assert.Equal(t, "Focus on one segment first", p.Summary)
	require.Len(t, p.Insights, 1)
	assert.Equal(t, p.Summary, p.Insights[0].Headline)
	assert.Equal(t, "Strategic Analysis: Strategic Focus", p.Report.Title)
}

func TestBuildStructuredPayload_Empty(t *testing.T) {
	p := BuildStructuredPayload("", Inputs{}, "user-1", "analysis_3")

	assert.Empty(t, p.Summary)
	assert.Empty(t, p.Insights)
	assert.Empty(t, p.Evidence)
	assert.InDelta(t, 0.55, p.Quality.EvidenceStrength, 1e-9)
	assert.Equal(t, []string{"needs_more_evidence"}, p.Quality.Tags)
}

func TestFallbackText(t *testing.T) {
	text := FallbackText(Inputs{StrategicQuestion: "Should we expand to Europe?", ProjectContext: strings.Repeat("x", 200)})
	assert.Contains(t, text, "Strategic analysis focused on: Should we expand to Europe?.")
	assert.Len(t, ExtractBullets(text, 6), 4)
	assert.Contains(t, text, "Context considered: "+strings.Repeat("x", 160)+"...")
}

func TestEngineRun_UsesModel(t *testing.T) {
	fake := &llmtest.Fake{Default: modelOutput}
	engine := NewEngine(fake, zap.NewNop())

	res, err := engine.Run(context.Background(), Inputs{StrategicQuestion: "How do we reduce no-shows?", ProjectContext: "Dental clinics"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, ModeLLM, res.Mode)
	assert.Empty(t, res.Error)
	assert.True(t, strings.HasPrefix(res.AnalysisID, "analysis_"))
	assert.Equal(t, res.AnalysisID, res.Payload.AnalysisID)
	assert.Equal(t, modelOutput, res.Payload.RawOutput)

	require.Equal(t, 1, fake.Calls())
	assert.Contains(t, fake.Requests[0].Prompt, "Dental clinics")
}

func TestEngineRun_FallsBackOnModelError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	engine := NewEngine(&llmtest.Fake{Err: errors.New("overloaded")}, zap.New(core))

	res, err := engine.Run(context.Background(), Inputs{StrategicQuestion: "Where do we start?"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, ModeFallback, res.Mode)
	assert.Equal(t, "overloaded", res.Error)
	assert.Len(t, res.Payload.Insights, 4)
	assert.Equal(t, 1, logs.FilterMessage("Analysis model call failed, using fallback").Len())
}

func TestEngineRun_NilClient(t *testing.T) {
	res, err := NewEngine(nil, nil).Run(context.Background(), Inputs{StrategicQuestion: "Where do we start?"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, ModeFallback, res.Mode)
	assert.Empty(t, res.Error)
}

func TestEngineRun_Validation(t *testing.T) {
	engine := NewEngine(nil, nil)
	_, err := engine.Run(context.Background(), Inputs{}, "user-1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = engine.Run(context.Background(), Inputs{StrategicQuestion: strings.Repeat("q", 2001)}, "user-1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
