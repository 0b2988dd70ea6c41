package analysis

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Insight is a headline drawn from the analysis.
type Insight struct {
	ID         string `json:"id"`
	Headline   string `json:"headline"`
	Confidence string `json:"confidence"`
	Support    string `json:"support"`
}

// EvidenceItem is an insight recorded as medium-strength evidence.
type EvidenceItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Source   string   `json:"source"`
	Strength string   `json:"strength"`
	Tags     []string `json:"tags"`
}

type Report struct {
	Title       string    `json:"title"`
	ReportType  string    `json:"reportType"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Brief is the entrepreneur brief derived from the analysis.
type Brief struct {
	ProblemDescription     string             `json:"problemDescription"`
	SolutionDescription    string             `json:"solutionDescription"`
	UniqueValueProposition string             `json:"uniqueValueProposition"`
	DifferentiationFactors []string           `json:"differentiationFactors"`
	BusinessStage          string             `json:"businessStage"`
	RecommendedNextSteps   []string           `json:"recommendedNextSteps"`
	ConfidenceScores       map[string]float64 `json:"aiConfidenceScores"`
	ValidationFlags        []string           `json:"validationFlags"`
}

type QualitySignals struct {
	AnalysisConfidence float64  `json:"analysisConfidence"`
	EvidenceStrength   float64  `json:"evidenceStrength"`
	InsightDepth       float64  `json:"insightDepth"`
	Tags               []string `json:"qualityTags"`
}

type StageMetric struct {
	Stage    string  `json:"stage"`
	Coverage float64 `json:"coverage"`
	Quality  float64 `json:"quality"`
}

// Payload is the structured analysis returned to clients.
type Payload struct {
	AnalysisID string         `json:"analysisId"`
	StartedAt  time.Time      `json:"runStartedAt"`
	Summary    string         `json:"summary"`
	Insights   []Insight      `json:"insightSummaries"`
	Evidence   []EvidenceItem `json:"evidenceItems"`
	Report     Report         `json:"report"`
	Brief      Brief          `json:"entrepreneurBrief"`
	RawOutput  string         `json:"rawOutput"`
	Inputs     Inputs         `json:"inputs"`
	UserID     string         `json:"userId"`
	Quality    QualitySignals `json:"qualitySignals"`
	Stages     []StageMetric  `json:"stageMetrics"`
}

const (
	maxEvidenceItems = 3
	evidenceTitleLen = 90
	synthesisSource  = "AI synthesis"
)

// BuildStructuredPayload derives the structured payload from raw analysis
// text: up to three summary sentences and up to six bullets.
func BuildStructuredPayload(raw string, in Inputs, userID, analysisID string) *Payload {
	summary := ExtractSentences(raw, maxSummarySentences)
	bullets := ExtractBullets(raw, maxBullets)
	if summary == "" && raw != "" {
		summary = truncate(raw, summaryFallbackLen)
	}
	if len(bullets) == 0 && summary != "" {
		bullets = []string{summary}
	}

	insights := make([]Insight, 0, len(bullets))
	for _, b := range bullets {
		insights = append(insights, Insight{
			ID:         uuid.New().String(),
			Headline:   b,
			Confidence: "medium",
			Support:    "Derived from " + synthesisSource,
		})
	}

	top := bullets[:min(maxEvidenceItems, len(bullets))]
	evidence := make([]EvidenceItem, 0, len(top))
	for _, b := range top {
		evidence = append(evidence, EvidenceItem{
			ID:       uuid.New().String(),
			Title:    truncate(b, evidenceTitleLen),
			Content:  b,
			Source:   synthesisSource,
			Strength: "medium",
			Tags:     []string{"ai_generated", "analysis"},
		})
	}

	question := in.StrategicQuestion
	if question == "" {
		question = "Strategic Focus"
	}
	content := raw
	if content == "" {
		content = summary
	}
	uvp := summary
	if len(bullets) > 0 {
		uvp = bullets[0]
	}

	evidenceStrength := 0.55 + math.Min(float64(len(evidence))*0.1, 0.35)
	insightDepth := 0.6 + math.Min(float64(len(insights))*0.05, 0.3)
	overall := round2((evidenceStrength + insightDepth) / 2)

	tags := []string{}
	if evidenceStrength < 0.6 {
		tags = append(tags, "needs_more_evidence")
	}
	if insightDepth >= 0.75 {
		tags = append(tags, "high_value_insights")
	}

	ts := now()
	return &Payload{
		AnalysisID: analysisID,
		StartedAt:  ts,
		Summary:    summary,
		Insights:   insights,
		Evidence:   evidence,
		Report: Report{
			Title:       "Strategic Analysis: " + question,
			ReportType:  "recommendation",
			Content:     content,
			Model:       "startupai",
			GeneratedAt: ts,
		},
		Brief: Brief{
			ProblemDescription:     summary,
			SolutionDescription:    in.StrategicQuestion,
			UniqueValueProposition: uvp,
			DifferentiationFactors: append([]string{}, top...),
			BusinessStage:          "validation",
			RecommendedNextSteps:   append([]string{}, top...),
			ConfidenceScores:       map[string]float64{"analysis": 0.6},
			ValidationFlags:        []string{},
		},
		RawOutput: raw,
		Inputs:    in,
		UserID:    userID,
		Quality: QualitySignals{
			AnalysisConfidence: overall,
			EvidenceStrength:   round2(evidenceStrength),
			InsightDepth:       round2(insightDepth),
			Tags:               tags,
		},
		Stages: []StageMetric{
			{Stage: "Entrepreneur Brief", Coverage: 0.85, Quality: overall},
			{Stage: "Customer Insights", Coverage: 0.78, Quality: round2(math.Min(0.82, overall+0.04))},
			{Stage: "Validation Roadmap", Coverage: 0.72, Quality: round2(math.Min(0.8, overall+0.02))},
		},
	}
}
