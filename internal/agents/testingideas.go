package agents

import (
	"strings"

	"github.com/shubh-37/startupai/internal/models"
)

// testingIdeasWeights are equal across the three sections.
var testingIdeasWeights = []weighted{
	{models.SectionHypotheses, 1.0 / 3},
	{models.SectionExperiments, 1.0 / 3},
	{models.SectionLearnings, 1.0 / 3},
}

var metricWords = []string{
	"rate", "conversion", "signup", "sign-up", "users", "revenue", "measure", "metric",
	"target", "threshold", "at least", "pre-order", "click",
}

// TestingIdeasAgent reviews testing business ideas boards.
type TestingIdeasAgent struct{}

func (TestingIdeasAgent) Assess(data models.CanvasData) Assessment {
	believe := func(s string) bool { return strings.Contains(strings.ToLower(s), "we believe") }
	measurable := func(s string) bool { return hasNumber(s) || containsAny(s, metricWords) }

	scores := map[string]float64{
		models.SectionHypotheses:  itemScore(data[models.SectionHypotheses], believe, minLen(20)),
		models.SectionExperiments: itemScore(data[models.SectionExperiments], measurable, minLen(15)),
		models.SectionLearnings:   itemScore(data[models.SectionLearnings], minLen(15)),
	}

	var recs []string
	if scores[models.SectionHypotheses] < 0.6 {
		recs = append(recs, `Phrase hypotheses as "We believe that ..."`)
	}
	if scores[models.SectionExperiments] < 0.6 {
		recs = append(recs, "Give every experiment a measurable metric and threshold")
	}
	if scores[models.SectionLearnings] < 0.6 {
		recs = append(recs, "Record what each experiment taught you")
	}

	return Assessment{
		Overall:         weightedSum(scores, testingIdeasWeights),
		Scores:          scores,
		Recommendations: recs,
	}
}
