package agents

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shubh-37/startupai/internal/models"
)

// Assessment is a heuristic review of canvas content.
type Assessment struct {
	Overall         float64            `json:"overall"`
	Scores          map[string]float64 `json:"scores"`
	Recommendations []string           `json:"recommendations"`
}

// Assessor reviews the content of one canvas type.
type Assessor interface {
	Assess(data models.CanvasData) Assessment
}

// AssessorFor returns the reviewer for a canvas type.
func AssessorFor(t models.CanvasType) (Assessor, error) {
	switch t {
	case models.CanvasValueProposition:
		return ValuePropositionAgent{}, nil
	case models.CanvasBusinessModel:
		return BusinessModelAgent{}, nil
	case models.CanvasTestingBusinessIdeas:
		return TestingIdeasAgent{}, nil
	}
	return nil, models.ErrUnsupportedCanvasType
}

var numericPattern = regexp.MustCompile(`\$?\d+(?:[.,]\d+)?\s*(?:%|percent|x\b|k\b|m\b)?`)

func hasNumber(s string) bool {
	return numericPattern.MatchString(s)
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// itemScore averages, over items, the share of checks each item passes.
func itemScore(items []string, checks ...func(string) bool) float64 {
	items = nonBlank(items)
	if len(items) == 0 || len(checks) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range items {
		passed := 0
		for _, check := range checks {
			if check(item) {
				passed++
			}
		}
		total += float64(passed) / float64(len(checks))
	}
	return total / float64(len(items))
}

func minLen(n int) func(string) bool {
	return func(s string) bool { return len([]rune(s)) >= n }
}

func keywords(words ...string) func(string) bool {
	return func(s string) bool { return containsAny(s, words) }
}

// significantWords returns the lowercase words of s longer than three letters.
func significantWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > 3 {
			out = append(out, f)
		}
	}
	return out
}

// FitScore is the share of (target, answer) pairs where the answer mentions
// a significant word of the target.
func FitScore(targets, answers []string) float64 {
	targets = nonBlank(targets)
	answers = nonBlank(answers)
	if len(targets) == 0 || len(answers) == 0 {
		return 0
	}
	matches := 0
	for _, answer := range answers {
		lower := strings.ToLower(answer)
		for _, target := range targets {
			for _, word := range significantWords(target) {
				if strings.Contains(lower, word) {
					matches++
					break
				}
			}
		}
	}
	return float64(matches) / float64(len(targets)*len(answers))
}

type weighted struct {
	key    string
	weight float64
}

func weightedSum(scores map[string]float64, weights []weighted) float64 {
	total := 0.0
	for _, w := range weights {
		total += scores[w.key] * w.weight
	}
	if total > 1 {
		return 1
	}
	return total
}
