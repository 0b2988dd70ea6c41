// Package gate evaluates evidence-led stage gates for a project.
package gate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shubh-37/startupai/internal/models"
)

// Stage is a validation stage a project moves through.
type Stage string

const (
	StageDesirability Stage = "DESIRABILITY"
	StageFeasibility  Stage = "FEASIBILITY"
	StageViability    Stage = "VIABILITY"
	StageScale        Stage = "SCALE"
)

// Stages in progression order.
var Stages = []Stage{StageDesirability, StageFeasibility, StageViability, StageScale}

// ParseStage accepts a stage name in any case.
func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Stages {
		if stage == known {
			return stage, nil
		}
	}
	return "", fmt.Errorf("%w: invalid stage %q, must be DESIRABILITY, FEASIBILITY, VIABILITY, or SCALE", models.ErrInvalidInput, s)
}

// Status is the outcome of a gate evaluation.
type Status string

const (
	StatusPassed  Status = "Passed"
	StatusFailed  Status = "Failed"
	StatusPending Status = "Pending"
)

// Criteria are the thresholds a stage's evidence must meet.
type Criteria struct {
	MinExperiments int                             `json:"minExperiments" yaml:"min_experiments"`
	MinQuality     float64                         `json:"minEvidenceQuality" yaml:"min_evidence_quality"`
	MinTotal       int                             `json:"minTotalEvidence" yaml:"min_total_evidence"`
	RequiredTypes  []string                        `json:"requiredEvidenceTypes" yaml:"required_evidence_types"`
	MinStrengthMix map[models.EvidenceStrength]int `json:"strengthMix" yaml:"strength_mix"`
}

// DefaultCriteria tighten with every stage.
var DefaultCriteria = map[Stage]Criteria{
	StageDesirability: {
		MinExperiments: 5,
		MinQuality:     0.70,
		MinTotal:       10,
		RequiredTypes:  []string{"interview", "analytics", "experiment"},
		MinStrengthMix: map[models.EvidenceStrength]int{models.StrengthStrong: 2, models.StrengthMedium: 3},
	},
	StageFeasibility: {
		MinExperiments: 8,
		MinQuality:     0.75,
		MinTotal:       15,
		RequiredTypes:  []string{"analytics", "experiment", "prototype"},
		MinStrengthMix: map[models.EvidenceStrength]int{models.StrengthStrong: 4, models.StrengthMedium: 5},
	},
	StageViability: {
		MinExperiments: 12,
		MinQuality:     0.80,
		MinTotal:       20,
		RequiredTypes:  []string{"analytics", "experiment", "financial"},
		MinStrengthMix: map[models.EvidenceStrength]int{models.StrengthStrong: 6, models.StrengthMedium: 8},
	},
	StageScale: {
		MinExperiments: 20,
		MinQuality:     0.85,
		MinTotal:       30,
		RequiredTypes:  []string{"analytics", "experiment", "financial", "market"},
		MinStrengthMix: map[models.EvidenceStrength]int{models.StrengthStrong: 10, models.StrengthMedium: 10},
	},
}

// qualityEpsilon lets an average that lands exactly on the threshold pass
// despite float rounding.
const qualityEpsilon = 1e-9

// EvidenceQuality is the mean quality score, 0 for no evidence.
func EvidenceQuality(evidence []*models.Evidence) float64 {
	if len(evidence) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range evidence {
		total += e.QualityScore
	}
	return total / float64(len(evidence))
}

// CountExperiments counts evidence of type "experiment".
func CountExperiments(evidence []*models.Evidence) int {
	n := 0
	for _, e := range evidence {
		if e.Type == "experiment" {
			n++
		}
	}
	return n
}

// EvidenceTypes returns the distinct evidence types present.
func EvidenceTypes(evidence []*models.Evidence) map[string]bool {
	types := make(map[string]bool)
	for _, e := range evidence {
		types[e.Type] = true
	}
	return types
}

// StrengthMix counts evidence per strength; all three strengths are keyed.
func StrengthMix(evidence []*models.Evidence) map[models.EvidenceStrength]int {
	mix := map[models.EvidenceStrength]int{
		models.StrengthWeak:   0,
		models.StrengthMedium: 0,
		models.StrengthStrong: 0,
	}
	for _, e := range evidence {
		if _, ok := mix[e.Strength]; ok {
			mix[e.Strength]++
		}
	}
	return mix
}

// CriteriaFor returns the default criteria for a stage.
func CriteriaFor(stage Stage) (Criteria, bool) {
	c, ok := DefaultCriteria[stage]
	return c, ok
}

// Evaluate checks evidence against the stage's criteria, or against
// custom criteria when given. Reasons list every unmet criterion.
func Evaluate(stage Stage, evidence []*models.Evidence, custom *Criteria) (Status, []string) {
	criteria, ok := DefaultCriteria[stage]
	if custom != nil {
		criteria, ok = *custom, true
	}
	if !ok {
		return StatusFailed, []string{fmt.Sprintf("Unknown stage: %s", stage)}
	}

	reasons := []string{}

	if experiments := CountExperiments(evidence); experiments < criteria.MinExperiments {
		reasons = append(reasons, fmt.Sprintf("Insufficient experiments: %d/%d", experiments, criteria.MinExperiments))
	}

	if quality := EvidenceQuality(evidence); quality+qualityEpsilon < criteria.MinQuality {
		reasons = append(reasons, fmt.Sprintf("Evidence quality too low: %.2f < %.2f", quality, criteria.MinQuality))
	}

	if len(evidence) < criteria.MinTotal {
		reasons = append(reasons, fmt.Sprintf("Insufficient total evidence: %d/%d", len(evidence), criteria.MinTotal))
	}

	types := EvidenceTypes(evidence)
	var missing []string
	for _, t := range criteria.RequiredTypes {
		if !types[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		reasons = append(reasons, "Missing required evidence types: "+strings.Join(missing, ", "))
	}

	mix := StrengthMix(evidence)
	for _, strength := range sortedStrengths(criteria.MinStrengthMix) {
		required := criteria.MinStrengthMix[strength]
		if mix[strength] < required {
			reasons = append(reasons, fmt.Sprintf("Insufficient %s evidence: %d/%d", strength, mix[strength], required))
		}
	}

	if len(reasons) > 0 {
		return StatusFailed, reasons
	}
	return StatusPassed, reasons
}

// sortedStrengths orders strong before medium before weak.
func sortedStrengths(mix map[models.EvidenceStrength]int) []models.EvidenceStrength {
	rank := map[models.EvidenceStrength]int{models.StrengthStrong: 0, models.StrengthMedium: 1, models.StrengthWeak: 2}
	out := make([]models.EvidenceStrength, 0, len(mix))
	for s := range mix {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, ok := rank[out[i]]
		if !ok {
			ri = len(rank)
		}
		rj, ok := rank[out[j]]
		if !ok {
			rj = len(rank)
		}
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// ReadinessScore averages how far the evidence is toward each criterion,
// with every ratio capped at 1. No evidence scores 0.
func ReadinessScore(stage Stage, evidence []*models.Evidence) float64 {
	criteria, ok := DefaultCriteria[stage]
	if !ok || len(evidence) == 0 {
		return 0
	}

	ratios := []float64{
		ratio(float64(CountExperiments(evidence)), float64(criteria.MinExperiments)),
		ratio(EvidenceQuality(evidence), criteria.MinQuality),
		ratio(float64(len(evidence)), float64(criteria.MinTotal)),
	}

	if len(criteria.RequiredTypes) > 0 {
		types := EvidenceTypes(evidence)
		present := 0
		for _, t := range criteria.RequiredTypes {
			if types[t] {
				present++
			}
		}
		ratios = append(ratios, float64(present)/float64(len(criteria.RequiredTypes)))
	}

	if len(criteria.MinStrengthMix) > 0 {
		mix := StrengthMix(evidence)
		total := 0.0
		for strength, required := range criteria.MinStrengthMix {
			total += ratio(float64(mix[strength]), float64(required))
		}
		ratios = append(ratios, total/float64(len(criteria.MinStrengthMix)))
	}

	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}

func ratio(have, want float64) float64 {
	if want <= 0 {
		return 1
	}
	return math.Min(1, have/want)
}

// NextStage returns the stage after s, or false at SCALE.
func NextStage(s Stage) (Stage, bool) {
	for i, stage := range Stages {
		if stage == s && i+1 < len(Stages) {
			return Stages[i+1], true
		}
	}
	return "", false
}

// CanProgress reports whether a passed gate at s opens a next stage.
func CanProgress(s Stage, status Status) bool {
	if status != StatusPassed {
		return false
	}
	_, ok := NextStage(s)
	return ok
}
