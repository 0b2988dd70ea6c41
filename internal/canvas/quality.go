package canvas

import (
	"github.com/shubh-37/startupai/internal/models"
)

// QualityThreshold is the default score below which a generated canvas is
// flagged for review.
const QualityThreshold = 0.7

// AssessQuality scores a canvas by section completeness: the share of the
// type's sections that hold at least one item. Missing data or an unknown
// type scores 0.
func AssessQuality(t models.CanvasType, data models.CanvasData) float64 {
	keys := models.SectionKeys(t)
	if len(keys) == 0 || len(data) == 0 {
		return 0
	}
	return float64(data.Filled(keys)) / float64(len(keys))
}

// QualityReport explains a completeness score.
type QualityReport struct {
	CanvasID        string   `json:"canvasId"`
	Type            string   `json:"type"`
	Score           float64  `json:"score"`
	Filled          int      `json:"filled"`
	Total           int      `json:"total"`
	MissingSections []string `json:"missingSections"`
	BelowThreshold  bool     `json:"belowThreshold"`
}

// BuildQualityReport scores c against threshold.
func BuildQualityReport(c *models.Canvas, threshold float64) QualityReport {
	keys := models.SectionKeys(c.Type)
	report := QualityReport{
		CanvasID:        c.ID,
		Type:            string(c.Type),
		Score:           AssessQuality(c.Type, c.Data),
		Total:           len(keys),
		MissingSections: []string{},
	}
	for _, key := range keys {
		if c.Data.Filled([]string{key}) == 0 {
			report.MissingSections = append(report.MissingSections, key)
			continue
		}
		report.Filled++
	}
	report.BelowThreshold = report.Score < threshold
	return report
}
