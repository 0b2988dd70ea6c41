package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shubh-37/startupai/internal/models"
)

func fullVPC() models.CanvasData {
	return models.CanvasData{
		models.SectionCustomerJobs:  {"Manage monthly bookkeeping for a small agency"},
		models.SectionPains:         {"Reconciling invoices takes 10 hours a month"},
		models.SectionGains:         {"Close the books 50% faster"},
		models.SectionProducts:      {"Automated bookkeeping app"},
		models.SectionPainRelievers: {"Automatic invoice reconciling"},
		models.SectionGainCreators:  {"One-click month close, books faster"},
	}
}

func fullBMC() models.CanvasData {
	data := models.CanvasData{}
	for _, key := range models.SectionKeys(models.CanvasBusinessModel) {
		data[key] = []string{key + " item"}
	}
	return data
}

func TestAssessQuality_Empty(t *testing.T) {
	assert.Equal(t, 0.0, AssessQuality(models.CanvasValueProposition, nil))
	assert.Equal(t, 0.0, AssessQuality(models.CanvasBusinessModel, models.CanvasData{}))
}

func TestAssessQuality_FullVPC(t *testing.T) {
	score := AssessQuality(models.CanvasValueProposition, fullVPC())
	assert.Greater(t, score, 0.8)
	assert.LessOrEqual(t, score, 1.0)
}

func TestAssessQuality_FullBMC(t *testing.T) {
	assert.Equal(t, 1.0, AssessQuality(models.CanvasBusinessModel, fullBMC()))
}

func TestAssessQuality_Partial(t *testing.T) {
	data := models.CanvasData{
		models.SectionCustomerJobs: {"job"},
		models.SectionPains:        {"pain"},
		models.SectionGains:        {"   "},
		models.SectionProducts:     {},
	}
	assert.InDelta(t, 2.0/6.0, AssessQuality(models.CanvasValueProposition, data), 1e-9)
}

func TestAssessQuality_UnknownType(t *testing.T) {
	assert.Equal(t, 0.0, AssessQuality("leanCanvas", fullVPC()))
}

func TestAssessQuality_InRange(t *testing.T) {
	for _, ct := range []models.CanvasType{models.CanvasValueProposition, models.CanvasBusinessModel, models.CanvasTestingBusinessIdeas} {
		score := AssessQuality(ct, fullBMC())
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestBuildQualityReport(t *testing.T) {
	c := models.NewCanvas("client-1", models.CanvasTestingBusinessIdeas, "Experiments")
	c.ID = "canvas-1"
	c.Data = models.CanvasData{models.SectionHypotheses: {"We believe founders want faster books"}}

	report := BuildQualityReport(c, QualityThreshold)
	assert.Equal(t, 1, report.Filled)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, []string{models.SectionExperiments, models.SectionLearnings}, report.MissingSections)
	assert.True(t, report.BelowThreshold)
}
