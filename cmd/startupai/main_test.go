package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	root := newRootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "1.2.3"
	defer func() { version = original }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "startupai version 1.2.3")
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	c := models.NewCanvas("client-1", models.CanvasValueProposition, "Agency books")
	c.Data = models.CanvasData{
		models.SectionCustomerJobs: {"Close the monthly books"},
		models.SectionPains:        {"Reconciliation takes 10 hours"},
	}
	path := writeJSON(t, dir, "vpc.json", c)

	out, err := execute(t, "render", path, "--out", dir, "--format", "svg,pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "quality below threshold")
	assert.Contains(t, out, "vpc.svg")

	svgOut, err := os.ReadFile(filepath.Join(dir, "vpc.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svgOut), "<svg")

	pdfOut, err := os.ReadFile(filepath.Join(dir, "vpc.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfOut, []byte("%PDF")))
}

func TestRenderCmd_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "lean.json", map[string]any{"type": "leanCanvas", "title": "Lean"})

	_, err := execute(t, "render", path, "--out", dir)
	require.ErrorIs(t, err, models.ErrUnsupportedCanvasType)
	assert.EqualError(t, err, "Unsupported canvas type")
}

func sampleEvidence() []*models.Evidence {
	mk := func(typ string, strength models.EvidenceStrength) *models.Evidence {
		return models.NewEvidence("proj-1", typ, strength, 0.8)
	}
	return []*models.Evidence{
		mk("interview", models.StrengthStrong), mk("interview", models.StrengthStrong),
		mk("interview", models.StrengthMedium), mk("analytics", models.StrengthMedium),
		mk("analytics", models.StrengthMedium), mk("experiment", models.StrengthStrong),
		mk("experiment", models.StrengthMedium), mk("experiment", models.StrengthMedium),
		mk("experiment", models.StrengthMedium), mk("experiment", models.StrengthMedium),
	}
}

func TestGateCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "evidence.json", sampleEvidence())

	out, err := execute(t, "gate", path, "--stage", "desirability")
	require.NoError(t, err)

	var report gateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, gate.StatusPassed, report.Status)
	assert.Equal(t, gate.StageFeasibility, report.NextStage)
	assert.Equal(t, 10, report.EvidenceCount)
	assert.InDelta(t, 1.0, report.ReadinessScore, 1e-9)
}

func TestGateCmd_CustomCriteria(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "evidence.json", sampleEvidence())
	criteria := filepath.Join(dir, "criteria.yaml")
	require.NoError(t, os.WriteFile(criteria, []byte(`
min_experiments: 12
min_evidence_quality: 0.5
min_total_evidence: 5
required_evidence_types: [interview, survey]
`), 0o644))

	out, err := execute(t, "gate", path, "--criteria", criteria)
	require.NoError(t, err)

	var report gateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, gate.StatusFailed, report.Status)
	assert.Equal(t, []string{
		"Insufficient experiments: 5/12",
		"Missing required evidence types: survey",
	}, report.Reasons)
	assert.Empty(t, report.NextStage)
}

func TestGateCmd_NoEvidence(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "evidence.json", []any{})

	out, err := execute(t, "gate", path)
	require.NoError(t, err)

	var report gateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, gate.StatusPending, report.Status)
}

func TestGateCmd_InvalidStage(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "evidence.json", sampleEvidence())

	_, err := execute(t, "gate", path, "--stage", "launch")
	require.ErrorIs(t, err, models.ErrInvalidInput)
}
