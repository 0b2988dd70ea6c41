package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/startupai/internal/models"
)

// testDB connects to DATABASE_TEST_URL; tests skip when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DATABASE_TEST_URL")
	if url == "" {
		t.Skip("DATABASE_TEST_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := NewDB(ctx, url, nil)
	require.NoError(t, err)
	require.NoError(t, db.CreateTables(ctx))
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `TRUNCATE canvases, evidence, project_gates, onboarding_sessions`)
		db.Close()
	})
	return db
}

func TestCanvasRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewCanvasRepository(db)

	c := models.NewCanvas("client-db", models.CanvasValueProposition, "Books")
	c.Data = models.CanvasData{models.SectionPains: {"slow close"}}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Data, got.Data)

	got.Metadata.QualityScore = 0.5
	got.Status = models.StatusPublished
	require.NoError(t, repo.Update(ctx, got))

	latest, err := repo.FindLatest(ctx, "client-db", models.CanvasValueProposition)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, latest.Status)
	assert.InDelta(t, 0.5, latest.Metadata.QualityScore, 1e-9)

	list, err := repo.ListByClient(ctx, "client-db")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repo.ListByClient(ctx, "client-without-canvases")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrCanvasNotFound)
	_, err = repo.FindLatest(ctx, "client-db", models.CanvasBusinessModel)
	assert.ErrorIs(t, err, models.ErrCanvasNotFound)
}

func TestEvidenceRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewEvidenceRepository(db)

	e := models.NewEvidence("project-db", "interview", models.StrengthStrong, 0.8)
	require.NoError(t, repo.Create(ctx, e))

	items, err := repo.ListByProject(ctx, "project-db")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.StrengthStrong, items[0].Strength)

	gate := &models.ProjectGate{ProjectID: "project-db", Stage: "DESIRABILITY", GateStatus: "Failed", EvidenceCount: 1}
	require.NoError(t, repo.SaveGate(ctx, gate))
	gate.GateStatus = "Passed"
	require.NoError(t, repo.SaveGate(ctx, gate))
}

func TestOnboardingRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewOnboardingRepository(db)

	session := models.NewOnboardingSession("user-db", "founder")
	require.NoError(t, repo.Create(ctx, session))

	session.CurrentStage = 2
	session.Brief["customer_segments"] = "agencies"
	require.NoError(t, repo.Update(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStage)
	assert.Equal(t, "agencies", got.Brief["customer_segments"])

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
