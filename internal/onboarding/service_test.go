package onboarding_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/memstore"
	"github.com/shubh-37/startupai/internal/models"
	"github.com/shubh-37/startupai/internal/onboarding"
)

func newService() (*onboarding.Service, *memstore.OnboardingStore) {
	store := memstore.NewOnboardingStore()
	return onboarding.NewService(store, onboarding.NewEngine(), zap.NewNop()), store
}

func TestService_Start(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	res, err := svc.Start(ctx, "user-1", "", map[string]any{"referrer": "newsletter"})
	require.NoError(t, err)
	assert.Equal(t, onboarding.PlanTrial, res.Session.PlanType)
	assert.Equal(t, 1, res.Session.CurrentStage)
	assert.Contains(t, res.Introduction.Introduction, "Alex")
	assert.Equal(t, "newsletter", res.Introduction.UserContext["referrer"])

	saved, err := store.GetByID(ctx, res.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", saved.UserID)

	_, err = svc.Start(ctx, "", onboarding.PlanTrial, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.Start(ctx, "user-1", "platinum", nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestService_SendMessageAdvancesSession(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	start, err := svc.Start(ctx, "user-1", onboarding.PlanSprint, nil)
	require.NoError(t, err)
	id := start.Session.ID

	res, err := svc.SendMessage(ctx, id, "I'm building a scheduling app for independent physiotherapy clinics.")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Session.CurrentStage)
	assert.Equal(t, 20, res.Session.StageProgress)
	assert.Equal(t, 1, res.Session.MessageCount)
	assert.Equal(t, "software", res.Session.Brief["solution_type"])

	var last *onboarding.MessageResult
	for i := 0; i < 3; i++ {
		last, err = svc.SendMessage(ctx, id, "Specifically clinics with two to five therapists that still use paper diaries.")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, last.Session.CurrentStage)
	assert.True(t, last.Reply.StageState.IsStageComplete)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.MessageCount)
	assert.Equal(t, onboarding.StatusActive, got.Status)
}

func TestService_CompletesAfterFinalStage(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	start, err := svc.Start(ctx, "user-2", onboarding.PlanFounder, nil)
	require.NoError(t, err)
	session := start.Session
	session.CurrentStage = 7
	session.MessageCount = 10
	require.NoError(t, store.Update(ctx, session))

	res, err := svc.SendMessage(ctx, session.ID, "Reach twenty paying customers and exactly $10,000 in monthly revenue.")
	require.NoError(t, err)
	assert.True(t, res.Reply.Actions.TriggerWorkflow)
	assert.Equal(t, onboarding.StatusCompleted, res.Session.Status)
	assert.Equal(t, 100.0, res.Session.OverallProgress)

	_, err = svc.SendMessage(ctx, session.ID, "One more thing")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestService_SendMessageValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "missing", "hello")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = svc.SendMessage(ctx, "missing", "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.SendMessage(ctx, "missing", strings.Repeat("a", 5001))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
