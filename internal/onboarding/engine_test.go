package onboarding

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return &Engine{now: func() time.Time { return fixedNow }}
}

const longMessage = "We help independent clinics book patients faster with a shared scheduling layer."

func TestStagesConfiguration(t *testing.T) {
	require.Len(t, Stages, 7)
	thresholds := make([]int, 0, len(Stages))
	for i, s := range Stages {
		assert.Equal(t, i+1, s.ID)
		assert.Len(t, s.KeyQuestions, 3)
		thresholds = append(thresholds, s.ProgressThreshold)
	}
	if diff := cmp.Diff([]int{80, 75, 80, 75, 70, 75, 85}, thresholds); diff != "" {
		t.Errorf("thresholds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Welcome & Introduction", StageByID(0).Name)
	assert.Equal(t, "Goals & Next Steps", StageByID(7).Name)
}

func TestPersonaFor(t *testing.T) {
	assert.Equal(t, "Alex", PersonaFor(PlanTrial).Name)
	assert.Equal(t, "Jordan", PersonaFor(PlanSprint).Name)
	assert.Equal(t, "Morgan", PersonaFor(PlanFounder).Name)
	assert.Equal(t, "Taylor", PersonaFor(PlanEnterprise).Name)
	assert.Equal(t, "Alex", PersonaFor("platinum").Name)
}

func TestStageProgress(t *testing.T) {
	tests := []struct {
		name    string
		message string
		history int
		want    int
	}{
		{"short", "An app", 0, 10},
		{"detailed", longMessage, 0, 20},
		{"specific", "Mainly dentists", 0, 25},
		{"detailed and specific", longMessage + " Specifically rural ones.", 0, 35},
		{"history", "An app", 2, 40},
		{"capped", longMessage, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageProgress(tt.message, tt.history))
		})
	}
}

func TestOverallProgress(t *testing.T) {
	assert.Equal(t, 0.0, OverallProgress(1, 0))
	assert.InDelta(t, 35.0, OverallProgress(3, 50), 1e-9)
	assert.InDelta(t, 98.0, OverallProgress(7, 100), 1e-9)
	assert.Equal(t, 100.0, OverallProgress(9, 100))
}

func TestStart(t *testing.T) {
	intro := newTestEngine().Start(PlanFounder, nil)

	assert.True(t, strings.HasPrefix(intro.Introduction, "Hi! I'm Morgan, your Senior Strategy Advisor."))
	assert.Equal(t, 1, intro.StageState.CurrentStage)
	assert.Equal(t, 7, intro.StageState.TotalStages)
	assert.Equal(t, "Getting to know you and your business idea", intro.StageState.Summary)
	assert.Equal(t, ClarityMedium, intro.Quality.Clarity.Label)
	assert.Equal(t, 0.46, intro.Quality.Overall)
	assert.Equal(t, []string{"needs_detail"}, intro.Quality.Tags)
	assert.NotNil(t, intro.UserContext)
	assert.Equal(t, fixedNow, intro.Snapshot.UpdatedAt)
	assert.Len(t, intro.ExpectedOutcomes, 6)
}

func TestProcess_ShortFirstMessage(t *testing.T) {
	reply := newTestEngine().Process("I want to build an app", 1, 0)

	assert.Contains(t, reply.AgentResponse, "A software solution")
	assert.Equal(t, map[string]any{"business_stage": "idea", "solution_type": "software"}, reply.BriefUpdate)
	assert.NotEmpty(t, reply.FollowUpQuestion)

	assert.Equal(t, 1, reply.StageState.CurrentStage)
	assert.Equal(t, 10, reply.StageState.StageProgress)
	assert.False(t, reply.StageState.IsStageComplete)
	assert.InDelta(t, 1.4, reply.StageState.OverallProgress, 1e-9)

	assert.Equal(t, ClarityLow, reply.Quality.Clarity.Label)
	assert.Equal(t, 0.38, reply.Quality.Clarity.Score)
	assert.Equal(t, CompletenessInsufficient, reply.Quality.Completeness.Label)
	assert.Equal(t, []string{"clarity_low", "incomplete"}, reply.Quality.Tags)
	assert.Len(t, reply.Quality.Suggestions, 2)

	want := SystemActions{RequestClarification: true, NeedsReview: true}
	assert.Equal(t, want, reply.Actions)
	assert.Equal(t, []string{"business_stage", "solution_type"}, reply.Snapshot.BriefFields)
	assert.Equal(t, "Additional detail captured", reply.Snapshot.Notes)
}

func TestProcess_CompletesStage(t *testing.T) {
	reply := newTestEngine().Process(longMessage+" Specifically a consulting service.", 1, 5)

	assert.True(t, reply.StageState.IsStageComplete)
	assert.Equal(t, 2, reply.StageState.CurrentStage)
	assert.Equal(t, 1, reply.StageState.PreviousStage)
	assert.Equal(t, "Customer Discovery", reply.StageState.NextStageName)
	assert.Equal(t, 0, reply.StageState.StageProgress)
	assert.Empty(t, reply.FollowUpQuestion)
	assert.Contains(t, reply.AgentResponse, "service-based business")
	assert.Contains(t, reply.AgentResponse, "Now that I understand your core concept")

	assert.Equal(t, ClarityHigh, reply.Quality.Clarity.Label)
	assert.Equal(t, CompletenessComplete, reply.Quality.Completeness.Label)
	assert.Equal(t, 1.0, reply.Quality.DetailScore)
	assert.Empty(t, reply.Quality.Tags)
	assert.True(t, reply.Actions.SaveCheckpoint)
	assert.False(t, reply.Actions.TriggerWorkflow)
	assert.Equal(t, "Stage advanced", reply.Snapshot.Notes)
}

func TestProcess_StageSpecificBrief(t *testing.T) {
	e := newTestEngine()

	reply := e.Process("Customers find it painful and expensive to reconcile invoices by hand.", 3, 0)
	assert.Equal(t, 8, reply.BriefUpdate["problem_pain_level"])
	assert.NotEmpty(t, reply.BriefUpdate["problem_description"])

	reply = e.Process("It takes a while.", 3, 0)
	assert.Equal(t, 6, reply.BriefUpdate["problem_pain_level"])

	reply = e.Process("Small business owners with tiny finance teams", 2, 0)
	assert.Equal(t, "b2b", reply.BriefUpdate["customer_type"])

	reply = e.Process("We have $25,000 saved and two engineers.", 6, 0)
	assert.Equal(t, "$25,000", reply.BriefUpdate["budget_range"])
	assert.Contains(t, reply.AgentResponse, "clear budget")

	reply = e.Process("There is no competition at all.", 5, 0)
	assert.Contains(t, reply.AgentResponse, "manual processes or workarounds")
}

func TestProcess_FinalStageTriggersWorkflow(t *testing.T) {
	reply := newTestEngine().Process("Sign ten paying clinics and reach $5,000 MRR, mainly through referrals.", 7, 6)

	assert.True(t, reply.StageState.IsStageComplete)
	assert.Equal(t, 7, reply.StageState.CurrentStage)
	assert.True(t, reply.Actions.TriggerWorkflow)
	assert.NotEmpty(t, reply.FollowUpQuestion)
	assert.Contains(t, reply.AgentResponse, "covered all the key areas")
	assert.Equal(t, []string{"Sign ten paying clinics and reach $5,000 MRR, mainly through referrals."}, reply.BriefUpdate["three_month_goals"])
}

func TestProcess_UnknownStageFallsBackToFirst(t *testing.T) {
	reply := newTestEngine().Process("hello", 42, 0)
	assert.Equal(t, 1, reply.StageState.PreviousStage)
	assert.Equal(t, "Welcome & Introduction", reply.StageState.StageName)
}
