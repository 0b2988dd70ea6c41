package models

import "time"

// OnboardingSession tracks a founder's progress through the onboarding conversation
type OnboardingSession struct {
	ID              string         `json:"id" bson:"_id"`
	UserID          string         `json:"userId" bson:"user_id"`
	PlanType        string         `json:"planType" bson:"plan_type"` // "trial", "sprint", "founder", "enterprise"
	CurrentStage    int            `json:"currentStage" bson:"current_stage"`
	StageProgress   int            `json:"stageProgress" bson:"stage_progress"`
	OverallProgress float64        `json:"overallProgress" bson:"overall_progress"`
	MessageCount    int            `json:"messageCount" bson:"message_count"`
	Brief           map[string]any `json:"brief" bson:"brief"`
	Status          string         `json:"status" bson:"status"` // "active", "completed"
	CreatedAt       time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updated_at"`
}

// NewOnboardingSession creates a session positioned at the first stage
func NewOnboardingSession(userID, planType string) *OnboardingSession {
	now := time.Now()
	return &OnboardingSession{
		UserID:       userID,
		PlanType:     planType,
		CurrentStage: 1,
		Brief:        map[string]any{},
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
