package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

// Session statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

const maxMessageLen = 5000

// Store persists onboarding sessions.
type Store interface {
	Create(ctx context.Context, session *models.OnboardingSession) error
	GetByID(ctx context.Context, id string) (*models.OnboardingSession, error)
	Update(ctx context.Context, session *models.OnboardingSession) error
}

// StartResult is a freshly created session and its opening.
type StartResult struct {
	Session      *models.OnboardingSession `json:"session"`
	Introduction *Introduction             `json:"introduction"`
}

// MessageResult is the session after a message and the engine's reply.
type MessageResult struct {
	Session *models.OnboardingSession `json:"session"`
	Reply   *Reply                    `json:"reply"`
}

type Service struct {
	store  Store
	engine *Engine
	logger *zap.Logger
}

func NewService(store Store, engine *Engine, logger *zap.Logger) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, engine: engine, logger: logger}
}

// Start opens a session for the user. An empty plan means trial.
func (s *Service) Start(ctx context.Context, userID, plan string, userContext map[string]any) (*StartResult, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", models.ErrInvalidInput)
	}
	if plan == "" {
		plan = PlanTrial
	}
	if _, ok := personas[plan]; !ok {
		return nil, fmt.Errorf("%w: unknown plan type %q", models.ErrInvalidInput, plan)
	}

	session := models.NewOnboardingSession(userID, plan)
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create onboarding session: %w", err)
	}

	s.logger.Info("Onboarding session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
		zap.String("plan", plan),
	)
	return &StartResult{Session: session, Introduction: s.engine.Start(plan, userContext)}, nil
}

// SendMessage scores a founder message against the session's current stage,
// merges the brief update and advances the session.
func (s *Service) SendMessage(ctx context.Context, sessionID, message string) (*MessageResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrInvalidInput)
	}
	if len(message) > maxMessageLen {
		return nil, fmt.Errorf("%w: message exceeds %d characters", models.ErrInvalidInput, maxMessageLen)
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: session %s is already completed", models.ErrInvalidInput, sessionID)
	}

	reply := s.engine.Process(message, session.CurrentStage, session.MessageCount)

	if session.Brief == nil {
		session.Brief = map[string]any{}
	}
	for k, v := range reply.BriefUpdate {
		session.Brief[k] = v
	}
	session.MessageCount++
	session.CurrentStage = reply.StageState.CurrentStage
	session.StageProgress = reply.StageState.StageProgress
	session.OverallProgress = reply.StageState.OverallProgress
	if reply.Actions.TriggerWorkflow {
		session.Status = StatusCompleted
		session.OverallProgress = 100
	}
	session.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update onboarding session: %w", err)
	}

	s.logger.Info("Onboarding message processed",
		zap.String("session_id", session.ID),
		zap.Int("stage", reply.StageState.PreviousStage),
		zap.Int("stage_progress", reply.StageState.StageProgress),
		zap.Bool("stage_complete", reply.StageState.IsStageComplete),
	)
	return &MessageResult{Session: session, Reply: reply}, nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, sessionID string) (*models.OnboardingSession, error) {
	return s.store.GetByID(ctx, sessionID)
}
