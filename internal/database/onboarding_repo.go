package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/startupai/internal/models"
	"github.com/shubh-37/startupai/internal/onboarding"
)

var _ onboarding.Store = (*OnboardingRepository)(nil)

type OnboardingRepository struct {
	db *DB
}

func NewOnboardingRepository(db *DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

func (r *OnboardingRepository) Create(ctx context.Context, session *models.OnboardingSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}

	briefJSON, err := json.Marshal(session.Brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}

	query := `
		INSERT INTO onboarding_sessions (id, user_id, plan_type, current_stage, stage_progress,
		                                 overall_progress, message_count, brief, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.PlanType,
		session.CurrentStage,
		session.StageProgress,
		session.OverallProgress,
		session.MessageCount,
		briefJSON,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create onboarding session: %w", err)
	}

	return nil
}

func (r *OnboardingRepository) GetByID(ctx context.Context, id string) (*models.OnboardingSession, error) {
	query := `
		SELECT id, user_id, plan_type, current_stage, stage_progress, overall_progress,
		       message_count, brief, status, created_at, updated_at
		FROM onboarding_sessions
		WHERE id = $1
	`

	session := &models.OnboardingSession{}
	var briefJSON []byte
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.PlanType,
		&session.CurrentStage,
		&session.StageProgress,
		&session.OverallProgress,
		&session.MessageCount,
		&briefJSON,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get onboarding session: %w", err)
	}

	session.Brief = map[string]any{}
	if len(briefJSON) > 0 {
		if err := json.Unmarshal(briefJSON, &session.Brief); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brief: %w", err)
		}
	}

	return session, nil
}

func (r *OnboardingRepository) Update(ctx context.Context, session *models.OnboardingSession) error {
	briefJSON, err := json.Marshal(session.Brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}

	query := `
		UPDATE onboarding_sessions
		SET current_stage = $2, stage_progress = $3, overall_progress = $4,
		    message_count = $5, brief = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		session.ID,
		session.CurrentStage,
		session.StageProgress,
		session.OverallProgress,
		session.MessageCount,
		briefJSON,
		session.Status,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update onboarding session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrSessionNotFound
	}

	return nil
}
