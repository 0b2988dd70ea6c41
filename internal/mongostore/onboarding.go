package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shubh-37/startupai/internal/models"
	"github.com/shubh-37/startupai/internal/onboarding"
)

var _ onboarding.Store = (*OnboardingStore)(nil)

type OnboardingStore struct {
	coll *mongo.Collection
}

func (s *OnboardingStore) Create(ctx context.Context, session *models.OnboardingSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = session.CreatedAt
	}

	if _, err := s.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create onboarding session: %w", err)
	}
	return nil
}

func (s *OnboardingStore) GetByID(ctx context.Context, id string) (*models.OnboardingSession, error) {
	session := &models.OnboardingSession{}
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get onboarding session: %w", err)
	}
	if session.Brief == nil {
		session.Brief = map[string]any{}
	}
	return session, nil
}

func (s *OnboardingStore) Update(ctx context.Context, session *models.OnboardingSession) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return fmt.Errorf("failed to update onboarding session: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}
