package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/startupai/internal/models"
	"github.com/shubh-37/startupai/internal/onboarding"
)

var _ onboarding.Store = (*OnboardingStore)(nil)

type OnboardingStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.OnboardingSession
}

func NewOnboardingStore() *OnboardingStore {
	return &OnboardingStore{sessions: make(map[string]*models.OnboardingSession)}
}

func cloneOnboarding(s *models.OnboardingSession) *models.OnboardingSession {
	out := *s
	out.Brief = make(map[string]any, len(s.Brief))
	for k, v := range s.Brief {
		out.Brief[k] = v
	}
	return &out
}

func (s *OnboardingStore) Create(ctx context.Context, session *models.OnboardingSession) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneOnboarding(session)
	return nil
}

func (s *OnboardingStore) GetByID(ctx context.Context, id string) (*models.OnboardingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return cloneOnboarding(session), nil
}

func (s *OnboardingStore) Update(ctx context.Context, session *models.OnboardingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return models.ErrSessionNotFound
	}
	s.sessions[session.ID] = cloneOnboarding(session)
	return nil
}
