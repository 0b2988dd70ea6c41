package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

var _ gate.EvidenceStore = (*EvidenceStore)(nil)

type EvidenceStore struct {
	mu       sync.RWMutex
	evidence map[string][]*models.Evidence
	gates    map[string]models.ProjectGate
}

func NewEvidenceStore() *EvidenceStore {
	return &EvidenceStore{
		evidence: make(map[string][]*models.Evidence),
		gates:    make(map[string]models.ProjectGate),
	}
}

func (s *EvidenceStore) Create(ctx context.Context, e *models.Evidence) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	cp := *e
	cp.Tags = append([]string{}, e.Tags...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[e.ProjectID] = append(s.evidence[e.ProjectID], &cp)
	return nil
}

// ListByProject returns the project's evidence in insertion order.
func (s *EvidenceStore) ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.evidence[projectID]
	out := make([]*models.Evidence, len(items))
	for i, e := range items {
		cp := *e
		cp.Tags = append([]string{}, e.Tags...)
		out[i] = &cp
	}
	return out, nil
}

func (s *EvidenceStore) SaveGate(ctx context.Context, g *models.ProjectGate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[g.ProjectID] = *g
	return nil
}

// Gate returns the last saved gate state for a project.
func (s *EvidenceStore) Gate(projectID string) (models.ProjectGate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gates[projectID]
	return g, ok
}
