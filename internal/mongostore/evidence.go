package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

var _ gate.EvidenceStore = (*EvidenceStore)(nil)

type EvidenceStore struct {
	evidence *mongo.Collection
	gates    *mongo.Collection
}

func (s *EvidenceStore) Create(ctx context.Context, e *models.Evidence) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}

	if _, err := s.evidence.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to create evidence: %w", err)
	}
	return nil
}

// ListByProject returns a project's evidence, oldest first.
func (s *EvidenceStore) ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.evidence.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer cursor.Close(ctx)

	evidence := []*models.Evidence{}
	if err := cursor.All(ctx, &evidence); err != nil {
		return nil, fmt.Errorf("failed to decode evidence: %w", err)
	}
	return evidence, nil
}

// SaveGate upserts the project's latest gate outcome.
func (s *EvidenceStore) SaveGate(ctx context.Context, g *models.ProjectGate) error {
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.gates.ReplaceOne(ctx, bson.M{"_id": g.ProjectID}, g, opts); err != nil {
		return fmt.Errorf("failed to save gate: %w", err)
	}
	return nil
}
