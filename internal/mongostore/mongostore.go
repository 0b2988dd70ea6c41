// Package mongostore persists canvases, evidence and onboarding sessions in
// MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/models"
)

const (
	canvasCollection     = "canvases"
	evidenceCollection   = "evidence"
	gateCollection       = "project_gates"
	onboardingCollection = "onboarding_sessions"
)

var _ canvas.Store = (*CanvasStore)(nil)

type CanvasStore struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
	logger *zap.Logger
}

// Connect opens a client, verifies it with a ping and ensures the canvas
// indexes exist.
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*CanvasStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("unable to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &CanvasStore{
		client: client,
		db:     db,
		coll:   db.Collection(canvasCollection),
		logger: logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("MongoDB connected", zap.String("database", database))
	return s, nil
}

func (s *CanvasStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create canvas indexes: %w", err)
	}
	_, err = s.db.Collection(evidenceCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create evidence indexes: %w", err)
	}
	return nil
}

// Evidence returns the evidence store sharing this connection.
func (s *CanvasStore) Evidence() *EvidenceStore {
	return &EvidenceStore{
		evidence: s.db.Collection(evidenceCollection),
		gates:    s.db.Collection(gateCollection),
	}
}

// Onboarding returns the onboarding session store sharing this connection.
func (s *CanvasStore) Onboarding() *OnboardingStore {
	return &OnboardingStore{coll: s.db.Collection(onboardingCollection)}
}

func (s *CanvasStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *CanvasStore) Health(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *CanvasStore) Create(ctx context.Context, c *models.Canvas) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create canvas: %w", err)
	}
	return nil
}

func (s *CanvasStore) GetByID(ctx context.Context, id string) (*models.Canvas, error) {
	c := &models.Canvas{}
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCanvasNotFound
		}
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}
	return c, nil
}

func (s *CanvasStore) ListByClient(ctx context.Context, clientID string) ([]*models.Canvas, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"client_id": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query canvases: %w", err)
	}
	defer cursor.Close(ctx)

	canvases := []*models.Canvas{}
	if err := cursor.All(ctx, &canvases); err != nil {
		return nil, fmt.Errorf("failed to decode canvases: %w", err)
	}
	return canvases, nil
}

func (s *CanvasStore) FindLatest(ctx context.Context, clientID string, canvasType models.CanvasType) (*models.Canvas, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	c := &models.Canvas{}
	err := s.coll.FindOne(ctx, bson.M{"client_id": clientID, "type": canvasType}, opts).Decode(c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCanvasNotFound
		}
		return nil, fmt.Errorf("failed to find latest canvas: %w", err)
	}
	return c, nil
}

func (s *CanvasStore) Update(ctx context.Context, c *models.Canvas) error {
	result, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("failed to update canvas: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrCanvasNotFound
	}
	return nil
}
