// Package memstore keeps entities in process memory. It backs the
// STORAGE_BACKEND=memory mode and the tests of the service packages.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/models"
)

var _ canvas.Store = (*CanvasStore)(nil)

type CanvasStore struct {
	mu       sync.RWMutex
	canvases map[string]*models.Canvas
}

func NewCanvasStore() *CanvasStore {
	return &CanvasStore{canvases: make(map[string]*models.Canvas)}
}

func cloneCanvas(c *models.Canvas) *models.Canvas {
	out := *c
	out.Data = c.Data.Clone()
	out.Metadata.VisualFormats = append([]string(nil), c.Metadata.VisualFormats...)
	if c.Metadata.VisualAssetSizes != nil {
		out.Metadata.VisualAssetSizes = make(map[string]int, len(c.Metadata.VisualAssetSizes))
		for k, v := range c.Metadata.VisualAssetSizes {
			out.Metadata.VisualAssetSizes[k] = v
		}
	}
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}

func (s *CanvasStore) Create(ctx context.Context, c *models.Canvas) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvases[c.ID] = cloneCanvas(c)
	return nil
}

func (s *CanvasStore) GetByID(ctx context.Context, id string) (*models.Canvas, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.canvases[id]
	if !ok {
		return nil, models.ErrCanvasNotFound
	}
	return cloneCanvas(c), nil
}

// ListByClient returns the client's canvases, newest first.
func (s *CanvasStore) ListByClient(ctx context.Context, clientID string) ([]*models.Canvas, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Canvas{}
	for _, c := range s.canvases {
		if c.ClientID == clientID {
			out = append(out, cloneCanvas(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *CanvasStore) FindLatest(ctx context.Context, clientID string, canvasType models.CanvasType) (*models.Canvas, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.Canvas
	for _, c := range s.canvases {
		if c.ClientID != clientID || c.Type != canvasType {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, models.ErrCanvasNotFound
	}
	return cloneCanvas(latest), nil
}

func (s *CanvasStore) Update(ctx context.Context, c *models.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.canvases[c.ID]; !ok {
		return models.ErrCanvasNotFound
	}
	s.canvases[c.ID] = cloneCanvas(c)
	return nil
}
