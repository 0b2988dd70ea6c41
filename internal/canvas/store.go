package canvas

import (
	"context"

	"github.com/shubh-37/startupai/internal/models"
)

// Store persists canvases. GetByID and FindLatest return
// models.ErrCanvasNotFound when nothing matches.
type Store interface {
	Create(ctx context.Context, c *models.Canvas) error
	GetByID(ctx context.Context, id string) (*models.Canvas, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.Canvas, error)
	FindLatest(ctx context.Context, clientID string, canvasType models.CanvasType) (*models.Canvas, error)
	Update(ctx context.Context, c *models.Canvas) error
}

// Notifier is told about canvases that are ready for review.
type Notifier interface {
	CanvasReady(ctx context.Context, c *models.Canvas) error
}
