package canvas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

// Service owns the canvas lifecycle on top of a Store.
type Service struct {
	store     Store
	logger    *zap.Logger
	notifier  Notifier
	threshold float64
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the hook called when a generated canvas is saved.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithQualityThreshold overrides QualityThreshold.
func WithQualityThreshold(threshold float64) Option {
	return func(s *Service) { s.threshold = threshold }
}

func NewService(store Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, logger: logger, threshold: QualityThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier replaces the notifier. Call it before the service is shared.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Threshold returns the quality threshold in use.
func (s *Service) Threshold() float64 {
	return s.threshold
}

func (s *Service) Get(ctx context.Context, id string) (*models.Canvas, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrCanvasNotFound) {
			return nil, models.ErrCanvasNotFound
		}
		return nil, fmt.Errorf("failed to get canvas: %w", err)
	}
	return c, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]*models.Canvas, error) {
	canvases, err := s.store.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list canvases: %w", err)
	}
	return canvases, nil
}

// Save updates the latest canvas of the same client and type, or creates a
// new one when the client has none.
func (s *Service) Save(ctx context.Context, c *models.Canvas) error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: clientId is required", models.ErrInvalidInput)
	}
	if !c.Type.Valid() {
		return models.ErrUnsupportedCanvasType
	}
	c.UpdatedAt = time.Now()

	if c.ID == "" {
		existing, err := s.store.FindLatest(ctx, c.ClientID, c.Type)
		switch {
		case err == nil:
			c.ID = existing.ID
			c.CreatedAt = existing.CreatedAt
		case errors.Is(err, models.ErrCanvasNotFound):
			c.ID = uuid.New().String()
			if c.CreatedAt.IsZero() {
				c.CreatedAt = c.UpdatedAt
			}
			if err := s.store.Create(ctx, c); err != nil {
				return fmt.Errorf("failed to create canvas: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to find latest canvas: %w", err)
		}
	}

	if err := s.store.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update canvas: %w", err)
	}
	return nil
}

// Score assesses c, records the score in its metadata and warns when it is
// below the threshold.
func (s *Service) Score(c *models.Canvas) float64 {
	score := AssessQuality(c.Type, c.Data)
	c.Metadata.QualityScore = score
	s.warnBelowThreshold(c)
	return score
}

// SaveScored scores c, saves it, and warns once the canvas has its ID.
func (s *Service) SaveScored(ctx context.Context, c *models.Canvas) (float64, error) {
	score := AssessQuality(c.Type, c.Data)
	c.Metadata.QualityScore = score
	if err := s.Save(ctx, c); err != nil {
		return score, err
	}
	s.warnBelowThreshold(c)
	return score, nil
}

func (s *Service) warnBelowThreshold(c *models.Canvas) {
	if c.Metadata.QualityScore >= s.threshold {
		return
	}
	s.logger.Warn("Canvas quality below threshold",
		zap.String("canvas_id", c.ID),
		zap.String("client_id", c.ClientID),
		zap.String("type", string(c.Type)),
		zap.Float64("score", c.Metadata.QualityScore),
		zap.Float64("threshold", s.threshold),
	)
}

// Quality reports the completeness of a stored canvas.
func (s *Service) Quality(ctx context.Context, id string) (QualityReport, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return QualityReport{}, err
	}
	return BuildQualityReport(c, s.threshold), nil
}

func (s *Service) Publish(ctx context.Context, id string) (*models.Canvas, error) {
	return s.setStatus(ctx, id, models.StatusPublished)
}

func (s *Service) Archive(ctx context.Context, id string) (*models.Canvas, error) {
	return s.setStatus(ctx, id, models.StatusArchived)
}

func (s *Service) setStatus(ctx context.Context, id string, status models.CanvasStatus) (*models.Canvas, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.Status = status
	c.UpdatedAt = now
	if status == models.StatusPublished {
		c.PublishedAt = &now
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update canvas status: %w", err)
	}

	s.logger.Info("Canvas status changed",
		zap.String("canvas_id", c.ID),
		zap.String("status", string(status)),
	)
	return c, nil
}

// Notify hands c to the notifier, if any. Failures are logged only.
func (s *Service) Notify(ctx context.Context, c *models.Canvas) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.CanvasReady(ctx, c); err != nil {
		s.logger.Error("Failed to notify about canvas", zap.String("canvas_id", c.ID), zap.Error(err))
	}
}

// VisualOptions selects formats and page size for GenerateVisualCanvas.
type VisualOptions struct {
	Formats []models.VisualFormat `json:"formats"`
	Width   int                   `json:"width,omitempty"`
	Height  int                   `json:"height,omitempty"`
}

// VisualResult carries the rendered assets keyed by format.
type VisualResult struct {
	CanvasID string                        `json:"canvasId"`
	Assets   map[string]models.VisualAsset `json:"assets"`
}

// GenerateVisualCanvas renders a stored canvas in the requested formats and
// records the export summary in its metadata.
func (s *Service) GenerateVisualCanvas(ctx context.Context, canvasID string, opts VisualOptions) (*VisualResult, error) {
	c, err := s.Get(ctx, canvasID)
	if err != nil {
		return nil, err
	}
	if !c.Type.Valid() {
		return nil, models.ErrUnsupportedCanvasType
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []models.VisualFormat{models.FormatSVG}
	}
	render := RenderOptions{Width: opts.Width, Height: opts.Height}

	result := &VisualResult{CanvasID: c.ID, Assets: make(map[string]models.VisualAsset, len(formats))}
	for _, format := range formats {
		asset, err := Export(c, format, render)
		if err != nil {
			return nil, err
		}
		result.Assets[string(format)] = asset
	}

	c.Metadata.VisualGenerated = true
	c.Metadata.VisualFormats = make([]string, 0, len(formats))
	c.Metadata.VisualAssetSizes = make(map[string]int, len(formats))
	for _, format := range formats {
		key := string(format)
		c.Metadata.VisualFormats = append(c.Metadata.VisualFormats, key)
		c.Metadata.VisualAssetSizes[key] = result.Assets[key].Size
	}
	c.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save visual metadata: %w", err)
	}

	s.logger.Info("Generated canvas visuals",
		zap.String("canvas_id", c.ID),
		zap.Strings("formats", c.Metadata.VisualFormats),
	)
	return result, nil
}
