package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

// CanvasActions changes a canvas's review status.
type CanvasActions interface {
	Publish(ctx context.Context, id string) (*models.Canvas, error)
	Archive(ctx context.Context, id string) (*models.Canvas, error)
}

// ApprovalHandler turns reactions on review messages into canvas status
// changes.
type ApprovalHandler struct {
	client   *Client
	canvases CanvasActions
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]string // message ts -> canvas id
}

func NewApprovalHandler(client *Client, canvases CanvasActions, logger *zap.Logger) *ApprovalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalHandler{
		client:   client,
		canvases: canvases,
		logger:   logger,
		pending:  make(map[string]string),
	}
}

// Track remembers which canvas a review message is about.
func (h *ApprovalHandler) Track(messageTS, canvasID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[messageTS] = canvasID
}

// CanvasFor returns the canvas a review message is about.
func (h *ApprovalHandler) CanvasFor(messageTS string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.pending[messageTS]
	return id, ok
}

func (h *ApprovalHandler) HandleReaction(ctx context.Context, event *slackevents.ReactionAddedEvent) error {
	canvasID, ok := h.CanvasFor(event.Item.Timestamp)
	if !ok {
		return nil
	}

	var (
		c      *models.Canvas
		err    error
		action string
	)
	switch event.Reaction {
	case "white_check_mark", "heavy_check_mark":
		action = "published"
		c, err = h.canvases.Publish(ctx, canvasID)
	case "x", "negative_squared_cross_mark":
		action = "archived"
		c, err = h.canvases.Archive(ctx, canvasID)
	default:
		return nil
	}

	if err != nil {
		h.logger.Error("Failed to apply canvas review",
			zap.String("canvas_id", canvasID),
			zap.String("reaction", event.Reaction),
			zap.Error(err),
		)
		_ = h.client.SendMessage(ctx, event.Item.Channel, fmt.Sprintf("Could not update canvas `%s`: %v", canvasID, err))
		return err
	}

	h.mu.Lock()
	delete(h.pending, event.Item.Timestamp)
	h.mu.Unlock()

	h.logger.Info("Canvas reviewed in Slack",
		zap.String("canvas_id", canvasID),
		zap.String("action", action),
		zap.String("user", event.User),
	)

	icon := ":white_check_mark:"
	if action == "archived" {
		icon = ":x:"
	}
	return h.client.SendMessage(ctx, event.Item.Channel, fmt.Sprintf("%s Canvas *%s* %s by <@%s>.", icon, c.Title, action, event.User))
}
