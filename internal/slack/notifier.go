package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/models"
)

var _ canvas.Notifier = (*Notifier)(nil)

// Notifier posts generated canvases to a review channel and hands the
// message to the approval handler.
type Notifier struct {
	client    *Client
	channelID string
	approvals *ApprovalHandler
	threshold float64
	logger    *zap.Logger
}

func NewNotifier(client *Client, channelID string, approvals *ApprovalHandler, threshold float64, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		client:    client,
		channelID: channelID,
		approvals: approvals,
		threshold: threshold,
		logger:    logger,
	}
}

func (n *Notifier) CanvasReady(ctx context.Context, c *models.Canvas) error {
	report := canvas.BuildQualityReport(c, n.threshold)
	fallback := fmt.Sprintf("Canvas ready for review: %s", c.Title)

	ts, err := n.client.PostBlocks(ctx, n.channelID, fallback, CanvasBlocks(c, report)...)
	if err != nil {
		return err
	}
	if n.approvals != nil {
		n.approvals.Track(ts, c.ID)
	}

	n.logger.Info("Posted canvas for review",
		zap.String("canvas_id", c.ID),
		zap.String("channel", n.channelID),
		zap.String("ts", ts),
	)
	return nil
}

// CanvasBlocks renders the review message for a canvas.
func CanvasBlocks(c *models.Canvas, report canvas.QualityReport) []slack.Block {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Canvas ready for review", false, false))

	summary := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*%s*\n%s", c.Title, c.Type), false, false),
		[]*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Quality*\n%.0f%%", report.Score*100), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Sections filled*\n%d/%d", report.Filled, report.Total), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status*\n%s", c.Status), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Canvas ID*\n`%s`", c.ID), false, false),
		},
		nil,
	)

	blocks := []slack.Block{header, summary}
	if report.BelowThreshold {
		warning := fmt.Sprintf(":warning: Quality below threshold. Missing: %s", joinTitles(report.MissingSections))
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, warning, false, false), nil, nil))
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "React with :white_check_mark: to publish or :x: to archive.", false, false),
	))
	return blocks
}

func joinTitles(keys []string) string {
	if len(keys) == 0 {
		return "none"
	}
	titles := make([]string, len(keys))
	for i, k := range keys {
		titles[i] = canvas.SectionTitle(k)
	}
	return strings.Join(titles, ", ")
}
