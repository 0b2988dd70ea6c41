package slack

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

// CanvasReader looks up canvases and their quality.
type CanvasReader interface {
	Get(ctx context.Context, id string) (*models.Canvas, error)
	Quality(ctx context.Context, id string) (canvas.QualityReport, error)
}

// GateEvaluator evaluates a project's stage gate.
type GateEvaluator interface {
	Evaluate(ctx context.Context, projectID string, stage gate.Stage) (*gate.Result, error)
}

// EvidenceImporter pulls completed Linear issues in as evidence.
type EvidenceImporter interface {
	ImportCompleted(ctx context.Context, projectID string, days int) (int, error)
}

type CommandHandler struct {
	client   *Client
	canvases CanvasReader
	gates    GateEvaluator
	importer EvidenceImporter
	logger   *zap.Logger
}

// NewCommandHandler wires the mention commands. gates and importer may be
// nil when those integrations are not configured.
func NewCommandHandler(client *Client, canvases CanvasReader, gates GateEvaluator, importer EvidenceImporter, logger *zap.Logger) *CommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandHandler{
		client:   client,
		canvases: canvases,
		gates:    gates,
		importer: importer,
		logger:   logger,
	}
}

const helpText = `*StartupAI*

I post generated canvases here for review.

*Commands:*
- \@StartupAI status [canvas id] - Show a canvas's status and quality
- \@StartupAI gate [project id] [stage] - Evaluate a project's stage gate
- \@StartupAI sync linear [project id] [days] - Import completed Linear issues as evidence
- \@StartupAI help - Show this help

*Review:*
React with :white_check_mark: on a canvas message to publish it, or :x: to archive it.`

func (h *CommandHandler) HandleHelp(ctx context.Context, channelID string) error {
	return h.client.SendMessage(ctx, channelID, helpText)
}

func (h *CommandHandler) HandleStatus(ctx context.Context, channelID, canvasID string) error {
	if canvasID == "" {
		return h.client.SendMessage(ctx, channelID, "Please provide a canvas id: `@StartupAI status [canvas id]`")
	}

	c, err := h.canvases.Get(ctx, canvasID)
	if err != nil {
		return h.client.SendMessage(ctx, channelID, fmt.Sprintf("%v: `%s`", err, canvasID))
	}
	report, err := h.canvases.Quality(ctx, canvasID)
	if err != nil {
		return h.client.SendMessage(ctx, channelID, fmt.Sprintf("Failed to assess quality: %v", err))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n", c.Title, c.Type)
	fmt.Fprintf(&b, "Status: *%s*\n", c.Status)
	fmt.Fprintf(&b, "Quality: *%.0f%%* (%d/%d sections filled)\n", report.Score*100, report.Filled, report.Total)
	if len(report.MissingSections) > 0 {
		fmt.Fprintf(&b, "Missing: %s\n", joinTitles(report.MissingSections))
	}
	if report.BelowThreshold {
		b.WriteString(":warning: Quality below threshold\n")
	}
	return h.client.SendMessage(ctx, channelID, b.String())
}

func (h *CommandHandler) HandleGate(ctx context.Context, channelID string, args []string) error {
	if h.gates == nil {
		return h.client.SendMessage(ctx, channelID, "Gate evaluation is not configured.")
	}
	if len(args) == 0 {
		return h.client.SendMessage(ctx, channelID, "Please provide a project id: `@StartupAI gate [project id] [stage]`")
	}

	stage := gate.StageDesirability
	if len(args) > 1 {
		parsed, err := gate.ParseStage(args[1])
		if err != nil {
			return h.client.SendMessage(ctx, channelID, "Stage must be one of DESIRABILITY, FEASIBILITY, VIABILITY or SCALE.")
		}
		stage = parsed
	}

	result, err := h.gates.Evaluate(ctx, args[0], stage)
	if err != nil {
		h.logger.Error("Gate evaluation from Slack failed", zap.String("project_id", args[0]), zap.Error(err))
		return h.client.SendMessage(ctx, channelID, "Failed to evaluate gate. Please try again.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s gate* for `%s`: *%s*\n", result.Stage, result.ProjectID, result.Status)
	fmt.Fprintf(&b, "Readiness: %.0f%% | Evidence: %d | Experiments: %d\n", result.ReadinessScore*100, result.EvidenceCount, result.ExperimentsCount)
	for _, reason := range result.Reasons {
		fmt.Fprintf(&b, "• %s\n", reason)
	}
	if result.NextStage != "" {
		fmt.Fprintf(&b, "Ready to move on to *%s*.\n", result.NextStage)
	}
	return h.client.SendMessage(ctx, channelID, b.String())
}

func (h *CommandHandler) HandleLinearSync(ctx context.Context, channelID string, args []string) error {
	if h.importer == nil {
		return h.client.SendMessage(ctx, channelID, "Linear is not configured.")
	}
	if len(args) == 0 {
		return h.client.SendMessage(ctx, channelID, "Please provide a project id: `@StartupAI sync linear [project id] [days]`")
	}

	days := 7
	if len(args) > 1 {
		fmt.Sscanf(args[1], "%d", &days)
	}

	count, err := h.importer.ImportCompleted(ctx, args[0], days)
	if err != nil {
		h.logger.Error("Linear sync failed", zap.String("project_id", args[0]), zap.Error(err))
		return h.client.SendMessage(ctx, channelID, "Failed to sync Linear issues. Please try again.")
	}
	if count == 0 {
		return h.client.SendMessage(ctx, channelID, fmt.Sprintf("No new completed issues in the last %d days.", days))
	}
	return h.client.SendMessage(ctx, channelID, fmt.Sprintf("Imported %d completed issue(s) as experiment evidence for `%s`.", count, args[0]))
}
