package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/llm"
	"github.com/shubh-37/startupai/internal/models"
)

// Generation result statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// GenerateRequest asks for a new canvas for a client.
type GenerateRequest struct {
	ClientID        string                `json:"clientId"`
	Type            models.CanvasType     `json:"type"`
	Title           string                `json:"title"`
	BusinessContext string                `json:"businessContext"`
	VisualFormats   []models.VisualFormat `json:"visualFormats,omitempty"`
}

// GenerationResult reports a generation attempt. Upstream failures are
// carried in Error with Status "error".
type GenerationResult struct {
	Status       string               `json:"status"`
	CanvasID     string               `json:"canvasId,omitempty"`
	Canvas       *models.Canvas       `json:"canvas,omitempty"`
	QualityScore float64              `json:"qualityScore"`
	Assessment   *Assessment          `json:"assessment,omitempty"`
	TokensUsed   int                  `json:"tokensUsed"`
	Cost         float64              `json:"cost"`
	Visual       *canvas.VisualResult `json:"visual,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// CanvasGenerator drafts canvases with an LLM and stores them.
type CanvasGenerator struct {
	llm     llm.Client
	canvas  *canvas.Service
	catalog *Catalog
	logger  *zap.Logger
}

func NewCanvasGenerator(client llm.Client, service *canvas.Service, catalog *Catalog, logger *zap.Logger) *CanvasGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasGenerator{
		llm:     client,
		canvas:  service,
		catalog: catalog,
		logger:  logger,
	}
}

func (g *CanvasGenerator) validate(req GenerateRequest) (Definition, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return Definition{}, fmt.Errorf("%w: clientId is required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(req.BusinessContext) == "" {
		return Definition{}, fmt.Errorf("%w: businessContext is required", models.ErrInvalidInput)
	}
	def, ok := g.catalog.Generator(req.Type)
	if !ok {
		return Definition{}, models.ErrUnsupportedCanvasType
	}
	return def, nil
}

// Generate drafts, scores and saves a canvas. Validation problems are
// returned as errors; LLM and storage failures come back as an error result.
func (g *CanvasGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerationResult, error) {
	def, err := g.validate(req)
	if err != nil {
		return nil, err
	}

	logger := g.logger.With(
		zap.String("agent_id", def.ID),
		zap.String("client_id", req.ClientID),
		zap.String("type", string(req.Type)),
	)

	resp, err := g.llm.Complete(ctx, llm.Request{
		System:      def.SystemPrompt,
		Prompt:      buildPrompt(def, req),
		MaxTokens:   def.MaxTokens,
		Temperature: def.Temperature,
	})
	if err != nil {
		logger.Error("Canvas generation failed", zap.Error(err))
		return errorResult(err), nil
	}
	tokens := resp.TotalTokens()
	cost := float64(tokens) * g.catalog.CostPerToken

	data, description, err := parseSections(resp.Text, def.RequiredFields)
	if err != nil {
		logger.Error("Canvas generation returned unusable content", zap.Error(err))
		result := errorResult(err)
		result.TokensUsed = tokens
		result.Cost = cost
		return result, nil
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = SectionLabel(req.Type)
	}
	c := models.NewCanvas(req.ClientID, req.Type, title)
	c.Description = description
	c.Data = data
	c.Metadata.AgentID = def.ID
	c.Metadata.TokensUsed = tokens
	c.Metadata.GenerationCost = cost

	score, err := g.canvas.SaveScored(ctx, c)
	if err != nil {
		logger.Error("Failed to save generated canvas", zap.Error(err))
		result := errorResult(err)
		result.TokensUsed = tokens
		result.Cost = cost
		return result, nil
	}

	result := &GenerationResult{
		Status:       StatusSuccess,
		CanvasID:     c.ID,
		Canvas:       c,
		QualityScore: score,
		TokensUsed:   tokens,
		Cost:         cost,
	}
	if assessor, err := AssessorFor(req.Type); err == nil {
		assessment := assessor.Assess(c.Data)
		result.Assessment = &assessment
	}

	if len(req.VisualFormats) > 0 {
		visual, err := g.canvas.GenerateVisualCanvas(ctx, c.ID, canvas.VisualOptions{Formats: req.VisualFormats})
		if err != nil {
			logger.Warn("Failed to render canvas visuals", zap.String("canvas_id", c.ID), zap.Error(err))
		} else {
			result.Visual = visual
			if stored, err := g.canvas.Get(ctx, c.ID); err == nil {
				result.Canvas = stored
			}
		}
	}

	g.canvas.Notify(ctx, result.Canvas)

	logger.Info("Canvas generated",
		zap.String("canvas_id", c.ID),
		zap.Float64("quality_score", score),
		zap.Int("tokens", tokens),
	)
	return result, nil
}

func errorResult(err error) *GenerationResult {
	return &GenerationResult{Status: StatusError, Error: err.Error()}
}

// SectionLabel is the default title for a canvas type.
func SectionLabel(t models.CanvasType) string {
	switch t {
	case models.CanvasValueProposition:
		return "Value Proposition Canvas"
	case models.CanvasBusinessModel:
		return "Business Model Canvas"
	case models.CanvasTestingBusinessIdeas:
		return "Testing Business Ideas"
	}
	return string(t)
}

func buildPrompt(def Definition, req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s", SectionLabel(req.Type))
	if req.Title != "" {
		fmt.Fprintf(&b, " titled %q", req.Title)
	}
	fmt.Fprintf(&b, ".\n\nBusiness context:\n%s\n\n", strings.TrimSpace(req.BusinessContext))
	b.WriteString("Respond with a single JSON object and nothing else. It must have these keys, each an array of short strings:\n")
	for _, field := range def.RequiredFields {
		fmt.Fprintf(&b, "- %s\n", field)
	}
	b.WriteString(`You may add a "description" key with a one sentence summary.`)
	return b.String()
}

// parseSections pulls the section lists out of a completion. A section may
// be an array of strings or a single string.
func parseSections(text string, required []string) (models.CanvasData, string, error) {
	var raw map[string]json.RawMessage
	if err := llm.DecodeJSON(text, &raw); err != nil {
		return nil, "", err
	}

	var missing []string
	for _, field := range required {
		if _, ok := raw[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, "", fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	data := make(models.CanvasData, len(required))
	for _, field := range required {
		items, err := decodeItems(raw[field])
		if err != nil {
			return nil, "", fmt.Errorf("invalid field %s: %w", field, err)
		}
		data[field] = items
	}

	var description string
	if msg, ok := raw["description"]; ok {
		_ = json.Unmarshal(msg, &description)
	}
	return data, description, nil
}

func decodeItems(msg json.RawMessage) ([]string, error) {
	var items []string
	if err := json.Unmarshal(msg, &items); err == nil {
		return nonBlank(items), nil
	}
	var single string
	if err := json.Unmarshal(msg, &single); err == nil {
		return nonBlank([]string{single}), nil
	}
	var mixed []any
	if err := json.Unmarshal(msg, &mixed); err != nil {
		return nil, fmt.Errorf("expected a list of strings")
	}
	out := make([]string, 0, len(mixed))
	for _, v := range mixed {
		switch item := v.(type) {
		case string:
			out = append(out, item)
		case map[string]any:
			for _, key := range []string{"text", "description", "title", "name"} {
				if s, ok := item[key].(string); ok {
					out = append(out, s)
					break
				}
			}
		default:
			out = append(out, fmt.Sprint(item))
		}
	}
	return nonBlank(out), nil
}
