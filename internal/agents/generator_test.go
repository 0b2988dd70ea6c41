package agents_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/llm/llmtest"
	"github.com/shubh-37/startupai/internal/memstore"
	"github.com/shubh-37/startupai/internal/models"
)

const vpcReply = `Here is your canvas:
{
  "description": "Bookkeeping for small agencies",
  "customerJobs": ["Close the monthly books before the 5th of each month"],
  "pains": ["Manual reconciliation takes 10 hours a month"],
  "gains": ["Save 8 hours every month"],
  "products": ["Automated bookkeeping platform", "Invoice reminder service"],
  "painRelievers": ["Automatic reconciliation against bank feeds"],
  "gainCreators": ["Dashboard of hours saved"]
}`

const thinReply = `{"customerJobs": ["Do books"], "pains": [], "gains": [], "products": [], "painRelievers": [], "gainCreators": []}`

type harness struct {
	gen   *agents.CanvasGenerator
	fake  *llmtest.Fake
	store *memstore.CanvasStore
	logs  *observer.ObservedLogs
	svc   *canvas.Service
}

type countingNotifier struct{ n int }

func (c *countingNotifier) CanvasReady(ctx context.Context, _ *models.Canvas) error {
	c.n++
	return nil
}

func newHarness(t *testing.T, fake *llmtest.Fake, opts ...canvas.Option) *harness {
	t.Helper()
	catalog, err := agents.DefaultCatalog()
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	store := memstore.NewCanvasStore()
	svc := canvas.NewService(store, logger, opts...)
	return &harness{
		gen:   agents.NewCanvasGenerator(fake, svc, catalog, logger),
		fake:  fake,
		store: store,
		logs:  logs,
		svc:   svc,
	}
}

func vpcRequest() agents.GenerateRequest {
	return agents.GenerateRequest{
		ClientID:        "client-1",
		Type:            models.CanvasValueProposition,
		Title:           "Agency books",
		BusinessContext: "Bookkeeping automation for digital agencies",
	}
}

func TestGenerate_Success(t *testing.T) {
	notifier := &countingNotifier{}
	h := newHarness(t, &llmtest.Fake{Default: vpcReply, Tokens: 1000}, canvas.WithNotifier(notifier))

	result, err := h.gen.Generate(context.Background(), vpcRequest())
	require.NoError(t, err)
	require.Equal(t, agents.StatusSuccess, result.Status, result.Error)

	assert.Equal(t, 1.0, result.QualityScore)
	assert.Equal(t, 1000, result.TokensUsed)
	assert.InDelta(t, 1000*0.000015, result.Cost, 1e-12)
	require.NotNil(t, result.Assessment)
	assert.Equal(t, 1, notifier.n)

	stored, err := h.store.GetByID(context.Background(), result.CanvasID)
	require.NoError(t, err)
	assert.Equal(t, "value-proposition-designer", stored.Metadata.AgentID)
	assert.Equal(t, "Bookkeeping for small agencies", stored.Description)
	assert.Equal(t, []string{"Automated bookkeeping platform", "Invoice reminder service"}, stored.Data[models.SectionProducts])
	assert.Equal(t, 0, h.logs.FilterMessage("Canvas quality below threshold").Len())

	req := h.fake.Requests[0]
	assert.Contains(t, req.Prompt, "Bookkeeping automation for digital agencies")
	assert.Contains(t, req.Prompt, "painRelievers")
	assert.Equal(t, 4000, req.MaxTokens)
}

func TestGenerate_UpdatesLatestCanvas(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: vpcReply})
	ctx := context.Background()

	first, err := h.gen.Generate(ctx, vpcRequest())
	require.NoError(t, err)
	second, err := h.gen.Generate(ctx, vpcRequest())
	require.NoError(t, err)

	assert.Equal(t, first.CanvasID, second.CanvasID)
	list, err := h.store.ListByClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerate_WarnsBelowThreshold(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: thinReply})

	result, err := h.gen.Generate(context.Background(), vpcRequest())
	require.NoError(t, err)
	assert.Equal(t, agents.StatusSuccess, result.Status)
	assert.InDelta(t, 1.0/6.0, result.QualityScore, 1e-9)

	warnings := h.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "quality below threshold")
	assert.Equal(t, result.CanvasID, warnings[0].ContextMap()["canvas_id"])
	assert.NotEmpty(t, result.CanvasID)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: vpcReply})
	ctx := context.Background()

	req := vpcRequest()
	req.ClientID = ""
	_, err := h.gen.Generate(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = vpcRequest()
	req.BusinessContext = "  "
	_, err = h.gen.Generate(ctx, req)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	req = vpcRequest()
	req.Type = "leanCanvas"
	_, err = h.gen.Generate(ctx, req)
	assert.EqualError(t, err, "Unsupported canvas type")

	assert.Equal(t, 0, h.fake.Calls())
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Err: errors.New("API request failed with status 529")})

	result, err := h.gen.Generate(context.Background(), vpcRequest())
	require.NoError(t, err)
	assert.Equal(t, agents.StatusError, result.Status)
	assert.Equal(t, "API request failed with status 529", result.Error)
	assert.Equal(t, 1, h.logs.FilterMessage("Canvas generation failed").Len())
}

func TestGenerate_MissingFields(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: `{"customerJobs": ["x"], "pains": ["y"]}`})

	result, err := h.gen.Generate(context.Background(), vpcRequest())
	require.NoError(t, err)
	assert.Equal(t, agents.StatusError, result.Status)
	assert.Equal(t, "missing required fields: gainCreators, gains, painRelievers, products", result.Error)
}

func TestGenerate_NoJSON(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: "I cannot help with that."})

	result, err := h.gen.Generate(context.Background(), vpcRequest())
	require.NoError(t, err)
	assert.Equal(t, agents.StatusError, result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestGenerate_WithVisuals(t *testing.T) {
	h := newHarness(t, &llmtest.Fake{Default: vpcReply})
	req := vpcRequest()
	req.VisualFormats = []models.VisualFormat{models.FormatSVG, models.FormatPDF}

	result, err := h.gen.Generate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Visual)
	assert.Contains(t, result.Visual.Assets, "svg")
	assert.Contains(t, result.Visual.Assets, "pdf")
	assert.True(t, result.Canvas.Metadata.VisualGenerated)
}

func TestGenerate_MixedItemShapes(t *testing.T) {
	reply := `{"hypotheses": "We believe agencies want faster books",
	           "experiments": [{"text": "Landing page with 5% signup target"}, 42],
	           "learnings": []}`
	h := newHarness(t, &llmtest.Fake{Default: reply})

	result, err := h.gen.Generate(context.Background(), agents.GenerateRequest{
		ClientID:        "client-1",
		Type:            models.CanvasTestingBusinessIdeas,
		BusinessContext: "Bookkeeping automation",
	})
	require.NoError(t, err)
	require.Equal(t, agents.StatusSuccess, result.Status, result.Error)
	assert.Equal(t, "Testing Business Ideas", result.Canvas.Title)
	assert.Equal(t, []string{"We believe agencies want faster books"}, result.Canvas.Data[models.SectionHypotheses])
	assert.Equal(t, []string{"Landing page with 5% signup target", "42"}, result.Canvas.Data[models.SectionExperiments])
}
