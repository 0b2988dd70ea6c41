// Package api serves the StartupAI JSON API over net/http.
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/analysis"
	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/collaboration"
	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
	"github.com/shubh-37/startupai/internal/onboarding"
)

// EvidenceStore records and lists project evidence.
type EvidenceStore interface {
	Create(ctx context.Context, e *models.Evidence) error
	ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error)
}

// Limits overrides the per-user rate limits. Zero values use the defaults.
type Limits struct {
	Analysis           RateLimitConfig
	OnboardingMessages RateLimitConfig
	OnboardingStarts   RateLimitConfig
}

// Deps are the services behind the API. Slack and Linear handlers are
// mounted only when set.
type Deps struct {
	Canvases      *canvas.Service
	Generator     *agents.CanvasGenerator
	Orchestrator  *collaboration.Orchestrator
	Gates         *gate.Service
	Evidence      EvidenceStore
	Onboarding    *onboarding.Service
	Analysis      *analysis.Engine
	SlackEvents   http.Handler
	LinearWebhook http.Handler
	Health        func(ctx context.Context) error
	Limits        Limits
	Logger        *zap.Logger
}

type Server struct {
	Deps
	logger *zap.Logger
	mux    *http.ServeMux

	analysisLimit *RateLimiter
	messageLimit  *RateLimiter
	startLimit    *RateLimiter
}

func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		Deps:          d,
		logger:        logger,
		mux:           http.NewServeMux(),
		analysisLimit: NewRateLimiter(orDefault(d.Limits.Analysis, AnalysisLimit)),
		messageLimit:  NewRateLimiter(orDefault(d.Limits.OnboardingMessages, OnboardingMessageLimit)),
		startLimit:    NewRateLimiter(orDefault(d.Limits.OnboardingStarts, OnboardingStartLimit)),
	}
	s.routes()
	return s
}

func orDefault(cfg, def RateLimitConfig) RateLimitConfig {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return def
	}
	return cfg
}

// Handler returns the routed API with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.logRequests(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/canvases", s.handleGenerateCanvas)
	s.mux.HandleFunc("GET /api/canvases/{id}", s.handleGetCanvas)
	s.mux.HandleFunc("GET /api/canvases/{id}/quality", s.handleCanvasQuality)
	s.mux.HandleFunc("POST /api/canvases/{id}/visual", s.handleGenerateVisual)
	s.mux.HandleFunc("POST /api/canvases/{id}/publish", s.handlePublishCanvas)
	s.mux.HandleFunc("POST /api/canvases/{id}/archive", s.handleArchiveCanvas)
	s.mux.HandleFunc("GET /api/clients/{clientId}/canvases", s.handleListClientCanvases)

	s.mux.HandleFunc("POST /api/collaboration/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/collaboration/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("POST /api/collaboration/sessions/{id}/run", s.handleRunSession)
	s.mux.HandleFunc("POST /api/collaboration/sessions/{id}/debates", s.handleStartDebate)
	s.mux.HandleFunc("POST /api/collaboration/sessions/{id}/simulations", s.handleRunSimulation)
	s.mux.HandleFunc("GET /api/collaboration/canvas/{canvasId}", s.handleSessionsByCanvas)
	s.mux.HandleFunc("GET /api/collaboration/debates/{id}", s.handleGetDebate)
	s.mux.HandleFunc("POST /api/collaboration/debates/{id}/positions", s.handleAddPosition)
	s.mux.HandleFunc("POST /api/collaboration/debates/{id}/resolve", s.handleResolveDebate)

	s.mux.HandleFunc("POST /api/gate-evaluate", s.handleGateEvaluate)
	s.mux.HandleFunc("POST /api/projects/{projectId}/evidence", s.handleCreateEvidence)
	s.mux.HandleFunc("GET /api/projects/{projectId}/evidence", s.handleListEvidence)

	s.mux.HandleFunc("POST /api/onboarding/sessions", s.startLimit.Limit(s.handleStartOnboarding))
	s.mux.HandleFunc("GET /api/onboarding/sessions/{id}", s.handleGetOnboarding)
	s.mux.HandleFunc("POST /api/onboarding/sessions/{id}/messages", s.messageLimit.Limit(s.handleOnboardingMessage))

	s.mux.HandleFunc("POST /api/analysis", s.analysisLimit.Limit(s.handleAnalysis))

	if s.SlackEvents != nil {
		s.mux.Handle("POST /slack/events", s.SlackEvents)
	}
	if s.LinearWebhook != nil {
		s.mux.Handle("POST /linear/webhook", s.LinearWebhook)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Health != nil {
		if err := s.Health(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestUser is the X-User-ID header, or "anonymous".
func requestUser(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}
