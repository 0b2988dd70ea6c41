// Package collaboration runs multi-agent canvas workshops in memory.
package collaboration

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/llm"
	"github.com/shubh-37/startupai/internal/models"
)

// MaxAgents caps the number of agents in one session.
const MaxAgents = 7

// Orchestrator keeps sessions and debates for the life of the process.
type Orchestrator struct {
	llm       llm.Client
	catalog   *agents.Catalog
	canvases  canvas.Store
	logger    *zap.Logger
	threshold float64

	mu       sync.RWMutex
	sessions map[string]*models.CollaborativeSession
	debates  map[string]*models.Debate

	rngMu sync.Mutex
	rng   *rand.Rand

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRand sets the random source used by simulations.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) { o.rng = r }
}

// WithCanvasStore lets completed sessions write back to their canvas.
func WithCanvasStore(store canvas.Store) Option {
	return func(o *Orchestrator) { o.canvases = store }
}

// WithQualityThreshold sets the score below which sessions refine sections.
func WithQualityThreshold(threshold float64) Option {
	return func(o *Orchestrator) { o.threshold = threshold }
}

func NewOrchestrator(client llm.Client, catalog *agents.Catalog, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		llm:       client,
		catalog:   catalog,
		logger:    logger,
		threshold: canvas.QualityThreshold,
		sessions:  make(map[string]*models.CollaborativeSession),
		debates:   make(map[string]*models.Debate),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix())))
	}
	return o
}

// CreateSessionRequest starts a workshop. Agents defaults to every
// collaborator in the catalog.
type CreateSessionRequest struct {
	CanvasID        string            `json:"canvasId"`
	ClientID        string            `json:"clientId"`
	FrameworkType   models.CanvasType `json:"frameworkType"`
	BusinessContext string            `json:"businessContext"`
	Agents          []string          `json:"agents"`
}

func (o *Orchestrator) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.CollaborativeSession, error) {
	if !req.FrameworkType.Valid() {
		return nil, models.ErrUnsupportedCanvasType
	}
	if strings.TrimSpace(req.BusinessContext) == "" {
		return nil, fmt.Errorf("%w: businessContext is required", models.ErrInvalidInput)
	}

	agentIDs := req.Agents
	if len(agentIDs) == 0 {
		agentIDs = o.catalog.CollaboratorIDs()
	}
	if len(agentIDs) > MaxAgents {
		return nil, fmt.Errorf("%w: at most %d agents per session", models.ErrInvalidInput, MaxAgents)
	}
	seen := make(map[string]bool, len(agentIDs))
	for _, id := range agentIDs {
		if _, ok := o.catalog.Collaborator(id); !ok {
			return nil, fmt.Errorf("%w: unknown agent %q", models.ErrInvalidInput, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate agent %q", models.ErrInvalidInput, id)
		}
		seen[id] = true
	}

	now := time.Now()
	session := &models.CollaborativeSession{
		ID:                  uuid.New().String(),
		CanvasID:            req.CanvasID,
		ClientID:            req.ClientID,
		FrameworkType:       req.FrameworkType,
		BusinessContext:     req.BusinessContext,
		ParticipatingAgents: append([]string(nil), agentIDs...),
		Phases:              append([]models.Phase(nil), models.Phases...),
		Status:              models.SessionCreated,
		Sections:            models.CanvasData{},
		Contributions:       []models.AgentContribution{},
		DebateIDs:           []string{},
		Simulations:         []models.SimulationResult{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	o.mu.Lock()
	o.sessions[session.ID] = session
	snapshot := cloneSession(session)
	o.mu.Unlock()

	o.logger.Info("Collaboration session created",
		zap.String("session_id", session.ID),
		zap.String("framework", string(session.FrameworkType)),
		zap.Strings("agents", session.ParticipatingAgents),
	)
	o.emit(Event{Type: EventSessionCreated, SessionID: session.ID, Data: snapshot})
	return snapshot, nil
}

// GetSession returns a snapshot of a session.
func (o *Orchestrator) GetSession(id string) (*models.CollaborativeSession, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	session, ok := o.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// SessionsByCanvas returns snapshots of every session for a canvas, oldest
// first.
func (o *Orchestrator) SessionsByCanvas(canvasID string) []*models.CollaborativeSession {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []*models.CollaborativeSession
	for _, session := range o.sessions {
		if session.CanvasID == canvasID {
			out = append(out, cloneSession(session))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RunSession runs every phase in order. Any phase error fails the session.
func (o *Orchestrator) RunSession(ctx context.Context, id string) (*models.CollaborativeSession, error) {
	o.mu.Lock()
	session, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return nil, models.ErrSessionNotFound
	}
	if session.Status == models.SessionRunning {
		o.mu.Unlock()
		return nil, fmt.Errorf("%w: session is already running", models.ErrInvalidInput)
	}
	session.Status = models.SessionRunning
	session.Error = ""
	session.UpdatedAt = time.Now()
	phases := append([]models.Phase(nil), session.Phases...)
	o.mu.Unlock()

	logger := o.logger.With(zap.String("session_id", id))
	for _, phase := range phases {
		o.update(id, func(s *models.CollaborativeSession) { s.CurrentPhase = phase })
		o.emit(Event{Type: EventPhaseStarted, SessionID: id, Phase: phase})

		if err := o.runPhase(ctx, id, phase); err != nil {
			o.update(id, func(s *models.CollaborativeSession) {
				s.Status = models.SessionFailed
				s.Error = err.Error()
			})
			logger.Error("Collaboration session failed", zap.String("phase", string(phase)), zap.Error(err))
			o.emit(Event{Type: EventSessionFailed, SessionID: id, Phase: phase, Data: err.Error()})
			return o.GetSession(id)
		}

		o.emit(Event{Type: EventPhaseCompleted, SessionID: id, Phase: phase})
	}

	o.update(id, func(s *models.CollaborativeSession) { s.Status = models.SessionCompleted })
	snapshot, err := o.GetSession(id)
	if err != nil {
		return nil, err
	}
	o.writeBack(ctx, snapshot)

	logger.Info("Collaboration session completed", zap.Float64("quality_score", snapshot.QualityScore))
	o.emit(Event{Type: EventSessionCompleted, SessionID: id, Data: snapshot})
	return snapshot, nil
}

// writeBack copies the session's sections onto its canvas when the canvas
// exists in the store.
func (o *Orchestrator) writeBack(ctx context.Context, session *models.CollaborativeSession) {
	if o.canvases == nil || session.CanvasID == "" {
		return
	}
	c, err := o.canvases.GetByID(ctx, session.CanvasID)
	if err != nil {
		o.logger.Debug("Session canvas not stored, skipping write back",
			zap.String("session_id", session.ID),
			zap.String("canvas_id", session.CanvasID),
			zap.Error(err),
		)
		return
	}
	c.Data = session.Sections.Clone()
	c.Metadata.QualityScore = session.QualityScore
	c.UpdatedAt = time.Now()
	if err := o.canvases.Update(ctx, c); err != nil {
		o.logger.Error("Failed to update canvas from session",
			zap.String("session_id", session.ID),
			zap.String("canvas_id", session.CanvasID),
			zap.Error(err),
		)
	}
}

// update applies fn to a stored session under the write lock.
func (o *Orchestrator) update(id string, fn func(s *models.CollaborativeSession)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.sessions[id]; ok {
		fn(s)
		s.UpdatedAt = time.Now()
	}
}

func cloneSession(s *models.CollaborativeSession) *models.CollaborativeSession {
	out := *s
	out.ParticipatingAgents = append([]string{}, s.ParticipatingAgents...)
	out.Phases = append([]models.Phase{}, s.Phases...)
	out.Sections = s.Sections.Clone()
	out.Contributions = make([]models.AgentContribution, len(s.Contributions))
	for i, c := range s.Contributions {
		c.Sections = c.Sections.Clone()
		out.Contributions[i] = c
	}
	out.DebateIDs = append([]string{}, s.DebateIDs...)
	out.Simulations = append([]models.SimulationResult{}, s.Simulations...)
	return &out
}
