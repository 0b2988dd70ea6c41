package collaboration

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

// ConsensusThreshold is the share of positions the majority needs.
const ConsensusThreshold = 0.66

// StartDebate opens a debate on topic within a session.
func (o *Orchestrator) StartDebate(sessionID, topic string) (*models.Debate, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", models.ErrInvalidInput)
	}

	o.mu.Lock()
	session, ok := o.sessions[sessionID]
	if !ok {
		o.mu.Unlock()
		return nil, models.ErrSessionNotFound
	}
	debate := &models.Debate{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Topic:     topic,
		Positions: []models.DebatePosition{},
		Status:    models.DebateActive,
		CreatedAt: time.Now(),
	}
	o.debates[debate.ID] = debate
	session.DebateIDs = append(session.DebateIDs, debate.ID)
	session.UpdatedAt = time.Now()
	snapshot := cloneDebate(debate)
	o.mu.Unlock()

	o.emit(Event{Type: EventDebateStarted, SessionID: sessionID, DebateID: debate.ID, Data: snapshot})
	return snapshot, nil
}

// AddPosition records an agent's stance. A second position from the same
// agent replaces the first.
func (o *Orchestrator) AddPosition(debateID, agentID, position string, evidence []string) error {
	position = strings.TrimSpace(position)
	if agentID == "" || position == "" {
		return fmt.Errorf("%w: agentId and position are required", models.ErrInvalidInput)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	debate, ok := o.debates[debateID]
	if !ok {
		return models.ErrDebateNotFound
	}
	if debate.Status != models.DebateActive {
		return fmt.Errorf("%w: debate is %s", models.ErrInvalidInput, debate.Status)
	}

	entry := models.DebatePosition{
		AgentID:   agentID,
		Position:  position,
		Evidence:  append([]string{}, evidence...),
		Timestamp: time.Now(),
	}
	for i, p := range debate.Positions {
		if p.AgentID == agentID {
			debate.Positions[i] = entry
			return nil
		}
	}
	debate.Positions = append(debate.Positions, entry)
	return nil
}

// ResolveDebate counts positions. The debate resolves when the most common
// position holds at least ConsensusThreshold of the votes; otherwise it
// stays active.
func (o *Orchestrator) ResolveDebate(debateID string) (*models.Consensus, error) {
	o.mu.Lock()
	debate, ok := o.debates[debateID]
	if !ok {
		o.mu.Unlock()
		return nil, models.ErrDebateNotFound
	}
	consensus := computeConsensus(debate.Positions)
	debate.Consensus = &consensus
	if consensus.Reached {
		debate.Status = models.DebateResolved
	}
	sessionID := debate.SessionID
	o.mu.Unlock()

	o.logger.Info("Debate evaluated",
		zap.String("debate_id", debateID),
		zap.Bool("consensus", consensus.Reached),
		zap.Float64("ratio", consensus.Ratio),
	)
	if consensus.Reached {
		o.emit(Event{Type: EventDebateResolved, SessionID: sessionID, DebateID: debateID, Data: consensus})
	}
	return &consensus, nil
}

func computeConsensus(positions []models.DebatePosition) models.Consensus {
	if len(positions) == 0 {
		return models.Consensus{}
	}

	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	for _, p := range positions {
		key := normalize(p.Position)
		if _, ok := counts[key]; !ok {
			order = append(order, key)
			first[key] = p.Position
		}
		counts[key]++
	}

	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}

	ratio := float64(counts[best]) / float64(len(positions))
	return models.Consensus{
		Reached:  ratio >= ConsensusThreshold,
		Position: first[best],
		Ratio:    ratio,
		Votes:    counts[best],
		Total:    len(positions),
	}
}

// GetDebate returns a snapshot of a debate.
func (o *Orchestrator) GetDebate(id string) (*models.Debate, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	debate, ok := o.debates[id]
	if !ok {
		return nil, models.ErrDebateNotFound
	}
	return cloneDebate(debate), nil
}

// Debates returns the session's debates in the order they were opened.
func (o *Orchestrator) Debates(sessionID string) ([]*models.Debate, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	session, ok := o.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	out := make([]*models.Debate, 0, len(session.DebateIDs))
	for _, id := range session.DebateIDs {
		if d, ok := o.debates[id]; ok {
			out = append(out, cloneDebate(d))
		}
	}
	return out, nil
}

func cloneDebate(d *models.Debate) *models.Debate {
	out := *d
	out.Positions = make([]models.DebatePosition, len(d.Positions))
	for i, p := range d.Positions {
		p.Evidence = append([]string{}, p.Evidence...)
		out.Positions[i] = p
	}
	if d.Consensus != nil {
		c := *d.Consensus
		out.Consensus = &c
	}
	return &out
}
