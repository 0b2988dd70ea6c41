package collaboration

import (
	"time"

	"github.com/shubh-37/startupai/internal/models"
)

// EventType names something that happened in a session.
type EventType string

const (
	EventSessionCreated      EventType = "session_created"
	EventPhaseStarted        EventType = "phase_started"
	EventPhaseCompleted      EventType = "phase_completed"
	EventContributionAdded   EventType = "contribution_added"
	EventDebateStarted       EventType = "debate_started"
	EventDebateResolved      EventType = "debate_resolved"
	EventSimulationCompleted EventType = "simulation_completed"
	EventSessionCompleted    EventType = "session_completed"
	EventSessionFailed       EventType = "session_failed"
)

// Event is delivered to every subscriber, in order, on the goroutine that
// produced it.
type Event struct {
	Type      EventType    `json:"type"`
	SessionID string       `json:"sessionId"`
	Phase     models.Phase `json:"phase,omitempty"`
	AgentID   string       `json:"agentId,omitempty"`
	DebateID  string       `json:"debateId,omitempty"`
	Data      any          `json:"data,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Subscribe registers fn for all future events.
func (o *Orchestrator) Subscribe(fn func(Event)) {
	o.listenersMu.Lock()
	defer o.listenersMu.Unlock()
	o.listeners = append(o.listeners, fn)
}

func (o *Orchestrator) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	o.listenersMu.RLock()
	listeners := make([]func(Event), len(o.listeners))
	copy(listeners, o.listeners)
	o.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}
