package models

import "time"

// Phase is one step of a collaborative canvas session.
type Phase string

const (
	PhaseIndividualAnalysis      Phase = "individual_analysis"
	PhaseCollaborativePopulation Phase = "collaborative_population"
	PhaseDebateConsensus         Phase = "debate_consensus"
	PhaseSimulationValidation    Phase = "simulation_validation"
	PhaseIterativeImprovement    Phase = "iterative_improvement"
)

// Phases is the fixed order a session runs in.
var Phases = []Phase{
	PhaseIndividualAnalysis,
	PhaseCollaborativePopulation,
	PhaseDebateConsensus,
	PhaseSimulationValidation,
	PhaseIterativeImprovement,
}

// SessionStatus values
const (
	SessionCreated   = "created"
	SessionRunning   = "running"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// CollaborativeSession is an in-memory multi-agent canvas workshop.
type CollaborativeSession struct {
	ID                  string              `json:"id"`
	CanvasID            string              `json:"canvasId"`
	ClientID            string              `json:"clientId"`
	FrameworkType       CanvasType          `json:"frameworkType"`
	BusinessContext     string              `json:"businessContext"`
	ParticipatingAgents []string            `json:"participatingAgents"`
	Phases              []Phase             `json:"phases"`
	CurrentPhase        Phase               `json:"currentPhase"`
	Status              string              `json:"status"`
	Sections            CanvasData          `json:"sections"`
	Contributions       []AgentContribution `json:"contributions"`
	DebateIDs           []string            `json:"debateIds"`
	Simulations         []SimulationResult  `json:"simulations"`
	QualityScore        float64             `json:"qualityScore"`
	Error               string              `json:"error,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// AgentContribution is one agent's output during a phase.
type AgentContribution struct {
	ID        string     `json:"id"`
	AgentID   string     `json:"agentId"`
	Phase     Phase      `json:"phase"`
	Content   string     `json:"content"`
	Sections  CanvasData `json:"sections,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// DebateStatus values
const (
	DebateActive   = "active"
	DebateResolved = "resolved"
)

// Debate collects agent positions on a single contested topic.
type Debate struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	Topic     string           `json:"topic"`
	Positions []DebatePosition `json:"positions"`
	Status    string           `json:"status"`
	Consensus *Consensus       `json:"consensus,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DebatePosition is one agent's stance in a debate.
type DebatePosition struct {
	AgentID   string    `json:"agentId"`
	Position  string    `json:"position"`
	Evidence  []string  `json:"evidence"`
	Timestamp time.Time `json:"timestamp"`
}

// Consensus is the outcome of counting debate positions.
type Consensus struct {
	Reached  bool    `json:"reached"`
	Position string  `json:"position"`
	Ratio    float64 `json:"ratio"`
	Votes    int     `json:"votes"`
	Total    int     `json:"total"`
}

// SimulationResult is a randomly drawn scenario outcome.
type SimulationResult struct {
	ID                string    `json:"id"`
	Scenario          string    `json:"scenario"`
	MarketFit         float64   `json:"marketFit"`
	AdoptionRate      float64   `json:"adoptionRate"`
	RevenueProjection float64   `json:"revenueProjection"`
	RiskScore         float64   `json:"riskScore"`
	Confidence        float64   `json:"confidence"`
	CreatedAt         time.Time `json:"createdAt"`
}
