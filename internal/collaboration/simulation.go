package collaboration

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/startupai/internal/models"
)

// Simulation scenarios
const (
	ScenarioOptimistic  = "optimistic"
	ScenarioRealistic   = "realistic"
	ScenarioPessimistic = "pessimistic"
)

// Scenarios is the order simulation_validation runs them in.
var Scenarios = []string{ScenarioOptimistic, ScenarioRealistic, ScenarioPessimistic}

type span struct{ min, max float64 }

type scenarioRanges struct {
	marketFit  span
	adoption   span
	revenue    span
	risk       span
	confidence span
}

var ranges = map[string]scenarioRanges{
	ScenarioOptimistic: {
		marketFit:  span{0.70, 0.95},
		adoption:   span{0.15, 0.35},
		revenue:    span{500_000, 2_000_000},
		risk:       span{0.10, 0.30},
		confidence: span{0.55, 0.75},
	},
	ScenarioRealistic: {
		marketFit:  span{0.50, 0.75},
		adoption:   span{0.05, 0.15},
		revenue:    span{100_000, 500_000},
		risk:       span{0.30, 0.50},
		confidence: span{0.70, 0.90},
	},
	ScenarioPessimistic: {
		marketFit:  span{0.20, 0.50},
		adoption:   span{0.01, 0.05},
		revenue:    span{10_000, 100_000},
		risk:       span{0.50, 0.80},
		confidence: span{0.60, 0.80},
	},
}

// RunSimulation draws one scenario outcome for a session. An empty scenario
// means realistic.
func (o *Orchestrator) RunSimulation(sessionID, scenario string) (*models.SimulationResult, error) {
	if scenario == "" {
		scenario = ScenarioRealistic
	}
	r, ok := ranges[scenario]
	if !ok {
		return nil, fmt.Errorf("%w: unknown scenario %q", models.ErrInvalidInput, scenario)
	}
	if _, err := o.GetSession(sessionID); err != nil {
		return nil, err
	}

	o.rngMu.Lock()
	result := &models.SimulationResult{
		ID:                uuid.New().String(),
		Scenario:          scenario,
		MarketFit:         round2(o.draw(r.marketFit)),
		AdoptionRate:      round2(o.draw(r.adoption)),
		RevenueProjection: math.Round(o.draw(r.revenue)),
		RiskScore:         round2(o.draw(r.risk)),
		Confidence:        round2(o.draw(r.confidence)),
		CreatedAt:         time.Now(),
	}
	o.rngMu.Unlock()

	o.update(sessionID, func(s *models.CollaborativeSession) {
		s.Simulations = append(s.Simulations, *result)
	})
	o.emit(Event{Type: EventSimulationCompleted, SessionID: sessionID, Data: *result})
	return result, nil
}

// draw must be called with rngMu held.
func (o *Orchestrator) draw(s span) float64 {
	return s.min + o.rng.Float64()*(s.max-s.min)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
