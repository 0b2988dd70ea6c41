package gate

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

// EvidenceStore reads project evidence and records gate outcomes.
type EvidenceStore interface {
	ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error)
	SaveGate(ctx context.Context, g *models.ProjectGate) error
}

// Result is a gate evaluation for a project.
type Result struct {
	ProjectID        string   `json:"projectId"`
	Stage            Stage    `json:"stage"`
	Status           Status   `json:"status"`
	Reasons          []string `json:"reasons"`
	ReadinessScore   float64  `json:"readinessScore"`
	EvidenceCount    int      `json:"evidenceCount"`
	ExperimentsCount int      `json:"experimentsCount"`
	NextStage        Stage    `json:"nextStage,omitempty"`
}

type Service struct {
	store  EvidenceStore
	logger *zap.Logger
}

func NewService(store EvidenceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Evaluate loads the project's evidence, evaluates the stage gate and writes
// the outcome back. A failed write is logged and does not fail the call.
func (s *Service) Evaluate(ctx context.Context, projectID string, stage Stage) (*Result, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: projectId is required", models.ErrInvalidInput)
	}
	if _, ok := DefaultCriteria[stage]; !ok {
		return nil, fmt.Errorf("%w: invalid stage %q", models.ErrInvalidInput, stage)
	}

	all, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence: %w", err)
	}

	evidence := make([]*models.Evidence, 0, len(all))
	for _, e := range all {
		if !e.Strength.Valid() {
			s.logger.Warn("Skipping invalid evidence",
				zap.String("evidence_id", e.ID),
				zap.String("strength", string(e.Strength)),
			)
			continue
		}
		evidence = append(evidence, e)
	}

	if len(evidence) == 0 {
		return &Result{
			ProjectID: projectID,
			Stage:     stage,
			Status:    StatusPending,
			Reasons:   []string{"No evidence collected yet"},
		}, nil
	}

	status, reasons := Evaluate(stage, evidence, nil)
	result := &Result{
		ProjectID:        projectID,
		Stage:            stage,
		Status:           status,
		Reasons:          reasons,
		ReadinessScore:   math.Round(ReadinessScore(stage, evidence)*1000) / 1000,
		EvidenceCount:    len(evidence),
		ExperimentsCount: CountExperiments(evidence),
	}
	if CanProgress(stage, status) {
		result.NextStage, _ = NextStage(stage)
	}

	err = s.store.SaveGate(ctx, &models.ProjectGate{
		ProjectID:        projectID,
		Stage:            string(stage),
		GateStatus:       string(status),
		EvidenceQuality:  result.ReadinessScore,
		EvidenceCount:    result.EvidenceCount,
		ExperimentsCount: result.ExperimentsCount,
		UpdatedAt:        time.Now(),
	})
	if err != nil {
		s.logger.Error("Failed to save gate state", zap.String("project_id", projectID), zap.Error(err))
	}

	s.logger.Info("Gate evaluated",
		zap.String("project_id", projectID),
		zap.String("stage", string(stage)),
		zap.String("status", string(status)),
		zap.Int("evidence_count", result.EvidenceCount),
	)
	return result, nil
}
