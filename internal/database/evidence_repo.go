package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/startupai/internal/gate"
	"github.com/shubh-37/startupai/internal/models"
)

var _ gate.EvidenceStore = (*EvidenceRepository)(nil)

type EvidenceRepository struct {
	db *DB
}

func NewEvidenceRepository(db *DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create inserts a new evidence item into the database
func (r *EvidenceRepository) Create(ctx context.Context, e *models.Evidence) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO evidence (id, project_id, type, strength, quality_score, title, content, source, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		e.ID,
		e.ProjectID,
		e.Type,
		e.Strength,
		e.QualityScore,
		e.Title,
		e.Content,
		e.Source,
		e.Tags,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evidence: %w", err)
	}

	return nil
}

// ListByProject returns all evidence collected for a project, oldest first
func (r *EvidenceRepository) ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error) {
	query := `
		SELECT id, project_id, type, strength, quality_score, title, content, source, tags, created_at
		FROM evidence
		WHERE project_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	items := []*models.Evidence{}
	for rows.Next() {
		e := &models.Evidence{}
		err := rows.Scan(
			&e.ID,
			&e.ProjectID,
			&e.Type,
			&e.Strength,
			&e.QualityScore,
			&e.Title,
			&e.Content,
			&e.Source,
			&e.Tags,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		items = append(items, e)
	}

	return items, rows.Err()
}

// SaveGate writes the latest gate evaluation for a project
func (r *EvidenceRepository) SaveGate(ctx context.Context, g *models.ProjectGate) error {
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO project_gates (project_id, stage, gate_status, evidence_quality, evidence_count, experiments_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id) DO UPDATE
		SET stage = EXCLUDED.stage,
		    gate_status = EXCLUDED.gate_status,
		    evidence_quality = EXCLUDED.evidence_quality,
		    evidence_count = EXCLUDED.evidence_count,
		    experiments_count = EXCLUDED.experiments_count,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		g.ProjectID,
		g.Stage,
		g.GateStatus,
		g.EvidenceQuality,
		g.EvidenceCount,
		g.ExperimentsCount,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save project gate: %w", err)
	}

	return nil
}
