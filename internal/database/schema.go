package database

import (
	"context"
	"fmt"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	db.logger.Info("Creating database tables")

	canvasesTable := `
	CREATE TABLE IF NOT EXISTS canvases (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		client_id VARCHAR(255) NOT NULL,
		type VARCHAR(50) NOT NULL,
		title VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		data JSONB NOT NULL DEFAULT '{}',
		metadata JSONB NOT NULL DEFAULT '{}',
		status VARCHAR(50) NOT NULL DEFAULT 'draft',
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_canvases_client ON canvases(client_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_canvases_client_type ON canvases(client_id, type, created_at DESC);
	`

	evidenceTable := `
	CREATE TABLE IF NOT EXISTS evidence (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		project_id VARCHAR(255) NOT NULL,
		type VARCHAR(50) NOT NULL,
		strength VARCHAR(20) NOT NULL DEFAULT 'weak',
		quality_score DECIMAL(4,3) NOT NULL DEFAULT 0,
		title VARCHAR(255) NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		source VARCHAR(255) NOT NULL DEFAULT '',
		tags TEXT[],
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_evidence_project ON evidence(project_id);
	`

	gatesTable := `
	CREATE TABLE IF NOT EXISTS project_gates (
		project_id VARCHAR(255) PRIMARY KEY,
		stage VARCHAR(50) NOT NULL,
		gate_status VARCHAR(50) NOT NULL,
		evidence_quality DECIMAL(4,3) NOT NULL DEFAULT 0,
		evidence_count INTEGER NOT NULL DEFAULT 0,
		experiments_count INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	`

	onboardingTable := `
	CREATE TABLE IF NOT EXISTS onboarding_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(255) NOT NULL,
		plan_type VARCHAR(50) NOT NULL,
		current_stage INTEGER NOT NULL DEFAULT 1,
		stage_progress INTEGER NOT NULL DEFAULT 0,
		overall_progress DECIMAL(5,2) NOT NULL DEFAULT 0,
		message_count INTEGER NOT NULL DEFAULT 0,
		brief JSONB NOT NULL DEFAULT '{}',
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_onboarding_user ON onboarding_sessions(user_id);
	`

	tables := []string{canvasesTable, evidenceTable, gatesTable, onboardingTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	db.logger.Info("All tables created")
	return nil
}
