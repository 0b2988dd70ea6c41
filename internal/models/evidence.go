package models

import "time"

// EvidenceStrength grades how much an evidence item should be trusted.
type EvidenceStrength string

const (
	StrengthWeak   EvidenceStrength = "weak"
	StrengthMedium EvidenceStrength = "medium"
	StrengthStrong EvidenceStrength = "strong"
)

func (s EvidenceStrength) Valid() bool {
	switch s {
	case StrengthWeak, StrengthMedium, StrengthStrong:
		return true
	}
	return false
}

// Evidence is a research finding collected for a project
type Evidence struct {
	ID           string           `json:"id" bson:"_id"`
	ProjectID    string           `json:"projectId" bson:"project_id"`
	Type         string           `json:"type" bson:"type"` // "interview", "analytics", "experiment", "desk", ...
	Strength     EvidenceStrength `json:"strength" bson:"strength"`
	QualityScore float64          `json:"qualityScore" bson:"quality_score"`
	Title        string           `json:"title" bson:"title"`
	Content      string           `json:"content" bson:"content"`
	Source       string           `json:"source" bson:"source"`
	Tags         []string         `json:"tags" bson:"tags"`
	CreatedAt    time.Time        `json:"createdAt" bson:"created_at"`
}

// NewEvidence creates an evidence item with defaults
func NewEvidence(projectID, evidenceType string, strength EvidenceStrength, quality float64) *Evidence {
	return &Evidence{
		ProjectID:    projectID,
		Type:         evidenceType,
		Strength:     strength,
		QualityScore: quality,
		Tags:         []string{},
		CreatedAt:    time.Now(),
	}
}

// ProjectGate is the last gate evaluation written back for a project.
type ProjectGate struct {
	ProjectID        string    `json:"projectId" bson:"_id"`
	Stage            string    `json:"stage" bson:"stage"`
	GateStatus       string    `json:"gateStatus" bson:"gate_status"`
	EvidenceQuality  float64   `json:"evidenceQuality" bson:"evidence_quality"`
	EvidenceCount    int       `json:"evidenceCount" bson:"evidence_count"`
	ExperimentsCount int       `json:"experimentsCount" bson:"experiments_count"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updated_at"`
}
