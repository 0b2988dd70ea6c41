package linear

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/shubh-37/startupai/internal/models"
)

const evidenceType = "experiment"

var metricPattern = regexp.MustCompile(`\d`)

// IssueSource lists completed issues.
type IssueSource interface {
	CompletedIssues(ctx context.Context, days int) ([]Issue, error)
}

// EvidenceStore records imported evidence and lists what a project holds.
type EvidenceStore interface {
	Create(ctx context.Context, e *models.Evidence) error
	ListByProject(ctx context.Context, projectID string) ([]*models.Evidence, error)
}

// Importer records completed issues as experiment evidence for a project.
// Each issue is imported at most once per project: the store is checked for
// evidence with the same source, so restarts do not duplicate rows.
type Importer struct {
	source IssueSource
	store  EvidenceStore
	logger *zap.Logger

	mu       sync.Mutex
	imported map[string]bool
}

func NewImporter(source IssueSource, store EvidenceStore, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		source:   source,
		store:    store,
		logger:   logger,
		imported: make(map[string]bool),
	}
}

// ImportCompleted imports issues completed within the last days days and
// returns how many new evidence items were recorded.
func (im *Importer) ImportCompleted(ctx context.Context, projectID string, days int) (int, error) {
	if projectID == "" {
		return 0, fmt.Errorf("%w: projectId is required", models.ErrInvalidInput)
	}
	if im.source == nil {
		return 0, fmt.Errorf("linear client is not configured")
	}
	if days <= 0 {
		days = 7
	}

	issues, err := im.source.CompletedIssues(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch completed issues: %w", err)
	}

	count := 0
	for i := range issues {
		created, err := im.Record(ctx, projectID, &issues[i])
		if err != nil {
			return count, err
		}
		if created {
			count++
		}
	}

	im.logger.Info("Imported Linear evidence",
		zap.String("project_id", projectID),
		zap.Int("issues", len(issues)),
		zap.Int("imported", count),
	)
	return count, nil
}

// Record stores one issue as evidence unless it was already imported for
// the project. It reports whether evidence was created.
func (im *Importer) Record(ctx context.Context, projectID string, issue *Issue) (bool, error) {
	e := EvidenceFromIssue(projectID, issue)
	key := projectID + "/" + e.Source

	// Held across the store check so concurrent deliveries cannot both insert.
	im.mu.Lock()
	defer im.mu.Unlock()

	if im.imported[key] {
		im.logger.Debug("Skipping duplicate Linear issue", zap.String("issue_id", issue.ID))
		return false, nil
	}

	existing, err := im.store.ListByProject(ctx, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to load evidence: %w", err)
	}
	for _, prev := range existing {
		if prev.Source == e.Source {
			im.imported[key] = true
			im.logger.Debug("Skipping Linear issue already stored", zap.String("issue_id", issue.ID))
			return false, nil
		}
	}

	if err := im.store.Create(ctx, e); err != nil {
		return false, fmt.Errorf("failed to save evidence: %w", err)
	}
	im.imported[key] = true
	return true, nil
}

// EvidenceFromIssue maps a completed issue to experiment evidence. Labels
// decide strength; a longer description with numbers scores higher.
func EvidenceFromIssue(projectID string, issue *Issue) *models.Evidence {
	labels := issue.Labels.Names()
	strength := strengthFromLabels(labels)

	e := models.NewEvidence(projectID, evidenceType, strength, issueQuality(issue.Description, strength))
	e.Title = issue.Title
	e.Content = issue.Description
	if e.Content == "" {
		e.Content = "Completed: " + issue.Title
	}

	ref := issue.Identifier
	if ref == "" {
		ref = issue.ID
	}
	e.Source = "linear:" + ref

	tags := []string{"linear"}
	if issue.Team.Name != "" {
		tags = append(tags, issue.Team.Name)
	}
	e.Tags = append(tags, labels...)
	if issue.CompletedAt != nil {
		e.CreatedAt = *issue.CompletedAt
	}
	return e
}

func strengthFromLabels(labels []string) models.EvidenceStrength {
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "strong", "validated", "evidence:strong":
			return models.StrengthStrong
		case "weak", "anecdotal", "evidence:weak":
			return models.StrengthWeak
		}
	}
	return models.StrengthMedium
}

func issueQuality(description string, strength models.EvidenceStrength) float64 {
	q := 0.5
	switch n := len(strings.TrimSpace(description)); {
	case n > 200:
		q += 0.2
	case n > 50:
		q += 0.1
	}
	if metricPattern.MatchString(description) {
		q += 0.15
	}
	switch strength {
	case models.StrengthStrong:
		q += 0.1
	case models.StrengthWeak:
		q -= 0.1
	}
	return math.Round(math.Min(1, q)*100) / 100
}
