package models

import (
	"strings"
	"time"
)

// CanvasType identifies which Strategyzer framework a canvas follows.
type CanvasType string

const (
	CanvasValueProposition     CanvasType = "valueProposition"
	CanvasBusinessModel        CanvasType = "businessModel"
	CanvasTestingBusinessIdeas CanvasType = "testingBusinessIdeas"
)

// CanvasStatus is the lifecycle state of a canvas.
type CanvasStatus string

const (
	StatusDraft     CanvasStatus = "draft"
	StatusPublished CanvasStatus = "published"
	StatusArchived  CanvasStatus = "archived"
)

// Value proposition canvas sections
const (
	SectionCustomerJobs  = "customerJobs"
	SectionPains         = "pains"
	SectionGains         = "gains"
	SectionProducts      = "products"
	SectionPainRelievers = "painRelievers"
	SectionGainCreators  = "gainCreators"
)

// Business model canvas sections
const (
	SectionKeyPartners           = "keyPartners"
	SectionKeyActivities         = "keyActivities"
	SectionKeyResources          = "keyResources"
	SectionValuePropositions     = "valuePropositions"
	SectionCustomerRelationships = "customerRelationships"
	SectionChannels              = "channels"
	SectionCustomerSegments      = "customerSegments"
	SectionCostStructure         = "costStructure"
	SectionRevenueStreams        = "revenueStreams"
)

// Testing business ideas sections
const (
	SectionHypotheses  = "hypotheses"
	SectionExperiments = "experiments"
	SectionLearnings   = "learnings"
)

var sectionKeys = map[CanvasType][]string{
	CanvasValueProposition: {
		SectionCustomerJobs, SectionPains, SectionGains,
		SectionProducts, SectionPainRelievers, SectionGainCreators,
	},
	CanvasBusinessModel: {
		SectionKeyPartners, SectionKeyActivities, SectionKeyResources,
		SectionValuePropositions, SectionCustomerRelationships, SectionChannels,
		SectionCustomerSegments, SectionCostStructure, SectionRevenueStreams,
	},
	CanvasTestingBusinessIdeas: {
		SectionHypotheses, SectionExperiments, SectionLearnings,
	},
}

// SectionKeys returns the ordered section keys for a canvas type, or nil
// when the type is unknown.
func SectionKeys(t CanvasType) []string {
	keys, ok := sectionKeys[t]
	if !ok {
		return nil
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Valid reports whether t is one of the supported canvas types.
func (t CanvasType) Valid() bool {
	_, ok := sectionKeys[t]
	return ok
}

// ParseCanvasType accepts the canonical names plus the short aliases used
// by the CLI and Slack commands (vpc, bmc, tbi).
func ParseCanvasType(s string) (CanvasType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vpc", "valueproposition", "value_proposition":
		return CanvasValueProposition, nil
	case "bmc", "businessmodel", "business_model":
		return CanvasBusinessModel, nil
	case "tbi", "testingbusinessideas", "testing_business_ideas":
		return CanvasTestingBusinessIdeas, nil
	}
	return "", ErrUnsupportedCanvasType
}

// CanvasData holds the named item lists of a canvas.
type CanvasData map[string][]string

// Clone returns a deep copy of the data.
func (d CanvasData) Clone() CanvasData {
	if d == nil {
		return nil
	}
	out := make(CanvasData, len(d))
	for k, v := range d {
		items := make([]string, len(v))
		copy(items, v)
		out[k] = items
	}
	return out
}

// Filled returns how many of keys have at least one non-blank item.
func (d CanvasData) Filled(keys []string) int {
	n := 0
	for _, key := range keys {
		for _, item := range d[key] {
			if strings.TrimSpace(item) != "" {
				n++
				break
			}
		}
	}
	return n
}

// CanvasMetadata records how a canvas was produced and exported.
type CanvasMetadata struct {
	AgentID          string         `json:"agentId" bson:"agent_id"`
	QualityScore     float64        `json:"qualityScore" bson:"quality_score"`
	TokensUsed       int            `json:"tokensUsed" bson:"tokens_used"`
	GenerationCost   float64        `json:"generationCost" bson:"generation_cost"`
	VisualGenerated  bool           `json:"visualGenerated" bson:"visual_generated"`
	VisualFormats    []string       `json:"visualFormats" bson:"visual_formats"`
	VisualAssetSizes map[string]int `json:"visualAssetSizes" bson:"visual_asset_sizes"`
}

// Canvas is a persisted business artifact owned by a client.
type Canvas struct {
	ID          string         `json:"id" bson:"_id"`
	ClientID    string         `json:"clientId" bson:"client_id"`
	Type        CanvasType     `json:"type" bson:"type"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Data        CanvasData     `json:"data" bson:"data"`
	Metadata    CanvasMetadata `json:"metadata" bson:"metadata"`
	Status      CanvasStatus   `json:"status" bson:"status"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updated_at"`
}

// NewCanvas creates a draft canvas
func NewCanvas(clientID string, canvasType CanvasType, title string) *Canvas {
	now := time.Now()
	return &Canvas{
		ClientID: clientID,
		Type:     canvasType,
		Title:    title,
		Data:     CanvasData{},
		Metadata: CanvasMetadata{
			VisualFormats:    []string{},
			VisualAssetSizes: map[string]int{},
		},
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VisualFormat is an export format for a rendered canvas.
type VisualFormat string

const (
	FormatSVG VisualFormat = "svg"
	FormatPNG VisualFormat = "png"
	FormatPDF VisualFormat = "pdf"
)

// VisualAsset is one rendered representation of a canvas. It is never
// persisted on its own; only its size is summarized into the canvas metadata.
type VisualAsset struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
}
