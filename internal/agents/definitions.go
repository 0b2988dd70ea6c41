package agents

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shubh-37/startupai/internal/models"
)

//go:embed definitions.yaml
var definitionsYAML []byte

// Definition describes one LLM-backed agent.
type Definition struct {
	ID             string            `yaml:"id" json:"id"`
	Name           string            `yaml:"name" json:"name"`
	Role           string            `yaml:"role" json:"role"`
	CanvasType     models.CanvasType `yaml:"canvas_type,omitempty" json:"canvasType,omitempty"`
	Expertise      []string          `yaml:"expertise,omitempty" json:"expertise,omitempty"`
	SystemPrompt   string            `yaml:"system_prompt" json:"-"`
	RequiredFields []string          `yaml:"required_fields,omitempty" json:"requiredFields,omitempty"`
	MaxTokens      int               `yaml:"max_tokens" json:"maxTokens"`
	Temperature    float64           `yaml:"temperature" json:"temperature"`
}

// Catalog is the set of agents the service knows about.
type Catalog struct {
	CostPerToken  float64      `yaml:"cost_per_token"`
	Generators    []Definition `yaml:"generators"`
	Collaborators []Definition `yaml:"collaborators"`
}

// DefaultCatalog parses the embedded definitions.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(definitionsYAML)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse agent definitions: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, def := range append(append([]Definition{}, c.Generators...), c.Collaborators...) {
		if def.ID == "" {
			return fmt.Errorf("agent definition without id")
		}
		if seen[def.ID] {
			return fmt.Errorf("duplicate agent id %q", def.ID)
		}
		seen[def.ID] = true
		if def.SystemPrompt == "" {
			return fmt.Errorf("agent %q has no system prompt", def.ID)
		}
	}
	for _, def := range c.Generators {
		if !def.CanvasType.Valid() {
			return fmt.Errorf("generator %q: %w", def.ID, models.ErrUnsupportedCanvasType)
		}
	}
	return nil
}

// Generator returns the generator for a canvas type.
func (c *Catalog) Generator(t models.CanvasType) (Definition, bool) {
	for _, def := range c.Generators {
		if def.CanvasType == t {
			return def, true
		}
	}
	return Definition{}, false
}

// Collaborator looks up a collaborator by id.
func (c *Catalog) Collaborator(id string) (Definition, bool) {
	for _, def := range c.Collaborators {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// CollaboratorIDs lists collaborator ids in catalog order.
func (c *Catalog) CollaboratorIDs() []string {
	ids := make([]string, 0, len(c.Collaborators))
	for _, def := range c.Collaborators {
		ids = append(ids, def.ID)
	}
	return ids
}
