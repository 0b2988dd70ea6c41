package canvas

import "github.com/shubh-37/startupai/internal/models"

const (
	DefaultWidth  = 1200
	DefaultHeight = 800

	maxItems   = 5
	padding    = 20
	titleSpace = 60
	lineHeight = 20
	charWidth  = 7
)

// box is one section area of a canvas layout.
type box struct {
	Key   string
	Title string
	X, Y  int
	W, H  int
}

// maxChars is the per-line character budget for items in the box.
func (b box) maxChars() int {
	n := (b.W - 30) / charWidth
	if n < 10 {
		return 10
	}
	return n
}

// RenderOptions sizes a rendered canvas. Zero values fall back to 1200x800.
type RenderOptions struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

var sectionTitles = map[string]string{
	models.SectionCustomerJobs:          "Customer Jobs",
	models.SectionPains:                 "Pains",
	models.SectionGains:                 "Gains",
	models.SectionProducts:              "Products & Services",
	models.SectionPainRelievers:         "Pain Relievers",
	models.SectionGainCreators:          "Gain Creators",
	models.SectionKeyPartners:           "Key Partners",
	models.SectionKeyActivities:         "Key Activities",
	models.SectionKeyResources:          "Key Resources",
	models.SectionValuePropositions:     "Value Propositions",
	models.SectionCustomerRelationships: "Customer Relationships",
	models.SectionChannels:              "Channels",
	models.SectionCustomerSegments:      "Customer Segments",
	models.SectionCostStructure:         "Cost Structure",
	models.SectionRevenueStreams:        "Revenue Streams",
	models.SectionHypotheses:            "Hypotheses",
	models.SectionExperiments:           "Experiments",
	models.SectionLearnings:             "Learnings",
}

// SectionTitle returns the display header for a section key.
func SectionTitle(key string) string {
	if title, ok := sectionTitles[key]; ok {
		return title
	}
	return key
}

func newBox(key string, x, y, w, h int) box {
	return box{Key: key, Title: SectionTitle(key), X: x, Y: y, W: w, H: h}
}

// vpcLayout places the value map on the left and the customer profile on
// the right, each split into a full-height column and two stacked boxes.
func vpcLayout(width, height int) []box {
	areaH := height - titleSpace - padding
	halfW := (width - 3*padding) / 2
	colW := halfW / 2
	top := titleSpace

	left := padding
	right := 2*padding + halfW
	return []box{
		newBox(models.SectionProducts, left, top, colW, areaH),
		newBox(models.SectionGainCreators, left+colW, top, colW, areaH/2),
		newBox(models.SectionPainRelievers, left+colW, top+areaH/2, colW, areaH-areaH/2),
		newBox(models.SectionGains, right, top, colW, areaH/2),
		newBox(models.SectionPains, right, top+areaH/2, colW, areaH-areaH/2),
		newBox(models.SectionCustomerJobs, right+colW, top, colW, areaH),
	}
}

// bmcLayout is the classic nine block grid: five columns over a two block
// financial row.
func bmcLayout(width, height int) []box {
	areaW := width - 2*padding
	areaH := height - titleSpace - padding
	colW := areaW / 5
	topH := areaH * 2 / 3
	halfH := topH / 2
	botY := titleSpace + topH
	botH := areaH - topH
	x := func(col int) int { return padding + col*colW }

	return []box{
		newBox(models.SectionKeyPartners, x(0), titleSpace, colW, topH),
		newBox(models.SectionKeyActivities, x(1), titleSpace, colW, halfH),
		newBox(models.SectionKeyResources, x(1), titleSpace+halfH, colW, topH-halfH),
		newBox(models.SectionValuePropositions, x(2), titleSpace, colW, topH),
		newBox(models.SectionCustomerRelationships, x(3), titleSpace, colW, halfH),
		newBox(models.SectionChannels, x(3), titleSpace+halfH, colW, topH-halfH),
		newBox(models.SectionCustomerSegments, x(4), titleSpace, colW, topH),
		newBox(models.SectionCostStructure, padding, botY, areaW/2, botH),
		newBox(models.SectionRevenueStreams, padding+areaW/2, botY, areaW-areaW/2, botH),
	}
}

func tbiLayout(width, height int) []box {
	areaW := width - 2*padding
	areaH := height - titleSpace - padding
	colW := areaW / 3
	return []box{
		newBox(models.SectionHypotheses, padding, titleSpace, colW, areaH),
		newBox(models.SectionExperiments, padding+colW, titleSpace, colW, areaH),
		newBox(models.SectionLearnings, padding+2*colW, titleSpace, areaW-2*colW, areaH),
	}
}

func layoutFor(t models.CanvasType, width, height int) ([]box, error) {
	switch t {
	case models.CanvasValueProposition:
		return vpcLayout(width, height), nil
	case models.CanvasBusinessModel:
		return bmcLayout(width, height), nil
	case models.CanvasTestingBusinessIdeas:
		return tbiLayout(width, height), nil
	}
	return nil, models.ErrUnsupportedCanvasType
}

// typeLabel is the document heading for a canvas type.
func typeLabel(t models.CanvasType) string {
	switch t {
	case models.CanvasValueProposition:
		return "Value Proposition Canvas"
	case models.CanvasBusinessModel:
		return "Business Model Canvas"
	case models.CanvasTestingBusinessIdeas:
		return "Testing Business Ideas"
	}
	return string(t)
}

// visibleItems returns the non-blank items to draw and how many were left
// out beyond the per-box limit.
func visibleItems(items []string) ([]string, int) {
	var kept []string
	for _, item := range items {
		if item == "" {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) <= maxItems {
		return kept, 0
	}
	return kept[:maxItems], len(kept) - maxItems
}
