package agents

import "github.com/shubh-37/startupai/internal/models"

var bmcWeights = []weighted{
	{models.SectionCustomerSegments, 0.15},
	{models.SectionValuePropositions, 0.15},
	{models.SectionRevenueStreams, 0.15},
	{models.SectionCostStructure, 0.12},
	{models.SectionChannels, 0.10},
	{models.SectionCustomerRelationships, 0.10},
	{models.SectionKeyResources, 0.08},
	{models.SectionKeyActivities, 0.08},
	{models.SectionKeyPartners, 0.07},
}

var blockKeywords = map[string][]string{
	models.SectionCustomerSegments:      {"segment", "customer", "user", "market", "niche", "smb", "enterprise", "consumer", "founder", "business"},
	models.SectionValuePropositions:     {"value", "save", "reduce", "improve", "faster", "unique", "better", "benefit", "without"},
	models.SectionRevenueStreams:        {"subscription", "fee", "licens", "commission", "pricing", "revenue", "sales", "advertis", "freemium", "per "},
	models.SectionCostStructure:         {"cost", "salar", "hosting", "infrastructure", "marketing", "fixed", "variable", "expense"},
	models.SectionChannels:              {"online", "website", "app", "sales", "partner", "store", "social", "email", "direct", "marketplace"},
	models.SectionCustomerRelationships: {"support", "self-service", "community", "personal", "automated", "account", "onboarding", "success"},
	models.SectionKeyResources:          {"team", "platform", "data", "brand", "technology", "patent", "capital", "engineer", "network"},
	models.SectionKeyActivities:         {"develop", "build", "market", "operat", "support", "research", "manag", "sell", "maintain"},
	models.SectionKeyPartners:           {"partner", "supplier", "vendor", "provider", "alliance", "integration", "reseller", "investor"},
}

// BusinessModelAgent reviews business model canvases block by block.
type BusinessModelAgent struct{}

func (BusinessModelAgent) Assess(data models.CanvasData) Assessment {
	scores := make(map[string]float64, len(bmcWeights))
	for _, w := range bmcWeights {
		scores[w.key] = blockScore(data[w.key], blockKeywords[w.key])
	}

	var recs []string
	for _, w := range bmcWeights {
		if scores[w.key] < 0.6 {
			recs = append(recs, "Strengthen "+w.key+" with more specific, quantified items")
		}
	}

	return Assessment{
		Overall:         weightedSum(scores, bmcWeights),
		Scores:          scores,
		Recommendations: recs,
	}
}

// blockScore: presence 0.4, two or more items 0.2, average length of at
// least 15 characters 0.2, a block keyword or a number 0.2.
func blockScore(items []string, words []string) float64 {
	items = nonBlank(items)
	if len(items) == 0 {
		return 0
	}

	score := 0.4
	if len(items) >= 2 {
		score += 0.2
	}

	totalLen := 0
	specific := false
	for _, item := range items {
		totalLen += len([]rune(item))
		if containsAny(item, words) || hasNumber(item) {
			specific = true
		}
	}
	if totalLen/len(items) >= 15 {
		score += 0.2
	}
	if specific {
		score += 0.2
	}
	return score
}
