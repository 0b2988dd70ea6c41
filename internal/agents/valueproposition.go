package agents

import "github.com/shubh-37/startupai/internal/models"

// Value proposition sub-scores
const (
	ScoreJobs            = "jobs"
	ScorePains           = "pains"
	ScoreGains           = "gains"
	ScoreProducts        = "products"
	ScorePainRelieverFit = "painRelieverFit"
	ScoreGainCreatorFit  = "gainCreatorFit"
)

var vpcWeights = []weighted{
	{ScoreJobs, 0.25},
	{ScorePains, 0.20},
	{ScoreGains, 0.20},
	{ScoreProducts, 0.15},
	{ScorePainRelieverFit, 0.10},
	{ScoreGainCreatorFit, 0.10},
}

var (
	actionVerbs = []string{
		"manage", "track", "find", "create", "build", "reduce", "improve", "complete", "get ",
		"make", "hire", "sell", "buy", "plan", "organize", "learn", "grow", "save", "avoid",
		"keep", "prepare", "close", "file", "choose", "compare", "launch", "run", "hit",
	}
	contextWords = []string{
		"when", "while", "for ", "during", "so that", "in order", "before", "after", "because",
		"without", "each ", "every",
	}
	painWords = []string{
		"frustrat", "difficult", "hard", "slow", "expensive", "costly", "risk", "waste",
		"time-consuming", "annoying", "fail", "error", "struggle", "lack", "problem", "pain",
		"worry", "tedious", "manual", "complex", "confus", "miss", "lose", "late",
	}
	gainWords = []string{
		"save", "increase", "improve", "faster", "easier", "better", "more", "growth", "reduce",
		"efficien", "success", "peace", "confiden", "profit", "revenue", "delight", "free",
		"less", "simple",
	}
	productWords = []string{
		"app", "platform", "tool", "service", "software", "dashboard", "api", "product",
		"feature", "system", "solution", "integration", "consult", "course", "marketplace",
		"automat", "template", "report",
	}
)

// ValuePropositionAgent reviews value proposition canvases.
type ValuePropositionAgent struct{}

func (ValuePropositionAgent) Assess(data models.CanvasData) Assessment {
	scores := map[string]float64{
		ScoreJobs:            itemScore(data[models.SectionCustomerJobs], keywords(actionVerbs...), minLen(20), keywords(contextWords...)),
		ScorePains:           itemScore(data[models.SectionPains], keywords(painWords...), minLen(15), hasNumber),
		ScoreGains:           itemScore(data[models.SectionGains], keywords(gainWords...), minLen(15), hasNumber),
		ScoreProducts:        productScore(data[models.SectionProducts]),
		ScorePainRelieverFit: FitScore(data[models.SectionPains], data[models.SectionPainRelievers]),
		ScoreGainCreatorFit:  FitScore(data[models.SectionGains], data[models.SectionGainCreators]),
	}

	return Assessment{
		Overall:         weightedSum(scores, vpcWeights),
		Scores:          scores,
		Recommendations: vpcRecommendations(scores),
	}
}

func productScore(items []string) float64 {
	base := itemScore(items, minLen(10), keywords(productWords...))
	if base == 0 {
		return 0
	}
	score := base * 0.8
	if len(nonBlank(items)) >= 2 {
		score += 0.2
	}
	return score
}

func vpcRecommendations(scores map[string]float64) []string {
	var recs []string
	if scores[ScoreJobs] < 0.6 {
		recs = append(recs, "Describe customer jobs with an action verb and the situation they happen in")
	}
	if scores[ScorePains] < 0.6 {
		recs = append(recs, "Make pains concrete and quantify their cost in time or money")
	}
	if scores[ScoreGains] < 0.6 {
		recs = append(recs, "Quantify the gains customers expect")
	}
	if scores[ScoreProducts] < 0.6 {
		recs = append(recs, "List at least two concrete products or services")
	}
	if scores[ScorePainRelieverFit] < 0.3 {
		recs = append(recs, "Tie each pain reliever to a specific customer pain")
	}
	if scores[ScoreGainCreatorFit] < 0.3 {
		recs = append(recs, "Tie each gain creator to a specific customer gain")
	}
	return recs
}
