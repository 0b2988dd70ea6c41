package onboarding

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	specificityPattern = regexp.MustCompile(`(?i)\b(specifically|exactly|particularly|mainly|primarily)\b`)
	budgetPattern      = regexp.MustCompile(`\$[\d,]+`)
	painWords          = []string{"painful", "frustrating", "difficult", "expensive", "time-consuming", "annoying"}
)

// Quality labels
const (
	ClarityHigh   = "high"
	ClarityMedium = "medium"
	ClarityLow    = "low"

	CompletenessComplete     = "complete"
	CompletenessPartial      = "partial"
	CompletenessInsufficient = "insufficient"
)

var clarityScores = map[string]float64{ClarityHigh: 0.92, ClarityMedium: 0.68, ClarityLow: 0.38}

var completenessScores = map[string]float64{
	CompletenessComplete:     1.0,
	CompletenessPartial:      0.66,
	CompletenessInsufficient: 0.35,
}

const (
	detailedMessageLen = 50
	progressPerMessage = 15
	stageWeight        = 14
	estimatedDuration  = "20-25 minutes"
)

// Signal is a labelled quality score.
type Signal struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// QualitySignals grade the answers given so far.
type QualitySignals struct {
	Clarity       Signal   `json:"clarity"`
	Completeness  Signal   `json:"completeness"`
	DetailScore   float64  `json:"detailScore"`
	Overall       float64  `json:"overall"`
	Suggestions   []string `json:"suggestions"`
	Encouragement string   `json:"encouragement"`
	Tags          []string `json:"qualityTags"`
}

// StageState is where the conversation stands after a turn.
type StageState struct {
	PreviousStage   int     `json:"previousStage,omitempty"`
	CurrentStage    int     `json:"currentStage"`
	StageName       string  `json:"stageName"`
	NextStageName   string  `json:"nextStageName,omitempty"`
	StageProgress   int     `json:"stageProgress"`
	OverallProgress float64 `json:"overallProgress"`
	IsStageComplete bool    `json:"isStageComplete"`
	TotalStages     int     `json:"totalStages"`
	Summary         string  `json:"summary,omitempty"`
}

// Snapshot is the per-stage record kept alongside the brief.
type Snapshot struct {
	Stage        int       `json:"stage"`
	Coverage     float64   `json:"coverage"`
	Clarity      Signal    `json:"clarity"`
	Completeness Signal    `json:"completeness"`
	DetailScore  float64   `json:"detailScore"`
	BriefFields  []string  `json:"briefFields"`
	Excerpt      string    `json:"lastMessageExcerpt"`
	Notes        string    `json:"notes"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SystemActions tell the caller what to do after a turn.
type SystemActions struct {
	TriggerWorkflow      bool `json:"triggerWorkflow"`
	SaveCheckpoint       bool `json:"saveCheckpoint"`
	RequestClarification bool `json:"requestClarification"`
	NeedsReview          bool `json:"needsReview"`
}

// Introduction opens a new session.
type Introduction struct {
	Introduction      string         `json:"introduction"`
	FirstQuestion     string         `json:"firstQuestion"`
	Persona           Persona        `json:"agentPersonality"`
	ExpectedOutcomes  []string       `json:"expectedOutcomes"`
	PrivacyNotice     string         `json:"privacyNotice"`
	StageState        StageState     `json:"stageState"`
	Snapshot          Snapshot       `json:"stageSnapshot"`
	Quality           QualitySignals `json:"qualitySignals"`
	EstimatedDuration string         `json:"estimatedDuration"`
	UserContext       map[string]any `json:"userContext"`
}

// Reply is the engine's answer to one founder message.
type Reply struct {
	AgentResponse    string         `json:"agentResponse"`
	FollowUpQuestion string         `json:"followUpQuestion"`
	BriefUpdate      map[string]any `json:"briefUpdate"`
	Quality          QualitySignals `json:"qualitySignals"`
	StageState       StageState     `json:"stageState"`
	Snapshot         Snapshot       `json:"stageSnapshot"`
	Actions          SystemActions  `json:"systemActions"`
}

// Engine scores founder messages with fixed heuristics. It holds no
// session state.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Start builds the opening of a session for the plan's persona.
func (e *Engine) Start(plan string, userContext map[string]any) *Introduction {
	persona := PersonaFor(plan)
	first := StageByID(1)
	if userContext == nil {
		userContext = map[string]any{}
	}

	const detail = 0.05
	return &Introduction{
		Introduction: fmt.Sprintf("Hi! I'm %s, your %s. ", persona.Name, persona.Role) +
			"I'm here to help you develop a comprehensive strategic analysis of your business idea. " +
			"I'll guide you through a structured conversation to understand your vision, validate your assumptions, " +
			"and create actionable insights.",
		FirstQuestion: "Let's start with the big picture. What's the business idea or opportunity you're most excited about right now? " +
			"Don't worry about having all the details figured out - I'm here to help you think through everything systematically.",
		Persona: persona,
		ExpectedOutcomes: []string{
			"Comprehensive entrepreneur brief",
			"Strategic recommendations",
			"Validation plan with specific next steps",
			"Business model canvas",
			"Competitive analysis",
			"Resource allocation strategy",
		},
		PrivacyNotice: "Your conversation is private and secure. All information shared will be used solely to provide personalized " +
			"strategic guidance and will not be shared with third parties.",
		StageState: StageState{
			CurrentStage: first.ID,
			StageName:    first.Name,
			TotalStages:  len(Stages),
			Summary:      first.Description,
		},
		Snapshot: e.snapshot(first.ID, 0, ClarityMedium, CompletenessPartial, detail, nil, ""),
		Quality: QualitySignals{
			Clarity:       signal(clarityScores, ClarityMedium),
			Completeness:  signal(completenessScores, CompletenessPartial),
			DetailScore:   detail,
			Overall:       round2((clarityScores[ClarityMedium] + completenessScores[CompletenessPartial] + detail) / 3),
			Suggestions:   []string{},
			Encouragement: "Let's explore your vision together and capture the details that matter.",
			Tags:          []string{"needs_detail"},
		},
		EstimatedDuration: estimatedDuration,
		UserContext:       userContext,
	}
}

// StageProgress scores a message within a stage: 15 per prior message, 20
// for a detailed message (10 otherwise) and 15 more for specific language.
func StageProgress(message string, historyLen int) int {
	msg := strings.TrimSpace(message)
	progress := historyLen * progressPerMessage
	if len(msg) > detailedMessageLen {
		progress += 20
	} else {
		progress += 10
	}
	if specificityPattern.MatchString(msg) {
		progress += 15
	}
	return min(100, progress)
}

// OverallProgress weights each completed stage at 14 points.
func OverallProgress(stageID, stageProgress int) float64 {
	return math.Min(100, float64((stageID-1)*stageWeight)+float64(stageProgress)*0.14)
}

// Process scores a message for the given stage and decides whether the
// conversation moves on. historyLen is the number of earlier messages.
func (e *Engine) Process(message string, stageID, historyLen int) *Reply {
	stage := StageByID(stageID)
	stageID = stage.ID

	msg := strings.TrimSpace(message)
	detailed := len(msg) > detailedMessageLen
	specific := specificityPattern.MatchString(msg)

	progress := StageProgress(msg, historyLen)
	overall := OverallProgress(stageID, progress)
	complete := progress >= stage.ProgressThreshold
	next := stageID
	if complete && stageID < len(Stages) {
		next = stageID + 1
	}

	response, followUp, brief := respond(stageID, msg, complete)

	clarity := ClarityLow
	switch {
	case detailed && specific:
		clarity = ClarityHigh
	case detailed:
		clarity = ClarityMedium
	}
	completeness := CompletenessInsufficient
	switch {
	case complete:
		completeness = CompletenessComplete
	case progress > 50:
		completeness = CompletenessPartial
	}

	suggestions := []string{}
	if !detailed {
		suggestions = append(suggestions, "Try to provide more specific details to help me understand your situation better.")
	}
	if progress < 50 {
		suggestions = append(suggestions, "Consider sharing examples or specific scenarios to illustrate your points.")
	}
	tags := []string{}
	if clarity == ClarityLow {
		tags = append(tags, "clarity_low")
	}
	if completeness == CompletenessInsufficient {
		tags = append(tags, "incomplete")
	}

	detail := round2(float64(progress) / 100)
	state := StageState{
		PreviousStage:   stageID,
		CurrentStage:    next,
		StageName:       stage.Name,
		NextStageName:   StageByID(next).Name,
		StageProgress:   progress,
		OverallProgress: overall,
		IsStageComplete: complete,
		TotalStages:     len(Stages),
	}
	if next > stageID {
		state.StageProgress = 0
		followUp = ""
	}

	return &Reply{
		AgentResponse:    response,
		FollowUpQuestion: followUp,
		BriefUpdate:      brief,
		Quality: QualitySignals{
			Clarity:       signal(clarityScores, clarity),
			Completeness:  signal(completenessScores, completeness),
			DetailScore:   detail,
			Overall:       round2((clarityScores[clarity] + completenessScores[completeness] + detail) / 3),
			Suggestions:   suggestions,
			Encouragement: "You're making great progress! Your insights are helping build a comprehensive picture of your business opportunity.",
			Tags:          tags,
		},
		StageState: state,
		Snapshot:   e.snapshot(stageID, detail, clarity, completeness, detail, brief, msg),
		Actions: SystemActions{
			TriggerWorkflow:      stageID == len(Stages) && complete,
			SaveCheckpoint:       complete,
			RequestClarification: progress < 30 || clarity == ClarityLow,
			NeedsReview:          clarity == ClarityLow || completeness == CompletenessInsufficient,
		},
	}
}

// respond returns the stage-specific acknowledgement, the follow-up
// question and any brief fields the message fills.
func respond(stageID int, msg string, complete bool) (string, string, map[string]any) {
	lower := strings.ToLower(msg)
	brief := map[string]any{}
	var response, followUp string

	switch stageID {
	case 1:
		switch {
		case strings.Contains(lower, "app") || strings.Contains(lower, "software"):
			response = "A software solution - that's exciting! The digital space offers incredible opportunities for scalability and impact. "
			brief["business_stage"] = "idea"
			brief["solution_type"] = "software"
		case strings.Contains(lower, "service") || strings.Contains(lower, "consulting"):
			response = "A service-based business can be a great way to start with lower upfront costs and direct customer feedback. "
			brief["business_stage"] = "idea"
			brief["solution_type"] = "service"
		default:
			response = "Thank you for sharing that with me! I can hear the passion in your description. "
		}
		if complete {
			response += "Now that I understand your core concept, let's dive deeper into who this would serve. "
			followUp = "Who do you envision as your ideal customer? Think about the specific type of person or business that would " +
				"get the most value from what you're creating."
		} else {
			followUp = "Can you tell me more about what inspired this idea? What problem or opportunity did you notice that led you here?"
		}

	case 2:
		switch {
		case strings.Contains(lower, "business") || strings.Contains(lower, "company"):
			response = "B2B customers can be fantastic - they often have bigger budgets and longer-term relationships. "
			brief["customer_type"] = "b2b"
		case strings.Contains(lower, "people") || strings.Contains(lower, "individual"):
			response = "Consumer markets offer great opportunities for scale and direct impact. "
			brief["customer_type"] = "b2c"
		}
		response += "Understanding your customers deeply is crucial for success. "
		if complete {
			followUp = "Perfect! Now let's get specific about the problem you're solving. What exact pain point or challenge do these customers face " +
				"that your solution addresses?"
		} else {
			followUp = "Can you be more specific about this customer segment? What characteristics do they share? What's their situation that makes them need your solution?"
		}

	case 3:
		if containsAny(lower, painWords) {
			response = "I can tell this is a real pain point - that emotional language tells me customers would be motivated to find a solution. "
			brief["problem_pain_level"] = 8
		} else {
			response = "Thanks for explaining that. Understanding the problem clearly is essential for building the right solution. "
			brief["problem_pain_level"] = 6
		}
		brief["problem_description"] = truncate(msg, 500)
		if complete {
			followUp = "Excellent! Now I'd love to understand your solution. How exactly do you plan to solve this problem? What's your approach?"
		} else {
			followUp = "Help me understand the impact of this problem. How often do your customers encounter it, and what does it cost them when they do?"
		}

	case 4:
		brief["solution_description"] = truncate(msg, 500)
		if strings.Contains(lower, "unique") || strings.Contains(lower, "different") {
			response = "I love that you're thinking about differentiation! That's what will make customers choose you over alternatives. "
		} else {
			response = "That's a solid approach to solving the problem. "
		}
		if complete {
			followUp = "Great solution! Now let's look at the competitive landscape. Who else is trying to solve this problem, and how are customers handling it today?"
		} else {
			followUp = "What makes your solution unique? Why would customers choose your approach over other ways of solving this problem?"
		}

	case 5:
		response = "Understanding the competition helps you position yourself effectively and identify opportunities. "
		if strings.Contains(lower, "no competition") || strings.Contains(lower, "no one else") {
			response += "While it might seem like there's no direct competition, customers are always solving this problem somehow - " +
				"even if it's manual processes or workarounds. "
		}
		if complete {
			followUp = "Perfect! Now let's talk resources. What's your budget range for getting this business started, and what skills or assets do you already have?"
		} else {
			followUp = "What would convince a customer to switch from their current solution to yours? What's the compelling reason to change?"
		}

	case 6:
		budget := budgetPattern.FindString(msg)
		if budget != "" || strings.Contains(lower, "thousand") || strings.Contains(lower, "budget") {
			response = "Having a clear budget helps with planning and prioritization. "
			if budget == "" {
				budget = "specified"
			}
			brief["budget_range"] = budget
		}
		response += "Understanding your resources helps us create a realistic roadmap. "
		if complete {
			followUp = "Excellent! For our final topic, let's set some strategic goals. What do you want to achieve with this business in the next 3 months?"
		} else {
			followUp = "What skills, connections, or assets do you already have that could help with this business? " +
				"And what are your biggest constraints or limitations?"
		}

	case 7:
		response = "Setting clear, measurable goals is crucial for making progress and staying motivated. "
		brief["three_month_goals"] = []string{truncate(msg, 200)}
		if complete {
			response += "Fantastic! We've covered all the key areas. I have everything I need to create your comprehensive strategic analysis. "
			followUp = "Before I generate your personalized strategic report, is there anything else about your business idea that you think is important for me to know?"
		} else {
			followUp = "How will you measure success? What specific metrics or milestones will tell you that you're making progress?"
		}
	}

	return response, followUp, brief
}

func (e *Engine) snapshot(stageID int, coverage float64, clarity, completeness string, detail float64, brief map[string]any, msg string) Snapshot {
	fields := make([]string, 0, len(brief))
	for k := range brief {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	notes := "Additional detail captured"
	if completeness == CompletenessComplete {
		notes = "Stage advanced"
	}
	return Snapshot{
		Stage:        stageID,
		Coverage:     math.Max(0, math.Min(1, coverage)),
		Clarity:      signal(clarityScores, clarity),
		Completeness: signal(completenessScores, completeness),
		DetailScore:  detail,
		BriefFields:  fields,
		Excerpt:      truncate(msg, 240),
		Notes:        notes,
		UpdatedAt:    e.now().UTC(),
	}
}

func signal(scores map[string]float64, label string) Signal {
	return Signal{Label: label, Score: scores[label]}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
