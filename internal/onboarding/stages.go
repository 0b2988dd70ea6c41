// Package onboarding runs the staged founder interview that collects an
// entrepreneur brief before strategic analysis.
package onboarding

// Stage is one topic of the onboarding conversation.
type Stage struct {
	ID                int      `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	KeyQuestions      []string `json:"keyQuestions"`
	DataToCollect     []string `json:"dataToCollect"`
	ProgressThreshold int      `json:"progressThreshold"`
}

// Stages in conversation order. Stage IDs start at 1.
var Stages = []Stage{
	{
		ID:          1,
		Name:        "Welcome & Introduction",
		Description: "Getting to know you and your business idea",
		KeyQuestions: []string{
			"What business idea are you most excited about?",
			"What inspired this idea?",
			"What stage is your business currently in?",
		},
		DataToCollect:     []string{"business_concept", "inspiration", "current_stage"},
		ProgressThreshold: 80,
	},
	{
		ID:          2,
		Name:        "Customer Discovery",
		Description: "Understanding your target customers",
		KeyQuestions: []string{
			"Who do you think would be most interested in this solution?",
			"What specific group of people have this problem most acutely?",
			"How do these customers currently solve this problem?",
		},
		DataToCollect:     []string{"target_customers", "customer_segments", "current_solutions"},
		ProgressThreshold: 75,
	},
	{
		ID:          3,
		Name:        "Problem Definition",
		Description: "Defining the core problem you're solving",
		KeyQuestions: []string{
			"What specific problem does your solution address?",
			"How painful is this problem for your customers?",
			"How often do they encounter this problem?",
		},
		DataToCollect:     []string{"problem_description", "pain_level", "frequency"},
		ProgressThreshold: 80,
	},
	{
		ID:          4,
		Name:        "Solution Validation",
		Description: "Exploring your proposed solution",
		KeyQuestions: []string{
			"How does your solution solve this problem?",
			"What makes your approach unique?",
			"What's your key differentiator?",
		},
		DataToCollect:     []string{"solution_description", "unique_value_prop", "differentiation"},
		ProgressThreshold: 75,
	},
	{
		ID:          5,
		Name:        "Competitive Analysis",
		Description: "Understanding the competitive landscape",
		KeyQuestions: []string{
			"Who else is solving this problem?",
			"What alternatives do customers have?",
			"What would make customers switch to your solution?",
		},
		DataToCollect:     []string{"competitors", "alternatives", "switching_barriers"},
		ProgressThreshold: 70,
	},
	{
		ID:          6,
		Name:        "Resources & Constraints",
		Description: "Assessing your available resources",
		KeyQuestions: []string{
			"What's your budget for getting started?",
			"What skills and resources do you have available?",
			"What are your main constraints?",
		},
		DataToCollect:     []string{"budget_range", "available_resources", "constraints"},
		ProgressThreshold: 75,
	},
	{
		ID:          7,
		Name:        "Goals & Next Steps",
		Description: "Setting strategic goals and priorities",
		KeyQuestions: []string{
			"What do you want to achieve in the next 3 months?",
			"How will you measure success?",
			"What's your biggest priority right now?",
		},
		DataToCollect:     []string{"short_term_goals", "success_metrics", "priorities"},
		ProgressThreshold: 85,
	},
}

// StageByID returns the stage, falling back to the first stage for
// out-of-range IDs.
func StageByID(id int) Stage {
	if id < 1 || id > len(Stages) {
		return Stages[0]
	}
	return Stages[id-1]
}

// Persona is the consultant voice presented for a plan.
type Persona struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Tone      string `json:"tone"`
	Expertise string `json:"expertise"`
}

// Plan types
const (
	PlanTrial      = "trial"
	PlanSprint     = "sprint"
	PlanFounder    = "founder"
	PlanEnterprise = "enterprise"
)

var personas = map[string]Persona{
	PlanTrial: {
		Name:      "Alex",
		Role:      "Strategic Consultant",
		Tone:      "encouraging and supportive",
		Expertise: "early-stage validation",
	},
	PlanSprint: {
		Name:      "Jordan",
		Role:      "Business Strategist",
		Tone:      "focused and analytical",
		Expertise: "rapid validation and testing",
	},
	PlanFounder: {
		Name:      "Morgan",
		Role:      "Senior Strategy Advisor",
		Tone:      "experienced and insightful",
		Expertise: "scaling and growth strategies",
	},
	PlanEnterprise: {
		Name:      "Taylor",
		Role:      "Executive Consultant",
		Tone:      "sophisticated and comprehensive",
		Expertise: "enterprise-level strategic planning",
	},
}

// PersonaFor returns the plan's persona; unknown plans get the trial persona.
func PersonaFor(plan string) Persona {
	if p, ok := personas[plan]; ok {
		return p
	}
	return personas[PlanTrial]
}
