package collaboration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shubh-37/startupai/internal/agents"
	"github.com/shubh-37/startupai/internal/canvas"
	"github.com/shubh-37/startupai/internal/llm"
	"github.com/shubh-37/startupai/internal/models"
)

// maxDebates caps the debates opened in one debate_consensus phase.
const maxDebates = 3

func (o *Orchestrator) runPhase(ctx context.Context, id string, phase models.Phase) error {
	session, err := o.GetSession(id)
	if err != nil {
		return err
	}

	switch phase {
	case models.PhaseIndividualAnalysis:
		return o.individualAnalysis(ctx, session)
	case models.PhaseCollaborativePopulation:
		return o.collaborativePopulation(ctx, session)
	case models.PhaseDebateConsensus:
		return o.debateConsensus(ctx, session)
	case models.PhaseSimulationValidation:
		return o.simulationValidation(session)
	case models.PhaseIterativeImprovement:
		return o.iterativeImprovement(ctx, session)
	}
	return fmt.Errorf("unknown phase %q", phase)
}

// fanOut asks every participating agent concurrently and returns the
// replies in agent order.
func (o *Orchestrator) fanOut(ctx context.Context, session *models.CollaborativeSession, prompt func(def agents.Definition) string) ([]string, error) {
	replies := make([]string, len(session.ParticipatingAgents))
	g, gctx := errgroup.WithContext(ctx)
	for i, agentID := range session.ParticipatingAgents {
		def, ok := o.catalog.Collaborator(agentID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown agent %q", models.ErrInvalidInput, agentID)
		}
		g.Go(func() error {
			resp, err := o.llm.Complete(gctx, llm.Request{
				System:      def.SystemPrompt,
				Prompt:      prompt(def),
				MaxTokens:   def.MaxTokens,
				Temperature: def.Temperature,
			})
			if err != nil {
				return fmt.Errorf("agent %s: %w", def.ID, err)
			}
			replies[i] = resp.Text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}

func (o *Orchestrator) addContribution(session *models.CollaborativeSession, agentID string, phase models.Phase, content string, sections models.CanvasData) {
	contribution := models.AgentContribution{
		ID:        uuid.New().String(),
		AgentID:   agentID,
		Phase:     phase,
		Content:   content,
		Sections:  sections,
		Timestamp: time.Now(),
	}
	o.update(session.ID, func(s *models.CollaborativeSession) {
		s.Contributions = append(s.Contributions, contribution)
		if sections != nil {
			s.Sections = mergeSections(s.Sections, sections, models.SectionKeys(s.FrameworkType))
		}
	})
	o.emit(Event{Type: EventContributionAdded, SessionID: session.ID, Phase: phase, AgentID: agentID, Data: contribution})
}

func sessionHeader(session *models.CollaborativeSession, def agents.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s (%s) in a team building a %s.\n", def.Name, def.Role, agents.SectionLabel(session.FrameworkType))
	if len(def.Expertise) > 0 {
		fmt.Fprintf(&b, "Your expertise: %s.\n", strings.Join(def.Expertise, ", "))
	}
	fmt.Fprintf(&b, "\nBusiness context:\n%s\n", strings.TrimSpace(session.BusinessContext))
	return b.String()
}

func (o *Orchestrator) individualAnalysis(ctx context.Context, session *models.CollaborativeSession) error {
	replies, err := o.fanOut(ctx, session, func(def agents.Definition) string {
		return sessionHeader(session, def) +
			"\nGive your independent analysis: the 3 to 5 most important insights and the riskiest assumption you see."
	})
	if err != nil {
		return err
	}
	for i, agentID := range session.ParticipatingAgents {
		o.addContribution(session, agentID, models.PhaseIndividualAnalysis, replies[i], nil)
	}
	return nil
}

func sectionsPrompt(keys []string) string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object whose keys are the canvas sections below, each an array of short strings:\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s\n", key)
	}
	return b.String()
}

func analysesSummary(session *models.CollaborativeSession) string {
	var b strings.Builder
	for _, c := range session.Contributions {
		if c.Phase != models.PhaseIndividualAnalysis {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", c.AgentID, strings.TrimSpace(c.Content))
	}
	return b.String()
}

func (o *Orchestrator) collaborativePopulation(ctx context.Context, session *models.CollaborativeSession) error {
	keys := models.SectionKeys(session.FrameworkType)
	summary := analysesSummary(session)

	replies, err := o.fanOut(ctx, session, func(def agents.Definition) string {
		return sessionHeader(session, def) +
			"\nThe team's individual analyses:\n" + summary +
			"\nPopulate the canvas sections you can speak to from your expertise.\n" + sectionsPrompt(keys)
	})
	if err != nil {
		return err
	}
	for i, agentID := range session.ParticipatingAgents {
		sections, err := decodeSections(replies[i], keys)
		if err != nil {
			o.logger.Warn("Agent returned no usable sections",
				zap.String("session_id", session.ID),
				zap.String("agent_id", agentID),
				zap.Error(err),
			)
		}
		o.addContribution(session, agentID, models.PhaseCollaborativePopulation, replies[i], sections)
	}
	return nil
}

// decodeSections reads the known section keys out of a reply. Unknown keys
// and non-string items are ignored.
func decodeSections(text string, keys []string) (models.CanvasData, error) {
	var raw map[string]json.RawMessage
	if err := llm.DecodeJSON(text, &raw); err != nil {
		return nil, err
	}
	out := models.CanvasData{}
	for _, key := range keys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		var items []any
		if err := json.Unmarshal(msg, &items); err != nil {
			var single string
			if json.Unmarshal(msg, &single) == nil && strings.TrimSpace(single) != "" {
				out[key] = []string{strings.TrimSpace(single)}
			}
			continue
		}
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out[key] = append(out[key], strings.TrimSpace(s))
			}
		}
	}
	return out, nil
}

// mergeSections appends new items to dst, skipping case-insensitive
// duplicates and keys outside the framework.
func mergeSections(dst, src models.CanvasData, keys []string) models.CanvasData {
	if dst == nil {
		dst = models.CanvasData{}
	}
	for _, key := range keys {
		seen := make(map[string]bool, len(dst[key]))
		for _, item := range dst[key] {
			seen[normalize(item)] = true
		}
		for _, item := range src[key] {
			n := normalize(item)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			dst[key] = append(dst[key], strings.TrimSpace(item))
		}
	}
	return dst
}

func normalize(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ".!?;:,\"'")
}

// debateTopics picks the contested topics for a session: the riskiest
// assumption, then any section the team overfilled.
func debateTopics(session *models.CollaborativeSession) []string {
	topics := []string{fmt.Sprintf("What is the riskiest assumption in this %s?", agents.SectionLabel(session.FrameworkType))}
	for _, key := range models.SectionKeys(session.FrameworkType) {
		if len(topics) >= maxDebates {
			break
		}
		if len(session.Sections[key]) > 5 {
			topics = append(topics, fmt.Sprintf("Which %s item should the team prioritize?", canvas.SectionTitle(key)))
		}
	}
	return topics
}

func (o *Orchestrator) debateConsensus(ctx context.Context, session *models.CollaborativeSession) error {
	for _, topic := range debateTopics(session) {
		debate, err := o.StartDebate(session.ID, topic)
		if err != nil {
			return err
		}

		replies, err := o.fanOut(ctx, session, func(def agents.Definition) string {
			return sessionHeader(session, def) +
				"\nCurrent canvas sections:\n" + formatSections(session.Sections, models.SectionKeys(session.FrameworkType)) +
				"\nDebate topic: " + topic +
				"\nAnswer with one line starting with \"POSITION:\" holding a short answer, then one line per supporting point starting with \"EVIDENCE:\"."
		})
		if err != nil {
			return err
		}

		for i, agentID := range session.ParticipatingAgents {
			position, evidence := ParsePosition(replies[i])
			if position == "" {
				continue
			}
			if err := o.AddPosition(debate.ID, agentID, position, evidence); err != nil {
				return err
			}
		}

		if _, err := o.ResolveDebate(debate.ID); err != nil {
			return err
		}
	}
	return nil
}

func formatSections(data models.CanvasData, keys []string) string {
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(data[key], "; "))
	}
	return b.String()
}

// ParsePosition reads the POSITION and EVIDENCE lines of a debate reply.
func ParsePosition(text string) (string, []string) {
	var position string
	var evidence []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "POSITION:") && position == "":
			position = strings.TrimSpace(line[len("POSITION:"):])
		case strings.HasPrefix(upper, "EVIDENCE:"):
			if e := strings.TrimSpace(line[len("EVIDENCE:"):]); e != "" {
				evidence = append(evidence, e)
			}
		}
	}
	return position, evidence
}

func (o *Orchestrator) simulationValidation(session *models.CollaborativeSession) error {
	for _, scenario := range Scenarios {
		if _, err := o.RunSimulation(session.ID, scenario); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) iterativeImprovement(ctx context.Context, session *models.CollaborativeSession) error {
	keys := models.SectionKeys(session.FrameworkType)
	score := canvas.AssessQuality(session.FrameworkType, session.Sections)

	if score < o.threshold {
		var missing []string
		for _, key := range keys {
			if session.Sections.Filled([]string{key}) == 0 {
				missing = append(missing, key)
			}
		}

		replies, err := o.fanOut(ctx, session, func(def agents.Definition) string {
			return sessionHeader(session, def) +
				"\nCurrent canvas sections:\n" + formatSections(session.Sections, keys) +
				fmt.Sprintf("\nThe canvas scores %.2f, below the %.2f target. Fill the empty sections: %s.\n", score, o.threshold, strings.Join(missing, ", ")) +
				sectionsPrompt(missing)
		})
		if err != nil {
			return err
		}
		for i, agentID := range session.ParticipatingAgents {
			sections, err := decodeSections(replies[i], missing)
			if err != nil {
				o.logger.Warn("Agent refinement unusable",
					zap.String("session_id", session.ID),
					zap.String("agent_id", agentID),
					zap.Error(err),
				)
			}
			o.addContribution(session, agentID, models.PhaseIterativeImprovement, replies[i], sections)
		}
	}

	o.update(session.ID, func(s *models.CollaborativeSession) {
		s.QualityScore = canvas.AssessQuality(s.FrameworkType, s.Sections)
	})
	return nil
}
