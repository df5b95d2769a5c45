package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/northbridge-support/triage/internal/clock"
)

const similarityGateThreshold = 0.70

// Oracle is the pluggable data-fetch boundary described in spec §6. A
// single Assign call issues no more than the batched round-trips
// documented on Oracle's methods; the engine itself never queries
// per-candidate.
type Oracle interface {
	// ListMembers returns the active operators eligible for assignment,
	// with their declared skills. One logical round-trip.
	ListMembers(ctx context.Context) ([]TeamMember, error)

	// LoadRuntime returns the derived per-member runtime snapshot (PTO,
	// holiday flags, active tickets, recent-assignment count) for the
	// given member IDs as of today. Up to three logical round-trips
	// internally (active tickets, PTO records, recent-assignment
	// counts); holiday lookups may be served from cache.
	LoadRuntime(ctx context.Context, memberIDs []string, today time.Time) (map[string]MemberRuntime, error)

	// ExtractSkills derives the critical/important/nice-to-have skill
	// sets from the ticket's text and category. Called once per Assign
	// call, not once per candidate.
	ExtractSkills(ctx context.Context, text, category string) (SkillRequirements, error)
}

// Engine is the assignment engine described in spec §4. It is stateless
// and pure given its injected Clock and Oracle: identical inputs and an
// identical clock reading produce an identical decision.
type Engine struct {
	oracle  Oracle
	clock   clock.Clock
	weights WeightMatrix
	logger  *slog.Logger
}

// New builds an Engine. weights may be nil to use DefaultWeightMatrix.
func New(oracle Oracle, c clock.Clock, weights WeightMatrix, logger *slog.Logger) *Engine {
	if weights == nil {
		weights = DefaultWeightMatrix()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{oracle: oracle, clock: c, weights: weights, logger: logger}
}

// Assign implements spec §4.1: the engine's sole entry point.
func (e *Engine) Assign(ctx context.Context, ticket Ticket, similar []SimilarTicket) (AssignmentDecision, error) {
	now := e.clock.Now()
	decision := AssignmentDecision{TicketID: ticket.TicketID, AssignedAt: now}

	// Step 1 — similarity gate.
	maxSim := 0.0
	for _, s := range similar {
		if s.SimilarityScore > maxSim {
			maxSim = s.SimilarityScore
		}
	}
	if maxSim < similarityGateThreshold {
		decision.Type = DecisionHumanReview
		decision.HumanReviewTriggers = []Trigger{{
			Reason:            "no_similar_pattern",
			Severity:          "high",
			RecommendedAction: "team_consultation_email",
			Timeout:           time.Hour,
		}}
		decision.Reasoning = append(decision.Reasoning, "No sufficiently similar prior ticket found; routing to human review")
		return decision, nil
	}

	// Step 2 — candidate evaluation.
	members, err := e.oracle.ListMembers(ctx)
	if err != nil {
		return e.oracleUnavailableDecision(decision, "list members", err), nil
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	runtimes, err := e.oracle.LoadRuntime(ctx, memberIDs, now)
	if err != nil {
		return e.oracleUnavailableDecision(decision, "load runtime", err), nil
	}

	req, err := e.oracle.ExtractSkills(ctx, ticket.Title+"\n"+ticket.Description, ticket.Category)
	if err != nil {
		return e.oracleUnavailableDecision(decision, "extract skills", err), nil
	}

	priority := ticket.Priority
	if priority == "" {
		priority = Medium
	}
	weights := e.weights.For(priority)

	candidates := make([]AssignmentCandidate, 0, len(members))
	for _, m := range members {
		rt := runtimes[m.ID]
		candidates = append(candidates, e.evaluateCandidate(m, rt, req, similar, priority, weights, now))
	}

	// No candidates at all, or every candidate at zero availability
	// (PTO, regional holiday, or a global holiday at Medium/Low priority).
	available := false
	for _, c := range candidates {
		if c.AvailabilityScore > 0 {
			available = true
			break
		}
	}
	if !available {
		decision.Type = DecisionHumanReview
		decision.HumanReviewTriggers = []Trigger{{
			Reason:            "no_available_members",
			Severity:          "critical",
			RecommendedAction: "immediate_manager_escalation",
		}}
		decision.Reasoning = append(decision.Reasoning, "No active operator is available for assignment")
		return decision, nil
	}

	// Step 3 — rank.
	ranked := rankCandidates(candidates)

	// Step 4 — business rules R1-R4.
	h := float64(now.Hour()) + float64(now.Minute())/60.0
	arb := applyBusinessRules(ranked, ticket, h)
	if arb.escalate != nil {
		decision.Type = DecisionEscalation
		decision.HumanReviewTriggers = []Trigger{*arb.escalate}
		decision.RulesApplied = arb.rulesApplied
		decision.Reasoning = arb.reasoning
		decision.TopCandidates = top3(ranked)
		return decision, nil
	}

	selected := ranked[arb.selected]
	decision.RulesApplied = append(decision.RulesApplied, arb.rulesApplied...)
	decision.Reasoning = append(decision.Reasoning, arb.reasoning...)
	decision.TopCandidates = top3(ranked)

	// R5 — confidence gate.
	conf := confidence(selected, ranked)
	decision.Confidence = conf
	if conf < 0.3 {
		decision.Type = DecisionHumanReview
		decision.HumanReviewTriggers = []Trigger{{
			Reason:            "low_confidence_assignment",
			Severity:          "medium",
			RecommendedAction: "team_lead_review",
			Timeout:           15 * time.Minute,
		}}
		decision.Reasoning = append(decision.Reasoning, "Confidence below threshold; routing to human review")
		return decision, nil
	}
	if conf < 0.5 {
		decision.RulesApplied = append(decision.RulesApplied, "team_lead_notification")
		decision.Reasoning = append(decision.Reasoning, "Confidence below notification threshold; team lead notified, assignment proceeds")
	}

	// Step 5 — emit.
	decision.Type = DecisionNormal
	decision.PrimaryAssignee = selected.Member.Email
	return decision, nil
}

// oracleUnavailableDecision builds the escalation decision spec §7
// requires when the oracle fails mid-Assign: severity critical, reason
// oracle_unavailable, no assignment made. The underlying error is
// logged and folded into the decision's reasoning rather than returned
// as a Go error, so the caller still has a decision to persist and
// emit per §2's "a decision is always produced" invariant.
func (e *Engine) oracleUnavailableDecision(decision AssignmentDecision, step string, cause error) AssignmentDecision {
	wrapped := fmt.Errorf("%w: %s: %v", ErrOracleUnavailable, step, cause)
	e.logger.Error("oracle unavailable during assignment", "ticket_id", decision.TicketID, "step", step, "error", wrapped)

	decision.Type = DecisionEscalation
	decision.HumanReviewTriggers = []Trigger{{
		Reason:            "oracle_unavailable",
		Severity:          "critical",
		RecommendedAction: "immediate_manager_escalation",
	}}
	decision.Reasoning = append(decision.Reasoning, wrapped.Error())
	return decision
}

func (e *Engine) evaluateCandidate(m TeamMember, rt MemberRuntime, req SkillRequirements, similar []SimilarTicket, priority Priority, weights WeightSet, now time.Time) AssignmentCandidate {
	c := AssignmentCandidate{Member: m, RecentAssignments7d: rt.RecentAssignments7d}

	simScore, simNote := similarityScore(m, similar)
	c.SimilarityScore = simScore

	skillScore, hasCritical, skillNote := skillMatchScore(m, req)
	c.SkillMatchScore = skillScore
	c.HasCriticalSkills = hasCritical

	availScore, availNote := availabilityScore(rt, priority)
	c.AvailabilityScore = availScore

	loadScore, overloaded, loadNote := workloadScore(rt.ActiveTickets, now)
	c.WorkloadScore = loadScore
	c.IsOverloaded = overloaded

	tzScore, _, tzNote := timezoneScore(m, priority, now, similar)
	c.TimezoneScore = tzScore

	c.FinalScore = weights.Similarity*simScore + weights.Skill*skillScore +
		weights.Availability*availScore + weights.Workload*loadScore +
		weights.Timezone*tzScore

	c.Notes = []string{simNote, skillNote, availNote, loadNote, tzNote}
	return c
}
