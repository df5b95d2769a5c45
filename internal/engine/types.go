// Package engine implements the multi-factor ticket assignment algorithm:
// candidate scoring, priority-conditioned weighting, business-rule
// arbitration, and confidence-gated human review escalation.
package engine

import (
	"strings"
	"time"
)

// Priority is the canonical, internal priority vocabulary. Wire-format
// priorities ("1 - Critical" .. "5 - Planning") are canonicalized to this
// set at the edge; the engine itself never sees the wire strings.
type Priority string

const (
	Critical Priority = "Critical"
	High     Priority = "High"
	Medium   Priority = "Medium"
	Low      Priority = "Low"
)

// ParsePriority canonicalizes a wire-format priority string. Unknown or
// malformed values fall back to Medium (spec §7 InputInvalid: the engine
// downgrades, it never rejects).
func ParsePriority(wire string) Priority {
	switch strings.TrimSpace(wire) {
	case "1 - Critical", "Critical", "critical":
		return Critical
	case "2 - High", "High", "high":
		return High
	case "3 - Medium", "Medium", "medium":
		return Medium
	case "4 - Low", "Low", "low":
		return Low
	case "5 - Planning", "Planning", "planning":
		return Low
	default:
		return Medium
	}
}

// TicketStatus is the canonical status vocabulary for a member's active
// tickets (spec §9 open question, resolved: title-case internal
// vocabulary, parsed leniently from whatever casing the oracle hands
// back).
type TicketStatus string

const (
	StatusOpen        TicketStatus = "Open"
	StatusInProgress  TicketStatus = "InProgress"
	StatusPending     TicketStatus = "Pending"
	StatusBlocked     TicketStatus = "Blocked"
	StatusWaiting     TicketStatus = "Waiting"
	StatusUnknown     TicketStatus = "Unknown"
)

// ParseTicketStatus canonicalizes a status value from any casing the
// upstream system uses ("in_progress", "IN_PROGRESS", "In Progress") into
// the internal vocabulary.
func ParseTicketStatus(raw string) TicketStatus {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", ""))
	norm = strings.ReplaceAll(norm, " ", "")
	switch norm {
	case "open":
		return StatusOpen
	case "inprogress":
		return StatusInProgress
	case "pending":
		return StatusPending
	case "blocked":
		return StatusBlocked
	case "waiting":
		return StatusWaiting
	default:
		return StatusUnknown
	}
}

// Ticket is the new ticket being routed.
type Ticket struct {
	TicketID    string
	Title       string
	Description string
	Category    string
	Priority    Priority
}

// SimilarTicket is a prior resolved ticket the similar-ticket provider has
// judged to be related to the new one.
type SimilarTicket struct {
	SimilarityScore float64
	AssigneeEmail   string
	Priority        Priority
	ResolvedAt      time.Time
}

// TeamMember is an active operator eligible for assignment.
type TeamMember struct {
	ID        string
	Email     string
	Name      string
	Timezone  string // IANA zone name, e.g. "Asia/Kolkata"
	Role      string
	Skills    map[string]struct{} // normalized lowercase, trimmed
}

// HasSkill reports whether the member declares the given skill
// (case-insensitively; callers should already pass normalized input).
func (m TeamMember) HasSkill(skill string) bool {
	_, ok := m.Skills[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}

// ActiveTicket is one item of a member's current workload.
type ActiveTicket struct {
	Priority  Priority
	Status    TicketStatus
	CreatedAt time.Time
}

// MemberRuntime is the derived, per-assignment-call snapshot of a
// member's current state, fetched fresh by the oracle layer on every
// Assign call.
type MemberRuntime struct {
	OnPTO                bool
	RegionalHoliday      bool
	GlobalHoliday        bool
	ActiveTickets        []ActiveTicket
	RecentAssignments7d  int
}

// SkillRequirements are the three skill buckets extracted from a ticket's
// text and category, once per Assign call (not once per candidate).
type SkillRequirements struct {
	Critical     []string
	Important    []string
	NiceToHave   []string
}

// AssignmentCandidate is the fully-scored evaluation of one team member
// against one ticket.
type AssignmentCandidate struct {
	Member TeamMember

	SimilarityScore   float64
	SkillMatchScore   float64
	AvailabilityScore float64
	WorkloadScore     float64
	TimezoneScore     float64

	FinalScore float64

	IsOverloaded      bool
	HasCriticalSkills bool

	RecentAssignments7d int

	Notes []string
}

// Trigger describes a condition that routed a ticket to human review or
// escalation instead of a normal assignment.
type Trigger struct {
	Reason           string
	Severity         string // "critical" | "high" | "medium"
	RecommendedAction string
	Timeout          time.Duration
}

// DecisionType classifies the outcome of an Assign call.
type DecisionType string

const (
	DecisionNormal       DecisionType = "normal"
	DecisionCollaborative DecisionType = "collaborative"
	DecisionHumanReview  DecisionType = "human_review"
	DecisionEscalation   DecisionType = "escalation"
)

// TopCandidate is a trimmed view of a ranked candidate carried in the
// decision's top_candidates list.
type TopCandidate struct {
	Email             string
	FinalScore        float64
	AvailabilityScore float64
	SkillMatchScore   float64
}

// AssignmentDecision is the output of Assign: either a normal/collaborative
// assignment, or a human-review/escalation outcome with no assignee.
type AssignmentDecision struct {
	TicketID          string
	Type              DecisionType
	PrimaryAssignee   string // email, empty for human_review/escalation
	SecondaryAssignee string // reserved extension point, optional

	Confidence float64

	Reasoning           []string
	RulesApplied        []string
	HumanReviewTriggers []Trigger
	TopCandidates       []TopCandidate

	AssignedAt time.Time
}
