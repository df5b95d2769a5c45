// Package store defines the persistence boundary for tickets, team
// members, skills, time-off/holiday records, and assignment decisions,
// plus a Postgres-backed implementation.
package store

import (
	"context"
	"time"
)

// TicketStatus mirrors the wire-level status vocabulary stored for
// historical/active tickets before the engine canonicalizes it.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "Open"
	StatusInProgress TicketStatus = "InProgress"
	StatusPending    TicketStatus = "Pending"
	StatusBlocked    TicketStatus = "Blocked"
	StatusWaiting    TicketStatus = "Waiting"
	StatusClosed     TicketStatus = "Closed"
	StatusResolved   TicketStatus = "Resolved"
)

// Ticket is a persisted incident/task record, active or historical.
type Ticket struct {
	ID          string
	ExternalID  string // e.g. the ServiceNow sys_id/number
	Title       string
	Description string
	Category    string
	Priority    string // wire-format, canonicalized by the engine on read
	Status      TicketStatus
	CallerID    string
	CreatedAt   time.Time
	ResolvedAt  *time.Time

	AssignedAgentEmail string
	AssignedAt         *time.Time
}

// TeamMember is a persisted operator record.
type TeamMember struct {
	ID       string
	Email    string
	Name     string
	Timezone string
	Role     string
	Skills   []string
}

// TimeOff is a PTO interval for a member.
type TimeOff struct {
	MemberID  string
	StartDate time.Time
	EndDate   time.Time
	Type      string
}

// Holiday is a calendar holiday record scoped to a region or GLOBAL.
type Holiday struct {
	Title  string
	Date   time.Time
	Region string // IANA-country-ish code, or "GLOBAL"
	Year   int
}

// Decision is a persisted AssignmentDecision, including the top-3
// candidate breakdown, grounded in the original source's
// TicketAssignment model and _decision_to_dict serialization.
type Decision struct {
	ID                string               `json:"id"`
	TicketID          string               `json:"ticket_id"`
	Type              string               `json:"type"`
	PrimaryAssignee   string               `json:"primary_assignee"`
	SecondaryAssignee string               `json:"secondary_assignee,omitempty"`
	Confidence        float64              `json:"confidence"`
	Reasoning         []string             `json:"reasoning"`
	RulesApplied      []string             `json:"rules_applied"`
	TopCandidates     []TopCandidateRecord `json:"top_candidates"`
	AssignedAt        time.Time            `json:"assigned_at"`
}

// TopCandidateRecord is one entry of a persisted decision's top-3 list.
type TopCandidateRecord struct {
	Email             string  `json:"email"`
	FinalScore        float64 `json:"final_score"`
	AvailabilityScore float64 `json:"availability_score"`
	SkillMatchScore   float64 `json:"skill_match_score"`
}

// Stats summarizes decisions by type, used by the admin API.
type Stats struct {
	Normal        int `json:"normal"`
	Collaborative int `json:"collaborative"`
	HumanReview   int `json:"human_review"`
	Escalation    int `json:"escalation"`
}

// Store is the full persistence boundary used by the processing worker
// and the admin API.
type Store interface {
	CreateTicket(ctx context.Context, t *Ticket) error
	GetTicket(ctx context.Context, id string) (*Ticket, error)
	UpdateTicketAssignment(ctx context.Context, ticketID, assigneeEmail string, assignedAt time.Time) error

	ListActiveMembers(ctx context.Context) ([]TeamMember, error)
	GetActiveTicketsForMembers(ctx context.Context, memberIDs []string) (map[string][]Ticket, error)
	GetTimeOffForToday(ctx context.Context, memberIDs []string, today time.Time) (map[string]TimeOff, error)
	GetRecentAssignmentCounts(ctx context.Context, memberIDs []string, since time.Time) (map[string]int, error)
	GetHolidays(ctx context.Context, region string, year int) ([]Holiday, error)

	CreateDecision(ctx context.Context, d *Decision) error
	GetDecision(ctx context.Context, ticketID string) (*Decision, error)
	GetStats(ctx context.Context) (Stats, error)

	Close()
}
