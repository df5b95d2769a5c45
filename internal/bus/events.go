package bus

import "time"

// TicketIngestedEvent is the gateway→worker envelope, carrying the
// webhook payload verbatim plus a correlation ID (spec §6's "Attribute
// webhook_id correlates gateway and worker logs").
type TicketIngestedEvent struct {
	WebhookID   string            `json:"webhook_id"`
	EventType   string            `json:"event_type"`
	TicketID    string            `json:"ticket_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status,omitempty"`
	CallerID    string            `json:"caller_id,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Category    string            `json:"category,omitempty"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DecisionEmittedEvent is published by the worker once an
// AssignmentDecision has been computed and persisted.
type DecisionEmittedEvent struct {
	TicketID        string   `json:"ticket_id"`
	Type            string   `json:"type"`
	PrimaryAssignee string   `json:"primary_assignee,omitempty"`
	Confidence      float64  `json:"confidence"`
	RulesApplied    []string `json:"rules_applied,omitempty"`
}
