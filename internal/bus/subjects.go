package bus

const (
	StreamName   = "TRIAGE"
	StreamMaxAge = "168h" // 7 days

	// SubjectTicketIngested is published by the gateway for every
	// accepted webhook event.
	SubjectTicketIngested = "triage.ticket.ingested"
)

// SubjectDecisionEmitted builds the per-ticket subject the worker
// publishes to once engine.Assign returns a decision.
func SubjectDecisionEmitted(ticketID string) string {
	return "triage.decision." + ticketID
}
