// Package worker implements the processing worker: consumes ingested
// ticket events off the bus, persists the ticket, runs similarity
// search, invokes the assignment engine, persists the decision, and
// emits a decision-emitted event (spec §1, §2).
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/northbridge-support/triage/internal/bus"
	"github.com/northbridge-support/triage/internal/engine"
	"github.com/northbridge-support/triage/internal/store"
)

// SimilarityProvider supplies prior resolved tickets related to a new
// one (internal/similarity.Provider in production).
type SimilarityProvider interface {
	FindSimilar(ctx context.Context, title, description string) ([]engine.SimilarTicket, error)
}

// Worker wires together the bus subscription and the per-ticket
// processing pipeline.
type Worker struct {
	bus        bus.Client
	store      store.Store
	similarity SimilarityProvider
	assign     *engine.Engine
	logger     *slog.Logger
	// deadline bounds a single ticket's processing; on expiry the
	// in-flight assignment is abandoned (grounded in donor
	// internal/broker/timeout.go's deadline handling). The bus
	// subscription does not acknowledge messages, so a ticket whose
	// processing fails or times out is logged and not processed again.
	deadline time.Duration
}

func New(b bus.Client, s store.Store, sim SimilarityProvider, eng *engine.Engine, logger *slog.Logger, deadline time.Duration) *Worker {
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	return &Worker{bus: b, store: s, similarity: sim, assign: eng, logger: logger, deadline: deadline}
}

// Start subscribes to the ticket-ingested subject.
func (w *Worker) Start() error {
	return w.bus.Subscribe(bus.SubjectTicketIngested, w.handle)
}

func (w *Worker) handle(subject string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), w.deadline)
	defer cancel()

	var event bus.TicketIngestedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("failed to unmarshal ticket ingested event", "error", err)
		return
	}

	if err := w.process(ctx, event); err != nil {
		w.logger.Error("failed to process ticket", "webhook_id", event.WebhookID, "ticket_id", event.TicketID, "error", err)
		return
	}
}

func (w *Worker) process(ctx context.Context, event bus.TicketIngestedEvent) error {
	priority := engine.ParsePriority(event.Priority)

	ticket := &store.Ticket{
		ID:          event.TicketID,
		ExternalID:  event.TicketID,
		Title:       event.Title,
		Description: event.Description,
		Category:    event.Category,
		Priority:    event.Priority,
		Status:      store.TicketStatus(event.Status),
		CallerID:    event.CallerID,
		CreatedAt:   time.Now().UTC(),
	}
	if event.CreatedAt != nil {
		ticket.CreatedAt = *event.CreatedAt
	}
	if err := w.store.CreateTicket(ctx, ticket); err != nil {
		return err
	}

	similar, err := w.similarity.FindSimilar(ctx, event.Title, event.Description)
	if err != nil {
		return err
	}

	decision, err := w.assign.Assign(ctx, engine.Ticket{
		TicketID:    event.TicketID,
		Title:       event.Title,
		Description: event.Description,
		Category:    event.Category,
		Priority:    priority,
	}, similar)
	if err != nil {
		return err
	}

	if err := w.persistDecision(ctx, decision); err != nil {
		return err
	}

	if decision.Type == engine.DecisionNormal || decision.Type == engine.DecisionCollaborative {
		if err := w.store.UpdateTicketAssignment(ctx, event.TicketID, decision.PrimaryAssignee, decision.AssignedAt); err != nil {
			w.logger.Warn("failed to update ticket assignment", "ticket_id", event.TicketID, "error", err)
		}
	}

	return w.bus.Publish(bus.SubjectDecisionEmitted(event.TicketID), bus.DecisionEmittedEvent{
		TicketID:        decision.TicketID,
		Type:            string(decision.Type),
		PrimaryAssignee: decision.PrimaryAssignee,
		Confidence:      decision.Confidence,
		RulesApplied:    decision.RulesApplied,
	})
}

func (w *Worker) persistDecision(ctx context.Context, d engine.AssignmentDecision) error {
	top := make([]store.TopCandidateRecord, len(d.TopCandidates))
	for i, c := range d.TopCandidates {
		top[i] = store.TopCandidateRecord{
			Email:             c.Email,
			FinalScore:        c.FinalScore,
			AvailabilityScore: c.AvailabilityScore,
			SkillMatchScore:   c.SkillMatchScore,
		}
	}
	return w.store.CreateDecision(ctx, &store.Decision{
		ID:                uuid.NewString(),
		TicketID:          d.TicketID,
		Type:              string(d.Type),
		PrimaryAssignee:   d.PrimaryAssignee,
		SecondaryAssignee: d.SecondaryAssignee,
		Confidence:        d.Confidence,
		Reasoning:         d.Reasoning,
		RulesApplied:      d.RulesApplied,
		TopCandidates:     top,
		AssignedAt:        d.AssignedAt,
	})
}
