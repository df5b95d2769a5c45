// Package similarity implements the similar-ticket provider: embedding
// generation (behind a declared interface) and a pgvector-backed nearest-
// neighbor search against historical resolved tickets.
package similarity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/northbridge-support/triage/internal/engine"
)

// Embedder turns ticket text into a fixed-length vector. Spec §1's
// Non-goals exclude embedding model choice — this is the seam a
// production deployment plugs a real model into.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Provider answers "which historical tickets look like this one" using
// pgvector's approximate nearest-neighbor search, grounded in the
// original source's Embeddings model (ivfflat index over a
// pgvector.sqlalchemy Vector(1536) column, CheckConstraint XOR between
// ticket_id/historical_ticket_id).
type Provider struct {
	pool     *pgxpool.Pool
	embedder Embedder
	topK     int
}

func NewProvider(pool *pgxpool.Pool, embedder Embedder, topK int) *Provider {
	if topK <= 0 {
		topK = 10
	}
	return &Provider{pool: pool, embedder: embedder, topK: topK}
}

// FindSimilar embeds the new ticket's text and returns the topK most
// similar historical tickets as engine.SimilarTicket values, with
// similarity_score derived from cosine distance (1 - distance).
func (p *Provider) FindSimilar(ctx context.Context, title, description string) ([]engine.SimilarTicket, error) {
	vec, err := p.embedder.Embed(ctx, title+"\n"+description)
	if err != nil {
		return nil, fmt.Errorf("embed ticket text: %w", err)
	}

	// assignee_email is denormalized onto historical_tickets (rather than
	// joined through team_members) so a ticket resolved by someone who
	// has since left the team still surfaces its past assignee (spec §9).
	rows, err := p.pool.Query(ctx, `
		SELECT h.priority, h.resolved_at, h.assignee_email,
			1 - (e.vector <=> $1) AS similarity
		FROM embeddings e
		JOIN historical_tickets h ON h.id = e.historical_ticket_id
		WHERE e.historical_ticket_id IS NOT NULL
		ORDER BY e.vector <=> $1
		LIMIT $2`,
		pgvector.NewVector(vec), p.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var out []engine.SimilarTicket
	for rows.Next() {
		var st engine.SimilarTicket
		var wirePriority string
		if err := rows.Scan(&wirePriority, &st.ResolvedAt, &st.AssigneeEmail, &st.SimilarityScore); err != nil {
			return nil, fmt.Errorf("scan similar ticket: %w", err)
		}
		st.Priority = engine.ParsePriority(wirePriority)
		out = append(out, st)
	}
	return out, rows.Err()
}
