package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx-backed implementation of Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Pool exposes the underlying connection pool so other components
// (the similarity provider's pgvector queries) can share it instead of
// opening a second connection to the same database.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

const ticketColumns = `id, external_id, title, description, category, priority,
	status, caller_id, created_at, resolved_at, assigned_agent_email, assigned_at`

func (s *PostgresStore) CreateTicket(ctx context.Context, t *Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tickets (id, external_id, title, description, category, priority,
			status, caller_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.ExternalID, t.Title, t.Description, t.Category, t.Priority,
		string(t.Status), t.CallerID, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (s *PostgresStore) UpdateTicketAssignment(ctx context.Context, ticketID, assigneeEmail string, assignedAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tickets SET assigned_agent_email = $1, assigned_at = $2 WHERE id = $3`,
		assigneeEmail, assignedAt, ticketID)
	if err != nil {
		return fmt.Errorf("update ticket assignment: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*Ticket, error) {
	var t Ticket
	var status string
	var resolvedAt, assignedAt sql.NullTime
	var assignedEmail sql.NullString
	if err := row.Scan(&t.ID, &t.ExternalID, &t.Title, &t.Description, &t.Category,
		&t.Priority, &status, &t.CallerID, &t.CreatedAt, &resolvedAt, &assignedEmail, &assignedAt); err != nil {
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	t.Status = TicketStatus(status)
	if resolvedAt.Valid {
		t.ResolvedAt = &resolvedAt.Time
	}
	if assignedAt.Valid {
		t.AssignedAt = &assignedAt.Time
	}
	t.AssignedAgentEmail = assignedEmail.String
	return &t, nil
}

// ListActiveMembers is the oracle's "active operators with their skills"
// round-trip (spec §5a): one query joining members to their skills.
func (s *PostgresStore) ListActiveMembers(ctx context.Context) ([]TeamMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.email, m.name, m.timezone, m.role,
			COALESCE(array_agg(sk.name) FILTER (WHERE sk.name IS NOT NULL), '{}')
		FROM team_members m
		LEFT JOIN team_member_skills tms ON tms.member_id = m.id
		LEFT JOIN skills sk ON sk.id = tms.skill_id
		WHERE m.active
		GROUP BY m.id, m.email, m.name, m.timezone, m.role`)
	if err != nil {
		return nil, fmt.Errorf("list active members: %w", err)
	}
	defer rows.Close()

	var members []TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.ID, &m.Email, &m.Name, &m.Timezone, &m.Role, &m.Skills); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetActiveTicketsForMembers is the oracle's "active tickets for those
// operators" round-trip (spec §5b): a single query across all candidate
// member IDs, never N+1.
func (s *PostgresStore) GetActiveTicketsForMembers(ctx context.Context, memberIDs []string) (map[string][]Ticket, error) {
	result := make(map[string][]Ticket, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE assigned_agent_email = ANY(
			SELECT email FROM team_members WHERE id = ANY($1)
		) AND status NOT IN ('Closed', 'Resolved')`, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("get active tickets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result[t.AssignedAgentEmail] = append(result[t.AssignedAgentEmail], *t)
	}
	return result, rows.Err()
}

// GetTimeOffForToday is the oracle's PTO round-trip (spec §5c).
func (s *PostgresStore) GetTimeOffForToday(ctx context.Context, memberIDs []string, today time.Time) (map[string]TimeOff, error) {
	result := make(map[string]TimeOff, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT member_id, start_date, end_date, type
		FROM time_offs
		WHERE member_id = ANY($1) AND start_date <= $2 AND end_date >= $2`,
		memberIDs, today)
	if err != nil {
		return nil, fmt.Errorf("get time off: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var to TimeOff
		if err := rows.Scan(&to.MemberID, &to.StartDate, &to.EndDate, &to.Type); err != nil {
			return nil, fmt.Errorf("scan time off: %w", err)
		}
		result[to.MemberID] = to
	}
	return result, rows.Err()
}

// GetRecentAssignmentCounts is the oracle's 7-day assignment-count
// round-trip (spec §5d).
func (s *PostgresStore) GetRecentAssignmentCounts(ctx context.Context, memberIDs []string, since time.Time) (map[string]int, error) {
	result := make(map[string]int, len(memberIDs))
	if len(memberIDs) == 0 {
		return result, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, COUNT(t.id)
		FROM team_members m
		LEFT JOIN tickets t ON t.assigned_agent_email = m.email AND t.created_at >= $2
		WHERE m.id = ANY($1)
		GROUP BY m.id`, memberIDs, since)
	if err != nil {
		return nil, fmt.Errorf("get recent assignment counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan assignment count: %w", err)
		}
		result[id] = count
	}
	return result, rows.Err()
}

// GetHolidays may be served from an in-memory cache keyed by (region,
// year) per spec §5; this is the cache-miss path.
func (s *PostgresStore) GetHolidays(ctx context.Context, region string, year int) ([]Holiday, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT title, date, region, year FROM holidays
		WHERE (region = $1 OR region = 'GLOBAL') AND year = $2`, region, year)
	if err != nil {
		return nil, fmt.Errorf("get holidays: %w", err)
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Title, &h.Date, &h.Region, &h.Year); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *PostgresStore) CreateDecision(ctx context.Context, d *Decision) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	reasoningJSON, _ := json.Marshal(d.Reasoning)
	rulesJSON, _ := json.Marshal(d.RulesApplied)
	topJSON, _ := json.Marshal(d.TopCandidates)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO assignment_decisions
			(id, ticket_id, type, primary_assignee, secondary_assignee,
			 confidence, reasoning, rules_applied, top_candidates, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.TicketID, d.Type, nullString(d.PrimaryAssignee), nullString(d.SecondaryAssignee),
		d.Confidence, reasoningJSON, rulesJSON, topJSON, d.AssignedAt)
	if err != nil {
		return fmt.Errorf("create decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDecision(ctx context.Context, ticketID string) (*Decision, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, ticket_id, type, primary_assignee, secondary_assignee,
			confidence, reasoning, rules_applied, top_candidates, assigned_at
		FROM assignment_decisions WHERE ticket_id = $1
		ORDER BY assigned_at DESC LIMIT 1`, ticketID)

	var d Decision
	var primary, secondary sql.NullString
	var reasoningJSON, rulesJSON, topJSON []byte
	if err := row.Scan(&d.ID, &d.TicketID, &d.Type, &primary, &secondary,
		&d.Confidence, &reasoningJSON, &rulesJSON, &topJSON, &d.AssignedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}
	d.PrimaryAssignee = primary.String
	d.SecondaryAssignee = secondary.String
	_ = json.Unmarshal(reasoningJSON, &d.Reasoning)
	_ = json.Unmarshal(rulesJSON, &d.RulesApplied)
	_ = json.Unmarshal(topJSON, &d.TopCandidates)
	return &d, nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	rows, err := s.pool.Query(ctx, `SELECT type, COUNT(*) FROM assignment_decisions GROUP BY type`)
	if err != nil {
		return stats, fmt.Errorf("get stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		var count int
		if err := rows.Scan(&t, &count); err != nil {
			return stats, fmt.Errorf("scan stats: %w", err)
		}
		switch t {
		case "normal":
			stats.Normal = count
		case "collaborative":
			stats.Collaborative = count
		case "human_review":
			stats.HumanReview = count
		case "escalation":
			stats.Escalation = count
		}
	}
	return stats, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
