// Package oracle implements the engine.Oracle data-fetch boundary:
// batched reads of team members, workload, PTO/holiday state, and skill
// extraction, behind the four-logical-round-trip contract of spec §5.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/northbridge-support/triage/internal/clock"
	"github.com/northbridge-support/triage/internal/engine"
	"github.com/northbridge-support/triage/internal/store"
)

// Oracle implements engine.Oracle over a store.Store, a cached team
// directory, a holiday cache, and a pluggable SkillExtractor.
type Oracle struct {
	db        store.Store
	clock     clock.Clock
	directory *TeamDirectory
	holidays  *HolidayCache
	extractor SkillExtractor
}

// New builds an Oracle. extractor may be nil to use the default
// keyword-based extractor.
func New(db store.Store, c clock.Clock, extractor SkillExtractor) *Oracle {
	if extractor == nil {
		extractor = DefaultExtractor{}
	}
	return &Oracle{
		db:        db,
		clock:     c,
		directory: NewTeamDirectory(db, 30*time.Second),
		holidays:  NewHolidayCache(db),
		extractor: extractor,
	}
}

// ListMembers implements engine.Oracle: one logical round-trip, served
// from the team directory's short-TTL cache so bursts of Assign calls
// within the same window don't re-hit Postgres.
func (o *Oracle) ListMembers(ctx context.Context) ([]engine.TeamMember, error) {
	members, err := o.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]engine.TeamMember, len(members))
	for i, m := range members {
		out[i] = toEngineMember(m)
	}
	return out, nil
}

// LoadRuntime implements engine.Oracle: three logical round-trips
// (active tickets, PTO, recent-assignment counts) plus a cached holiday
// lookup, batched across all member IDs in a single call each — never
// per-candidate.
func (o *Oracle) LoadRuntime(ctx context.Context, memberIDs []string, today time.Time) (map[string]engine.MemberRuntime, error) {
	members, err := o.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members for runtime: %w", err)
	}
	byID := make(map[string]store.TeamMember, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	activeTickets, err := o.db.GetActiveTicketsForMembers(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("load active tickets: %w", err)
	}
	timeOff, err := o.db.GetTimeOffForToday(ctx, memberIDs, today)
	if err != nil {
		return nil, fmt.Errorf("load time off: %w", err)
	}
	since := today.AddDate(0, 0, -7)
	recent, err := o.db.GetRecentAssignmentCounts(ctx, memberIDs, since)
	if err != nil {
		return nil, fmt.Errorf("load recent assignment counts: %w", err)
	}

	out := make(map[string]engine.MemberRuntime, len(memberIDs))
	for _, id := range memberIDs {
		m, ok := byID[id]
		if !ok {
			continue
		}
		_, onPTO := timeOff[id]

		regionalHoliday, globalHoliday, err := o.holidays.Check(ctx, regionForTimezone(m.Timezone), today)
		if err != nil {
			return nil, fmt.Errorf("check holidays: %w", err)
		}

		var tickets []engine.ActiveTicket
		for _, t := range activeTickets[m.Email] {
			tickets = append(tickets, engine.ActiveTicket{
				Priority:  engine.ParsePriority(t.Priority),
				Status:    engine.ParseTicketStatus(string(t.Status)),
				CreatedAt: t.CreatedAt,
			})
		}

		out[id] = engine.MemberRuntime{
			OnPTO:               onPTO,
			RegionalHoliday:     regionalHoliday,
			GlobalHoliday:       globalHoliday,
			ActiveTickets:       tickets,
			RecentAssignments7d: recent[id],
		}
	}
	return out, nil
}

// ExtractSkills implements engine.Oracle, delegating to the pluggable
// SkillExtractor. Called once per Assign call.
func (o *Oracle) ExtractSkills(ctx context.Context, text, category string) (engine.SkillRequirements, error) {
	return o.extractor.Extract(ctx, text, category)
}

func toEngineMember(m store.TeamMember) engine.TeamMember {
	skills := make(map[string]struct{}, len(m.Skills))
	for _, s := range m.Skills {
		skills[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	return engine.TeamMember{
		ID:       m.ID,
		Email:    m.Email,
		Name:     m.Name,
		Timezone: m.Timezone,
		Role:     m.Role,
		Skills:   skills,
	}
}

// regionForTimezone maps a member's IANA timezone to the coarse holiday
// region vocabulary (spec §4.7's Asia/America prefix classification,
// reused here since the holiday regions follow the same IST/US split).
func regionForTimezone(tz string) string {
	switch {
	case strings.HasPrefix(tz, "Asia/"):
		return "IN"
	case strings.HasPrefix(tz, "America/"), strings.HasPrefix(tz, "US/"):
		return "US"
	default:
		return "OTHER"
	}
}
