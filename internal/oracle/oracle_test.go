package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northbridge-support/triage/internal/store"
)

// fakeStore implements store.Store with in-memory fixtures for
// oracle-level tests.
type fakeStore struct {
	members       []store.TeamMember
	activeTickets map[string][]store.Ticket
	timeOff       map[string]store.TimeOff
	recentCounts  map[string]int
	holidays      []store.Holiday
	listCalls     int
	holidayCalls  int
}

func (f *fakeStore) CreateTicket(ctx context.Context, t *store.Ticket) error { return nil }
func (f *fakeStore) GetTicket(ctx context.Context, id string) (*store.Ticket, error) {
	return nil, nil
}
func (f *fakeStore) UpdateTicketAssignment(ctx context.Context, ticketID, assigneeEmail string, assignedAt time.Time) error {
	return nil
}
func (f *fakeStore) ListActiveMembers(ctx context.Context) ([]store.TeamMember, error) {
	f.listCalls++
	return f.members, nil
}
func (f *fakeStore) GetActiveTicketsForMembers(ctx context.Context, memberIDs []string) (map[string][]store.Ticket, error) {
	return f.activeTickets, nil
}
func (f *fakeStore) GetTimeOffForToday(ctx context.Context, memberIDs []string, today time.Time) (map[string]store.TimeOff, error) {
	return f.timeOff, nil
}
func (f *fakeStore) GetRecentAssignmentCounts(ctx context.Context, memberIDs []string, since time.Time) (map[string]int, error) {
	return f.recentCounts, nil
}
func (f *fakeStore) GetHolidays(ctx context.Context, region string, year int) ([]store.Holiday, error) {
	f.holidayCalls++
	return f.holidays, nil
}
func (f *fakeStore) CreateDecision(ctx context.Context, d *store.Decision) error { return nil }
func (f *fakeStore) GetDecision(ctx context.Context, ticketID string) (*store.Decision, error) {
	return nil, nil
}
func (f *fakeStore) GetStats(ctx context.Context) (store.Stats, error) { return store.Stats{}, nil }
func (f *fakeStore) Close()                                           {}

func TestTeamDirectoryCachesWithinTTL(t *testing.T) {
	fs := &fakeStore{members: []store.TeamMember{{ID: "a", Email: "a@example.com"}}}
	dir := NewTeamDirectory(fs, time.Minute)

	_, err := dir.List(context.Background())
	require.NoError(t, err)
	_, err = dir.List(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, fs.listCalls)
}

func TestTeamDirectoryInvalidateForcesRefresh(t *testing.T) {
	fs := &fakeStore{members: []store.TeamMember{{ID: "a"}}}
	dir := NewTeamDirectory(fs, time.Minute)

	_, _ = dir.List(context.Background())
	dir.Invalidate()
	_, _ = dir.List(context.Background())

	require.Equal(t, 2, fs.listCalls)
}

func TestHolidayCacheRegionalAndGlobal(t *testing.T) {
	today := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)
	fs := &fakeStore{holidays: []store.Holiday{
		{Title: "Republic Day", Date: today, Region: "IN", Year: 2026},
		{Title: "New Year", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Region: "GLOBAL", Year: 2026},
	}}
	cache := NewHolidayCache(fs)

	regional, global, err := cache.Check(context.Background(), "IN", today)
	require.NoError(t, err)
	require.True(t, regional)
	require.False(t, global)

	// Second call for the same (region, year) should hit the cache, not
	// the store.
	_, _, err = cache.Check(context.Background(), "IN", today)
	require.NoError(t, err)
	require.Equal(t, 1, fs.holidayCalls)
}

func TestDefaultExtractorCategoryAndTextKeywords(t *testing.T) {
	e := DefaultExtractor{}
	req, err := e.Extract(context.Background(), "Customer cannot connect over VPN, firewall blocking traffic", "network")
	require.NoError(t, err)
	require.Contains(t, req.Critical, "networking")
	require.Contains(t, req.Critical, "vpn")
	require.Contains(t, req.Critical, "firewall")
}

func TestDefaultExtractorNoCategoryMatch(t *testing.T) {
	e := DefaultExtractor{}
	req, err := e.Extract(context.Background(), "generic request with no keywords", "misc")
	require.NoError(t, err)
	require.Empty(t, req.Critical)
}
