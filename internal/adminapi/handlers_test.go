package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/northbridge-support/triage/internal/metrics"
	"github.com/northbridge-support/triage/internal/store"
)

type fakeStore struct {
	decisions map[string]*store.Decision
	stats     store.Stats
}

func (f *fakeStore) CreateTicket(ctx context.Context, t *store.Ticket) error { return nil }
func (f *fakeStore) GetTicket(ctx context.Context, id string) (*store.Ticket, error) {
	return nil, nil
}
func (f *fakeStore) UpdateTicketAssignment(ctx context.Context, ticketID, assigneeEmail string, assignedAt time.Time) error {
	return nil
}
func (f *fakeStore) ListActiveMembers(ctx context.Context) ([]store.TeamMember, error) {
	return nil, nil
}
func (f *fakeStore) GetActiveTicketsForMembers(ctx context.Context, memberIDs []string) (map[string][]store.Ticket, error) {
	return nil, nil
}
func (f *fakeStore) GetTimeOffForToday(ctx context.Context, memberIDs []string, today time.Time) (map[string]store.TimeOff, error) {
	return nil, nil
}
func (f *fakeStore) GetRecentAssignmentCounts(ctx context.Context, memberIDs []string, since time.Time) (map[string]int, error) {
	return nil, nil
}
func (f *fakeStore) GetHolidays(ctx context.Context, region string, year int) ([]store.Holiday, error) {
	return nil, nil
}
func (f *fakeStore) CreateDecision(ctx context.Context, d *store.Decision) error { return nil }
func (f *fakeStore) GetDecision(ctx context.Context, ticketID string) (*store.Decision, error) {
	return f.decisions[ticketID], nil
}
func (f *fakeStore) GetStats(ctx context.Context) (store.Stats, error) { return f.stats, nil }
func (f *fakeStore) Close()                                           {}

func TestExplainReturnsPersistedDecision(t *testing.T) {
	fs := &fakeStore{decisions: map[string]*store.Decision{
		"INC001": {ID: "d1", TicketID: "INC001", Type: "normal", PrimaryAssignee: "a@example.com"},
	}}
	h := NewHandler(fs)
	m := metrics.New()
	router := NewRouter(fs, m, "", discardLogger())
	_ = h

	req := httptest.NewRequest(http.MethodGet, "/admin/decisions/INC001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got store.Decision
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PrimaryAssignee != "a@example.com" {
		t.Errorf("expected primary assignee a@example.com, got %s", got.PrimaryAssignee)
	}
}

func TestExplainNotFound(t *testing.T) {
	fs := &fakeStore{decisions: map[string]*store.Decision{}}
	m := metrics.New()
	router := NewRouter(fs, m, "", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/decisions/MISSING", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStatsRequiresBearerTokenWhenConfigured(t *testing.T) {
	fs := &fakeStore{stats: store.Stats{Normal: 4}}
	m := metrics.New()
	router := NewRouter(fs, m, "secret-token", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req2.Header.Set("Authorization", "Bearer secret-token")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec2.Code)
	}
}
