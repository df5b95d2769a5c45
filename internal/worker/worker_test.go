package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/northbridge-support/triage/internal/bus"
	"github.com/northbridge-support/triage/internal/clock"
	"github.com/northbridge-support/triage/internal/engine"
	"github.com/northbridge-support/triage/internal/store"
)

type fakeBus struct {
	published map[string][]byte
}

func (f *fakeBus) Publish(subject string, data interface{}) error {
	b, _ := json.Marshal(data)
	if f.published == nil {
		f.published = make(map[string][]byte)
	}
	f.published[subject] = b
	return nil
}
func (f *fakeBus) Subscribe(subject string, handler func(string, []byte)) error { return nil }
func (f *fakeBus) Close()                                                      {}

type fakeStore struct {
	tickets          map[string]*store.Ticket
	decisions        []*store.Decision
	assignedEmail    string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tickets: make(map[string]*store.Ticket)}
}
func (f *fakeStore) CreateTicket(ctx context.Context, t *store.Ticket) error {
	f.tickets[t.ID] = t
	return nil
}
func (f *fakeStore) GetTicket(ctx context.Context, id string) (*store.Ticket, error) {
	return f.tickets[id], nil
}
func (f *fakeStore) UpdateTicketAssignment(ctx context.Context, ticketID, assigneeEmail string, assignedAt time.Time) error {
	f.assignedEmail = assigneeEmail
	return nil
}
func (f *fakeStore) ListActiveMembers(ctx context.Context) ([]store.TeamMember, error) { return nil, nil }
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
func (f *fakeStore) CreateDecision(ctx context.Context, d *store.Decision) error {
	f.decisions = append(f.decisions, d)
	return nil
}
func (f *fakeStore) GetDecision(ctx context.Context, ticketID string) (*store.Decision, error) {
	return nil, nil
}
func (f *fakeStore) GetStats(ctx context.Context) (store.Stats, error) { return store.Stats{}, nil }
func (f *fakeStore) Close()                                           {}

type fakeSimilarity struct {
	tickets []engine.SimilarTicket
}

func (f *fakeSimilarity) FindSimilar(ctx context.Context, title, description string) ([]engine.SimilarTicket, error) {
	return f.tickets, nil
}

type fakeOracle struct{}

func (fakeOracle) ListMembers(ctx context.Context) ([]engine.TeamMember, error) {
	return []engine.TeamMember{{ID: "a", Email: "a@example.com", Timezone: "Asia/Kolkata", Skills: map[string]struct{}{}}}, nil
}
func (fakeOracle) LoadRuntime(ctx context.Context, memberIDs []string, today time.Time) (map[string]engine.MemberRuntime, error) {
	return map[string]engine.MemberRuntime{"a": {}}, nil
}
func (fakeOracle) ExtractSkills(ctx context.Context, text, category string) (engine.SkillRequirements, error) {
	return engine.SkillRequirements{}, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestWorkerProcessEndToEnd(t *testing.T) {
	fb := &fakeBus{}
	fs := newFakeStore()
	sim := &fakeSimilarity{tickets: []engine.SimilarTicket{{SimilarityScore: 0.9, AssigneeEmail: "a@example.com"}}}
	eng := engine.New(fakeOracle{}, clock.NewFixed(8, 0), nil, discardLogger())
	w := New(fb, fs, sim, eng, discardLogger(), 5*time.Second)

	event := bus.TicketIngestedEvent{
		WebhookID: "wh1", EventType: "incident.created", TicketID: "INC001",
		Title: "VPN down", Priority: "2 - High",
	}
	require.NoError(t, w.process(context.Background(), event))

	require.Len(t, fs.decisions, 1)
	require.Contains(t, fs.tickets, "INC001")
	_, published := fb.published[bus.SubjectDecisionEmitted("INC001")]
	require.True(t, published)
}
