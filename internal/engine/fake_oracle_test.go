package engine

import (
	"context"
	"errors"
	"time"
)

// fakeOracle is a deterministic, in-memory Oracle used by engine tests so
// the suite never needs a live Postgres.
type fakeOracle struct {
	members  []TeamMember
	runtimes map[string]MemberRuntime
	req      SkillRequirements

	// failListMembers, when set, makes ListMembers return an error so
	// tests can exercise the oracle-unavailable escalation path.
	failListMembers bool
}

func (f *fakeOracle) ListMembers(ctx context.Context) ([]TeamMember, error) {
	if f.failListMembers {
		return nil, errors.New("connection refused")
	}
	return f.members, nil
}

func (f *fakeOracle) LoadRuntime(ctx context.Context, memberIDs []string, today time.Time) (map[string]MemberRuntime, error) {
	return f.runtimes, nil
}

func (f *fakeOracle) ExtractSkills(ctx context.Context, text, category string) (SkillRequirements, error) {
	return f.req, nil
}

func skillSet(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}
