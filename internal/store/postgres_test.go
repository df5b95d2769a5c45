package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullString(t *testing.T) {
	require.False(t, nullString("").Valid)
	ns := nullString("a@example.com")
	require.True(t, ns.Valid)
	require.Equal(t, "a@example.com", ns.String)
}

func TestTopCandidateRecordJSONRoundTrip(t *testing.T) {
	in := []TopCandidateRecord{
		{Email: "a@example.com", FinalScore: 0.91, AvailabilityScore: 1.0, SkillMatchScore: 0.8},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out []TopCandidateRecord
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in, out)
}
