package engine

import (
	"fmt"
	"math"
)

// similarityScore implements spec §4.3: how strongly this member's own
// track record on similar past tickets supports assigning them this one.
func similarityScore(member TeamMember, similar []SimilarTicket) (float64, string) {
	var matched []SimilarTicket
	for _, s := range similar {
		if s.AssigneeEmail == member.Email {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return 0, "No prior similar tickets resolved by this member"
	}

	var sum float64
	for _, s := range matched {
		sum += s.SimilarityScore
	}
	n := float64(len(matched))
	avgSim := sum / n

	expertise := math.Min(1.0, math.Log(n+1)/math.Log(6))
	score := math.Min(1.0, 0.3*expertise+0.7*avgSim)
	return score, fmt.Sprintf("%d prior similar tickets, avg similarity %.2f", len(matched), avgSim)
}
