package engine

import "sort"

// arbitrationResult is the outcome of applying the business rules to a
// ranked candidate list: either a selected index into ranked, or an
// escalation trigger with no selection.
type arbitrationResult struct {
	selected     int
	escalate     *Trigger
	rulesApplied []string
	reasoning    []string
}

// applyBusinessRules implements spec §4.8, rules R1-R4 in order (R5,
// the confidence gate, is applied by the caller after this returns,
// since it needs the final selected candidate's confidence).
func applyBusinessRules(ranked []AssignmentCandidate, ticket Ticket, utcHour float64) arbitrationResult {
	res := arbitrationResult{selected: 0}

	// R1 — Overload prevention.
	top := ranked[0]
	if top.IsOverloaded || top.WorkloadScore < 0.3 {
		found := -1
		for i := 1; i < len(ranked); i++ {
			c := ranked[i]
			if !c.IsOverloaded && c.AvailabilityScore > 0 && c.WorkloadScore >= 0.5 {
				found = i
				break
			}
		}
		if found == -1 {
			t := Trigger{Reason: "team_at_capacity", Severity: "critical", RecommendedAction: "immediate_manager_escalation"}
			res.escalate = &t
			return res
		}
		res.selected = found
		res.rulesApplied = append(res.rulesApplied, "overload_prevention")
		res.reasoning = append(res.reasoning, "Top candidate was overloaded or low-workload; reassigned to next eligible candidate")
	}

	// R2 — Timezone-vs-expertise.
	top = ranked[res.selected]
	preferred := preferredZone(utcHour)
	if classifyZone(top.Member.Timezone) != preferred && top.SimilarityScore > 0.7 {
		bestIdx := -1
		var bestScore float64
		for i, c := range ranked {
			if classifyZone(c.Member.Timezone) == preferred {
				if bestIdx == -1 || c.FinalScore > bestScore {
					bestIdx = i
					bestScore = c.FinalScore
				}
			}
		}
		if bestIdx != -1 && bestIdx != res.selected {
			if (top.FinalScore - ranked[bestIdx].FinalScore) > 0.30 {
				res.reasoning = append(res.reasoning, "Cross-timezone assignment: kept higher-expertise candidate despite timezone mismatch")
			} else {
				res.selected = bestIdx
				res.rulesApplied = append(res.rulesApplied, "timezone_vs_expertise")
				res.reasoning = append(res.reasoning, "Reassigned to best-scoring candidate in the preferred timezone")
			}
		}
	}

	// R3 — Fair distribution. The scan window is always the original
	// ranked list's positions 2..5 (ranked[1:5]), not relative to
	// whatever R1/R2 already selected, matching
	// original_source/ticket_ai_agents/assignment_engine/
	// customized_assignment_engine.py's candidates[1:5].
	top = ranked[res.selected]
	if top.RecentAssignments7d >= 5 {
		hi := 5
		if hi > len(ranked) {
			hi = len(ranked)
		}
		for i := 1; i < hi; i++ {
			c := ranked[i]
			if c.RecentAssignments7d < 5 && c.AvailabilityScore > 0 {
				res.selected = i
				res.rulesApplied = append(res.rulesApplied, "fair_distribution")
				res.reasoning = append(res.reasoning, "Top candidate at recent-assignment cap; swapped to a less-loaded peer")
				break
			}
		}
	}

	// R4 — Skills-gap flag (advisory only).
	top = ranked[res.selected]
	if top.SkillMatchScore < 0.25 {
		res.rulesApplied = append(res.rulesApplied, "skills_gap_detected")
		res.reasoning = append(res.reasoning, "Selected candidate has a significant skills gap; proceeding with advisory flag")
	}

	return res
}

// preferredZone implements R2's preferred_zone rule: IST when
// 2.5 <= h < 14.5, else US.
func preferredZone(h float64) zone {
	if h >= 2.5 && h < 14.5 {
		return zoneIST
	}
	return zoneUS
}

// top3 returns the first three entries of ranked as TopCandidate values.
func top3(ranked []AssignmentCandidate) []TopCandidate {
	n := len(ranked)
	if n > 3 {
		n = 3
	}
	out := make([]TopCandidate, 0, n)
	for i := 0; i < n; i++ {
		c := ranked[i]
		out = append(out, TopCandidate{
			Email:             c.Member.Email,
			FinalScore:        c.FinalScore,
			AvailabilityScore: c.AvailabilityScore,
			SkillMatchScore:   c.SkillMatchScore,
		})
	}
	return out
}

// rankCandidates sorts by final_score descending, ties broken by (a)
// higher availability_score, (b) higher skill_match_score, (c)
// lexicographic email (spec §4.1 step 3).
func rankCandidates(candidates []AssignmentCandidate) []AssignmentCandidate {
	ranked := make([]AssignmentCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.AvailabilityScore != b.AvailabilityScore {
			return a.AvailabilityScore > b.AvailabilityScore
		}
		if a.SkillMatchScore != b.SkillMatchScore {
			return a.SkillMatchScore > b.SkillMatchScore
		}
		return a.Member.Email < b.Member.Email
	})
	return ranked
}
