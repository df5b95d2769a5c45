package engine

// fallbackSkills is substituted when a member has declared no skills at
// all, per spec §4.4.
var fallbackSkills = []string{"troubleshooting", "documentation"}

// skillMatchScore implements spec §4.4.
func skillMatchScore(member TeamMember, req SkillRequirements) (float64, bool, string) {
	skills := member.Skills
	if len(skills) == 0 {
		skills = make(map[string]struct{}, len(fallbackSkills))
		for _, s := range fallbackSkills {
			skills[s] = struct{}{}
		}
	}

	criticalMatch := overlapRatio(skills, req.Critical)
	importantMatch := overlapRatio(skills, req.Important)
	niceMatch := overlapRatio(skills, req.NiceToHave)

	hasCritical := len(req.Critical) > 0

	if hasCritical && criticalMatch < 0.5 {
		return 0.2, false, "Critical skill coverage below threshold"
	}

	if len(req.Important) == 0 {
		importantMatch = 0.5
	}
	if len(req.NiceToHave) == 0 {
		niceMatch = 0.5
	}

	score := 0.6*criticalMatch + 0.3*importantMatch + 0.1*niceMatch
	if score > 1.0 {
		score = 1.0
	}
	return score, hasCritical && criticalMatch >= 0.5, "Skill match computed from critical/important/nice-to-have overlap"
}

// overlapRatio returns |skills ∩ want| / max(1, |want|).
func overlapRatio(skills map[string]struct{}, want []string) float64 {
	if len(want) == 0 {
		return 0
	}
	hits := 0
	for _, w := range want {
		if _, ok := skills[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(want))
}
