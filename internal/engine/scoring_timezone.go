package engine

import (
	"strings"
	"time"
)

// tzWindow is one of the four UTC windows from spec §4.7.
type tzWindow string

const (
	windowMorningOverlap tzWindow = "MORNING_OVERLAP"
	windowISTOnly        tzWindow = "IST_ONLY"
	windowEveningOverlap tzWindow = "EVENING_OVERLAP"
	windowUSOnly         tzWindow = "US_ONLY"
)

// zone is a member's coarse timezone classification.
type zone string

const (
	zoneIST   zone = "IST"
	zoneUS    zone = "US"
	zoneOther zone = "Other"
)

func classifyZone(tz string) zone {
	switch {
	case strings.HasPrefix(tz, "Asia/"):
		return zoneIST
	case strings.HasPrefix(tz, "America/"), strings.HasPrefix(tz, "US/"):
		return zoneUS
	default:
		return zoneOther
	}
}

// currentWindow classifies the UTC hour-of-day (as a real in [0,24)) into
// one of the four follow-the-sun windows.
func currentWindow(now time.Time) tzWindow {
	h := float64(now.UTC().Hour()) + float64(now.UTC().Minute())/60.0
	switch {
	case h >= 0.5 && h < 2.5:
		return windowMorningOverlap
	case h >= 2.5 && h < 12.0:
		return windowISTOnly
	case h >= 12.0 && h < 14.5:
		return windowEveningOverlap
	default:
		return windowUSOnly
	}
}

var baseTimezoneScores = map[tzWindow]map[zone]float64{
	windowMorningOverlap: {zoneIST: 0.85, zoneUS: 1.00, zoneOther: 0.60},
	windowEveningOverlap: {zoneIST: 1.00, zoneUS: 0.85, zoneOther: 0.60},
	windowISTOnly:        {zoneIST: 1.00, zoneUS: 0.50, zoneOther: 0.40},
	windowUSOnly:         {zoneIST: 0.50, zoneUS: 1.00, zoneOther: 0.40},
}

// solvedSimilarCount counts this member's hits in the similar-ticket set
// passed to Assign, per spec §9 ("tracks the count of this member's hits
// in similar_tickets, not a global historic count").
func solvedSimilarCount(member TeamMember, similar []SimilarTicket) int {
	n := 0
	for _, s := range similar {
		if s.AssigneeEmail == member.Email {
			n++
		}
	}
	return n
}

// timezoneScore implements spec §4.7, including the strict-enforcement
// and cross-timezone-expertise adjustments.
func timezoneScore(member TeamMember, priority Priority, now time.Time, similar []SimilarTicket) (float64, tzWindow, string) {
	window := currentWindow(now)
	z := classifyZone(member.Timezone)
	score := baseTimezoneScores[window][z]

	urgent := priority == Critical || priority == High

	// 1. Strict enforcement for urgent tickets.
	if urgent {
		switch score {
		case 0.5:
			score = 0.3
		case 0.4:
			score = 0.2
		}
	}

	// 2. Cross-timezone expertise boost.
	if solvedSimilarCount(member, similar) >= 3 {
		isOverlap := window == windowMorningOverlap || window == windowEveningOverlap
		if !urgent {
			if isOverlap {
				if score < 0.85 {
					score = 0.85
				}
			} else if score < 0.75 {
				score = 0.4
			}
		} else if score >= 0.3 && score < 0.6 {
			score = 0.6
		}
	}

	return score, window, "Follow-the-sun timezone window scoring"
}
