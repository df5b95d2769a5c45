package engine

import "time"

const (
	teamMaxLoad       = 30.0
	overloadThreshold = 24.0 // 80% of teamMaxLoad
)

// workloadScore implements spec §4.6.
func workloadScore(tickets []ActiveTicket, now time.Time) (score float64, overloaded bool, note string) {
	if len(tickets) == 0 {
		return 1.0, false, "No active tickets"
	}

	var total float64
	for _, t := range tickets {
		total += loadFor(t, now)
	}

	score = 1.0 - total/teamMaxLoad
	if score < 0 {
		score = 0
	}
	overloaded = total >= overloadThreshold
	return score, overloaded, "Weighted load from active ticket priority/age/status"
}

func loadFor(t ActiveTicket, now time.Time) float64 {
	var priorityWeight float64
	switch t.Priority {
	case Critical:
		priorityWeight = 3.0
	case High:
		priorityWeight = 2.0
	case Medium:
		priorityWeight = 1.0
	case Low:
		priorityWeight = 0.5
	default:
		priorityWeight = 1.0
	}

	ageDays := now.Sub(t.CreatedAt).Hours() / 24.0
	var agePenalty float64
	switch {
	case ageDays > 7:
		agePenalty = 1.5
	case ageDays > 3:
		agePenalty = 1.2
	default:
		agePenalty = 1.0
	}

	var statusWeight float64
	switch t.Status {
	case StatusBlocked, StatusWaiting:
		statusWeight = 0.3
	case StatusInProgress:
		statusWeight = 1.0
	default: // Open, Pending, Unknown
		statusWeight = 0.5
	}

	const complexityFactor = 1.0 // reserved; see spec §4.6
	return priorityWeight * agePenalty * statusWeight * complexityFactor
}
