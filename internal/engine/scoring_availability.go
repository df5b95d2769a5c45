package engine

// availabilityScore implements spec §4.5: first match wins, regional
// holiday and PTO are hard vetoes, global holiday is a soft,
// priority-indexed override.
func availabilityScore(runtime MemberRuntime, priority Priority) (float64, string) {
	if runtime.OnPTO {
		return 0.0, "On PTO/TimeOff"
	}
	if runtime.RegionalHoliday {
		return 0.0, "Regional public holiday"
	}
	if runtime.GlobalHoliday {
		switch priority {
		case Critical:
			return 0.5, "Global holiday (emergency override)"
		case High:
			return 0.3, "Global holiday (emergency override)"
		default:
			return 0.0, "Global holiday"
		}
	}
	return 1.0, "Available"
}
