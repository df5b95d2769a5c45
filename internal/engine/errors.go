package engine

import "errors"

// ErrOracleUnavailable labels an oracle data-fetch failure (team
// directory, workload, skill extractor) in logs and in the escalation
// decision's reasoning text. Assign never returns this as a Go error —
// it always wraps it into an escalation AssignmentDecision per spec §7,
// since a decision must always be produced and persisted.
var ErrOracleUnavailable = errors.New("engine: oracle unavailable")
