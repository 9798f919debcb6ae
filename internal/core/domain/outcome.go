package domain

// OutcomeKind discriminates the result of one poll attempt.
type OutcomeKind int

const (
	// OutcomeSuccess carries a presence snapshot.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeSoftFailure means the server answered but is not ready
	// (upstream still loading, or a classified transient error).
	OutcomeSoftFailure
	// OutcomeHardFailure means transport-level failure: network error,
	// timeout, non-2xx status, or an unparseable body.
	OutcomeHardFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSoftFailure:
		return "soft_failure"
	case OutcomeHardFailure:
		return "hard_failure"
	}
	return "unknown"
}

// Outcome is produced exactly once per fetch attempt. Soft and hard failures
// drive identical retry behavior; the split exists for logging and metrics.
type Outcome struct {
	Kind     OutcomeKind
	Reason   string
	Presence *Presence
}

// Success wraps a presence snapshot.
func Success(p *Presence) Outcome {
	return Outcome{Kind: OutcomeSuccess, Presence: p}
}

// SoftFailure reports a reachable-but-not-ready upstream.
func SoftFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeSoftFailure, Reason: reason}
}

// HardFailure reports a transport or protocol failure with no usable payload.
func HardFailure(reason string) Outcome {
	return Outcome{Kind: OutcomeHardFailure, Reason: reason}
}

// Failed reports whether the outcome is any kind of failure.
func (o Outcome) Failed() bool {
	return o.Kind != OutcomeSuccess
}
