package domain

// OutcomeKind tags how a generation step concluded.
type OutcomeKind string

const (
	OutcomeOK       OutcomeKind = "ok"
	OutcomeDegraded OutcomeKind = "degraded"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome records the real result of a step even when the user still
// receives a usable artifact. A Degraded outcome means a fallback stood in
// for the primary path; the reason is kept so telemetry is not lost.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Reason string      `json:"reason,omitempty"`
}

func OK() Outcome                    { return Outcome{Kind: OutcomeOK} }
func Degraded(reason string) Outcome { return Outcome{Kind: OutcomeDegraded, Reason: reason} }
func Failed(reason string) Outcome   { return Outcome{Kind: OutcomeFailed, Reason: reason} }

// Usable reports whether the step still produced an artifact the caller can
// show to the user.
func (o Outcome) Usable() bool {
	return o.Kind == OutcomeOK || o.Kind == OutcomeDegraded
}
