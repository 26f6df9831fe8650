package domain

// EventKind identifies which chat pattern produced a LogEvent
type EventKind string

const (
	KindPayment EventKind = "payment"
	KindGain    EventKind = "gain"
	KindLoss    EventKind = "loss"
	KindRoleHit EventKind = "role"
)

// CountsAsSpin reports whether an event of this kind is one slot spin.
// Payments and misses are spins; gains and role announcements follow a spin
// that was already counted.
func (k EventKind) CountsAsSpin() bool {
	return k == KindPayment || k == KindLoss
}

// LogEvent is one classified chat line. Amount is set only for payments and
// gains, Role only for role hits.
type LogEvent struct {
	Kind      EventKind `json:"kind"`
	Amount    int       `json:"amount,omitempty"`
	Role      string    `json:"role,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"` // "[HH:MM:SS]" as it appeared in the line
	Content   string    `json:"content"`             // line text after the chat prefix
}

// DisplayText is the verbatim line shown to the user and written to the
// session log.
func (e LogEvent) DisplayText() string {
	if e.Timestamp == "" {
		return e.Content
	}
	return e.Timestamp + " " + e.Content
}
