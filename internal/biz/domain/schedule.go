package domain

import "time"

// ScheduledMessage represents a pending announcement. It is consumed
// at most once by the sweep; delivery is attempted once and the record
// is dropped whether or not the send succeeds.
type ScheduledMessage struct {
	ID        string
	ChannelID string
	Body      string
	FireAt    time.Time
	AuthorID  string
}

// Due checks if the message should fire at the given time
func (m *ScheduledMessage) Due(now time.Time) bool {
	return !m.FireAt.After(now)
}
