package domain

// ChannelHistory holds the ordered conversation turns for one channel.
// It is a bounded ring: once maxTurns is reached the oldest turn is
// evicted on every append. maxTurns <= 0 means unbounded.
type ChannelHistory struct {
	maxTurns int
	turns    []Turn
}

// NewChannelHistory creates an empty history with the given capacity
func NewChannelHistory(maxTurns int) *ChannelHistory {
	return &ChannelHistory{maxTurns: maxTurns}
}

// Append adds a turn, evicting the oldest when over capacity
func (h *ChannelHistory) Append(t Turn) {
	h.turns = append(h.turns, t)
	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		// shift in place so the backing array does not grow forever
		n := copy(h.turns, h.turns[len(h.turns)-h.maxTurns:])
		h.turns = h.turns[:n]
	}
}

// Turns returns a copy of the turns, oldest first
func (h *ChannelHistory) Turns() []Turn {
	result := make([]Turn, len(h.turns))
	copy(result, h.turns)
	return result
}

// Len returns the number of stored turns
func (h *ChannelHistory) Len() int {
	return len(h.turns)
}
