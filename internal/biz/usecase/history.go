package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
)

// HistoryUsecase owns the per-channel conversation history.
// Discord event handlers run on separate goroutines, so every shared
// structure here is guarded by a mutex.
type HistoryUsecase struct {
	mu       sync.RWMutex
	channels map[string]*domain.ChannelHistory
	maxTurns int
}

// NewHistoryUsecase creates a history store keeping at most maxTurns
// turns per channel (oldest evicted first)
func NewHistoryUsecase(maxTurns int) *HistoryUsecase {
	return &HistoryUsecase{
		channels: make(map[string]*domain.ChannelHistory),
		maxTurns: maxTurns,
	}
}

// AppendUser appends a user turn to the channel's history, creating
// the entry if absent
func (uc *HistoryUsecase) AppendUser(channelID, content string) {
	uc.append(channelID, domain.Turn{Role: domain.RoleUser, Content: content})
}

// AppendAssistant appends an assistant turn to the channel's history
func (uc *HistoryUsecase) AppendAssistant(channelID, content string) {
	uc.append(channelID, domain.Turn{Role: domain.RoleAssistant, Content: content})
}

func (uc *HistoryUsecase) append(channelID string, t domain.Turn) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	h, ok := uc.channels[channelID]
	if !ok {
		h = domain.NewChannelHistory(uc.maxTurns)
		uc.channels[channelID] = h
	}
	h.Append(t)
}

// Turns returns a copy of the channel's turns, oldest first
func (uc *HistoryUsecase) Turns(channelID string) []domain.Turn {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	h, ok := uc.channels[channelID]
	if !ok {
		return nil
	}
	return h.Turns()
}

// Render serializes the channel's history for prompt building, each
// turn as "role: content", newline-joined, oldest first
func (uc *HistoryUsecase) Render(channelID string) string {
	turns := uc.Turns(channelID)

	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", t.Role, t.Content))
	}
	return sb.String()
}

// Clear drops the channel's history. Returns false when the channel
// had no history to begin with.
func (uc *HistoryUsecase) Clear(channelID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.channels[channelID]; !ok {
		return false
	}
	uc.channels[channelID] = domain.NewChannelHistory(uc.maxTurns)
	return true
}
