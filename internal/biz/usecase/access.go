package usecase

import (
	"sort"
	"sync"
)

// AccessUsecase owns the allowed-channel set and the trusted-user set.
// Both are process-wide and shared by every guild the bot serves; no
// per-guild partitioning exists (a known limitation carried over from
// the original design).
type AccessUsecase struct {
	mu      sync.RWMutex
	allowed map[string]struct{}
	trusted map[string]struct{}
}

// NewAccessUsecase creates empty access sets
func NewAccessUsecase() *AccessUsecase {
	return &AccessUsecase{
		allowed: make(map[string]struct{}),
		trusted: make(map[string]struct{}),
	}
}

// AllowChannel permits autonomous replies in the channel
func (uc *AccessUsecase) AllowChannel(channelID string) {
	uc.mu.Lock()
	uc.allowed[channelID] = struct{}{}
	uc.mu.Unlock()
}

// DisallowChannel removes the channel from the allowed set
func (uc *AccessUsecase) DisallowChannel(channelID string) {
	uc.mu.Lock()
	delete(uc.allowed, channelID)
	uc.mu.Unlock()
}

// PermitsChannel checks if autonomous replies are permitted in the
// channel. An empty allowed set is a sentinel meaning every channel is
// permitted, not that none are.
func (uc *AccessUsecase) PermitsChannel(channelID string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if len(uc.allowed) == 0 {
		return true
	}
	_, ok := uc.allowed[channelID]
	return ok
}

// AllowedChannels lists the allowed channel IDs, sorted. Empty means
// all channels are allowed.
func (uc *AccessUsecase) AllowedChannels() []string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	result := make([]string, 0, len(uc.allowed))
	for id := range uc.allowed {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}

// Trust grants the user command-permission parity with administrators
func (uc *AccessUsecase) Trust(userID string) {
	uc.mu.Lock()
	uc.trusted[userID] = struct{}{}
	uc.mu.Unlock()
}

// Untrust revokes trusted status
func (uc *AccessUsecase) Untrust(userID string) {
	uc.mu.Lock()
	delete(uc.trusted, userID)
	uc.mu.Unlock()
}

// IsTrusted checks if the user is in the trusted set
func (uc *AccessUsecase) IsTrusted(userID string) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	_, ok := uc.trusted[userID]
	return ok
}
