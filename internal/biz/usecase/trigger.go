package usecase

import (
	"sort"
	"strings"
	"sync"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
)

// TriggerUsecase owns the smart-response trigger table
type TriggerUsecase struct {
	mu       sync.RWMutex
	triggers map[string]string // lowercase pattern -> template
}

// NewTriggerUsecase creates an empty trigger table
func NewTriggerUsecase() *TriggerUsecase {
	return &TriggerUsecase{triggers: make(map[string]string)}
}

// Set registers a trigger. Patterns are stored lowercased; setting an
// existing pattern overwrites its template (last write wins).
func (uc *TriggerUsecase) Set(pattern, template string) {
	uc.mu.Lock()
	uc.triggers[strings.ToLower(pattern)] = template
	uc.mu.Unlock()
}

// Match scans for any pattern occurring as a substring of the
// lowercased text. Ties between multiple matching patterns resolve by
// map iteration order; which one wins is an accepted nondeterminism.
func (uc *TriggerUsecase) Match(text string) (*domain.Trigger, bool) {
	lowered := strings.ToLower(text)

	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for pattern, template := range uc.triggers {
		if strings.Contains(lowered, pattern) {
			return &domain.Trigger{Pattern: pattern, Template: template}, true
		}
	}
	return nil, false
}

// List returns all triggers sorted by pattern for stable display
func (uc *TriggerUsecase) List() []domain.Trigger {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	result := make([]domain.Trigger, 0, len(uc.triggers))
	for pattern, template := range uc.triggers {
		result = append(result, domain.Trigger{Pattern: pattern, Template: template})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Pattern < result[j].Pattern })
	return result
}
