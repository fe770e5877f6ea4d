package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
)

// ScheduleUsecase owns the pending scheduled-message queue.
// Records are appended by Schedule and consumed exactly once by Drain;
// there is no deduplication and no capacity bound.
type ScheduleUsecase struct {
	mu      sync.Mutex
	pending []*domain.ScheduledMessage
}

// NewScheduleUsecase creates an empty queue
func NewScheduleUsecase() *ScheduleUsecase {
	return &ScheduleUsecase{}
}

// ParseDelay parses a duration expressed as hour and minute components:
// "1h", "30m", "2h30m". A total that is not strictly positive is
// rejected.
func ParseDelay(s string) (time.Duration, error) {
	totalMinutes := 0
	rest := s

	if before, after, found := strings.Cut(rest, "h"); found {
		hours, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		totalMinutes += hours * 60
		rest = after
	}
	if before, _, found := strings.Cut(rest, "m"); found {
		minutes, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		totalMinutes += minutes
	}

	if totalMinutes <= 0 {
		return 0, fmt.Errorf("duration %q must be positive (e.g., '1h', '30m', '2h30m')", s)
	}

	return time.Duration(totalMinutes) * time.Minute, nil
}

// Schedule enqueues a message to fire after the given delay
func (uc *ScheduleUsecase) Schedule(channelID, body, authorID string, delay time.Duration) (*domain.ScheduledMessage, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("delay must be positive")
	}

	msg := &domain.ScheduledMessage{
		ID:        ulid.Make().String(),
		ChannelID: channelID,
		Body:      body,
		FireAt:    time.Now().Add(delay),
		AuthorID:  authorID,
	}

	uc.mu.Lock()
	uc.pending = append(uc.pending, msg)
	uc.mu.Unlock()

	return msg, nil
}

// Drain removes and returns every record whose fire time has passed.
// Records not yet due stay queued untouched. Order among records due
// at the same tick follows queue iteration order.
func (uc *ScheduleUsecase) Drain(now time.Time) []*domain.ScheduledMessage {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var fired []*domain.ScheduledMessage
	var remaining []*domain.ScheduledMessage

	for _, msg := range uc.pending {
		if msg.Due(now) {
			fired = append(fired, msg)
		} else {
			remaining = append(remaining, msg)
		}
	}

	uc.pending = remaining
	return fired
}

// Pending returns the number of queued records
func (uc *ScheduleUsecase) Pending() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.pending)
}
