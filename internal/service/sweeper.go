package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/internal/biz/usecase"
)

// Sweeper periodically delivers scheduled messages that have come due.
// Delivery is at-least-once-attempted: a drained record is gone whether
// or not the send succeeds.
type Sweeper struct {
	scheduleUC *usecase.ScheduleUsecase
	chatRepo   repo.ChatRepo

	interval time.Duration
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewSweeper creates a sweeper with the default 60 second interval
func NewSweeper(scheduleUC *usecase.ScheduleUsecase, chatRepo repo.ChatRepo) *Sweeper {
	return &Sweeper{
		scheduleUC: scheduleUC,
		chatRepo:   chatRepo,
		interval:   60 * time.Second,
	}
}

// Start launches the background sweep loop. An initial sweep runs
// immediately, then once per interval.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		fmt.Printf("[Sweeper] Started, interval: %v\n", s.interval)
		s.SweepOnce(ctx, time.Now())

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.SweepOnce(ctx, now)
			}
		}
	}()
}

// Stop halts the loop and waits for any in-flight sweep to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Println("[Sweeper] Stopped")
}

// SweepOnce drains and delivers everything due at the given instant
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) {
	for _, msg := range s.scheduleUC.Drain(now) {
		if _, err := s.chatRepo.ResolveChannel(ctx, msg.ChannelID); err != nil {
			fmt.Printf("[Sweeper] Dropping %s: channel %s unresolvable: %v\n", msg.ID, msg.ChannelID, err)
			continue
		}
		if _, err := s.chatRepo.SendText(ctx, msg.ChannelID, msg.Body); err != nil {
			fmt.Printf("[Sweeper] Failed to deliver %s to %s: %v\n", msg.ID, msg.ChannelID, err)
			continue
		}
		fmt.Printf("[Sweeper] Delivered scheduled message %s to %s\n", msg.ID, msg.ChannelID)
	}
}
