package service

import (
	"context"
	"testing"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/usecase"
)

func TestSweepOnceDelivers(t *testing.T) {
	chat := newMockChatRepo()
	chat.addChannel("chan-1", "general", "guild-1")
	scheduleUC := usecase.NewScheduleUsecase()
	sweeper := NewSweeper(scheduleUC, chat)

	if _, err := scheduleUC.Schedule("chan-1", "movie night!", "author", time.Minute); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	// Not yet due
	sweeper.SweepOnce(context.Background(), time.Now())
	if len(chat.sent) != 0 {
		t.Error("nothing should deliver before the fire time")
	}

	sweeper.SweepOnce(context.Background(), time.Now().Add(2*time.Minute))
	if len(chat.sent) != 1 || chat.sent[0].Text != "movie night!" {
		t.Fatalf("sent = %v", chat.sent)
	}

	// Consumed exactly once
	sweeper.SweepOnce(context.Background(), time.Now().Add(2*time.Minute))
	if len(chat.sent) != 1 {
		t.Error("a delivered record must never fire again")
	}
}

func TestSweepOnceDropsUnresolvableChannel(t *testing.T) {
	chat := newMockChatRepo()
	scheduleUC := usecase.NewScheduleUsecase()
	sweeper := NewSweeper(scheduleUC, chat)

	if _, err := scheduleUC.Schedule("ghost-chan", "lost", "author", time.Minute); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	sweeper.SweepOnce(context.Background(), time.Now().Add(2*time.Minute))

	if len(chat.sent) != 0 {
		t.Error("unresolvable channel should deliver nothing")
	}
	if scheduleUC.Pending() != 0 {
		t.Error("the record is consumed even when delivery is impossible")
	}
}

func TestSweeperStartStop(t *testing.T) {
	chat := newMockChatRepo()
	scheduleUC := usecase.NewScheduleUsecase()
	sweeper := NewSweeper(scheduleUC, chat)

	sweeper.Start(context.Background())
	sweeper.Start(context.Background()) // second start is a no-op
	sweeper.Stop()
	sweeper.Stop() // second stop is a no-op
}
