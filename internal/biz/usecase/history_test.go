package usecase

import (
	"fmt"
	"strings"
	"testing"
)

func TestHistoryAppendAndRender(t *testing.T) {
	uc := NewHistoryUsecase(50)
	uc.AppendUser("chan-1", "hello")
	uc.AppendAssistant("chan-1", "hi there")
	uc.AppendUser("chan-1", "how are you?")

	rendered := uc.Render("chan-1")
	expected := "user: hello\nassistant: hi there\nuser: how are you?"
	if rendered != expected {
		t.Errorf("Render = %q, want %q", rendered, expected)
	}
}

func TestHistoryChannelIsolation(t *testing.T) {
	uc := NewHistoryUsecase(50)
	uc.AppendUser("chan-a", "in a")
	uc.AppendUser("chan-b", "in b")

	if got := uc.Render("chan-a"); got != "user: in a" {
		t.Errorf("chan-a Render = %q", got)
	}
	if got := uc.Render("chan-b"); got != "user: in b" {
		t.Errorf("chan-b Render = %q", got)
	}
}

func TestHistoryEviction(t *testing.T) {
	uc := NewHistoryUsecase(4)
	for i := 0; i < 10; i++ {
		uc.AppendUser("chan-1", fmt.Sprintf("msg-%d", i))
	}

	turns := uc.Turns("chan-1")
	if len(turns) != 4 {
		t.Fatalf("kept %d turns, want 4", len(turns))
	}
	if turns[0].Content != "msg-6" {
		t.Errorf("oldest kept = %q, want msg-6", turns[0].Content)
	}
}

func TestHistoryClear(t *testing.T) {
	uc := NewHistoryUsecase(50)

	if uc.Clear("chan-1") {
		t.Error("Clear on unknown channel should report false")
	}

	uc.AppendUser("chan-1", "hello")
	if !uc.Clear("chan-1") {
		t.Error("Clear on populated channel should report true")
	}
	if uc.Render("chan-1") != "" {
		t.Error("history should be empty after Clear")
	}
}

func TestHistoryRenderEmpty(t *testing.T) {
	uc := NewHistoryUsecase(50)
	if got := uc.Render("nope"); got != "" {
		t.Errorf("Render of unknown channel = %q, want empty", got)
	}
}

func TestHistoryConcurrentAppend(t *testing.T) {
	uc := NewHistoryUsecase(0)
	done := make(chan struct{})

	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				uc.AppendUser("chan-1", "x")
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}

	if got := len(uc.Turns("chan-1")); got != 800 {
		t.Errorf("kept %d turns, want 800", got)
	}

	for _, line := range strings.Split(uc.Render("chan-1"), "\n") {
		if line != "user: x" {
			t.Fatalf("corrupt line %q", line)
		}
	}
}
