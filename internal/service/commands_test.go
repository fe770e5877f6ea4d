package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/biz/usecase"
	"github.com/kempysnetwork/kempai/internal/conf"
)

type dispatcherFixture struct {
	dispatcher *CommandDispatcher
	chat       *mockChatRepo
	guild      *mockGuildRepo
	generate   *mockGenerateRepo
	historyUC  *usecase.HistoryUsecase
	triggerUC  *usecase.TriggerUsecase
	accessUC   *usecase.AccessUsecase
	scheduleUC *usecase.ScheduleUsecase
}

func newDispatcherFixture() *dispatcherFixture {
	chat := newMockChatRepo()
	guild := newMockGuildRepo()
	generate := newMockGenerateRepo("personalized text")

	persona := conf.DefaultPersonaConfig()
	prompts := usecase.NewPromptBuilder(persona)
	historyUC := usecase.NewHistoryUsecase(50)
	triggerUC := usecase.NewTriggerUsecase()
	accessUC := usecase.NewAccessUsecase()
	scheduleUC := usecase.NewScheduleUsecase()

	audit := NewAuditLogger(chat, guild, "")
	d := NewCommandDispatcher("?", persona, prompts,
		historyUC, triggerUC, accessUC, scheduleUC,
		chat, guild, generate, audit)
	d.randIntn = func(n int) int { return 0 }
	d.sleep = func(time.Duration) {}

	return &dispatcherFixture{
		dispatcher: d,
		chat:       chat,
		guild:      guild,
		generate:   generate,
		historyUC:  historyUC,
		triggerUC:  triggerUC,
		accessUC:   accessUC,
		scheduleUC: scheduleUC,
	}
}

func adminInvocation(name string, args ...string) *CommandInvocation {
	return &CommandInvocation{
		Name:       name,
		Args:       args,
		GuildID:    "guild-1",
		ChannelID:  "chan-1",
		MessageID:  "msg-1",
		AuthorID:   "admin-1",
		AuthorName: "Admin",
	}
}

func (f *dispatcherFixture) lastSent(t *testing.T) string {
	t.Helper()
	if len(f.chat.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return f.chat.sent[len(f.chat.sent)-1].Text
}

func TestParse(t *testing.T) {
	f := newDispatcherFixture()

	name, args, ok := f.dispatcher.Parse("?kick @someone being rude")
	if !ok || name != "kick" {
		t.Fatalf("Parse = %q, %v", name, ok)
	}
	if len(args) != 2 || args[1] != "rude" {
		t.Errorf("args = %v", args)
	}

	if _, _, ok := f.dispatcher.Parse("no prefix here"); ok {
		t.Error("unprefixed text should not parse")
	}
	if _, _, ok := f.dispatcher.Parse("?"); ok {
		t.Error("bare prefix should not parse")
	}
}

func TestPermissionDenied(t *testing.T) {
	f := newDispatcherFixture()

	inv := adminInvocation("setmodel", "mistral")
	inv.AuthorID = "random-user"
	f.dispatcher.Dispatch(context.Background(), inv)

	if f.generate.Model() != "llama2" {
		t.Error("denied command must not change the model")
	}
	if !strings.Contains(f.lastSent(t), "admin perms") {
		t.Errorf("refusal = %q, want the persona no-perms line", f.lastSent(t))
	}
}

func TestTrustedUserPasses(t *testing.T) {
	f := newDispatcherFixture()
	f.accessUC.Trust("helper-1")

	inv := adminInvocation("setmodel", "mistral")
	inv.AuthorID = "helper-1"
	f.dispatcher.Dispatch(context.Background(), inv)

	if f.generate.Model() != "mistral" {
		t.Error("trusted user should pass the relaxed permission guard")
	}
}

func TestSetModel(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	f.dispatcher.Dispatch(context.Background(), adminInvocation("setmodel", "mistral"))

	if f.generate.Model() != "mistral" {
		t.Errorf("model = %q, want mistral", f.generate.Model())
	}
	if got := f.lastSent(t); got != "Model changed from llama2 to: mistral" {
		t.Errorf("confirmation = %q", got)
	}
}

func TestClearHistory(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	f.dispatcher.Dispatch(context.Background(), adminInvocation("clearhistory"))
	if got := f.lastSent(t); got != "No message history found for this channel." {
		t.Errorf("empty-channel confirmation = %q", got)
	}

	f.historyUC.AppendUser("chan-1", "hello")
	f.dispatcher.Dispatch(context.Background(), adminInvocation("clearhistory"))
	if got := f.lastSent(t); got != "Message history cleared for this channel." {
		t.Errorf("confirmation = %q", got)
	}
	if len(f.historyUC.Turns("chan-1")) != 0 {
		t.Error("history should be gone")
	}
}

func TestChannelAllowFlow(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true
	f.chat.addChannel("chan-1", "general", "guild-1")

	f.dispatcher.Dispatch(context.Background(), adminInvocation("allowchannel"))
	if !strings.Contains(f.lastSent(t), "#general") {
		t.Errorf("allow confirmation = %q", f.lastSent(t))
	}
	if f.accessUC.PermitsChannel("other") {
		t.Error("other channels should now be blocked")
	}

	f.dispatcher.Dispatch(context.Background(), adminInvocation("listchannels"))
	if !strings.Contains(f.lastSent(t), "#general") {
		t.Errorf("listchannels = %q", f.lastSent(t))
	}

	f.dispatcher.Dispatch(context.Background(), adminInvocation("disallowchannel"))
	if !f.accessUC.PermitsChannel("other") {
		t.Error("emptying the set should reopen all channels")
	}

	f.dispatcher.Dispatch(context.Background(), adminInvocation("listchannels"))
	if got := f.lastSent(t); got != "Bot is currently allowed to respond in all channels." {
		t.Errorf("listchannels on empty set = %q", got)
	}
}

func TestSmartResponses(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	f.dispatcher.Dispatch(context.Background(), adminInvocation("set_smart_response", "Rules", "link", "the", "rules"))
	if !strings.Contains(f.lastSent(t), "Smart response added for trigger: 'rules'") {
		t.Errorf("confirmation = %q", f.lastSent(t))
	}

	if trigger, ok := f.triggerUC.Match("what are the rules?"); !ok || trigger.Template != "link the rules" {
		t.Error("trigger should be registered with the joined template")
	}

	f.dispatcher.Dispatch(context.Background(), adminInvocation("list_smart_responses"))
	got := f.lastSent(t)
	if !strings.Contains(got, "📌 Trigger: 'rules'") || !strings.Contains(got, "💬 Response: link the rules") {
		t.Errorf("listing = %q", got)
	}
}

func TestScheduleMessageCommand(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	inv := adminInvocation("schedule_message", "<#target-chan>", "1h30m", "movie", "night!")
	inv.MentionedChannelIDs = []string{"target-chan"}
	f.dispatcher.Dispatch(context.Background(), inv)

	if !strings.Contains(f.lastSent(t), "Message scheduled for") {
		t.Fatalf("confirmation = %q", f.lastSent(t))
	}
	if f.scheduleUC.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", f.scheduleUC.Pending())
	}

	fired := f.scheduleUC.Drain(time.Now().Add(2 * time.Hour))
	if len(fired) != 1 || fired[0].Body != "movie night!" || fired[0].ChannelID != "target-chan" {
		t.Errorf("queued record wrong: %+v", fired)
	}
}

func TestScheduleMessageInvalidDelay(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	inv := adminInvocation("schedule_message", "<#target-chan>", "garbage", "body")
	inv.MentionedChannelIDs = []string{"target-chan"}
	f.dispatcher.Dispatch(context.Background(), inv)

	if got := f.lastSent(t); got != "Please provide a valid time (e.g., '1h', '30m', '2h30m')" {
		t.Errorf("error = %q", got)
	}
	if f.scheduleUC.Pending() != 0 {
		t.Error("nothing should be queued")
	}
}

func TestTrustRequiresStrictAdmin(t *testing.T) {
	f := newDispatcherFixture()
	f.accessUC.Trust("helper-1")

	// Trusted but not admin: the relaxed guard is not enough here
	inv := adminInvocation("trust")
	inv.AuthorID = "helper-1"
	inv.MentionedUsers = []domain.Member{{UserID: "new-guy", Name: "NewGuy"}}
	f.dispatcher.Dispatch(context.Background(), inv)

	if f.accessUC.IsTrusted("new-guy") {
		t.Error("non-admin must not grant trust")
	}
	if !strings.Contains(f.lastSent(t), "Only server admins") {
		t.Errorf("refusal = %q", f.lastSent(t))
	}
}

func TestTrustAndUntrust(t *testing.T) {
	f := newDispatcherFixture()
	f.guild.admins["admin-1"] = true

	inv := adminInvocation("trust")
	inv.MentionedUsers = []domain.Member{{UserID: "helper-1", Name: "Helper"}}
	f.dispatcher.Dispatch(context.Background(), inv)

	if !f.accessUC.IsTrusted("helper-1") {
		t.Fatal("trust should mark the user")
	}
	if !strings.Contains(f.lastSent(t), "Added Helper to trusted users!") {
		t.Errorf("confirmation = %q", f.lastSent(t))
	}

	inv = adminInvocation("untrust")
	inv.MentionedUsers = []domain.Member{{UserID: "helper-1", Name: "Helper"}}
	f.dispatcher.Dispatch(context.Background(), inv)

	if f.accessUC.IsTrusted("helper-1") {
		t.Error("untrust should clear the mark")
	}
}

func TestStripMentionTokens(t *testing.T) {
	args := []string{"<@123>", "<@!456>", "<#789>", "hello", "<@&42>", "world"}
	got := stripMentionTokens(args)
	if len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Errorf("stripMentionTokens = %v", got)
	}
}
