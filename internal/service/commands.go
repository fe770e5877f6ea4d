package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/internal/biz/usecase"
	"github.com/kempysnetwork/kempai/internal/conf"
)

// CommandInvocation is a parsed prefixed command
type CommandInvocation struct {
	Name      string
	Args      []string
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	AuthorName string

	MentionedUsers      []domain.Member
	MentionedRoleIDs    []string
	MentionedChannelIDs []string
	ReferencedMessageID string
}

// CommandDispatcher executes prefixed text commands. Every command
// requires administrator-or-trusted permission except trust/untrust,
// which demand a real administrator or the guild owner. Handlers
// report their own friendly errors; nothing here reaches the router's
// fault boundary.
type CommandDispatcher struct {
	prefix     string
	persona    *conf.PersonaConfig
	prompts    *usecase.PromptBuilder
	historyUC  *usecase.HistoryUsecase
	triggerUC  *usecase.TriggerUsecase
	accessUC   *usecase.AccessUsecase
	scheduleUC *usecase.ScheduleUsecase
	chatRepo   repo.ChatRepo
	guildRepo  repo.GuildRepo
	generate   repo.GenerateRepo
	audit      *AuditLogger

	randIntn func(int) int
	sleep    func(time.Duration)
}

// NewCommandDispatcher creates a command dispatcher
func NewCommandDispatcher(
	prefix string,
	persona *conf.PersonaConfig,
	prompts *usecase.PromptBuilder,
	historyUC *usecase.HistoryUsecase,
	triggerUC *usecase.TriggerUsecase,
	accessUC *usecase.AccessUsecase,
	scheduleUC *usecase.ScheduleUsecase,
	chatRepo repo.ChatRepo,
	guildRepo repo.GuildRepo,
	generate repo.GenerateRepo,
	audit *AuditLogger,
) *CommandDispatcher {
	return &CommandDispatcher{
		prefix:     prefix,
		persona:    persona,
		prompts:    prompts,
		historyUC:  historyUC,
		triggerUC:  triggerUC,
		accessUC:   accessUC,
		scheduleUC: scheduleUC,
		chatRepo:   chatRepo,
		guildRepo:  guildRepo,
		generate:   generate,
		audit:      audit,
		randIntn:   rand.Intn,
		sleep:      time.Sleep,
	}
}

// Prefix returns the command prefix
func (d *CommandDispatcher) Prefix() string {
	return d.prefix
}

// IsCommandText checks if the text begins with the command prefix.
// All prefixed text short-circuits conversation handling, even when
// the command name is unknown.
func (d *CommandDispatcher) IsCommandText(content string) bool {
	return strings.HasPrefix(content, d.prefix)
}

// Parse splits prefixed text into a command name and argument fields.
// Returns false for non-prefixed or empty invocations.
func (d *CommandDispatcher) Parse(content string) (string, []string, bool) {
	if !d.IsCommandText(content) {
		return "", nil, false
	}
	fields := strings.Fields(content[len(d.prefix):])
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// Dispatch routes a parsed invocation to its handler. Unknown names
// are ignored.
func (d *CommandDispatcher) Dispatch(ctx context.Context, inv *CommandInvocation) {
	switch inv.Name {
	case "setmodel":
		d.handleSetModel(ctx, inv)
	case "clearhistory":
		d.handleClearHistory(ctx, inv)
	case "allowchannel":
		d.handleAllowChannel(ctx, inv)
	case "disallowchannel":
		d.handleDisallowChannel(ctx, inv)
	case "listchannels":
		d.handleListChannels(ctx, inv)
	case "setstatus":
		d.handleSetStatus(ctx, inv)
	case "set_smart_response":
		d.handleSetSmartResponse(ctx, inv)
	case "list_smart_responses":
		d.handleListSmartResponses(ctx, inv)
	case "schedule_message":
		d.handleScheduleMessage(ctx, inv)
	case "kick":
		d.handleKick(ctx, inv)
	case "ban":
		d.handleBan(ctx, inv)
	case "mute":
		d.handleMute(ctx, inv)
	case "unmute":
		d.handleUnmute(ctx, inv)
	case "clear":
		d.handleClear(ctx, inv)
	case "pin":
		d.handlePin(ctx, inv)
	case "trust":
		d.handleTrust(ctx, inv)
	case "untrust":
		d.handleUntrust(ctx, inv)
	case "role":
		d.handleRole(ctx, inv)
	case "dm":
		d.handleDM(ctx, inv)
	case "mass_dm":
		d.handleMassDM(ctx, inv)
	default:
		fmt.Printf("[Commands] Unknown command: %s\n", inv.Name)
	}
}

// say sends a plain reply into the invoking channel
func (d *CommandDispatcher) say(ctx context.Context, inv *CommandInvocation, text string) {
	if _, err := d.chatRepo.SendText(ctx, inv.ChannelID, text); err != nil {
		fmt.Printf("[Commands] Failed to send reply: %v\n", err)
	}
}

// reaction picks a random success emoji from the persona
func (d *CommandDispatcher) reaction() string {
	if len(d.persona.SuccessReactions) == 0 {
		return "✅"
	}
	return d.persona.SuccessReactions[d.randIntn(len(d.persona.SuccessReactions))]
}

// hasPermission checks the relaxed guard: administrator, guild owner
// or trusted user. Always false outside a guild.
func (d *CommandDispatcher) hasPermission(ctx context.Context, inv *CommandInvocation) bool {
	if inv.GuildID == "" {
		return false
	}
	if admin, err := d.guildRepo.IsAdministrator(ctx, inv.GuildID, inv.AuthorID); err == nil && admin {
		return true
	}
	if owner, err := d.guildRepo.IsOwner(ctx, inv.GuildID, inv.AuthorID); err == nil && owner {
		return true
	}
	return d.accessUC.IsTrusted(inv.AuthorID)
}

// requirePermission enforces the relaxed guard, replying with the
// friendly refusal on denial
func (d *CommandDispatcher) requirePermission(ctx context.Context, inv *CommandInvocation) bool {
	if d.hasPermission(ctx, inv) {
		return true
	}
	d.say(ctx, inv, d.persona.Errors.NoPerms)
	return false
}

// isStrictAdmin checks the strict guard used by trust/untrust:
// administrator or owner only, trusted users do not qualify
func (d *CommandDispatcher) isStrictAdmin(ctx context.Context, inv *CommandInvocation) bool {
	if inv.GuildID == "" {
		return false
	}
	if admin, err := d.guildRepo.IsAdministrator(ctx, inv.GuildID, inv.AuthorID); err == nil && admin {
		return true
	}
	owner, err := d.guildRepo.IsOwner(ctx, inv.GuildID, inv.AuthorID)
	return err == nil && owner
}

// canModerate applies the role-hierarchy guard: the guild owner may
// act on anyone, everyone else must strictly outrank the target
func (d *CommandDispatcher) canModerate(ctx context.Context, inv *CommandInvocation, targetID string) bool {
	if owner, err := d.guildRepo.IsOwner(ctx, inv.GuildID, inv.AuthorID); err == nil && owner {
		return true
	}
	outranks, err := d.guildRepo.OutranksMember(ctx, inv.GuildID, inv.AuthorID, targetID)
	return err == nil && outranks
}

// stripMentionTokens drops user/role/channel mention tokens from
// argument fields, leaving the free-text portion
func stripMentionTokens(args []string) []string {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a, "<@") || strings.HasPrefix(a, "<#") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (d *CommandDispatcher) handleSetModel(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if len(inv.Args) < 1 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%ssetmodel <model_name>`", d.prefix))
		return
	}

	oldModel := d.generate.Model()
	d.generate.SetModel(inv.Args[0])
	d.say(ctx, inv, fmt.Sprintf("Model changed from %s to: %s", oldModel, inv.Args[0]))
}

func (d *CommandDispatcher) handleClearHistory(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if d.historyUC.Clear(inv.ChannelID) {
		d.say(ctx, inv, "Message history cleared for this channel.")
	} else {
		d.say(ctx, inv, "No message history found for this channel.")
	}
}

func (d *CommandDispatcher) handleAllowChannel(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	d.accessUC.AllowChannel(inv.ChannelID)
	d.say(ctx, inv, fmt.Sprintf("Bot will now respond in channel %s", d.channelLabel(ctx, inv.ChannelID)))
}

func (d *CommandDispatcher) handleDisallowChannel(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	d.accessUC.DisallowChannel(inv.ChannelID)
	d.say(ctx, inv, fmt.Sprintf("Bot will no longer respond in channel %s", d.channelLabel(ctx, inv.ChannelID)))
}

func (d *CommandDispatcher) handleListChannels(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}

	ids := d.accessUC.AllowedChannels()
	if len(ids) == 0 {
		d.say(ctx, inv, "Bot is currently allowed to respond in all channels.")
		return
	}

	var names []string
	for _, id := range ids {
		if info, err := d.chatRepo.ResolveChannel(ctx, id); err == nil {
			names = append(names, "#"+info.Name)
		}
	}
	if len(names) == 0 {
		d.say(ctx, inv, "No channels are currently allowed.")
		return
	}
	d.say(ctx, inv, fmt.Sprintf("Bot is allowed to respond in these channels:\n%s", strings.Join(names, ", ")))
}

func (d *CommandDispatcher) handleSetStatus(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	status := strings.Join(inv.Args, " ")
	if status == "" {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%ssetstatus <status text>`", d.prefix))
		return
	}
	if err := d.chatRepo.SetPresence(ctx, status); err != nil {
		d.say(ctx, inv, d.persona.Errors.BotNoPerms)
		return
	}
	d.say(ctx, inv, fmt.Sprintf("Updated my status to: %s %s", status, d.reaction()))
}

func (d *CommandDispatcher) handleSetSmartResponse(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if len(inv.Args) < 2 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%sset_smart_response <trigger> <response template>`", d.prefix))
		return
	}

	trigger := inv.Args[0]
	template := strings.Join(inv.Args[1:], " ")
	d.triggerUC.Set(trigger, template)
	d.say(ctx, inv, fmt.Sprintf("Smart response added for trigger: '%s' %s", strings.ToLower(trigger), d.reaction()))
}

func (d *CommandDispatcher) handleListSmartResponses(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}

	triggers := d.triggerUC.List()
	if len(triggers) == 0 {
		d.say(ctx, inv, "No smart responses configured yet! 📝")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Configured Smart Responses:**\n\n")
	for _, t := range triggers {
		sb.WriteString(fmt.Sprintf("📌 Trigger: '%s'\n💬 Response: %s\n\n", t.Pattern, t.Template))
	}
	d.say(ctx, inv, sb.String())
}

func (d *CommandDispatcher) handleScheduleMessage(ctx context.Context, inv *CommandInvocation) {
	if !d.requirePermission(ctx, inv) {
		return
	}
	if len(inv.MentionedChannelIDs) == 0 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%sschedule_message #channel 1h30m your message`", d.prefix))
		return
	}

	textArgs := stripMentionTokens(inv.Args)
	if len(textArgs) < 2 {
		d.say(ctx, inv, fmt.Sprintf("Usage: `%sschedule_message #channel 1h30m your message`", d.prefix))
		return
	}

	delay, err := usecase.ParseDelay(textArgs[0])
	if err != nil {
		d.say(ctx, inv, "Please provide a valid time (e.g., '1h', '30m', '2h30m')")
		return
	}

	channelID := inv.MentionedChannelIDs[0]
	body := strings.Join(textArgs[1:], " ")

	msg, err := d.scheduleUC.Schedule(channelID, body, inv.AuthorID, delay)
	if err != nil {
		d.say(ctx, inv, "Please provide a valid time (e.g., '1h', '30m', '2h30m')")
		return
	}

	d.say(ctx, inv, fmt.Sprintf("Message scheduled for %s in <#%s> 📅",
		msg.FireAt.Format("2006-01-02 15:04:05"), channelID))
}

// channelLabel resolves a channel to "#name", falling back to the
// mention form when the lookup fails
func (d *CommandDispatcher) channelLabel(ctx context.Context, channelID string) string {
	if info, err := d.chatRepo.ResolveChannel(ctx, channelID); err == nil && info.Name != "" {
		return "#" + info.Name
	}
	return fmt.Sprintf("<#%s>", channelID)
}
