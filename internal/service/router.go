package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/samber/mo"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/internal/biz/usecase"
)

// InboundMessage is the router's view of one received message
type InboundMessage struct {
	MessageID   string
	ChannelID   string
	ChannelName string
	GuildID     string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
	IsDM        bool

	// Command is set by the gateway layer when the text parses as a
	// prefixed command invocation
	Command *CommandInvocation
}

// MessageRouter decides, per inbound message, whether to dispatch a
// command, answer a trigger, or hold a conversation. It produces at
// most one outbound reply and is the top-level fault boundary for
// autonomous conversation handling; command dispatch failures are the
// dispatcher's own business.
type MessageRouter struct {
	historyUC  *usecase.HistoryUsecase
	triggerUC  *usecase.TriggerUsecase
	accessUC   *usecase.AccessUsecase
	prompts    *usecase.PromptBuilder
	chatRepo   repo.ChatRepo
	guildRepo  repo.GuildRepo
	generate   repo.GenerateRepo
	audit      *AuditLogger
	dispatcher *CommandDispatcher
	botName    string

	reactions      []string
	reactionChance float64
	randFloat      func() float64
	randIntn       func(int) int
}

// NewMessageRouter creates a message router
func NewMessageRouter(
	historyUC *usecase.HistoryUsecase,
	triggerUC *usecase.TriggerUsecase,
	accessUC *usecase.AccessUsecase,
	prompts *usecase.PromptBuilder,
	chatRepo repo.ChatRepo,
	guildRepo repo.GuildRepo,
	generate repo.GenerateRepo,
	audit *AuditLogger,
	dispatcher *CommandDispatcher,
	botName string,
	reactions []string,
) *MessageRouter {
	return &MessageRouter{
		historyUC:      historyUC,
		triggerUC:      triggerUC,
		accessUC:       accessUC,
		prompts:        prompts,
		chatRepo:       chatRepo,
		guildRepo:      guildRepo,
		generate:       generate,
		audit:          audit,
		dispatcher:     dispatcher,
		botName:        botName,
		reactions:      reactions,
		reactionChance: 0.2,
		randFloat:      rand.Float64,
		randIntn:       rand.Intn,
	}
}

// HandleMessage runs the decision chain for one inbound message:
// self-discard, audit, command short-circuit, allowed-channel gate,
// trigger scan, then the conversational path.
func (r *MessageRouter) HandleMessage(ctx context.Context, msg *InboundMessage) {
	if msg.AuthorIsBot {
		return
	}

	r.auditInbound(ctx, msg)

	// Any prefixed text stops here; unknown command names are simply
	// ignored, never treated as conversation.
	if r.dispatcher.IsCommandText(msg.Content) {
		if msg.Command != nil {
			r.dispatcher.Dispatch(ctx, msg.Command)
		}
		return
	}

	// The allowed-channel set gates autonomous replies in guild
	// channels only; an empty set means every channel is allowed.
	if !msg.IsDM && !r.accessUC.PermitsChannel(msg.ChannelID) {
		return
	}

	if trigger, ok := r.triggerUC.Match(msg.Content); ok {
		prompt := r.prompts.TriggerPrompt(trigger.Template, msg.Content, msg.AuthorName)
		reply := renderResult(r.generate.Generate(ctx, prompt))
		if _, err := r.chatRepo.Reply(ctx, msg.ChannelID, msg.MessageID, reply); err != nil {
			fmt.Printf("[Router] Failed to send trigger reply: %v\n", err)
		}
		return
	}

	if err := r.converse(ctx, msg); err != nil {
		errReply := fmt.Sprintf("An error occurred: %v", err)
		if _, sendErr := r.chatRepo.Reply(ctx, msg.ChannelID, msg.MessageID, errReply); sendErr != nil {
			fmt.Printf("[Router] Failed to send error reply: %v\n", sendErr)
		}
		if !msg.IsDM {
			r.audit.Log(ctx, msg.GuildID, AuditSystem, "Error", r.botName, msg.AuthorName, fmt.Sprintf("Error: %v", err))
		}
	}
}

// converse runs the conversational leg: history append, prompt build,
// inference, optional reaction, reply, audit
func (r *MessageRouter) converse(ctx context.Context, msg *InboundMessage) error {
	r.historyUC.AppendUser(msg.ChannelID, msg.Content)

	authorIsAdmin := false
	if !msg.IsDM {
		authorIsAdmin, _ = r.guildRepo.IsAdministrator(ctx, msg.GuildID, msg.AuthorID)
	}

	prompt := r.prompts.Conversation(r.historyUC.Render(msg.ChannelID), authorIsAdmin)
	reply := renderResult(r.generate.Generate(ctx, prompt))

	r.maybeReact(ctx, msg)

	r.historyUC.AppendAssistant(msg.ChannelID, reply)

	if _, err := r.chatRepo.Reply(ctx, msg.ChannelID, msg.MessageID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	r.auditOutbound(ctx, msg, reply)
	return nil
}

// maybeReact occasionally attaches a reaction emoji so the bot feels
// less mechanical. Cosmetic only: failures never abort the reply.
func (r *MessageRouter) maybeReact(ctx context.Context, msg *InboundMessage) {
	if len(r.reactions) == 0 || r.randFloat() >= r.reactionChance {
		return
	}
	emoji := r.reactions[r.randIntn(len(r.reactions))]
	if err := r.chatRepo.AddReaction(ctx, msg.ChannelID, msg.MessageID, emoji); err != nil {
		fmt.Printf("[Router] Reaction failed: %v\n", err)
	}
}

func (r *MessageRouter) auditInbound(ctx context.Context, msg *InboundMessage) {
	if msg.IsDM {
		r.audit.LogAllGuilds(ctx, AuditDM, "DM Received", msg.AuthorName, "Direct Message", truncate(msg.Content, 100))
		return
	}
	r.audit.Log(ctx, msg.GuildID, AuditChat, "Message Sent", msg.AuthorName, "#"+msg.ChannelName, truncate(msg.Content, 100))
}

func (r *MessageRouter) auditOutbound(ctx context.Context, msg *InboundMessage, reply string) {
	if msg.IsDM {
		r.audit.LogAllGuilds(ctx, AuditDM, "DM Sent", r.botName, msg.AuthorName, truncate(reply, 100))
		return
	}
	r.audit.Log(ctx, msg.GuildID, AuditChat, "Response Sent", r.botName, "#"+msg.ChannelName, truncate(reply, 100))
}

// renderResult renders a generate result as reply text. Failures are
// shown verbatim as if the model had said them, preserving the legacy
// string-typed error channel end users already see.
func renderResult(res mo.Result[string]) string {
	text, err := res.Get()
	if err != nil {
		return err.Error()
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
