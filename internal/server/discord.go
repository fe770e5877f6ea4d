package server

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/biz/repo"
	"github.com/kempysnetwork/kempai/internal/biz/usecase"
	"github.com/kempysnetwork/kempai/internal/conf"
	"github.com/kempysnetwork/kempai/internal/service"
)

var channelMentionRe = regexp.MustCompile(`<#(\d+)>`)

// DiscordServer owns the gateway connection. It translates raw gateway
// events into the router's inbound form and runs the lifecycle of the
// background sweeper alongside the session.
type DiscordServer struct {
	session    *discordgo.Session
	router     *service.MessageRouter
	dispatcher *service.CommandDispatcher
	sweeper    *service.Sweeper
	audit      *service.AuditLogger
	chatRepo   repo.ChatRepo
	prompts    *usecase.PromptBuilder
	persona    *conf.PersonaConfig

	randIntn func(int) int
}

// NewDiscordServer creates a Discord gateway server
func NewDiscordServer(
	session *discordgo.Session,
	router *service.MessageRouter,
	dispatcher *service.CommandDispatcher,
	sweeper *service.Sweeper,
	audit *service.AuditLogger,
	chatRepo repo.ChatRepo,
	prompts *usecase.PromptBuilder,
	persona *conf.PersonaConfig,
) *DiscordServer {
	return &DiscordServer{
		session:    session,
		router:     router,
		dispatcher: dispatcher,
		sweeper:    sweeper,
		audit:      audit,
		chatRepo:   chatRepo,
		prompts:    prompts,
		persona:    persona,
		randIntn:   rand.Intn,
	}
}

// Start registers handlers, opens the gateway connection and starts
// the sweeper
func (s *DiscordServer) Start(ctx context.Context) error {
	s.session.AddHandler(s.onReady)
	s.session.AddHandler(func(sess *discordgo.Session, m *discordgo.MessageCreate) {
		s.onMessageCreate(ctx, m)
	})
	s.session.AddHandler(func(sess *discordgo.Session, m *discordgo.GuildMemberAdd) {
		s.onGuildMemberAdd(ctx, m)
	})

	s.session.Identify.Intents = discordgo.IntentsAll

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	s.sweeper.Start(ctx)
	return nil
}

// Stop shuts down the sweeper and closes the gateway connection
func (s *DiscordServer) Stop() error {
	s.sweeper.Stop()
	if err := s.session.Close(); err != nil {
		return fmt.Errorf("close gateway: %w", err)
	}
	return nil
}

func (s *DiscordServer) onReady(sess *discordgo.Session, r *discordgo.Ready) {
	fmt.Printf("[Server] %s connected to %d guild(s)\n", r.User.Username, len(r.Guilds))

	if len(s.persona.StatusOptions) > 0 {
		status := s.persona.StatusOptions[s.randIntn(len(s.persona.StatusOptions))]
		if err := s.chatRepo.SetPresence(context.Background(), status); err != nil {
			fmt.Printf("[Server] Failed to set presence: %v\n", err)
		}
	}

	if len(s.persona.StartupMessages) > 0 {
		notice := s.persona.StartupMessages[s.randIntn(len(s.persona.StartupMessages))]
		s.audit.Announce(context.Background(), notice)
	}
}

func (s *DiscordServer) onMessageCreate(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.session.State.User.ID {
		return
	}

	channelName := ""
	isDM := m.GuildID == ""
	if info, err := s.chatRepo.ResolveChannel(ctx, m.ChannelID); err == nil {
		channelName = info.Name
		isDM = info.IsDM
	}

	msg := &service.InboundMessage{
		MessageID:   m.ID,
		ChannelID:   m.ChannelID,
		ChannelName: channelName,
		GuildID:     m.GuildID,
		AuthorID:    m.Author.ID,
		AuthorName:  authorDisplayName(m),
		AuthorIsBot: m.Author.Bot,
		Content:     m.Content,
		IsDM:        isDM,
	}

	if name, args, ok := s.dispatcher.Parse(m.Content); ok {
		msg.Command = s.buildInvocation(m, msg, name, args)
	}

	s.router.HandleMessage(ctx, msg)
}

// buildInvocation assembles the dispatcher's view of a prefixed
// command from the raw gateway message
func (s *DiscordServer) buildInvocation(m *discordgo.MessageCreate, msg *service.InboundMessage, name string, args []string) *service.CommandInvocation {
	inv := &service.CommandInvocation{
		Name:       name,
		Args:       args,
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: msg.AuthorName,
	}

	for _, u := range m.Mentions {
		if u == nil {
			continue
		}
		inv.MentionedUsers = append(inv.MentionedUsers, domain.Member{
			UserID: u.ID,
			Name:   u.Username,
			IsBot:  u.Bot,
		})
	}
	inv.MentionedRoleIDs = append(inv.MentionedRoleIDs, m.MentionRoles...)

	for _, match := range channelMentionRe.FindAllStringSubmatch(m.Content, -1) {
		inv.MentionedChannelIDs = append(inv.MentionedChannelIDs, match[1])
	}

	if m.MessageReference != nil {
		inv.ReferencedMessageID = m.MessageReference.MessageID
	}

	return inv
}

func (s *DiscordServer) onGuildMemberAdd(ctx context.Context, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	channelID := s.welcomeChannelID(m.GuildID)
	if channelID == "" {
		return
	}

	newcomer := domain.Member{UserID: m.User.ID, Name: m.User.Username}
	greeting := s.prompts.Greeting(s.randIntn(1<<16), newcomer.FormatMention())
	if _, err := s.chatRepo.SendText(ctx, channelID, greeting); err != nil {
		fmt.Printf("[Server] Failed to greet %s: %v\n", m.User.Username, err)
	}
}

// welcomeChannelID finds a sensible channel for greetings, preferring
// ones named general or welcome
func (s *DiscordServer) welcomeChannelID(guildID string) string {
	guild, err := s.session.State.Guild(guildID)
	if err != nil {
		return ""
	}

	fallback := ""
	for _, ch := range guild.Channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		lower := strings.ToLower(ch.Name)
		if lower == "general" || lower == "welcome" {
			return ch.ID
		}
		if fallback == "" {
			fallback = ch.ID
		}
	}
	return fallback
}

func authorDisplayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}
