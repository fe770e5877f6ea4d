package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/biz/repo"
)

type sentMessage struct {
	ChannelID string
	MessageID string // set for replies and edits
	Text      string
}

type mockChatRepo struct {
	sent      []sentMessage
	replies   []sentMessage
	edits     []sentMessage
	deleted   []string
	reactions []string
	dms       map[string][]string

	channels map[string]*repo.ChannelInfo
	presence string

	sendErr  error
	replyErr error
	dmErr    map[string]error

	nextID int
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{
		dms:      make(map[string][]string),
		channels: make(map[string]*repo.ChannelInfo),
		dmErr:    make(map[string]error),
	}
}

func (m *mockChatRepo) addChannel(id, name, guildID string) {
	m.channels[id] = &repo.ChannelInfo{ID: id, Name: name, GuildID: guildID}
}

func (m *mockChatRepo) SendText(ctx context.Context, channelID, text string) (string, error) {
	if m.sendErr != nil {
		return "", m.sendErr
	}
	m.nextID++
	id := fmt.Sprintf("sent-%d", m.nextID)
	m.sent = append(m.sent, sentMessage{ChannelID: channelID, MessageID: id, Text: text})
	return id, nil
}

func (m *mockChatRepo) Reply(ctx context.Context, channelID, messageID, text string) (string, error) {
	if m.replyErr != nil {
		return "", m.replyErr
	}
	m.nextID++
	m.replies = append(m.replies, sentMessage{ChannelID: channelID, MessageID: messageID, Text: text})
	return fmt.Sprintf("sent-%d", m.nextID), nil
}

func (m *mockChatRepo) EditText(ctx context.Context, channelID, messageID, text string) error {
	m.edits = append(m.edits, sentMessage{ChannelID: channelID, MessageID: messageID, Text: text})
	return nil
}

func (m *mockChatRepo) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *mockChatRepo) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	m.reactions = append(m.reactions, emoji)
	return nil
}

func (m *mockChatRepo) SendDM(ctx context.Context, userID, text string) error {
	if err := m.dmErr[userID]; err != nil {
		return err
	}
	m.dms[userID] = append(m.dms[userID], text)
	return nil
}

func (m *mockChatRepo) ResolveChannel(ctx context.Context, channelID string) (*repo.ChannelInfo, error) {
	info, ok := m.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return info, nil
}

func (m *mockChatRepo) SetPresence(ctx context.Context, status string) error {
	m.presence = status
	return nil
}

type moderationCall struct {
	Action string
	UserID string
	Reason string
}

type mockGuildRepo struct {
	admins   map[string]bool
	owners   map[string]bool
	outranks bool

	memberRoles map[string][]string // userID -> roleIDs
	roleNames   map[string]string
	roleMembers map[string][]domain.Member
	members     map[string]*domain.Member
	guildIDs    []string

	calls       []moderationCall
	purged      int
	pinned      []string
	roleTooHigh bool
}

func newMockGuildRepo() *mockGuildRepo {
	return &mockGuildRepo{
		admins:      make(map[string]bool),
		owners:      make(map[string]bool),
		outranks:    true,
		memberRoles: make(map[string][]string),
		roleNames:   make(map[string]string),
		roleMembers: make(map[string][]domain.Member),
		members:     make(map[string]*domain.Member),
		guildIDs:    []string{"guild-1"},
	}
}

func (m *mockGuildRepo) IsAdministrator(ctx context.Context, guildID, userID string) (bool, error) {
	return m.admins[userID] || m.owners[userID], nil
}

func (m *mockGuildRepo) IsOwner(ctx context.Context, guildID, userID string) (bool, error) {
	return m.owners[userID], nil
}

func (m *mockGuildRepo) OutranksMember(ctx context.Context, guildID, actorID, targetID string) (bool, error) {
	return m.outranks, nil
}

func (m *mockGuildRepo) RoleOutranksMember(ctx context.Context, guildID, roleID, userID string) (bool, error) {
	return m.roleTooHigh, nil
}

func (m *mockGuildRepo) Kick(ctx context.Context, guildID, userID, reason string) error {
	m.calls = append(m.calls, moderationCall{"kick", userID, reason})
	return nil
}

func (m *mockGuildRepo) Ban(ctx context.Context, guildID, userID, reason string) error {
	m.calls = append(m.calls, moderationCall{"ban", userID, reason})
	return nil
}

func (m *mockGuildRepo) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	m.calls = append(m.calls, moderationCall{"timeout", userID, reason})
	return nil
}

func (m *mockGuildRepo) ClearTimeout(ctx context.Context, guildID, userID string) error {
	m.calls = append(m.calls, moderationCall{"clear-timeout", userID, ""})
	return nil
}

func (m *mockGuildRepo) Purge(ctx context.Context, channelID string, limit int) (int, error) {
	m.purged = limit
	return limit, nil
}

func (m *mockGuildRepo) Pin(ctx context.Context, channelID, messageID string) error {
	m.pinned = append(m.pinned, messageID)
	return nil
}

func (m *mockGuildRepo) HasRole(ctx context.Context, guildID, userID, roleID string) (bool, error) {
	for _, r := range m.memberRoles[userID] {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGuildRepo) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	m.memberRoles[userID] = append(m.memberRoles[userID], roleID)
	m.calls = append(m.calls, moderationCall{"add-role", userID, roleID})
	return nil
}

func (m *mockGuildRepo) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	var kept []string
	for _, r := range m.memberRoles[userID] {
		if r != roleID {
			kept = append(kept, r)
		}
	}
	m.memberRoles[userID] = kept
	m.calls = append(m.calls, moderationCall{"remove-role", userID, roleID})
	return nil
}

func (m *mockGuildRepo) RoleName(ctx context.Context, guildID, roleID string) (string, error) {
	name, ok := m.roleNames[roleID]
	if !ok {
		return "", fmt.Errorf("unknown role %s", roleID)
	}
	return name, nil
}

func (m *mockGuildRepo) MembersWithRole(ctx context.Context, guildID, roleID string) ([]domain.Member, error) {
	return m.roleMembers[roleID], nil
}

func (m *mockGuildRepo) MemberInfo(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	member, ok := m.members[userID]
	if !ok {
		return nil, fmt.Errorf("unknown member %s", userID)
	}
	return member, nil
}

func (m *mockGuildRepo) GuildIDs(ctx context.Context) []string {
	return m.guildIDs
}

type mockGenerateRepo struct {
	prompts []string
	reply   string
	err     error
	model   string
}

func newMockGenerateRepo(reply string) *mockGenerateRepo {
	return &mockGenerateRepo{reply: reply, model: "llama2"}
}

func (m *mockGenerateRepo) Generate(ctx context.Context, prompt string) mo.Result[string] {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return mo.Err[string](m.err)
	}
	return mo.Ok(m.reply)
}

func (m *mockGenerateRepo) Model() string { return m.model }

func (m *mockGenerateRepo) SetModel(model string) { m.model = model }
