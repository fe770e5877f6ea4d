package data

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
	"github.com/kempysnetwork/kempai/internal/biz/repo"
)

// discordGuildRepo implements the guild administration repository
type discordGuildRepo struct {
	session *discordgo.Session
}

// NewDiscordGuildRepo creates a Discord-backed guild repository
func NewDiscordGuildRepo(session *discordgo.Session) repo.GuildRepo {
	return &discordGuildRepo{session: session}
}

func (r *discordGuildRepo) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	guild, err := r.session.State.Guild(guildID)
	if err == nil {
		return guild, nil
	}
	guild, err = r.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("resolve guild %s: %w", guildID, err)
	}
	return guild, nil
}

func (r *discordGuildRepo) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	member, err := r.session.State.Member(guildID, userID)
	if err == nil {
		return member, nil
	}
	member, err = r.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("resolve member %s: %w", userID, err)
	}
	return member, nil
}

// topRolePosition returns the highest role position the member holds.
// The @everyone role sits at position 0.
func topRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	top := 0
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Position > top {
				top = role.Position
			}
		}
	}
	return top
}

func (r *discordGuildRepo) IsAdministrator(ctx context.Context, guildID, userID string) (bool, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return false, err
	}
	if guild.OwnerID == userID {
		return true, nil
	}

	member, err := r.member(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID && role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *discordGuildRepo) IsOwner(ctx context.Context, guildID, userID string) (bool, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return false, err
	}
	return guild.OwnerID == userID, nil
}

func (r *discordGuildRepo) OutranksMember(ctx context.Context, guildID, actorID, targetID string) (bool, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return false, err
	}
	actor, err := r.member(ctx, guildID, actorID)
	if err != nil {
		return false, err
	}
	target, err := r.member(ctx, guildID, targetID)
	if err != nil {
		return false, err
	}
	return topRolePosition(guild, actor) > topRolePosition(guild, target), nil
}

func (r *discordGuildRepo) RoleOutranksMember(ctx context.Context, guildID, roleID, userID string) (bool, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return false, err
	}
	member, err := r.member(ctx, guildID, userID)
	if err != nil {
		return false, err
	}

	rolePos := 0
	for _, role := range guild.Roles {
		if role.ID == roleID {
			rolePos = role.Position
			break
		}
	}
	return rolePos >= topRolePosition(guild, member), nil
}

func (r *discordGuildRepo) Kick(ctx context.Context, guildID, userID, reason string) error {
	return r.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) Ban(ctx context.Context, guildID, userID, reason string) error {
	return r.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return r.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) ClearTimeout(ctx context.Context, guildID, userID string) error {
	return r.session.GuildMemberTimeout(guildID, userID, nil, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) Purge(ctx context.Context, channelID string, limit int) (int, error) {
	messages, err := r.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("fetch messages: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if err := r.session.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx)); err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return len(ids), nil
}

func (r *discordGuildRepo) Pin(ctx context.Context, channelID, messageID string) error {
	return r.session.ChannelMessagePin(channelID, messageID, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) HasRole(ctx context.Context, guildID, userID, roleID string) (bool, error) {
	member, err := r.member(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

func (r *discordGuildRepo) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return r.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return r.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (r *discordGuildRepo) RoleName(ctx context.Context, guildID, roleID string) (string, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return "", err
	}
	for _, role := range guild.Roles {
		if role.ID == roleID {
			return role.Name, nil
		}
	}
	return "", fmt.Errorf("role %s not found in guild %s", roleID, guildID)
}

func (r *discordGuildRepo) roleNames(guild *discordgo.Guild, member *discordgo.Member) []string {
	var names []string
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				names = append(names, role.Name)
			}
		}
	}
	return names
}

func memberDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}

func (r *discordGuildRepo) MembersWithRole(ctx context.Context, guildID, roleID string) ([]domain.Member, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}

	members := guild.Members
	if len(members) == 0 {
		members, err = r.session.GuildMembers(guildID, "", 1000, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
	}

	var result []domain.Member
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		for _, id := range m.Roles {
			if id == roleID {
				result = append(result, domain.Member{
					UserID:    m.User.ID,
					Name:      memberDisplayName(m),
					RoleNames: r.roleNames(guild, m),
				})
				break
			}
		}
	}
	return result, nil
}

func (r *discordGuildRepo) MemberInfo(ctx context.Context, guildID, userID string) (*domain.Member, error) {
	guild, err := r.guild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	member, err := r.member(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	isBot := member.User != nil && member.User.Bot
	return &domain.Member{
		UserID:    userID,
		Name:      memberDisplayName(member),
		IsBot:     isBot,
		RoleNames: r.roleNames(guild, member),
	}, nil
}

func (r *discordGuildRepo) GuildIDs(ctx context.Context) []string {
	var ids []string
	for _, g := range r.session.State.Guilds {
		ids = append(ids, g.ID)
	}
	return ids
}
