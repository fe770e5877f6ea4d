package repo

import (
	"context"
	"time"

	"github.com/kempysnetwork/kempai/internal/biz/domain"
)

// GuildRepo is the guild administration interface.
// Covers permission queries and moderation actions against the Discord API.
type GuildRepo interface {
	// IsAdministrator checks if the user holds the administrator
	// permission or owns the guild
	IsAdministrator(ctx context.Context, guildID, userID string) (bool, error)

	// IsOwner checks if the user owns the guild
	IsOwner(ctx context.Context, guildID, userID string) (bool, error)

	// OutranksMember checks if the actor's top role is strictly above
	// the target's top role
	OutranksMember(ctx context.Context, guildID, actorID, targetID string) (bool, error)

	// RoleOutranksMember checks if the given role sits at or above the
	// member's top role
	RoleOutranksMember(ctx context.Context, guildID, roleID, userID string) (bool, error)

	// Kick removes a member from the guild
	Kick(ctx context.Context, guildID, userID, reason string) error

	// Ban bans a member from the guild
	Ban(ctx context.Context, guildID, userID, reason string) error

	// Timeout mutes a member until the given time
	Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error

	// ClearTimeout removes an active timeout
	ClearTimeout(ctx context.Context, guildID, userID string) error

	// Purge deletes up to limit recent messages from a channel and
	// returns how many were removed
	Purge(ctx context.Context, channelID string, limit int) (int, error)

	// Pin pins a message in its channel
	Pin(ctx context.Context, channelID, messageID string) error

	// HasRole checks if a member currently holds the role
	HasRole(ctx context.Context, guildID, userID, roleID string) (bool, error)

	// AddRole grants a role to a member
	AddRole(ctx context.Context, guildID, userID, roleID string) error

	// RemoveRole revokes a role from a member
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error

	// RoleName resolves a role's display name
	RoleName(ctx context.Context, guildID, roleID string) (string, error)

	// MembersWithRole lists non-bot members holding the role
	MembersWithRole(ctx context.Context, guildID, roleID string) ([]domain.Member, error)

	// MemberInfo fetches a member with resolved role names
	MemberInfo(ctx context.Context, guildID, userID string) (*domain.Member, error)

	// GuildIDs lists the guilds the bot currently serves
	GuildIDs(ctx context.Context) []string
}
