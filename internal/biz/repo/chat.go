package repo

import (
	"context"
)

// ChannelInfo represents channel information
type ChannelInfo struct {
	ID      string
	Name    string
	GuildID string
	IsDM    bool
}

// ChatRepo is the chat platform messaging interface.
// Responsible for sending messages and reactions through the Discord API.
type ChatRepo interface {
	// SendText sends a plain text message to a channel.
	// Returns the ID of the sent message.
	SendText(ctx context.Context, channelID, text string) (string, error)

	// Reply sends a text message as a reply to an existing message.
	// Returns the ID of the sent message.
	Reply(ctx context.Context, channelID, messageID, text string) (string, error)

	// EditText replaces the content of a previously sent message
	EditText(ctx context.Context, channelID, messageID, text string) error

	// DeleteMessage deletes a single message
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// AddReaction adds an emoji reaction to a message
	AddReaction(ctx context.Context, channelID, messageID, emoji string) error

	// SendDM sends a direct message to a user
	SendDM(ctx context.Context, userID, text string) error

	// ResolveChannel looks up a channel by ID
	ResolveChannel(ctx context.Context, channelID string) (*ChannelInfo, error)

	// SetPresence updates the bot's game status
	SetPresence(ctx context.Context, status string) error
}
