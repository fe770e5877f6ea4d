package data

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kempysnetwork/kempai/internal/biz/repo"
)

// discordChatRepo implements the chat messaging repository
type discordChatRepo struct {
	session *discordgo.Session
}

// NewDiscordChatRepo creates a Discord-backed chat repository
func NewDiscordChatRepo(session *discordgo.Session) repo.ChatRepo {
	return &discordChatRepo{session: session}
}

func (r *discordChatRepo) SendText(ctx context.Context, channelID, text string) (string, error) {
	sent, err := r.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return sent.ID, nil
}

func (r *discordChatRepo) Reply(ctx context.Context, channelID, messageID, text string) (string, error) {
	sent, err := r.session.ChannelMessageSendReply(channelID, text, &discordgo.MessageReference{
		MessageID: messageID,
		ChannelID: channelID,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	return sent.ID, nil
}

func (r *discordChatRepo) EditText(ctx context.Context, channelID, messageID, text string) error {
	_, err := r.session.ChannelMessageEdit(channelID, messageID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (r *discordChatRepo) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := r.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (r *discordChatRepo) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	if err := r.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add reaction: %w", err)
	}
	return nil
}

func (r *discordChatRepo) SendDM(ctx context.Context, userID, text string) error {
	channel, err := r.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = r.session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send DM: %w", err)
	}
	return nil
}

func (r *discordChatRepo) ResolveChannel(ctx context.Context, channelID string) (*repo.ChannelInfo, error) {
	channel, err := r.session.State.Channel(channelID)
	if err != nil {
		channel, err = r.session.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("resolve channel %s: %w", channelID, err)
		}
	}

	return &repo.ChannelInfo{
		ID:      channel.ID,
		Name:    channel.Name,
		GuildID: channel.GuildID,
		IsDM:    channel.Type == discordgo.ChannelTypeDM || channel.Type == discordgo.ChannelTypeGroupDM,
	}, nil
}

func (r *discordChatRepo) SetPresence(ctx context.Context, status string) error {
	if err := r.session.UpdateGameStatus(0, status); err != nil {
		return fmt.Errorf("update presence: %w", err)
	}
	return nil
}
